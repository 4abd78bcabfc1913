// Package service holds the background collectors, the alert evaluator, the
// retention sweeper, and the read services backing the REST handlers.
package service

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/kanopolanes/lakehub-backend/internal/models"
	"github.com/kanopolanes/lakehub-backend/internal/repository"
)

// Settings table keys read by the background services.
const (
	KeyWeatherInterval       = "weather_collection_interval"
	KeyLakeInterval          = "lake_collection_interval"
	KeyWeatherRetentionDays  = "data_retention_days"
	KeyLakeRetentionDays     = "lake_retention_days"
	KeyAlertRetentionDays    = "alert_history_retention_days"
	KeyLakeStationID         = "lake_station_id"
	KeyDamStationID          = "dam_station_id"
	KeyConservationPoolLevel = "conservation_pool_level"
	KeyLatitude              = "latitude"
	KeyLongitude             = "longitude"
)

// Hardcoded fallbacks used when a setting is missing or unparseable.
const (
	DefaultWeatherIntervalMinutes = 5
	DefaultLakeIntervalMinutes    = 30
	DefaultWeatherRetentionDays   = 90
	DefaultLakeRetentionDays      = 180
	DefaultAlertRetentionDays     = 30
	DefaultLakeStationID          = "06865000"
	DefaultDamStationID           = "06865500"
	DefaultConservationPoolLevel  = 1463
	DefaultLatitude               = "38.66"
	DefaultLongitude              = "-98.78"
)

// Settings reads the settings table with parse-with-default semantics at
// this boundary, so a bad value never fails a collection cycle. Values are
// re-read on each access; they change rarely and one-tick staleness is fine.
type Settings struct {
	repo *repository.SQLiteRepository
	log  *slog.Logger
}

func NewSettings(repo *repository.SQLiteRepository, log *slog.Logger) *Settings {
	return &Settings{repo: repo, log: log}
}

// Get returns the raw string value, or fallback when the key is missing
// or the read fails.
func (s *Settings) Get(ctx context.Context, key, fallback string) string {
	value, ok, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		s.log.Warn("settings read failed, using default", "key", key, "default", fallback, "error", err)
		return fallback
	}
	if !ok || value == "" {
		return fallback
	}
	return value
}

// Number parses a setting as a float, falling back on missing or
// unparseable values.
func (s *Settings) Number(ctx context.Context, key string, fallback float64) float64 {
	value, ok, err := s.repo.GetSetting(ctx, key)
	if err != nil {
		s.log.Warn("settings read failed, using default", "key", key, "default", fallback, "error", err)
		return fallback
	}
	if !ok {
		return fallback
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		s.log.Warn("setting is not a number, using default", "key", key, "value", value, "default", fallback)
		return fallback
	}
	return n
}

// Minutes parses a positive whole-minute interval, falling back otherwise.
func (s *Settings) Minutes(ctx context.Context, key string, fallback int) int {
	n := int(s.Number(ctx, key, float64(fallback)))
	if n <= 0 {
		return fallback
	}
	return n
}

// Days parses a positive retention window in days, falling back otherwise.
func (s *Settings) Days(ctx context.Context, key string, fallback int) int {
	n := int(s.Number(ctx, key, float64(fallback)))
	if n <= 0 {
		return fallback
	}
	return n
}

// Stats assembles the admin data statistics payload.
func (s *Settings) Stats(ctx context.Context, dbPath string) (*models.DataStats, error) {
	stats := &models.DataStats{}

	var err error
	if stats.WeatherRecords, err = s.repo.CountWeather(ctx); err != nil {
		return nil, err
	}
	if stats.LakeRecords, err = s.repo.CountLake(ctx); err != nil {
		return nil, err
	}
	if stats.AlertHistoryRecords, err = s.repo.CountAlertEvents(ctx); err != nil {
		return nil, err
	}
	if stats.AlertRules, _, err = s.repo.CountAlertRules(ctx); err != nil {
		return nil, err
	}
	if stats.WeatherOldest, stats.WeatherNewest, err = s.repo.WeatherTimestampRange(ctx); err != nil {
		return nil, err
	}
	if stats.LakeOldest, stats.LakeNewest, err = s.repo.LakeTimestampRange(ctx); err != nil {
		return nil, err
	}

	if info, err := os.Stat(dbPath); err == nil {
		stats.DBSizeBytes = info.Size()
		stats.DBSizeMB = float64(info.Size()) / 1024 / 1024
		stats.DBSizeMB = float64(int(stats.DBSizeMB*100)) / 100
	}
	return stats, nil
}
