package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

// InsertWeatherReading appends one reading. Rows are never updated in place.
func (r *SQLiteRepository) InsertWeatherReading(ctx context.Context, reading *models.WeatherReading) error {
	query := `
		INSERT INTO weather_data (
			timestamp, indoor_temp, indoor_humidity, outdoor_temp, outdoor_humidity,
			wind_speed, wind_gust, wind_direction, rain_hourly, rain_daily,
			rain_weekly, rain_monthly, rain_total, pressure, uv_index,
			solar_radiation, feels_like, dew_point, lightning_count, lightning_distance,
			battery_outdoor, battery_indoor
		) VALUES (
			:timestamp, :indoor_temp, :indoor_humidity, :outdoor_temp, :outdoor_humidity,
			:wind_speed, :wind_gust, :wind_direction, :rain_hourly, :rain_daily,
			:rain_weekly, :rain_monthly, :rain_total, :pressure, :uv_index,
			:solar_radiation, :feels_like, :dew_point, :lightning_count, :lightning_distance,
			:battery_outdoor, :battery_indoor
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, reading); err != nil {
		return fmt.Errorf("insert weather reading: %w", err)
	}
	return nil
}

// LatestWeatherReading returns the newest reading by capture timestamp,
// or (nil, nil) when no data has been collected yet.
func (r *SQLiteRepository) LatestWeatherReading(ctx context.Context) (*models.WeatherReading, error) {
	var reading models.WeatherReading
	err := r.db.GetContext(ctx, &reading,
		`SELECT * FROM weather_data ORDER BY timestamp DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest weather reading: %w", err)
	}
	return &reading, nil
}

// WeatherHistory returns readings with timestamp >= since, newest first.
func (r *SQLiteRepository) WeatherHistory(ctx context.Context, since int64, limit int) ([]*models.WeatherReading, error) {
	var readings []*models.WeatherReading
	err := r.db.SelectContext(ctx, &readings,
		`SELECT * FROM weather_data WHERE timestamp >= ? ORDER BY timestamp DESC LIMIT ?`,
		since, limit)
	if err != nil {
		return nil, fmt.Errorf("weather history: %w", err)
	}
	return readings, nil
}

// WeatherStats aggregates readings with timestamp >= since.
func (r *SQLiteRepository) WeatherStats(ctx context.Context, since int64) (*models.WeatherStats, error) {
	var stats models.WeatherStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			MIN(outdoor_temp) AS min_temp,
			MAX(outdoor_temp) AS max_temp,
			AVG(outdoor_temp) AS avg_temp,
			MIN(indoor_temp) AS min_indoor_temp,
			MAX(indoor_temp) AS max_indoor_temp,
			AVG(indoor_temp) AS avg_indoor_temp,
			MAX(wind_speed) AS max_wind,
			MAX(wind_gust) AS max_gust,
			SUM(rain_hourly) AS total_rain,
			AVG(outdoor_humidity) AS avg_humidity,
			MAX(lightning_count) AS max_lightning
		FROM weather_data
		WHERE timestamp >= ?
	`, since)
	if err != nil {
		return nil, fmt.Errorf("weather stats: %w", err)
	}
	return &stats, nil
}

// DeleteWeatherBefore removes readings with timestamp strictly older than
// cutoff (epoch ms) and returns the number deleted.
func (r *SQLiteRepository) DeleteWeatherBefore(ctx context.Context, cutoff int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM weather_data WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete weather readings: %w", err)
	}
	return res.RowsAffected()
}

// PurgeWeather removes all weather readings.
func (r *SQLiteRepository) PurgeWeather(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM weather_data`); err != nil {
		return fmt.Errorf("purge weather data: %w", err)
	}
	return nil
}

// CountWeather returns the total number of weather readings.
func (r *SQLiteRepository) CountWeather(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM weather_data`); err != nil {
		return 0, fmt.Errorf("count weather data: %w", err)
	}
	return count, nil
}

// WeatherTimestampRange returns the oldest and newest capture timestamps,
// nil when the table is empty.
func (r *SQLiteRepository) WeatherTimestampRange(ctx context.Context) (oldest, newest *int64, err error) {
	var bounds struct {
		Oldest *int64 `db:"oldest"`
		Newest *int64 `db:"newest"`
	}
	err = r.db.GetContext(ctx, &bounds,
		`SELECT MIN(timestamp) AS oldest, MAX(timestamp) AS newest FROM weather_data`)
	if err != nil {
		return nil, nil, fmt.Errorf("weather timestamp range: %w", err)
	}
	return bounds.Oldest, bounds.Newest, nil
}
