package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/models"
	"github.com/kanopolanes/lakehub-backend/internal/upstream"
	"github.com/kanopolanes/lakehub-backend/internal/upstream/fallback"
)

// Cache TTLs per source: advisories are time-sensitive, forecast and
// sun/moon change slowly.
const (
	forecastCacheTTL   = 30 * time.Minute
	sunMoonCacheTTL    = 30 * time.Minute
	advisoriesCacheTTL = 5 * time.Minute
)

// ForecastFetcher is the Open-Meteo adapter surface used by ForecastService.
type ForecastFetcher interface {
	Forecast(ctx context.Context, lat, lon float64) (*models.Forecast, error)
	SunData(ctx context.Context, lat, lon string) (sunrise, sunset *string, daylightSec *float64, err error)
}

// AdvisoryFetcher is the NWS active-alerts adapter surface.
type AdvisoryFetcher interface {
	ActiveAlerts(ctx context.Context, lat, lon string) (*models.Advisories, error)
}

// ForecastService serves forecast, sun/moon, and NWS advisory data. Nothing
// here is persisted; these are cache-backed live reads only.
type ForecastService struct {
	forecaster ForecastFetcher
	advisories AdvisoryFetcher
	settings   *Settings

	forecastCache *fallback.Cache[*models.Forecast]
	sunMoonCache  *fallback.Cache[*models.SunMoon]
	advisoryCache *fallback.Cache[*models.Advisories]
}

func NewForecastService(forecaster ForecastFetcher, advisories AdvisoryFetcher, settings *Settings, log *slog.Logger) *ForecastService {
	return &ForecastService{
		forecaster:    forecaster,
		advisories:    advisories,
		settings:      settings,
		forecastCache: fallback.New[*models.Forecast]("forecast", forecastCacheTTL, log),
		sunMoonCache:  fallback.New[*models.SunMoon]("sunmoon", sunMoonCacheTTL, log),
		advisoryCache: fallback.New[*models.Advisories]("nws-alerts", advisoriesCacheTTL, log),
	}
}

func (s *ForecastService) coordinates(ctx context.Context) (latStr, lonStr string, lat, lon float64) {
	latStr = s.settings.Get(ctx, KeyLatitude, DefaultLatitude)
	lonStr = s.settings.Get(ctx, KeyLongitude, DefaultLongitude)
	lat = s.settings.Number(ctx, KeyLatitude, 38.66)
	lon = s.settings.Number(ctx, KeyLongitude, -98.78)
	return latStr, lonStr, lat, lon
}

// Forecast returns the cached hourly/daily forecast for the configured spot.
func (s *ForecastService) Forecast(ctx context.Context) (*models.Forecast, error) {
	return s.forecastCache.GetOrFetch(ctx, func(ctx context.Context) (*models.Forecast, error) {
		_, _, lat, lon := s.coordinates(ctx)
		return s.forecaster.Forecast(ctx, lat, lon)
	})
}

// SunMoon returns sunrise/sunset from Open-Meteo plus computed moon phase.
// When the sun data fetch fails and no cache exists, moon data alone is
// still returned since the phase is pure computation and never unavailable.
func (s *ForecastService) SunMoon(ctx context.Context) (*models.SunMoon, error) {
	result, err := s.sunMoonCache.GetOrFetch(ctx, func(ctx context.Context) (*models.SunMoon, error) {
		latStr, lonStr, _, _ := s.coordinates(ctx)
		sunrise, sunset, daylightSec, err := s.forecaster.SunData(ctx, latStr, lonStr)
		if err != nil {
			return nil, err
		}
		sm := buildSunMoon(time.Now())
		sm.Sunrise = sunrise
		sm.Sunset = sunset
		if daylightSec != nil {
			hours := int(*daylightSec) / 3600
			minutes := (int(*daylightSec)%3600 + 30) / 60
			length := fmt.Sprintf("%dh %dm", hours, minutes)
			sm.DayLength = &length
		}
		return sm, nil
	})
	if err != nil {
		return buildSunMoon(time.Now()), nil
	}
	return result, nil
}

// Advisories returns active NWS alerts for the configured point. On total
// failure an empty advisory list is served rather than an error, since the
// dashboard treats "none known" and "none active" the same way.
func (s *ForecastService) Advisories(ctx context.Context) *models.Advisories {
	result, err := s.advisoryCache.GetOrFetch(ctx, func(ctx context.Context) (*models.Advisories, error) {
		latStr, lonStr, _, _ := s.coordinates(ctx)
		return s.advisories.ActiveAlerts(ctx, latStr, lonStr)
	})
	if err != nil {
		return &models.Advisories{
			Alerts:    []models.Advisory{},
			Count:     0,
			FetchedAt: time.Now().UTC().Format(time.RFC3339),
		}
	}
	return result
}

func buildSunMoon(now time.Time) *models.SunMoon {
	phase := upstream.MoonPhase(now)
	name, emoji := upstream.MoonPhaseName(phase)
	return &models.SunMoon{
		MoonPhase:        name,
		MoonEmoji:        emoji,
		MoonIllumination: upstream.MoonIllumination(phase),
		FetchedAt:        now.UTC().Format(time.RFC3339),
	}
}
