package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/models"
	"github.com/kanopolanes/lakehub-backend/internal/upstream/fallback"
)

const lakeCacheTTL = 30 * time.Minute

// LakeConditionsFetcher is the USGS gauge adapter.
type LakeConditionsFetcher interface {
	Conditions(ctx context.Context, lakeStation, damStation string, conservationLevel float64) (*models.LakeConditions, error)
}

// LakeService serves live lake conditions through the stale-fallback cache.
// It is shared by the lake collector and the REST read path so both see the
// same cached value.
type LakeService struct {
	fetcher  LakeConditionsFetcher
	settings *Settings
	cache    *fallback.Cache[*models.LakeConditions]
}

func NewLakeService(fetcher LakeConditionsFetcher, settings *Settings, log *slog.Logger) *LakeService {
	return &LakeService{
		fetcher:  fetcher,
		settings: settings,
		cache:    fallback.New[*models.LakeConditions]("lake", lakeCacheTTL, log),
	}
}

// Conditions returns current lake conditions, cached for 30 minutes and
// served stale when the gauge API is down. Station IDs come from settings
// on every refresh so an admin change is picked up at the next expiry.
func (s *LakeService) Conditions(ctx context.Context) (*models.LakeConditions, error) {
	return s.cache.GetOrFetch(ctx, func(ctx context.Context) (*models.LakeConditions, error) {
		lakeStation := s.settings.Get(ctx, KeyLakeStationID, DefaultLakeStationID)
		damStation := s.settings.Get(ctx, KeyDamStationID, DefaultDamStationID)
		conservation := s.settings.Number(ctx, KeyConservationPoolLevel, DefaultConservationPoolLevel)
		return s.fetcher.Conditions(ctx, lakeStation, damStation, conservation)
	})
}
