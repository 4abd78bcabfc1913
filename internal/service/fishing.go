package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/models"
	"github.com/kanopolanes/lakehub-backend/internal/upstream"
	"github.com/kanopolanes/lakehub-backend/internal/upstream/fallback"
)

// The KDWP report changes weekly at most, so one fetch a day is plenty.
const fishingCacheTTL = 24 * time.Hour

// FishingReportFetcher is the KDWP page scraper surface.
type FishingReportFetcher interface {
	Report(ctx context.Context) (*models.FishingReport, error)
}

// FishingService serves the Kanopolis fishing report through the
// stale-fallback cache. Nothing is persisted.
type FishingService struct {
	fetcher FishingReportFetcher
	cache   *fallback.Cache[*models.FishingReport]
}

func NewFishingService(fetcher FishingReportFetcher, log *slog.Logger) *FishingService {
	return &FishingService{
		fetcher: fetcher,
		cache:   fallback.New[*models.FishingReport]("fishing", fishingCacheTTL, log),
	}
}

// Report returns the cached fishing report. When the scrape fails and
// nothing is cached yet, a placeholder pointing at the source page is
// served instead of an error.
func (s *FishingService) Report(ctx context.Context) *models.FishingReport {
	result, err := s.cache.GetOrFetch(ctx, func(ctx context.Context) (*models.FishingReport, error) {
		return s.fetcher.Report(ctx)
	})
	if err != nil {
		msg := "Unable to fetch fishing report. Visit ksoutdoors.gov for the latest."
		return &models.FishingReport{
			Species:   []models.FishingSpecies{},
			Report:    &msg,
			Source:    upstream.FishingSource,
			URL:       upstream.FishingReportURL,
			FetchedAt: time.Now().UTC().Format(time.RFC3339),
			Error:     true,
		}
	}
	return result
}
