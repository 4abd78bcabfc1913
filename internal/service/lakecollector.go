package service

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/models"
	"github.com/kanopolanes/lakehub-backend/internal/pkg/metrics"
	"github.com/kanopolanes/lakehub-backend/internal/repository"
)

// LakeCollector persists a lake reading on a settings-driven interval.
// Same lifecycle contract as WeatherCollector: immediate first cycle,
// idempotent Start, Restart to pick up interval changes.
type LakeCollector struct {
	lake     *LakeService
	repo     *repository.SQLiteRepository
	settings *Settings
	log      *slog.Logger

	mu          sync.Mutex
	running     bool
	intervalMin int
	stopCh      chan struct{}

	inFlight atomic.Bool
}

func NewLakeCollector(lake *LakeService, repo *repository.SQLiteRepository, settings *Settings, log *slog.Logger) *LakeCollector {
	return &LakeCollector{
		lake:     lake,
		repo:     repo,
		settings: settings,
		log:      log.With("component", "lake-collector"),
	}
}

func (c *LakeCollector) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.log.Info("lake collector already running")
		return
	}
	c.intervalMin = c.settings.Minutes(ctx, KeyLakeInterval, DefaultLakeIntervalMinutes)
	c.stopCh = make(chan struct{})
	c.running = true

	stopCh := c.stopCh
	interval := time.Duration(c.intervalMin) * time.Minute
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		c.Collect(ctx)

		for {
			select {
			case <-ticker.C:
				c.Collect(ctx)
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	c.log.Info("lake collector started", "interval_minutes", c.intervalMin)
}

func (c *LakeCollector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	close(c.stopCh)
	c.running = false
	c.log.Info("lake collector stopped")
}

func (c *LakeCollector) Restart(ctx context.Context) {
	c.Stop()
	c.Start(ctx)
}

func (c *LakeCollector) Status() models.ComponentStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.ComponentStatus{Running: c.running, IntervalMinutes: c.intervalMin}
}

// Collect persists the current lake conditions. A reading without a pool
// elevation is not worth a history row and is skipped.
func (c *LakeCollector) Collect(ctx context.Context) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.log.Warn("previous collection cycle still running, skipping tick")
		metrics.CollectorRunsTotal.WithLabelValues("lake", "skipped").Inc()
		return
	}
	defer c.inFlight.Store(false)

	cond, err := c.lake.Conditions(ctx)
	if err != nil {
		c.log.Error("lake fetch failed", "error", err)
		metrics.CollectorRunsTotal.WithLabelValues("lake", "upstream_error").Inc()
		return
	}
	if cond == nil || cond.Elevation == nil {
		c.log.Warn("lake conditions missing elevation, nothing to save")
		metrics.CollectorRunsTotal.WithLabelValues("lake", "skipped").Inc()
		return
	}

	reading := &models.LakeReading{
		Timestamp:         time.Now().UnixMilli(),
		Elevation:         cond.Elevation,
		ConservationLevel: &cond.ConservationLevel,
		LevelDiff:         cond.LevelDiff,
		StorageAcreFt:     cond.StorageAcreFt,
		WaterTempC:        cond.WaterTempC,
		WaterTempF:        cond.WaterTempF,
		OutflowCFS:        cond.OutflowCFS,
	}
	if err := c.repo.InsertLakeReading(ctx, reading); err != nil {
		c.log.Error("lake reading save failed", "error", err)
		metrics.CollectorRunsTotal.WithLabelValues("lake", "storage_error").Inc()
		return
	}
	c.log.Info("lake reading saved", "elevation", *cond.Elevation)
	metrics.CollectorRunsTotal.WithLabelValues("lake", "ok").Inc()
}
