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

// WeatherFetcher is the upstream weather station adapter. A (nil, nil)
// result means the account has no reporting devices.
type WeatherFetcher interface {
	Current(ctx context.Context) (*models.WeatherReading, error)
}

// WeatherCollector polls the weather station on a settings-driven interval
// and appends each normalized reading. The interval is read once at Start;
// a later settings change needs Restart to take effect.
type WeatherCollector struct {
	fetcher  WeatherFetcher
	repo     *repository.SQLiteRepository
	settings *Settings
	log      *slog.Logger

	mu          sync.Mutex
	running     bool
	intervalMin int
	stopCh      chan struct{}

	// Keeps cycles single-flight: a tick that fires while the previous
	// cycle is still in its fetch is skipped, not stacked.
	inFlight atomic.Bool
}

func NewWeatherCollector(fetcher WeatherFetcher, repo *repository.SQLiteRepository, settings *Settings, log *slog.Logger) *WeatherCollector {
	return &WeatherCollector{
		fetcher:  fetcher,
		repo:     repo,
		settings: settings,
		log:      log.With("component", "weather-collector"),
	}
}

// Start begins collecting: one cycle immediately, then every interval.
// Calling Start while running is a logged no-op.
func (c *WeatherCollector) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.log.Info("weather collector already running")
		return
	}
	c.intervalMin = c.settings.Minutes(ctx, KeyWeatherInterval, DefaultWeatherIntervalMinutes)
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

	c.log.Info("weather collector started", "interval_minutes", c.intervalMin)
}

// Stop cancels the pending timer. An in-flight cycle finishes and writes
// its result; that is accepted.
func (c *WeatherCollector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	close(c.stopCh)
	c.running = false
	c.log.Info("weather collector stopped")
}

// Restart picks up a changed collection interval from settings.
func (c *WeatherCollector) Restart(ctx context.Context) {
	c.Stop()
	c.Start(ctx)
}

// Status reports the running state and configured interval.
func (c *WeatherCollector) Status() models.ComponentStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.ComponentStatus{Running: c.running, IntervalMinutes: c.intervalMin}
}

// Collect runs one fetch-normalize-persist cycle. Failures are logged and
// never stop the ticker; a missed sample is not retried.
func (c *WeatherCollector) Collect(ctx context.Context) {
	if !c.inFlight.CompareAndSwap(false, true) {
		c.log.Warn("previous collection cycle still running, skipping tick")
		metrics.CollectorRunsTotal.WithLabelValues("weather", "skipped").Inc()
		return
	}
	defer c.inFlight.Store(false)

	reading, err := c.fetcher.Current(ctx)
	if err != nil {
		c.log.Error("weather fetch failed", "error", err)
		metrics.CollectorRunsTotal.WithLabelValues("weather", "upstream_error").Inc()
		return
	}
	if reading == nil {
		c.log.Warn("no weather devices reporting, nothing to save")
		metrics.CollectorRunsTotal.WithLabelValues("weather", "skipped").Inc()
		return
	}

	if err := c.repo.InsertWeatherReading(ctx, reading); err != nil {
		c.log.Error("weather reading save failed", "error", err)
		metrics.CollectorRunsTotal.WithLabelValues("weather", "storage_error").Inc()
		return
	}
	c.log.Info("weather reading saved", "timestamp", reading.Timestamp)
	metrics.CollectorRunsTotal.WithLabelValues("weather", "ok").Inc()
}
