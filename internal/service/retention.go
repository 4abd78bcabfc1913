package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/models"
	"github.com/kanopolanes/lakehub-backend/internal/pkg/metrics"
	"github.com/kanopolanes/lakehub-backend/internal/repository"
)

// sweepHour is the local wall-clock hour of the daily retention sweep.
const sweepHour = 3

// RetentionService deletes rows older than each dataset's configured
// retention window: once at process start, then daily at 3 AM. Each
// dataset's delete is independent, so one failure never aborts the others.
type RetentionService struct {
	repo     *repository.SQLiteRepository
	settings *Settings
	log      *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
}

func NewRetentionService(repo *repository.SQLiteRepository, settings *Settings, log *slog.Logger) *RetentionService {
	return &RetentionService{
		repo:     repo,
		settings: settings,
		log:      log.With("component", "retention"),
		now:      time.Now,
	}
}

// Start sweeps immediately, then arms the daily 3 AM timer. Idempotent.
func (s *RetentionService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.log.Info("retention service already running")
		return
	}
	s.stopCh = make(chan struct{})
	s.running = true

	stopCh := s.stopCh
	go func() {
		s.Sweep(ctx)

		for {
			timer := time.NewTimer(untilNextSweep(s.now()))
			select {
			case <-timer.C:
				s.Sweep(ctx)
			case <-stopCh:
				timer.Stop()
				return
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}
	}()

	s.log.Info("retention service started", "sweep_hour", sweepHour)
}

func (s *RetentionService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
	s.log.Info("retention service stopped")
}

func (s *RetentionService) Status() models.ComponentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ComponentStatus{Running: s.running}
}

// Sweep deletes rows strictly older than each dataset's cutoff and returns
// the per-dataset delete counts.
func (s *RetentionService) Sweep(ctx context.Context) map[string]int64 {
	weatherDays := s.settings.Days(ctx, KeyWeatherRetentionDays, DefaultWeatherRetentionDays)
	lakeDays := s.settings.Days(ctx, KeyLakeRetentionDays, DefaultLakeRetentionDays)
	alertDays := s.settings.Days(ctx, KeyAlertRetentionDays, DefaultAlertRetentionDays)

	now := s.now()
	deleted := map[string]int64{}

	if n, err := s.repo.DeleteWeatherBefore(ctx, cutoffMillis(now, weatherDays)); err != nil {
		s.log.Error("weather retention sweep failed", "error", err)
	} else {
		deleted["weather"] = n
		metrics.RetentionDeletedTotal.WithLabelValues("weather").Add(float64(n))
	}

	if n, err := s.repo.DeleteLakeBefore(ctx, cutoffMillis(now, lakeDays)); err != nil {
		s.log.Error("lake retention sweep failed", "error", err)
	} else {
		deleted["lake"] = n
		metrics.RetentionDeletedTotal.WithLabelValues("lake").Add(float64(n))
	}

	if n, err := s.repo.DeleteAlertEventsBefore(ctx, now.Add(-time.Duration(alertDays)*24*time.Hour).UTC()); err != nil {
		s.log.Error("alert history retention sweep failed", "error", err)
	} else {
		deleted["alert_history"] = n
		metrics.RetentionDeletedTotal.WithLabelValues("alert_history").Add(float64(n))
	}

	total := deleted["weather"] + deleted["lake"] + deleted["alert_history"]
	if total > 0 {
		s.log.Info("retention sweep completed",
			"weather", deleted["weather"], "lake", deleted["lake"], "alert_history", deleted["alert_history"])
	} else {
		s.log.Info("retention sweep completed, nothing to delete")
	}
	return deleted
}

func cutoffMillis(now time.Time, days int) int64 {
	return now.UnixMilli() - int64(days)*86400000
}

// untilNextSweep returns the wait until the next 3 AM local time.
func untilNextSweep(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), sweepHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
