package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/models"
	"github.com/kanopolanes/lakehub-backend/internal/pkg/metrics"
	"github.com/kanopolanes/lakehub-backend/internal/repository"
)

// alertCooldown is the minimum gap between repeated firings of one rule.
const alertCooldown = 15 * time.Minute

// AlertEvaluator checks enabled threshold rules against the latest weather
// reading on its own timer. Cooldown state lives in memory on the instance;
// a restart right after a trigger can produce one duplicate event, which is
// accepted for this dashboard.
type AlertEvaluator struct {
	repo        *repository.SQLiteRepository
	log         *slog.Logger
	intervalMin int
	cooldown    time.Duration
	now         func() time.Time

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	lastFired map[int64]time.Time
}

func NewAlertEvaluator(repo *repository.SQLiteRepository, intervalMinutes int, log *slog.Logger) *AlertEvaluator {
	if intervalMinutes <= 0 {
		intervalMinutes = 1
	}
	return &AlertEvaluator{
		repo:        repo,
		log:         log.With("component", "alert-evaluator"),
		intervalMin: intervalMinutes,
		cooldown:    alertCooldown,
		now:         time.Now,
		lastFired:   make(map[int64]time.Time),
	}
}

// Start arms the evaluation timer. Idempotent.
func (e *AlertEvaluator) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		e.log.Info("alert evaluator already running")
		return
	}
	e.stopCh = make(chan struct{})
	e.running = true

	stopCh := e.stopCh
	go func() {
		ticker := time.NewTicker(time.Duration(e.intervalMin) * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				e.CheckAlerts(ctx)
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	e.log.Info("alert evaluator started", "interval_minutes", e.intervalMin)
}

func (e *AlertEvaluator) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		return
	}
	close(e.stopCh)
	e.running = false
	e.log.Info("alert evaluator stopped")
}

func (e *AlertEvaluator) Status() models.ComponentStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.ComponentStatus{Running: e.running, IntervalMinutes: e.intervalMin}
}

// CheckAlerts evaluates every enabled rule against the latest reading.
// Errors are logged; a failed tick never stops the timer.
func (e *AlertEvaluator) CheckAlerts(ctx context.Context) {
	rules, err := e.repo.ListEnabledAlertRules(ctx)
	if err != nil {
		e.log.Error("loading alert rules failed", "error", err)
		return
	}
	latest, err := e.repo.LatestWeatherReading(ctx)
	if err != nil {
		e.log.Error("loading latest reading failed", "error", err)
		return
	}
	if latest == nil {
		return
	}
	for _, rule := range rules {
		e.evaluate(ctx, rule, latest)
	}
}

func (e *AlertEvaluator) evaluate(ctx context.Context, rule *models.AlertRule, reading *models.WeatherReading) {
	field, ok := LookupAlertField(rule.Type)
	if !ok {
		// Legacy rows can hold types the accessor table no longer knows.
		e.log.Warn("alert rule has unknown type, skipping", "rule", rule.Name, "type", rule.Type)
		return
	}
	value := field.Extract(reading)
	if value == nil {
		// Missing data never satisfies a condition.
		return
	}

	triggered := false
	switch rule.Condition {
	case models.ConditionGreaterThan:
		triggered = *value > rule.Threshold
	case models.ConditionLessThan:
		triggered = *value < rule.Threshold
	case models.ConditionEqualTo:
		// Exact float equality, as configured. Rarely matches on noisy
		// sensor data; intentionally not an epsilon comparison.
		triggered = *value == rule.Threshold
	case models.ConditionBetween:
		// Reserved for range alerts; never evaluates.
	}

	if triggered {
		e.trigger(ctx, rule, field, *value)
	}
}

func (e *AlertEvaluator) trigger(ctx context.Context, rule *models.AlertRule, field AlertField, value float64) {
	now := e.now()

	e.mu.Lock()
	last, fired := e.lastFired[rule.ID]
	if fired && now.Sub(last) < e.cooldown {
		e.mu.Unlock()
		return
	}
	e.lastFired[rule.ID] = now
	e.mu.Unlock()

	message := fmt.Sprintf("%s is %s%s (threshold: %s%s)",
		field.Label, formatValue(value), field.Unit, formatValue(rule.Threshold), field.Unit)

	event := &models.AlertEvent{
		AlertID:     rule.ID,
		TriggeredAt: now.UTC(),
		Value:       value,
		Message:     message,
	}
	if err := e.repo.InsertAlertEvent(ctx, event); err != nil {
		// Roll back the cooldown stamp so the next tick retries.
		e.mu.Lock()
		if fired {
			e.lastFired[rule.ID] = last
		} else {
			delete(e.lastFired, rule.ID)
		}
		e.mu.Unlock()
		e.log.Error("alert event save failed", "rule", rule.Name, "error", err)
		return
	}

	e.log.Info("alert triggered", "rule", rule.Name, "message", message)
	metrics.AlertsFiredTotal.WithLabelValues(rule.Type).Inc()
}

// formatValue renders a number without trailing zeros (97, not 97.000000).
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
