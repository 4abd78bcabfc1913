package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

func TestAlertRuleCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rule := &models.AlertRule{
		Name:      "Freezing Pipes",
		Type:      "indoor_temp",
		Condition: models.ConditionLessThan,
		Threshold: 40,
		Enabled:   true,
	}
	require.NoError(t, repo.CreateAlertRule(ctx, rule))
	assert.NotZero(t, rule.ID)

	got, err := repo.GetAlertRule(ctx, rule.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Freezing Pipes", got.Name)
	assert.Equal(t, 40.0, got.Threshold)
	assert.True(t, got.Enabled)

	got.Threshold = 38
	got.Name = "Freezing Pipes (garage)"
	require.NoError(t, repo.UpdateAlertRule(ctx, got))

	updated, err := repo.GetAlertRule(ctx, rule.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, 38.0, updated.Threshold)
	assert.Equal(t, "Freezing Pipes (garage)", updated.Name)

	require.NoError(t, repo.DeleteAlertRule(ctx, rule.ID))
	gone, err := repo.GetAlertRule(ctx, rule.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestListAlertRulesStableOrder(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	// The seeded defaults all share one created_at, so ordering falls
	// through to the id tiebreaker.
	first, err := repo.ListAlertRules(ctx)
	require.NoError(t, err)
	require.Len(t, first, 7)
	for i := 1; i < len(first); i++ {
		assert.Greater(t, first[i-1].ID, first[i].ID)
	}
	assert.Equal(t, "Lightning Detected", first[0].Name)
	assert.Equal(t, "High Indoor Temperature", first[len(first)-1].Name)

	second, err := repo.ListAlertRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetAlertRuleMissing(t *testing.T) {
	repo := newTestRepo(t)

	rule, err := repo.GetAlertRule(context.Background(), 99999)
	require.NoError(t, err)
	assert.Nil(t, rule)
}

func TestToggleAlertRule(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rule := &models.AlertRule{Name: "t", Type: "wind_speed", Condition: models.ConditionGreaterThan, Threshold: 30, Enabled: true}
	require.NoError(t, repo.CreateAlertRule(ctx, rule))

	toggled, err := repo.ToggleAlertRule(ctx, rule.ID)
	require.NoError(t, err)
	require.NotNil(t, toggled)
	assert.False(t, toggled.Enabled)

	toggled, err = repo.ToggleAlertRule(ctx, rule.ID)
	require.NoError(t, err)
	require.NotNil(t, toggled)
	assert.True(t, toggled.Enabled)

	missing, err := repo.ToggleAlertRule(ctx, 99999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListEnabledAlertRules(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rule := &models.AlertRule{Name: "disabled", Type: "uv_index", Condition: models.ConditionGreaterThan, Threshold: 8, Enabled: false}
	require.NoError(t, repo.CreateAlertRule(ctx, rule))

	enabled, err := repo.ListEnabledAlertRules(ctx)
	require.NoError(t, err)
	for _, r := range enabled {
		assert.True(t, r.Enabled)
		assert.NotEqual(t, rule.ID, r.ID)
	}
}

func TestAlertEvents(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rule := &models.AlertRule{Name: "Hot", Type: "outdoor_temp", Condition: models.ConditionGreaterThan, Threshold: 95, Enabled: true}
	require.NoError(t, repo.CreateAlertRule(ctx, rule))

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, v := range []float64{96, 98, 97} {
		require.NoError(t, repo.InsertAlertEvent(ctx, &models.AlertEvent{
			AlertID:     rule.ID,
			TriggeredAt: base.Add(time.Duration(i) * time.Hour),
			Value:       v,
			Message:     "Outdoor Temperature is high",
		}))
	}

	events, err := repo.ListAlertEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 97.0, events[0].Value, "newest first")
	assert.Equal(t, "Hot", events[0].AlertName, "joined rule name")
	assert.Equal(t, "outdoor_temp", events[0].Type)

	limited, err := repo.ListAlertEvents(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDeleteAlertEventsBeforeBoundary(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rule := &models.AlertRule{Name: "r", Type: "rain_hourly", Condition: models.ConditionGreaterThan, Threshold: 1, Enabled: true}
	require.NoError(t, repo.CreateAlertRule(ctx, rule))

	cutoff := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{cutoff.Add(-time.Hour), cutoff, cutoff.Add(time.Hour)} {
		require.NoError(t, repo.InsertAlertEvent(ctx, &models.AlertEvent{
			AlertID: rule.ID, TriggeredAt: at, Value: 2, Message: "m",
		}))
	}

	deleted, err := repo.DeleteAlertEventsBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted, "the event exactly at the cutoff is retained")

	count, err := repo.CountAlertEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDeleteAlertRuleCascadesHistory(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	rule := &models.AlertRule{Name: "r", Type: "wind_gust", Condition: models.ConditionGreaterThan, Threshold: 40, Enabled: true}
	require.NoError(t, repo.CreateAlertRule(ctx, rule))
	require.NoError(t, repo.InsertAlertEvent(ctx, &models.AlertEvent{AlertID: rule.ID, Value: 45, Message: "m"}))

	require.NoError(t, repo.DeleteAlertRule(ctx, rule.ID))

	count, err := repo.CountAlertEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
