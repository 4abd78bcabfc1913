package rest

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

func TestListAlertsReturnsSeededRules(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/alerts", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rules []models.AlertRule
	decodeBody(t, rec, &rules)
	assert.Len(t, rules, 7)
}

func TestCreateAlert(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/alerts",
		`{"name": "Gusty", "type": "wind_gust", "condition": "greater_than", "threshold": 40}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var rule models.AlertRule
	decodeBody(t, rec, &rule)
	assert.NotZero(t, rule.ID)
	assert.Equal(t, "Gusty", rule.Name)
	assert.Equal(t, "wind_gust", rule.Type)
	assert.Equal(t, 40.0, rule.Threshold)
	assert.True(t, rule.Enabled, "enabled defaults to true")
}

func TestCreateAlertRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/alerts",
		`{"name": "x", "type": "soil_moisture", "condition": "greater_than", "threshold": 1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "Unknown alert type: soil_moisture", body["error"])
}

func TestCreateAlertRejectsUnknownCondition(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/alerts",
		`{"name": "x", "type": "outdoor_temp", "condition": "at_least", "threshold": 1}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAlertMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/alerts", `{"name": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAlertPartial(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/alerts",
		`{"name": "Gusty", "type": "wind_gust", "condition": "greater_than", "threshold": 40}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.AlertRule
	decodeBody(t, rec, &created)

	// Only the threshold changes; everything else is kept.
	rec = env.do(t, http.MethodPut, fmt.Sprintf("/alerts/%d", created.ID), `{"threshold": 45}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.AlertRule
	decodeBody(t, rec, &updated)
	assert.Equal(t, 45.0, updated.Threshold)
	assert.Equal(t, "Gusty", updated.Name)
	assert.Equal(t, "wind_gust", updated.Type)
}

func TestUpdateAlertNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/alerts/99999", `{"threshold": 45}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleAlert(t *testing.T) {
	env := newTestEnv(t)
	rules, err := env.repo.ListAlertRules(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, rules)
	id := rules[0].ID

	rec := env.do(t, http.MethodPost, fmt.Sprintf("/alerts/%d/toggle", id), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var rule models.AlertRule
	decodeBody(t, rec, &rule)
	assert.False(t, rule.Enabled)
}

func TestDeleteAlert(t *testing.T) {
	env := newTestEnv(t)
	rules, err := env.repo.ListAlertRules(context.Background())
	require.NoError(t, err)
	id := rules[0].ID

	rec := env.do(t, http.MethodDelete, fmt.Sprintf("/alerts/%d", id), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/alerts/%d", id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetAlertHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rules, err := env.repo.ListAlertRules(ctx)
	require.NoError(t, err)
	require.NoError(t, env.repo.InsertAlertEvent(ctx, &models.AlertEvent{
		AlertID: rules[0].ID, Value: 97, Message: "m",
	}))

	rec := env.do(t, http.MethodGet, "/alerts/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var events []models.AlertEvent
	decodeBody(t, rec, &events)
	require.Len(t, events, 1)
	assert.Equal(t, rules[0].Name, events[0].AlertName)
}
