package rest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanopolanes/lakehub-backend/internal/models"
)

func TestGetSettingsGrouped(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]map[string]interface{}
	decodeBody(t, rec, &body)
	require.Contains(t, body, "weather_collection_interval")
	assert.Equal(t, "5", body["weather_collection_interval"]["value"])
	assert.Equal(t, "collection", body["weather_collection_interval"]["category"])
}

func TestUpdateSettingsCoercesValues(t *testing.T) {
	env := newTestEnv(t)

	// Numbers in the JSON body are stored as strings.
	rec := env.do(t, http.MethodPut, "/settings", `{"weather_collection_interval": 10, "latitude": "39.1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	value, ok, err := env.repo.GetSetting(context.Background(), "weather_collection_interval")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10", value)

	value, _, err = env.repo.GetSetting(context.Background(), "latitude")
	require.NoError(t, err)
	assert.Equal(t, "39.1", value)
}

func TestUpdateSettingsInvalidBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/settings", `[1,2,3]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.repo.InsertWeatherReading(ctx, &models.WeatherReading{Timestamp: 1000}))
	require.NoError(t, env.repo.InsertWeatherReading(ctx, &models.WeatherReading{Timestamp: 2000}))

	rec := env.do(t, http.MethodGet, "/settings/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.DataStats
	decodeBody(t, rec, &stats)
	assert.Equal(t, int64(2), stats.WeatherRecords)
	assert.Equal(t, int64(7), stats.AlertRules)
	require.NotNil(t, stats.WeatherOldest)
	assert.Equal(t, int64(1000), *stats.WeatherOldest)
}

func TestPurgeData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.repo.InsertWeatherReading(ctx, &models.WeatherReading{Timestamp: 1000}))

	rec := env.do(t, http.MethodPost, "/settings/purge", `{"type": "weather"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	count, err := env.repo.CountWeather(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestPurgeDataUnknownType(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/settings/purge", `{"type": "everything"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/settings/purge", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
