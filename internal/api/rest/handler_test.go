package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanopolanes/lakehub-backend/internal/models"
	"github.com/kanopolanes/lakehub-backend/internal/repository"
	"github.com/kanopolanes/lakehub-backend/internal/service"
	"github.com/kanopolanes/lakehub-backend/internal/upstream"
)

type fakeWeatherSource struct {
	reading *models.WeatherReading
	devices []upstream.AmbientDevice
	err     error
}

func (f *fakeWeatherSource) Current(context.Context) (*models.WeatherReading, error) {
	return f.reading, f.err
}

func (f *fakeWeatherSource) Devices(context.Context) ([]upstream.AmbientDevice, error) {
	return f.devices, f.err
}

type fakeLakeFetcher struct {
	cond *models.LakeConditions
	err  error
}

func (f *fakeLakeFetcher) Conditions(ctx context.Context, lakeStation, damStation string, conservationLevel float64) (*models.LakeConditions, error) {
	return f.cond, f.err
}

type fakeForecastFetcher struct {
	forecast *models.Forecast
	err      error
}

func (f *fakeForecastFetcher) Forecast(ctx context.Context, lat, lon float64) (*models.Forecast, error) {
	return f.forecast, f.err
}

func (f *fakeForecastFetcher) SunData(ctx context.Context, lat, lon string) (*string, *string, *float64, error) {
	return nil, nil, nil, f.err
}

type fakeAdvisoryFetcher struct{}

func (fakeAdvisoryFetcher) ActiveAlerts(ctx context.Context, lat, lon string) (*models.Advisories, error) {
	return &models.Advisories{Alerts: []models.Advisory{}}, nil
}

type fakeFishingFetcher struct {
	report *models.FishingReport
	err    error
}

func (f *fakeFishingFetcher) Report(context.Context) (*models.FishingReport, error) {
	return f.report, f.err
}

type fakeStatus struct {
	status models.ComponentStatus
}

func (f *fakeStatus) Status() models.ComponentStatus { return f.status }

type testEnv struct {
	repo    *repository.SQLiteRepository
	weather *fakeWeatherSource
	lake    *fakeLakeFetcher
	fishing *fakeFishingFetcher
	router  *mux.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := repository.NewSQLiteRepository(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	require.NoError(t, repo.InitSchema(context.Background()))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	settings := service.NewSettings(repo, log)
	weather := &fakeWeatherSource{}
	lakeFetcher := &fakeLakeFetcher{}
	lake := service.NewLakeService(lakeFetcher, settings, log)
	forecast := service.NewForecastService(&fakeForecastFetcher{forecast: &models.Forecast{}}, fakeAdvisoryFetcher{}, settings, log)
	fishingFetcher := &fakeFishingFetcher{}
	fishing := service.NewFishingService(fishingFetcher, log)

	running := &fakeStatus{status: models.ComponentStatus{Running: true, IntervalMinutes: 5}}
	h := NewHandler(repo, weather, lake, forecast, fishing, settings, dbPath, log,
		running, running, running, running)

	router := mux.NewRouter()
	SetupRoutes(router, h)

	return &testEnv{repo: repo, weather: weather, lake: lakeFetcher, fishing: fishingFetcher, router: router}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestGetHealthAggregatesComponents(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	for _, component := range []string{"dataCollector", "lakeCollector", "alertService", "retentionService"} {
		status, ok := body[component].(map[string]interface{})
		require.True(t, ok, "missing %s", component)
		assert.Equal(t, true, status["running"])
	}
}

func TestGetCurrentWeatherFromDatabase(t *testing.T) {
	env := newTestEnv(t)
	temp := 72.5
	require.NoError(t, env.repo.InsertWeatherReading(context.Background(),
		&models.WeatherReading{Timestamp: 5000, OutdoorTemp: &temp}))

	rec := env.do(t, http.MethodGet, "/weather/current", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var reading models.WeatherReading
	decodeBody(t, rec, &reading)
	assert.Equal(t, int64(5000), reading.Timestamp)
	require.NotNil(t, reading.OutdoorTemp)
	assert.Equal(t, 72.5, *reading.OutdoorTemp)
}

func TestGetCurrentWeatherFallsBackToLiveFetch(t *testing.T) {
	env := newTestEnv(t)
	temp := 68.0
	env.weather.reading = &models.WeatherReading{Timestamp: 9000, OutdoorTemp: &temp}

	rec := env.do(t, http.MethodGet, "/weather/current", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var reading models.WeatherReading
	decodeBody(t, rec, &reading)
	assert.Equal(t, int64(9000), reading.Timestamp)
}

func TestGetCurrentWeatherNoData(t *testing.T) {
	env := newTestEnv(t)
	// Empty database and no reporting devices.
	rec := env.do(t, http.MethodGet, "/weather/current", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHistoricalWeather(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, ts := range []int64{1000, 2000} {
		require.NoError(t, env.repo.InsertWeatherReading(ctx, &models.WeatherReading{Timestamp: ts}))
	}

	rec := env.do(t, http.MethodGet, "/weather/historical?hours=24&limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var readings []models.WeatherReading
	decodeBody(t, rec, &readings)
	assert.Empty(t, readings, "rows older than the window are excluded")
}

func TestGetLakeConditions(t *testing.T) {
	env := newTestEnv(t)
	elevation := 1462.9
	env.lake.cond = &models.LakeConditions{Name: "Kanopolis Lake", Elevation: &elevation, ConservationLevel: 1463}

	rec := env.do(t, http.MethodGet, "/lake/conditions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cond models.LakeConditions
	decodeBody(t, rec, &cond)
	assert.Equal(t, "Kanopolis Lake", cond.Name)
	require.NotNil(t, cond.Elevation)
	assert.Equal(t, 1462.9, *cond.Elevation)
}

func TestGetLakeConditionsNoData(t *testing.T) {
	env := newTestEnv(t)
	env.lake.err = errors.New("usgs down")

	rec := env.do(t, http.MethodGet, "/lake/conditions", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthzProbes(t *testing.T) {
	env := newTestEnv(t)
	healthz := NewHealthzHandler(env.repo)

	rec := httptest.NewRecorder()
	healthz.Live(rec, httptest.NewRequest(http.MethodGet, "/healthz/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	healthz.Ready(rec, httptest.NewRequest(http.MethodGet, "/healthz/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
