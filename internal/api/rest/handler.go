// Package rest holds the HTTP handlers for the dashboard API.
package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kanopolanes/lakehub-backend/internal/models"
	"github.com/kanopolanes/lakehub-backend/internal/repository"
	"github.com/kanopolanes/lakehub-backend/internal/service"
	"github.com/kanopolanes/lakehub-backend/internal/upstream"
)

// WeatherSource is the live weather station surface used when the database
// has no readings yet.
type WeatherSource interface {
	Current(ctx context.Context) (*models.WeatherReading, error)
	Devices(ctx context.Context) ([]upstream.AmbientDevice, error)
}

// StatusReporter is the start/stop surface of one background component.
type StatusReporter interface {
	Status() models.ComponentStatus
}

// Handler manages HTTP request handlers.
type Handler struct {
	repo     *repository.SQLiteRepository
	weather  WeatherSource
	lake     *service.LakeService
	forecast *service.ForecastService
	fishing  *service.FishingService
	settings *service.Settings
	dbPath   string
	log      *slog.Logger

	weatherCollector StatusReporter
	lakeCollector    StatusReporter
	alertEvaluator   StatusReporter
	retention        StatusReporter
}

// NewHandler creates the HTTP handler over the read services and the
// background components (for status aggregation).
func NewHandler(
	repo *repository.SQLiteRepository,
	weather WeatherSource,
	lake *service.LakeService,
	forecast *service.ForecastService,
	fishing *service.FishingService,
	settings *service.Settings,
	dbPath string,
	log *slog.Logger,
	weatherCollector, lakeCollector, alertEvaluator, retention StatusReporter,
) *Handler {
	return &Handler{
		repo:             repo,
		weather:          weather,
		lake:             lake,
		forecast:         forecast,
		fishing:          fishing,
		settings:         settings,
		dbPath:           dbPath,
		log:              log,
		weatherCollector: weatherCollector,
		lakeCollector:    lakeCollector,
		alertEvaluator:   alertEvaluator,
		retention:        retention,
	}
}

// SetupRoutes configures API routes.
func SetupRoutes(router *mux.Router, h *Handler) {
	// Weather routes
	router.HandleFunc("/weather/current", h.GetCurrentWeather).Methods("GET")
	router.HandleFunc("/weather/historical", h.GetHistoricalWeather).Methods("GET")
	router.HandleFunc("/weather/stats", h.GetWeatherStats).Methods("GET")
	router.HandleFunc("/weather/devices", h.GetDevices).Methods("GET")

	// Lake routes
	router.HandleFunc("/lake/conditions", h.GetLakeConditions).Methods("GET")
	router.HandleFunc("/lake/historical", h.GetLakeHistorical).Methods("GET")

	// Forecast routes
	router.HandleFunc("/forecast", h.GetForecast).Methods("GET")
	router.HandleFunc("/forecast/sunmoon", h.GetSunMoon).Methods("GET")
	router.HandleFunc("/forecast/advisories", h.GetAdvisories).Methods("GET")

	// Fishing report
	router.HandleFunc("/fishing", h.GetFishingReport).Methods("GET")

	// Alert rule routes; history before {id} so it is not shadowed
	router.HandleFunc("/alerts", h.ListAlerts).Methods("GET")
	router.HandleFunc("/alerts", h.CreateAlert).Methods("POST")
	router.HandleFunc("/alerts/history", h.GetAlertHistory).Methods("GET")
	router.HandleFunc("/alerts/{id:[0-9]+}", h.GetAlert).Methods("GET")
	router.HandleFunc("/alerts/{id:[0-9]+}", h.UpdateAlert).Methods("PUT")
	router.HandleFunc("/alerts/{id:[0-9]+}", h.DeleteAlert).Methods("DELETE")
	router.HandleFunc("/alerts/{id:[0-9]+}/toggle", h.ToggleAlert).Methods("POST")

	// Settings routes
	router.HandleFunc("/settings", h.GetSettings).Methods("GET")
	router.HandleFunc("/settings", h.UpdateSettings).Methods("PUT")
	router.HandleFunc("/settings/stats", h.GetStats).Methods("GET")
	router.HandleFunc("/settings/purge", h.PurgeData).Methods("POST")

	// Aggregated health
	router.HandleFunc("/health", h.GetHealth).Methods("GET")
}

// GetHealth handles GET /health, the aggregated component status payload.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"timestamp":        nowRFC3339(),
		"dataCollector":    h.weatherCollector.Status(),
		"lakeCollector":    h.lakeCollector.Status(),
		"alertService":     h.alertEvaluator.Status(),
		"retentionService": h.retention.Status(),
	})
}
