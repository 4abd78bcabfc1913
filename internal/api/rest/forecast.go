package rest

import (
	"errors"
	"net/http"

	"github.com/kanopolanes/lakehub-backend/internal/upstream/fallback"
)

// GetForecast handles GET /forecast.
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.forecast.Forecast(r.Context())
	if err != nil {
		if errors.Is(err, fallback.ErrNoData) {
			respondError(w, http.StatusNotFound, "No forecast data available")
			return
		}
		h.log.Error("forecast fetch failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch forecast data")
		return
	}
	respondJSON(w, http.StatusOK, forecast)
}

// GetSunMoon handles GET /forecast/sunmoon. Never errors: moon phase is
// computed locally even when the sunrise/sunset fetch fails.
func (h *Handler) GetSunMoon(w http.ResponseWriter, r *http.Request) {
	sunMoon, err := h.forecast.SunMoon(r.Context())
	if err != nil {
		h.log.Error("sun/moon fetch failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch sun/moon data")
		return
	}
	respondJSON(w, http.StatusOK, sunMoon)
}

// GetAdvisories handles GET /forecast/advisories (active NWS alerts).
func (h *Handler) GetAdvisories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.forecast.Advisories(r.Context()))
}
