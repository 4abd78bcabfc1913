package rest

import (
	"net/http"
	"strconv"
	"time"
)

// GetCurrentWeather handles GET /weather/current. The newest persisted
// reading wins; an empty database falls through to a live station fetch.
func (h *Handler) GetCurrentWeather(w http.ResponseWriter, r *http.Request) {
	reading, err := h.repo.LatestWeatherReading(r.Context())
	if err != nil {
		h.log.Error("current weather read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}
	if reading != nil {
		respondJSON(w, http.StatusOK, reading)
		return
	}

	live, err := h.weather.Current(r.Context())
	if err != nil {
		h.log.Error("live weather fetch failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch weather data")
		return
	}
	if live == nil {
		respondError(w, http.StatusNotFound, "No weather data available")
		return
	}
	respondJSON(w, http.StatusOK, live)
}

// GetHistoricalWeather handles GET /weather/historical?hours=&limit=.
func (h *Handler) GetHistoricalWeather(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 24)
	limit := queryInt(r, "limit", 100)
	since := time.Now().UnixMilli() - int64(hours)*3600000

	readings, err := h.repo.WeatherHistory(r.Context(), since, limit)
	if err != nil {
		h.log.Error("weather history read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch historical data")
		return
	}
	respondJSON(w, http.StatusOK, readings)
}

// GetWeatherStats handles GET /weather/stats?hours=.
func (h *Handler) GetWeatherStats(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 24)
	since := time.Now().UnixMilli() - int64(hours)*3600000

	stats, err := h.repo.WeatherStats(r.Context(), since)
	if err != nil {
		h.log.Error("weather stats read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch weather statistics")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetDevices handles GET /weather/devices.
func (h *Handler) GetDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.weather.Devices(r.Context())
	if err != nil {
		h.log.Error("device list fetch failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch devices")
		return
	}
	respondJSON(w, http.StatusOK, devices)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
