package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// GetSettings handles GET /settings, grouped as key -> row for the admin UI.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.repo.ListSettings(r.Context())
	if err != nil {
		h.log.Error("settings read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get settings")
		return
	}
	grouped := make(map[string]interface{}, len(settings))
	for _, s := range settings {
		grouped[s.Key] = map[string]interface{}{
			"value":       s.Value,
			"description": s.Description,
			"category":    s.Category,
			"updated_at":  s.UpdatedAt,
		}
	}
	respondJSON(w, http.StatusOK, grouped)
}

// UpdateSettings handles PUT /settings with a flat key->value body.
// Interval changes take effect on the next collector restart, not mid-run.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var raw map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid settings object")
		return
	}
	values := make(map[string]string, len(raw))
	for key, v := range raw {
		values[key] = fmt.Sprintf("%v", v)
	}
	if err := h.repo.UpdateSettings(r.Context(), values); err != nil {
		h.log.Error("settings update failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}
	h.GetSettings(w, r)
}

// GetStats handles GET /settings/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.settings.Stats(r.Context(), h.dbPath)
	if err != nil {
		h.log.Error("stats read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// PurgeData handles POST /settings/purge {"type": "weather"|"lake"|"alert_history"|"all"}.
func (h *Handler) PurgeData(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" {
		respondError(w, http.StatusBadRequest, "Purge type required")
		return
	}

	ctx := r.Context()
	var err error
	switch req.Type {
	case "weather":
		err = h.repo.PurgeWeather(ctx)
	case "lake":
		err = h.repo.PurgeLake(ctx)
	case "alert_history":
		err = h.repo.PurgeAlertEvents(ctx)
	case "all":
		if err = h.repo.PurgeWeather(ctx); err == nil {
			if err = h.repo.PurgeLake(ctx); err == nil {
				err = h.repo.PurgeAlertEvents(ctx)
			}
		}
	default:
		respondError(w, http.StatusBadRequest, "Unknown purge type: "+req.Type)
		return
	}
	if err != nil {
		h.log.Error("purge failed", "type", req.Type, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to purge data")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"deleted": req.Type})
}
