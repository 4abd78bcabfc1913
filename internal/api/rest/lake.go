package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/kanopolanes/lakehub-backend/internal/upstream/fallback"
)

// GetLakeConditions handles GET /lake/conditions (cached live view).
func (h *Handler) GetLakeConditions(w http.ResponseWriter, r *http.Request) {
	cond, err := h.lake.Conditions(r.Context())
	if err != nil {
		if errors.Is(err, fallback.ErrNoData) {
			respondError(w, http.StatusNotFound, "No lake data available")
			return
		}
		h.log.Error("lake conditions fetch failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch lake conditions")
		return
	}
	respondJSON(w, http.StatusOK, cond)
}

// GetLakeHistorical handles GET /lake/historical?hours=&limit=.
func (h *Handler) GetLakeHistorical(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 168)
	limit := queryInt(r, "limit", 500)
	since := time.Now().UnixMilli() - int64(hours)*3600000

	readings, err := h.repo.LakeHistory(r.Context(), since, limit)
	if err != nil {
		h.log.Error("lake history read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch lake history")
		return
	}
	respondJSON(w, http.StatusOK, readings)
}
