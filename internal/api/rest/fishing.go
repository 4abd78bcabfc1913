package rest

import "net/http"

// GetFishingReport handles GET /fishing. Never errors: when the scrape
// fails and nothing is cached the service serves a placeholder report.
func (h *Handler) GetFishingReport(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.fishing.Report(r.Context()))
}
