package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kanopolanes/lakehub-backend/internal/models"
	"github.com/kanopolanes/lakehub-backend/internal/service"
)

// alertRuleRequest is the create/update body. Pointers distinguish "field
// omitted" from a zero value on partial updates.
type alertRuleRequest struct {
	Name      *string  `json:"name"`
	Type      *string  `json:"type"`
	Condition *string  `json:"condition"`
	Threshold *float64 `json:"threshold"`
	Enabled   *bool    `json:"enabled"`
}

// ListAlerts handles GET /alerts.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	rules, err := h.repo.ListAlertRules(r.Context())
	if err != nil {
		h.log.Error("listing alert rules failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch alerts")
		return
	}
	respondJSON(w, http.StatusOK, rules)
}

// GetAlert handles GET /alerts/{id}.
func (h *Handler) GetAlert(w http.ResponseWriter, r *http.Request) {
	rule, err := h.repo.GetAlertRule(r.Context(), pathID(r))
	if err != nil {
		h.log.Error("alert rule read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch alert")
		return
	}
	if rule == nil {
		respondError(w, http.StatusNotFound, "Alert not found")
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

// CreateAlert handles POST /alerts. Unknown rule types and operators are
// rejected here, before a rule that can never fire is written.
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == nil || req.Type == nil || req.Condition == nil || req.Threshold == nil {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if _, ok := service.LookupAlertField(*req.Type); !ok {
		respondError(w, http.StatusBadRequest, "Unknown alert type: "+*req.Type)
		return
	}
	if !service.ValidAlertCondition(*req.Condition) {
		respondError(w, http.StatusBadRequest, "Unknown alert condition: "+*req.Condition)
		return
	}

	rule := &models.AlertRule{
		Name:      *req.Name,
		Type:      *req.Type,
		Condition: *req.Condition,
		Threshold: *req.Threshold,
		Enabled:   true,
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	if err := h.repo.CreateAlertRule(r.Context(), rule); err != nil {
		h.log.Error("alert rule create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create alert")
		return
	}

	created, err := h.repo.GetAlertRule(r.Context(), rule.ID)
	if err != nil {
		h.log.Error("alert rule readback failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to create alert")
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdateAlert handles PUT /alerts/{id}. Omitted fields keep their values.
func (h *Handler) UpdateAlert(w http.ResponseWriter, r *http.Request) {
	rule, err := h.repo.GetAlertRule(r.Context(), pathID(r))
	if err != nil {
		h.log.Error("alert rule read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update alert")
		return
	}
	if rule == nil {
		respondError(w, http.StatusNotFound, "Alert not found")
		return
	}

	var req alertRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Type != nil {
		if _, ok := service.LookupAlertField(*req.Type); !ok {
			respondError(w, http.StatusBadRequest, "Unknown alert type: "+*req.Type)
			return
		}
		rule.Type = *req.Type
	}
	if req.Condition != nil {
		if !service.ValidAlertCondition(*req.Condition) {
			respondError(w, http.StatusBadRequest, "Unknown alert condition: "+*req.Condition)
			return
		}
		rule.Condition = *req.Condition
	}
	if req.Threshold != nil {
		rule.Threshold = *req.Threshold
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}

	if err := h.repo.UpdateAlertRule(r.Context(), rule); err != nil {
		h.log.Error("alert rule update failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update alert")
		return
	}
	updated, err := h.repo.GetAlertRule(r.Context(), rule.ID)
	if err != nil {
		h.log.Error("alert rule readback failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update alert")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeleteAlert handles DELETE /alerts/{id}.
func (h *Handler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	rule, err := h.repo.GetAlertRule(r.Context(), id)
	if err != nil {
		h.log.Error("alert rule read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete alert")
		return
	}
	if rule == nil {
		respondError(w, http.StatusNotFound, "Alert not found")
		return
	}
	if err := h.repo.DeleteAlertRule(r.Context(), id); err != nil {
		h.log.Error("alert rule delete failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to delete alert")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Alert deleted successfully"})
}

// ToggleAlert handles POST /alerts/{id}/toggle.
func (h *Handler) ToggleAlert(w http.ResponseWriter, r *http.Request) {
	rule, err := h.repo.ToggleAlertRule(r.Context(), pathID(r))
	if err != nil {
		h.log.Error("alert rule toggle failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to toggle alert")
		return
	}
	if rule == nil {
		respondError(w, http.StatusNotFound, "Alert not found")
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

// GetAlertHistory handles GET /alerts/history?limit=.
func (h *Handler) GetAlertHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	events, err := h.repo.ListAlertEvents(r.Context(), limit)
	if err != nil {
		h.log.Error("alert history read failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch alert history")
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}
