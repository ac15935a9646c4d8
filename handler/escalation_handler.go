package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SagorIslamOfficial/hrm-sub003/middleware"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
	"github.com/SagorIslamOfficial/hrm-sub003/service"
)

// EscalationHandler handles HTTP requests for the escalation ledger
type EscalationHandler struct {
	service *service.EscalationService
}

// NewEscalationHandler creates a new escalation handler
func NewEscalationHandler(svc *service.EscalationService) *EscalationHandler {
	return &EscalationHandler{service: svc}
}

// ListEscalations handles GET /api/v1/complaints/{id}/escalations
func (h *EscalationHandler) ListEscalations(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	escalations, err := h.service.ListEscalations(complaintID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"escalations": escalations})
}

// Deescalate handles POST /api/v1/complaints/{id}/deescalate
func (h *EscalationHandler) Deescalate(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	var req models.DeescalateRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
			return
		}
	}

	actorID, _ := middleware.EmployeeIDFromContext(r.Context())
	if err := h.service.Deescalate(complaintID, &req, actorID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "de-escalated"})
}

// RunSweep handles POST /api/v1/escalations/sweep
// Manual trigger for the same pass the background worker runs.
func (h *EscalationHandler) RunSweep(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Sweep()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
