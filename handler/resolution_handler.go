package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SagorIslamOfficial/hrm-sub003/middleware"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
	"github.com/SagorIslamOfficial/hrm-sub003/service"
)

// ResolutionHandler handles HTTP requests for resolution records
type ResolutionHandler struct {
	service *service.ResolutionService
}

// NewResolutionHandler creates a new resolution handler
func NewResolutionHandler(svc *service.ResolutionService) *ResolutionHandler {
	return &ResolutionHandler{service: svc}
}

// StoreResolution handles PUT /api/v1/complaints/{id}/resolution
func (h *ResolutionHandler) StoreResolution(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	var req models.ResolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	resolverID, _ := middleware.EmployeeIDFromContext(r.Context())
	resolution, err := h.service.StoreResolution(complaintID, &req, resolverID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resolution)
}

// GetResolution handles GET /api/v1/complaints/{id}/resolution
func (h *ResolutionHandler) GetResolution(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	resolution, err := h.service.GetResolution(complaintID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, resolution)
}

// RecordFeedback handles POST /api/v1/complaints/{id}/feedback
func (h *ResolutionHandler) RecordFeedback(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	employeeID, _ := middleware.EmployeeIDFromContext(r.Context())
	if err := h.service.RecordFeedback(complaintID, &req, employeeID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "feedback recorded"})
}
