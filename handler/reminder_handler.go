package handler

import (
	"encoding/json"
	"net/http"

	"github.com/SagorIslamOfficial/hrm-sub003/models"
	"github.com/SagorIslamOfficial/hrm-sub003/service"
)

// ReminderHandler handles HTTP requests for scheduled reminders
type ReminderHandler struct {
	service *service.ReminderService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(svc *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{service: svc}
}

// CreateReminder handles POST /api/v1/complaints/{id}/reminders
func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	var req models.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	reminder, err := h.service.CreateReminder(complaintID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, reminder)
}

// ListReminders handles GET /api/v1/complaints/{id}/reminders
func (h *ReminderHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	reminders, err := h.service.ListReminders(complaintID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"reminders": reminders})
}
