package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/SagorIslamOfficial/hrm-sub003/filestore"
	"github.com/SagorIslamOfficial/hrm-sub003/middleware"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
	"github.com/SagorIslamOfficial/hrm-sub003/service"
)

// maxUploadBytes bounds one evidence upload (10 MB).
const maxUploadBytes = 10 << 20

// ComplaintHandler handles HTTP requests for the complaint lifecycle
type ComplaintHandler struct {
	service *service.ComplaintService
	files   filestore.FileStore
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(svc *service.ComplaintService, files filestore.FileStore) *ComplaintHandler {
	return &ComplaintHandler{service: svc, files: files}
}

// CreateComplaint handles POST /api/v1/complaints
func (h *ComplaintHandler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Employee ID not found in context")
		return
	}

	var req models.CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	complaint, err := h.service.CreateComplaint(&req, employeeID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, complaint)
}

// GetUserComplaints handles GET /api/v1/complaints
func (h *ComplaintHandler) GetUserComplaints(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Employee ID not found in context")
		return
	}

	summaries, err := h.service.ListByEmployee(employeeID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"complaints": summaries})
}

// GetComplaintByID handles GET /api/v1/complaints/{id}
func (h *ComplaintHandler) GetComplaintByID(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	complaint, err := h.service.GetComplaint(complaintID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if !canSeeComplaint(r, complaint) {
		respondWithError(w, http.StatusForbidden, "Forbidden", "Not your complaint")
		return
	}
	respondWithJSON(w, http.StatusOK, complaint)
}

// UpdateDraft handles PUT /api/v1/complaints/{id}
func (h *ComplaintHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}
	employeeID, _ := middleware.EmployeeIDFromContext(r.Context())

	complaint, err := h.service.GetComplaint(complaintID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if !canSeeComplaint(r, complaint) {
		respondWithError(w, http.StatusForbidden, "Forbidden", "Not your complaint")
		return
	}

	var req models.UpdateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	report, err := h.service.UpdateDraft(complaintID, &req, employeeID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"subjects":  reportOps(report.Subjects),
		"comments":  reportOps(report.Comments),
		"documents": reportOps(report.Documents),
	})
}

// Submit handles POST /api/v1/complaints/{id}/submit
func (h *ComplaintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}
	employeeID, _ := middleware.EmployeeIDFromContext(r.Context())

	complaint, err := h.service.GetComplaint(complaintID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if complaint.EmployeeID != employeeID {
		respondWithError(w, http.StatusForbidden, "Forbidden", "Only the reporting employee may submit")
		return
	}

	updated, err := h.service.Submit(complaintID, employeeID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// ChangeStatus handles POST /api/v1/complaints/{id}/status
func (h *ComplaintHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	var req models.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	employeeID, _ := middleware.EmployeeIDFromContext(r.Context())
	role, _ := middleware.RoleFromContext(r.Context())

	actorType := models.ActorHandler
	if role == models.RoleAdmin {
		actorType = models.ActorAdmin
	}

	complaint, err := h.service.ChangeStatus(complaintID, &req, actorType, &employeeID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, complaint)
}

// GetStatusTimeline handles GET /api/v1/complaints/{id}/timeline
func (h *ComplaintHandler) GetStatusTimeline(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	complaint, err := h.service.GetComplaint(complaintID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if !canSeeComplaint(r, complaint) {
		respondWithError(w, http.StatusForbidden, "Forbidden", "Not your complaint")
		return
	}

	timeline, err := h.service.GetTimeline(complaintID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"timeline": timeline})
}

// SoftDelete handles DELETE /api/v1/complaints/{id}
func (h *ComplaintHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}
	if err := h.service.SoftDelete(complaintID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Restore handles POST /api/v1/complaints/{id}/restore
func (h *ComplaintHandler) Restore(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}
	if err := h.service.Restore(complaintID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

// ForceDelete handles DELETE /api/v1/complaints/{id}/force
func (h *ComplaintHandler) ForceDelete(w http.ResponseWriter, r *http.Request) {
	complaintID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}
	if err := h.service.ForceDelete(complaintID); err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "permanently deleted"})
}

// UploadFile handles POST /api/v1/complaints/files
// Stores the uploaded bytes and returns the opaque file_ref to attach via a
// draft save.
func (h *ComplaintHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Missing file field")
		return
	}
	defer file.Close()

	ref, err := h.files.Store(io.LimitReader(file, maxUploadBytes), header.Filename)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal error", "Failed to store file")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]string{"file_ref": ref})
}

// canSeeComplaint reports whether the caller may read the complaint:
// handlers and admins always, employees only their own.
func canSeeComplaint(r *http.Request, complaint *models.Complaint) bool {
	role, _ := middleware.RoleFromContext(r.Context())
	if role == models.RoleHandler || role == models.RoleAdmin {
		return true
	}
	employeeID, _ := middleware.EmployeeIDFromContext(r.Context())
	return complaint.EmployeeID == employeeID
}
