package handler

import (
	"io"
	"net/http"

	"github.com/SagorIslamOfficial/hrm-sub003/filestore"
	"github.com/SagorIslamOfficial/hrm-sub003/repository"
	"github.com/SagorIslamOfficial/hrm-sub003/service"
)

// DocumentHandler serves evidence document downloads.
type DocumentHandler struct {
	documents  *repository.DocumentRepository
	complaints *service.ComplaintService
	files      filestore.FileStore
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents *repository.DocumentRepository, complaints *service.ComplaintService, files filestore.FileStore) *DocumentHandler {
	return &DocumentHandler{documents: documents, complaints: complaints, files: files}
}

// Download handles GET /api/v1/documents/{id}/file
func (h *DocumentHandler) Download(w http.ResponseWriter, r *http.Request) {
	documentID, err := pathID(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid document ID")
		return
	}

	doc, err := h.documents.GetDocumentByID(documentID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	// Visibility follows the parent complaint.
	complaint, err := h.complaints.GetComplaint(doc.ComplaintID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if !canSeeComplaint(r, complaint) {
		respondWithError(w, http.StatusForbidden, "Forbidden", "Not your complaint")
		return
	}

	reader, err := h.files.Retrieve(doc.FileRef)
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Not found", "File not found")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Title+`"`)
	io.Copy(w, reader)
}
