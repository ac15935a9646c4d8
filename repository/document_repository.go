package repository

import (
	"database/sql"
	"fmt"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// DocumentRepository handles database operations for evidence documents.
// File bytes live in the file store; rows hold the opaque reference only.
type DocumentRepository struct {
	db execer
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *DocumentRepository) WithTx(tx *sql.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

// CreateDocument inserts a document record scoped to its complaint.
func (r *DocumentRepository) CreateDocument(doc *models.ComplaintDocument) error {
	query := `
		INSERT INTO complaint_documents (
			complaint_id, document_type, title, description, file_ref, uploaded_by_id
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		doc.ComplaintID,
		doc.DocumentType,
		doc.Title,
		doc.Description,
		doc.FileRef,
		doc.UploadedByID,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	documentID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get document ID: %w", err)
	}
	doc.DocumentID = documentID
	return nil
}

// UpdateDocument updates an existing document record by identifier.
func (r *DocumentRepository) UpdateDocument(documentID int64, doc *models.ComplaintDocument) error {
	query := `
		UPDATE complaint_documents SET
			document_type = ?, title = ?, description = ?, file_ref = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE document_id = ? AND complaint_id = ?
	`
	_, err := r.db.Exec(
		query,
		doc.DocumentType,
		doc.Title,
		doc.Description,
		doc.FileRef,
		documentID,
		doc.ComplaintID,
	)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}

// DeleteDocument removes a document record. A missing identifier is a no-op.
func (r *DocumentRepository) DeleteDocument(documentID, complaintID int64) error {
	_, err := r.db.Exec(
		`DELETE FROM complaint_documents WHERE document_id = ? AND complaint_id = ?`,
		documentID, complaintID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// DeleteByComplaintID removes all document records for a complaint (force delete).
func (r *DocumentRepository) DeleteByComplaintID(complaintID int64) error {
	if _, err := r.db.Exec(`DELETE FROM complaint_documents WHERE complaint_id = ?`, complaintID); err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return nil
}

// GetDocumentByID retrieves one document record.
func (r *DocumentRepository) GetDocumentByID(documentID int64) (*models.ComplaintDocument, error) {
	query := `
		SELECT document_id, complaint_id, document_type, title, description,
			file_ref, uploaded_by_id, created_at, updated_at
		FROM complaint_documents
		WHERE document_id = ?
	`
	var d models.ComplaintDocument
	err := r.db.QueryRow(query, documentID).Scan(
		&d.DocumentID, &d.ComplaintID, &d.DocumentType, &d.Title, &d.Description,
		&d.FileRef, &d.UploadedByID, &d.CreatedAt, &d.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// GetDocumentsByComplaintID returns all documents attached to a complaint.
func (r *DocumentRepository) GetDocumentsByComplaintID(complaintID int64) ([]models.ComplaintDocument, error) {
	query := `
		SELECT document_id, complaint_id, document_type, title, description,
			file_ref, uploaded_by_id, created_at, updated_at
		FROM complaint_documents
		WHERE complaint_id = ?
		ORDER BY document_id ASC
	`
	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []models.ComplaintDocument
	for rows.Next() {
		var d models.ComplaintDocument
		err := rows.Scan(
			&d.DocumentID, &d.ComplaintID, &d.DocumentType, &d.Title, &d.Description,
			&d.FileRef, &d.UploadedByID, &d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating documents: %w", err)
	}
	return docs, nil
}
