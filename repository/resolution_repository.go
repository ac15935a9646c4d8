package repository

import (
	"database/sql"
	"fmt"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// ResolutionRepository handles database operations for the one-to-one
// resolution record of a complaint.
type ResolutionRepository struct {
	db execer
}

// NewResolutionRepository creates a new resolution repository
func NewResolutionRepository(db *sql.DB) *ResolutionRepository {
	return &ResolutionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ResolutionRepository) WithTx(tx *sql.Tx) *ResolutionRepository {
	return &ResolutionRepository{db: tx}
}

// UpsertResolution creates or replaces the resolution row for a complaint.
// Satisfaction fields are preserved on replace; resolver and timestamp are
// restamped.
func (r *ResolutionRepository) UpsertResolution(res *models.ComplaintResolution) error {
	query := `
		INSERT INTO complaint_resolutions (
			complaint_id, summary, actions_taken, preventive_measures,
			resolved_by_id, resolved_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			summary = VALUES(summary),
			actions_taken = VALUES(actions_taken),
			preventive_measures = VALUES(preventive_measures),
			resolved_by_id = VALUES(resolved_by_id),
			resolved_at = VALUES(resolved_at),
			updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.Exec(
		query,
		res.ComplaintID,
		res.Summary,
		res.ActionsTaken,
		res.PreventiveMeasures,
		res.ResolvedByID,
		res.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert resolution: %w", err)
	}
	return nil
}

// GetResolutionByComplaintID retrieves the resolution row for a complaint.
func (r *ResolutionRepository) GetResolutionByComplaintID(complaintID int64) (*models.ComplaintResolution, error) {
	query := `
		SELECT resolution_id, complaint_id, summary, actions_taken, preventive_measures,
			satisfaction_rating, feedback, resolved_by_id, resolved_at, updated_at
		FROM complaint_resolutions
		WHERE complaint_id = ?
	`
	var res models.ComplaintResolution
	err := r.db.QueryRow(query, complaintID).Scan(
		&res.ResolutionID, &res.ComplaintID, &res.Summary, &res.ActionsTaken,
		&res.PreventiveMeasures, &res.SatisfactionRating, &res.Feedback,
		&res.ResolvedByID, &res.ResolvedAt, &res.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resolution: %w", err)
	}
	return &res, nil
}

// UpdateFeedback merges satisfaction rating and feedback into the existing
// resolution without touching resolver or resolved timestamp.
func (r *ResolutionRepository) UpdateFeedback(complaintID int64, rating int, feedback sql.NullString) error {
	query := `
		UPDATE complaint_resolutions SET
			satisfaction_rating = ?, feedback = ?, updated_at = CURRENT_TIMESTAMP
		WHERE complaint_id = ?
	`
	result, err := r.db.Exec(query, rating, feedback, complaintID)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteByComplaintID removes the resolution row (force delete).
func (r *ResolutionRepository) DeleteByComplaintID(complaintID int64) error {
	if _, err := r.db.Exec(`DELETE FROM complaint_resolutions WHERE complaint_id = ?`, complaintID); err != nil {
		return fmt.Errorf("failed to delete resolution: %w", err)
	}
	return nil
}
