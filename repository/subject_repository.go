package repository

import (
	"database/sql"
	"fmt"

	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// SubjectRepository handles database operations for complaint parties.
type SubjectRepository struct {
	db execer
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db *sql.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *SubjectRepository) WithTx(tx *sql.Tx) *SubjectRepository {
	return &SubjectRepository{db: tx}
}

// CreateSubject inserts a party record scoped to its complaint.
func (r *SubjectRepository) CreateSubject(subject *models.ComplaintSubject) error {
	query := `
		INSERT INTO complaint_subjects (
			complaint_id, subject_kind, subject_ref_id, subject_name,
			relationship, specific_issue, is_primary, desired_outcome,
			witnesses, prior_resolution_tried, prior_resolution_note
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		subject.ComplaintID,
		subject.SubjectKind,
		subject.SubjectRefID,
		subject.SubjectName,
		subject.Relationship,
		subject.SpecificIssue,
		subject.IsPrimary,
		subject.DesiredOutcome,
		subject.Witnesses,
		subject.PriorResolutionTried,
		subject.PriorResolutionNote,
	)
	if err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}
	subjectID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get subject ID: %w", err)
	}
	subject.SubjectID = subjectID
	return nil
}

// UpdateSubject updates an existing party record by identifier.
func (r *SubjectRepository) UpdateSubject(subjectID int64, subject *models.ComplaintSubject) error {
	query := `
		UPDATE complaint_subjects SET
			subject_kind = ?, subject_ref_id = ?, subject_name = ?,
			relationship = ?, specific_issue = ?, is_primary = ?,
			desired_outcome = ?, witnesses = ?, prior_resolution_tried = ?,
			prior_resolution_note = ?, updated_at = CURRENT_TIMESTAMP
		WHERE subject_id = ? AND complaint_id = ?
	`
	_, err := r.db.Exec(
		query,
		subject.SubjectKind,
		subject.SubjectRefID,
		subject.SubjectName,
		subject.Relationship,
		subject.SpecificIssue,
		subject.IsPrimary,
		subject.DesiredOutcome,
		subject.Witnesses,
		subject.PriorResolutionTried,
		subject.PriorResolutionNote,
		subjectID,
		subject.ComplaintID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subject: %w", err)
	}
	return nil
}

// DeleteSubject removes a party record. A missing identifier is a no-op.
func (r *SubjectRepository) DeleteSubject(subjectID, complaintID int64) error {
	_, err := r.db.Exec(
		`DELETE FROM complaint_subjects WHERE subject_id = ? AND complaint_id = ?`,
		subjectID, complaintID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	return nil
}

// DeleteByComplaintID removes all party records for a complaint (force delete).
func (r *SubjectRepository) DeleteByComplaintID(complaintID int64) error {
	if _, err := r.db.Exec(`DELETE FROM complaint_subjects WHERE complaint_id = ?`, complaintID); err != nil {
		return fmt.Errorf("failed to delete subjects: %w", err)
	}
	return nil
}

// GetSubjectsByComplaintID returns all parties named in a complaint.
func (r *SubjectRepository) GetSubjectsByComplaintID(complaintID int64) ([]models.ComplaintSubject, error) {
	query := `
		SELECT subject_id, complaint_id, subject_kind, subject_ref_id, subject_name,
			relationship, specific_issue, is_primary, desired_outcome,
			witnesses, prior_resolution_tried, prior_resolution_note,
			created_at, updated_at
		FROM complaint_subjects
		WHERE complaint_id = ?
		ORDER BY subject_id ASC
	`
	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []models.ComplaintSubject
	for rows.Next() {
		var s models.ComplaintSubject
		err := rows.Scan(
			&s.SubjectID, &s.ComplaintID, &s.SubjectKind, &s.SubjectRefID, &s.SubjectName,
			&s.Relationship, &s.SpecificIssue, &s.IsPrimary, &s.DesiredOutcome,
			&s.Witnesses, &s.PriorResolutionTried, &s.PriorResolutionNote,
			&s.CreatedAt, &s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subject: %w", err)
		}
		subjects = append(subjects, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subjects: %w", err)
	}
	return subjects, nil
}
