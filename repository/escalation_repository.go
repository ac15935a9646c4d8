package repository

import (
	"database/sql"
	"fmt"

	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// EscalationRepository handles database operations for the escalation ledger.
type EscalationRepository struct {
	db execer
}

// NewEscalationRepository creates a new escalation repository
func NewEscalationRepository(db *sql.DB) *EscalationRepository {
	return &EscalationRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *EscalationRepository) WithTx(tx *sql.Tx) *EscalationRepository {
	return &EscalationRepository{db: tx}
}

// CreateEscalation appends a ledger entry. The unique index on
// (complaint_id, escalation_level) keeps concurrent sweeps from recording
// the same hand-off twice.
func (r *EscalationRepository) CreateEscalation(escalation *models.ComplaintEscalation) error {
	query := `
		INSERT INTO complaint_escalations (
			complaint_id, from_handler_id, escalated_to, escalation_level,
			reason, escalated_by_type, escalated_by_id
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		escalation.ComplaintID,
		escalation.FromHandlerID,
		escalation.EscalatedTo,
		escalation.EscalationLevel,
		escalation.Reason,
		escalation.EscalatedByType,
		escalation.EscalatedByID,
	)
	if err != nil {
		return fmt.Errorf("failed to create escalation: %w", err)
	}
	escalationID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get escalation ID: %w", err)
	}
	escalation.EscalationID = escalationID
	return nil
}

// HasEscalation reports whether the complaint already has any ledger entry.
// The sweep only escalates complaints with none.
func (r *EscalationRepository) HasEscalation(complaintID int64) (bool, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM complaint_escalations WHERE complaint_id = ?`,
		complaintID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check escalation existence: %w", err)
	}
	return count > 0, nil
}

// GetEscalationsByComplaintID returns the ledger for a complaint, oldest first.
func (r *EscalationRepository) GetEscalationsByComplaintID(complaintID int64) ([]models.ComplaintEscalation, error) {
	query := `
		SELECT escalation_id, complaint_id, from_handler_id, escalated_to,
			escalation_level, reason, escalated_by_type, escalated_by_id, created_at
		FROM complaint_escalations
		WHERE complaint_id = ?
		ORDER BY created_at ASC, escalation_id ASC
	`
	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query escalations: %w", err)
	}
	defer rows.Close()

	var escalations []models.ComplaintEscalation
	for rows.Next() {
		var e models.ComplaintEscalation
		err := rows.Scan(
			&e.EscalationID, &e.ComplaintID, &e.FromHandlerID, &e.EscalatedTo,
			&e.EscalationLevel, &e.Reason, &e.EscalatedByType, &e.EscalatedByID, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan escalation: %w", err)
		}
		escalations = append(escalations, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating escalations: %w", err)
	}
	return escalations, nil
}

// GetEscalationCandidates returns active, never-escalated complaints with a
// due date, for the sweep. Soft-deleted rows are excluded.
func (r *EscalationRepository) GetEscalationCandidates() ([]models.EscalationCandidate, error) {
	query := `
		SELECT c.complaint_id, c.complaint_number, c.current_status, c.priority,
			c.department_id, c.assigned_handler_id, c.due_date, c.submitted_at,
			c.current_escalation_level
		FROM complaints c
		WHERE c.current_status NOT IN ('draft', 'resolved', 'closed', 'rejected')
			AND c.is_escalated = FALSE
			AND c.due_date IS NOT NULL
			AND c.deleted_at IS NULL
		ORDER BY c.due_date ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query escalation candidates: %w", err)
	}
	defer rows.Close()

	var candidates []models.EscalationCandidate
	for rows.Next() {
		var c models.EscalationCandidate
		err := rows.Scan(
			&c.ComplaintID, &c.ComplaintNumber, &c.CurrentStatus, &c.Priority,
			&c.DepartmentID, &c.AssignedHandlerID, &c.DueDate, &c.SubmittedAt,
			&c.EscalationLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan escalation candidate: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating escalation candidates: %w", err)
	}
	return candidates, nil
}

// DeleteByComplaintID removes ledger rows for a complaint. Only the
// administrative force-delete path uses this; the ledger is otherwise
// append-only.
func (r *EscalationRepository) DeleteByComplaintID(complaintID int64) error {
	if _, err := r.db.Exec(`DELETE FROM complaint_escalations WHERE complaint_id = ?`, complaintID); err != nil {
		return fmt.Errorf("failed to delete escalations: %w", err)
	}
	return nil
}
