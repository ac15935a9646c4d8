package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
	"github.com/google/uuid"
)

// ComplaintRepository handles database operations for complaints and their
// immutable status history.
type ComplaintRepository struct {
	db execer
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ComplaintRepository) WithTx(tx *sql.Tx) *ComplaintRepository {
	return &ComplaintRepository{db: tx}
}

// GenerateComplaintNumber generates a unique complaint number.
// Format: GRV-YYYYMMDD-{UUID}
func (r *ComplaintRepository) GenerateComplaintNumber() string {
	datePrefix := time.Now().UTC().Format("20060102")
	uniqueID := uuid.New().String()[:8]
	return fmt.Sprintf("GRV-%s-%s", datePrefix, uniqueID)
}

const complaintColumns = `
	complaint_id, complaint_number, employee_id, title, description, categories,
	priority, current_status, department_id, assigned_handler_id,
	incident_date, incident_location, is_anonymous, is_confidential, is_recurring,
	sla_hours, sla_breach_at, is_escalated, escalated_at, current_escalation_level,
	submitted_at, acknowledged_at, resolved_at, closed_at, due_date, follow_up_date,
	deleted_at, created_at, updated_at`

func scanComplaint(row interface{ Scan(...any) error }) (*models.Complaint, error) {
	var c models.Complaint
	err := row.Scan(
		&c.ComplaintID, &c.ComplaintNumber, &c.EmployeeID, &c.Title, &c.Description,
		&c.Categories, &c.Priority, &c.CurrentStatus, &c.DepartmentID, &c.AssignedHandlerID,
		&c.IncidentDate, &c.IncidentLocation, &c.IsAnonymous, &c.IsConfidential, &c.IsRecurring,
		&c.SLAHours, &c.SLABreachAt, &c.IsEscalated, &c.EscalatedAt, &c.EscalationLevel,
		&c.SubmittedAt, &c.AcknowledgedAt, &c.ResolvedAt, &c.ClosedAt, &c.DueDate, &c.FollowUpDate,
		&c.DeletedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComplaint inserts a new draft complaint.
func (r *ComplaintRepository) CreateComplaint(complaint *models.Complaint) error {
	query := `
		INSERT INTO complaints (
			complaint_number, employee_id, title, description, categories,
			priority, current_status, department_id, assigned_handler_id,
			incident_date, incident_location, is_anonymous, is_confidential, is_recurring,
			sla_hours, follow_up_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(
		query,
		complaint.ComplaintNumber,
		complaint.EmployeeID,
		complaint.Title,
		complaint.Description,
		complaint.Categories,
		complaint.Priority,
		complaint.CurrentStatus,
		complaint.DepartmentID,
		complaint.AssignedHandlerID,
		complaint.IncidentDate,
		complaint.IncidentLocation,
		complaint.IsAnonymous,
		complaint.IsConfidential,
		complaint.IsRecurring,
		complaint.SLAHours,
		complaint.FollowUpDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	complaintID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get complaint ID: %w", err)
	}

	complaint.ComplaintID = complaintID
	return nil
}

// GetComplaintByID retrieves a complaint by its ID. Soft-deleted complaints
// are only visible when includeDeleted is set (restore/force-delete paths).
func (r *ComplaintRepository) GetComplaintByID(complaintID int64, includeDeleted bool) (*models.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE complaint_id = ?`, complaintColumns)
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	complaint, err := scanComplaint(r.db.QueryRow(query, complaintID))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return complaint, nil
}

// GetComplaintsByEmployeeID retrieves all live complaints reported by an employee.
func (r *ComplaintRepository) GetComplaintsByEmployeeID(employeeID int64) ([]models.Complaint, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM complaints
		WHERE employee_id = ? AND deleted_at IS NULL
		ORDER BY created_at DESC`, complaintColumns)

	rows, err := r.db.Query(query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		complaint, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, *complaint)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaints: %w", err)
	}

	return complaints, nil
}

// UpdateDraftFields persists editable-field changes to a draft complaint.
func (r *ComplaintRepository) UpdateDraftFields(complaint *models.Complaint) error {
	query := `
		UPDATE complaints SET
			title = ?, description = ?, categories = ?, priority = ?,
			incident_date = ?, incident_location = ?, follow_up_date = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE complaint_id = ? AND deleted_at IS NULL
	`
	_, err := r.db.Exec(
		query,
		complaint.Title,
		complaint.Description,
		complaint.Categories,
		complaint.Priority,
		complaint.IncidentDate,
		complaint.IncidentLocation,
		complaint.FollowUpDate,
		complaint.ComplaintID,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	return nil
}

// MarkSubmitted stamps submission and the SLA-derived due date.
// sla_breach_at tracks due_date: both are submitted_at + sla_hours.
func (r *ComplaintRepository) MarkSubmitted(complaintID int64, submittedAt, dueDate time.Time) error {
	query := `
		UPDATE complaints SET
			current_status = ?, submitted_at = ?, due_date = ?, sla_breach_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE complaint_id = ? AND deleted_at IS NULL
	`
	_, err := r.db.Exec(query, models.StatusSubmitted, submittedAt, dueDate, dueDate, complaintID)
	if err != nil {
		return fmt.Errorf("failed to mark submitted: %w", err)
	}
	return nil
}

// UpdateStatus moves the complaint to a new status, re-reading the current
// status inside the same statement so a racing illegal transition loses.
// Returns ErrInvalidTransition when the stored status no longer matches
// expectedFrom.
func (r *ComplaintRepository) UpdateStatus(complaintID int64, expectedFrom, newStatus models.ComplaintStatus) error {
	query := `
		UPDATE complaints SET current_status = ?,
			resolved_at = CASE WHEN ? = 'resolved' THEN CURRENT_TIMESTAMP ELSE resolved_at END,
			closed_at = CASE WHEN ? = 'closed' THEN CURRENT_TIMESTAMP ELSE closed_at END,
			updated_at = CURRENT_TIMESTAMP
		WHERE complaint_id = ? AND current_status = ? AND deleted_at IS NULL
	`
	result, err := r.db.Exec(query, newStatus, newStatus, newStatus, complaintID, expectedFrom)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.InvalidTransition(string(expectedFrom), string(newStatus))
	}
	return nil
}

// MarkAcknowledged stamps acknowledged_at once; later calls keep the first.
func (r *ComplaintRepository) MarkAcknowledged(complaintID int64, at time.Time) error {
	query := `
		UPDATE complaints SET acknowledged_at = ?
		WHERE complaint_id = ? AND acknowledged_at IS NULL AND deleted_at IS NULL
	`
	if _, err := r.db.Exec(query, at, complaintID); err != nil {
		return fmt.Errorf("failed to mark acknowledged: %w", err)
	}
	return nil
}

// SetEscalated flips the escalation flag, stamp and level.
func (r *ComplaintRepository) SetEscalated(complaintID int64, at time.Time, level int) error {
	query := `
		UPDATE complaints SET is_escalated = TRUE, escalated_at = ?,
			current_escalation_level = ?, updated_at = CURRENT_TIMESTAMP
		WHERE complaint_id = ? AND deleted_at IS NULL
	`
	if _, err := r.db.Exec(query, at, level, complaintID); err != nil {
		return fmt.Errorf("failed to set escalated: %w", err)
	}
	return nil
}

// ClearEscalated clears the escalation flag. The ledger row is untouched.
func (r *ComplaintRepository) ClearEscalated(complaintID int64) error {
	query := `
		UPDATE complaints SET is_escalated = FALSE, updated_at = CURRENT_TIMESTAMP
		WHERE complaint_id = ? AND deleted_at IS NULL
	`
	if _, err := r.db.Exec(query, complaintID); err != nil {
		return fmt.Errorf("failed to clear escalated: %w", err)
	}
	return nil
}

// SoftDelete stamps deleted_at; the row becomes invisible to list and sweep
// queries but can be restored.
func (r *ComplaintRepository) SoftDelete(complaintID int64) error {
	query := `UPDATE complaints SET deleted_at = CURRENT_TIMESTAMP WHERE complaint_id = ? AND deleted_at IS NULL`
	result, err := r.db.Exec(query, complaintID)
	if err != nil {
		return fmt.Errorf("failed to soft delete complaint: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Restore clears deleted_at on a soft-deleted complaint.
func (r *ComplaintRepository) Restore(complaintID int64) error {
	query := `UPDATE complaints SET deleted_at = NULL WHERE complaint_id = ? AND deleted_at IS NOT NULL`
	result, err := r.db.Exec(query, complaintID)
	if err != nil {
		return fmt.Errorf("failed to restore complaint: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// HardDelete removes the complaint row. Owned children are removed first by
// the service inside the same transaction.
func (r *ComplaintRepository) HardDelete(complaintID int64) error {
	if _, err := r.db.Exec(`DELETE FROM complaint_status_history WHERE complaint_id = ?`, complaintID); err != nil {
		return fmt.Errorf("failed to delete status history: %w", err)
	}
	result, err := r.db.Exec(`DELETE FROM complaints WHERE complaint_id = ?`, complaintID)
	if err != nil {
		return fmt.Errorf("failed to delete complaint: %w", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CreateStatusHistory appends an immutable status change record.
func (r *ComplaintRepository) CreateStatusHistory(history *models.ComplaintStatusHistory) error {
	query := `
		INSERT INTO complaint_status_history (
			complaint_id, from_status, to_status, notes, actor_type, actor_id
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		history.ComplaintID,
		history.FromStatus,
		history.ToStatus,
		history.Notes,
		history.ActorType,
		history.ActorID,
	)
	if err != nil {
		return fmt.Errorf("failed to create status history: %w", err)
	}

	historyID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get history ID: %w", err)
	}
	history.HistoryID = historyID
	return nil
}

// GetStatusHistory returns the full timeline for a complaint, oldest first.
func (r *ComplaintRepository) GetStatusHistory(complaintID int64) ([]models.ComplaintStatusHistory, error) {
	query := `
		SELECT history_id, complaint_id, from_status, to_status, notes, actor_type, actor_id, created_at
		FROM complaint_status_history
		WHERE complaint_id = ?
		ORDER BY created_at ASC, history_id ASC
	`
	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query status history: %w", err)
	}
	defer rows.Close()

	var history []models.ComplaintStatusHistory
	for rows.Next() {
		var h models.ComplaintStatusHistory
		err := rows.Scan(
			&h.HistoryID, &h.ComplaintID, &h.FromStatus, &h.ToStatus,
			&h.Notes, &h.ActorType, &h.ActorID, &h.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		history = append(history, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status history: %w", err)
	}

	return history, nil
}
