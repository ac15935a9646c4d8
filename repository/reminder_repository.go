package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// ReminderRepository handles database operations for scheduled reminders.
type ReminderRepository struct {
	db execer
}

// NewReminderRepository creates a new reminder repository
func NewReminderRepository(db *sql.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ReminderRepository) WithTx(tx *sql.Tx) *ReminderRepository {
	return &ReminderRepository{db: tx}
}

// CreateReminder persists a pending reminder.
func (r *ReminderRepository) CreateReminder(reminder *models.ComplaintReminder) error {
	query := `
		INSERT INTO complaint_reminders (complaint_id, kind, remind_at, message)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.Exec(
		query,
		reminder.ComplaintID,
		reminder.Kind,
		reminder.RemindAt,
		reminder.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	reminderID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get reminder ID: %w", err)
	}
	reminder.ReminderID = reminderID
	return nil
}

// GetReminderByID retrieves one reminder.
func (r *ReminderRepository) GetReminderByID(reminderID int64) (*models.ComplaintReminder, error) {
	query := `
		SELECT reminder_id, complaint_id, kind, remind_at, is_sent, sent_at, message, created_at
		FROM complaint_reminders
		WHERE reminder_id = ?
	`
	var rem models.ComplaintReminder
	err := r.db.QueryRow(query, reminderID).Scan(
		&rem.ReminderID, &rem.ComplaintID, &rem.Kind, &rem.RemindAt,
		&rem.IsSent, &rem.SentAt, &rem.Message, &rem.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return &rem, nil
}

// GetDuePending returns unsent reminders whose trigger time has passed,
// oldest first, up to limit.
func (r *ReminderRepository) GetDuePending(now time.Time, limit int) ([]models.ComplaintReminder, error) {
	query := `
		SELECT reminder_id, complaint_id, kind, remind_at, is_sent, sent_at, message, created_at
		FROM complaint_reminders
		WHERE is_sent = FALSE AND remind_at <= ?
		ORDER BY remind_at ASC
		LIMIT ?
	`
	rows, err := r.db.Query(query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.ComplaintReminder
	for rows.Next() {
		var rem models.ComplaintReminder
		err := rows.Scan(
			&rem.ReminderID, &rem.ComplaintID, &rem.Kind, &rem.RemindAt,
			&rem.IsSent, &rem.SentAt, &rem.Message, &rem.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}
	return reminders, nil
}

// GetRemindersByComplaintID returns all reminders for a complaint.
func (r *ReminderRepository) GetRemindersByComplaintID(complaintID int64) ([]models.ComplaintReminder, error) {
	query := `
		SELECT reminder_id, complaint_id, kind, remind_at, is_sent, sent_at, message, created_at
		FROM complaint_reminders
		WHERE complaint_id = ?
		ORDER BY remind_at ASC
	`
	rows, err := r.db.Query(query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []models.ComplaintReminder
	for rows.Next() {
		var rem models.ComplaintReminder
		err := rows.Scan(
			&rem.ReminderID, &rem.ComplaintID, &rem.Kind, &rem.RemindAt,
			&rem.IsSent, &rem.SentAt, &rem.Message, &rem.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}
	return reminders, nil
}

// MarkSent flips is_sent exactly once. Returns false when another worker
// already delivered the reminder; the caller must not send in that case.
func (r *ReminderRepository) MarkSent(reminderID int64, sentAt time.Time) (bool, error) {
	result, err := r.db.Exec(
		`UPDATE complaint_reminders SET is_sent = TRUE, sent_at = ? WHERE reminder_id = ? AND is_sent = FALSE`,
		sentAt, reminderID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// DeleteByComplaintID removes reminders for a complaint (force delete).
func (r *ReminderRepository) DeleteByComplaintID(complaintID int64) error {
	if _, err := r.db.Exec(`DELETE FROM complaint_reminders WHERE complaint_id = ?`, complaintID); err != nil {
		return fmt.Errorf("failed to delete reminders: %w", err)
	}
	return nil
}
