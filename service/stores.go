package service

import (
	"database/sql"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// Store interfaces consumed by the services. The repository package
// satisfies them; tests substitute in-memory fakes.

// ComplaintStore persists complaints and their immutable status history.
type ComplaintStore interface {
	GenerateComplaintNumber() string
	CreateComplaint(complaint *models.Complaint) error
	GetComplaintByID(complaintID int64, includeDeleted bool) (*models.Complaint, error)
	GetComplaintsByEmployeeID(employeeID int64) ([]models.Complaint, error)
	UpdateDraftFields(complaint *models.Complaint) error
	MarkSubmitted(complaintID int64, submittedAt, dueDate time.Time) error
	UpdateStatus(complaintID int64, expectedFrom, newStatus models.ComplaintStatus) error
	MarkAcknowledged(complaintID int64, at time.Time) error
	SetEscalated(complaintID int64, at time.Time, level int) error
	ClearEscalated(complaintID int64) error
	SoftDelete(complaintID int64) error
	Restore(complaintID int64) error
	CreateStatusHistory(history *models.ComplaintStatusHistory) error
	GetStatusHistory(complaintID int64) ([]models.ComplaintStatusHistory, error)
}

// ResolutionStore persists the one-to-one resolution record.
type ResolutionStore interface {
	UpsertResolution(res *models.ComplaintResolution) error
	GetResolutionByComplaintID(complaintID int64) (*models.ComplaintResolution, error)
	UpdateFeedback(complaintID int64, rating int, feedback sql.NullString) error
}

// EscalationStore persists the append-only escalation ledger.
type EscalationStore interface {
	CreateEscalation(escalation *models.ComplaintEscalation) error
	HasEscalation(complaintID int64) (bool, error)
	GetEscalationsByComplaintID(complaintID int64) ([]models.ComplaintEscalation, error)
	GetEscalationCandidates() ([]models.EscalationCandidate, error)
}

// ReminderStore persists scheduled one-shot reminders.
type ReminderStore interface {
	CreateReminder(reminder *models.ComplaintReminder) error
	GetReminderByID(reminderID int64) (*models.ComplaintReminder, error)
	GetDuePending(now time.Time, limit int) ([]models.ComplaintReminder, error)
	GetRemindersByComplaintID(complaintID int64) ([]models.ComplaintReminder, error)
	MarkSent(reminderID int64, sentAt time.Time) (bool, error)
}

// Directory resolves identities the engine consumes but does not own.
type Directory interface {
	GetAccountByEmployeeID(employeeID int64) (*models.HandlerAccount, error)
	FindHandlersByTier(tier int, departmentID *int64) ([]int64, error)
}
