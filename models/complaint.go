package models

import (
	"database/sql"
	"time"
)

// ComplaintStatus represents the possible statuses of a complaint
type ComplaintStatus string

const (
	StatusDraft         ComplaintStatus = "draft"
	StatusSubmitted     ComplaintStatus = "submitted"
	StatusUnderReview   ComplaintStatus = "under_review"
	StatusInvestigating ComplaintStatus = "investigating"
	StatusPendingInfo   ComplaintStatus = "pending_info"
	StatusEscalated     ComplaintStatus = "escalated"
	StatusResolved      ComplaintStatus = "resolved"
	StatusClosed        ComplaintStatus = "closed"
	StatusRejected      ComplaintStatus = "rejected"
)

// allowedTransitions maps each status to the statuses it may move to.
// Terminal statuses (resolved is terminal except for closing) map to their
// remaining legal moves; closed and rejected map to nothing.
var allowedTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusDraft:         {StatusSubmitted, StatusRejected},
	StatusSubmitted:     {StatusUnderReview, StatusInvestigating, StatusEscalated, StatusRejected},
	StatusUnderReview:   {StatusInvestigating, StatusPendingInfo, StatusEscalated, StatusResolved, StatusRejected},
	StatusInvestigating: {StatusPendingInfo, StatusEscalated, StatusResolved, StatusRejected},
	StatusPendingInfo:   {StatusUnderReview, StatusInvestigating, StatusEscalated, StatusResolved, StatusRejected},
	StatusEscalated:     {StatusUnderReview, StatusInvestigating, StatusPendingInfo, StatusResolved, StatusRejected},
	StatusResolved:      {StatusClosed},
	StatusClosed:        {},
	StatusRejected:      {},
}

// CanTransitionTo reports whether a move from s to next is legal.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanEdit reports whether complaint fields (title, categories, description,
// party list) may still change. Only drafts are editable.
func (s ComplaintStatus) CanEdit() bool {
	return s == StatusDraft
}

// CanSubmit reports whether the complaint can be submitted.
func (s ComplaintStatus) CanSubmit() bool {
	return s == StatusDraft
}

// IsActive reports whether the complaint is still in flight
// (not resolved, closed or rejected).
func (s ComplaintStatus) IsActive() bool {
	return !s.IsTerminal() && s != StatusResolved
}

// IsTerminal reports whether no further status transition is permitted.
// resolved still allows the close transition but accepts nothing else.
func (s ComplaintStatus) IsTerminal() bool {
	return s == StatusClosed || s == StatusRejected
}

// IsValid reports whether s is a known status value.
func (s ComplaintStatus) IsValid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Priority represents complaint priority levels
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityUrgent   Priority = "urgent"
	PriorityCritical Priority = "critical"
)

// ParsePriority maps a raw string to a Priority, defaulting to medium.
func ParsePriority(raw string) Priority {
	switch Priority(raw) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent, PriorityCritical:
		return Priority(raw)
	}
	return PriorityMedium
}

// Complaint represents a grievance record tracked through its lifecycle
type Complaint struct {
	ComplaintID        int64           `db:"complaint_id" json:"complaint_id"`
	ComplaintNumber    string          `db:"complaint_number" json:"complaint_number"`
	EmployeeID         int64           `db:"employee_id" json:"employee_id"`
	Title              string          `db:"title" json:"title"`
	Description        string          `db:"description" json:"description"`
	Categories         string          `db:"categories" json:"categories"` // JSON array of tags
	Priority           Priority        `db:"priority" json:"priority"`
	CurrentStatus      ComplaintStatus `db:"current_status" json:"current_status"`
	DepartmentID       sql.NullInt64   `db:"department_id" json:"department_id"`
	AssignedHandlerID  sql.NullInt64   `db:"assigned_handler_id" json:"assigned_handler_id"`
	IncidentDate       sql.NullTime    `db:"incident_date" json:"incident_date"`
	IncidentLocation   sql.NullString  `db:"incident_location" json:"incident_location"`
	IsAnonymous        bool            `db:"is_anonymous" json:"is_anonymous"`
	IsConfidential     bool            `db:"is_confidential" json:"is_confidential"`
	IsRecurring        bool            `db:"is_recurring" json:"is_recurring"`
	SLAHours           int             `db:"sla_hours" json:"sla_hours"`
	SLABreachAt        sql.NullTime    `db:"sla_breach_at" json:"sla_breach_at"`
	IsEscalated        bool            `db:"is_escalated" json:"is_escalated"`
	EscalatedAt        sql.NullTime    `db:"escalated_at" json:"escalated_at"`
	EscalationLevel    int             `db:"current_escalation_level" json:"current_escalation_level"`
	SubmittedAt        sql.NullTime    `db:"submitted_at" json:"submitted_at"`
	AcknowledgedAt     sql.NullTime    `db:"acknowledged_at" json:"acknowledged_at"`
	ResolvedAt         sql.NullTime    `db:"resolved_at" json:"resolved_at"`
	ClosedAt           sql.NullTime    `db:"closed_at" json:"closed_at"`
	DueDate            sql.NullTime    `db:"due_date" json:"due_date"`
	FollowUpDate       sql.NullTime    `db:"follow_up_date" json:"follow_up_date"`
	DeletedAt          sql.NullTime    `db:"deleted_at" json:"deleted_at"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          sql.NullTime    `db:"updated_at" json:"updated_at"`
}

// ActorType represents who performed an action
type ActorType string

const (
	ActorEmployee ActorType = "employee"
	ActorHandler  ActorType = "handler"
	ActorAdmin    ActorType = "admin"
	ActorSystem   ActorType = "system"
)

// ComplaintStatusHistory represents a status change record (immutable)
type ComplaintStatusHistory struct {
	HistoryID   int64           `db:"history_id" json:"history_id"`
	ComplaintID int64           `db:"complaint_id" json:"complaint_id"`
	FromStatus  sql.NullString  `db:"from_status" json:"from_status"` // NULL for the first entry
	ToStatus    ComplaintStatus `db:"to_status" json:"to_status"`
	Notes       sql.NullString  `db:"notes" json:"notes"`
	ActorType   ActorType       `db:"actor_type" json:"actor_type"`
	ActorID     sql.NullInt64   `db:"actor_id" json:"actor_id"` // NULL for system
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
