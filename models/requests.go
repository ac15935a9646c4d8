package models

import "time"

// ChildMarkers are the client-declared reconciliation intents carried by
// every staged child item. They are stripped before persistence.
type ChildMarkers struct {
	IsNew      bool `json:"is_new"`
	IsModified bool `json:"is_modified"`
	IsDeleted  bool `json:"is_deleted"`
}

// Markers exposes the raw intents to the reconciliation engine.
func (m ChildMarkers) Markers() (isNew, isModified, isDeleted bool) {
	return m.IsNew, m.IsModified, m.IsDeleted
}

// SubjectItem is a staged party record in an update request.
type SubjectItem struct {
	ChildMarkers
	SubjectID            int64       `json:"subject_id,omitempty"` // empty for genuinely new items
	SubjectKind          SubjectKind `json:"subject_kind"`
	SubjectRefID         *int64      `json:"subject_ref_id,omitempty"`
	SubjectName          string      `json:"subject_name,omitempty"`
	Relationship         *string     `json:"relationship,omitempty"`
	SpecificIssue        *string     `json:"specific_issue,omitempty"`
	IsPrimary            bool        `json:"is_primary"`
	DesiredOutcome       *string     `json:"desired_outcome,omitempty"`
	Witnesses            []string    `json:"witnesses,omitempty"`
	PriorResolutionTried bool        `json:"prior_resolution_tried"`
	PriorResolutionNote  *string     `json:"prior_resolution_note,omitempty"`
}

// ItemID returns the persisted identifier, zero for new items.
func (s SubjectItem) ItemID() int64 { return s.SubjectID }

// CommentItem is a staged discussion comment in an update request.
type CommentItem struct {
	ChildMarkers
	CommentID  int64             `json:"comment_id,omitempty"`
	Body       string            `json:"body"`
	Visibility CommentVisibility `json:"visibility"`
	IsPrivate  bool              `json:"is_private"`
}

// ItemID returns the persisted identifier, zero for new items.
func (c CommentItem) ItemID() int64 { return c.CommentID }

// DocumentItem is a staged evidence document in an update request.
type DocumentItem struct {
	ChildMarkers
	DocumentID   int64        `json:"document_id,omitempty"`
	DocumentType DocumentType `json:"document_type"`
	Title        string       `json:"title"`
	Description  *string      `json:"description,omitempty"`
	FileRef      string       `json:"file_ref"`
}

// ItemID returns the persisted identifier, zero for new items.
func (d DocumentItem) ItemID() int64 { return d.DocumentID }

// CreateComplaintRequest creates a draft complaint.
type CreateComplaintRequest struct {
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Categories       []string      `json:"categories"`
	Priority         *string       `json:"priority,omitempty"`
	DepartmentID     *int64        `json:"department_id,omitempty"`
	IncidentDate     *time.Time    `json:"incident_date,omitempty"`
	IncidentLocation *string       `json:"incident_location,omitempty"`
	IsAnonymous      bool          `json:"is_anonymous"`
	IsConfidential   bool          `json:"is_confidential"`
	IsRecurring      bool          `json:"is_recurring"`
	SLAHours         *int          `json:"sla_hours,omitempty"`
	FollowUpDate     *time.Time    `json:"follow_up_date,omitempty"`
	Subjects         []SubjectItem `json:"subjects,omitempty"`
}

// UpdateComplaintRequest mutates an editable (draft) complaint together with
// its staged child collections, all within one transaction.
type UpdateComplaintRequest struct {
	Title            *string        `json:"title,omitempty"`
	Description      *string        `json:"description,omitempty"`
	Categories       []string       `json:"categories,omitempty"`
	Priority         *string        `json:"priority,omitempty"`
	IncidentDate     *time.Time     `json:"incident_date,omitempty"`
	IncidentLocation *string        `json:"incident_location,omitempty"`
	FollowUpDate     *time.Time     `json:"follow_up_date,omitempty"`
	Subjects         []SubjectItem  `json:"subjects,omitempty"`
	Comments         []CommentItem  `json:"comments,omitempty"`
	Documents        []DocumentItem `json:"documents,omitempty"`
}

// ChangeStatusRequest moves a complaint to a new status.
type ChangeStatusRequest struct {
	NewStatus string  `json:"new_status"`
	Notes     *string `json:"notes,omitempty"`
}

// ResolutionRequest stores or replaces the resolution payload.
type ResolutionRequest struct {
	Summary            string  `json:"summary"`
	ActionsTaken       *string `json:"actions_taken,omitempty"`
	PreventiveMeasures *string `json:"preventive_measures,omitempty"`
}

// FeedbackRequest records complainant satisfaction after closing.
type FeedbackRequest struct {
	SatisfactionRating int     `json:"satisfaction_rating"`
	Feedback           *string `json:"feedback,omitempty"`
}

// CreateReminderRequest schedules a future one-shot notification.
type CreateReminderRequest struct {
	Kind     string    `json:"kind"`
	RemindAt time.Time `json:"remind_at"`
	Message  string    `json:"message"`
}

// DeescalateRequest clears the escalation flag with an audit note.
type DeescalateRequest struct {
	Notes *string `json:"notes,omitempty"`
}

// ComplaintSummary is the list view of a complaint.
type ComplaintSummary struct {
	ComplaintID     int64      `json:"complaint_id"`
	ComplaintNumber string     `json:"complaint_number"`
	Title           string     `json:"title"`
	CurrentStatus   string     `json:"current_status"`
	Priority        string     `json:"priority"`
	IsEscalated     bool       `json:"is_escalated"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// StatusTimelineEntry is one row of the audit timeline.
type StatusTimelineEntry struct {
	HistoryID  int64     `json:"history_id"`
	FromStatus *string   `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	Notes      *string   `json:"notes,omitempty"`
	ActorType  string    `json:"actor_type"`
	ActorID    *int64    `json:"actor_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
