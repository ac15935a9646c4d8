package models

import (
	"database/sql"
	"time"
)

// SubjectKind tags what a complaint party points at.
type SubjectKind string

const (
	SubjectEmployee   SubjectKind = "employee"
	SubjectDepartment SubjectKind = "department"
	SubjectBranch     SubjectKind = "branch"
	SubjectManagement SubjectKind = "management"
	SubjectPolicy     SubjectKind = "policy"
	SubjectWorkplace  SubjectKind = "workplace"
	SubjectOther      SubjectKind = "other"
)

// IsValid reports whether k is a known subject kind.
func (k SubjectKind) IsValid() bool {
	switch k {
	case SubjectEmployee, SubjectDepartment, SubjectBranch, SubjectManagement,
		SubjectPolicy, SubjectWorkplace, SubjectOther:
		return true
	}
	return false
}

// SubjectRef is a polymorphic reference to the entity a party names.
// The engine never hard-codes which concrete entities exist; resolution
// goes through a per-kind lookup supplied by the caller.
type SubjectRef struct {
	Kind SubjectKind `json:"kind"`
	ID   int64       `json:"id"`
}

// ComplaintSubject is a party named in a complaint.
type ComplaintSubject struct {
	SubjectID            int64          `db:"subject_id" json:"subject_id"`
	ComplaintID          int64          `db:"complaint_id" json:"complaint_id"`
	SubjectKind          SubjectKind    `db:"subject_kind" json:"subject_kind"`
	SubjectRefID         sql.NullInt64  `db:"subject_ref_id" json:"subject_ref_id"`
	SubjectName          string         `db:"subject_name" json:"subject_name"` // resolved display identity
	Relationship         sql.NullString `db:"relationship" json:"relationship"`
	SpecificIssue        sql.NullString `db:"specific_issue" json:"specific_issue"`
	IsPrimary            bool           `db:"is_primary" json:"is_primary"`
	DesiredOutcome       sql.NullString `db:"desired_outcome" json:"desired_outcome"`
	Witnesses            sql.NullString `db:"witnesses" json:"witnesses"` // JSON array of names
	PriorResolutionTried bool           `db:"prior_resolution_tried" json:"prior_resolution_tried"`
	PriorResolutionNote  sql.NullString `db:"prior_resolution_note" json:"prior_resolution_note"`
	CreatedAt            time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt            sql.NullTime   `db:"updated_at" json:"updated_at"`
}
