package models

import (
	"database/sql"
	"time"
)

// ComplaintResolution is the one-to-one terminal outcome payload of a
// complaint. Satisfaction rating/feedback is merged in after closing.
type ComplaintResolution struct {
	ResolutionID       int64          `db:"resolution_id" json:"resolution_id"`
	ComplaintID        int64          `db:"complaint_id" json:"complaint_id"`
	Summary            string         `db:"summary" json:"summary"`
	ActionsTaken       sql.NullString `db:"actions_taken" json:"actions_taken"`
	PreventiveMeasures sql.NullString `db:"preventive_measures" json:"preventive_measures"`
	SatisfactionRating sql.NullInt64  `db:"satisfaction_rating" json:"satisfaction_rating"`
	Feedback           sql.NullString `db:"feedback" json:"feedback"`
	ResolvedByID       int64          `db:"resolved_by_id" json:"resolved_by_id"`
	ResolvedAt         time.Time      `db:"resolved_at" json:"resolved_at"`
	UpdatedAt          sql.NullTime   `db:"updated_at" json:"updated_at"`
}
