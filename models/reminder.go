package models

import (
	"database/sql"
	"time"
)

// ReminderKind classifies what a reminder is about.
type ReminderKind string

const (
	ReminderFollowUp   ReminderKind = "follow_up"
	ReminderDueSoon    ReminderKind = "due_soon"
	ReminderInfoNeeded ReminderKind = "info_needed"
	ReminderCustom     ReminderKind = "custom"
)

// ComplaintReminder is a scheduled one-shot notification tied to a complaint.
// Once IsSent is true the record is immutable for delivery purposes.
type ComplaintReminder struct {
	ReminderID  int64        `db:"reminder_id" json:"reminder_id"`
	ComplaintID int64        `db:"complaint_id" json:"complaint_id"`
	Kind        ReminderKind `db:"kind" json:"kind"`
	RemindAt    time.Time    `db:"remind_at" json:"remind_at"`
	IsSent      bool         `db:"is_sent" json:"is_sent"`
	SentAt      sql.NullTime `db:"sent_at" json:"sent_at"`
	Message     string       `db:"message" json:"message"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}
