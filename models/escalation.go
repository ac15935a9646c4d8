package models

import (
	"database/sql"
	"time"
)

// ComplaintEscalation is an append-only ledger entry recording a hand-off
// of complaint ownership to a higher tier. Never mutated or deleted;
// de-escalation clears the complaint flag but keeps the ledger row.
type ComplaintEscalation struct {
	EscalationID    int64          `db:"escalation_id" json:"escalation_id"`
	ComplaintID     int64          `db:"complaint_id" json:"complaint_id"`
	FromHandlerID   sql.NullInt64  `db:"from_handler_id" json:"from_handler_id"`
	EscalatedTo     string         `db:"escalated_to" json:"escalated_to"` // JSON array of handler IDs
	EscalationLevel string         `db:"escalation_level" json:"escalation_level"`
	Reason          string         `db:"reason" json:"reason"`
	EscalatedByType ActorType      `db:"escalated_by_type" json:"escalated_by_type"`
	EscalatedByID   sql.NullInt64  `db:"escalated_by_id" json:"escalated_by_id"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// EscalationCandidate is an active complaint the sweep may need to escalate.
type EscalationCandidate struct {
	ComplaintID       int64
	ComplaintNumber   string
	CurrentStatus     ComplaintStatus
	Priority          Priority
	DepartmentID      sql.NullInt64
	AssignedHandlerID sql.NullInt64
	DueDate           sql.NullTime
	SubmittedAt       sql.NullTime
	EscalationLevel   int
}

// EscalationResult reports what the sweep did for one complaint.
type EscalationResult struct {
	ComplaintID  int64     `json:"complaint_id"`
	Escalated    bool      `json:"escalated"`
	EscalationID *int64    `json:"escalation_id,omitempty"`
	Level        string    `json:"level,omitempty"`
	Reason       string    `json:"reason"`
	ProcessedAt  time.Time `json:"processed_at"`
}
