package models

import "time"

// StatusChanged is published on every complaint status transition so that
// cross-entity side effects (notifications, follow-up scheduling) are
// explicit subscribers instead of hidden writes.
type StatusChanged struct {
	ComplaintID     int64
	ComplaintNumber string
	EmployeeID      int64
	From            ComplaintStatus
	To              ComplaintStatus
	Notes           string
	ActorType       ActorType
	ActorID         *int64
	OccurredAt      time.Time
}
