package service

import "time"

// SLA clock: pure due-date arithmetic, no side effects. Due dates use plain
// calendar hours (submitted_at + sla_hours), not a business-hours calendar;
// switching to working-hours math would silently change breach timing.

// DefaultSLAHours is the hour budget applied when a complaint carries none.
const DefaultSLAHours = 72

// DefaultEscalationLeadHours is how long before the due date the sweep
// starts escalating ("SLA nearing breach").
const DefaultEscalationLeadHours = 48

// ComputeDueDate returns submittedAt + slaHours.
func ComputeDueDate(submittedAt time.Time, slaHours int) time.Time {
	return submittedAt.Add(time.Duration(slaHours) * time.Hour)
}

// IsBreached reports whether now is strictly past the due date.
func IsBreached(now, dueDate time.Time) bool {
	return now.After(dueDate)
}

// NeedsEscalation reports whether now has entered the escalation window:
// at or after dueDate - leadHours.
func NeedsEscalation(now, dueDate time.Time, leadHours int) bool {
	window := dueDate.Add(-time.Duration(leadHours) * time.Hour)
	return !now.Before(window)
}
