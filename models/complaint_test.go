package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ComplaintStatus
		to      ComplaintStatus
		allowed bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusDraft, StatusRejected, true},
		{StatusDraft, StatusResolved, false},
		{StatusSubmitted, StatusUnderReview, true},
		{StatusSubmitted, StatusResolved, false},
		{StatusUnderReview, StatusResolved, true},
		{StatusUnderReview, StatusSubmitted, false},
		{StatusInvestigating, StatusPendingInfo, true},
		{StatusPendingInfo, StatusInvestigating, true},
		{StatusEscalated, StatusResolved, true},
		{StatusResolved, StatusClosed, true},
		{StatusResolved, StatusUnderReview, false},
		{StatusClosed, StatusResolved, false},
		{StatusRejected, StatusSubmitted, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	all := []ComplaintStatus{
		StatusDraft, StatusSubmitted, StatusUnderReview, StatusInvestigating,
		StatusPendingInfo, StatusEscalated, StatusResolved, StatusClosed, StatusRejected,
	}

	for _, terminal := range []ComplaintStatus{StatusClosed, StatusRejected} {
		assert.True(t, terminal.IsTerminal())
		for _, target := range all {
			assert.False(t, terminal.CanTransitionTo(target), "%s -> %s", terminal, target)
		}
	}
}

func TestOnlyDraftsAreEditable(t *testing.T) {
	assert.True(t, StatusDraft.CanEdit())
	assert.True(t, StatusDraft.CanSubmit())

	for _, status := range []ComplaintStatus{
		StatusSubmitted, StatusUnderReview, StatusInvestigating, StatusPendingInfo,
		StatusEscalated, StatusResolved, StatusClosed, StatusRejected,
	} {
		assert.False(t, status.CanEdit(), "%s must not be editable", status)
		assert.False(t, status.CanSubmit(), "%s must not be submittable", status)
	}
}

func TestIsActive(t *testing.T) {
	assert.True(t, StatusSubmitted.IsActive())
	assert.True(t, StatusEscalated.IsActive())
	assert.False(t, StatusResolved.IsActive())
	assert.False(t, StatusClosed.IsActive())
	assert.False(t, StatusRejected.IsActive())
}

func TestIsValid(t *testing.T) {
	assert.True(t, StatusPendingInfo.IsValid())
	assert.False(t, ComplaintStatus("vanished").IsValid())
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityHigh, ParsePriority("high"))
	assert.Equal(t, PriorityMedium, ParsePriority(""))
	assert.Equal(t, PriorityMedium, ParsePriority("extreme"))
}
