package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

func newTestReminderService() (*ReminderService, *fakeComplaintStore, *fakeReminderStore, *fakeDirectory, *fakeSender) {
	complaints := newFakeComplaintStore()
	reminders := newFakeReminderStore()
	directory := newFakeDirectory()
	sender := &fakeSender{}
	svc := NewReminderService(complaints, reminders, directory, sender)
	return svc, complaints, reminders, directory, sender
}

// seedDue puts an unsent reminder whose trigger time has already passed.
func seedDue(reminders *fakeReminderStore, complaintID int64) *models.ComplaintReminder {
	reminder := &models.ComplaintReminder{
		ComplaintID: complaintID,
		Kind:        models.ReminderFollowUp,
		RemindAt:    time.Now().UTC().Add(-time.Minute),
		Message:     "Check in on the complaint.",
	}
	reminders.CreateReminder(reminder)
	return reminder
}

func TestCreateReminderRejectsPastTime(t *testing.T) {
	svc, complaints, _, _, _ := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)

	_, err := svc.CreateReminder(seeded.ComplaintID, &models.CreateReminderRequest{
		Kind:     "follow_up",
		RemindAt: time.Now().UTC().Add(-time.Minute),
		Message:  "Too late.",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateReminderRejectsUnknownKind(t *testing.T) {
	svc, complaints, _, _, _ := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)

	_, err := svc.CreateReminder(seeded.ComplaintID, &models.CreateReminderRequest{
		Kind:     "carrier_pigeon",
		RemindAt: time.Now().UTC().Add(time.Hour),
		Message:  "Coo.",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateReminderForLiveComplaint(t *testing.T) {
	svc, complaints, _, _, _ := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)

	reminder, err := svc.CreateReminder(seeded.ComplaintID, &models.CreateReminderRequest{
		Kind:     "due_soon",
		RemindAt: time.Now().UTC().Add(2 * time.Hour),
		Message:  "Due date approaching.",
	})
	require.NoError(t, err)
	assert.False(t, reminder.IsSent)
	assert.Equal(t, models.ReminderDueSoon, reminder.Kind)
}

func TestDeliverExactlyOnce(t *testing.T) {
	svc, complaints, reminders, directory, sender := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)
	complaints.complaints[seeded.ComplaintID].AssignedHandlerID = sqlNullInt64(7)
	directory.addAccount(7, "handler7@corp.example", models.RoleHandler, 1)
	reminder := seedDue(reminders, seeded.ComplaintID)

	ok, err := svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "handler7@corp.example", sender.sent[0].Recipient)

	// Second delivery is a no-op.
	ok, err = svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Len(t, sender.sent, 1, "an already-sent reminder must never be redelivered")
}

func TestDeliverSkipsFutureReminder(t *testing.T) {
	svc, complaints, reminders, directory, sender := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)
	complaints.complaints[seeded.ComplaintID].AssignedHandlerID = sqlNullInt64(7)
	directory.addAccount(7, "handler7@corp.example", models.RoleHandler, 1)

	reminder := &models.ComplaintReminder{
		ComplaintID: seeded.ComplaintID,
		Kind:        models.ReminderCustom,
		RemindAt:    time.Now().UTC().Add(time.Hour),
		Message:     "Not yet.",
	}
	reminders.CreateReminder(reminder)

	ok, err := svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, sender.sent)

	stored, _ := reminders.GetReminderByID(reminder.ReminderID)
	assert.False(t, stored.IsSent, "a not-yet-due reminder stays pending")
}

func TestDeliverSenderFailureLeavesPending(t *testing.T) {
	svc, complaints, reminders, directory, sender := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)
	complaints.complaints[seeded.ComplaintID].AssignedHandlerID = sqlNullInt64(7)
	directory.addAccount(7, "handler7@corp.example", models.RoleHandler, 1)
	reminder := seedDue(reminders, seeded.ComplaintID)

	sender.err = errors.New("smtp down")
	_, err := svc.Deliver(context.Background(), reminder.ReminderID)
	require.Error(t, err)

	var depErr *apperrors.DependencyError
	assert.ErrorAs(t, err, &depErr)

	stored, _ := reminders.GetReminderByID(reminder.ReminderID)
	assert.False(t, stored.IsSent, "a failed delivery stays pending for the next pass")

	// Transport recovers; the next pass delivers.
	sender.err = nil
	ok, err := svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeliverUnassignedComplaintStaysPending(t *testing.T) {
	svc, complaints, reminders, directory, sender := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)
	directory.addAccount(42, "employee42@corp.example", models.RoleEmployee, 1)
	reminder := seedDue(reminders, seeded.ComplaintID)

	// No assigned handler yet: nothing is sent, nothing is marked. The
	// reporting employee must never stand in as the target.
	ok, err := svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, sender.sent)

	stored, _ := reminders.GetReminderByID(reminder.ReminderID)
	assert.False(t, stored.IsSent, "an unassigned complaint's reminder stays pending")

	// Once a handler is assigned, the next pass delivers to them.
	complaints.complaints[seeded.ComplaintID].AssignedHandlerID = sqlNullInt64(7)
	directory.addAccount(7, "handler7@corp.example", models.RoleHandler, 1)

	ok, err = svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "handler7@corp.example", sender.sent[0].Recipient)
}

func TestDeliverHandlerWithoutAccountStaysPending(t *testing.T) {
	svc, complaints, reminders, _, sender := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)
	complaints.complaints[seeded.ComplaintID].AssignedHandlerID = sqlNullInt64(7)
	reminder := seedDue(reminders, seeded.ComplaintID)

	ok, err := svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, sender.sent)

	stored, _ := reminders.GetReminderByID(reminder.ReminderID)
	assert.False(t, stored.IsSent)
}

func TestDeliverRetiresReminderForVanishedComplaint(t *testing.T) {
	svc, complaints, reminders, directory, sender := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)
	complaints.complaints[seeded.ComplaintID].AssignedHandlerID = sqlNullInt64(7)
	directory.addAccount(7, "handler7@corp.example", models.RoleHandler, 1)
	reminder := seedDue(reminders, seeded.ComplaintID)

	delete(complaints.complaints, seeded.ComplaintID)

	ok, err := svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, sender.sent)

	stored, _ := reminders.GetReminderByID(reminder.ReminderID)
	assert.True(t, stored.IsSent, "reminders for vanished complaints are retired, not retried forever")
}

func TestDeliverHoldsReminderForSoftDeletedComplaint(t *testing.T) {
	svc, complaints, reminders, directory, sender := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)
	complaints.complaints[seeded.ComplaintID].AssignedHandlerID = sqlNullInt64(7)
	directory.addAccount(7, "handler7@corp.example", models.RoleHandler, 1)
	reminder := seedDue(reminders, seeded.ComplaintID)

	require.NoError(t, complaints.SoftDelete(seeded.ComplaintID))

	ok, err := svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, sender.sent)

	stored, _ := reminders.GetReminderByID(reminder.ReminderID)
	assert.False(t, stored.IsSent, "a soft-deleted complaint's reminder survives for a restore")

	// Restoring the complaint brings the reminder back into play.
	require.NoError(t, complaints.Restore(seeded.ComplaintID))

	ok, err = svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, sender.sent, 1)
}

func TestDeliverDueProcessesBatch(t *testing.T) {
	svc, complaints, reminders, directory, sender := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)
	complaints.complaints[seeded.ComplaintID].AssignedHandlerID = sqlNullInt64(7)
	directory.addAccount(7, "handler7@corp.example", models.RoleHandler, 1)

	seedDue(reminders, seeded.ComplaintID)
	seedDue(reminders, seeded.ComplaintID)

	delivered, err := svc.DeliverDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
	assert.Len(t, sender.sent, 2)

	// Nothing left for the next poll.
	delivered, err = svc.DeliverDue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, delivered)
}

func TestDeliverTargetsAssignedHandler(t *testing.T) {
	svc, complaints, reminders, directory, sender := newTestReminderService()
	seeded := complaints.seed(models.StatusSubmitted, 42)
	complaints.complaints[seeded.ComplaintID].AssignedHandlerID = sqlNullInt64(7)
	directory.addAccount(42, "employee42@corp.example", models.RoleEmployee, 1)
	directory.addAccount(7, "handler7@corp.example", models.RoleHandler, 1)
	reminder := seedDue(reminders, seeded.ComplaintID)

	ok, err := svc.Deliver(context.Background(), reminder.ReminderID)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "handler7@corp.example", sender.sent[0].Recipient)
}
