package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
	"github.com/SagorIslamOfficial/hrm-sub003/notification"
)

// DefaultReminderBatchSize bounds one delivery pass.
const DefaultReminderBatchSize = 50

// ReminderService schedules one-shot reminders and delivers the due ones.
type ReminderService struct {
	complaints ComplaintStore
	reminders  ReminderStore
	directory  Directory
	sender     notification.Sender
	batchSize  int
}

// NewReminderService creates a new reminder service
func NewReminderService(
	complaints ComplaintStore,
	reminders ReminderStore,
	directory Directory,
	sender notification.Sender,
) *ReminderService {
	return &ReminderService{
		complaints: complaints,
		reminders:  reminders,
		directory:  directory,
		sender:     sender,
		batchSize:  DefaultReminderBatchSize,
	}
}

// CreateReminder schedules a reminder against a live complaint. The trigger
// time must be in the future; a reminder that would fire immediately is a
// client mistake, not a scheduling request.
func (s *ReminderService) CreateReminder(complaintID int64, req *models.CreateReminderRequest) (*models.ComplaintReminder, error) {
	kind := models.ReminderKind(req.Kind)
	switch kind {
	case models.ReminderFollowUp, models.ReminderDueSoon, models.ReminderInfoNeeded, models.ReminderCustom:
	default:
		return nil, apperrors.NewValidation("kind", fmt.Sprintf("unknown reminder kind %q", req.Kind))
	}
	if req.Message == "" {
		return nil, apperrors.NewValidation("message", "message is required")
	}
	if !req.RemindAt.After(time.Now().UTC()) {
		return nil, apperrors.NewValidation("remind_at", "remind_at must be in the future")
	}

	if _, err := s.complaints.GetComplaintByID(complaintID, false); err != nil {
		return nil, err
	}

	reminder := &models.ComplaintReminder{
		ComplaintID: complaintID,
		Kind:        kind,
		RemindAt:    req.RemindAt.UTC(),
		Message:     req.Message,
	}
	if err := s.reminders.CreateReminder(reminder); err != nil {
		return nil, err
	}
	log.Printf("[reminder] scheduled %s reminder %d for complaint %d at %s",
		kind, reminder.ReminderID, complaintID, reminder.RemindAt.Format(time.RFC3339))
	return reminder, nil
}

// ListReminders returns all reminders for a complaint.
func (s *ReminderService) ListReminders(complaintID int64) ([]models.ComplaintReminder, error) {
	if _, err := s.complaints.GetComplaintByID(complaintID, false); err != nil {
		return nil, err
	}
	return s.reminders.GetRemindersByComplaintID(complaintID)
}

// DeliverDue delivers every pending reminder whose trigger time has passed.
// Returns the number delivered.
func (s *ReminderService) DeliverDue(ctx context.Context) (int, error) {
	due, err := s.reminders.GetDuePending(time.Now().UTC(), s.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to load due reminders: %w", err)
	}

	delivered := 0
	for _, reminder := range due {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		ok, err := s.Deliver(ctx, reminder.ReminderID)
		if err != nil {
			log.Printf("[reminder] delivery of reminder %d failed: %v", reminder.ReminderID, err)
			continue
		}
		if ok {
			delivered++
		}
	}
	return delivered, nil
}

// Deliver delivers one reminder, at most once. Returns true when this call
// performed the delivery. Already-sent and not-yet-due reminders are no-ops;
// a reminder whose complaint has disappeared is retired without sending.
func (s *ReminderService) Deliver(ctx context.Context, reminderID int64) (bool, error) {
	reminder, err := s.reminders.GetReminderByID(reminderID)
	if err != nil {
		return false, err
	}
	if reminder.IsSent {
		return false, nil
	}
	now := time.Now().UTC()
	if reminder.RemindAt.After(now) {
		return false, nil
	}

	complaint, err := s.complaints.GetComplaintByID(reminder.ComplaintID, false)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if _, delErr := s.complaints.GetComplaintByID(reminder.ComplaintID, true); delErr == nil {
				// Soft-deleted: keep the reminder pending so a restore
				// picks it back up.
				log.Printf("[reminder] reminder %d held, complaint %d is deleted", reminderID, reminder.ComplaintID)
				return false, nil
			}
			// Complaint gone for good: retire the reminder so the
			// scheduler stops picking it up.
			if _, markErr := s.reminders.MarkSent(reminderID, now); markErr != nil {
				return false, markErr
			}
			log.Printf("[reminder] reminder %d retired, complaint %d no longer exists", reminderID, reminder.ComplaintID)
			return false, nil
		}
		return false, err
	}

	recipient, err := s.resolveRecipient(complaint)
	if err != nil {
		// No resolvable target; the reminder stays pending and is retried
		// on the next pass.
		log.Printf("[reminder] reminder %d has no delivery target: %v", reminderID, err)
		return false, nil
	}

	payload := notification.Payload{
		Event:           "reminder." + string(reminder.Kind),
		ComplaintNumber: complaint.ComplaintNumber,
		Subject:         fmt.Sprintf("Reminder for complaint %s", complaint.ComplaintNumber),
		Body:            reminder.Message,
	}
	if err := s.sender.Notify(ctx, recipient, payload); err != nil {
		return false, apperrors.WrapDependency("notification", err)
	}

	marked, err := s.reminders.MarkSent(reminderID, now)
	if err != nil {
		return false, err
	}
	if !marked {
		// Another worker marked it between our read and our write.
		log.Printf("[reminder] reminder %d already marked sent by a concurrent worker", reminderID)
		return false, nil
	}

	log.Printf("[reminder] reminder %d delivered for complaint %s", reminderID, complaint.ComplaintNumber)
	return true, nil
}

// resolveRecipient picks who hears about the reminder: the complaint's
// current assignee. An unassigned complaint has no delivery target, so the
// reminder stays pending until a handler picks the complaint up.
func (s *ReminderService) resolveRecipient(complaint *models.Complaint) (string, error) {
	if !complaint.AssignedHandlerID.Valid {
		return "", fmt.Errorf("complaint %d has no assigned handler", complaint.ComplaintID)
	}
	account, err := s.directory.GetAccountByEmployeeID(complaint.AssignedHandlerID.Int64)
	if err != nil {
		return "", err
	}
	if account.Email == "" {
		return "", fmt.Errorf("handler %d has no email on file", complaint.AssignedHandlerID.Int64)
	}
	return account.Email, nil
}
