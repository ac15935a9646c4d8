package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/models"
	"github.com/SagorIslamOfficial/hrm-sub003/notification"
)

// ComplainantNotifier emails the reporting employee when their complaint
// crosses a milestone status. Failures are logged, never propagated; the
// transition has already committed.
type ComplainantNotifier struct {
	directory Directory
	sender    notification.Sender
}

// NewComplainantNotifier creates a new complainant notifier
func NewComplainantNotifier(directory Directory, sender notification.Sender) *ComplainantNotifier {
	return &ComplainantNotifier{directory: directory, sender: sender}
}

// Name implements StatusSubscriber.
func (n *ComplainantNotifier) Name() string { return "complainant-notifier" }

// OnStatusChanged implements StatusSubscriber.
func (n *ComplainantNotifier) OnStatusChanged(event models.StatusChanged) {
	subject, body := milestoneMessage(event)
	if subject == "" {
		return
	}
	if event.EmployeeID <= 0 {
		return
	}

	account, err := n.directory.GetAccountByEmployeeID(event.EmployeeID)
	if err != nil || account.Email == "" {
		log.Printf("[notify] no email for employee %d on complaint %s", event.EmployeeID, event.ComplaintNumber)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = n.sender.Notify(ctx, account.Email, notification.Payload{
		Event:           "status." + string(event.To),
		ComplaintNumber: event.ComplaintNumber,
		Subject:         subject,
		Body:            body,
	})
	if err != nil {
		log.Printf("[notify] failed to notify employee %d about complaint %s: %v", event.EmployeeID, event.ComplaintNumber, err)
	}
}

func milestoneMessage(event models.StatusChanged) (subject, body string) {
	switch event.To {
	case models.StatusSubmitted:
		return fmt.Sprintf("Complaint %s received", event.ComplaintNumber),
			fmt.Sprintf("Your complaint %s has been received and will be reviewed.", event.ComplaintNumber)
	case models.StatusEscalated:
		return fmt.Sprintf("Complaint %s escalated", event.ComplaintNumber),
			fmt.Sprintf("Your complaint %s has been escalated for senior attention.", event.ComplaintNumber)
	case models.StatusResolved:
		return fmt.Sprintf("Complaint %s resolved", event.ComplaintNumber),
			fmt.Sprintf("Your complaint %s has been resolved. Details are available in the portal.", event.ComplaintNumber)
	case models.StatusClosed:
		return fmt.Sprintf("Complaint %s closed", event.ComplaintNumber),
			fmt.Sprintf("Your complaint %s is now closed. You may submit satisfaction feedback.", event.ComplaintNumber)
	case models.StatusRejected:
		return fmt.Sprintf("Complaint %s update", event.ComplaintNumber),
			fmt.Sprintf("Your complaint %s could not be taken forward. See the notes in the portal.", event.ComplaintNumber)
	default:
		return "", ""
	}
}

// followUpDelay is how long after resolution the satisfaction check-in fires.
const followUpDelay = 72 * time.Hour

// FollowUpScheduler schedules a satisfaction check-in reminder when a
// complaint resolves.
type FollowUpScheduler struct {
	reminders ReminderStore
}

// NewFollowUpScheduler creates a new follow-up scheduler
func NewFollowUpScheduler(reminders ReminderStore) *FollowUpScheduler {
	return &FollowUpScheduler{reminders: reminders}
}

// Name implements StatusSubscriber.
func (f *FollowUpScheduler) Name() string { return "follow-up-scheduler" }

// OnStatusChanged implements StatusSubscriber.
func (f *FollowUpScheduler) OnStatusChanged(event models.StatusChanged) {
	if event.To != models.StatusResolved {
		return
	}
	reminder := &models.ComplaintReminder{
		ComplaintID: event.ComplaintID,
		Kind:        models.ReminderFollowUp,
		RemindAt:    event.OccurredAt.Add(followUpDelay),
		Message:     fmt.Sprintf("Check in on complaint %s: was the resolution satisfactory?", event.ComplaintNumber),
	}
	if err := f.reminders.CreateReminder(reminder); err != nil {
		log.Printf("[notify] failed to schedule follow-up for complaint %s: %v", event.ComplaintNumber, err)
		return
	}
	log.Printf("[notify] follow-up reminder %d scheduled for complaint %s", reminder.ReminderID, event.ComplaintNumber)
}
