package worker

import (
	"context"
	"log"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/service"
)

// ReminderWorker is a background worker that polls for due reminders and
// delivers them.
type ReminderWorker struct {
	reminderService *service.ReminderService
	interval        time.Duration
	stopChan        chan struct{}
	running         bool
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(
	reminderService *service.ReminderService,
	interval time.Duration,
) *ReminderWorker {
	return &ReminderWorker{
		reminderService: reminderService,
		interval:        interval,
		stopChan:        make(chan struct{}),
		running:         false,
	}
}

// Start starts the reminder worker
func (w *ReminderWorker) Start() {
	if w.running {
		log.Println("Reminder worker is already running")
		return
	}

	w.running = true
	log.Printf("Reminder worker started (interval: %v)", w.interval)

	go w.run()
}

// Stop stops the reminder worker
func (w *ReminderWorker) Stop() {
	if !w.running {
		return
	}

	log.Println("Stopping reminder worker...")
	close(w.stopChan)
	w.running = false
	log.Println("Reminder worker stopped")
}

// run is the main worker loop
func (w *ReminderWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Deliver immediately on start
	w.deliver()

	for {
		select {
		case <-ticker.C:
			w.deliver()
		case <-w.stopChan:
			return
		}
	}
}

// deliver runs one delivery pass over due pending reminders.
func (w *ReminderWorker) deliver() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	delivered, err := w.reminderService.DeliverDue(ctx)
	if err != nil {
		log.Printf("Error delivering reminders: %v", err)
		return
	}
	if delivered > 0 {
		log.Printf("Delivered %d reminder(s)", delivered)
	}
}
