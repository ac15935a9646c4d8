package worker

import (
	"log"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/service"
)

// EscalationWorker is a background worker that periodically runs the SLA
// escalation sweep.
type EscalationWorker struct {
	escalationService *service.EscalationService
	interval          time.Duration
	stopChan          chan struct{}
	running           bool
}

// NewEscalationWorker creates a new escalation worker
func NewEscalationWorker(
	escalationService *service.EscalationService,
	interval time.Duration,
) *EscalationWorker {
	return &EscalationWorker{
		escalationService: escalationService,
		interval:          interval,
		stopChan:          make(chan struct{}),
		running:           false,
	}
}

// Start starts the escalation worker
// The worker runs in a separate goroutine and sweeps periodically
func (w *EscalationWorker) Start() {
	if w.running {
		log.Println("Escalation worker is already running")
		return
	}

	w.running = true
	log.Printf("Escalation worker started (interval: %v)", w.interval)

	go w.run()
}

// Stop stops the escalation worker
func (w *EscalationWorker) Stop() {
	if !w.running {
		return
	}

	log.Println("Stopping escalation worker...")
	close(w.stopChan)
	w.running = false
	log.Println("Escalation worker stopped")
}

// run is the main worker loop
func (w *EscalationWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Sweep immediately on start
	w.sweep()

	for {
		select {
		case <-ticker.C:
			w.sweep()
		case <-w.stopChan:
			return
		}
	}
}

// sweep runs one escalation pass. Safe to call repeatedly; the sweep itself
// escalates each complaint at most once.
func (w *EscalationWorker) sweep() {
	startTime := time.Now()

	results, err := w.escalationService.Sweep()
	if err != nil {
		log.Printf("Error running escalation sweep: %v", err)
		return
	}

	escalatedCount := 0
	skippedCount := 0
	for _, result := range results {
		if result.Escalated {
			escalatedCount++
			log.Printf("Escalated complaint #%d to %s: %s", result.ComplaintID, result.Level, result.Reason)
		} else {
			skippedCount++
		}
	}

	if escalatedCount > 0 || skippedCount > 0 {
		log.Printf("Escalation sweep completed in %v: %d escalated, %d skipped",
			time.Since(startTime), escalatedCount, skippedCount)
	}
}
