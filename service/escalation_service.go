package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// MaxEscalationLevel caps the ladder; a complaint stuck at the top tier
// stays there and keeps the attention of whoever owns that tier.
const MaxEscalationLevel = 3

// EscalationService owns the SLA sweep and the escalation ledger.
type EscalationService struct {
	complaints  ComplaintStore
	escalations EscalationStore
	directory   Directory
	bus         *EventBus
	leadHours   int
}

// NewEscalationService creates a new escalation service
func NewEscalationService(
	complaints ComplaintStore,
	escalations EscalationStore,
	directory Directory,
	bus *EventBus,
	leadHours int,
) *EscalationService {
	if leadHours <= 0 {
		leadHours = DefaultEscalationLeadHours
	}
	return &EscalationService{
		complaints:  complaints,
		escalations: escalations,
		directory:   directory,
		bus:         bus,
		leadHours:   leadHours,
	}
}

// Sweep scans active complaints approaching their SLA breach and escalates
// each at most once: a ledger entry is appended, the complaint is flagged,
// and where the machine allows it the status moves to escalated. Re-running
// the sweep over the same state is a no-op.
func (s *EscalationService) Sweep() ([]models.EscalationResult, error) {
	candidates, err := s.escalations.GetEscalationCandidates()
	if err != nil {
		return nil, fmt.Errorf("failed to load escalation candidates: %w", err)
	}

	now := time.Now().UTC()
	var results []models.EscalationResult

	for _, candidate := range candidates {
		if !candidate.DueDate.Valid {
			continue
		}
		if !NeedsEscalation(now, candidate.DueDate.Time, s.leadHours) {
			continue
		}

		result, err := s.escalate(candidate, now)
		if err != nil {
			log.Printf("[escalation] complaint %s: %v", candidate.ComplaintNumber, err)
			results = append(results, models.EscalationResult{
				ComplaintID: candidate.ComplaintID,
				Escalated:   false,
				Reason:      err.Error(),
				ProcessedAt: now,
			})
			continue
		}
		results = append(results, result)
	}

	if len(results) > 0 {
		log.Printf("[escalation] sweep processed %d complaint(s)", len(results))
	}
	return results, nil
}

func (s *EscalationService) escalate(candidate models.EscalationCandidate, now time.Time) (models.EscalationResult, error) {
	// The candidate query already excludes flagged complaints; this guard
	// covers a previously recorded hand-off whose flag was since cleared.
	exists, err := s.escalations.HasEscalation(candidate.ComplaintID)
	if err != nil {
		return models.EscalationResult{}, err
	}
	if exists {
		return models.EscalationResult{
			ComplaintID: candidate.ComplaintID,
			Escalated:   false,
			Reason:      "already escalated",
			ProcessedAt: now,
		}, nil
	}

	nextLevel := candidate.EscalationLevel + 1
	if nextLevel > MaxEscalationLevel {
		nextLevel = MaxEscalationLevel
	}

	var departmentID *int64
	if candidate.DepartmentID.Valid {
		id := candidate.DepartmentID.Int64
		departmentID = &id
	}
	targets, err := s.directory.FindHandlersByTier(nextLevel+1, departmentID)
	if err != nil {
		return models.EscalationResult{}, fmt.Errorf("failed to resolve escalation targets: %w", err)
	}
	if len(targets) == 0 {
		// Fall back to the org-wide pool at the same tier.
		targets, err = s.directory.FindHandlersByTier(nextLevel+1, nil)
		if err != nil {
			return models.EscalationResult{}, fmt.Errorf("failed to resolve fallback targets: %w", err)
		}
	}

	targetsJSON, _ := json.Marshal(targets)
	levelLabel := fmt.Sprintf("L%d", nextLevel)
	reason := fmt.Sprintf("SLA nearing breach: due %s", candidate.DueDate.Time.Format(time.RFC3339))

	entry := &models.ComplaintEscalation{
		ComplaintID:     candidate.ComplaintID,
		FromHandlerID:   candidate.AssignedHandlerID,
		EscalatedTo:     string(targetsJSON),
		EscalationLevel: levelLabel,
		Reason:          reason,
		EscalatedByType: models.ActorSystem,
	}
	if err := s.escalations.CreateEscalation(entry); err != nil {
		return models.EscalationResult{}, fmt.Errorf("failed to record escalation: %w", err)
	}

	if err := s.complaints.SetEscalated(candidate.ComplaintID, now, nextLevel); err != nil {
		return models.EscalationResult{}, fmt.Errorf("failed to flag complaint escalated: %w", err)
	}

	// Status follows the flag only where the machine permits; a complaint
	// in pending_info keeps its status but is still flagged and recorded.
	if candidate.CurrentStatus.CanTransitionTo(models.StatusEscalated) {
		if err := s.complaints.UpdateStatus(candidate.ComplaintID, candidate.CurrentStatus, models.StatusEscalated); err != nil {
			log.Printf("[escalation] complaint %s: status not moved: %v", candidate.ComplaintNumber, err)
		} else {
			history := &models.ComplaintStatusHistory{
				ComplaintID: candidate.ComplaintID,
				FromStatus:  sql.NullString{String: string(candidate.CurrentStatus), Valid: true},
				ToStatus:    models.StatusEscalated,
				Notes:       sql.NullString{String: reason, Valid: true},
				ActorType:   models.ActorSystem,
			}
			if err := s.complaints.CreateStatusHistory(history); err != nil {
				log.Printf("[escalation] complaint %s: history not recorded: %v", candidate.ComplaintNumber, err)
			}
			if s.bus != nil {
				s.bus.PublishStatusChanged(models.StatusChanged{
					ComplaintID:     candidate.ComplaintID,
					ComplaintNumber: candidate.ComplaintNumber,
					From:            candidate.CurrentStatus,
					To:              models.StatusEscalated,
					Notes:           reason,
					ActorType:       models.ActorSystem,
					OccurredAt:      now,
				})
			}
		}
	}

	log.Printf("[escalation] complaint %s escalated to %s (%d target(s))",
		candidate.ComplaintNumber, levelLabel, len(targets))

	escalationID := entry.EscalationID
	return models.EscalationResult{
		ComplaintID:  candidate.ComplaintID,
		Escalated:    true,
		EscalationID: &escalationID,
		Level:        levelLabel,
		Reason:       reason,
		ProcessedAt:  now,
	}, nil
}

// Deescalate clears the escalation flag with an audit note. The ledger
// entry stays; only the complaint's current state changes.
func (s *EscalationService) Deescalate(complaintID int64, req *models.DeescalateRequest, actorID int64) error {
	complaint, err := s.complaints.GetComplaintByID(complaintID, false)
	if err != nil {
		return err
	}
	if !complaint.IsEscalated {
		return fmt.Errorf("%w: complaint %s is not escalated", apperrors.ErrInvalidTransition, complaint.ComplaintNumber)
	}

	if err := s.complaints.ClearEscalated(complaintID); err != nil {
		return err
	}

	notes := "Escalation cleared"
	if req != nil && req.Notes != nil && *req.Notes != "" {
		notes = *req.Notes
	}
	history := &models.ComplaintStatusHistory{
		ComplaintID: complaintID,
		FromStatus:  sql.NullString{String: string(complaint.CurrentStatus), Valid: true},
		ToStatus:    complaint.CurrentStatus,
		Notes:       sql.NullString{String: notes, Valid: true},
		ActorType:   models.ActorAdmin,
		ActorID:     sql.NullInt64{Int64: actorID, Valid: true},
	}
	if err := s.complaints.CreateStatusHistory(history); err != nil {
		return fmt.Errorf("failed to record de-escalation: %w", err)
	}

	log.Printf("[escalation] complaint %s de-escalated by admin %d", complaint.ComplaintNumber, actorID)
	return nil
}

// ListEscalations returns the escalation ledger for a complaint.
func (s *EscalationService) ListEscalations(complaintID int64) ([]models.ComplaintEscalation, error) {
	if _, err := s.complaints.GetComplaintByID(complaintID, false); err != nil {
		return nil, err
	}
	return s.escalations.GetEscalationsByComplaintID(complaintID)
}
