package service

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// ResolutionService owns the one-to-one resolution record and the
// post-closure satisfaction feedback.
type ResolutionService struct {
	complaints  ComplaintStore
	resolutions ResolutionStore
	bus         *EventBus
}

// NewResolutionService creates a new resolution service
func NewResolutionService(complaints ComplaintStore, resolutions ResolutionStore, bus *EventBus) *ResolutionService {
	return &ResolutionService{
		complaints:  complaints,
		resolutions: resolutions,
		bus:         bus,
	}
}

// StoreResolution records or replaces the resolution payload and, where the
// machine allows it, moves the complaint to resolved in the same call. A
// closed complaint's record is final and cannot be replaced.
func (s *ResolutionService) StoreResolution(complaintID int64, req *models.ResolutionRequest, resolverID int64) (*models.ComplaintResolution, error) {
	if req.Summary == "" {
		return nil, apperrors.NewValidation("summary", "resolution summary is required")
	}

	complaint, err := s.complaints.GetComplaintByID(complaintID, false)
	if err != nil {
		return nil, err
	}
	if complaint.CurrentStatus == models.StatusClosed {
		return nil, fmt.Errorf("%w: resolution of a closed complaint is final", apperrors.ErrInvalidTransition)
	}
	if complaint.CurrentStatus == models.StatusDraft {
		return nil, fmt.Errorf("%w: a draft cannot be resolved", apperrors.ErrInvalidTransition)
	}

	now := time.Now().UTC()
	resolution := &models.ComplaintResolution{
		ComplaintID:        complaintID,
		Summary:            req.Summary,
		ActionsTaken:       nullString(req.ActionsTaken),
		PreventiveMeasures: nullString(req.PreventiveMeasures),
		ResolvedByID:       resolverID,
		ResolvedAt:         now,
	}
	if err := s.resolutions.UpsertResolution(resolution); err != nil {
		return nil, err
	}
	log.Printf("[resolution] resolution stored for complaint %s by %d", complaint.ComplaintNumber, resolverID)

	// Re-resolving an already-resolved complaint just replaces the payload.
	from := complaint.CurrentStatus
	if from != models.StatusResolved && from.CanTransitionTo(models.StatusResolved) {
		if err := s.complaints.UpdateStatus(complaintID, from, models.StatusResolved); err != nil {
			return nil, err
		}
		history := &models.ComplaintStatusHistory{
			ComplaintID: complaintID,
			FromStatus:  sql.NullString{String: string(from), Valid: true},
			ToStatus:    models.StatusResolved,
			Notes:       sql.NullString{String: "Resolution recorded", Valid: true},
			ActorType:   models.ActorHandler,
			ActorID:     sql.NullInt64{Int64: resolverID, Valid: true},
		}
		if err := s.complaints.CreateStatusHistory(history); err != nil {
			return nil, fmt.Errorf("failed to create status history: %w", err)
		}
		if s.bus != nil {
			s.bus.PublishStatusChanged(models.StatusChanged{
				ComplaintID:     complaintID,
				ComplaintNumber: complaint.ComplaintNumber,
				EmployeeID:      complaint.EmployeeID,
				From:            from,
				To:              models.StatusResolved,
				Notes:           "Resolution recorded",
				ActorType:       models.ActorHandler,
				ActorID:         &resolverID,
				OccurredAt:      now,
			})
		}
	}

	return s.resolutions.GetResolutionByComplaintID(complaintID)
}

// GetResolution retrieves the resolution record for a complaint.
func (s *ResolutionService) GetResolution(complaintID int64) (*models.ComplaintResolution, error) {
	if _, err := s.complaints.GetComplaintByID(complaintID, false); err != nil {
		return nil, err
	}
	return s.resolutions.GetResolutionByComplaintID(complaintID)
}

// RecordFeedback merges the complainant's satisfaction rating into the
// resolution. Only a closed complaint accepts feedback, and only its
// reporting employee may file it.
func (s *ResolutionService) RecordFeedback(complaintID int64, req *models.FeedbackRequest, employeeID int64) error {
	if req.SatisfactionRating < 1 || req.SatisfactionRating > 5 {
		return apperrors.NewValidation("satisfaction_rating", "satisfaction rating must be between 1 and 5")
	}

	complaint, err := s.complaints.GetComplaintByID(complaintID, false)
	if err != nil {
		return err
	}
	if complaint.CurrentStatus != models.StatusClosed {
		return fmt.Errorf("%w: feedback is accepted only after closing", apperrors.ErrInvalidTransition)
	}
	if complaint.EmployeeID != employeeID {
		return apperrors.ErrPolicyDenied
	}

	if err := s.resolutions.UpdateFeedback(complaintID, req.SatisfactionRating, nullString(req.Feedback)); err != nil {
		return err
	}
	log.Printf("[resolution] feedback recorded for complaint %s (rating %d)", complaint.ComplaintNumber, req.SatisfactionRating)
	return nil
}
