package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

func newTestResolutionService() (*ResolutionService, *fakeComplaintStore, *fakeResolutionStore) {
	complaints := newFakeComplaintStore()
	resolutions := newFakeResolutionStore()
	svc := NewResolutionService(complaints, resolutions, NewEventBus())
	return svc, complaints, resolutions
}

func TestStoreResolutionMovesToResolved(t *testing.T) {
	svc, complaints, _ := newTestResolutionService()
	seeded := complaints.seed(models.StatusUnderReview, 42)

	actions := "Replaced the AC unit"
	resolution, err := svc.StoreResolution(seeded.ComplaintID, &models.ResolutionRequest{
		Summary:      "AC repaired",
		ActionsTaken: &actions,
	}, 7)
	require.NoError(t, err)
	assert.Equal(t, "AC repaired", resolution.Summary)
	assert.Equal(t, int64(7), resolution.ResolvedByID)

	stored, _ := complaints.GetComplaintByID(seeded.ComplaintID, false)
	assert.Equal(t, models.StatusResolved, stored.CurrentStatus)
	assert.True(t, stored.ResolvedAt.Valid)

	history, _ := complaints.GetStatusHistory(seeded.ComplaintID)
	require.Len(t, history, 1)
	assert.Equal(t, models.StatusResolved, history[0].ToStatus)
}

func TestStoreResolutionRejectsClosedAndDraft(t *testing.T) {
	svc, complaints, _ := newTestResolutionService()

	closed := complaints.seed(models.StatusClosed, 42)
	_, err := svc.StoreResolution(closed.ComplaintID, &models.ResolutionRequest{Summary: "Too late"}, 7)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	draft := complaints.seed(models.StatusDraft, 42)
	_, err = svc.StoreResolution(draft.ComplaintID, &models.ResolutionRequest{Summary: "Too early"}, 7)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestStoreResolutionRequiresSummary(t *testing.T) {
	svc, complaints, _ := newTestResolutionService()
	seeded := complaints.seed(models.StatusUnderReview, 42)

	_, err := svc.StoreResolution(seeded.ComplaintID, &models.ResolutionRequest{}, 7)
	assert.True(t, apperrors.IsValidation(err))
}

func TestReresolveReplacesPayloadWithoutNewTransition(t *testing.T) {
	svc, complaints, _ := newTestResolutionService()
	seeded := complaints.seed(models.StatusUnderReview, 42)

	_, err := svc.StoreResolution(seeded.ComplaintID, &models.ResolutionRequest{Summary: "First pass"}, 7)
	require.NoError(t, err)

	resolution, err := svc.StoreResolution(seeded.ComplaintID, &models.ResolutionRequest{Summary: "Corrected summary"}, 8)
	require.NoError(t, err)
	assert.Equal(t, "Corrected summary", resolution.Summary)
	assert.Equal(t, int64(8), resolution.ResolvedByID)

	history, _ := complaints.GetStatusHistory(seeded.ComplaintID)
	assert.Len(t, history, 1, "replacing the payload must not append another transition")
}

func TestRecordFeedbackOnlyWhenClosed(t *testing.T) {
	svc, complaints, resolutions := newTestResolutionService()
	seeded := complaints.seed(models.StatusResolved, 42)
	require.NoError(t, resolutions.UpsertResolution(&models.ComplaintResolution{
		ComplaintID:  seeded.ComplaintID,
		Summary:      "AC repaired",
		ResolvedByID: 7,
		ResolvedAt:   time.Now().UTC(),
	}))

	err := svc.RecordFeedback(seeded.ComplaintID, &models.FeedbackRequest{SatisfactionRating: 4}, 42)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "feedback before closing must fail")

	complaints.complaints[seeded.ComplaintID].CurrentStatus = models.StatusClosed

	require.NoError(t, svc.RecordFeedback(seeded.ComplaintID, &models.FeedbackRequest{SatisfactionRating: 4}, 42))

	stored, _ := resolutions.GetResolutionByComplaintID(seeded.ComplaintID)
	assert.Equal(t, int64(4), stored.SatisfactionRating.Int64)
	assert.Equal(t, int64(7), stored.ResolvedByID, "feedback merge must not touch the resolver")
}

func TestRecordFeedbackOnlyByReportingEmployee(t *testing.T) {
	svc, complaints, resolutions := newTestResolutionService()
	seeded := complaints.seed(models.StatusClosed, 42)
	require.NoError(t, resolutions.UpsertResolution(&models.ComplaintResolution{
		ComplaintID:  seeded.ComplaintID,
		Summary:      "AC repaired",
		ResolvedByID: 7,
		ResolvedAt:   time.Now().UTC(),
	}))

	err := svc.RecordFeedback(seeded.ComplaintID, &models.FeedbackRequest{SatisfactionRating: 5}, 99)
	assert.ErrorIs(t, err, apperrors.ErrPolicyDenied)
}

func TestRecordFeedbackRatingBounds(t *testing.T) {
	svc, complaints, _ := newTestResolutionService()
	seeded := complaints.seed(models.StatusClosed, 42)

	for _, rating := range []int{0, 6, -1} {
		err := svc.RecordFeedback(seeded.ComplaintID, &models.FeedbackRequest{SatisfactionRating: rating}, 42)
		assert.True(t, apperrors.IsValidation(err), "rating %d must be rejected", rating)
	}
}
