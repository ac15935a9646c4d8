package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

func newTestComplaintService() (*ComplaintService, *fakeComplaintStore, *fakeResolutionStore) {
	complaints := newFakeComplaintStore()
	resolutions := newFakeResolutionStore()
	svc := &ComplaintService{
		store:           complaints,
		resolutions:     resolutions,
		bus:             NewEventBus(),
		defaultSLAHours: DefaultSLAHours,
	}
	return svc, complaints, resolutions
}

func TestCreateComplaintStartsAsDraft(t *testing.T) {
	svc, store, _ := newTestComplaintService()

	complaint, err := svc.CreateComplaint(&models.CreateComplaintRequest{
		Title:       "Broken AC in office",
		Description: "The AC has been broken for a week.",
		Categories:  []string{"workplace"},
	}, 42)
	require.NoError(t, err)

	assert.Equal(t, models.StatusDraft, complaint.CurrentStatus)
	assert.Equal(t, int64(42), complaint.EmployeeID)
	assert.Equal(t, DefaultSLAHours, complaint.SLAHours)
	assert.NotEmpty(t, complaint.ComplaintNumber)
	assert.False(t, complaint.SubmittedAt.Valid, "SLA clock must not start before submission")

	history, err := store.GetStatusHistory(complaint.ComplaintID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.False(t, history[0].FromStatus.Valid, "initial entry has no prior status")
	assert.Equal(t, models.StatusDraft, history[0].ToStatus)
}

func TestCreateComplaintValidation(t *testing.T) {
	svc, _, _ := newTestComplaintService()

	_, err := svc.CreateComplaint(&models.CreateComplaintRequest{
		Description: "No title given.",
		Categories:  []string{"workplace"},
	}, 42)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.CreateComplaint(&models.CreateComplaintRequest{
		Title:       "No categories",
		Description: "Missing tags.",
	}, 42)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSubmitStartsSLAClock(t *testing.T) {
	svc, store, _ := newTestComplaintService()
	seeded := store.seed(models.StatusDraft, 42)

	before := time.Now().UTC()
	complaint, err := svc.Submit(seeded.ComplaintID, 42)
	require.NoError(t, err)

	assert.Equal(t, models.StatusSubmitted, complaint.CurrentStatus)
	require.True(t, complaint.SubmittedAt.Valid)
	require.True(t, complaint.DueDate.Valid)
	assert.Equal(t, 72*time.Hour, complaint.DueDate.Time.Sub(complaint.SubmittedAt.Time))
	assert.False(t, complaint.SubmittedAt.Time.Before(before))

	history, _ := store.GetStatusHistory(seeded.ComplaintID)
	require.Len(t, history, 1)
	assert.Equal(t, "draft", history[0].FromStatus.String)
	assert.Equal(t, models.StatusSubmitted, history[0].ToStatus)
}

func TestSubmitOnlyFromDraft(t *testing.T) {
	svc, store, _ := newTestComplaintService()

	for _, status := range []models.ComplaintStatus{
		models.StatusSubmitted, models.StatusUnderReview, models.StatusResolved, models.StatusClosed,
	} {
		seeded := store.seed(status, 42)
		_, err := svc.Submit(seeded.ComplaintID, 42)
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "submit from %s must fail", status)
	}
}

func TestChangeStatusFollowsTransitionRules(t *testing.T) {
	svc, store, _ := newTestComplaintService()
	seeded := store.seed(models.StatusSubmitted, 42)
	actorID := int64(7)

	complaint, err := svc.ChangeStatus(seeded.ComplaintID,
		&models.ChangeStatusRequest{NewStatus: "under_review"},
		models.ActorHandler, &actorID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnderReview, complaint.CurrentStatus)

	// First handler touch stamps acknowledgement.
	stored, _ := store.GetComplaintByID(seeded.ComplaintID, false)
	assert.True(t, stored.AcknowledgedAt.Valid)

	// Illegal move: under_review cannot go back to submitted.
	_, err = svc.ChangeStatus(seeded.ComplaintID,
		&models.ChangeStatusRequest{NewStatus: "submitted"},
		models.ActorHandler, &actorID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestChangeStatusRejectsTerminalStates(t *testing.T) {
	svc, store, _ := newTestComplaintService()
	actorID := int64(7)

	for _, status := range []models.ComplaintStatus{models.StatusClosed, models.StatusRejected} {
		seeded := store.seed(status, 42)
		for _, target := range []string{"under_review", "investigating", "resolved", "escalated"} {
			_, err := svc.ChangeStatus(seeded.ComplaintID,
				&models.ChangeStatusRequest{NewStatus: target},
				models.ActorAdmin, &actorID)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "%s -> %s must fail", status, target)
		}
	}
}

func TestChangeStatusRejectsNoopAndUnknown(t *testing.T) {
	svc, store, _ := newTestComplaintService()
	seeded := store.seed(models.StatusUnderReview, 42)
	actorID := int64(7)

	_, err := svc.ChangeStatus(seeded.ComplaintID,
		&models.ChangeStatusRequest{NewStatus: "under_review"},
		models.ActorHandler, &actorID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "same-status change is not a legal move")

	_, err = svc.ChangeStatus(seeded.ComplaintID,
		&models.ChangeStatusRequest{NewStatus: "vanished"},
		models.ActorHandler, &actorID)
	assert.True(t, apperrors.IsValidation(err))
}

func TestResolveRequiresResolutionRecord(t *testing.T) {
	svc, store, resolutions := newTestComplaintService()
	seeded := store.seed(models.StatusUnderReview, 42)
	actorID := int64(7)

	_, err := svc.ChangeStatus(seeded.ComplaintID,
		&models.ChangeStatusRequest{NewStatus: "resolved"},
		models.ActorHandler, &actorID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "resolving without a resolution record must fail")

	require.NoError(t, resolutions.UpsertResolution(&models.ComplaintResolution{
		ComplaintID:  seeded.ComplaintID,
		Summary:      "AC repaired",
		ResolvedByID: actorID,
		ResolvedAt:   time.Now().UTC(),
	}))

	complaint, err := svc.ChangeStatus(seeded.ComplaintID,
		&models.ChangeStatusRequest{NewStatus: "resolved"},
		models.ActorHandler, &actorID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, complaint.CurrentStatus)
}

func TestChangeStatusPublishesEvent(t *testing.T) {
	svc, store, _ := newTestComplaintService()
	seeded := store.seed(models.StatusSubmitted, 42)
	actorID := int64(7)

	var received []models.StatusChanged
	svc.bus.Subscribe(subscriberFunc(func(e models.StatusChanged) { received = append(received, e) }))

	_, err := svc.ChangeStatus(seeded.ComplaintID,
		&models.ChangeStatusRequest{NewStatus: "under_review"},
		models.ActorHandler, &actorID)
	require.NoError(t, err)

	require.Len(t, received, 1)
	assert.Equal(t, models.StatusSubmitted, received[0].From)
	assert.Equal(t, models.StatusUnderReview, received[0].To)
	assert.Equal(t, seeded.ComplaintID, received[0].ComplaintID)
}

func TestSoftDeleteHidesAndRestoreRecovers(t *testing.T) {
	svc, store, _ := newTestComplaintService()
	seeded := store.seed(models.StatusSubmitted, 42)

	require.NoError(t, svc.SoftDelete(seeded.ComplaintID))
	_, err := svc.GetComplaint(seeded.ComplaintID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, svc.Restore(seeded.ComplaintID))
	restored, err := svc.GetComplaint(seeded.ComplaintID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ComplaintID, restored.ComplaintID)
}

func TestGetTimelineOrdering(t *testing.T) {
	svc, store, _ := newTestComplaintService()
	seeded := store.seed(models.StatusDraft, 42)
	actorID := int64(7)

	_, err := svc.Submit(seeded.ComplaintID, 42)
	require.NoError(t, err)
	_, err = svc.ChangeStatus(seeded.ComplaintID,
		&models.ChangeStatusRequest{NewStatus: "under_review"},
		models.ActorHandler, &actorID)
	require.NoError(t, err)

	timeline, err := svc.GetTimeline(seeded.ComplaintID)
	require.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "submitted", timeline[0].ToStatus)
	assert.Equal(t, "under_review", timeline[1].ToStatus)
}

func TestValidateSinglePrimary(t *testing.T) {
	primary := func(id int64) models.ComplaintSubject {
		return models.ComplaintSubject{SubjectID: id, IsPrimary: true}
	}

	t.Run("two new primaries rejected", func(t *testing.T) {
		err := validateSinglePrimary(nil, []models.SubjectItem{
			{ChildMarkers: models.ChildMarkers{IsNew: true}, IsPrimary: true, SubjectKind: models.SubjectEmployee},
			{ChildMarkers: models.ChildMarkers{IsNew: true}, IsPrimary: true, SubjectKind: models.SubjectDepartment},
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("new primary alongside existing primary rejected", func(t *testing.T) {
		err := validateSinglePrimary([]models.ComplaintSubject{primary(1)}, []models.SubjectItem{
			{ChildMarkers: models.ChildMarkers{IsNew: true}, IsPrimary: true, SubjectKind: models.SubjectEmployee},
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("deleting the old primary makes room for a new one", func(t *testing.T) {
		err := validateSinglePrimary([]models.ComplaintSubject{primary(1)}, []models.SubjectItem{
			{ChildMarkers: models.ChildMarkers{IsDeleted: true}, SubjectID: 1},
			{ChildMarkers: models.ChildMarkers{IsNew: true}, IsPrimary: true, SubjectKind: models.SubjectEmployee},
		})
		assert.NoError(t, err)
	})

	t.Run("demoting the old primary via update makes room", func(t *testing.T) {
		err := validateSinglePrimary([]models.ComplaintSubject{primary(1)}, []models.SubjectItem{
			{ChildMarkers: models.ChildMarkers{IsModified: true}, SubjectID: 1, IsPrimary: false},
			{ChildMarkers: models.ChildMarkers{IsNew: true}, IsPrimary: true, SubjectKind: models.SubjectEmployee},
		})
		assert.NoError(t, err)
	})

	t.Run("new-and-deleted item never counts", func(t *testing.T) {
		err := validateSinglePrimary([]models.ComplaintSubject{primary(1)}, []models.SubjectItem{
			{ChildMarkers: models.ChildMarkers{IsNew: true, IsDeleted: true}, IsPrimary: true},
		})
		assert.NoError(t, err)
	})
}

// subscriberFunc adapts a closure to StatusSubscriber for tests.
type subscriberFunc func(models.StatusChanged)

func (f subscriberFunc) Name() string                             { return "test-subscriber" }
func (f subscriberFunc) OnStatusChanged(event models.StatusChanged) { f(event) }
