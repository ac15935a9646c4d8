package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
	"github.com/SagorIslamOfficial/hrm-sub003/notification"
)

func sqlTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func sqlNullInt64(i int64) sql.NullInt64 {
	return sql.NullInt64{Int64: i, Valid: true}
}

// In-memory fakes for the store interfaces. They mimic the repository
// guarantees the services rely on: the expected-from guard on status
// updates and the flip-once guard on reminder delivery.

type fakeComplaintStore struct {
	complaints map[int64]*models.Complaint
	history    []models.ComplaintStatusHistory
	nextID     int64
	seq        int
}

func newFakeComplaintStore() *fakeComplaintStore {
	return &fakeComplaintStore{complaints: make(map[int64]*models.Complaint)}
}

func (f *fakeComplaintStore) GenerateComplaintNumber() string {
	f.seq++
	return fmt.Sprintf("GRV-20250101-%08d", f.seq)
}

func (f *fakeComplaintStore) CreateComplaint(c *models.Complaint) error {
	f.nextID++
	c.ComplaintID = f.nextID
	c.CreatedAt = time.Now().UTC()
	cp := *c
	f.complaints[c.ComplaintID] = &cp
	return nil
}

func (f *fakeComplaintStore) GetComplaintByID(id int64, includeDeleted bool) (*models.Complaint, error) {
	c, ok := f.complaints[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !includeDeleted && c.DeletedAt.Valid {
		return nil, apperrors.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeComplaintStore) GetComplaintsByEmployeeID(employeeID int64) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range f.complaints {
		if c.EmployeeID == employeeID && !c.DeletedAt.Valid {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeComplaintStore) UpdateDraftFields(c *models.Complaint) error {
	stored, ok := f.complaints[c.ComplaintID]
	if !ok {
		return apperrors.ErrNotFound
	}
	stored.Title = c.Title
	stored.Description = c.Description
	stored.Categories = c.Categories
	stored.Priority = c.Priority
	stored.IncidentDate = c.IncidentDate
	stored.IncidentLocation = c.IncidentLocation
	stored.FollowUpDate = c.FollowUpDate
	return nil
}

func (f *fakeComplaintStore) MarkSubmitted(id int64, submittedAt, dueDate time.Time) error {
	c, ok := f.complaints[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.CurrentStatus = models.StatusSubmitted
	c.SubmittedAt = sqlTime(submittedAt)
	c.DueDate = sqlTime(dueDate)
	c.SLABreachAt = sqlTime(dueDate)
	return nil
}

func (f *fakeComplaintStore) UpdateStatus(id int64, expectedFrom, newStatus models.ComplaintStatus) error {
	c, ok := f.complaints[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if c.CurrentStatus != expectedFrom {
		return apperrors.InvalidTransition(string(c.CurrentStatus), string(newStatus))
	}
	c.CurrentStatus = newStatus
	now := time.Now().UTC()
	switch newStatus {
	case models.StatusResolved:
		c.ResolvedAt = sqlTime(now)
	case models.StatusClosed:
		c.ClosedAt = sqlTime(now)
	}
	return nil
}

func (f *fakeComplaintStore) MarkAcknowledged(id int64, at time.Time) error {
	c, ok := f.complaints[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !c.AcknowledgedAt.Valid {
		c.AcknowledgedAt = sqlTime(at)
	}
	return nil
}

func (f *fakeComplaintStore) SetEscalated(id int64, at time.Time, level int) error {
	c, ok := f.complaints[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.IsEscalated = true
	c.EscalatedAt = sqlTime(at)
	c.EscalationLevel = level
	return nil
}

func (f *fakeComplaintStore) ClearEscalated(id int64) error {
	c, ok := f.complaints[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.IsEscalated = false
	return nil
}

func (f *fakeComplaintStore) SoftDelete(id int64) error {
	c, ok := f.complaints[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.DeletedAt = sqlTime(time.Now().UTC())
	return nil
}

func (f *fakeComplaintStore) Restore(id int64) error {
	c, ok := f.complaints[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.DeletedAt = sql.NullTime{}
	return nil
}

func (f *fakeComplaintStore) CreateStatusHistory(h *models.ComplaintStatusHistory) error {
	h.HistoryID = int64(len(f.history) + 1)
	h.CreatedAt = time.Now().UTC()
	f.history = append(f.history, *h)
	return nil
}

func (f *fakeComplaintStore) GetStatusHistory(complaintID int64) ([]models.ComplaintStatusHistory, error) {
	var out []models.ComplaintStatusHistory
	for _, h := range f.history {
		if h.ComplaintID == complaintID {
			out = append(out, h)
		}
	}
	return out, nil
}

// seed places a complaint directly in the store in the given status.
func (f *fakeComplaintStore) seed(status models.ComplaintStatus, employeeID int64) *models.Complaint {
	f.nextID++
	c := &models.Complaint{
		ComplaintID:     f.nextID,
		ComplaintNumber: f.GenerateComplaintNumber(),
		EmployeeID:      employeeID,
		Title:           "Broken AC in office",
		Description:     "The AC has been broken for a week.",
		Categories:      `["workplace"]`,
		Priority:        models.PriorityMedium,
		CurrentStatus:   status,
		SLAHours:        DefaultSLAHours,
		CreatedAt:       time.Now().UTC(),
	}
	if status != models.StatusDraft {
		now := time.Now().UTC()
		c.SubmittedAt = sqlTime(now)
		c.DueDate = sqlTime(ComputeDueDate(now, c.SLAHours))
		c.SLABreachAt = c.DueDate
	}
	f.complaints[c.ComplaintID] = c
	return c
}

type fakeResolutionStore struct {
	resolutions map[int64]*models.ComplaintResolution
	nextID      int64
}

func newFakeResolutionStore() *fakeResolutionStore {
	return &fakeResolutionStore{resolutions: make(map[int64]*models.ComplaintResolution)}
}

func (f *fakeResolutionStore) UpsertResolution(res *models.ComplaintResolution) error {
	existing, ok := f.resolutions[res.ComplaintID]
	if ok {
		existing.Summary = res.Summary
		existing.ActionsTaken = res.ActionsTaken
		existing.PreventiveMeasures = res.PreventiveMeasures
		existing.ResolvedByID = res.ResolvedByID
		existing.ResolvedAt = res.ResolvedAt
		return nil
	}
	f.nextID++
	cp := *res
	cp.ResolutionID = f.nextID
	f.resolutions[res.ComplaintID] = &cp
	return nil
}

func (f *fakeResolutionStore) GetResolutionByComplaintID(complaintID int64) (*models.ComplaintResolution, error) {
	res, ok := f.resolutions[complaintID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (f *fakeResolutionStore) UpdateFeedback(complaintID int64, rating int, feedback sql.NullString) error {
	res, ok := f.resolutions[complaintID]
	if !ok {
		return apperrors.ErrNotFound
	}
	res.SatisfactionRating.Int64 = int64(rating)
	res.SatisfactionRating.Valid = true
	res.Feedback = feedback
	return nil
}

type fakeEscalationStore struct {
	complaints *fakeComplaintStore
	ledger     []models.ComplaintEscalation
	nextID     int64
}

func newFakeEscalationStore(complaints *fakeComplaintStore) *fakeEscalationStore {
	return &fakeEscalationStore{complaints: complaints}
}

func (f *fakeEscalationStore) CreateEscalation(e *models.ComplaintEscalation) error {
	for _, existing := range f.ledger {
		if existing.ComplaintID == e.ComplaintID && existing.EscalationLevel == e.EscalationLevel {
			return fmt.Errorf("duplicate escalation level %s for complaint %d", e.EscalationLevel, e.ComplaintID)
		}
	}
	f.nextID++
	e.EscalationID = f.nextID
	e.CreatedAt = time.Now().UTC()
	f.ledger = append(f.ledger, *e)
	return nil
}

func (f *fakeEscalationStore) HasEscalation(complaintID int64) (bool, error) {
	for _, e := range f.ledger {
		if e.ComplaintID == complaintID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEscalationStore) GetEscalationsByComplaintID(complaintID int64) ([]models.ComplaintEscalation, error) {
	var out []models.ComplaintEscalation
	for _, e := range f.ledger {
		if e.ComplaintID == complaintID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEscalationStore) GetEscalationCandidates() ([]models.EscalationCandidate, error) {
	var out []models.EscalationCandidate
	for _, c := range f.complaints.complaints {
		if !c.CurrentStatus.IsActive() || c.CurrentStatus == models.StatusDraft {
			continue
		}
		if c.IsEscalated || !c.DueDate.Valid || c.DeletedAt.Valid {
			continue
		}
		out = append(out, models.EscalationCandidate{
			ComplaintID:       c.ComplaintID,
			ComplaintNumber:   c.ComplaintNumber,
			CurrentStatus:     c.CurrentStatus,
			Priority:          c.Priority,
			DepartmentID:      c.DepartmentID,
			AssignedHandlerID: c.AssignedHandlerID,
			DueDate:           c.DueDate,
			SubmittedAt:       c.SubmittedAt,
			EscalationLevel:   c.EscalationLevel,
		})
	}
	return out, nil
}

type fakeReminderStore struct {
	reminders map[int64]*models.ComplaintReminder
	nextID    int64
}

func newFakeReminderStore() *fakeReminderStore {
	return &fakeReminderStore{reminders: make(map[int64]*models.ComplaintReminder)}
}

func (f *fakeReminderStore) CreateReminder(r *models.ComplaintReminder) error {
	f.nextID++
	r.ReminderID = f.nextID
	r.CreatedAt = time.Now().UTC()
	cp := *r
	f.reminders[r.ReminderID] = &cp
	return nil
}

func (f *fakeReminderStore) GetReminderByID(id int64) (*models.ComplaintReminder, error) {
	r, ok := f.reminders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReminderStore) GetDuePending(now time.Time, limit int) ([]models.ComplaintReminder, error) {
	var out []models.ComplaintReminder
	for _, r := range f.reminders {
		if !r.IsSent && !r.RemindAt.After(now) {
			out = append(out, *r)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (f *fakeReminderStore) GetRemindersByComplaintID(complaintID int64) ([]models.ComplaintReminder, error) {
	var out []models.ComplaintReminder
	for _, r := range f.reminders {
		if r.ComplaintID == complaintID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReminderStore) MarkSent(id int64, sentAt time.Time) (bool, error) {
	r, ok := f.reminders[id]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	if r.IsSent {
		return false, nil
	}
	r.IsSent = true
	r.SentAt = sqlTime(sentAt)
	return true, nil
}

type fakeDirectory struct {
	accounts       map[int64]*models.HandlerAccount
	handlersByTier map[int][]int64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		accounts:       make(map[int64]*models.HandlerAccount),
		handlersByTier: make(map[int][]int64),
	}
}

func (f *fakeDirectory) addAccount(employeeID int64, email string, role models.HandlerRole, tier int) {
	f.accounts[employeeID] = &models.HandlerAccount{
		AccountID:  employeeID,
		EmployeeID: employeeID,
		FullName:   fmt.Sprintf("Employee %d", employeeID),
		Email:      email,
		Role:       role,
		Tier:       tier,
		IsActive:   true,
	}
	if role == models.RoleHandler || role == models.RoleAdmin {
		f.handlersByTier[tier] = append(f.handlersByTier[tier], employeeID)
	}
}

func (f *fakeDirectory) GetAccountByEmployeeID(employeeID int64) (*models.HandlerAccount, error) {
	a, ok := f.accounts[employeeID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return a, nil
}

func (f *fakeDirectory) FindHandlersByTier(tier int, departmentID *int64) ([]int64, error) {
	return f.handlersByTier[tier], nil
}

type sentNotification struct {
	Recipient string
	Payload   notification.Payload
}

type fakeSender struct {
	sent []sentNotification
	err  error
}

func (f *fakeSender) Notify(ctx context.Context, recipient string, payload notification.Payload) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentNotification{Recipient: recipient, Payload: payload})
	return nil
}
