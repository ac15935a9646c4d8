package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SagorIslamOfficial/hrm-sub003/apperrors"
	"github.com/SagorIslamOfficial/hrm-sub003/models"
	"github.com/SagorIslamOfficial/hrm-sub003/reconcile"
	"github.com/SagorIslamOfficial/hrm-sub003/repository"
)

// ComplaintService is the complaint lifecycle engine: it validates
// transitions, stamps timestamps, records history and publishes status
// events. Authorization is consumed, not computed here; callers confirm
// capability before invoking state-changing operations.
type ComplaintService struct {
	db              *sql.DB
	store           ComplaintStore
	resolutions     ResolutionStore
	complaintRepo   *repository.ComplaintRepository
	subjectRepo     *repository.SubjectRepository
	commentRepo     *repository.CommentRepository
	documentRepo    *repository.DocumentRepository
	escalationRepo  *repository.EscalationRepository
	reminderRepo    *repository.ReminderRepository
	resolutionRepo  *repository.ResolutionRepository
	resolver        map[models.SubjectKind]func(id int64) (string, error)
	bus             *EventBus
	defaultSLAHours int
}

// NewComplaintService creates a new complaint service
func NewComplaintService(
	db *sql.DB,
	complaintRepo *repository.ComplaintRepository,
	subjectRepo *repository.SubjectRepository,
	commentRepo *repository.CommentRepository,
	documentRepo *repository.DocumentRepository,
	escalationRepo *repository.EscalationRepository,
	reminderRepo *repository.ReminderRepository,
	resolutionRepo *repository.ResolutionRepository,
	resolver map[models.SubjectKind]func(id int64) (string, error),
	bus *EventBus,
	defaultSLAHours int,
) *ComplaintService {
	if defaultSLAHours <= 0 {
		defaultSLAHours = DefaultSLAHours
	}
	return &ComplaintService{
		db:              db,
		store:           complaintRepo,
		resolutions:     resolutionRepo,
		complaintRepo:   complaintRepo,
		subjectRepo:     subjectRepo,
		commentRepo:     commentRepo,
		documentRepo:    documentRepo,
		escalationRepo:  escalationRepo,
		reminderRepo:    reminderRepo,
		resolutionRepo:  resolutionRepo,
		resolver:        resolver,
		bus:             bus,
		defaultSLAHours: defaultSLAHours,
	}
}

// CreateComplaint creates a draft complaint for the reporting employee,
// together with any parties named up front, and writes the initial status
// history entry.
func (s *ComplaintService) CreateComplaint(req *models.CreateComplaintRequest, employeeID int64) (*models.Complaint, error) {
	if req.Title == "" {
		return nil, apperrors.NewValidation("title", "title is required")
	}
	if req.Description == "" {
		return nil, apperrors.NewValidation("description", "description is required")
	}
	if len(req.Categories) == 0 {
		return nil, apperrors.NewValidation("categories", "at least one category tag is required")
	}
	if employeeID <= 0 {
		return nil, apperrors.NewValidation("employee_id", "reporting employee is required")
	}

	slaHours := s.defaultSLAHours
	if req.SLAHours != nil && *req.SLAHours > 0 {
		slaHours = *req.SLAHours
	}

	priority := models.PriorityMedium
	if req.Priority != nil {
		priority = models.ParsePriority(*req.Priority)
	}

	complaint := &models.Complaint{
		ComplaintNumber:  s.store.GenerateComplaintNumber(),
		EmployeeID:       employeeID,
		Title:            req.Title,
		Description:      req.Description,
		Categories:       marshalStringList(req.Categories),
		Priority:         priority,
		CurrentStatus:    models.StatusDraft,
		DepartmentID:     nullInt64(req.DepartmentID),
		IncidentDate:     nullTime(req.IncidentDate),
		IncidentLocation: nullString(req.IncidentLocation),
		IsAnonymous:      req.IsAnonymous,
		IsConfidential:   req.IsConfidential,
		IsRecurring:      req.IsRecurring,
		SLAHours:         slaHours,
		FollowUpDate:     nullTime(req.FollowUpDate),
	}

	if err := validateSinglePrimary(nil, req.Subjects); err != nil {
		return nil, err
	}

	if err := s.store.CreateComplaint(complaint); err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}
	log.Printf("[lifecycle] complaint created id=%d number=%s", complaint.ComplaintID, complaint.ComplaintNumber)

	history := &models.ComplaintStatusHistory{
		ComplaintID: complaint.ComplaintID,
		FromStatus:  sql.NullString{}, // no prior status on creation
		ToStatus:    models.StatusDraft,
		Notes:       sql.NullString{String: "Complaint created", Valid: true},
		ActorType:   models.ActorEmployee,
		ActorID:     sql.NullInt64{Int64: employeeID, Valid: true},
	}
	if err := s.store.CreateStatusHistory(history); err != nil {
		return nil, fmt.Errorf("failed to create initial status history: %w", err)
	}

	for _, item := range req.Subjects {
		subject, err := s.subjectItemToEntity(complaint.ComplaintID, item)
		if err != nil {
			return nil, err
		}
		if err := s.subjectRepo.CreateSubject(subject); err != nil {
			return nil, fmt.Errorf("failed to create subject: %w", err)
		}
	}

	return complaint, nil
}

// ReconciliationReport aggregates the per-item outcomes of a reconciled
// draft save, one slice per child collection.
type ReconciliationReport struct {
	Subjects  []reconcile.Result
	Comments  []reconcile.Result
	Documents []reconcile.Result
}

// UpdateDraft mutates an editable complaint and reconciles its staged child
// collections against persisted state in one transaction: all child
// creates, updates and deletes for this save commit or roll back together.
func (s *ComplaintService) UpdateDraft(complaintID int64, req *models.UpdateComplaintRequest, actorID int64) (*ReconciliationReport, error) {
	complaint, err := s.store.GetComplaintByID(complaintID, false)
	if err != nil {
		return nil, err
	}
	if !complaint.CurrentStatus.CanEdit() {
		return nil, fmt.Errorf("%w: complaint in %s is not editable", apperrors.ErrInvalidTransition, complaint.CurrentStatus)
	}

	existingSubjects, err := s.subjectRepo.GetSubjectsByComplaintID(complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}
	if err := validateSinglePrimary(existingSubjects, req.Subjects); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	complaintRepo := s.complaintRepo.WithTx(tx)
	subjectRepo := s.subjectRepo.WithTx(tx)
	commentRepo := s.commentRepo.WithTx(tx)
	documentRepo := s.documentRepo.WithTx(tx)

	applyDraftFields(complaint, req)
	if err := complaintRepo.UpdateDraftFields(complaint); err != nil {
		return nil, err
	}

	report := &ReconciliationReport{}

	report.Subjects = reconcile.Apply(req.Subjects, reconcile.Funcs[models.SubjectItem]{
		Create: func(item models.SubjectItem) error {
			subject, err := s.subjectItemToEntity(complaintID, item)
			if err != nil {
				return err
			}
			return subjectRepo.CreateSubject(subject)
		},
		Update: func(id int64, item models.SubjectItem) error {
			subject, err := s.subjectItemToEntity(complaintID, item)
			if err != nil {
				return err
			}
			return subjectRepo.UpdateSubject(id, subject)
		},
		Delete: func(id int64) error {
			return subjectRepo.DeleteSubject(id, complaintID)
		},
	})

	report.Comments = reconcile.Apply(req.Comments, reconcile.Funcs[models.CommentItem]{
		Create: func(item models.CommentItem) error {
			return commentRepo.CreateComment(commentItemToEntity(complaintID, actorID, item))
		},
		Update: func(id int64, item models.CommentItem) error {
			return commentRepo.UpdateComment(id, commentItemToEntity(complaintID, actorID, item))
		},
		Delete: func(id int64) error {
			return commentRepo.DeleteComment(id, complaintID)
		},
	})

	report.Documents = reconcile.Apply(req.Documents, reconcile.Funcs[models.DocumentItem]{
		Create: func(item models.DocumentItem) error {
			return documentRepo.CreateDocument(documentItemToEntity(complaintID, actorID, item))
		},
		Update: func(id int64, item models.DocumentItem) error {
			return documentRepo.UpdateDocument(id, documentItemToEntity(complaintID, actorID, item))
		},
		Delete: func(id int64) error {
			return documentRepo.DeleteDocument(id, complaintID)
		},
	})

	// Default policy: atomic rollback per parent save. Per-item outcomes
	// are still reported to the caller.
	if err := firstReportError(report); err != nil {
		return report, fmt.Errorf("reconciliation failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("failed to commit draft update: %w", err)
	}
	return report, nil
}

// Submit moves a draft to submitted: stamps submitted_at, derives the due
// date from the SLA clock and appends the draft -> submitted history row.
func (s *ComplaintService) Submit(complaintID int64, actorID int64) (*models.Complaint, error) {
	complaint, err := s.store.GetComplaintByID(complaintID, false)
	if err != nil {
		return nil, err
	}
	if !complaint.CurrentStatus.CanSubmit() {
		return nil, apperrors.InvalidTransition(string(complaint.CurrentStatus), string(models.StatusSubmitted))
	}
	if complaint.EmployeeID <= 0 {
		return nil, apperrors.NewValidation("employee_id", "complaint has no reporting employee")
	}

	slaHours := complaint.SLAHours
	if slaHours <= 0 {
		slaHours = s.defaultSLAHours
	}

	now := time.Now().UTC()
	dueDate := ComputeDueDate(now, slaHours)

	if err := s.store.MarkSubmitted(complaintID, now, dueDate); err != nil {
		return nil, err
	}

	history := &models.ComplaintStatusHistory{
		ComplaintID: complaintID,
		FromStatus:  sql.NullString{String: string(models.StatusDraft), Valid: true},
		ToStatus:    models.StatusSubmitted,
		Notes:       sql.NullString{String: "Complaint submitted", Valid: true},
		ActorType:   models.ActorEmployee,
		ActorID:     sql.NullInt64{Int64: actorID, Valid: true},
	}
	if err := s.store.CreateStatusHistory(history); err != nil {
		return nil, fmt.Errorf("failed to create status history: %w", err)
	}

	log.Printf("[lifecycle] complaint %s submitted, due %s (sla %dh)",
		complaint.ComplaintNumber, dueDate.Format(time.RFC3339), slaHours)

	s.publishStatusChanged(complaint, models.StatusDraft, models.StatusSubmitted, "Complaint submitted", models.ActorEmployee, &actorID, now)

	complaint.CurrentStatus = models.StatusSubmitted
	complaint.SubmittedAt = sql.NullTime{Time: now, Valid: true}
	complaint.DueDate = sql.NullTime{Time: dueDate, Valid: true}
	complaint.SLABreachAt = sql.NullTime{Time: dueDate, Valid: true}
	complaint.SLAHours = slaHours
	return complaint, nil
}

// ChangeStatus moves a complaint to a new status under the transition rules:
// no transitions out of terminal states, closing requires a prior resolve,
// resolving requires a stored resolution. Every accepted change appends a
// history row and notifies subscribers.
func (s *ComplaintService) ChangeStatus(
	complaintID int64,
	req *models.ChangeStatusRequest,
	actorType models.ActorType,
	actorID *int64,
) (*models.Complaint, error) {
	newStatus := models.ComplaintStatus(req.NewStatus)
	if !newStatus.IsValid() {
		return nil, apperrors.NewValidation("new_status", fmt.Sprintf("unknown status %q", req.NewStatus))
	}

	complaint, err := s.store.GetComplaintByID(complaintID, false)
	if err != nil {
		return nil, err
	}
	from := complaint.CurrentStatus

	if from == newStatus {
		return nil, apperrors.InvalidTransition(string(from), string(newStatus))
	}
	if from.IsTerminal() || !from.CanTransitionTo(newStatus) {
		return nil, apperrors.InvalidTransition(string(from), string(newStatus))
	}
	if newStatus == models.StatusResolved {
		if _, err := s.resolutions.GetResolutionByComplaintID(complaintID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: cannot resolve without a resolution record", apperrors.ErrInvalidTransition)
			}
			return nil, err
		}
	}

	// The repository re-checks the current status inside the UPDATE, so a
	// racing transition loses cleanly instead of corrupting the machine.
	if err := s.store.UpdateStatus(complaintID, from, newStatus); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if (actorType == models.ActorHandler || actorType == models.ActorAdmin) && !complaint.AcknowledgedAt.Valid {
		if err := s.store.MarkAcknowledged(complaintID, now); err != nil {
			log.Printf("[lifecycle] could not stamp acknowledgement for complaint %d: %v", complaintID, err)
		}
	}

	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}
	history := &models.ComplaintStatusHistory{
		ComplaintID: complaintID,
		FromStatus:  sql.NullString{String: string(from), Valid: true},
		ToStatus:    newStatus,
		Notes:       nullString(req.Notes),
		ActorType:   actorType,
		ActorID:     nullInt64(actorID),
	}
	if err := s.store.CreateStatusHistory(history); err != nil {
		return nil, fmt.Errorf("failed to create status history: %w", err)
	}

	log.Printf("[lifecycle] complaint %s status %s -> %s", complaint.ComplaintNumber, from, newStatus)
	s.publishStatusChanged(complaint, from, newStatus, notes, actorType, actorID, now)

	complaint.CurrentStatus = newStatus
	return complaint, nil
}

// Restore clears the soft-delete stamp on a complaint.
func (s *ComplaintService) Restore(complaintID int64) error {
	if err := s.store.Restore(complaintID); err != nil {
		return err
	}
	log.Printf("[lifecycle] complaint %d restored", complaintID)
	return nil
}

// SoftDelete stamps the complaint deleted; queries stop seeing it until a
// restore.
func (s *ComplaintService) SoftDelete(complaintID int64) error {
	return s.store.SoftDelete(complaintID)
}

// ForceDelete is the administrative hard-delete path: the complaint and all
// of its owned children are removed in one transaction.
func (s *ComplaintService) ForceDelete(complaintID int64) error {
	if _, err := s.store.GetComplaintByID(complaintID, true); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.subjectRepo.WithTx(tx).DeleteByComplaintID(complaintID); err != nil {
		return err
	}
	if err := s.commentRepo.WithTx(tx).DeleteByComplaintID(complaintID); err != nil {
		return err
	}
	if err := s.documentRepo.WithTx(tx).DeleteByComplaintID(complaintID); err != nil {
		return err
	}
	if err := s.escalationRepo.WithTx(tx).DeleteByComplaintID(complaintID); err != nil {
		return err
	}
	if err := s.reminderRepo.WithTx(tx).DeleteByComplaintID(complaintID); err != nil {
		return err
	}
	if err := s.resolutionRepo.WithTx(tx).DeleteByComplaintID(complaintID); err != nil {
		return err
	}
	if err := s.complaintRepo.WithTx(tx).HardDelete(complaintID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit force delete: %w", err)
	}
	log.Printf("[lifecycle] complaint %d force-deleted with children", complaintID)
	return nil
}

// GetComplaint retrieves one live complaint.
func (s *ComplaintService) GetComplaint(complaintID int64) (*models.Complaint, error) {
	return s.store.GetComplaintByID(complaintID, false)
}

// ListByEmployee returns summaries of the employee's complaints.
func (s *ComplaintService) ListByEmployee(employeeID int64) ([]models.ComplaintSummary, error) {
	complaints, err := s.store.GetComplaintsByEmployeeID(employeeID)
	if err != nil {
		return nil, err
	}
	summaries := make([]models.ComplaintSummary, 0, len(complaints))
	for _, c := range complaints {
		summary := models.ComplaintSummary{
			ComplaintID:     c.ComplaintID,
			ComplaintNumber: c.ComplaintNumber,
			Title:           c.Title,
			CurrentStatus:   string(c.CurrentStatus),
			Priority:        string(c.Priority),
			IsEscalated:     c.IsEscalated,
			CreatedAt:       c.CreatedAt,
		}
		if c.DueDate.Valid {
			due := c.DueDate.Time
			summary.DueDate = &due
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetTimeline returns the complaint's status history, oldest first.
func (s *ComplaintService) GetTimeline(complaintID int64) ([]models.StatusTimelineEntry, error) {
	if _, err := s.store.GetComplaintByID(complaintID, false); err != nil {
		return nil, err
	}
	history, err := s.store.GetStatusHistory(complaintID)
	if err != nil {
		return nil, err
	}

	timeline := make([]models.StatusTimelineEntry, 0, len(history))
	for _, h := range history {
		entry := models.StatusTimelineEntry{
			HistoryID: h.HistoryID,
			ToStatus:  string(h.ToStatus),
			ActorType: string(h.ActorType),
			CreatedAt: h.CreatedAt,
		}
		if h.FromStatus.Valid {
			from := h.FromStatus.String
			entry.FromStatus = &from
		}
		if h.Notes.Valid {
			notes := h.Notes.String
			entry.Notes = &notes
		}
		if h.ActorID.Valid {
			id := h.ActorID.Int64
			entry.ActorID = &id
		}
		timeline = append(timeline, entry)
	}
	return timeline, nil
}

func (s *ComplaintService) publishStatusChanged(
	complaint *models.Complaint,
	from, to models.ComplaintStatus,
	notes string,
	actorType models.ActorType,
	actorID *int64,
	at time.Time,
) {
	if s.bus == nil {
		return
	}
	s.bus.PublishStatusChanged(models.StatusChanged{
		ComplaintID:     complaint.ComplaintID,
		ComplaintNumber: complaint.ComplaintNumber,
		EmployeeID:      complaint.EmployeeID,
		From:            from,
		To:              to,
		Notes:           notes,
		ActorType:       actorType,
		ActorID:         actorID,
		OccurredAt:      at,
	})
}

// subjectItemToEntity maps a staged party item to its entity, resolving the
// display identity through the per-kind lookup table when one exists for
// the kind.
func (s *ComplaintService) subjectItemToEntity(complaintID int64, item models.SubjectItem) (*models.ComplaintSubject, error) {
	if !item.SubjectKind.IsValid() {
		return nil, apperrors.NewValidation("subject_kind", fmt.Sprintf("unknown subject kind %q", item.SubjectKind))
	}

	name := item.SubjectName
	if resolve, ok := s.resolver[item.SubjectKind]; ok && item.SubjectRefID != nil {
		resolved, err := resolve(*item.SubjectRefID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidation("subject_ref_id",
					fmt.Sprintf("%s %d does not exist", item.SubjectKind, *item.SubjectRefID))
			}
			return nil, err
		}
		name = resolved
	}
	if name == "" {
		return nil, apperrors.NewValidation("subject_name", "subject name is required")
	}

	return &models.ComplaintSubject{
		SubjectID:            item.SubjectID,
		ComplaintID:          complaintID,
		SubjectKind:          item.SubjectKind,
		SubjectRefID:         nullInt64(item.SubjectRefID),
		SubjectName:          name,
		Relationship:         nullString(item.Relationship),
		SpecificIssue:        nullString(item.SpecificIssue),
		IsPrimary:            item.IsPrimary,
		DesiredOutcome:       nullString(item.DesiredOutcome),
		Witnesses:            marshalNullableList(item.Witnesses),
		PriorResolutionTried: item.PriorResolutionTried,
		PriorResolutionNote:  nullString(item.PriorResolutionNote),
	}, nil
}

func commentItemToEntity(complaintID, authorID int64, item models.CommentItem) *models.ComplaintComment {
	visibility := item.Visibility
	if visibility == "" {
		visibility = models.CommentInternal
	}
	return &models.ComplaintComment{
		CommentID:   item.CommentID,
		ComplaintID: complaintID,
		AuthorID:    authorID,
		Body:        item.Body,
		Visibility:  visibility,
		IsPrivate:   item.IsPrivate,
	}
}

func documentItemToEntity(complaintID, uploaderID int64, item models.DocumentItem) *models.ComplaintDocument {
	docType := item.DocumentType
	if docType == "" {
		docType = models.DocumentOther
	}
	return &models.ComplaintDocument{
		DocumentID:   item.DocumentID,
		ComplaintID:  complaintID,
		DocumentType: docType,
		Title:        item.Title,
		Description:  nullString(item.Description),
		FileRef:      item.FileRef,
		UploadedByID: uploaderID,
	}
}

// applyDraftFields copies non-nil request fields onto the complaint.
func applyDraftFields(complaint *models.Complaint, req *models.UpdateComplaintRequest) {
	if req.Title != nil {
		complaint.Title = *req.Title
	}
	if req.Description != nil {
		complaint.Description = *req.Description
	}
	if len(req.Categories) > 0 {
		complaint.Categories = marshalStringList(req.Categories)
	}
	if req.Priority != nil {
		complaint.Priority = models.ParsePriority(*req.Priority)
	}
	if req.IncidentDate != nil {
		complaint.IncidentDate = sql.NullTime{Time: *req.IncidentDate, Valid: true}
	}
	if req.IncidentLocation != nil {
		complaint.IncidentLocation = sql.NullString{String: *req.IncidentLocation, Valid: true}
	}
	if req.FollowUpDate != nil {
		complaint.FollowUpDate = sql.NullTime{Time: *req.FollowUpDate, Valid: true}
	}
}

// validateSinglePrimary simulates the staged party changes and rejects a
// save that would leave more than one primary party. The rule lives here,
// not as a storage constraint, so the schema stays permissive.
func validateSinglePrimary(existing []models.ComplaintSubject, items []models.SubjectItem) error {
	primaries := make(map[int64]bool)
	for _, s := range existing {
		if s.IsPrimary {
			primaries[s.SubjectID] = true
		}
	}

	newPrimaries := 0
	for _, item := range items {
		switch reconcile.Classify(item.Markers()) {
		case reconcile.OpSkip:
			// never persisted
		case reconcile.OpDelete:
			delete(primaries, item.SubjectID)
		case reconcile.OpCreate:
			if item.IsPrimary {
				newPrimaries++
			}
		case reconcile.OpUpdate:
			if item.IsPrimary {
				primaries[item.SubjectID] = true
			} else {
				delete(primaries, item.SubjectID)
			}
		}
	}

	if len(primaries)+newPrimaries > 1 {
		return apperrors.NewValidation("is_primary", "a complaint may name at most one primary party")
	}
	return nil
}

func firstReportError(report *ReconciliationReport) error {
	if err := reconcile.FirstError(report.Subjects); err != nil {
		return fmt.Errorf("subjects: %w", err)
	}
	if err := reconcile.FirstError(report.Comments); err != nil {
		return fmt.Errorf("comments: %w", err)
	}
	if err := reconcile.FirstError(report.Documents); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	return nil
}

func marshalStringList(list []string) string {
	raw, _ := json.Marshal(list)
	return string(raw)
}

func marshalNullableList(list []string) sql.NullString {
	if len(list) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: marshalStringList(list), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
