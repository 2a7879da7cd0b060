package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"complaint-service/internal/model"
	"complaint-service/internal/policy"
	"complaint-service/internal/sla"
)

// LifecycleService is the only mutation path for complaints. Every operation
// loads the current state, validates, mutates, and persists the complaint
// together with its history and audit rows in one version-guarded write.
type LifecycleService struct {
	complaints ComplaintStore
	users      UserDirectory
	audits     AuditStore
	sla        *sla.Calculator
	log        zerolog.Logger
}

func NewLifecycleService(
	complaints ComplaintStore,
	users UserDirectory,
	audits AuditStore,
	calculator *sla.Calculator,
	log zerolog.Logger,
) *LifecycleService {
	return &LifecycleService{
		complaints: complaints,
		users:      users,
		audits:     audits,
		sla:        calculator,
		log:        log,
	}
}

type CreateComplaintInput struct {
	Title       string
	Description string
	Category    model.ComplaintCategory
	Area        string
	Priority    model.ComplaintPriority
	ImageURLs   []string
}

func (s *LifecycleService) Create(ctx context.Context, principal model.Principal, input CreateComplaintInput) (*model.Complaint, error) {
	if !principal.IsCitizen() {
		return nil, fmt.Errorf("%w: only citizens file complaints", ErrUnauthorized)
	}
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if !input.Category.IsValid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, input.Category)
	}
	priority := input.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, input.Priority)
	}

	now := s.sla.Now()
	complaint := &model.Complaint{
		ID:          uuid.New(),
		ReporterID:  principal.UserID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Area:        strings.TrimSpace(input.Area),
		Status:      model.StatusCreated,
		Priority:    priority,
	}
	for _, url := range input.ImageURLs {
		complaint.CitizenImages = append(complaint.CitizenImages, model.ComplaintImage{
			ComplaintID: complaint.ID,
			FileURL:     url,
			UploadedBy:  principal.UserID,
		})
	}

	hist := s.historyEntry(complaint, principal, "complaint filed", now)
	audit := s.auditEntry(complaint, principal, model.ActionCreate, nil, "complaint filed")

	if err := s.complaints.Create(ctx, complaint, hist, audit); err != nil {
		return nil, err
	}
	return complaint, nil
}

// AssignToSupervisor routes a complaint to a supervisor through the normal
// transition table (CREATED, PENDING_VERIFICATION, RESOLVED and REJECTED all
// permit ASSIGNED as a target).
func (s *LifecycleService) AssignToSupervisor(ctx context.Context, principal model.Principal, complaintID, supervisorID uuid.UUID) (*model.Complaint, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	supervisor, err := s.requireActiveUser(ctx, supervisorID, model.UserRoleSupervisor)
	if err != nil {
		return nil, err
	}
	if err := s.validate(complaint.Status, model.StatusAssigned, principal.Role); err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	complaint.Status = model.StatusAssigned
	complaint.AssignedSupervisorID = &supervisor.ID
	s.sla.Assign(&complaint.SLA, complaint.Priority)

	remarks := fmt.Sprintf("assigned to supervisor %s", supervisor.FullName)
	hist := s.historyEntry(complaint, principal, remarks, s.sla.Now())
	audit := s.auditEntry(complaint, principal, model.ActionAssignToSupervisor, &oldStatus, remarks)
	audit.TargetUserID = &supervisor.ID

	return s.apply(ctx, complaint, hist, audit)
}

// AssignToOfficerDirectly skips the supervisor stage. It is an admin-only
// shortcut and deliberately bypasses the transition table, since IN_PROGRESS
// is not a table target of CREATED.
func (s *LifecycleService) AssignToOfficerDirectly(ctx context.Context, principal model.Principal, complaintID, officerID uuid.UUID) (*model.Complaint, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: direct officer assignment is admin-only", ErrUnauthorized)
	}
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	officer, err := s.requireActiveUser(ctx, officerID, model.UserRoleOfficer)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	complaint.Status = model.StatusInProgress
	complaint.AssignedOfficerID = &officer.ID
	complaint.AssignedSupervisorID = nil
	s.sla.AssignDirect(&complaint.SLA)

	remarks := fmt.Sprintf("directly assigned to officer %s", officer.FullName)
	hist := s.historyEntry(complaint, principal, remarks, s.sla.Now())
	audit := s.auditEntry(complaint, principal, model.ActionDirectAssignToOfficer, &oldStatus, remarks)
	audit.TargetUserID = &officer.ID

	return s.apply(ctx, complaint, hist, audit)
}

// Reassign hands the complaint to a different supervisor or officer,
// restarting the SLA clock. Resolved complaints must be reopened first.
func (s *LifecycleService) Reassign(ctx context.Context, principal model.Principal, complaintID, assigneeID uuid.UUID, assigneeRole model.UserRole, reason string) (*model.Complaint, error) {
	if !principal.IsAdmin() && !principal.IsSupervisor() {
		return nil, fmt.Errorf("%w: reassignment requires supervisor or admin", ErrUnauthorized)
	}
	if assigneeRole != model.UserRoleSupervisor && assigneeRole != model.UserRoleOfficer {
		return nil, fmt.Errorf("%w: assignee role must be SUPERVISOR or OFFICER", ErrValidation)
	}
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.Status == model.StatusResolved {
		return nil, fmt.Errorf("%w: resolved complaints cannot be reassigned", ErrInvalidState)
	}
	assignee, err := s.requireActiveUser(ctx, assigneeID, assigneeRole)
	if err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	if assigneeRole == model.UserRoleSupervisor {
		complaint.Status = model.StatusAssigned
		complaint.AssignedSupervisorID = &assignee.ID
		complaint.AssignedOfficerID = nil
		s.sla.Assign(&complaint.SLA, complaint.Priority)
	} else {
		complaint.Status = model.StatusInProgress
		complaint.AssignedOfficerID = &assignee.ID
		complaint.AssignedSupervisorID = nil
		s.sla.AssignDirect(&complaint.SLA)
	}

	remarks := fmt.Sprintf("reassigned to %s %s", strings.ToLower(string(assigneeRole)), assignee.FullName)
	if reason = strings.TrimSpace(reason); reason != "" {
		remarks += ": " + reason
	}
	var hist *model.StatusHistoryEntry
	if complaint.Status != oldStatus {
		hist = s.historyEntry(complaint, principal, remarks, s.sla.Now())
	}
	audit := s.auditEntry(complaint, principal, model.ActionReassign, &oldStatus, remarks)
	audit.TargetUserID = &assignee.ID

	return s.apply(ctx, complaint, hist, audit)
}

// Escalate bumps the escalation level by levels (minimum 1) and raises
// priority per the SLA rules. Status is untouched, so no history entry is
// written.
func (s *LifecycleService) Escalate(ctx context.Context, principal model.Principal, complaintID uuid.UUID, reason string, levels int) (*model.Complaint, error) {
	if !principal.IsAdmin() && !principal.IsSupervisor() {
		return nil, fmt.Errorf("%w: escalation requires supervisor or admin", ErrUnauthorized)
	}
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	oldLevel := complaint.SLA.EscalationLevel
	complaint.Priority = s.sla.Escalate(&complaint.SLA, levels)

	remarks := fmt.Sprintf("escalated from level %d to %d", oldLevel, complaint.SLA.EscalationLevel)
	if reason = strings.TrimSpace(reason); reason != "" {
		remarks += ": " + reason
	}
	audit := s.auditEntry(complaint, principal, model.ActionEscalate, nil, remarks)

	return s.apply(ctx, complaint, nil, audit)
}

type OverrideAction string

const (
	OverrideReopen       OverrideAction = "REOPEN"
	OverrideForceResolve OverrideAction = "FORCE_RESOLVE"
	OverrideForceReject  OverrideAction = "FORCE_REJECT"
)

// OverrideTransition is the admin escape hatch. REOPEN still goes through
// the transition table; the two force actions bypass it entirely and may be
// applied from any state.
func (s *LifecycleService) OverrideTransition(ctx context.Context, principal model.Principal, complaintID uuid.UUID, action OverrideAction, reason string) (*model.Complaint, error) {
	if !principal.IsAdmin() {
		return nil, fmt.Errorf("%w: override is admin-only", ErrUnauthorized)
	}
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	var target model.ComplaintStatus
	var auditAction model.AuditAction
	var marker string
	switch action {
	case OverrideReopen:
		if err := s.validate(complaint.Status, model.StatusAssigned, principal.Role); err != nil {
			return nil, err
		}
		target = model.StatusAssigned
		auditAction = model.ActionAdminReopen
		marker = "reopened by admin"
	case OverrideForceResolve:
		target = model.StatusResolved
		auditAction = model.ActionAdminForceResolve
		marker = "force-resolved by admin"
	case OverrideForceReject:
		target = model.StatusRejected
		auditAction = model.ActionAdminForceReject
		marker = "force-rejected by admin"
	default:
		return nil, fmt.Errorf("%w: unknown override action %q", ErrValidation, action)
	}

	now := s.sla.Now()
	oldStatus := complaint.Status
	complaint.Status = target

	remarks := marker
	if reason = strings.TrimSpace(reason); reason != "" {
		remarks += ": " + reason
	}
	complaint.Remarks = appendRemark(complaint.Remarks, fmt.Sprintf("[%s] %s", now.Format(time.RFC3339), remarks))

	hist := s.historyEntry(complaint, principal, remarks, now)
	audit := s.auditEntry(complaint, principal, auditAction, &oldStatus, remarks)

	return s.apply(ctx, complaint, hist, audit)
}

// OfficerSubmitResolution moves the officer's work to verification. When the
// complaint has no supervisor (direct assignment path), the first active
// supervisor is drafted to verify it.
func (s *LifecycleService) OfficerSubmitResolution(ctx context.Context, principal model.Principal, complaintID uuid.UUID, imageURL, remarks string) (*model.Complaint, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.AssignedOfficerID == nil || *complaint.AssignedOfficerID != principal.UserID {
		return nil, fmt.Errorf("%w: complaint is not assigned to this officer", ErrNotFound)
	}
	if complaint.Status != model.StatusInProgress && complaint.Status != model.StatusPendingVerification {
		return nil, fmt.Errorf("%w: resolution can only be submitted while in progress or pending verification", ErrInvalidState)
	}
	if strings.TrimSpace(imageURL) == "" {
		return nil, fmt.Errorf("%w: a resolution image is required", ErrInvalidState)
	}

	// A prior submission leaves its image on the complaint, so a rejected
	// resolution coming back is still a re-submission even though the status
	// already dropped to IN_PROGRESS.
	resubmission := complaint.Status == model.StatusPendingVerification || complaint.OfficerImage != nil
	if complaint.Status != model.StatusPendingVerification {
		if err := s.validate(complaint.Status, model.StatusPendingVerification, principal.Role); err != nil {
			return nil, err
		}
	}

	if complaint.AssignedSupervisorID == nil {
		supervisor, err := s.users.FirstActiveByRole(ctx, model.UserRoleSupervisor)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoSupervisorAvailable
			}
			return nil, err
		}
		complaint.AssignedSupervisorID = &supervisor.ID
	}

	oldStatus := complaint.Status
	complaint.Status = model.StatusPendingVerification
	complaint.OfficerImage = &imageURL

	note := "resolution submitted"
	auditAction := model.ActionSubmitResolution
	if resubmission {
		note = "resolution re-submission"
		auditAction = model.ActionResubmitResolution
	}
	if remarks = strings.TrimSpace(remarks); remarks != "" {
		note += ": " + remarks
	}

	var hist *model.StatusHistoryEntry
	if oldStatus != complaint.Status {
		hist = s.historyEntry(complaint, principal, note, s.sla.Now())
	}
	audit := s.auditEntry(complaint, principal, auditAction, &oldStatus, note)

	return s.apply(ctx, complaint, hist, audit)
}

// SupervisorVerify accepts an officer's resolution. The supervisor may attach
// their own inspection image alongside the officer's.
func (s *LifecycleService) SupervisorVerify(ctx context.Context, principal model.Principal, complaintID uuid.UUID, imageURL, remarks string) (*model.Complaint, error) {
	return s.supervisorDecision(ctx, principal, complaintID, model.StatusResolved, model.ActionVerify, "resolution verified", imageURL, remarks)
}

// SupervisorReject sends the complaint back to the officer.
func (s *LifecycleService) SupervisorReject(ctx context.Context, principal model.Principal, complaintID uuid.UUID, remarks string) (*model.Complaint, error) {
	return s.supervisorDecision(ctx, principal, complaintID, model.StatusInProgress, model.ActionReject, "resolution rejected", "", remarks)
}

func (s *LifecycleService) supervisorDecision(ctx context.Context, principal model.Principal, complaintID uuid.UUID, target model.ComplaintStatus, action model.AuditAction, note, imageURL, remarks string) (*model.Complaint, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.AssignedSupervisorID == nil || *complaint.AssignedSupervisorID != principal.UserID {
		return nil, fmt.Errorf("%w: complaint is not assigned to this supervisor", ErrNotFound)
	}
	if complaint.Status != model.StatusPendingVerification {
		return nil, fmt.Errorf("%w: complaint is not pending verification", ErrInvalidState)
	}
	// Rejection sends the complaint back to IN_PROGRESS, which is not a
	// table target of PENDING_VERIFICATION; the supervisor-ownership check
	// above is the gate for that path.
	if target == model.StatusResolved {
		if err := s.validate(complaint.Status, target, principal.Role); err != nil {
			return nil, err
		}
	}

	oldStatus := complaint.Status
	complaint.Status = target
	if imageURL = strings.TrimSpace(imageURL); imageURL != "" {
		complaint.SupervisorImage = &imageURL
	}

	if remarks = strings.TrimSpace(remarks); remarks != "" {
		note += ": " + remarks
	}
	hist := s.historyEntry(complaint, principal, note, s.sla.Now())
	audit := s.auditEntry(complaint, principal, action, &oldStatus, note)

	return s.apply(ctx, complaint, hist, audit)
}

// SupervisorAssignOfficer puts a supervisor's own complaint into an
// officer's hands with the fixed direct-assignment SLA window.
func (s *LifecycleService) SupervisorAssignOfficer(ctx context.Context, principal model.Principal, complaintID, officerID uuid.UUID) (*model.Complaint, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.AssignedSupervisorID == nil || *complaint.AssignedSupervisorID != principal.UserID {
		return nil, fmt.Errorf("%w: complaint is not assigned to this supervisor", ErrNotFound)
	}
	officer, err := s.requireActiveUser(ctx, officerID, model.UserRoleOfficer)
	if err != nil {
		return nil, err
	}
	if err := s.validate(complaint.Status, model.StatusInProgress, principal.Role); err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	complaint.Status = model.StatusInProgress
	complaint.AssignedOfficerID = &officer.ID
	s.sla.AssignDirect(&complaint.SLA)

	remarks := fmt.Sprintf("assigned to officer %s", officer.FullName)
	hist := s.historyEntry(complaint, principal, remarks, s.sla.Now())
	audit := s.auditEntry(complaint, principal, model.ActionAssign, &oldStatus, remarks)
	audit.TargetUserID = &officer.ID

	return s.apply(ctx, complaint, hist, audit)
}

// CitizenWithdraw closes the reporter's own complaint for good. Withdrawal
// through this operation is narrower than the raw table: only CREATED and
// ASSIGNED complaints qualify.
func (s *LifecycleService) CitizenWithdraw(ctx context.Context, principal model.Principal, complaintID uuid.UUID) (*model.Complaint, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.ReporterID != principal.UserID {
		return nil, fmt.Errorf("%w: complaint does not belong to this citizen", ErrNotFound)
	}
	if complaint.Status != model.StatusCreated && complaint.Status != model.StatusAssigned {
		return nil, fmt.Errorf("%w: only CREATED or ASSIGNED complaints can be withdrawn", ErrInvalidState)
	}
	if err := s.validate(complaint.Status, model.StatusWithdrawn, principal.Role); err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	complaint.Status = model.StatusWithdrawn

	hist := s.historyEntry(complaint, principal, "withdrawn by reporter", s.sla.Now())
	audit := s.auditEntry(complaint, principal, model.ActionWithdraw, &oldStatus, "withdrawn by reporter")

	return s.apply(ctx, complaint, hist, audit)
}

type UpdatePatch struct {
	Status   *model.ComplaintStatus
	Priority *model.ComplaintPriority
	Category *model.ComplaintCategory
	Remarks  *string
	DueBy    *time.Time
}

// GenericUpdate applies a field patch. A status field is routed through the
// transition table; everything else applies unconditionally. All applied
// changes are folded into a single audit remark.
func (s *LifecycleService) GenericUpdate(ctx context.Context, principal model.Principal, complaintID uuid.UUID, patch UpdatePatch) (*model.Complaint, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	var changes []string
	var oldStatus *model.ComplaintStatus
	var hist *model.StatusHistoryEntry

	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *patch.Status)
		}
		if err := s.validate(complaint.Status, *patch.Status, principal.Role); err != nil {
			return nil, err
		}
		prev := complaint.Status
		oldStatus = &prev
		complaint.Status = *patch.Status
		changes = append(changes, fmt.Sprintf("status %s -> %s", prev, *patch.Status))
	}
	if patch.Priority != nil {
		if !patch.Priority.IsValid() {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrValidation, *patch.Priority)
		}
		changes = append(changes, fmt.Sprintf("priority %s -> %s", complaint.Priority, *patch.Priority))
		complaint.Priority = *patch.Priority
	}
	if patch.Category != nil {
		if !patch.Category.IsValid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *patch.Category)
		}
		changes = append(changes, fmt.Sprintf("category %s -> %s", complaint.Category, *patch.Category))
		complaint.Category = *patch.Category
	}
	if patch.Remarks != nil {
		complaint.Remarks = appendRemark(complaint.Remarks, strings.TrimSpace(*patch.Remarks))
		changes = append(changes, "remarks appended")
	}
	if patch.DueBy != nil {
		complaint.SLA.DueBy = patch.DueBy
		changes = append(changes, fmt.Sprintf("due-by overridden to %s", patch.DueBy.Format(time.RFC3339)))
	}

	if len(changes) == 0 {
		return nil, fmt.Errorf("%w: patch contains no fields", ErrValidation)
	}

	summary := strings.Join(changes, "; ")
	if oldStatus != nil {
		hist = s.historyEntry(complaint, principal, summary, s.sla.Now())
	}
	audit := s.auditEntry(complaint, principal, model.ActionUpdate, oldStatus, summary)

	return s.apply(ctx, complaint, hist, audit)
}

// AddComment appends to the complaint's comment thread. Comments are audited
// but never touch status history.
func (s *LifecycleService) AddComment(ctx context.Context, principal model.Principal, complaintID uuid.UUID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ComplaintID: complaint.ID,
		UserID:      principal.UserID,
		Text:        text,
	}
	audit := s.auditEntry(complaint, principal, model.ActionComment, nil, "comment added")

	if err := s.complaints.AddComment(ctx, comment, audit); err != nil {
		return nil, err
	}
	return comment, nil
}

// AutoEscalate is the sweeper's entry point. It shares the SLA escalation
// rules with manual escalation but records its audit entry best-effort: a
// failing audit write must not stall the batch.
func (s *LifecycleService) AutoEscalate(ctx context.Context, complaint *model.Complaint) error {
	if complaint.SLA.EscalationLevel >= s.sla.Cap() {
		return nil
	}

	oldLevel := complaint.SLA.EscalationLevel
	complaint.Priority = s.sla.Escalate(&complaint.SLA, 1)

	if err := s.complaints.ApplyChange(ctx, complaint, complaint.Version, nil, nil); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return ErrConflict
		}
		return err
	}

	entry := &model.AuditLogEntry{
		ComplaintID: &complaint.ID,
		ActorID:     uuid.Nil,
		ActorRole:   model.UserRoleSystem,
		Action:      model.ActionAutoEscalate,
		Remarks:     fmt.Sprintf("sla sweep escalated from level %d to %d", oldLevel, complaint.SLA.EscalationLevel),
	}
	if err := s.audits.Record(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("complaint_id", complaint.ID.String()).Msg("sweep audit write failed")
	}
	complaint.Version++
	return nil
}

func (s *LifecycleService) load(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return complaint, nil
}

func (s *LifecycleService) requireActiveUser(ctx context.Context, id uuid.UUID, role model.UserRole) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, err
	}
	if user.Role != role {
		return nil, fmt.Errorf("%w: user %s is not a %s", ErrInvalidAssignee, id, role)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user %s is inactive", ErrInvalidAssignee, id)
	}
	return user, nil
}

func (s *LifecycleService) validate(from, to model.ComplaintStatus, role model.UserRole) error {
	if err := policy.ValidateTransition(from, to, role); err != nil {
		var terr *policy.TransitionError
		if errors.As(err, &terr) && terr.Kind == policy.KindUnauthorized {
			return fmt.Errorf("%w: %s", ErrUnauthorized, err.Error())
		}
		return fmt.Errorf("%w: %s", ErrInvalidTransition, err.Error())
	}
	return nil
}

// apply persists the mutation with its history/audit rows in one
// version-guarded transaction and bumps the in-memory version on success.
func (s *LifecycleService) apply(ctx context.Context, complaint *model.Complaint, hist *model.StatusHistoryEntry, audit *model.AuditLogEntry) (*model.Complaint, error) {
	if err := s.complaints.ApplyChange(ctx, complaint, complaint.Version, hist, audit); err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}
	complaint.Version++
	if hist != nil {
		complaint.StatusHistory = append(complaint.StatusHistory, *hist)
	}
	return complaint, nil
}

func (s *LifecycleService) historyEntry(c *model.Complaint, principal model.Principal, remarks string, at time.Time) *model.StatusHistoryEntry {
	return &model.StatusHistoryEntry{
		ComplaintID: c.ID,
		Status:      c.Status,
		ActorID:     principal.UserID,
		ActorRole:   principal.Role,
		Remarks:     remarks,
		CreatedAt:   at,
	}
}

func (s *LifecycleService) auditEntry(c *model.Complaint, principal model.Principal, action model.AuditAction, oldStatus *model.ComplaintStatus, remarks string) *model.AuditLogEntry {
	entry := &model.AuditLogEntry{
		ComplaintID: &c.ID,
		ActorID:     principal.UserID,
		ActorRole:   principal.Role,
		Action:      action,
		Remarks:     remarks,
	}
	if oldStatus != nil {
		prev := *oldStatus
		entry.OldStatus = &prev
		current := c.Status
		entry.NewStatus = &current
	}
	return entry
}

func appendRemark(existing, remark string) string {
	if remark == "" {
		return existing
	}
	if existing == "" {
		return remark
	}
	return existing + "\n" + remark
}
