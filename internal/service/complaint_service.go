package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"complaint-service/internal/model"
	"complaint-service/internal/policy"
	"complaint-service/internal/sla"
)

// ComplaintService serves the read side: listings, detail views with the
// derived SLA state, the merged timeline, and audit queries.
type ComplaintService struct {
	complaints ComplaintStore
	audits     AuditStore
	sla        *sla.Calculator
	log        zerolog.Logger
}

func NewComplaintService(complaints ComplaintStore, audits AuditStore, calculator *sla.Calculator, log zerolog.Logger) *ComplaintService {
	return &ComplaintService{
		complaints: complaints,
		audits:     audits,
		sla:        calculator,
		log:        log,
	}
}

// ComplaintView is a complaint plus its derived SLA state and the next
// statuses the caller's role could move it to.
type ComplaintView struct {
	Complaint   model.Complaint         `json:"complaint"`
	SLAStatus   model.SLAStatus         `json:"sla_status"`
	DaysOverdue int                     `json:"days_overdue"`
	NextStates  []model.ComplaintStatus `json:"next_states"`
}

func (s *ComplaintService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*ComplaintView, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsCitizen() && complaint.ReporterID != principal.UserID {
		return nil, ErrNotFound
	}
	return s.buildView(complaint, principal), nil
}

func (s *ComplaintService) List(ctx context.Context, principal model.Principal, filter ComplaintFilter) ([]ComplaintView, error) {
	// Citizens only ever see their own complaints.
	if principal.IsCitizen() {
		filter.ReporterID = &principal.UserID
	}
	complaints, err := s.complaints.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]ComplaintView, 0, len(complaints))
	for i := range complaints {
		views = append(views, *s.buildView(&complaints[i], principal))
	}
	return views, nil
}

type TimelineEventType string

const (
	TimelineStatus  TimelineEventType = "STATUS"
	TimelineSLA     TimelineEventType = "SLA"
	TimelineComment TimelineEventType = "COMMENT"
)

type TimelineEvent struct {
	Type      TimelineEventType      `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Status    *model.ComplaintStatus `json:"status,omitempty"`
	ActorID   *uuid.UUID             `json:"actor_id,omitempty"`
	ActorRole *model.UserRole        `json:"actor_role,omitempty"`
	Text      string                 `json:"text"`
}

// Timeline merges status history, SLA events and comments, newest first.
// Events sharing a timestamp keep their insertion order.
func (s *ComplaintService) Timeline(ctx context.Context, principal model.Principal, id uuid.UUID) ([]TimelineEvent, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsCitizen() && complaint.ReporterID != principal.UserID {
		return nil, ErrNotFound
	}

	events := make([]TimelineEvent, 0, len(complaint.StatusHistory)+len(complaint.Comments)+2)
	for i := range complaint.StatusHistory {
		h := &complaint.StatusHistory[i]
		status := h.Status
		actor := h.ActorID
		role := h.ActorRole
		events = append(events, TimelineEvent{
			Type:      TimelineStatus,
			Timestamp: h.CreatedAt,
			Status:    &status,
			ActorID:   &actor,
			ActorRole: &role,
			Text:      h.Remarks,
		})
	}
	if complaint.SLA.AssignedAt != nil && complaint.SLA.DueBy != nil {
		events = append(events, TimelineEvent{
			Type:      TimelineSLA,
			Timestamp: *complaint.SLA.AssignedAt,
			Text:      fmt.Sprintf("sla clock started, due by %s", complaint.SLA.DueBy.Format(time.RFC3339)),
		})
	}
	if complaint.SLA.EscalatedAt != nil {
		events = append(events, TimelineEvent{
			Type:      TimelineSLA,
			Timestamp: *complaint.SLA.EscalatedAt,
			Text:      fmt.Sprintf("escalated to level %d", complaint.SLA.EscalationLevel),
		})
	}
	for i := range complaint.Comments {
		c := &complaint.Comments[i]
		actor := c.UserID
		events = append(events, TimelineEvent{
			Type:      TimelineComment,
			Timestamp: c.CreatedAt,
			ActorID:   &actor,
			Text:      c.Text,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	return events, nil
}

// QueryAudit returns audit entries newest first. A storage failure degrades
// to an empty list: audit reads are the one deliberately best-effort read
// path, traded for dashboard availability.
func (s *ComplaintService) QueryAudit(ctx context.Context, principal model.Principal, filter AuditFilter) ([]model.AuditLogEntry, error) {
	if !principal.IsAdmin() && !principal.IsSupervisor() {
		return nil, fmt.Errorf("%w: audit log requires supervisor or admin", ErrUnauthorized)
	}
	entries, err := s.audits.Query(ctx, filter)
	if err != nil {
		s.log.Warn().Err(err).Msg("audit query failed, returning empty list")
		return []model.AuditLogEntry{}, nil
	}
	return entries, nil
}

func (s *ComplaintService) buildView(c *model.Complaint, principal model.Principal) *ComplaintView {
	status, overdue := s.sla.Derive(c, s.sla.Now())
	return &ComplaintView{
		Complaint:   *c,
		SLAStatus:   status,
		DaysOverdue: overdue,
		NextStates:  policy.AllowedTransitions(c.Status, principal.Role),
	}
}
