package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"complaint-service/internal/model"
)

// ErrVersionConflict is returned by ComplaintStore.ApplyChange when the
// complaint's version no longer matches the one the caller read.
var ErrVersionConflict = errors.New("complaint version conflict")

type ComplaintFilter struct {
	Statuses     []model.ComplaintStatus
	Priorities   []model.ComplaintPriority
	Categories   []model.ComplaintCategory
	Area         string
	ReporterID   *uuid.UUID
	SupervisorID *uuid.UUID
	OfficerID    *uuid.UUID
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}

// ComplaintStore is the persistence collaborator for the lifecycle engine.
// ApplyChange must persist the complaint update, the optional history entry
// and the optional audit entry in one atomic unit, guarded by expectedVersion.
type ComplaintStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error)
	Create(ctx context.Context, c *model.Complaint, hist *model.StatusHistoryEntry, audit *model.AuditLogEntry) error
	ApplyChange(ctx context.Context, c *model.Complaint, expectedVersion int64, hist *model.StatusHistoryEntry, audit *model.AuditLogEntry) error
	AddComment(ctx context.Context, comment *model.Comment, audit *model.AuditLogEntry) error
	List(ctx context.Context, filter ComplaintFilter) ([]model.Complaint, error)
	ListOverdue(ctx context.Context, now time.Time, maxLevel int) ([]model.Complaint, error)
}

// UserDirectory validates assignees. Authentication lives elsewhere; this is
// lookup only.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FirstActiveByRole(ctx context.Context, role model.UserRole) (*model.User, error)
}

type AuditFilter struct {
	ActorID     *uuid.UUID
	ComplaintID *uuid.UUID
	ActorRole   *model.UserRole
	Action      *model.AuditAction
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
}

// AuditStore records entries that are not part of a complaint mutation (the
// transactional path goes through ComplaintStore) and serves audit queries.
type AuditStore interface {
	Record(ctx context.Context, entry *model.AuditLogEntry) error
	Query(ctx context.Context, filter AuditFilter) ([]model.AuditLogEntry, error)
}
