package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"complaint-service/internal/model"
)

type mockComplaintStore struct {
	mock.Mock
}

func (m *mockComplaintStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*model.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockComplaintStore) Create(ctx context.Context, c *model.Complaint, hist *model.StatusHistoryEntry, audit *model.AuditLogEntry) error {
	args := m.Called(ctx, c, hist, audit)
	return args.Error(0)
}

func (m *mockComplaintStore) ApplyChange(ctx context.Context, c *model.Complaint, expectedVersion int64, hist *model.StatusHistoryEntry, audit *model.AuditLogEntry) error {
	args := m.Called(ctx, c, expectedVersion, hist, audit)
	return args.Error(0)
}

func (m *mockComplaintStore) AddComment(ctx context.Context, comment *model.Comment, audit *model.AuditLogEntry) error {
	args := m.Called(ctx, comment, audit)
	return args.Error(0)
}

func (m *mockComplaintStore) List(ctx context.Context, filter ComplaintFilter) ([]model.Complaint, error) {
	args := m.Called(ctx, filter)
	if c := args.Get(0); c != nil {
		return c.([]model.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockComplaintStore) ListOverdue(ctx context.Context, now time.Time, maxLevel int) ([]model.Complaint, error) {
	args := m.Called(ctx, now, maxLevel)
	if c := args.Get(0); c != nil {
		return c.([]model.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserDirectory struct {
	mock.Mock
}

func (m *mockUserDirectory) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserDirectory) FirstActiveByRole(ctx context.Context, role model.UserRole) (*model.User, error) {
	args := m.Called(ctx, role)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAuditStore struct {
	mock.Mock
}

func (m *mockAuditStore) Record(ctx context.Context, entry *model.AuditLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditStore) Query(ctx context.Context, filter AuditFilter) ([]model.AuditLogEntry, error) {
	args := m.Called(ctx, filter)
	if e := args.Get(0); e != nil {
		return e.([]model.AuditLogEntry), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockLocker struct {
	mock.Mock
}

func (m *mockLocker) TryAcquire(ctx context.Context, holder string) (bool, error) {
	args := m.Called(ctx, holder)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocker) Release(ctx context.Context, holder string) error {
	args := m.Called(ctx, holder)
	return args.Error(0)
}
