package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"complaint-service/internal/model"
	"complaint-service/internal/sla"
)

type sweeperFixture struct {
	sweeper *Sweeper
	store   *mockComplaintStore
	audits  *mockAuditStore
	locker  *mockLocker
}

func newSweeperFixture(t *testing.T, locker *mockLocker) *sweeperFixture {
	t.Helper()
	store := new(mockComplaintStore)
	audits := new(mockAuditStore)
	calc := sla.NewCalculator(sla.DefaultConfig(), func() time.Time { return testNow })
	engine := NewLifecycleService(store, new(mockUserDirectory), audits, calc, zerolog.Nop())

	var lk SweepLocker
	if locker != nil {
		lk = locker
	}
	return &sweeperFixture{
		sweeper: NewSweeper(engine, store, lk, time.Minute, 2, zerolog.Nop()),
		store:   store,
		audits:  audits,
		locker:  locker,
	}
}

func overdueComplaint(level int) model.Complaint {
	c := *newComplaint(model.StatusAssigned, model.PriorityMedium)
	past := testNow.AddDate(0, 0, -2)
	c.SLA.AssignedAt = &past
	due := testNow.AddDate(0, 0, -1)
	c.SLA.DueBy = &due
	c.SLA.EscalationLevel = level
	return c
}

func TestSweepEscalatesOverdueComplaints(t *testing.T) {
	f := newSweeperFixture(t, nil)
	due := []model.Complaint{overdueComplaint(0), overdueComplaint(2)}

	f.store.On("ListOverdue", mock.Anything, testNow, 3).Return(due, nil)
	f.store.On("ApplyChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.audits.On("Record", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.sweeper.SweepOnce(context.Background()))

	f.store.AssertNumberOfCalls(t, "ApplyChange", 2)
	f.audits.AssertNumberOfCalls(t, "Record", 2)

	// Each sweep entry is attributed to the system actor.
	for _, call := range f.audits.Calls {
		entry := call.Arguments.Get(1).(*model.AuditLogEntry)
		assert.Equal(t, model.ActionAutoEscalate, entry.Action)
		assert.Equal(t, model.UserRoleSystem, entry.ActorRole)
		assert.Equal(t, uuid.Nil, entry.ActorID, "system entries carry the nil actor id")
	}
}

func TestAutoEscalateStepsAndStamps(t *testing.T) {
	f := newSweeperFixture(t, nil)
	c := overdueComplaint(1)

	f.store.On("ApplyChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.audits.On("Record", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.sweeper.engine.AutoEscalate(context.Background(), &c))

	assert.Equal(t, 2, c.SLA.EscalationLevel)
	assert.Equal(t, model.PriorityHigh, c.Priority)
	require.NotNil(t, c.SLA.EscalatedAt)
	assert.Equal(t, testNow, *c.SLA.EscalatedAt)
}

func TestAutoEscalateNoopAtCap(t *testing.T) {
	f := newSweeperFixture(t, nil)
	c := overdueComplaint(3)

	require.NoError(t, f.sweeper.engine.AutoEscalate(context.Background(), &c))

	assert.Equal(t, 3, c.SLA.EscalationLevel)
	f.store.AssertNotCalled(t, "ApplyChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.audits.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestSweepSkipsVersionConflicts(t *testing.T) {
	f := newSweeperFixture(t, nil)
	due := []model.Complaint{overdueComplaint(0)}

	f.store.On("ListOverdue", mock.Anything, testNow, 3).Return(due, nil)
	f.store.On("ApplyChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(ErrVersionConflict)

	require.NoError(t, f.sweeper.SweepOnce(context.Background()), "conflicts are skipped, not surfaced")
	f.audits.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestSweepAuditFailureDoesNotStallBatch(t *testing.T) {
	f := newSweeperFixture(t, nil)
	due := []model.Complaint{overdueComplaint(0), overdueComplaint(1)}

	f.store.On("ListOverdue", mock.Anything, testNow, 3).Return(due, nil)
	f.store.On("ApplyChange", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.audits.On("Record", mock.Anything, mock.Anything).Return(assert.AnError)

	require.NoError(t, f.sweeper.SweepOnce(context.Background()))
	f.store.AssertNumberOfCalls(t, "ApplyChange", 2)
}

func TestSweepHonorsLease(t *testing.T) {
	locker := new(mockLocker)
	f := newSweeperFixture(t, locker)

	locker.On("TryAcquire", mock.Anything, mock.Anything).Return(false, nil)

	require.NoError(t, f.sweeper.SweepOnce(context.Background()))
	f.store.AssertNotCalled(t, "ListOverdue", mock.Anything, mock.Anything, mock.Anything)
	locker.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestSweepReleasesLease(t *testing.T) {
	locker := new(mockLocker)
	f := newSweeperFixture(t, locker)

	locker.On("TryAcquire", mock.Anything, mock.Anything).Return(true, nil)
	locker.On("Release", mock.Anything, mock.Anything).Return(nil)
	f.store.On("ListOverdue", mock.Anything, testNow, 3).Return([]model.Complaint{}, nil)

	require.NoError(t, f.sweeper.SweepOnce(context.Background()))
	locker.AssertExpectations(t)
}
