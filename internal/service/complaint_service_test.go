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

type readFixture struct {
	service *ComplaintService
	store   *mockComplaintStore
	audits  *mockAuditStore
}

func newReadFixture(t *testing.T) *readFixture {
	t.Helper()
	f := &readFixture{
		store:  new(mockComplaintStore),
		audits: new(mockAuditStore),
	}
	calc := sla.NewCalculator(sla.DefaultConfig(), func() time.Time { return testNow })
	f.service = NewComplaintService(f.store, f.audits, calc, zerolog.Nop())
	return f
}

func TestGetDerivesSLAState(t *testing.T) {
	f := newReadFixture(t)
	complaint := newComplaint(model.StatusInProgress, model.PriorityMedium)
	due := testNow.Add(-36 * time.Hour)
	complaint.SLA.DueBy = &due
	officer := model.Principal{UserID: uuid.New(), Role: model.UserRoleOfficer}

	f.store.On("GetByID", mock.Anything, complaint.ID).Return(complaint, nil)

	view, err := f.service.Get(context.Background(), officer, complaint.ID)
	require.NoError(t, err)

	assert.Equal(t, model.SLAOverdue, view.SLAStatus)
	assert.Equal(t, 2, view.DaysOverdue, "36h over is rounded up to two days")
	assert.Equal(t,
		[]model.ComplaintStatus{model.StatusPendingVerification, model.StatusRejected, model.StatusWithdrawn},
		view.NextStates)
}

func TestGetHidesForeignComplaintsFromCitizens(t *testing.T) {
	f := newReadFixture(t)
	complaint := newComplaint(model.StatusCreated, model.PriorityMedium)
	stranger := model.Principal{UserID: uuid.New(), Role: model.UserRoleCitizen}

	f.store.On("GetByID", mock.Anything, complaint.ID).Return(complaint, nil)

	_, err := f.service.Get(context.Background(), stranger, complaint.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListScopesCitizensToOwnComplaints(t *testing.T) {
	f := newReadFixture(t)
	citizen := model.Principal{UserID: uuid.New(), Role: model.UserRoleCitizen}

	f.store.On("List", mock.Anything, mock.Anything).Return([]model.Complaint{}, nil)

	_, err := f.service.List(context.Background(), citizen, ComplaintFilter{})
	require.NoError(t, err)

	filter := f.store.Calls[0].Arguments.Get(1).(ComplaintFilter)
	require.NotNil(t, filter.ReporterID)
	assert.Equal(t, citizen.UserID, *filter.ReporterID)
}

func TestTimelineMergesNewestFirst(t *testing.T) {
	f := newReadFixture(t)
	complaint := newComplaint(model.StatusInProgress, model.PriorityMedium)

	t0 := testNow.Add(-3 * time.Hour)
	t1 := testNow.Add(-2 * time.Hour)
	t2 := testNow.Add(-1 * time.Hour)
	complaint.StatusHistory = []model.StatusHistoryEntry{
		{ComplaintID: complaint.ID, Status: model.StatusCreated, CreatedAt: t0, Remarks: "complaint filed"},
		{ComplaintID: complaint.ID, Status: model.StatusAssigned, CreatedAt: t2, Remarks: "assigned"},
	}
	complaint.SLA.AssignedAt = &t2
	due := t2.AddDate(0, 0, 7)
	complaint.SLA.DueBy = &due
	complaint.Comments = []model.Comment{
		{ComplaintID: complaint.ID, UserID: complaint.ReporterID, Text: "any news?", CreatedAt: t1},
	}

	citizen := model.Principal{UserID: complaint.ReporterID, Role: model.UserRoleCitizen}
	f.store.On("GetByID", mock.Anything, complaint.ID).Return(complaint, nil)

	events, err := f.service.Timeline(context.Background(), citizen, complaint.ID)
	require.NoError(t, err)
	require.Len(t, events, 4)

	// Newest first; the SLA event shares t2 with the assignment entry and
	// keeps its insertion order behind it.
	assert.Equal(t, TimelineStatus, events[0].Type)
	assert.Equal(t, model.StatusAssigned, *events[0].Status)
	assert.Equal(t, TimelineSLA, events[1].Type)
	assert.Contains(t, events[1].Text, "sla clock started")
	assert.Equal(t, TimelineComment, events[2].Type)
	assert.Equal(t, "any news?", events[2].Text)
	assert.Equal(t, TimelineStatus, events[3].Type)
	assert.Equal(t, model.StatusCreated, *events[3].Status)
}

func TestQueryAuditAccessAndDegradation(t *testing.T) {
	f := newReadFixture(t)

	citizen := model.Principal{UserID: uuid.New(), Role: model.UserRoleCitizen}
	_, err := f.service.QueryAudit(context.Background(), citizen, AuditFilter{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	admin := model.Principal{UserID: uuid.New(), Role: model.UserRoleAdmin}
	f.audits.On("Query", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	entries, err := f.service.QueryAudit(context.Background(), admin, AuditFilter{})
	require.NoError(t, err, "a failing audit store degrades to an empty list")
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}
