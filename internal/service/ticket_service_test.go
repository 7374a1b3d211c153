package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/events"
	"github.com/sigap-ti/sigap/internal/workflow"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

type ticketFixture struct {
	service    *TicketService
	tickets    *fakeTicketRepo
	diagnoses  *fakeDiagnosisRepo
	workOrders *fakeWorkOrderRepo
	users      *fakeUserRepo
	dispatcher *recordingDispatcher
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		tickets:    newFakeTicketRepo(),
		diagnoses:  newFakeDiagnosisRepo(),
		workOrders: newFakeWorkOrderRepo(),
		users:      newFakeUserRepo(),
		dispatcher: &recordingDispatcher{},
	}
	f.service = NewTicketService(TicketDependencies{
		TicketRepo:    f.tickets,
		DiagnosisRepo: f.diagnoses,
		WorkOrderRepo: f.workOrders,
		UserRepo:      f.users,
		Dispatcher:    f.dispatcher,
	})
	return f
}

func (f *ticketFixture) addUser(id string, roles ...domain.Role) *domain.User {
	user := &domain.User{ID: id, NIP: id, Name: id, Roles: roles, IsActive: true}
	_ = f.users.Create(context.Background(), user)
	return user
}

func (f *ticketFixture) addTicket(owner string, status domain.RepairStatus, assignee *string) *domain.RepairTicket {
	ticket := &domain.RepairTicket{
		TicketNumber: generateTicketNumber("PRB"),
		UserID:       owner,
		Title:        "monitor flickers",
		Description:  "screen cuts out intermittently",
		Status:       status,
		AssignedTo:   assignee,
	}
	_ = f.tickets.Create(context.Background(), ticket)
	return ticket
}

func actorFor(userID string, role domain.Role) workflow.Actor {
	return workflow.Actor{UserID: userID, Role: role}
}

func TestCreateTicketStartsSubmitted(t *testing.T) {
	f := newTicketFixture()
	f.addUser("emp-1", domain.RolePegawai)

	ticket, err := f.service.CreateTicket(context.Background(), actorFor("emp-1", domain.RolePegawai), TicketCreateInput{
		Title:       "printer jam",
		Description: "paper stuck in tray 2",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RepairStatusSubmitted, ticket.Status)
	assert.Equal(t, "emp-1", ticket.UserID)
	assert.NotEmpty(t, ticket.TicketNumber)
	assert.Len(t, f.dispatcher.byType(events.EventTicketCreated), 1)
}

func TestApproveAssignsActiveTechnician(t *testing.T) {
	f := newTicketFixture()
	f.addUser("tech-1", domain.RoleTeknisi)
	ticket := f.addTicket("emp-1", domain.RepairStatusSubmitted, nil)

	updated, err := f.service.Approve(context.Background(), actorFor("adm-1", domain.RoleAdminLayanan), ticket.ID, "tech-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RepairStatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "tech-1", *updated.AssignedTo)
	assert.Len(t, f.dispatcher.byType(events.EventTicketAssigned), 1)
}

func TestApproveRejectsNonTechnicianAssignee(t *testing.T) {
	f := newTicketFixture()
	f.addUser("emp-2", domain.RolePegawai)
	ticket := f.addTicket("emp-1", domain.RepairStatusSubmitted, nil)

	_, err := f.service.Approve(context.Background(), actorFor("adm-1", domain.RoleAdminLayanan), ticket.ID, "emp-2")
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestNonOwnerEmployeeCannotTouchTicket(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusWaitingForSubmitter, nil)

	_, err := f.service.Close(context.Background(), actorFor("emp-2", domain.RolePegawai), ticket.ID)
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	assert.Equal(t, "FORBIDDEN", domainErr.Code)

	_, err = f.service.GetTicket(context.Background(), actorFor("emp-2", domain.RolePegawai), ticket.ID)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestOwnerClosesAtWaitingForSubmitter(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusWaitingForSubmitter, nil)

	closed, err := f.service.Close(context.Background(), actorFor("emp-1", domain.RolePegawai), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RepairStatusClosed, closed.Status)
}

func TestOwnerCannotCloseEarly(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusInProgress, strPtr("tech-1"))

	_, err := f.service.Close(context.Background(), actorFor("emp-1", domain.RolePegawai), ticket.ID)
	assert.Equal(t, "INVALID_TRANSITION", apperrors.ToDomainError(err).Code)
}

func TestAdminClosesFromAnyNonTerminalState(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusOnHold, strPtr("tech-1"))

	closed, err := f.service.Close(context.Background(), actorFor("adm-1", domain.RoleAdminLayanan), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RepairStatusClosed, closed.Status)

	statusEvents := f.dispatcher.byType(events.EventTicketStatusChanged)
	require.Len(t, statusEvents, 1)
	payload, ok := statusEvents[0].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, "closed_by_admin", payload.Comment)
}

func TestMarkCompleteBlockedWithoutDiagnosis(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusInProgress, strPtr("tech-1"))

	_, err := f.service.MarkComplete(context.Background(), actorFor("tech-1", domain.RoleTeknisi), ticket.ID)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	assert.Equal(t, workflow.BlockedUndiagnosed, domainErr.Details["reason"])
}

func TestMarkCompleteBlockedByPendingWorkOrders(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusInProgress, strPtr("tech-1"))
	require.NoError(t, f.diagnoses.Upsert(context.Background(), &domain.Diagnosis{
		TicketID:   ticket.ID,
		RepairType: domain.RepairTypeNeedSparepart,
	}))
	require.NoError(t, f.workOrders.Create(context.Background(), &domain.WorkOrder{
		TicketID: ticket.ID,
		Type:     domain.WorkOrderTypeSparepart,
		Status:   domain.WorkOrderStatusInProcurement,
	}))

	_, err := f.service.MarkComplete(context.Background(), actorFor("tech-1", domain.RoleTeknisi), ticket.ID)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	assert.Equal(t, workflow.BlockedWorkOrdersPending, domainErr.Details["reason"])
}

func TestMarkCompleteAfterWorkOrdersResolve(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusInProgress, strPtr("tech-1"))
	require.NoError(t, f.diagnoses.Upsert(context.Background(), &domain.Diagnosis{
		TicketID:   ticket.ID,
		RepairType: domain.RepairTypeNeedSparepart,
	}))
	require.NoError(t, f.workOrders.Create(context.Background(), &domain.WorkOrder{
		TicketID: ticket.ID,
		Type:     domain.WorkOrderTypeSparepart,
		Status:   domain.WorkOrderStatusCompleted,
	}))

	updated, err := f.service.MarkComplete(context.Background(), actorFor("tech-1", domain.RoleTeknisi), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RepairStatusWaitingForSubmitter, updated.Status)
}

func TestMarkCompleteUnrepairableCommentsStatusChange(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusInProgress, strPtr("tech-1"))
	require.NoError(t, f.diagnoses.Upsert(context.Background(), &domain.Diagnosis{
		TicketID:   ticket.ID,
		RepairType: domain.RepairTypeUnrepairable,
	}))

	_, err := f.service.MarkComplete(context.Background(), actorFor("tech-1", domain.RoleTeknisi), ticket.ID)
	require.NoError(t, err)

	statusEvents := f.dispatcher.byType(events.EventTicketStatusChanged)
	require.Len(t, statusEvents, 1)
	payload, ok := statusEvents[0].Payload.(events.TicketStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, "completed_unrepairable", payload.Comment)
}

func TestMarkCompleteRequiresAssignee(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusInProgress, strPtr("tech-1"))

	_, err := f.service.MarkComplete(context.Background(), actorFor("tech-2", domain.RoleTeknisi), ticket.ID)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestUpdateStatusAllowsHoldToggleOnly(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusAssigned, strPtr("tech-1"))
	tech := actorFor("tech-1", domain.RoleTeknisi)

	started, err := f.service.UpdateStatus(context.Background(), tech, ticket.ID, domain.RepairStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.RepairStatusInProgress, started.Status)

	held, err := f.service.UpdateStatus(context.Background(), tech, ticket.ID, domain.RepairStatusOnHold)
	require.NoError(t, err)
	assert.Equal(t, domain.RepairStatusOnHold, held.Status)

	_, err = f.service.UpdateStatus(context.Background(), tech, ticket.ID, domain.RepairStatusClosed)
	assert.Equal(t, "INVALID_TRANSITION", apperrors.ToDomainError(err).Code)
}

func TestDiagnoseUpsertsAndFlagsRedo(t *testing.T) {
	f := newTicketFixture()
	ticket := f.addTicket("emp-1", domain.RepairStatusInProgress, strPtr("tech-1"))
	tech := actorFor("tech-1", domain.RoleTeknisi)

	first, err := f.service.Diagnose(context.Background(), tech, ticket.ID, DiagnosisInput{
		ProblemCategory:    "hardware",
		ProblemDescription: "psu dead",
		RepairType:         domain.RepairTypeNeedSparepart,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RepairTypeNeedSparepart, first.RepairType)

	_, err = f.service.Diagnose(context.Background(), tech, ticket.ID, DiagnosisInput{
		ProblemCategory:    "hardware",
		ProblemDescription: "board fried too",
		RepairType:         domain.RepairTypeUnrepairable,
	})
	require.NoError(t, err)

	diagEvents := f.dispatcher.byType(events.EventTicketDiagnosed)
	require.Len(t, diagEvents, 2)
	assert.False(t, diagEvents[0].Payload.(events.TicketDiagnosedPayload).Redo)
	assert.True(t, diagEvents[1].Payload.(events.TicketDiagnosedPayload).Redo)
}

func TestListTicketsScopedByRole(t *testing.T) {
	f := newTicketFixture()
	f.addTicket("emp-1", domain.RepairStatusSubmitted, nil)
	f.addTicket("emp-2", domain.RepairStatusAssigned, strPtr("tech-1"))
	f.addTicket("emp-2", domain.RepairStatusSubmitted, nil)

	mine, err := f.service.ListTickets(context.Background(), actorFor("emp-1", domain.RolePegawai), TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	assigned, err := f.service.ListTickets(context.Background(), actorFor("tech-1", domain.RoleTeknisi), TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, assigned, 1)

	all, err := f.service.ListTickets(context.Background(), actorFor("adm-1", domain.RoleAdminLayanan), TicketListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func strPtr(s string) *string { return &s }
