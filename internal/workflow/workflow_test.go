package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigap-ti/sigap/internal/domain"
)

func repairTicket(status domain.RepairStatus) *domain.RepairTicket {
	assignee := "tech-1"
	return &domain.RepairTicket{
		ID:           "tkt-1",
		TicketNumber: "TKT-0001",
		UserID:       "user-1",
		AssignedTo:   &assignee,
		Status:       status,
	}
}

func diagnosed(status domain.RepairStatus, repairType domain.RepairType) *domain.RepairTicket {
	t := repairTicket(status)
	t.Diagnosis = &domain.Diagnosis{
		ID:         "diag-1",
		TicketID:   t.ID,
		RepairType: repairType,
	}
	return t
}

func technician() Actor { return Actor{UserID: "tech-1", Role: domain.RoleTeknisi} }

func TestUndiagnosedTicketCannotComplete(t *testing.T) {
	ticket := repairTicket(domain.RepairStatusInProgress)

	ok, reason := CanComplete(ticket, nil)
	assert.False(t, ok)
	assert.Equal(t, BlockedUndiagnosed, reason)

	decision, err := Evaluate(ticket, nil, technician())
	require.NoError(t, err)
	assert.False(t, decision.CanComplete)
	assert.Equal(t, BlockedUndiagnosed, decision.BlockingReason)
	// Only (re)diagnosis remains available.
	assert.True(t, decision.Allowed.Has(ActionDiagnose))
	assert.False(t, decision.Allowed.Has(ActionMarkComplete))
	assert.False(t, decision.Allowed.Has(ActionOpenWorkOrder))
}

func TestDirectRepairCompletesWithoutWorkOrders(t *testing.T) {
	ticket := diagnosed(domain.RepairStatusInProgress, domain.RepairTypeDirect)

	ok, reason := CanComplete(ticket, nil)
	assert.True(t, ok)
	assert.Empty(t, reason)

	decision, err := Evaluate(ticket, nil, technician())
	require.NoError(t, err)
	assert.True(t, decision.Allowed.Has(ActionMarkComplete))
	assert.False(t, decision.Allowed.Has(ActionOpenWorkOrder))
	assert.False(t, decision.IsUnrepairable)
}

func TestCompletionGatedOnWorkOrders(t *testing.T) {
	ticket := diagnosed(domain.RepairStatusInProgress, domain.RepairTypeNeedSparepart)
	workOrders := []domain.WorkOrder{
		{ID: "wo-1", TicketID: ticket.ID, Type: domain.WorkOrderTypeSparepart, Status: domain.WorkOrderStatusRequested},
	}

	ok, reason := CanComplete(ticket, workOrders)
	assert.False(t, ok)
	assert.Equal(t, BlockedWorkOrdersPending, reason)

	workOrders[0].Status = domain.WorkOrderStatusCompleted
	ok, reason = CanComplete(ticket, workOrders)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestWorkOrdersReadyFlagTrustedOverAggregation(t *testing.T) {
	ticket := diagnosed(domain.RepairStatusInProgress, domain.RepairTypeNeedVendor)
	ticket.WorkOrdersReady = true
	workOrders := []domain.WorkOrder{
		{ID: "wo-1", TicketID: ticket.ID, Type: domain.WorkOrderTypeVendor, Status: domain.WorkOrderStatusRequested},
	}

	ok, reason := CanComplete(ticket, workOrders)
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestUnrepairableStillCompletes(t *testing.T) {
	ticket := diagnosed(domain.RepairStatusInProgress, domain.RepairTypeUnrepairable)

	decision, err := Evaluate(ticket, nil, technician())
	require.NoError(t, err)
	assert.True(t, decision.CanComplete)
	assert.Empty(t, decision.BlockingReason)
	assert.True(t, decision.IsUnrepairable)
	assert.True(t, decision.Allowed.Has(ActionMarkComplete))
}

func TestLegacyTerminalSynonymsSatisfyGating(t *testing.T) {
	ticket := diagnosed(domain.RepairStatusInProgress, domain.RepairTypeNeedSparepart)
	workOrders := []domain.WorkOrder{
		{ID: "wo-1", Status: domain.WorkOrderStatusDelivered},
		{ID: "wo-2", Status: domain.WorkOrderStatusCancelled},
		{ID: "wo-3", Status: domain.WorkOrderStatusFailed},
	}

	ok, _ := CanComplete(ticket, workOrders)
	assert.True(t, ok)
}

func TestNonOwnerEmployeeLockedOutAtEveryStatus(t *testing.T) {
	statuses := []domain.RepairStatus{
		domain.RepairStatusSubmitted,
		domain.RepairStatusAssigned,
		domain.RepairStatusInProgress,
		domain.RepairStatusOnHold,
		domain.RepairStatusWaitingForSubmitter,
		domain.RepairStatusClosed,
		domain.RepairStatusRejected,
	}
	stranger := Actor{UserID: "user-2", Role: domain.RolePegawai}
	for _, status := range statuses {
		decision, err := Evaluate(repairTicket(status), nil, stranger)
		require.NoError(t, err)
		assert.Empty(t, decision.Allowed, "status %s", status)
	}
}

func TestOwnerClosesOnlyWhenWaiting(t *testing.T) {
	owner := Actor{UserID: "user-1", Role: domain.RolePegawai}

	decision, err := Evaluate(repairTicket(domain.RepairStatusWaitingForSubmitter), nil, owner)
	require.NoError(t, err)
	assert.True(t, decision.Allowed.Has(ActionClose))

	decision, err = Evaluate(repairTicket(domain.RepairStatusInProgress), nil, owner)
	require.NoError(t, err)
	assert.False(t, decision.Allowed.Has(ActionClose))
}

func TestServiceAdminActions(t *testing.T) {
	admin := Actor{UserID: "admin-1", Role: domain.RoleAdminLayanan}

	decision, err := Evaluate(repairTicket(domain.RepairStatusSubmitted), nil, admin)
	require.NoError(t, err)
	assert.True(t, decision.Allowed.Has(ActionApprove))
	assert.True(t, decision.Allowed.Has(ActionReject))
	assert.True(t, decision.Allowed.Has(ActionClose))

	// Close stays available mid-workflow as the administrative escape hatch.
	decision, err = Evaluate(repairTicket(domain.RepairStatusOnHold), nil, admin)
	require.NoError(t, err)
	assert.False(t, decision.Allowed.Has(ActionApprove))
	assert.True(t, decision.Allowed.Has(ActionClose))

	for _, status := range []domain.RepairStatus{domain.RepairStatusClosed, domain.RepairStatusRejected} {
		decision, err = Evaluate(repairTicket(status), nil, admin)
		require.NoError(t, err)
		assert.Empty(t, decision.Allowed, "status %s", status)
	}
}

func TestTechnicianMustBeAssignee(t *testing.T) {
	otherTech := Actor{UserID: "tech-2", Role: domain.RoleTeknisi}
	decision, err := Evaluate(diagnosed(domain.RepairStatusInProgress, domain.RepairTypeDirect), nil, otherTech)
	require.NoError(t, err)
	assert.Empty(t, decision.Allowed)
}

func TestOpenWorkOrderRequiresProcurementVerdict(t *testing.T) {
	ticket := diagnosed(domain.RepairStatusAssigned, domain.RepairTypeNeedLicense)
	decision, err := Evaluate(ticket, nil, technician())
	require.NoError(t, err)
	assert.True(t, decision.Allowed.Has(ActionOpenWorkOrder))

	ticket = diagnosed(domain.RepairStatusAssigned, domain.RepairTypeDirect)
	decision, err = Evaluate(ticket, nil, technician())
	require.NoError(t, err)
	assert.False(t, decision.Allowed.Has(ActionOpenWorkOrder))
}

func TestZoomReviewActions(t *testing.T) {
	zoom := &domain.ZoomTicket{
		ID:     "zoom-1",
		UserID: "user-1",
		Status: domain.ZoomStatusPendingReview,
	}

	for _, role := range []domain.Role{domain.RoleAdminLayanan, domain.RoleSuperAdmin} {
		decision, err := Evaluate(zoom, nil, Actor{UserID: "admin-1", Role: role})
		require.NoError(t, err)
		assert.True(t, decision.Allowed.Has(ActionApprove), "role %s", role)
		assert.True(t, decision.Allowed.Has(ActionReject), "role %s", role)
	}

	decision, err := Evaluate(zoom, nil, Actor{UserID: "user-1", Role: domain.RolePegawai})
	require.NoError(t, err)
	assert.Empty(t, decision.Allowed)

	zoom.Status = domain.ZoomStatusApproved
	decision, err = Evaluate(zoom, nil, Actor{UserID: "admin-1", Role: domain.RoleAdminLayanan})
	require.NoError(t, err)
	assert.Empty(t, decision.Allowed)
}
