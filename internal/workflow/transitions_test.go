package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigap-ti/sigap/internal/domain"
)

func TestRepairTransitionTable(t *testing.T) {
	cases := []struct {
		from, to domain.RepairStatus
		ok       bool
	}{
		{domain.RepairStatusSubmitted, domain.RepairStatusAssigned, true},
		{domain.RepairStatusSubmitted, domain.RepairStatusRejected, true},
		{domain.RepairStatusSubmitted, domain.RepairStatusInProgress, false},
		{domain.RepairStatusAssigned, domain.RepairStatusInProgress, true},
		{domain.RepairStatusInProgress, domain.RepairStatusOnHold, true},
		{domain.RepairStatusOnHold, domain.RepairStatusInProgress, true},
		{domain.RepairStatusInProgress, domain.RepairStatusWaitingForSubmitter, true},
		{domain.RepairStatusWaitingForSubmitter, domain.RepairStatusClosed, true},
		{domain.RepairStatusWaitingForSubmitter, domain.RepairStatusInProgress, false},
		{domain.RepairStatusClosed, domain.RepairStatusInProgress, false},
		{domain.RepairStatusRejected, domain.RepairStatusAssigned, false},
	}
	for _, tc := range cases {
		err := ValidateRepairTransition(tc.from, tc.to)
		if tc.ok {
			assert.NoError(t, err, "%s -> %s", tc.from, tc.to)
		} else {
			var invalid *InvalidTransitionError
			assert.ErrorAs(t, err, &invalid, "%s -> %s", tc.from, tc.to)
		}
	}
}

func TestZoomTransitions(t *testing.T) {
	for _, next := range []domain.ZoomStatus{
		domain.ZoomStatusApproved, domain.ZoomStatusRejected, domain.ZoomStatusCancelled,
	} {
		assert.NoError(t, ValidateZoomTransition(domain.ZoomStatusPendingReview, next))
	}
	var invalid *InvalidTransitionError
	assert.ErrorAs(t, ValidateZoomTransition(domain.ZoomStatusApproved, domain.ZoomStatusCancelled), &invalid)
	assert.ErrorAs(t, ValidateZoomTransition(domain.ZoomStatusRejected, domain.ZoomStatusPendingReview), &invalid)
}

func sparepartOrder(status domain.WorkOrderStatus) *domain.WorkOrder {
	return &domain.WorkOrder{
		ID:     "wo-1",
		Type:   domain.WorkOrderTypeSparepart,
		Status: status,
		Items:  []domain.WorkOrderItem{{Name: "RAM DDR4 8GB", Quantity: 1}},
	}
}

func TestWorkOrderProgression(t *testing.T) {
	wo := sparepartOrder(domain.WorkOrderStatusRequested)

	require.NoError(t, ValidateWorkOrderUpdate(wo, WorkOrderUpdate{Status: domain.WorkOrderStatusInProcurement}))
	require.NoError(t, ValidateWorkOrderUpdate(wo, WorkOrderUpdate{Status: domain.WorkOrderStatusCompleted}))

	wo.Status = domain.WorkOrderStatusInProcurement
	require.NoError(t, ValidateWorkOrderUpdate(wo, WorkOrderUpdate{
		Status:        domain.WorkOrderStatusUnsuccessful,
		FailureReason: "barang tidak tersedia",
	}))
}

func TestWorkOrderTerminalIsFinal(t *testing.T) {
	terminal := []domain.WorkOrderStatus{
		domain.WorkOrderStatusCompleted,
		domain.WorkOrderStatusUnsuccessful,
		domain.WorkOrderStatusDelivered,
		domain.WorkOrderStatusCancelled,
	}
	for _, status := range terminal {
		wo := sparepartOrder(status)
		err := ValidateWorkOrderUpdate(wo, WorkOrderUpdate{Status: domain.WorkOrderStatusInProcurement})
		var invalid *InvalidTransitionError
		assert.ErrorAs(t, err, &invalid, "from %s", status)
	}

	// No backwards moves either.
	wo := sparepartOrder(domain.WorkOrderStatusInProcurement)
	var invalid *InvalidTransitionError
	assert.ErrorAs(t, ValidateWorkOrderUpdate(wo, WorkOrderUpdate{Status: domain.WorkOrderStatusRequested}), &invalid)
	assert.ErrorAs(t, ValidateWorkOrderUpdate(wo, WorkOrderUpdate{Status: domain.WorkOrderStatusInProcurement}), &invalid)
}

func TestUnsuccessfulRequiresFailureReason(t *testing.T) {
	wo := sparepartOrder(domain.WorkOrderStatusInProcurement)
	err := ValidateWorkOrderUpdate(wo, WorkOrderUpdate{Status: domain.WorkOrderStatusUnsuccessful})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "failureReason", validation.Field)
}

func TestVendorCompletionValidation(t *testing.T) {
	wo := &domain.WorkOrder{
		ID:     "wo-2",
		Type:   domain.WorkOrderTypeVendor,
		Status: domain.WorkOrderStatusInProcurement,
	}

	err := ValidateWorkOrderUpdate(wo, WorkOrderUpdate{
		Status:        domain.WorkOrderStatusCompleted,
		VendorName:    "CV Sumber Teknik",
		VendorContact: "081234567890",
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "completionNotes", validation.Field)

	require.NoError(t, ValidateWorkOrderUpdate(wo, WorkOrderUpdate{
		Status:          domain.WorkOrderStatusCompleted,
		VendorName:      "CV Sumber Teknik",
		VendorContact:   "081234567890",
		CompletionNotes: "unit diganti power supply, sudah dites",
	}))
}

func TestVendorProcurementRequiresContactInfo(t *testing.T) {
	wo := &domain.WorkOrder{
		ID:     "wo-3",
		Type:   domain.WorkOrderTypeVendor,
		Status: domain.WorkOrderStatusRequested,
	}

	err := ValidateWorkOrderUpdate(wo, WorkOrderUpdate{Status: domain.WorkOrderStatusInProcurement})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "vendorName", validation.Field)

	err = ValidateWorkOrderUpdate(wo, WorkOrderUpdate{
		Status:     domain.WorkOrderStatusInProcurement,
		VendorName: "CV Sumber Teknik",
	})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "vendorContact", validation.Field)
}

func TestLegacyStatusesAreNotWritable(t *testing.T) {
	wo := sparepartOrder(domain.WorkOrderStatusRequested)
	for _, status := range []domain.WorkOrderStatus{
		domain.WorkOrderStatusDelivered,
		domain.WorkOrderStatusFailed,
		domain.WorkOrderStatusCancelled,
	} {
		err := ValidateWorkOrderUpdate(wo, WorkOrderUpdate{Status: status, FailureReason: "x"})
		var invalid *InvalidTransitionError
		assert.True(t, errors.As(err, &invalid), "status %s", status)
	}
}
