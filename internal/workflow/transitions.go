package workflow

import (
	"strings"

	"github.com/sigap-ti/sigap/internal/domain"
)

var repairTransitions = map[domain.RepairStatus][]domain.RepairStatus{
	domain.RepairStatusSubmitted: {
		domain.RepairStatusAssigned,
		domain.RepairStatusRejected,
		domain.RepairStatusClosed,
	},
	domain.RepairStatusAssigned: {
		domain.RepairStatusInProgress,
		domain.RepairStatusOnHold,
		domain.RepairStatusWaitingForSubmitter,
		domain.RepairStatusClosed,
	},
	domain.RepairStatusInProgress: {
		domain.RepairStatusOnHold,
		domain.RepairStatusWaitingForSubmitter,
		domain.RepairStatusClosed,
	},
	domain.RepairStatusOnHold: {
		domain.RepairStatusInProgress,
		domain.RepairStatusWaitingForSubmitter,
		domain.RepairStatusClosed,
	},
	domain.RepairStatusWaitingForSubmitter: {
		domain.RepairStatusClosed,
	},
	domain.RepairStatusClosed:   {},
	domain.RepairStatusRejected: {},
}

// ValidateRepairTransition checks a repair ticket status change against the
// state machine. Role conditions are evaluated separately via Evaluate.
func ValidateRepairTransition(current, next domain.RepairStatus) error {
	for _, candidate := range repairTransitions[current] {
		if candidate == next {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "ticket", From: string(current), To: string(next)}
}

// ValidateZoomTransition checks a Zoom booking status change. Everything out
// of pending_review is terminal.
func ValidateZoomTransition(current, next domain.ZoomStatus) error {
	if current == domain.ZoomStatusPendingReview {
		switch next {
		case domain.ZoomStatusApproved, domain.ZoomStatusRejected, domain.ZoomStatusCancelled:
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "zoom ticket", From: string(current), To: string(next)}
}

// workOrderRank orders the monotonic work order lifecycle. Legacy terminal
// synonyms share the terminal rank.
func workOrderRank(s domain.WorkOrderStatus) int {
	switch {
	case s == domain.WorkOrderStatusRequested:
		return 0
	case s == domain.WorkOrderStatusInProcurement:
		return 1
	case s.Terminal():
		return 2
	}
	return -1
}

// WorkOrderUpdate carries the post-merge field values a status change would
// leave on the work order, so preconditions are checked against what the
// record will actually hold.
type WorkOrderUpdate struct {
	Status          domain.WorkOrderStatus
	VendorName      string
	VendorContact   string
	CompletionNotes string
	FailureReason   string
}

// ValidateWorkOrderUpdate checks a work order status change and its
// type-conditional field preconditions. Terminal states admit no further
// transitions; moves must be strictly forward.
func ValidateWorkOrderUpdate(wo *domain.WorkOrder, upd WorkOrderUpdate) error {
	invalid := &InvalidTransitionError{
		Entity: "work order",
		From:   string(wo.Status),
		To:     string(upd.Status),
	}
	from, to := workOrderRank(wo.Status), workOrderRank(upd.Status)
	if from < 0 || to < 0 || to <= from {
		return invalid
	}
	switch upd.Status {
	case domain.WorkOrderStatusInProcurement, domain.WorkOrderStatusCompleted, domain.WorkOrderStatusUnsuccessful:
	default:
		// Legacy statuses are readable, never writable.
		return invalid
	}

	if wo.Type == domain.WorkOrderTypeVendor &&
		(upd.Status == domain.WorkOrderStatusInProcurement || upd.Status == domain.WorkOrderStatusCompleted) {
		if strings.TrimSpace(upd.VendorName) == "" {
			return &ValidationError{Field: "vendorName"}
		}
		if strings.TrimSpace(upd.VendorContact) == "" {
			return &ValidationError{Field: "vendorContact"}
		}
	}
	if upd.Status == domain.WorkOrderStatusCompleted && wo.Type == domain.WorkOrderTypeVendor {
		if strings.TrimSpace(upd.CompletionNotes) == "" {
			return &ValidationError{Field: "completionNotes"}
		}
	}
	if upd.Status == domain.WorkOrderStatusUnsuccessful {
		if strings.TrimSpace(upd.FailureReason) == "" {
			return &ValidationError{Field: "failureReason"}
		}
	}
	return nil
}
