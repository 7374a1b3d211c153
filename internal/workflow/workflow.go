// Package workflow computes, without I/O, which actions a caller may take on
// a ticket snapshot and whether a repair ticket may be marked complete. All
// mutation happens elsewhere; callers re-evaluate against a fresh snapshot
// after every successful mutation.
package workflow

import (
	"fmt"

	"github.com/sigap-ti/sigap/internal/domain"
)

// Evaluate derives the full decision for one caller against one ticket
// snapshot and its work orders. It returns a hard error only for malformed
// records (unknown ticket variant); "nothing allowed" is an empty set.
func Evaluate(ticket domain.Ticket, workOrders []domain.WorkOrder, actor Actor) (Decision, error) {
	switch t := ticket.(type) {
	case *domain.RepairTicket:
		return evaluateRepair(t, workOrders, actor), nil
	case *domain.ZoomTicket:
		return evaluateZoom(t, actor), nil
	default:
		return Decision{}, fmt.Errorf("unsupported ticket type %T", ticket)
	}
}

func evaluateRepair(t *domain.RepairTicket, workOrders []domain.WorkOrder, actor Actor) Decision {
	decision := Decision{Allowed: ActionSet{}}
	decision.CanComplete, decision.BlockingReason, decision.IsUnrepairable = repairCompletion(t, workOrders)

	switch actor.Role {
	case domain.RoleAdminLayanan:
		if t.Status == domain.RepairStatusSubmitted {
			decision.Allowed.add(ActionApprove)
			decision.Allowed.add(ActionReject)
		}
		// Administrative override: close from any non-terminal state without
		// waiting for the workflow to finish.
		if !t.Status.Terminal() {
			decision.Allowed.add(ActionClose)
		}

	case domain.RoleTeknisi:
		if !t.IsAssignee(actor.UserID) {
			return decision
		}
		if !technicianActionable(t.Status) {
			return decision
		}
		// Diagnosis is idempotent and replaceable, so always offered.
		decision.Allowed.add(ActionDiagnose)
		if t.Diagnosis != nil && t.Diagnosis.RepairType.RequiresWorkOrder() {
			decision.Allowed.add(ActionOpenWorkOrder)
		}
		if decision.CanComplete {
			decision.Allowed.add(ActionMarkComplete)
		}

	case domain.RolePegawai:
		if t.UserID == actor.UserID && t.Status == domain.RepairStatusWaitingForSubmitter {
			decision.Allowed.add(ActionClose)
		}
	}

	return decision
}

func technicianActionable(s domain.RepairStatus) bool {
	switch s {
	case domain.RepairStatusAssigned, domain.RepairStatusInProgress, domain.RepairStatusOnHold:
		return true
	}
	return false
}

// repairCompletion is the completion predicate: diagnosed, and either the
// verdict needs no procurement (direct repair, or unrepairable — completion
// then records that no further repair is possible), or every work order is
// terminal, or the server has asserted readiness via the short-circuit flag.
func repairCompletion(t *domain.RepairTicket, workOrders []domain.WorkOrder) (ok bool, reason string, unrepairable bool) {
	if t.Diagnosis == nil {
		return false, BlockedUndiagnosed, false
	}
	unrepairable = t.Diagnosis.RepairType == domain.RepairTypeUnrepairable
	if !t.Diagnosis.RepairType.RequiresWorkOrder() {
		return true, "", unrepairable
	}
	// The flag is trusted over local aggregation; the server's intent is not
	// re-derived here.
	if t.WorkOrdersReady {
		return true, "", unrepairable
	}
	if allWorkOrdersTerminal(workOrders) {
		return true, "", unrepairable
	}
	return false, BlockedWorkOrdersPending, unrepairable
}

// CanComplete is the standalone completion predicate for a repair ticket.
func CanComplete(t *domain.RepairTicket, workOrders []domain.WorkOrder) (bool, string) {
	ok, reason, _ := repairCompletion(t, workOrders)
	return ok, reason
}

func allWorkOrdersTerminal(workOrders []domain.WorkOrder) bool {
	if len(workOrders) == 0 {
		return false
	}
	for _, wo := range workOrders {
		if !wo.Status.Terminal() {
			return false
		}
	}
	return true
}

func evaluateZoom(t *domain.ZoomTicket, actor Actor) Decision {
	decision := Decision{Allowed: ActionSet{}}
	if t.Status != domain.ZoomStatusPendingReview {
		return decision
	}
	switch actor.Role {
	case domain.RoleAdminLayanan, domain.RoleSuperAdmin:
		decision.Allowed.add(ActionApprove)
		decision.Allowed.add(ActionReject)
		decision.Allowed.add(ActionCancel)
	}
	return decision
}
