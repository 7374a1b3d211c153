package workflow

import "github.com/sigap-ti/sigap/internal/domain"

// Action identifies one workflow operation a caller may take on a ticket.
type Action string

const (
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionClose         Action = "close"
	ActionDiagnose      Action = "diagnose"
	ActionOpenWorkOrder Action = "open_work_order"
	ActionMarkComplete  Action = "mark_complete"
	ActionCancel        Action = "cancel"
)

// ActionSet is the set of actions legal for one caller on one ticket snapshot.
type ActionSet map[Action]struct{}

// Has reports membership.
func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

func (s ActionSet) add(a Action) {
	s[a] = struct{}{}
}

// Actor is the caller identity every workflow query is evaluated against.
// Passed explicitly; the workflow model holds no ambient session state.
type Actor struct {
	UserID string
	Role   domain.Role
}

// Blocking reasons surfaced on Decision when completion is gated.
const (
	BlockedUndiagnosed       = "undiagnosed"
	BlockedWorkOrdersPending = "work_orders_pending"
)

// Decision is the computed answer for one (ticket, actor) pair. Allowed is
// what the caller may do; CanComplete and BlockingReason describe the
// ticket's completability independent of the caller; IsUnrepairable flags
// completion that acknowledges an unrepairable device rather than a fix.
type Decision struct {
	Allowed        ActionSet
	CanComplete    bool
	BlockingReason string
	IsUnrepairable bool
}
