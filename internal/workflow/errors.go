package workflow

import "fmt"

// InvalidTransitionError signals a status change the state machine forbids.
// Returned, never panicked: handlers translate it into a structured response.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition %s -> %s", e.Entity, e.From, e.To)
}

// ValidationError signals a missing precondition field on a transition, e.g.
// completing a vendor work order without completion notes.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s required", e.Field)
}
