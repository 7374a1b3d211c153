package domain

import (
	"fmt"
	"time"
)

// TicketType discriminates the two ticket variants.
type TicketType string

const (
	TicketTypePerbaikan   TicketType = "perbaikan"
	TicketTypeZoomMeeting TicketType = "zoom_meeting"
)

// Ticket is the tagged union over repair and Zoom booking tickets. Code that
// needs variant-specific fields type-switches on the concrete type.
type Ticket interface {
	TicketType() TicketType
	TicketID() string
	OwnerID() string
}

// RepairStatus enumerates lifecycle states for repair tickets.
type RepairStatus string

const (
	RepairStatusSubmitted            RepairStatus = "submitted"
	RepairStatusAssigned             RepairStatus = "assigned"
	RepairStatusInProgress           RepairStatus = "in_progress"
	RepairStatusOnHold               RepairStatus = "on_hold"
	RepairStatusWaitingForSubmitter  RepairStatus = "waiting_for_submitter"
	RepairStatusClosed               RepairStatus = "closed"
	RepairStatusRejected             RepairStatus = "rejected"
)

// ParseRepairStatus validates a raw status string. "ditolak" is accepted as a
// legacy alias for the rejected state and normalized here, at the boundary.
func ParseRepairStatus(raw string) (RepairStatus, error) {
	if raw == "ditolak" {
		return RepairStatusRejected, nil
	}
	switch RepairStatus(raw) {
	case RepairStatusSubmitted, RepairStatusAssigned, RepairStatusInProgress,
		RepairStatusOnHold, RepairStatusWaitingForSubmitter,
		RepairStatusClosed, RepairStatusRejected:
		return RepairStatus(raw), nil
	}
	return "", fmt.Errorf("unknown repair ticket status %q", raw)
}

// Terminal reports whether no further transitions are possible.
func (s RepairStatus) Terminal() bool {
	return s == RepairStatusClosed || s == RepairStatusRejected
}

// RepairTicket is a submitted repair/maintenance request.
type RepairTicket struct {
	ID              string
	TicketNumber    string
	UserID          string
	AssignedTo      *string
	Title           string
	Description     string
	AssetCode       string
	AssetNup        string
	Status          RepairStatus
	RejectionReason string
	// WorkOrdersReady is a server-asserted short-circuit: when true, work
	// order gating counts as satisfied regardless of per-item statuses.
	WorkOrdersReady bool
	Diagnosis       *Diagnosis
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *RepairTicket) TicketType() TicketType { return TicketTypePerbaikan }
func (t *RepairTicket) TicketID() string       { return t.ID }
func (t *RepairTicket) OwnerID() string        { return t.UserID }

// IsAssignee reports whether the given user is the assigned technician.
func (t *RepairTicket) IsAssignee(userID string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == userID
}
