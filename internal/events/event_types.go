package events

import (
	"time"

	"github.com/sigap-ti/sigap/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated           EventType = "ticket_created"
	EventTicketAssigned          EventType = "ticket_assigned"
	EventTicketStatusChanged     EventType = "ticket_status_changed"
	EventTicketDiagnosed         EventType = "ticket_diagnosed"
	EventZoomTicketCreated       EventType = "zoom_ticket_created"
	EventZoomTicketReviewed      EventType = "zoom_ticket_reviewed"
	EventWorkOrderCreated        EventType = "work_order_created"
	EventWorkOrderStatusChanged  EventType = "work_order_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string `json:"ticket_number"`
	Title        string `json:"title"`
	AssetCode    string `json:"asset_code,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TechnicianID string `json:"technician_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.RepairStatus `json:"old_status"`
	NewStatus domain.RepairStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketDiagnosedPayload payload.
type TicketDiagnosedPayload struct {
	RepairType domain.RepairType `json:"repair_type"`
	Redo       bool              `json:"redo"`
}

// ZoomTicketCreatedPayload payload.
type ZoomTicketCreatedPayload struct {
	TicketNumber string `json:"ticket_number"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	ZoomAccount  string `json:"zoom_account"`
}

// ZoomTicketReviewedPayload payload.
type ZoomTicketReviewedPayload struct {
	NewStatus domain.ZoomStatus `json:"new_status"`
	Reason    string            `json:"reason,omitempty"`
}

// WorkOrderCreatedPayload payload.
type WorkOrderCreatedPayload struct {
	WorkOrderID string               `json:"work_order_id"`
	Type        domain.WorkOrderType `json:"type"`
}

// WorkOrderStatusChangedPayload payload.
type WorkOrderStatusChangedPayload struct {
	WorkOrderID string                 `json:"work_order_id"`
	OldStatus   domain.WorkOrderStatus `json:"old_status"`
	NewStatus   domain.WorkOrderStatus `json:"new_status"`
}
