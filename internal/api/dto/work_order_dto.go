package dto

import (
	"time"

	"github.com/sigap-ti/sigap/internal/domain"
)

// WorkOrderItemPayload is one requested part line.
type WorkOrderItemPayload struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// CreateWorkOrderRequest payload.
type CreateWorkOrderRequest struct {
	Type               string                 `json:"type"`
	Items              []WorkOrderItemPayload `json:"items"`
	VendorName         string                 `json:"vendor_name"`
	VendorContact      string                 `json:"vendor_contact"`
	VendorDescription  string                 `json:"vendor_description"`
	LicenseName        string                 `json:"license_name"`
	LicenseDescription string                 `json:"license_description"`
}

// UpdateWorkOrderRequest payload.
type UpdateWorkOrderRequest struct {
	Status          string  `json:"status"`
	VendorName      *string `json:"vendor_name"`
	VendorContact   *string `json:"vendor_contact"`
	CompletionNotes string  `json:"completion_notes"`
	FailureReason   string  `json:"failure_reason"`
}

// WorkOrderResponse response.
type WorkOrderResponse struct {
	ID                 string                 `json:"id"`
	TicketID           string                 `json:"ticket_id"`
	Type               domain.WorkOrderType   `json:"type"`
	Status             domain.WorkOrderStatus `json:"status"`
	Items              []WorkOrderItemPayload `json:"items,omitempty"`
	VendorName         string                 `json:"vendor_name,omitempty"`
	VendorContact      string                 `json:"vendor_contact,omitempty"`
	VendorDescription  string                 `json:"vendor_description,omitempty"`
	LicenseName        string                 `json:"license_name,omitempty"`
	LicenseDescription string                 `json:"license_description,omitempty"`
	CompletionNotes    string                 `json:"completion_notes,omitempty"`
	FailureReason      string                 `json:"failure_reason,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// WorkOrderListResponse wraps a page plus the total match count.
type WorkOrderListResponse struct {
	Items []WorkOrderResponse `json:"items"`
	Total int                 `json:"total"`
}
