package domain

import (
	"fmt"
	"time"
)

// WorkOrderType enumerates procurement sub-task kinds.
type WorkOrderType string

const (
	WorkOrderTypeSparepart WorkOrderType = "sparepart"
	WorkOrderTypeVendor    WorkOrderType = "vendor"
	WorkOrderTypeLicense   WorkOrderType = "license"
)

// ParseWorkOrderType validates a raw work order type string.
func ParseWorkOrderType(raw string) (WorkOrderType, error) {
	switch WorkOrderType(raw) {
	case WorkOrderTypeSparepart, WorkOrderTypeVendor, WorkOrderTypeLicense:
		return WorkOrderType(raw), nil
	}
	return "", fmt.Errorf("unknown work order type %q", raw)
}

// WorkOrderStatus enumerates the per-work-order lifecycle.
type WorkOrderStatus string

const (
	WorkOrderStatusRequested     WorkOrderStatus = "requested"
	WorkOrderStatusInProcurement WorkOrderStatus = "in_procurement"
	WorkOrderStatusCompleted     WorkOrderStatus = "completed"
	WorkOrderStatusUnsuccessful  WorkOrderStatus = "unsuccessful"

	// Legacy statuses still present on old rows. All terminal.
	WorkOrderStatusDelivered WorkOrderStatus = "delivered"
	WorkOrderStatusFailed    WorkOrderStatus = "failed"
	WorkOrderStatusCancelled WorkOrderStatus = "cancelled"
)

// ParseWorkOrderStatus validates a raw status string, accepting legacy values.
func ParseWorkOrderStatus(raw string) (WorkOrderStatus, error) {
	switch WorkOrderStatus(raw) {
	case WorkOrderStatusRequested, WorkOrderStatusInProcurement,
		WorkOrderStatusCompleted, WorkOrderStatusUnsuccessful,
		WorkOrderStatusDelivered, WorkOrderStatusFailed, WorkOrderStatusCancelled:
		return WorkOrderStatus(raw), nil
	}
	return "", fmt.Errorf("unknown work order status %q", raw)
}

// Terminal reports whether the work order has reached a final state. Legacy
// synonyms count: delivered means completed, failed/cancelled mean
// unsuccessful.
func (s WorkOrderStatus) Terminal() bool {
	switch s {
	case WorkOrderStatusCompleted, WorkOrderStatusUnsuccessful,
		WorkOrderStatusDelivered, WorkOrderStatusFailed, WorkOrderStatusCancelled:
		return true
	}
	return false
}

// WorkOrderItem is one line of a sparepart request.
type WorkOrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// WorkOrder is a procurement sub-task attached to a repair ticket. Created by
// the assigned technician, driven to a terminal state by procurement admins.
type WorkOrder struct {
	ID       string
	TicketID string
	Type     WorkOrderType
	Status   WorkOrderStatus

	// Sparepart payload.
	Items []WorkOrderItem

	// Vendor payload.
	VendorName        string
	VendorContact     string
	VendorDescription string

	// License payload.
	LicenseName        string
	LicenseDescription string

	CompletionNotes string
	FailureReason   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
