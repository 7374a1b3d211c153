package domain

import (
	"fmt"
	"time"
)

// RepairType is the technician's verdict on how a repair proceeds. It is the
// pivot value for all downstream work-order gating.
type RepairType string

const (
	RepairTypeDirect        RepairType = "direct_repair"
	RepairTypeNeedSparepart RepairType = "need_sparepart"
	RepairTypeNeedVendor    RepairType = "need_vendor"
	RepairTypeNeedLicense   RepairType = "need_license"
	RepairTypeUnrepairable  RepairType = "unrepairable"
)

// ParseRepairType validates a raw repair type string.
func ParseRepairType(raw string) (RepairType, error) {
	switch RepairType(raw) {
	case RepairTypeDirect, RepairTypeNeedSparepart, RepairTypeNeedVendor,
		RepairTypeNeedLicense, RepairTypeUnrepairable:
		return RepairType(raw), nil
	}
	return "", fmt.Errorf("unknown repair type %q", raw)
}

// RequiresWorkOrder reports whether the verdict calls for procurement.
func (r RepairType) RequiresWorkOrder() bool {
	switch r {
	case RepairTypeNeedSparepart, RepairTypeNeedVendor, RepairTypeNeedLicense:
		return true
	}
	return false
}

// WorkOrderType returns the procurement sub-task type matching the verdict,
// or false when the verdict needs no work order.
func (r RepairType) WorkOrderType() (WorkOrderType, bool) {
	switch r {
	case RepairTypeNeedSparepart:
		return WorkOrderTypeSparepart, true
	case RepairTypeNeedVendor:
		return WorkOrderTypeVendor, true
	case RepairTypeNeedLicense:
		return WorkOrderTypeLicense, true
	}
	return "", false
}

// Diagnosis is the technician's structured finding for a repair ticket.
// One-to-one with the ticket; a rediagnosis replaces the previous record.
type Diagnosis struct {
	ID                 string
	TicketID           string
	ProblemCategory    string
	ProblemDescription string
	TechnicianNotes    string
	RepairType         RepairType
	UnrepairableReason string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
