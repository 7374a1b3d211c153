package dto

import (
	"time"

	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/workflow"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssetCode   string `json:"asset_code"`
	AssetNup    string `json:"asset_nup"`
}

// ApproveTicketRequest payload.
type ApproveTicketRequest struct {
	TechnicianID string `json:"technician_id"`
}

// RejectTicketRequest payload.
type RejectTicketRequest struct {
	Reason string `json:"reason"`
}

// UpdateTicketStatusRequest payload.
type UpdateTicketStatusRequest struct {
	Status string `json:"status"`
}

// DiagnosisRequest payload.
type DiagnosisRequest struct {
	ProblemCategory    string `json:"problem_category"`
	ProblemDescription string `json:"problem_description"`
	TechnicianNotes    string `json:"technician_notes"`
	RepairType         string `json:"repair_type"`
	UnrepairableReason string `json:"unrepairable_reason"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           string              `json:"id"`
	TicketNumber string              `json:"ticket_number"`
	UserID       string              `json:"user_id"`
	AssignedTo   *string             `json:"assigned_to"`
	Title        string              `json:"title"`
	Status       domain.RepairStatus `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// DecisionResponse mirrors the workflow verdict so clients can enable or
// disable controls without re-deriving the rules.
type DecisionResponse struct {
	AllowedActions []string `json:"allowed_actions"`
	CanComplete    bool     `json:"can_complete"`
	BlockingReason string   `json:"blocking_reason,omitempty"`
	IsUnrepairable bool     `json:"is_unrepairable"`
}

// DiagnosisResponse response.
type DiagnosisResponse struct {
	ProblemCategory    string            `json:"problem_category"`
	ProblemDescription string            `json:"problem_description"`
	TechnicianNotes    string            `json:"technician_notes,omitempty"`
	RepairType         domain.RepairType `json:"repair_type"`
	UnrepairableReason string            `json:"unrepairable_reason,omitempty"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID              string              `json:"id"`
	TicketNumber    string              `json:"ticket_number"`
	UserID          string              `json:"user_id"`
	AssignedTo      *string             `json:"assigned_to"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	AssetCode       string              `json:"asset_code,omitempty"`
	AssetNup        string              `json:"asset_nup,omitempty"`
	Status          domain.RepairStatus `json:"status"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	WorkOrdersReady bool                `json:"work_orders_ready"`
	Diagnosis       *DiagnosisResponse  `json:"diagnosis,omitempty"`
	WorkOrders      []WorkOrderResponse `json:"work_orders"`
	Decision        DecisionResponse    `json:"decision"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// NewDecisionResponse flattens a workflow decision.
func NewDecisionResponse(decision workflow.Decision) DecisionResponse {
	actions := make([]string, 0, len(decision.Allowed))
	for action := range decision.Allowed {
		actions = append(actions, string(action))
	}
	return DecisionResponse{
		AllowedActions: actions,
		CanComplete:    decision.CanComplete,
		BlockingReason: decision.BlockingReason,
		IsUnrepairable: decision.IsUnrepairable,
	}
}
