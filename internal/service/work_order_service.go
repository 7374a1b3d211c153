package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/events"
	"github.com/sigap-ti/sigap/internal/repository"
	"github.com/sigap-ti/sigap/internal/workflow"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

// WorkOrderService manages procurement sub-tasks. Technicians open them from
// a diagnosed ticket; procurement admins drive them to a terminal state.
type WorkOrderService struct {
	workOrders repository.WorkOrderRepository
	tickets    repository.TicketRepository
	diagnoses  repository.DiagnosisRepository
	dispatcher events.Dispatcher
}

// WorkOrderDependencies bundles repositories for the work order service.
type WorkOrderDependencies struct {
	WorkOrderRepo repository.WorkOrderRepository
	TicketRepo    repository.TicketRepository
	DiagnosisRepo repository.DiagnosisRepository
	Dispatcher    events.Dispatcher
}

// NewWorkOrderService constructs the service.
func NewWorkOrderService(deps WorkOrderDependencies) *WorkOrderService {
	return &WorkOrderService{
		workOrders: deps.WorkOrderRepo,
		tickets:    deps.TicketRepo,
		diagnoses:  deps.DiagnosisRepo,
		dispatcher: deps.Dispatcher,
	}
}

// WorkOrderCreateInput describes a new procurement request.
type WorkOrderCreateInput struct {
	Type               domain.WorkOrderType
	Items              []domain.WorkOrderItem
	VendorName         string
	VendorContact      string
	VendorDescription  string
	LicenseName        string
	LicenseDescription string
}

// WorkOrderUpdateInput describes a status change with its payload fields.
type WorkOrderUpdateInput struct {
	Status          domain.WorkOrderStatus
	VendorName      *string
	VendorContact   *string
	CompletionNotes string
	FailureReason   string
}

// Create opens a work order on a diagnosed ticket. The work order type must
// match the diagnosed resolution path.
func (s *WorkOrderService) Create(ctx context.Context, actor workflow.Actor, ticketID string, input WorkOrderCreateInput) (*domain.WorkOrder, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if actor.Role != domain.RoleTeknisi || !ticket.IsAssignee(actor.UserID) {
		return nil, apperrors.NewForbidden("assigned technician required")
	}

	diagnosis, err := s.diagnoses.GetByTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidTransition("ticket is not diagnosed", map[string]any{
				"reason": workflow.BlockedUndiagnosed,
			})
		}
		return nil, err
	}
	expectedType, ok := diagnosis.RepairType.WorkOrderType()
	if !ok {
		return nil, apperrors.NewInvalidTransition("diagnosis does not call for procurement", map[string]any{
			"repair_type": diagnosis.RepairType,
		})
	}

	// The snapshot decision gates on ticket status too: no new procurement
	// once the ticket has left the technician's hands.
	ticket.Diagnosis = diagnosis
	existing, err := s.workOrders.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	decision, err := workflow.Evaluate(ticket, existing, actor)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed.Has(workflow.ActionOpenWorkOrder) {
		return nil, &workflow.InvalidTransitionError{
			Entity: "ticket",
			From:   string(ticket.Status),
			To:     string(workflow.ActionOpenWorkOrder),
		}
	}

	if input.Type != expectedType {
		return nil, apperrors.NewValidationError("work order type does not match diagnosis", map[string]any{
			"expected": expectedType,
		})
	}
	if input.Type == domain.WorkOrderTypeSparepart && len(input.Items) == 0 {
		return nil, apperrors.NewValidationError("sparepart work order requires at least one item", nil)
	}
	if input.Type == domain.WorkOrderTypeLicense && strings.TrimSpace(input.LicenseName) == "" {
		return nil, apperrors.NewValidationError("license name required", nil)
	}

	workOrder := &domain.WorkOrder{
		TicketID:           ticket.ID,
		Type:               input.Type,
		Status:             domain.WorkOrderStatusRequested,
		Items:              input.Items,
		VendorName:         strings.TrimSpace(input.VendorName),
		VendorContact:      strings.TrimSpace(input.VendorContact),
		VendorDescription:  strings.TrimSpace(input.VendorDescription),
		LicenseName:        strings.TrimSpace(input.LicenseName),
		LicenseDescription: strings.TrimSpace(input.LicenseDescription),
	}
	if err := s.workOrders.Create(ctx, workOrder); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventWorkOrderCreated,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload:  events.WorkOrderCreatedPayload{WorkOrderID: workOrder.ID, Type: workOrder.Type},
	})
	return workOrder, nil
}

// List returns work orders for procurement admins, with pagination total.
func (s *WorkOrderService) List(ctx context.Context, actor workflow.Actor, filter repository.WorkOrderFilter) ([]domain.WorkOrder, int, error) {
	switch actor.Role {
	case domain.RoleAdminPenyedia, domain.RoleAdminLayanan, domain.RoleSuperAdmin:
	default:
		return nil, 0, apperrors.NewForbidden("procurement role required")
	}
	return s.workOrders.ListWithFilter(ctx, filter)
}

// Get returns one work order.
func (s *WorkOrderService) Get(ctx context.Context, actor workflow.Actor, id string) (*domain.WorkOrder, error) {
	workOrder, err := s.workOrders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("work order", nil)
		}
		return nil, err
	}
	return workOrder, nil
}

// UpdateStatus transitions a work order, enforcing monotonicity and the
// type-conditional payload preconditions.
func (s *WorkOrderService) UpdateStatus(ctx context.Context, actor workflow.Actor, id string, input WorkOrderUpdateInput) (*domain.WorkOrder, error) {
	if actor.Role != domain.RoleAdminPenyedia {
		return nil, apperrors.NewForbidden("procurement admin required")
	}
	workOrder, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	// Validate against post-merge values: vendor info may arrive in the same
	// request as the status change.
	vendorName := workOrder.VendorName
	if input.VendorName != nil {
		vendorName = strings.TrimSpace(*input.VendorName)
	}
	vendorContact := workOrder.VendorContact
	if input.VendorContact != nil {
		vendorContact = strings.TrimSpace(*input.VendorContact)
	}
	update := workflow.WorkOrderUpdate{
		Status:          input.Status,
		VendorName:      vendorName,
		VendorContact:   vendorContact,
		CompletionNotes: strings.TrimSpace(input.CompletionNotes),
		FailureReason:   strings.TrimSpace(input.FailureReason),
	}
	if err := workflow.ValidateWorkOrderUpdate(workOrder, update); err != nil {
		return nil, err
	}

	oldStatus := workOrder.Status
	workOrder.Status = input.Status
	workOrder.VendorName = vendorName
	workOrder.VendorContact = vendorContact
	if input.Status == domain.WorkOrderStatusCompleted {
		workOrder.CompletionNotes = update.CompletionNotes
	}
	if input.Status == domain.WorkOrderStatusUnsuccessful {
		workOrder.FailureReason = update.FailureReason
	}
	if err := s.workOrders.Update(ctx, workOrder); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventWorkOrderStatusChanged,
		TicketID: workOrder.TicketID,
		Actor:    eventActor(actor),
		Payload: events.WorkOrderStatusChangedPayload{
			WorkOrderID: workOrder.ID,
			OldStatus:   oldStatus,
			NewStatus:   workOrder.Status,
		},
	})
	return workOrder, nil
}

func (s *WorkOrderService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
