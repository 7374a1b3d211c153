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

// TicketService coordinates the repair ticket lifecycle. Every mutation is
// gated by the workflow model against a fresh snapshot, so the state machine
// the clients see advisory results from is the one enforced here.
type TicketService struct {
	tickets    repository.TicketRepository
	diagnoses  repository.DiagnosisRepository
	workOrders repository.WorkOrderRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo    repository.TicketRepository
	DiagnosisRepo repository.DiagnosisRepository
	WorkOrderRepo repository.WorkOrderRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		diagnoses:  deps.DiagnosisRepo,
		workOrders: deps.WorkOrderRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	AssetCode   string
	AssetNup    string
}

// TicketListFilter describes listing filters; role scoping is applied on top.
type TicketListFilter struct {
	Statuses   []domain.RepairStatus
	SearchTerm *string
	Limit      int
	Offset     int
}

// TicketDetail is the full read model for one ticket: the snapshot, its work
// orders, and the caller's workflow decision over that snapshot.
type TicketDetail struct {
	Ticket     *domain.RepairTicket
	WorkOrders []domain.WorkOrder
	Decision   workflow.Decision
}

// DiagnosisInput describes a technician's verdict submission.
type DiagnosisInput struct {
	ProblemCategory    string
	ProblemDescription string
	TechnicianNotes    string
	RepairType         domain.RepairType
	UnrepairableReason string
}

// CreateTicket files a repair request for the calling employee.
func (s *TicketService) CreateTicket(ctx context.Context, actor workflow.Actor, input TicketCreateInput) (*domain.RepairTicket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	ticket := &domain.RepairTicket{
		TicketNumber: generateTicketNumber("PRB"),
		UserID:       actor.UserID,
		Title:        title,
		Description:  description,
		AssetCode:    strings.TrimSpace(input.AssetCode),
		AssetNup:     strings.TrimSpace(input.AssetNup),
		Status:       domain.RepairStatusSubmitted,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			Title:        ticket.Title,
			AssetCode:    ticket.AssetCode,
		},
	})
	return ticket, nil
}

// ListTickets returns tickets visible to the caller: employees see their own,
// technicians see their assignments, service admins see everything.
func (s *TicketService) ListTickets(ctx context.Context, actor workflow.Actor, filter TicketListFilter) ([]domain.RepairTicket, error) {
	repoFilter := repository.TicketFilter{
		Statuses:   filter.Statuses,
		SearchTerm: filter.SearchTerm,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	switch actor.Role {
	case domain.RolePegawai:
		repoFilter.UserID = &actor.UserID
	case domain.RoleTeknisi:
		repoFilter.AssignedTo = &actor.UserID
	case domain.RoleAdminLayanan, domain.RoleAdminPenyedia, domain.RoleSuperAdmin:
	default:
		return nil, apperrors.NewForbidden("role cannot list tickets")
	}
	return s.tickets.ListWithFilter(ctx, repoFilter)
}

// GetTicket returns the full detail for a ticket the caller may see, along
// with the caller's allowed actions over the fetched snapshot.
func (s *TicketService) GetTicket(ctx context.Context, actor workflow.Actor, ticketID string) (*TicketDetail, error) {
	ticket, workOrders, err := s.loadSnapshot(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !canViewTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("access denied")
	}
	decision, err := workflow.Evaluate(ticket, workOrders, actor)
	if err != nil {
		return nil, err
	}
	return &TicketDetail{Ticket: ticket, WorkOrders: workOrders, Decision: decision}, nil
}

// Approve accepts a submitted ticket and assigns a technician.
func (s *TicketService) Approve(ctx context.Context, actor workflow.Actor, ticketID, technicianID string) (*domain.RepairTicket, error) {
	ticket, workOrders, err := s.loadSnapshot(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ticket, workOrders, actor, workflow.ActionApprove); err != nil {
		return nil, err
	}

	technician, err := s.users.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", nil)
		}
		return nil, err
	}
	if !technician.HasRole(domain.RoleTeknisi) || !technician.IsActive {
		return nil, apperrors.NewValidationError("assignee must be an active technician", nil)
	}

	oldStatus := ticket.Status
	ticket.Status = domain.RepairStatusAssigned
	ticket.AssignedTo = &technician.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload:  events.TicketAssignedPayload{TechnicianID: technician.ID},
	})
	s.publishStatusChange(ctx, actor, ticket, oldStatus, "approved")
	return ticket, nil
}

// Reject declines a submitted ticket.
func (s *TicketService) Reject(ctx context.Context, actor workflow.Actor, ticketID, reason string) (*domain.RepairTicket, error) {
	ticket, workOrders, err := s.loadSnapshot(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ticket, workOrders, actor, workflow.ActionReject); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = domain.RepairStatusRejected
	ticket.RejectionReason = strings.TrimSpace(reason)
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, actor, ticket, oldStatus, "rejected")
	return ticket, nil
}

// UpdateStatus lets the assigned technician move work between in_progress and
// on_hold. Completion and closing have dedicated entry points.
func (s *TicketService) UpdateStatus(ctx context.Context, actor workflow.Actor, ticketID string, next domain.RepairStatus) (*domain.RepairTicket, error) {
	if next != domain.RepairStatusInProgress && next != domain.RepairStatusOnHold {
		return nil, &workflow.InvalidTransitionError{Entity: "ticket", From: "", To: string(next)}
	}
	ticket, _, err := s.loadSnapshot(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleTeknisi || !ticket.IsAssignee(actor.UserID) {
		return nil, apperrors.NewForbidden("assigned technician required")
	}
	if err := workflow.ValidateRepairTransition(ticket.Status, next); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = next
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishStatusChange(ctx, actor, ticket, oldStatus, "")
	return ticket, nil
}

// Diagnose records or replaces the technician's verdict for a ticket.
func (s *TicketService) Diagnose(ctx context.Context, actor workflow.Actor, ticketID string, input DiagnosisInput) (*domain.Diagnosis, error) {
	ticket, workOrders, err := s.loadSnapshot(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ticket, workOrders, actor, workflow.ActionDiagnose); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ProblemCategory) == "" || strings.TrimSpace(input.ProblemDescription) == "" {
		return nil, apperrors.NewValidationError("problem category and description required", nil)
	}
	if _, err := domain.ParseRepairType(string(input.RepairType)); err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}

	redo := ticket.Diagnosis != nil
	diagnosis := &domain.Diagnosis{
		TicketID:           ticket.ID,
		ProblemCategory:    strings.TrimSpace(input.ProblemCategory),
		ProblemDescription: strings.TrimSpace(input.ProblemDescription),
		TechnicianNotes:    strings.TrimSpace(input.TechnicianNotes),
		RepairType:         input.RepairType,
		UnrepairableReason: strings.TrimSpace(input.UnrepairableReason),
	}
	if err := s.diagnoses.Upsert(ctx, diagnosis); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDiagnosed,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload:  events.TicketDiagnosedPayload{RepairType: diagnosis.RepairType, Redo: redo},
	})
	return diagnosis, nil
}

// MarkComplete moves a ticket to waiting_for_submitter once the completion
// predicate holds.
func (s *TicketService) MarkComplete(ctx context.Context, actor workflow.Actor, ticketID string) (*domain.RepairTicket, error) {
	ticket, workOrders, err := s.loadSnapshot(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	decision, err := workflow.Evaluate(ticket, workOrders, actor)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed.Has(workflow.ActionMarkComplete) {
		if actor.Role != domain.RoleTeknisi || !ticket.IsAssignee(actor.UserID) {
			return nil, apperrors.NewForbidden("assigned technician required")
		}
		return nil, apperrors.NewInvalidTransition("ticket cannot be completed", map[string]any{
			"reason": decision.BlockingReason,
		})
	}

	oldStatus := ticket.Status
	ticket.Status = domain.RepairStatusWaitingForSubmitter
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	comment := "completed"
	if decision.IsUnrepairable {
		comment = "completed_unrepairable"
	}
	s.publishStatusChange(ctx, actor, ticket, oldStatus, comment)
	return ticket, nil
}

// Close finalizes a ticket: the submitter confirms at waiting_for_submitter,
// or a service admin closes from any non-terminal state.
func (s *TicketService) Close(ctx context.Context, actor workflow.Actor, ticketID string) (*domain.RepairTicket, error) {
	ticket, workOrders, err := s.loadSnapshot(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ticket, workOrders, actor, workflow.ActionClose); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	ticket.Status = domain.RepairStatusClosed
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	comment := "closed_by_submitter"
	if actor.Role == domain.RoleAdminLayanan {
		comment = "closed_by_admin"
	}
	s.publishStatusChange(ctx, actor, ticket, oldStatus, comment)
	return ticket, nil
}

// authorize re-derives the caller's allowed actions against a fresh snapshot
// and rejects anything outside the set. Ownership/role mismatches surface as
// forbidden; everything else is an illegal transition.
func (s *TicketService) authorize(ticket *domain.RepairTicket, workOrders []domain.WorkOrder, actor workflow.Actor, action workflow.Action) error {
	decision, err := workflow.Evaluate(ticket, workOrders, actor)
	if err != nil {
		return err
	}
	if decision.Allowed.Has(action) {
		return nil
	}
	if !canActOnTicket(actor, ticket) {
		return apperrors.NewForbidden("access denied")
	}
	return &workflow.InvalidTransitionError{
		Entity: "ticket",
		From:   string(ticket.Status),
		To:     string(action),
	}
}

func (s *TicketService) loadSnapshot(ctx context.Context, ticketID string) (*domain.RepairTicket, []domain.WorkOrder, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, nil, err
	}
	diagnosis, err := s.diagnoses.GetByTicket(ctx, ticketID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}
	ticket.Diagnosis = diagnosis
	workOrders, err := s.workOrders.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, workOrders, nil
}

func canViewTicket(actor workflow.Actor, ticket *domain.RepairTicket) bool {
	switch actor.Role {
	case domain.RoleAdminLayanan, domain.RoleAdminPenyedia, domain.RoleSuperAdmin:
		return true
	case domain.RoleTeknisi:
		return ticket.IsAssignee(actor.UserID)
	case domain.RolePegawai:
		return ticket.UserID == actor.UserID
	}
	return false
}

func canActOnTicket(actor workflow.Actor, ticket *domain.RepairTicket) bool {
	switch actor.Role {
	case domain.RoleAdminLayanan:
		return true
	case domain.RoleTeknisi:
		return ticket.IsAssignee(actor.UserID)
	case domain.RolePegawai:
		return ticket.UserID == actor.UserID
	}
	return false
}

func (s *TicketService) publishStatusChange(ctx context.Context, actor workflow.Actor, ticket *domain.RepairTicket, oldStatus domain.RepairStatus, comment string) {
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			Comment:   comment,
		},
	})
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
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

func eventActor(actor workflow.Actor) events.Actor {
	return events.Actor{UserID: actor.UserID, Role: actor.Role}
}

func generateTicketNumber(prefix string) string {
	return prefix + "-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
