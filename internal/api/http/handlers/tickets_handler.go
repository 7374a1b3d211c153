package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sigap-ti/sigap/internal/api/dto"
	"github.com/sigap-ti/sigap/internal/auth"
	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/service"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

// TicketsHandler manages repair ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), principal.Actor(), service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		AssetCode:   req.AssetCode,
		AssetNup:    req.AssetNup,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.UserContext(), principal.Actor(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	detail, err := h.service.GetTicket(c.UserContext(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// Approve POST /tickets/:id/approve.
func (h *TicketsHandler) Approve(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ApproveTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.TechnicianID) == "" {
		return apperrors.NewValidationError("technician_id required", nil)
	}
	ticket, err := h.service.Approve(c.UserContext(), principal.Actor(), c.Params("id"), req.TechnicianID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Reject POST /tickets/:id/reject.
func (h *TicketsHandler) Reject(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.RejectTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Reject(c.UserContext(), principal.Actor(), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseRepairStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), principal.Actor(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Diagnose POST /tickets/:id/diagnosis.
func (h *TicketsHandler) Diagnose(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.DiagnosisRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	repairType, err := domain.ParseRepairType(req.RepairType)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	diagnosis, err := h.service.Diagnose(c.UserContext(), principal.Actor(), c.Params("id"), service.DiagnosisInput{
		ProblemCategory:    req.ProblemCategory,
		ProblemDescription: req.ProblemDescription,
		TechnicianNotes:    req.TechnicianNotes,
		RepairType:         repairType,
		UnrepairableReason: req.UnrepairableReason,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": diagnosisResponse(diagnosis)})
}

// MarkComplete POST /tickets/:id/complete.
func (h *TicketsHandler) MarkComplete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.service.MarkComplete(c.UserContext(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// Close POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.service.Close(c.UserContext(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

func parseTicketQuery(c *fiber.Ctx) (service.TicketListFilter, error) {
	filter := service.TicketListFilter{
		Limit:  50,
		Offset: 0,
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := domain.ParseRepairStatus(part)
			if err != nil {
				return filter, apperrors.NewValidationError(err.Error(), nil)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		filter.SearchTerm = &search
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			filter.Limit = n
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			filter.Offset = n
		}
	}
	return filter, nil
}

func ticketSummary(ticket *domain.RepairTicket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		UserID:       ticket.UserID,
		AssignedTo:   ticket.AssignedTo,
		Title:        ticket.Title,
		Status:       ticket.Status,
		CreatedAt:    ticket.CreatedAt,
		UpdatedAt:    ticket.UpdatedAt,
	}
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	ticket := detail.Ticket
	resp := dto.TicketDetailResponse{
		ID:              ticket.ID,
		TicketNumber:    ticket.TicketNumber,
		UserID:          ticket.UserID,
		AssignedTo:      ticket.AssignedTo,
		Title:           ticket.Title,
		Description:     ticket.Description,
		AssetCode:       ticket.AssetCode,
		AssetNup:        ticket.AssetNup,
		Status:          ticket.Status,
		RejectionReason: ticket.RejectionReason,
		WorkOrdersReady: ticket.WorkOrdersReady,
		WorkOrders:      make([]dto.WorkOrderResponse, 0, len(detail.WorkOrders)),
		Decision:        dto.NewDecisionResponse(detail.Decision),
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
	if ticket.Diagnosis != nil {
		diag := diagnosisResponse(ticket.Diagnosis)
		resp.Diagnosis = &diag
	}
	for i := range detail.WorkOrders {
		resp.WorkOrders = append(resp.WorkOrders, workOrderResponse(&detail.WorkOrders[i]))
	}
	return resp
}

func diagnosisResponse(diagnosis *domain.Diagnosis) dto.DiagnosisResponse {
	return dto.DiagnosisResponse{
		ProblemCategory:    diagnosis.ProblemCategory,
		ProblemDescription: diagnosis.ProblemDescription,
		TechnicianNotes:    diagnosis.TechnicianNotes,
		RepairType:         diagnosis.RepairType,
		UnrepairableReason: diagnosis.UnrepairableReason,
		UpdatedAt:          diagnosis.UpdatedAt,
	}
}
