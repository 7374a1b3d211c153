package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sigap-ti/sigap/internal/api/dto"
	"github.com/sigap-ti/sigap/internal/auth"
	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/repository"
	"github.com/sigap-ti/sigap/internal/service"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

const dateLayout = "2006-01-02"

// ZoomTicketsHandler manages meeting-room booking endpoints.
type ZoomTicketsHandler struct {
	service *service.ZoomService
}

// NewZoomTicketsHandler constructs handler.
func NewZoomTicketsHandler(zoomService *service.ZoomService) *ZoomTicketsHandler {
	return &ZoomTicketsHandler{service: zoomService}
}

// Create POST /zoom-tickets.
func (h *ZoomTicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateZoomTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return apperrors.NewValidationError("date must be YYYY-MM-DD", nil)
	}
	ticket, err := h.service.CreateBooking(c.UserContext(), principal.Actor(), service.ZoomBookingInput{
		MeetingTitle: req.MeetingTitle,
		Date:         date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Participants: req.Participants,
		ZoomAccount:  req.ZoomAccount,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": zoomTicketResponse(ticket)})
}

// List GET /zoom-tickets.
func (h *ZoomTicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter := repository.ZoomTicketFilter{Limit: 50}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return apperrors.NewValidationError("date must be YYYY-MM-DD", nil)
		}
		filter.Date = &date
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := domain.ParseZoomStatus(part)
			if err != nil {
				return apperrors.NewValidationError(err.Error(), nil)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	tickets, err := h.service.List(c.UserContext(), principal.Actor(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ZoomTicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, zoomTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /zoom-tickets/:id.
func (h *ZoomTicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, decision, err := h.service.Get(c.UserContext(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"ticket":   zoomTicketResponse(ticket),
		"decision": dto.NewDecisionResponse(decision),
	}})
}

// Review POST /zoom-tickets/:id/review.
func (h *ZoomTicketsHandler) Review(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ReviewZoomTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseZoomStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	ticket, err := h.service.Review(c.UserContext(), principal.Actor(), c.Params("id"), status, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": zoomTicketResponse(ticket)})
}

// DailySchedule GET /zoom-tickets/schedule.
func (h *ZoomTicketsHandler) DailySchedule(c *fiber.Ctx) error {
	account := strings.TrimSpace(c.Query("account"))
	if account == "" {
		return apperrors.NewValidationError("account required", nil)
	}
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		return apperrors.NewValidationError("date must be YYYY-MM-DD", nil)
	}
	tickets, err := h.service.DailySchedule(c.UserContext(), account, date)
	if err != nil {
		return err
	}
	items := make([]dto.ZoomTicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, zoomTicketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func zoomTicketResponse(ticket *domain.ZoomTicket) dto.ZoomTicketResponse {
	return dto.ZoomTicketResponse{
		ID:              ticket.ID,
		TicketNumber:    ticket.TicketNumber,
		UserID:          ticket.UserID,
		MeetingTitle:    ticket.MeetingTitle,
		Date:            ticket.Date.Format(dateLayout),
		StartTime:       ticket.StartTime,
		EndTime:         ticket.EndTime,
		Participants:    ticket.Participants,
		ZoomAccount:     ticket.ZoomAccount,
		Status:          ticket.Status,
		RejectionReason: ticket.RejectionReason,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
	}
}
