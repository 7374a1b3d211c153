package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sigap-ti/sigap/internal/api/dto"
	"github.com/sigap-ti/sigap/internal/auth"
	"github.com/sigap-ti/sigap/internal/domain"
	"github.com/sigap-ti/sigap/internal/repository"
	"github.com/sigap-ti/sigap/internal/service"
	apperrors "github.com/sigap-ti/sigap/pkg/util"
)

// WorkOrdersHandler manages procurement work order endpoints.
type WorkOrdersHandler struct {
	service *service.WorkOrderService
}

// NewWorkOrdersHandler constructs handler.
func NewWorkOrdersHandler(workOrderService *service.WorkOrderService) *WorkOrdersHandler {
	return &WorkOrdersHandler{service: workOrderService}
}

// Create POST /tickets/:id/work-orders.
func (h *WorkOrdersHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	workOrderType, err := domain.ParseWorkOrderType(req.Type)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	items := make([]domain.WorkOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" || item.Quantity <= 0 {
			return apperrors.NewValidationError("each item needs a name and a positive quantity", nil)
		}
		items = append(items, domain.WorkOrderItem{Name: strings.TrimSpace(item.Name), Quantity: item.Quantity})
	}
	workOrder, err := h.service.Create(c.UserContext(), principal.Actor(), c.Params("id"), service.WorkOrderCreateInput{
		Type:               workOrderType,
		Items:              items,
		VendorName:         req.VendorName,
		VendorContact:      req.VendorContact,
		VendorDescription:  req.VendorDescription,
		LicenseName:        req.LicenseName,
		LicenseDescription: req.LicenseDescription,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": workOrderResponse(workOrder)})
}

// List GET /work-orders.
func (h *WorkOrdersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	filter, err := parseWorkOrderQuery(c)
	if err != nil {
		return err
	}
	workOrders, total, err := h.service.List(c.UserContext(), principal.Actor(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.WorkOrderResponse, 0, len(workOrders))
	for i := range workOrders {
		items = append(items, workOrderResponse(&workOrders[i]))
	}
	return c.JSON(fiber.Map{"data": dto.WorkOrderListResponse{Items: items, Total: total}})
}

// Get GET /work-orders/:id.
func (h *WorkOrdersHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	workOrder, err := h.service.Get(c.UserContext(), principal.Actor(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderResponse(workOrder)})
}

// UpdateStatus PATCH /work-orders/:id/status.
func (h *WorkOrdersHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateWorkOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, err := domain.ParseWorkOrderStatus(req.Status)
	if err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	workOrder, err := h.service.UpdateStatus(c.UserContext(), principal.Actor(), c.Params("id"), service.WorkOrderUpdateInput{
		Status:          status,
		VendorName:      req.VendorName,
		VendorContact:   req.VendorContact,
		CompletionNotes: req.CompletionNotes,
		FailureReason:   req.FailureReason,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workOrderResponse(workOrder)})
}

func parseWorkOrderQuery(c *fiber.Ctx) (repository.WorkOrderFilter, error) {
	filter := repository.WorkOrderFilter{Limit: 50}
	if raw := strings.TrimSpace(c.Query("ticket_id")); raw != "" {
		filter.TicketID = &raw
	}
	if raw := c.Query("type"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			workOrderType, err := domain.ParseWorkOrderType(part)
			if err != nil {
				return filter, apperrors.NewValidationError(err.Error(), nil)
			}
			filter.Types = append(filter.Types, workOrderType)
		}
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := domain.ParseWorkOrderStatus(part)
			if err != nil {
				return filter, apperrors.NewValidationError(err.Error(), nil)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
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

func workOrderResponse(workOrder *domain.WorkOrder) dto.WorkOrderResponse {
	items := make([]dto.WorkOrderItemPayload, 0, len(workOrder.Items))
	for _, item := range workOrder.Items {
		items = append(items, dto.WorkOrderItemPayload{Name: item.Name, Quantity: item.Quantity})
	}
	return dto.WorkOrderResponse{
		ID:                 workOrder.ID,
		TicketID:           workOrder.TicketID,
		Type:               workOrder.Type,
		Status:             workOrder.Status,
		Items:              items,
		VendorName:         workOrder.VendorName,
		VendorContact:      workOrder.VendorContact,
		VendorDescription:  workOrder.VendorDescription,
		LicenseName:        workOrder.LicenseName,
		LicenseDescription: workOrder.LicenseDescription,
		CompletionNotes:    workOrder.CompletionNotes,
		FailureReason:      workOrder.FailureReason,
		CreatedAt:          workOrder.CreatedAt,
		UpdatedAt:          workOrder.UpdatedAt,
	}
}
