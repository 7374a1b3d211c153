package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sigap-ti/sigap/internal/service"
)

// VisitorsHandler exposes the landing-page visit counter.
type VisitorsHandler struct {
	service *service.VisitorService
}

// NewVisitorsHandler constructs handler.
func NewVisitorsHandler(visitorService *service.VisitorService) *VisitorsHandler {
	return &VisitorsHandler{service: visitorService}
}

// RecordVisit POST /visitors.
func (h *VisitorsHandler) RecordVisit(c *fiber.Ctx) error {
	total, err := h.service.RecordVisit(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"total": total}})
}

// Total GET /visitors.
func (h *VisitorsHandler) Total(c *fiber.Ctx) error {
	total, err := h.service.Total(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"total": total}})
}
