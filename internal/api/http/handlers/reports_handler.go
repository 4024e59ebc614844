package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-it/helpdesk/internal/service"
)

// ReportsHandler exposes aggregated ticket reporting.
type ReportsHandler struct {
	tickets *service.TicketService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(ticketService *service.TicketService) *ReportsHandler {
	return &ReportsHandler{tickets: ticketService}
}

// Weekly GET /reports/tickets/weekly.
func (h *ReportsHandler) Weekly(c *fiber.Ctx) error {
	buckets, err := h.tickets.WeeklyReport(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": buckets})
}
