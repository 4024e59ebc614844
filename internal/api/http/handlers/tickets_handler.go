package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-it/helpdesk/internal/api/dto"
	"github.com/campus-it/helpdesk/internal/auth"
	"github.com/campus-it/helpdesk/internal/domain"
	"github.com/campus-it/helpdesk/internal/service"
	apperrors "github.com/campus-it/helpdesk/pkg/util/errorutil"
)

// TicketsHandler manages ticket endpoints for both roles.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Title:         req.Title,
		Category:      req.Category,
		Description:   req.Description,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		AttachmentRef: req.AttachmentRef,
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), principal.Username, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	input := service.TicketListInput{}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.TicketStatus(statusStr)
		input.Status = &status
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	input.Offset = (page - 1) * pageSize
	input.Limit = pageSize

	tickets, err := h.service.ListTickets(c.UserContext(), principal.Username, principal.Role, input)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.GetTicket(c.UserContext(), principal.Username, principal.Role, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.UserContext(), principal.Username, c.Params("id"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// ChangeStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.ChangeStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.service.ChangeStatus(c.UserContext(), principal.Username, c.Params("id"), req.Status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": req.Status}})
}

// Close POST /tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.CloseTicket(c.UserContext(), principal.Username, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": domain.TicketStatusClosed}})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	comments := make([]dto.CommentResponse, 0, len(ticket.Comments))
	for i := range ticket.Comments {
		comments = append(comments, commentResponse(&ticket.Comments[i]))
	}
	return dto.TicketResponse{
		ID:            ticket.ID,
		OwnerUsername: ticket.OwnerUsername,
		Title:         ticket.Title,
		Category:      ticket.Category,
		Description:   ticket.Description,
		ContactEmail:  ticket.ContactEmail,
		ContactPhone:  ticket.ContactPhone,
		AttachmentRef: ticket.AttachmentRef,
		Status:        ticket.Status,
		CreatedAt:     ticket.CreatedAt,
		Comments:      comments,
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         comment.ID,
		Technician: comment.Technician,
		Body:       comment.Body,
		CreatedAt:  comment.CreatedAt,
	}
}
