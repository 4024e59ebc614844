package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-it/helpdesk/internal/api/dto"
	"github.com/campus-it/helpdesk/internal/service"
	apperrors "github.com/campus-it/helpdesk/pkg/util/errorutil"
)

// AdminHandler exposes technician-only account administration.
type AdminHandler struct {
	admin *service.UserAdminService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(adminService *service.UserAdminService) *AdminHandler {
	return &AdminHandler{admin: adminService}
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	input := service.UserListInput{
		Query:  c.Query("q"),
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}

	users, total, err := h.admin.ListUsers(c.UserContext(), input)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": dto.UserListResponse{Users: items, Total: total}})
}

// EditUserRole PATCH /admin/users/:id/role.
func (h *AdminHandler) EditUserRole(c *fiber.Ctx) error {
	var req dto.EditUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.admin.EditUserRole(c.UserContext(), c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteUser DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.admin.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// ResetUserPassword POST /admin/users/:id/password/reset.
func (h *AdminHandler) ResetUserPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.admin.ResetUserPassword(c.UserContext(), c.Params("id"), req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reset": true}})
}
