package dto

import "github.com/campus-it/helpdesk/internal/domain"

// EditUserRoleRequest payload.
type EditUserRoleRequest struct {
	Role domain.Role `json:"role"`
}

// ResetPasswordRequest payload for the technician-driven reset.
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// UserListResponse is a page of accounts with the total matching count.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int            `json:"total"`
}
