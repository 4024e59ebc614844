package service

import (
	"context"
	"strings"

	"github.com/campus-it/helpdesk/internal/auth"
	"github.com/campus-it/helpdesk/internal/domain"
	"github.com/campus-it/helpdesk/internal/repository"
	apperrors "github.com/campus-it/helpdesk/pkg/util/errorutil"
)

// UserAdminService backs the technician-only account administration
// operations. Role edits and deletions do not touch sessions issued before
// the change; those keep their login-time snapshot until expiry or logout.
type UserAdminService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserAdminService builds the service.
func NewUserAdminService(users repository.UserRepository, bcryptCost int) *UserAdminService {
	return &UserAdminService{users: users, bcryptCost: bcryptCost}
}

// UserListInput describes listing parameters.
type UserListInput struct {
	Query  string
	Limit  int
	Offset int
}

// ListUsers returns a page of accounts, optionally filtered by username
// substring, with the total matching count for pagination.
func (s *UserAdminService) ListUsers(ctx context.Context, input UserListInput) ([]domain.User, int, error) {
	filter := repository.UserFilter{
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if q := strings.TrimSpace(input.Query); q != "" {
		filter.Query = &q
	}
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// EditUserRole is the only path by which a role changes.
func (s *UserAdminService) EditUserRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account. Tickets keep the owning username; there
// is no soft delete.
func (s *UserAdminService) DeleteUser(ctx context.Context, userID string) error {
	return s.users.Delete(ctx, userID)
}

// ResetUserPassword stores a new hash without requiring the old password.
func (s *UserAdminService) ResetUserPassword(ctx context.Context, userID, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("new password required", nil)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}
