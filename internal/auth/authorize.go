package auth

import (
	"time"

	"github.com/campus-it/helpdesk/internal/domain"
	apperrors "github.com/campus-it/helpdesk/pkg/util/errorutil"
)

// Principal is the authenticated session identity attached to a request.
type Principal struct {
	Username  string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// Authorize is the pure authorization decision. A nil principal means the
// caller is not authenticated. When required roles are given the principal
// must hold one of them. It has no side effects; callers reject or redirect
// on the returned error.
func Authorize(principal *Principal, required ...domain.Role) error {
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if len(required) == 0 {
		return nil
	}
	for _, role := range required {
		if principal.Role == role {
			return nil
		}
	}
	return apperrors.NewForbidden("insufficient role")
}
