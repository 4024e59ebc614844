package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/campus-it/helpdesk/internal/domain"
	apperrors "github.com/campus-it/helpdesk/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and attaches the session identity.
// It deliberately does not reload the user from storage: the (username,
// role) snapshot from login stands until logout or expiry.
type AuthMiddleware struct {
	tokens  *TokenManager
	revoker SessionRevoker
	logger  *zap.Logger
}

// NewAuthMiddleware constructs middleware. revoker may be nil, in which case
// logout-based revocation is not enforced.
func NewAuthMiddleware(tokens *TokenManager, revoker SessionRevoker, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revoker: revoker, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.revoker != nil {
		revoked, err := m.revoker.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			m.logger.Warn("revocation check failed", zap.Error(err))
		} else if revoked {
			return apperrors.NewUnauthorized("session terminated")
		}
	}

	principal := &Principal{
		Username:  claims.Username,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated session identity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequireAuthenticated ensures a session identity is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := Authorize(principal); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireRole ensures the session holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := Authorize(principal, allowed...); err != nil {
			return err
		}
		return c.Next()
	}
}
