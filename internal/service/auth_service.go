package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/campus-it/helpdesk/internal/auth"
	"github.com/campus-it/helpdesk/internal/config"
	"github.com/campus-it/helpdesk/internal/domain"
	"github.com/campus-it/helpdesk/internal/repository"
	apperrors "github.com/campus-it/helpdesk/pkg/util/errorutil"
)

const uniqueViolationCode = "23505"

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	revoker    auth.SessionRevoker
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Revoker  auth.SessionRevoker
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		revoker:    deps.Revoker,
		tokenMgr:   auth.NewTokenManager(cfg.SessionSecret, cfg.SessionTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		logger:     deps.Logger,
	}
}

// Register creates a new account with a freshly salted password hash. The
// plaintext is never stored or logged.
func (s *AuthService) Register(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": string(role)})
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewDuplicateUsername(username)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// the unique constraint backs the pre-check against races
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.NewDuplicateUsername(username)
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates by case-sensitive username lookup and bcrypt compare.
// Unknown username and wrong password produce the same failure.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, time.Time, error) {
	if username == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.Username, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout revokes the session token for its remaining lifetime. Revocation
// is best-effort; when the denylist is unreachable the client-side token
// discard still ends the session from the user's point of view.
func (s *AuthService) Logout(ctx context.Context, principal *auth.Principal) error {
	if principal == nil || s.revoker == nil {
		return nil
	}
	ttl := time.Until(principal.ExpiresAt)
	if err := s.revoker.Revoke(ctx, principal.TokenID, ttl); err != nil {
		s.logger.Warn("session revocation failed", zap.Error(err))
	}
	return nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if newPassword == "" {
		return apperrors.NewValidationError("new password required", nil)
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}
