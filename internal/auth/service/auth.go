package service

import (
	"context"
	"time"

	"github.com/hourbook/hourbook-backend/internal/auth/jwt"
	"github.com/hourbook/hourbook-backend/internal/user/repository"
	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/logger"
)

// Users is the account access authentication needs
type Users interface {
	ValidateCredentials(ctx context.Context, username, password string) (*repository.User, error)
	GetByID(ctx context.Context, id int64) (*repository.User, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=72"`
}

// ChangePasswordRequest represents a change of the caller's own password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"token_type"`
	ExpiresAt time.Time        `json:"expires_at"`
	User      *repository.User `json:"user"`
}

// AuthService handles authentication logic
type AuthService struct {
	users    Users
	tokens   *jwt.Manager
	logger   *logger.Logger
	security *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users Users, tokens *jwt.Manager, log *logger.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		logger:   log,
		security: log.Security(),
	}
}

// Login authenticates a user and returns a signed token
func (s *AuthService) Login(ctx context.Context, req *LoginRequest, ipAddress string) (*LoginResponse, error) {
	user, err := s.users.ValidateCredentials(ctx, req.Username, req.Password)
	if err != nil {
		s.security.Warn().
			Str("username", req.Username).
			Str("ip", ipAddress).
			Msg("failed login attempt")
		return nil, err
	}

	token, expiresAt, err := s.tokens.Generate(jwt.Subject{
		ID:         user.ID,
		Username:   user.Username,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to sign token")
		return nil, errors.Internal("")
	}

	s.security.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Str("ip", ipAddress).
		Msg("successful login")

	return &LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Authenticate resolves a bearer token to the acting user. The account
// is reloaded so deleted users and changed roles take effect immediately.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*actor.Actor, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, errors.ErrNotFound) {
		return nil, errors.Unauthorized("")
	}
	if err != nil {
		return nil, err
	}

	return &actor.Actor{
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
	}, nil
}

// Me returns the authenticated user's account
func (s *AuthService) Me(ctx context.Context) (*repository.User, error) {
	a := actor.FromContext(ctx)
	if a == nil {
		return nil, errors.Unauthorized("")
	}
	return s.users.GetByID(ctx, a.UserID)
}

// Logout records the logout. Tokens are stateless and discarded by the client.
func (s *AuthService) Logout(ctx context.Context) {
	if a := actor.FromContext(ctx); a != nil {
		s.security.Info().Int64("user_id", a.UserID).Str("username", a.Username).Msg("logout")
	}
}

// ChangePassword changes the authenticated user's own password
func (s *AuthService) ChangePassword(ctx context.Context, req *ChangePasswordRequest) error {
	a := actor.FromContext(ctx)
	if a == nil {
		return errors.Unauthorized("")
	}
	return s.users.ChangePassword(ctx, a.UserID, req.CurrentPassword, req.NewPassword)
}
