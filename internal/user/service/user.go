package service

import (
	"context"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/hourbook/hourbook-backend/internal/events"
	"github.com/hourbook/hourbook-backend/internal/user/repository"
	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/i18n"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/messaging"
	"github.com/hourbook/hourbook-backend/pkg/permissions"
)

// Store is the user persistence used by the service
type Store interface {
	Create(ctx context.Context, user *repository.User) error
	GetByID(ctx context.Context, id int64) (*repository.User, error)
	GetByUsername(ctx context.Context, username string) (*repository.User, error)
	List(ctx context.Context, skip, limit int) ([]*repository.User, int64, error)
	Update(ctx context.Context, user *repository.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role string) (int64, error)
}

// EmployeeChecker confirms an employee exists
type EmployeeChecker interface {
	EnsureExists(ctx context.Context, employeeID int64) error
}

// CreateUserInput carries a new account
type CreateUserInput struct {
	Username   string
	Password   string
	Role       string
	EmployeeID *int64
}

// UpdateUserInput carries account changes. A nil Role keeps the current role.
// EmployeeID replaces the link when set; ClearEmployee removes it.
type UpdateUserInput struct {
	Role          *string
	EmployeeID    *int64
	ClearEmployee bool
}

// dummyHash is compared against when the username is unknown so that a
// failed lookup costs the same as a wrong password.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("hourbook-timing"), bcrypt.DefaultCost)

// UserService handles user account business logic
type UserService struct {
	store     Store
	employees EmployeeChecker
	events    *events.Publisher
	logger    *logger.Logger
	security  *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(store Store, employees EmployeeChecker, publisher *events.Publisher, log *logger.Logger) *UserService {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &UserService{
		store:     store,
		employees: employees,
		events:    publisher,
		logger:    log,
		security:  log.Security(),
	}
}

// List lists user accounts (admin only)
func (s *UserService) List(ctx context.Context, skip, limit int) ([]*repository.User, int64, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, skip, limit)
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*repository.User, error) {
	return s.store.GetByID(ctx, id)
}

// Create creates a user account (admin only)
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*repository.User, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !permissions.ValidRole(in.Role) {
		return nil, invalidRole()
	}
	if in.EmployeeID != nil {
		if err := s.ensureEmployee(ctx, *in.EmployeeID); err != nil {
			return nil, err
		}
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &repository.User{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		EmployeeID:   in.EmployeeID,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, messaging.EventUserCreated, user, "")
	s.security.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Str("role", user.Role).
		Str("actor", actor.FromContext(ctx).String()).
		Msg("user created")

	return user, nil
}

// Update changes the role or employee link of a user (admin only).
// Admins cannot change their own role.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (*repository.User, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	a := actor.FromContext(ctx)
	if in.Role != nil && a != nil && a.UserID == id && *in.Role != a.Role {
		return nil, errors.BadRequest("").WithKey("errors.self_role_change")
	}
	if in.Role != nil && !permissions.ValidRole(*in.Role) {
		return nil, invalidRole()
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldRole := user.Role

	if in.Role != nil {
		user.Role = *in.Role
	}
	switch {
	case in.EmployeeID != nil:
		if err := s.ensureEmployee(ctx, *in.EmployeeID); err != nil {
			return nil, err
		}
		user.EmployeeID = in.EmployeeID
	case in.ClearEmployee:
		user.EmployeeID = nil
	}

	if err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	if oldRole == user.Role {
		oldRole = ""
	} else {
		s.security.Warn().
			Int64("user_id", user.ID).
			Str("old_role", oldRole).
			Str("new_role", user.Role).
			Str("actor", a.String()).
			Msg("user role changed")
	}
	s.publish(ctx, messaging.EventUserUpdated, user, oldRole)

	return user, nil
}

// Delete removes a user account (admin only). Admins cannot delete
// themselves and the last admin account cannot be removed.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if a := actor.FromContext(ctx); a != nil && a.UserID == id {
		return errors.BadRequest("").WithKey("errors.self_delete")
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role == actor.RoleAdmin {
		admins, err := s.store.CountByRole(ctx, actor.RoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return errors.BadRequest("").WithKey("errors.last_admin")
		}
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, messaging.EventUserDeleted, user, "")
	s.security.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Str("actor", actor.FromContext(ctx).String()).
		Msg("user deleted")

	return nil
}

// SetPassword replaces a user's password. Admins may reset anyone's,
// other users only their own.
func (s *UserService) SetPassword(ctx context.Context, id int64, newPassword string) error {
	if a := actor.FromContext(ctx); a != nil && !a.IsAdmin() && a.UserID != id {
		return errors.Forbidden("")
	}
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.storePassword(ctx, user, newPassword)
}

// ChangePassword replaces the password of userID after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		s.security.Warn().
			Int64("user_id", user.ID).
			Str("username", user.Username).
			Msg("password change rejected: wrong current password")
		return errors.Unauthorized("").WithKey("errors.wrong_password")
	}
	return s.storePassword(ctx, user, newPassword)
}

func (s *UserService) storePassword(ctx context.Context, user *repository.User, password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	user.PasswordHash = hash

	s.publish(ctx, messaging.EventUserPasswordChanged, user, "")
	s.security.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Str("actor", actor.FromContext(ctx).String()).
		Msg("password changed")
	return nil
}

// ValidateCredentials returns the user when password matches. Unknown
// usernames and wrong passwords produce the same INVALID_CREDENTIALS error.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (*repository.User, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, errors.InvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.InvalidCredentials()
	}
	return user, nil
}

// EnsureDefaultAdmin creates the bootstrap admin account unless a user with
// that username already exists. It reports whether an account was created.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.store.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, errors.ErrNotFound) {
		return false, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return false, err
	}
	user := &repository.User{Username: username, PasswordHash: hash, Role: actor.RoleAdmin}
	if err := s.store.Create(ctx, user); err != nil {
		return false, err
	}

	s.publish(ctx, messaging.EventUserCreated, user, "")
	s.security.Info().
		Int64("user_id", user.ID).
		Str("username", username).
		Msg("default admin user created")
	return true, nil
}

// ensureEmployee reports a missing employee as a bad request: the
// account is the resource being written, not the employee.
func (s *UserService) ensureEmployee(ctx context.Context, employeeID int64) error {
	err := s.employees.EnsureExists(ctx, employeeID)
	if errors.Is(err, errors.ErrNotFound) {
		return errors.BadRequest("").WithKey("errors.not_found").WithResource("employee")
	}
	return err
}

func (s *UserService) publish(ctx context.Context, eventType string, user *repository.User, oldRole string) {
	s.events.Emit(ctx, eventType, messaging.UserEvent{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		OldRole:  oldRole,
		ActorID:  events.ActorID(ctx),
	})
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", errors.Validation(map[string]string{
			"password": i18n.T("validation.max", map[string]string{"field": "password", "param": "72"}),
		})
	}
	if err != nil {
		return "", errors.Wrap(err, "INTERNAL_ERROR", "failed to hash password", http.StatusInternalServerError)
	}
	return string(hash), nil
}

func invalidRole() error {
	return errors.Validation(map[string]string{
		"role": i18n.T("validation.oneof", map[string]string{
			"field": "role",
			"param": "admin manager employee",
		}),
	})
}

func requireAdmin(ctx context.Context) error {
	if a := actor.FromContext(ctx); a != nil && !a.IsAdmin() {
		return errors.Forbidden("")
	}
	return nil
}
