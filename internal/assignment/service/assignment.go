package service

import (
	"context"

	"github.com/hourbook/hourbook-backend/internal/assignment/repository"
	"github.com/hourbook/hourbook-backend/internal/events"
	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/messaging"
)

// Store is the assignment persistence used by the service
type Store interface {
	Create(ctx context.Context, a *repository.Assignment) error
	GetByID(ctx context.Context, id int64) (*repository.Assignment, error)
	List(ctx context.Context, managerUserID *int64) ([]*repository.Assignment, error)
	Delete(ctx context.Context, id int64) error
}

// UserRoles resolves a user's role, returning NOT_FOUND for unknown users
type UserRoles interface {
	RoleOf(ctx context.Context, userID int64) (string, error)
}

// EmployeeChecker confirms an employee exists
type EmployeeChecker interface {
	EnsureExists(ctx context.Context, employeeID int64) error
}

// AssignmentService manages which employees each manager oversees
type AssignmentService struct {
	store     Store
	users     UserRoles
	employees EmployeeChecker
	events    *events.Publisher
	logger    *logger.Logger
	security  *logger.Logger
}

// NewAssignmentService creates a new assignment service
func NewAssignmentService(
	store Store,
	users UserRoles,
	employees EmployeeChecker,
	publisher *events.Publisher,
	log *logger.Logger,
) *AssignmentService {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &AssignmentService{
		store:     store,
		users:     users,
		employees: employees,
		events:    publisher,
		logger:    log,
		security:  log.Security(),
	}
}

// List returns every assignment (admin only)
func (s *AssignmentService) List(ctx context.Context) ([]*repository.Assignment, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.store.List(ctx, nil)
}

// ListForManager returns one manager's assignments; managers may only ask for their own
func (s *AssignmentService) ListForManager(ctx context.Context, managerUserID int64) ([]*repository.Assignment, error) {
	if a := actor.FromContext(ctx); a != nil && !a.IsAdmin() && a.UserID != managerUserID {
		return nil, errors.Forbidden("")
	}
	return s.store.List(ctx, &managerUserID)
}

// Create assigns an employee to a manager (admin only)
func (s *AssignmentService) Create(ctx context.Context, managerUserID, employeeID int64) (*repository.Assignment, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	role, err := s.users.RoleOf(ctx, managerUserID)
	if err != nil {
		return nil, err
	}
	if role != actor.RoleManager {
		return nil, errors.BadRequest("").WithKey("errors.not_a_manager")
	}
	if err := s.employees.EnsureExists(ctx, employeeID); err != nil {
		return nil, err
	}

	a := &repository.Assignment{ManagerUserID: managerUserID, EmployeeID: employeeID}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}

	s.publish(ctx, messaging.EventAssignmentCreated, a)
	s.security.Info().
		Int64("manager_user_id", managerUserID).
		Int64("employee_id", employeeID).
		Str("actor", actor.FromContext(ctx).String()).
		Msg("assignment created")

	return s.store.GetByID(ctx, a.ID)
}

// Delete removes an assignment (admin only)
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, messaging.EventAssignmentDeleted, a)
	s.security.Info().
		Int64("assignment_id", id).
		Str("actor", actor.FromContext(ctx).String()).
		Msg("assignment deleted")

	return nil
}

func (s *AssignmentService) publish(ctx context.Context, eventType string, a *repository.Assignment) {
	s.events.Emit(ctx, eventType, messaging.AssignmentEvent{
		AssignmentID:  a.ID,
		ManagerUserID: a.ManagerUserID,
		EmployeeID:    a.EmployeeID,
		ActorID:       events.ActorID(ctx),
	})
}

func requireAdmin(ctx context.Context) error {
	if a := actor.FromContext(ctx); a != nil && !a.IsAdmin() {
		return errors.Forbidden("")
	}
	return nil
}
