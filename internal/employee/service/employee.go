package service

import (
	"context"

	"github.com/hourbook/hourbook-backend/internal/employee/repository"
	"github.com/hourbook/hourbook-backend/internal/events"
	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/messaging"
)

// Store is the employee persistence used by the service
type Store interface {
	Create(ctx context.Context, emp *repository.Employee) error
	GetByID(ctx context.Context, id int64) (*repository.Employee, error)
	Update(ctx context.Context, emp *repository.Employee) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params repository.ListParams) ([]*repository.Employee, int64, error)
}

// Visibility scopes reads to the employees an actor may see.
// VisibleEmployees returns nil when every employee is visible.
type Visibility interface {
	CanView(ctx context.Context, a *actor.Actor, employeeID int64) (bool, error)
	VisibleEmployees(ctx context.Context, a *actor.Actor) ([]int64, error)
}

// EmployeeService handles employee business logic
type EmployeeService struct {
	store      Store
	visibility Visibility
	events     *events.Publisher
	logger     *logger.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(store Store, visibility Visibility, publisher *events.Publisher, log *logger.Logger) *EmployeeService {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &EmployeeService{
		store:      store,
		visibility: visibility,
		events:     publisher,
		logger:     log,
	}
}

// List returns the employees visible to the caller
func (s *EmployeeService) List(ctx context.Context, skip, limit int) ([]*repository.Employee, int64, error) {
	ids, err := s.visibility.VisibleEmployees(ctx, actor.FromContext(ctx))
	if err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, repository.ListParams{IDs: ids, Skip: skip, Limit: limit})
}

// GetByID returns an employee the caller may see
func (s *EmployeeService) GetByID(ctx context.Context, id int64) (*repository.Employee, error) {
	ok, err := s.visibility.CanView(ctx, actor.FromContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Forbidden("")
	}
	return s.store.GetByID(ctx, id)
}

// Create creates an employee (admin only)
func (s *EmployeeService) Create(ctx context.Context, emp *repository.Employee) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.store.Create(ctx, emp); err != nil {
		return err
	}

	s.publish(ctx, messaging.EventEmployeeCreated, emp)
	s.logger.Info().Int64("employee_id", emp.ID).Msg("employee created")
	return nil
}

// Update updates an employee (admin only)
func (s *EmployeeService) Update(ctx context.Context, emp *repository.Employee) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.store.Update(ctx, emp); err != nil {
		return err
	}

	s.publish(ctx, messaging.EventEmployeeUpdated, emp)
	s.logger.Info().Int64("employee_id", emp.ID).Msg("employee updated")
	return nil
}

// Delete removes an employee and, by cascade, their logs, assignments and linked users (admin only)
func (s *EmployeeService) Delete(ctx context.Context, id int64) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	emp, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, messaging.EventEmployeeDeleted, emp)
	s.logger.Info().Int64("employee_id", id).Msg("employee deleted")
	return nil
}

func (s *EmployeeService) publish(ctx context.Context, eventType string, emp *repository.Employee) {
	s.events.Emit(ctx, eventType, messaging.EmployeeEvent{
		EmployeeID: emp.ID,
		Name:       emp.FirstName + " " + emp.LastName,
		ActorID:    events.ActorID(ctx),
	})
}

func requireAdmin(ctx context.Context) error {
	if a := actor.FromContext(ctx); a != nil && !a.IsAdmin() {
		return errors.Forbidden("")
	}
	return nil
}
