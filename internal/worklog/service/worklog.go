package service

import (
	"context"

	"github.com/hourbook/hourbook-backend/internal/events"
	"github.com/hourbook/hourbook-backend/internal/worklog/repository"
	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/i18n"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/messaging"
	"github.com/hourbook/hourbook-backend/pkg/numeric"
)

// DailyHoursWarningThreshold is the daily total above which a warning is attached.
var DailyHoursWarningThreshold = numeric.MustParse("12")

// Store is the persistence the service needs
type Store interface {
	Create(ctx context.Context, wl *repository.WorkLog) error
	GetByID(ctx context.Context, id int64) (*repository.WorkLog, error)
	Update(ctx context.Context, wl *repository.WorkLog) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter repository.Filter) ([]*repository.WorkLog, int64, error)
	Summary(ctx context.Context, filter repository.Filter) (*repository.Summary, error)
}

// EmployeeChecker confirms an employee exists, returning a NOT_FOUND AppError otherwise
type EmployeeChecker interface {
	EnsureExists(ctx context.Context, employeeID int64) error
}

// Visibility scopes reads and writes to the employees an actor may see.
// VisibleEmployees returns nil when every employee is visible.
type Visibility interface {
	CanView(ctx context.Context, a *actor.Actor, employeeID int64) (bool, error)
	VisibleEmployees(ctx context.Context, a *actor.Actor) ([]int64, error)
}

// Saved is a stored work log with the optional over-12-hours warning
type Saved struct {
	*repository.WorkLog
	Warning *string `json:"warning"`
}

// WorkLogService handles work log business logic
type WorkLogService struct {
	store      Store
	employees  EmployeeChecker
	visibility Visibility
	events     *events.Publisher
	logger     *logger.Logger
}

// NewWorkLogService creates a new work log service
func NewWorkLogService(
	store Store,
	employees EmployeeChecker,
	visibility Visibility,
	publisher *events.Publisher,
	log *logger.Logger,
) *WorkLogService {
	if publisher == nil {
		publisher = events.Nop()
	}
	return &WorkLogService{
		store:      store,
		employees:  employees,
		visibility: visibility,
		events:     publisher,
		logger:     log,
	}
}

// List returns visible logs matching filter. Asking for an employee outside
// the caller's scope is forbidden rather than silently empty.
func (s *WorkLogService) List(ctx context.Context, filter repository.Filter) ([]*repository.WorkLog, int64, error) {
	scoped, err := s.scope(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return s.store.List(ctx, scoped)
}

// Summary totals every category over the caller's visible logs
func (s *WorkLogService) Summary(ctx context.Context, filter repository.Filter) (*repository.Summary, error) {
	scoped, err := s.scope(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.store.Summary(ctx, scoped)
}

// GetByID returns a work log the caller may see
func (s *WorkLogService) GetByID(ctx context.Context, id int64) (*repository.WorkLog, error) {
	wl, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireView(ctx, wl.EmployeeID); err != nil {
		return nil, err
	}
	return wl, nil
}

// Create stores a new log for one employee and day
func (s *WorkLogService) Create(ctx context.Context, wl *repository.WorkLog) (*Saved, error) {
	if err := s.requireWrite(ctx, wl.EmployeeID); err != nil {
		return nil, err
	}
	if err := s.employees.EnsureExists(ctx, wl.EmployeeID); err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, wl); err != nil {
		return nil, err
	}

	saved := s.withWarning(ctx, wl)
	s.publish(ctx, messaging.EventWorkLogCreated, saved)

	s.logger.Info().
		Int64("work_log_id", wl.ID).
		Int64("employee_id", wl.EmployeeID).
		Str("work_date", wl.WorkDate.String()).
		Msg("work log created")

	return saved, nil
}

// Update replaces a log's fields. Both the current and the target employee
// must be writable by the caller.
func (s *WorkLogService) Update(ctx context.Context, id int64, changes *repository.WorkLog) (*Saved, error) {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireWrite(ctx, existing.EmployeeID); err != nil {
		return nil, err
	}
	if changes.EmployeeID != existing.EmployeeID {
		if err := s.requireWrite(ctx, changes.EmployeeID); err != nil {
			return nil, err
		}
	}
	if err := s.employees.EnsureExists(ctx, changes.EmployeeID); err != nil {
		return nil, err
	}

	changes.ID = existing.ID
	changes.CreatedAt = existing.CreatedAt
	if err := s.store.Update(ctx, changes); err != nil {
		return nil, err
	}

	saved := s.withWarning(ctx, changes)
	s.publish(ctx, messaging.EventWorkLogUpdated, saved)

	s.logger.Info().
		Int64("work_log_id", changes.ID).
		Msg("work log updated")

	return saved, nil
}

// Delete removes a log
func (s *WorkLogService) Delete(ctx context.Context, id int64) error {
	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireWrite(ctx, existing.EmployeeID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, messaging.EventWorkLogDeleted, &Saved{WorkLog: existing})

	s.logger.Info().
		Int64("work_log_id", id).
		Msg("work log deleted")

	return nil
}

// HoursWarning returns the localized warning when the six categories sum to more than 12 hours.
func HoursWarning(ctx context.Context, wl *repository.WorkLog) *string {
	total := wl.TotalHours()
	if !total.GreaterThan(DailyHoursWarningThreshold.Decimal) {
		return nil
	}
	msg := i18n.TFromContext(ctx, "messages.hours_warning", map[string]string{"hours": total.String()})
	return &msg
}

func (s *WorkLogService) withWarning(ctx context.Context, wl *repository.WorkLog) *Saved {
	return &Saved{WorkLog: wl, Warning: HoursWarning(ctx, wl)}
}

func (s *WorkLogService) publish(ctx context.Context, eventType string, saved *Saved) {
	evt := messaging.WorkLogEvent{
		WorkLogID:  saved.ID,
		EmployeeID: saved.EmployeeID,
		WorkDate:   saved.WorkDate.String(),
		TotalHours: saved.TotalHours().String(),
		ActorID:    events.ActorID(ctx),
	}
	if saved.Warning != nil {
		evt.Warning = *saved.Warning
	}
	s.events.Emit(ctx, eventType, evt)
}

func (s *WorkLogService) scope(ctx context.Context, filter repository.Filter) (repository.Filter, error) {
	a := actor.FromContext(ctx)
	if filter.EmployeeID != nil {
		if err := s.requireView(ctx, *filter.EmployeeID); err != nil {
			return filter, err
		}
	}

	ids, err := s.visibility.VisibleEmployees(ctx, a)
	if err != nil {
		return filter, err
	}
	filter.EmployeeIDs = ids
	return filter, nil
}

func (s *WorkLogService) requireView(ctx context.Context, employeeID int64) error {
	ok, err := s.visibility.CanView(ctx, actor.FromContext(ctx), employeeID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Forbidden("")
	}
	return nil
}

// Employees read their own logs but never write them.
func (s *WorkLogService) requireWrite(ctx context.Context, employeeID int64) error {
	a := actor.FromContext(ctx)
	if a != nil && !a.IsAdmin() && !a.IsManager() {
		return errors.Forbidden("")
	}
	return s.requireView(ctx, employeeID)
}
