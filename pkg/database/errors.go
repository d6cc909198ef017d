package database

import (
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/lib/pq"
)

// IsNoRows reports whether err is sql.ErrNoRows (possibly wrapped).
func IsNoRows(err error) bool {
	return stderrors.Is(err, sql.ErrNoRows)
}

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	var pqErr *pq.Error
	if !stderrors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation (23514)
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation (23505)
	case "23505":
		return mapUniqueConstraint(pqErr)

	// Foreign key violation (23503)
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation (23502)
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "hours_non_negative"):
		return errors.Validation(map[string]string{
			"hours": "must be greater than or equal to 0",
		})

	case strings.Contains(constraint, "rates_non_negative"):
		return errors.Validation(map[string]string{
			"hourly_rate": "must be greater than or equal to 0",
		})

	case strings.Contains(constraint, "role_check"):
		return errors.Validation(map[string]string{
			"role": "must be one of: admin, manager, employee",
		})

	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

func mapUniqueConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "unique_employee_work_date"):
		return errors.Conflict("").WithKey("errors.duplicate_work_log")
	case strings.Contains(constraint, "unique_manager_employee"):
		return errors.Conflict("").WithKey("errors.duplicate_assignment")
	case strings.Contains(constraint, "username"):
		return errors.Conflict("").WithKey("errors.username_taken")
	default:
		return errors.Conflict("a record with these values already exists")
	}
}
