package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hourbook/hourbook-backend/internal/report"
	"github.com/hourbook/hourbook-backend/pkg/database"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/numeric"
	"github.com/lib/pq"
)

// Employee is a person whose hours are tracked. Having a user account is optional.
type Employee struct {
	ID           int64          `db:"id" json:"id"`
	FirstName    string         `db:"first_name" json:"first_name"`
	LastName     string         `db:"last_name" json:"last_name"`
	Email        *string        `db:"email" json:"email"`
	HourlyRate   *numeric.Fixed `db:"hourly_rate" json:"hourly_rate,omitempty"`
	OvertimeRate *numeric.Fixed `db:"overtime_rate" json:"overtime_rate,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ListParams narrows List. IDs, when non-nil, restricts the result to those employees.
type ListParams struct {
	IDs   []int64
	Skip  int
	Limit int
}

const employeeColumns = `id, first_name, last_name, email, hourly_rate, overtime_rate, created_at, updated_at`

// EmployeeRepository handles employee persistence
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create creates a new employee
func (r *EmployeeRepository) Create(ctx context.Context, emp *Employee) error {
	query := `
		INSERT INTO employees (first_name, last_name, email, hourly_rate, overtime_rate)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		emp.FirstName, emp.LastName, emp.Email, emp.HourlyRate, emp.OvertimeRate,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	return mapError(err)
}

// GetByID gets an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*Employee, error) {
	var emp Employee
	err := r.db.GetContext(ctx, &emp, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id)
	if database.IsNoRows(err) {
		return nil, errors.NotFound("employee")
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// Update updates an employee
func (r *EmployeeRepository) Update(ctx context.Context, emp *Employee) error {
	query := `
		UPDATE employees SET
			first_name = $2, last_name = $3, email = $4,
			hourly_rate = $5, overtime_rate = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.HourlyRate, emp.OvertimeRate,
	).Scan(&emp.CreatedAt, &emp.UpdatedAt)
	if database.IsNoRows(err) {
		return errors.NotFound("employee")
	}
	return mapError(err)
}

// Delete removes an employee together with their work logs and assignments
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("employee")
	}
	return nil
}

// List lists employees ordered by id
func (r *EmployeeRepository) List(ctx context.Context, params ListParams) ([]*Employee, int64, error) {
	whereClause := "WHERE TRUE"
	args := []interface{}{}
	if params.IDs != nil {
		args = append(args, pq.Array(params.IDs))
		whereClause += " AND id = ANY($1)"
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM employees `+whereClause, args...); err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT %s FROM employees %s ORDER BY id LIMIT $%d OFFSET $%d`,
		employeeColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, params.Skip)

	employees := []*Employee{}
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// EnsureExists returns a NOT_FOUND error unless the employee exists
func (r *EmployeeRepository) EnsureExists(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)`, id); err != nil {
		return err
	}
	if !exists {
		return errors.NotFound("employee")
	}
	return nil
}

// ReportEmployee returns the identity printed on a report
func (r *EmployeeRepository) ReportEmployee(ctx context.Context, id int64) (report.Employee, error) {
	emp, err := r.GetByID(ctx, id)
	if err != nil {
		return report.Employee{}, err
	}
	return report.Employee{
		ID:        emp.ID,
		FirstName: emp.FirstName,
		LastName:  emp.LastName,
		Email:     emp.Email,
	}, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}
