package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/hourbook/hourbook-backend/pkg/database"
	"github.com/hourbook/hourbook-backend/pkg/errors"
)

// Assignment grants a manager visibility over one employee
type Assignment struct {
	ID            int64          `json:"id"`
	ManagerUserID int64          `json:"manager_user_id"`
	EmployeeID    int64          `json:"employee_id"`
	AssignedAt    time.Time      `json:"assigned_at"`
	Employee      *EmployeeShort `json:"employee"`
}

// EmployeeShort is the employee summary embedded in assignment responses
type EmployeeShort struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email"`
}

// assignmentRow is one assignment joined with its employee
type assignmentRow struct {
	ID            int64     `db:"id"`
	ManagerUserID int64     `db:"manager_user_id"`
	EmployeeID    int64     `db:"employee_id"`
	AssignedAt    time.Time `db:"assigned_at"`
	FirstName     string    `db:"first_name"`
	LastName      string    `db:"last_name"`
	Email         *string   `db:"email"`
}

func (row *assignmentRow) toAssignment() *Assignment {
	return &Assignment{
		ID:            row.ID,
		ManagerUserID: row.ManagerUserID,
		EmployeeID:    row.EmployeeID,
		AssignedAt:    row.AssignedAt,
		Employee: &EmployeeShort{
			ID:        row.EmployeeID,
			FirstName: row.FirstName,
			LastName:  row.LastName,
			Email:     row.Email,
		},
	}
}

const selectAssignments = `
	SELECT a.id, a.manager_user_id, a.employee_id, a.assigned_at,
		e.first_name, e.last_name, e.email
	FROM manager_employee_assignments a
	JOIN employees e ON e.id = a.employee_id`

// AssignmentRepository handles assignment persistence
type AssignmentRepository struct {
	db *database.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *database.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create links a manager to an employee. A repeated pair is a conflict.
func (r *AssignmentRepository) Create(ctx context.Context, a *Assignment) error {
	query := `
		INSERT INTO manager_employee_assignments (manager_user_id, employee_id)
		VALUES ($1, $2)
		RETURNING id, assigned_at
	`

	err := r.db.QueryRowxContext(ctx, query, a.ManagerUserID, a.EmployeeID).Scan(&a.ID, &a.AssignedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// GetByID gets an assignment with its employee
func (r *AssignmentRepository) GetByID(ctx context.Context, id int64) (*Assignment, error) {
	var row assignmentRow
	err := r.db.GetContext(ctx, &row, selectAssignments+` WHERE a.id = $1`, id)
	if database.IsNoRows(err) {
		return nil, errors.NotFound("assignment")
	}
	if err != nil {
		return nil, err
	}
	return row.toAssignment(), nil
}

// List returns assignments, optionally for one manager, oldest first
func (r *AssignmentRepository) List(ctx context.Context, managerUserID *int64) ([]*Assignment, error) {
	query := selectAssignments
	args := []interface{}{}
	if managerUserID != nil {
		args = append(args, *managerUserID)
		query += fmt.Sprintf(" WHERE a.manager_user_id = $%d", len(args))
	}
	query += " ORDER BY a.id"

	var rows []assignmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	assignments := make([]*Assignment, 0, len(rows))
	for i := range rows {
		assignments = append(assignments, rows[i].toAssignment())
	}
	return assignments, nil
}

// Delete removes an assignment
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM manager_employee_assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("assignment")
	}
	return nil
}

// IsAssigned reports whether the manager is assigned to the employee
func (r *AssignmentRepository) IsAssigned(ctx context.Context, managerUserID, employeeID int64) (bool, error) {
	var ok bool
	err := r.db.GetContext(ctx, &ok, `
		SELECT EXISTS(
			SELECT 1 FROM manager_employee_assignments
			WHERE manager_user_id = $1 AND employee_id = $2
		)`, managerUserID, employeeID)
	return ok, err
}

// EmployeeIDs lists the employees assigned to a manager. Never nil.
func (r *AssignmentRepository) EmployeeIDs(ctx context.Context, managerUserID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.SelectContext(ctx, &ids, `
		SELECT employee_id FROM manager_employee_assignments
		WHERE manager_user_id = $1
		ORDER BY employee_id`, managerUserID)
	if err != nil {
		return nil, err
	}
	return ids, nil
}
