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

// WorkLog is one employee's recorded hours for one calendar day
type WorkLog struct {
	ID             int64         `db:"id" json:"id"`
	EmployeeID     int64         `db:"employee_id" json:"employee_id"`
	WorkDate       Date          `db:"work_date" json:"work_date"`
	WorkHours      numeric.Fixed `db:"work_hours" json:"work_hours"`
	OvertimeHours  numeric.Fixed `db:"overtime_hours" json:"overtime_hours"`
	VacationHours  numeric.Fixed `db:"vacation_hours" json:"vacation_hours"`
	SickLeaveHours numeric.Fixed `db:"sick_leave_hours" json:"sick_leave_hours"`
	OtherHours     numeric.Fixed `db:"other_hours" json:"other_hours"`
	AbsentHours    numeric.Fixed `db:"absent_hours" json:"absent_hours"`
	Notes          *string       `db:"notes" json:"notes"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at" json:"updated_at"`
}

// Hours returns the six hour categories
func (w *WorkLog) Hours() report.Hours {
	return report.Hours{
		Work:      w.WorkHours,
		Overtime:  w.OvertimeHours,
		Vacation:  w.VacationHours,
		SickLeave: w.SickLeaveHours,
		Other:     w.OtherHours,
		Absent:    w.AbsentHours,
	}
}

// TotalHours sums all six categories
func (w *WorkLog) TotalHours() numeric.Fixed {
	return w.Hours().Total()
}

// Filter narrows list and summary queries.
// EmployeeIDs, when non-nil, restricts results to those employees; an empty
// non-nil slice matches nothing.
type Filter struct {
	EmployeeIDs []int64
	EmployeeID  *int64
	StartDate   *Date
	EndDate     *Date
	Skip        int
	Limit       int
}

// Summary holds per-category totals over a filtered set of logs
type Summary struct {
	TotalWorkHours      numeric.Fixed `db:"total_work_hours" json:"total_work_hours"`
	TotalOvertimeHours  numeric.Fixed `db:"total_overtime_hours" json:"total_overtime_hours"`
	TotalVacationHours  numeric.Fixed `db:"total_vacation_hours" json:"total_vacation_hours"`
	TotalSickLeaveHours numeric.Fixed `db:"total_sick_leave_hours" json:"total_sick_leave_hours"`
	TotalOtherHours     numeric.Fixed `db:"total_other_hours" json:"total_other_hours"`
	TotalAbsentHours    numeric.Fixed `db:"total_absent_hours" json:"total_absent_hours"`
	TotalLogs           int64         `db:"total_logs" json:"total_logs"`
}

const workLogColumns = `id, employee_id, work_date, work_hours, overtime_hours, vacation_hours,
	sick_leave_hours, other_hours, absent_hours, notes, created_at, updated_at`

// WorkLogRepository handles work log persistence
type WorkLogRepository struct {
	db *database.DB
}

// NewWorkLogRepository creates a new work log repository
func NewWorkLogRepository(db *database.DB) *WorkLogRepository {
	return &WorkLogRepository{db: db}
}

// Create inserts a work log. A second log for the same employee and day is a conflict.
func (r *WorkLogRepository) Create(ctx context.Context, wl *WorkLog) error {
	query := `
		INSERT INTO work_logs (
			employee_id, work_date, work_hours, overtime_hours, vacation_hours,
			sick_leave_hours, other_hours, absent_hours, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		wl.EmployeeID, wl.WorkDate, wl.WorkHours, wl.OvertimeHours, wl.VacationHours,
		wl.SickLeaveHours, wl.OtherHours, wl.AbsentHours, wl.Notes,
	).Scan(&wl.ID, &wl.CreatedAt, &wl.UpdatedAt)
	return mapError(err)
}

// GetByID gets a work log by ID
func (r *WorkLogRepository) GetByID(ctx context.Context, id int64) (*WorkLog, error) {
	var wl WorkLog
	query := `SELECT ` + workLogColumns + ` FROM work_logs WHERE id = $1`

	err := r.db.GetContext(ctx, &wl, query, id)
	if database.IsNoRows(err) {
		return nil, errors.NotFound("work_log")
	}
	if err != nil {
		return nil, err
	}
	return &wl, nil
}

// Update rewrites every mutable column of wl
func (r *WorkLogRepository) Update(ctx context.Context, wl *WorkLog) error {
	query := `
		UPDATE work_logs SET
			employee_id = $2, work_date = $3, work_hours = $4, overtime_hours = $5,
			vacation_hours = $6, sick_leave_hours = $7, other_hours = $8, absent_hours = $9,
			notes = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		wl.ID, wl.EmployeeID, wl.WorkDate, wl.WorkHours, wl.OvertimeHours,
		wl.VacationHours, wl.SickLeaveHours, wl.OtherHours, wl.AbsentHours, wl.Notes,
	).Scan(&wl.UpdatedAt)
	if database.IsNoRows(err) {
		return errors.NotFound("work_log")
	}
	return mapError(err)
}

// Delete removes a work log
func (r *WorkLogRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM work_logs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound("work_log")
	}
	return nil
}

// List returns logs matching filter, newest first, plus the unpaginated count
func (r *WorkLogRepository) List(ctx context.Context, filter Filter) ([]*WorkLog, int64, error) {
	where, args := buildWhere(filter)

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM work_logs `+where, args...); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`SELECT %s FROM work_logs %s ORDER BY work_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		workLogColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, filter.Skip)

	logs := []*WorkLog{}
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// Summary totals each category over the logs matching filter; paging is ignored
func (r *WorkLogRepository) Summary(ctx context.Context, filter Filter) (*Summary, error) {
	where, args := buildWhere(filter)
	query := `
		SELECT
			COALESCE(SUM(work_hours), 0)       AS total_work_hours,
			COALESCE(SUM(overtime_hours), 0)   AS total_overtime_hours,
			COALESCE(SUM(vacation_hours), 0)   AS total_vacation_hours,
			COALESCE(SUM(sick_leave_hours), 0) AS total_sick_leave_hours,
			COALESCE(SUM(other_hours), 0)      AS total_other_hours,
			COALESCE(SUM(absent_hours), 0)     AS total_absent_hours,
			COUNT(*)                           AS total_logs
		FROM work_logs ` + where

	var s Summary
	if err := r.db.GetContext(ctx, &s, query, args...); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListForRange returns one employee's logs in [start, end], ascending by date
func (r *WorkLogRepository) ListForRange(ctx context.Context, employeeID int64, start, end time.Time) ([]*WorkLog, error) {
	query := `SELECT ` + workLogColumns + `
		FROM work_logs
		WHERE employee_id = $1 AND work_date >= $2 AND work_date <= $3
		ORDER BY work_date ASC`

	logs := []*WorkLog{}
	if err := r.db.SelectContext(ctx, &logs, query, employeeID, NewDate(start), NewDate(end)); err != nil {
		return nil, err
	}
	return logs, nil
}

// ReportEntries adapts ListForRange to the report engine
func (r *WorkLogRepository) ReportEntries(ctx context.Context, employeeID int64, start, end time.Time) ([]report.Entry, error) {
	logs, err := r.ListForRange(ctx, employeeID, start, end)
	if err != nil {
		return nil, err
	}

	entries := make([]report.Entry, 0, len(logs))
	for _, wl := range logs {
		entries = append(entries, report.Entry{
			WorkDate: wl.WorkDate.Time,
			Hours:    wl.Hours(),
			Notes:    wl.Notes,
		})
	}
	return entries, nil
}

func buildWhere(filter Filter) (string, []interface{}) {
	where := "WHERE TRUE"
	args := []interface{}{}

	if filter.EmployeeIDs != nil {
		args = append(args, pq.Array(filter.EmployeeIDs))
		where += fmt.Sprintf(" AND employee_id = ANY($%d)", len(args))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		where += fmt.Sprintf(" AND employee_id = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		where += fmt.Sprintf(" AND work_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		where += fmt.Sprintf(" AND work_date <= $%d", len(args))
	}

	return where, args
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
