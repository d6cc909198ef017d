package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hourbook/hourbook-backend/internal/worklog/repository"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/testutil"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var workLogCols = []string{
	"id", "employee_id", "work_date", "work_hours", "overtime_hours", "vacation_hours",
	"sick_leave_hours", "other_hours", "absent_hours", "notes", "created_at", "updated_at",
}

func TestWorkLogRepository_GetByID_Mock(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewWorkLogRepository(mockDB.Database())

	now := time.Now()
	mockDB.ExpectQuery("FROM work_logs WHERE id = $1").
		WithArgs(int64(3)).
		WillReturnRows(testutil.MockRows(workLogCols...).
			AddRow(3, 7, testutil.Day("2024-03-01"), "8.00", "0.50", "0", "0", "0", "0", nil, now, now))

	wl, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(7), wl.EmployeeID)
	assert.Equal(t, "2024-03-01", wl.WorkDate.String())
	assert.Equal(t, "8.50", wl.TotalHours().String())
	mockDB.ExpectationsWereMet(t)
}

func TestWorkLogRepository_GetByID_NoRows(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewWorkLogRepository(mockDB.Database())

	mockDB.ExpectQuery("FROM work_logs WHERE id = $1").
		WithArgs(int64(3)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 3)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestWorkLogRepository_Create_MapsUniqueViolation(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewWorkLogRepository(mockDB.Database())

	mockDB.ExpectQuery("INSERT INTO work_logs").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "unique_employee_work_date"})

	wl := &repository.WorkLog{EmployeeID: 1, WorkDate: repository.NewDate(testutil.Day("2024-01-01"))}
	err := repo.Create(context.Background(), wl)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFLICT", appErr.Code)
	assert.Equal(t, "errors.duplicate_work_log", appErr.MessageKey)
	mockDB.ExpectationsWereMet(t)
}

func TestWorkLogRepository_List_BuildsFilter(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewWorkLogRepository(mockDB.Database())

	employeeID := int64(4)
	start := repository.NewDate(testutil.Day("2024-01-01"))

	mockDB.ExpectQuery("SELECT COUNT(*) FROM work_logs WHERE TRUE AND employee_id = ANY($1) AND employee_id = $2 AND work_date >= $3").
		WithArgs(sqlmock.AnyArg(), employeeID, "2024-01-01").
		WillReturnRows(testutil.MockRows("count").AddRow(0))
	mockDB.ExpectQuery("ORDER BY work_date DESC, id DESC LIMIT $4 OFFSET $5").
		WithArgs(sqlmock.AnyArg(), employeeID, "2024-01-01", 100, 0).
		WillReturnRows(testutil.MockRows(workLogCols...))

	logs, total, err := repo.List(context.Background(), repository.Filter{
		EmployeeIDs: []int64{4, 5},
		EmployeeID:  &employeeID,
		StartDate:   &start,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, logs)
	mockDB.ExpectationsWereMet(t)
}

func TestWorkLogRepository_Delete_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewWorkLogRepository(mockDB.Database())

	mockDB.ExpectExec("DELETE FROM work_logs WHERE id = $1").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 9)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}
