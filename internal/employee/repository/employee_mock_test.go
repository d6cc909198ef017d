package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hourbook/hourbook-backend/internal/employee/repository"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository_ReportEmployee_Mock(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewEmployeeRepository(mockDB.Database())

	now := time.Now()
	mockDB.ExpectQuery("FROM employees WHERE id = $1").
		WithArgs(int64(7)).
		WillReturnRows(testutil.MockRows("id", "first_name", "last_name", "email", "hourly_rate", "overtime_rate", "created_at", "updated_at").
			AddRow(7, "Ada", "Lovelace", "ada@example.com", nil, nil, now, now))

	emp, err := repo.ReportEmployee(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), emp.ID)
	assert.Equal(t, "Ada Lovelace", emp.DisplayName())
	require.NotNil(t, emp.Email)
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_ReportEmployee_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewEmployeeRepository(mockDB.Database())

	mockDB.ExpectQuery("FROM employees WHERE id = $1").
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.ReportEmployee(context.Background(), 7)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestEmployeeRepository_EnsureExists_Mock(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewEmployeeRepository(mockDB.Database())

	mockDB.ExpectQuery("SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)").
		WithArgs(int64(3)).
		WillReturnRows(testutil.MockRows("exists").AddRow(true))
	mockDB.ExpectQuery("SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1)").
		WithArgs(int64(4)).
		WillReturnRows(testutil.MockRows("exists").AddRow(false))

	assert.NoError(t, repo.EnsureExists(context.Background(), 3))
	assert.True(t, errors.Is(repo.EnsureExists(context.Background(), 4), errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}
