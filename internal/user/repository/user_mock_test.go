package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hourbook/hourbook-backend/internal/user/repository"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_List_Mock(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewUserRepository(mockDB.Database())

	now := time.Now()
	mockDB.ExpectQuery("SELECT COUNT(*) FROM users").
		WillReturnRows(testutil.MockRows("count").AddRow(2))
	mockDB.ExpectQuery("FROM users ORDER BY id LIMIT $1 OFFSET $2").
		WithArgs(100, 0).
		WillReturnRows(testutil.MockRows("id", "username", "password_hash", "role", "employee_id", "created_at").
			AddRow(1, "admin", "h1", "admin", nil, now).
			AddRow(2, "jdoe", "h2", "employee", 5, now))

	users, total, err := repo.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, users, 2)
	assert.Nil(t, users[0].EmployeeID)
	require.NotNil(t, users[1].EmployeeID)
	assert.Equal(t, int64(5), *users[1].EmployeeID)
	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_RoleOf_Mock(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewUserRepository(mockDB.Database())

	mockDB.ExpectQuery("SELECT role FROM users WHERE id = $1").
		WithArgs(int64(3)).
		WillReturnRows(testutil.MockRows("role").AddRow("manager"))
	mockDB.ExpectQuery("SELECT role FROM users WHERE id = $1").
		WithArgs(int64(4)).
		WillReturnError(sql.ErrNoRows)

	role, err := repo.RoleOf(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "manager", role)

	_, err = repo.RoleOf(context.Background(), 4)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}

func TestUserRepository_UpdatePassword_Missing(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()
	repo := repository.NewUserRepository(mockDB.Database())

	mockDB.ExpectExec("UPDATE users SET password_hash = $2 WHERE id = $1").
		WithArgs(int64(9), "hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePassword(context.Background(), 9, "hash")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	mockDB.ExpectationsWereMet(t)
}
