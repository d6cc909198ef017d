package repository_test

import (
	"net/http"
	"os"
	"testing"

	"github.com/hourbook/hourbook-backend/internal/user/repository"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var suite *testutil.IntegrationSuite

func TestMain(m *testing.M) {
	var run func() int
	suite, run = testutil.SetupIntegration(m)
	os.Exit(run())
}

func TestUserRepository_Lifecycle(t *testing.T) {
	s := testutil.Require(t, suite)
	ctx := testutil.DefaultTestContext(t)
	repo := repository.NewUserRepository(s.DB)

	emp := s.Fixtures.Employee()
	require.NoError(t, testutil.InsertEmployee(ctx, s.RawDB, &emp))

	fixture := s.Fixtures.User()
	u := &repository.User{
		Username:     fixture.Username,
		PasswordHash: fixture.PasswordHash,
		Role:         "employee",
		EmployeeID:   &emp.ID,
	}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byName, err := repo.GetByUsername(ctx, fixture.Username)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
	require.NotNil(t, byName.EmployeeID)
	assert.Equal(t, emp.ID, *byName.EmployeeID)

	u.Role = "manager"
	u.EmployeeID = nil
	require.NoError(t, repo.Update(ctx, u))

	role, err := repo.RoleOf(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "manager", role)

	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash"))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.Nil(t, got.EmployeeID)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.GetByID(ctx, u.ID)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, u.ID), errors.ErrNotFound))
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	s := testutil.Require(t, suite)
	ctx := testutil.DefaultTestContext(t)
	repo := repository.NewUserRepository(s.DB)

	fixture := s.Fixtures.User()
	first := &repository.User{Username: fixture.Username, PasswordHash: "x", Role: "employee"}
	require.NoError(t, repo.Create(ctx, first))

	second := &repository.User{Username: fixture.Username, PasswordHash: "y", Role: "employee"}
	err := repo.Create(ctx, second)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, errors.StatusCode(err))

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "errors.username_taken", appErr.MessageKey)
}

func TestUserRepository_InvalidRole(t *testing.T) {
	s := testutil.Require(t, suite)
	ctx := testutil.DefaultTestContext(t)
	repo := repository.NewUserRepository(s.DB)

	fixture := s.Fixtures.User()
	err := repo.Create(ctx, &repository.User{Username: fixture.Username, PasswordHash: "x", Role: "owner"})
	assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
}

func TestUserRepository_CountByRole(t *testing.T) {
	s := testutil.Require(t, suite)
	ctx := testutil.DefaultTestContext(t)
	repo := repository.NewUserRepository(s.DB)

	before, err := repo.CountByRole(ctx, "admin")
	require.NoError(t, err)

	u := s.Fixtures.User(testutil.WithRole("admin"))
	require.NoError(t, testutil.InsertUser(ctx, s.RawDB, &u))

	after, err := repo.CountByRole(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}
