package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/hourbook/hourbook-backend/internal/assignment/handler"
	"github.com/hourbook/hourbook-backend/internal/assignment/repository"
	"github.com/hourbook/hourbook-backend/internal/assignment/service"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRoles map[int64]string

func (f fixedRoles) RoleOf(_ context.Context, id int64) (string, error) {
	return f[id], nil
}

type anyEmployee struct{}

func (anyEmployee) EnsureExists(context.Context, int64) error { return nil }

var joinedCols = []string{"id", "manager_user_id", "employee_id", "assigned_at", "first_name", "last_name", "email"}

func newRouter(t *testing.T) (http.Handler, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { _ = mockDB.Close() })

	repo := repository.NewAssignmentRepository(mockDB.Database())
	svc := service.NewAssignmentService(repo, fixedRoles{10: "manager", 11: "employee"}, anyEmployee{}, nil, logger.Nop())
	h := handler.NewAssignmentHandler(svc, logger.Nop())

	r := chi.NewRouter()
	r.Route("/api/assignments", h.Routes)
	return r, mockDB
}

func TestAssignmentHandler_Create(t *testing.T) {
	router, mockDB := newRouter(t)
	now := time.Now()

	mockDB.ExpectQuery("INSERT INTO manager_employee_assignments").
		WithArgs(int64(10), int64(3)).
		WillReturnRows(testutil.MockRows("id", "assigned_at").AddRow(5, now))
	mockDB.ExpectQuery("WHERE a.id = $1").
		WithArgs(int64(5)).
		WillReturnRows(testutil.MockRows(joinedCols...).AddRow(5, 10, 3, now, "Eve", "Adams", nil))

	req := testutil.NewHTTPRequest(http.MethodPost, "/api/assignments", map[string]int64{"manager_user_id": 10, "employee_id": 3})
	rr := testutil.ExecuteRequest(router, testutil.WithActor(req, testutil.Admin(1)))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	var got repository.Assignment
	testutil.ParseData(t, rr, &got)
	assert.Equal(t, int64(5), got.ID)
	require.NotNil(t, got.Employee)
	assert.Equal(t, "Eve", got.Employee.FirstName)
	mockDB.ExpectationsWereMet(t)
}

func TestAssignmentHandler_Create_NotManager(t *testing.T) {
	router, mockDB := newRouter(t)

	req := testutil.NewHTTPRequest(http.MethodPost, "/api/assignments", map[string]int64{"manager_user_id": 11, "employee_id": 3})
	rr := testutil.ExecuteRequest(router, testutil.WithActor(req, testutil.Admin(1)))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	assert.Contains(t, rr.Body.String(), "manager role")
	mockDB.ExpectationsWereMet(t)
}

func TestAssignmentHandler_ListForManager(t *testing.T) {
	router, mockDB := newRouter(t)

	mockDB.ExpectQuery("WHERE a.manager_user_id = $1 ORDER BY a.id").
		WithArgs(int64(10)).
		WillReturnRows(testutil.MockRows(joinedCols...).AddRow(5, 10, 3, time.Now(), "Eve", "Adams", "eve@example.com"))

	rr := testutil.ExecuteRequest(router, testutil.WithActor(testutil.NewHTTPRequest(http.MethodGet, "/api/assignments/manager/10", nil), testutil.Manager(10)))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var got []repository.Assignment
	testutil.ParseData(t, rr, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "eve@example.com", *got[0].Employee.Email)

	rr = testutil.ExecuteRequest(router, testutil.WithActor(testutil.NewHTTPRequest(http.MethodGet, "/api/assignments/manager/10", nil), testutil.Manager(12)))
	testutil.AssertStatus(t, rr, http.StatusForbidden)
	mockDB.ExpectationsWereMet(t)
}

func TestAssignmentHandler_Delete(t *testing.T) {
	router, mockDB := newRouter(t)

	mockDB.ExpectQuery("WHERE a.id = $1").
		WithArgs(int64(5)).
		WillReturnRows(testutil.MockRows(joinedCols...).AddRow(5, 10, 3, time.Now(), "Eve", "Adams", nil))
	mockDB.ExpectExec("DELETE FROM manager_employee_assignments WHERE id = $1").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rr := testutil.ExecuteRequest(router, testutil.WithActor(testutil.NewHTTPRequest(http.MethodDelete, "/api/assignments/5", nil), testutil.Admin(1)))
	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), "Assignment deleted successfully")
	mockDB.ExpectationsWereMet(t)
}
