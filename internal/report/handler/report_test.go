package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hourbook/hourbook-backend/internal/report"
	"github.com/hourbook/hourbook-backend/internal/report/handler"
	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/numeric"
	"github.com/hourbook/hourbook-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct{}

func (stubStore) ReportEmployee(_ context.Context, id int64) (report.Employee, error) {
	if id != 7 {
		return report.Employee{}, errors.NotFound("employee")
	}
	return report.Employee{ID: 7, FirstName: "Alice", LastName: "Smith"}, nil
}

func (stubStore) ReportEntries(_ context.Context, _ int64, start, end time.Time) ([]report.Entry, error) {
	day := testutil.Day("2024-01-01")
	if day.Before(start) || day.After(end) {
		return nil, nil
	}
	return []report.Entry{{
		WorkDate: day,
		Hours: report.Hours{
			Work:     numeric.MustParse("8"),
			Overtime: numeric.MustParse("2"),
		},
	}}, nil
}

func (stubStore) CanView(_ context.Context, a *actor.Actor, employeeID int64) (bool, error) {
	return a.IsAdmin() || a.OwnsEmployee(employeeID), nil
}

func newRouter() http.Handler {
	svc := report.NewService(stubStore{}, stubStore{}, stubStore{}, nil, nil, logger.Nop())
	h := handler.NewReportHandler(svc, report.CostConfig{
		HourlyRate:         report.DefaultHourlyRate,
		OvertimeMultiplier: report.DefaultOvertimeMultiplier,
	}, logger.Nop())

	r := chi.NewRouter()
	r.Route("/api/reports", h.Routes)
	return r
}

func get(path string, a *actor.Actor) *http.Request {
	return testutil.WithActor(testutil.NewHTTPRequest(http.MethodGet, path, nil), a)
}

func TestManagerReport_JSON(t *testing.T) {
	rr := testutil.ExecuteRequest(newRouter(),
		get("/api/reports/manager/7?start_date=2024-01-01&end_date=2024-01-31", testutil.Admin(1)))

	testutil.AssertStatus(t, rr, http.StatusOK)
	var body report.JSONReport
	testutil.ParseData(t, rr, &body)
	assert.Equal(t, report.VariantManager, body.ReportType)
	assert.Nil(t, body.Rates)
	assert.Equal(t, "10.00", body.Totals.TotalHours.String())
	assert.NotContains(t, rr.Body.String(), "cost")
}

func TestOwnerReport_CustomRates(t *testing.T) {
	rr := testutil.ExecuteRequest(newRouter(),
		get("/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31&hourly_rate=30&overtime_multiplier=2", testutil.Admin(1)))

	testutil.AssertStatus(t, rr, http.StatusOK)
	var body report.JSONReport
	testutil.ParseData(t, rr, &body)
	require.NotNil(t, body.Rates)
	assert.Equal(t, "60.00", body.Rates.OvertimeRate.String())
	// 8*30 + 2*60
	assert.Equal(t, "360.00", body.Totals.TotalCost.String())
}

func TestOwnerReport_PDF(t *testing.T) {
	rr := testutil.ExecuteRequest(newRouter(),
		get("/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31&format=pdf", testutil.Admin(1)))

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=owner_report_7_2024-01-01_2024-01-31.pdf", rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF", rr.Body.String()[:4])
}

func TestReport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		actor  *actor.Actor
		status int
		code   string
	}{
		{"bad employee id", "/api/reports/manager/abc?start_date=2024-01-01&end_date=2024-01-31", testutil.Admin(1), http.StatusBadRequest, "BAD_REQUEST"},
		{"missing dates", "/api/reports/manager/7", testutil.Admin(1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad date", "/api/reports/manager/7?start_date=01/01/2024&end_date=2024-01-31", testutil.Admin(1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad format", "/api/reports/manager/7?start_date=2024-01-01&end_date=2024-01-31&format=xml", testutil.Admin(1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad rate", "/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31&hourly_rate=lots", testutil.Admin(1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative rate", "/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31&hourly_rate=-5", testutil.Admin(1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"huge exponent rate", "/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31&hourly_rate=1e999999999", testutil.Admin(1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"tiny exponent rate", "/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31&hourly_rate=1e-999999999", testutil.Admin(1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"rate above bound", "/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31&hourly_rate=10000.01", testutil.Admin(1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"multiplier too precise", "/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31&overtime_multiplier=1.1234567", testutil.Admin(1), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown employee", "/api/reports/manager/8?start_date=2024-01-01&end_date=2024-01-31", testutil.Admin(1), http.StatusNotFound, "NOT_FOUND"},
		{"empty range", "/api/reports/manager/7?start_date=2024-02-01&end_date=2024-02-28", testutil.Admin(1), http.StatusNotFound, "NOT_FOUND"},
		{"reversed range", "/api/reports/manager/7?start_date=2024-01-31&end_date=2024-01-01", testutil.Admin(1), http.StatusNotFound, "NOT_FOUND"},
		{"owner as manager", "/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31", testutil.Manager(2), http.StatusForbidden, "FORBIDDEN"},
		{"foreign employee", "/api/reports/manager/7?start_date=2024-01-01&end_date=2024-01-31", testutil.Employee(3, 9), http.StatusForbidden, "FORBIDDEN"},
		{"owner as employee", "/api/reports/owner/3?start_date=2024-01-01&end_date=2024-01-31", testutil.Employee(3, 3), http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.ExecuteRequest(newRouter(), get(tt.path, tt.actor))
			testutil.AssertStatus(t, rr, tt.status)
			assert.Equal(t, tt.code, testutil.ErrorCode(t, rr))
		})
	}
}

func TestReport_RequiresActor(t *testing.T) {
	for _, path := range []string{
		"/api/reports/manager/7?start_date=2024-01-01&end_date=2024-01-31",
		"/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31",
	} {
		rr := testutil.ExecuteRequest(newRouter(), testutil.NewHTTPRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestOwnerReport_RateBoundsMessage(t *testing.T) {
	rr := testutil.ExecuteRequest(newRouter(),
		get("/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31&hourly_rate=1e999999999&overtime_multiplier=x", testutil.Admin(1)))

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	var body struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	testutil.ParseJSONBody(t, rr, &body)
	assert.Equal(t, "hourly_rate must be at most 10000 with up to 6 decimal places", body.Error.Details["hourly_rate"])
	assert.Equal(t, "overtime_multiplier must be a number", body.Error.Details["overtime_multiplier"])
}

func TestOwnerReport_PreciseMultiplier(t *testing.T) {
	rr := testutil.ExecuteRequest(newRouter(),
		get("/api/reports/owner/7?start_date=2024-01-01&end_date=2024-01-31&hourly_rate=25&overtime_multiplier=1.125", testutil.Admin(1)))

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), `"overtime_multiplier":1.125,"overtime_rate":28.125`)
	assert.Contains(t, rr.Body.String(), `"overtime_cost":56.25`)
}
