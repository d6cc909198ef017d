package report_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/hourbook/hourbook-backend/internal/events"
	"github.com/hourbook/hourbook-backend/internal/report"
	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/messaging"
	"github.com/hourbook/hourbook-backend/pkg/numeric"
	"github.com/hourbook/hourbook-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory map[int64]report.Employee

func (f fakeDirectory) ReportEmployee(_ context.Context, id int64) (report.Employee, error) {
	emp, ok := f[id]
	if !ok {
		return report.Employee{}, errors.NotFound("employee")
	}
	return emp, nil
}

type fakeLogs map[int64][]report.Entry

func (f fakeLogs) ReportEntries(_ context.Context, id int64, start, end time.Time) ([]report.Entry, error) {
	var out []report.Entry
	for _, e := range f[id] {
		if !e.WorkDate.Before(start) && !e.WorkDate.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeAccess grants managers the employees listed for them.
type fakeAccess map[int64][]int64

func (f fakeAccess) CanView(_ context.Context, a *actor.Actor, employeeID int64) (bool, error) {
	if a.IsAdmin() || a.OwnsEmployee(employeeID) {
		return true, nil
	}
	for _, id := range f[a.UserID] {
		if id == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(pub *testutil.MockPublisher) *report.Service {
	return report.NewService(
		fakeDirectory{alice.ID: alice},
		fakeLogs{alice.ID: {
			{WorkDate: jan1, Hours: hours("8", "2", "0", "0", "0", "0")},
			{WorkDate: jan2, Hours: hours("6", "0", "0", "0", "0", "0")},
		}},
		fakeAccess{20: {alice.ID}},
		report.NewPDFRenderer(),
		events.NewPublisher(pub, nil),
		logger.Nop(),
	)
}

func defaultRates() report.CostConfig {
	return report.CostConfig{HourlyRate: report.DefaultHourlyRate, OvertimeMultiplier: report.DefaultOvertimeMultiplier}
}

func TestService_ManagerReport_Access(t *testing.T) {
	tests := []struct {
		name   string
		actor  *actor.Actor
		status int
	}{
		{"system", nil, 0},
		{"admin", testutil.Admin(1), 0},
		{"assigned manager", testutil.Manager(20), 0},
		{"other manager", testutil.Manager(21), http.StatusForbidden},
		{"own employee record", testutil.Employee(30, alice.ID), 0},
		{"other employee", testutil.Employee(31, 99), http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(testutil.NewMockPublisher())
			ctx := context.Background()
			if tt.actor != nil {
				ctx = actor.WithActor(ctx, tt.actor)
			}

			result, err := svc.ManagerReport(ctx, alice.ID, jan1, jan31, report.FormatJSON)
			if tt.status != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.status, errors.StatusCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "16.00", result.JSON.Totals.TotalHours.String())
		})
	}
}

func TestService_OwnerReport_AdminOnly(t *testing.T) {
	svc := newTestService(testutil.NewMockPublisher())

	for _, a := range []*actor.Actor{testutil.Manager(20), testutil.Employee(30, alice.ID)} {
		ctx := actor.WithActor(context.Background(), a)
		_, err := svc.OwnerReport(ctx, alice.ID, jan1, jan31, report.FormatJSON, defaultRates())
		assert.Equal(t, http.StatusForbidden, errors.StatusCode(err), a.String())
	}

	ctx := actor.WithActor(context.Background(), testutil.Admin(1))
	result, err := svc.OwnerReport(ctx, alice.ID, jan1, jan1, report.FormatJSON, defaultRates())
	require.NoError(t, err)
	assert.Equal(t, "275.00", result.JSON.Totals.TotalCost.String())
}

func TestService_NotFound(t *testing.T) {
	svc := newTestService(testutil.NewMockPublisher())
	ctx := actor.WithActor(context.Background(), testutil.Admin(1))

	_, err := svc.ManagerReport(ctx, 404, jan1, jan31, report.FormatJSON)
	assert.Equal(t, http.StatusNotFound, errors.StatusCode(err))

	// reversed range matches nothing
	_, err = svc.ManagerReport(ctx, alice.ID, jan31, jan1, report.FormatJSON)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errors.StatusCode(err))
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "errors.no_report_data", appErr.MessageKey)
}

func TestService_NegativeRate(t *testing.T) {
	svc := newTestService(testutil.NewMockPublisher())

	rates := defaultRates()
	rates.HourlyRate = numeric.MustParse("-1")
	_, err := svc.OwnerReport(context.Background(), alice.ID, jan1, jan31, report.FormatJSON, rates)
	assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
}

func TestService_PDF(t *testing.T) {
	pub := testutil.NewMockPublisher()
	svc := newTestService(pub)

	result, err := svc.OwnerReport(context.Background(), alice.ID, jan1, jan31, report.FormatPDF, defaultRates())
	require.NoError(t, err)

	assert.Nil(t, result.JSON)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "owner_report_7_2024-01-01_2024-01-31.pdf", result.Filename)
	assert.Equal(t, "%PDF", string(result.Document[:4]))

	pub.AssertEventPublished(t, messaging.EventReportGenerated)
	ev := pub.Events()[0].Payload.(messaging.ReportGeneratedEvent)
	assert.Equal(t, "owner", ev.Variant)
	assert.Equal(t, "pdf", ev.Format)
}

func TestParseFormat(t *testing.T) {
	f, err := report.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, report.FormatJSON, f)

	f, err = report.ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, report.FormatPDF, f)

	_, err = report.ParseFormat("xlsx")
	assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
}
