package handler

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	authmw "github.com/hourbook/hourbook-backend/internal/auth/middleware"
	"github.com/hourbook/hourbook-backend/internal/report"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/httputil"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/numeric"
	"github.com/hourbook/hourbook-backend/pkg/permissions"
	"github.com/shopspring/decimal"
)

// Owner rate overrides are bounded before they reach decimal arithmetic.
const (
	maxRateLength = 32
	maxRateScale  = 6
)

var (
	maxRate = decimal.NewFromInt(10000)

	errNotANumber = stderrors.New("must be a number")
	errRateBounds = stderrors.New("must be at most 10000 with up to 6 decimal places")
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	service  *report.Service
	defaults report.CostConfig
	logger   *logger.Logger
}

// NewReportHandler creates a new report handler. defaults apply when an
// owner report request omits hourly_rate or overtime_multiplier.
func NewReportHandler(svc *report.Service, defaults report.CostConfig, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		service:  svc,
		defaults: defaults,
		logger:   log,
	}
}

// Routes mounts the report endpoints. The actor must already be in the
// request context; each variant requires its own permission.
func (h *ReportHandler) Routes(r chi.Router) {
	r.With(authmw.RequirePermission(permissions.ReportsManager)).
		Get("/manager/{employeeID}", h.Manager)
	r.With(authmw.RequirePermission(permissions.ReportsOwner)).
		Get("/owner/{employeeID}", h.Owner)
}

// Manager returns the hours-only report
// GET /api/reports/manager/{employeeID}?start_date&end_date&format
func (h *ReportHandler) Manager(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	result, err := h.service.ManagerReport(r.Context(), q.employeeID, q.start, q.end, q.format)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	writeResult(w, result)
}

// Owner returns the report with labour costs
// GET /api/reports/owner/{employeeID}?start_date&end_date&format&hourly_rate&overtime_multiplier
func (h *ReportHandler) Owner(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	rates := h.defaults
	details := map[string]string{}
	for name, dst := range map[string]*numeric.Fixed{
		"hourly_rate":         &rates.HourlyRate,
		"overtime_multiplier": &rates.OvertimeMultiplier,
	} {
		v, ok, err := decimalParam(r, name)
		switch {
		case err != nil:
			details[name] = name + " " + err.Error()
		case ok:
			*dst = v
		}
	}
	if len(details) > 0 {
		httputil.ErrorLocalized(w, r, errors.Validation(details))
		return
	}

	result, err := h.service.OwnerReport(r.Context(), q.employeeID, q.start, q.end, q.format, rates)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	writeResult(w, result)
}

type reportQuery struct {
	employeeID int64
	start      time.Time
	end        time.Time
	format     report.Format
}

func parseQuery(r *http.Request) (*reportQuery, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "employeeID"), 10, 64)
	if err != nil || id <= 0 {
		return nil, errors.BadRequest("invalid employee id")
	}

	details := map[string]string{}
	start, err := dateParam(r, "start_date")
	if err != nil {
		details["start_date"] = err.Error()
	}
	end, err := dateParam(r, "end_date")
	if err != nil {
		details["end_date"] = err.Error()
	}
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		details["format"] = "format must be one of: json pdf"
	}
	if len(details) > 0 {
		return nil, errors.Validation(details)
	}

	return &reportQuery{employeeID: id, start: start, end: end, format: format}, nil
}

func dateParam(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, stderrors.New(name + " is required")
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, stderrors.New(name + " must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

func decimalParam(r *http.Request, name string) (numeric.Fixed, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return numeric.Zero, false, nil
	}
	if len(raw) > maxRateLength {
		return numeric.Zero, false, errRateBounds
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return numeric.Zero, false, errNotANumber
	}
	// exponent first: comparing 1e999999999 would materialize every digit
	if exp := d.Exponent(); exp > 8 || exp < -maxRateLength {
		return numeric.Zero, false, errRateBounds
	}
	if d.Abs().GreaterThan(maxRate) || !d.Equal(d.Truncate(maxRateScale)) {
		return numeric.Zero, false, errRateBounds
	}
	return numeric.New(d), true, nil
}

func writeResult(w http.ResponseWriter, result *report.Result) {
	if result.JSON != nil {
		httputil.JSON(w, http.StatusOK, result.JSON)
		return
	}
	httputil.Attachment(w, result.ContentType, result.Filename, result.Document)
}
