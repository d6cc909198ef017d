package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hourbook/hourbook-backend/internal/worklog/repository"
	"github.com/hourbook/hourbook-backend/internal/worklog/service"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/httputil"
	"github.com/hourbook/hourbook-backend/pkg/i18n"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/numeric"
)

// WorkLogRequest is the body of create and update
type WorkLogRequest struct {
	EmployeeID     int64           `json:"employee_id" validate:"required,gt=0"`
	WorkDate       repository.Date `json:"work_date"`
	WorkHours      numeric.Fixed   `json:"work_hours" validate:"gte=0"`
	OvertimeHours  numeric.Fixed   `json:"overtime_hours" validate:"gte=0"`
	VacationHours  numeric.Fixed   `json:"vacation_hours" validate:"gte=0"`
	SickLeaveHours numeric.Fixed   `json:"sick_leave_hours" validate:"gte=0"`
	OtherHours     numeric.Fixed   `json:"other_hours" validate:"gte=0"`
	AbsentHours    numeric.Fixed   `json:"absent_hours" validate:"gte=0"`
	Notes          *string         `json:"notes" validate:"omitempty,max=2000"`
}

func (req *WorkLogRequest) validate() error {
	err := httputil.Validate(req)
	if req.WorkDate.IsZero() {
		details := map[string]string{}
		var appErr *errors.AppError
		if errors.As(err, &appErr) && appErr.Details != nil {
			details = appErr.Details
		}
		details["work_date"] = i18n.T("validation.required", map[string]string{"field": "work_date"})
		return errors.Validation(details)
	}
	return err
}

func (req *WorkLogRequest) toWorkLog() *repository.WorkLog {
	return &repository.WorkLog{
		EmployeeID:     req.EmployeeID,
		WorkDate:       req.WorkDate,
		WorkHours:      req.WorkHours,
		OvertimeHours:  req.OvertimeHours,
		VacationHours:  req.VacationHours,
		SickLeaveHours: req.SickLeaveHours,
		OtherHours:     req.OtherHours,
		AbsentHours:    req.AbsentHours,
		Notes:          req.Notes,
	}
}

// WorkLogHandler handles work log endpoints
type WorkLogHandler struct {
	service *service.WorkLogService
	logger  *logger.Logger
}

// NewWorkLogHandler creates a new work log handler
func NewWorkLogHandler(svc *service.WorkLogService, log *logger.Logger) *WorkLogHandler {
	return &WorkLogHandler{
		service: svc,
		logger:  log,
	}
}

// Routes mounts the work log endpoints
func (h *WorkLogHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/summary", h.Summary)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List lists work logs
// GET /api/work-logs?employee_id&start_date&end_date&skip&limit
func (h *WorkLogHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if filter.Skip, filter.Limit, err = httputil.Pagination(r); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	logs, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, logs, &httputil.Meta{
		Skip:  filter.Skip,
		Limit: filter.Limit,
		Total: total,
	})
}

// Summary totals each hour category over the visible logs
// GET /api/work-logs/summary
func (h *WorkLogHandler) Summary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), filter)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
}

// Get returns one work log
func (h *WorkLogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	wl, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, wl)
}

// Create records a day of hours
func (h *WorkLogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req WorkLogRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	saved, err := h.service.Create(r.Context(), req.toWorkLog())
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.Created(w, saved)
}

// Update replaces a work log
func (h *WorkLogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	var req WorkLogRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	saved, err := h.service.Update(r.Context(), id, req.toWorkLog())
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, saved)
}

// Delete removes a work log
func (h *WorkLogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.NoContent(w)
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("invalid work log id")
	}
	return id, nil
}

func parseFilter(r *http.Request) (repository.Filter, error) {
	var filter repository.Filter
	q := r.URL.Query()
	details := map[string]string{}

	if v := q.Get("employee_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			details["employee_id"] = "employee_id must be an integer"
		} else {
			filter.EmployeeID = &id
		}
	}
	if v := q.Get("start_date"); v != "" {
		d, err := repository.ParseDate(v)
		if err != nil {
			details["start_date"] = err.Error()
		} else {
			filter.StartDate = &d
		}
	}
	if v := q.Get("end_date"); v != "" {
		d, err := repository.ParseDate(v)
		if err != nil {
			details["end_date"] = err.Error()
		} else {
			filter.EndDate = &d
		}
	}

	if len(details) > 0 {
		return filter, errors.Validation(details)
	}
	return filter, nil
}
