package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hourbook/hourbook-backend/internal/employee/repository"
	"github.com/hourbook/hourbook-backend/internal/employee/service"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/httputil"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/numeric"
)

// EmployeeRequest is the body of create and update
type EmployeeRequest struct {
	FirstName    string         `json:"first_name" validate:"required,max=100"`
	LastName     string         `json:"last_name" validate:"required,max=100"`
	Email        *string        `json:"email" validate:"omitempty,email,max=255"`
	HourlyRate   *numeric.Fixed `json:"hourly_rate" validate:"omitempty,gte=0"`
	OvertimeRate *numeric.Fixed `json:"overtime_rate" validate:"omitempty,gte=0"`
}

func (req *EmployeeRequest) toEmployee() *repository.Employee {
	email := req.Email
	if email != nil && *email == "" {
		email = nil
	}
	return &repository.Employee{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        email,
		HourlyRate:   req.HourlyRate,
		OvertimeRate: req.OvertimeRate,
	}
}

// EmployeeHandler handles employee endpoints
type EmployeeHandler struct {
	service *service.EmployeeService
	logger  *logger.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(svc *service.EmployeeService, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: svc,
		logger:  log,
	}
}

// Routes mounts the employee endpoints
func (h *EmployeeHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// List lists employees
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := httputil.Pagination(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	employees, total, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, employees, &httputil.Meta{Skip: skip, Limit: limit, Total: total})
}

// Get gets an employee by ID
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	emp, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, emp)
}

// Create creates an employee
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	emp := req.toEmployee()
	if err := h.service.Create(r.Context(), emp); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.Created(w, emp)
}

// Update updates an employee
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	var req EmployeeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	emp := req.toEmployee()
	emp.ID = id
	if err := h.service.Update(r.Context(), emp); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, emp)
}

// Delete deletes an employee
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
		return 0, errors.BadRequest("invalid employee id")
	}
	return id, nil
}
