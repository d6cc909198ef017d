package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hourbook/hourbook-backend/internal/assignment/service"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/httputil"
	"github.com/hourbook/hourbook-backend/pkg/i18n"
	"github.com/hourbook/hourbook-backend/pkg/logger"
)

// CreateAssignmentRequest is the body of POST /api/assignments
type CreateAssignmentRequest struct {
	ManagerUserID int64 `json:"manager_user_id" validate:"required,gt=0"`
	EmployeeID    int64 `json:"employee_id" validate:"required,gt=0"`
}

// AssignmentHandler handles assignment endpoints
type AssignmentHandler struct {
	service *service.AssignmentService
	logger  *logger.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(svc *service.AssignmentService, log *logger.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: svc,
		logger:  log,
	}
}

// Routes mounts the assignment endpoints
func (h *AssignmentHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/manager/{managerID}", h.ListForManager)
	r.Delete("/{id}", h.Delete)
}

// List lists every assignment
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.service.List(r.Context())
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, assignments)
}

// ListForManager lists the assignments of one manager
func (h *AssignmentHandler) ListForManager(w http.ResponseWriter, r *http.Request) {
	managerID, err := pathID(r, "managerID")
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	assignments, err := h.service.ListForManager(r.Context(), managerID)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, assignments)
}

// Create assigns an employee to a manager
func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAssignmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	a, err := h.service.Create(r.Context(), req.ManagerUserID, req.EmployeeID)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.Created(w, a)
}

// Delete removes an assignment
func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.Message(w, r, "messages.deleted", map[string]string{
		"resource": i18n.TFromContext(r.Context(), "resources.assignment"),
	})
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("invalid " + name)
	}
	return id, nil
}
