package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hourbook/hourbook-backend/internal/user/service"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/httputil"
	"github.com/hourbook/hourbook-backend/pkg/i18n"
	"github.com/hourbook/hourbook-backend/pkg/logger"
)

// CreateUserRequest is the body of POST /api/users
type CreateUserRequest struct {
	Username   string `json:"username" validate:"required,username"`
	Password   string `json:"password" validate:"required,max=72,password"`
	Role       string `json:"role" validate:"required,oneof=admin manager employee"`
	EmployeeID *int64 `json:"employee_id" validate:"omitempty,gt=0"`
}

// UpdateUserRequest is the body of PUT /api/users/{id}.
// Sending "employee_id": null unlinks the employee record.
type UpdateUserRequest struct {
	Role       *string    `json:"role" validate:"omitempty,oneof=admin manager employee"`
	EmployeeID OptionalID `json:"employee_id"`
}

// SetPasswordRequest is the body of PUT /api/users/{id}/password
type SetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,max=72,password"`
}

// OptionalID distinguishes an absent JSON member from an explicit null
type OptionalID struct {
	Set   bool
	Value *int64
}

// UnmarshalJSON implements json.Unmarshaler
func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var id int64
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}

// UserHandler handles user account endpoints
type UserHandler struct {
	service *service.UserService
	logger  *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(svc *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service: svc,
		logger:  log,
	}
}

// Routes mounts the user endpoints
func (h *UserHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/password", h.SetPassword)
}

// List lists user accounts
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, err := httputil.Pagination(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	users, total, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, users, &httputil.Meta{Skip: skip, Limit: limit, Total: total})
}

// Get gets a user by ID
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, user)
}

// Create creates a user account
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	user, err := h.service.Create(r.Context(), service.CreateUserInput{
		Username:   req.Username,
		Password:   req.Password,
		Role:       req.Role,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.Created(w, user)
}

// Update changes a user's role or employee link
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	var req UpdateUserRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	in := service.UpdateUserInput{Role: req.Role}
	if req.EmployeeID.Set {
		in.EmployeeID = req.EmployeeID.Value
		in.ClearEmployee = req.EmployeeID.Value == nil
	}

	user, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.JSON(w, http.StatusOK, user)
}

// Delete removes a user account
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.Message(w, r, "messages.deleted", map[string]string{
		"resource": i18n.TFromContext(r.Context(), "resources.user"),
	})
}

// SetPassword replaces a user's password
func (h *UserHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	var req SetPasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	if err := h.service.SetPassword(r.Context(), id, req.NewPassword); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.Message(w, r, "messages.password_changed")
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("invalid user id")
	}
	return id, nil
}
