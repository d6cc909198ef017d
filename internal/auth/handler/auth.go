package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hourbook/hourbook-backend/internal/auth/middleware"
	"github.com/hourbook/hourbook-backend/internal/auth/service"
	"github.com/hourbook/hourbook-backend/pkg/httputil"
	"github.com/hourbook/hourbook-backend/pkg/logger"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	service *service.AuthService
	limiter *httputil.IPRateLimiter
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler. limiter throttles login
// attempts per client IP; nil disables throttling.
func NewAuthHandler(svc *service.AuthService, limiter *httputil.IPRateLimiter, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		limiter: limiter,
		logger:  log,
	}
}

// Routes mounts the auth endpoints
func (h *AuthHandler) Routes(r chi.Router) {
	if h.limiter != nil {
		r.With(httputil.RateLimit(h.limiter)).Post("/login", h.Login)
	} else {
		r.Post("/login", h.Login)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(h.service))
		r.Get("/me", h.Me)
		r.Post("/logout", h.Logout)
		r.Post("/change-password", h.ChangePassword)
	})
}

// Login handles user login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	response, err := h.service.Login(r.Context(), &req, httputil.ClientIP(r))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, response)
}

// Logout handles user logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context())
	httputil.Message(w, r, "messages.logged_out")
}

// Me returns the current user's information
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context())
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, user)
}

// ChangePassword changes the caller's own password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req service.ChangePasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	if err := h.service.ChangePassword(r.Context(), &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	httputil.Message(w, r, "messages.password_changed")
}
