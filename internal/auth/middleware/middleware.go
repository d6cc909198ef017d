// Package middleware guards routes with bearer-token authentication
// and role or permission checks.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/httputil"
	"github.com/hourbook/hourbook-backend/pkg/permissions"
)

// Authenticator resolves a bearer token to the acting user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*actor.Actor, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// attaches the resolved actor to the request context.
func Authenticate(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				httputil.ErrorLocalized(w, r, errors.Unauthorized(""))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
				httputil.ErrorLocalized(w, r, errors.Unauthorized(""))
				return
			}

			a, err := auth.Authenticate(r.Context(), parts[1])
			if err != nil {
				httputil.ErrorLocalized(w, r, err)
				return
			}

			httputil.RecordActor(r.Context(), a)
			next.ServeHTTP(w, r.WithContext(actor.WithActor(r.Context(), a)))
		})
	}
}

// RequireRole lets through actors holding one of roles
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := actor.FromContext(r.Context())
			if a == nil {
				httputil.ErrorLocalized(w, r, errors.Unauthorized(""))
				return
			}

			for _, role := range roles {
				if a.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			httputil.ErrorLocalized(w, r, errors.Forbidden(""))
		})
	}
}

// RequirePermission lets through actors whose role grants perm
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a := actor.FromContext(r.Context())
			if a == nil {
				httputil.ErrorLocalized(w, r, errors.Unauthorized(""))
				return
			}
			if !permissions.RoleHas(a.Role, perm) {
				httputil.ErrorLocalized(w, r, errors.Forbidden(""))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
