// Package actor identifies the authenticated principal performing an action.
//
// Handlers read it to scope queries, services read it for authorization and
// audit logging. A nil actor means the system itself (CLI, bootstrap).
package actor

import (
	"context"
	"fmt"
)

// Role names stored on users.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// Actor is the authenticated user behind a request.
type Actor struct {
	UserID     int64  `json:"id"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
}

// IsAdmin reports whether the actor has the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// IsManager reports whether the actor has the manager role.
func (a *Actor) IsManager() bool {
	return a != nil && a.Role == RoleManager
}

// OwnsEmployee reports whether the actor is linked to the given employee record.
func (a *Actor) OwnsEmployee(employeeID int64) bool {
	return a != nil && a.EmployeeID != nil && *a.EmployeeID == employeeID
}

// IsSystem returns true if the actor represents the system.
func (a *Actor) IsSystem() bool {
	return a == nil
}

// String returns a string representation of the actor for logging
func (a *Actor) String() string {
	if a == nil {
		return "system"
	}
	return fmt.Sprintf("%s#%d (%s)", a.Username, a.UserID, a.Role)
}

type contextKey string

const actorContextKey contextKey = "actor"

// FromContext retrieves the Actor from the context.
// Returns nil if no actor is present (e.g., system operations).
func FromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(actorContextKey).(*Actor)
	return a
}

// WithActor returns a new context with the Actor attached.
func WithActor(ctx context.Context, a *Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorContextKey, a)
}
