// Package permissions maps roles to permission strings and checks them with
// wildcard support.
//
// Permission Format:
//   - "*" - Full access (all permissions)
//   - "resource.*" - All actions on a resource (e.g., "worklogs.*")
//   - "resource.action" - Specific action (e.g., "worklogs.read")
package permissions

import (
	"strings"

	"github.com/hourbook/hourbook-backend/pkg/actor"
)

// Permission names checked by handlers and services.
const (
	UsersManage       = "users.manage"
	EmployeesRead     = "employees.read"
	EmployeesWrite    = "employees.write"
	WorkLogsRead      = "worklogs.read"
	WorkLogsWrite     = "worklogs.write"
	AssignmentsManage = "assignments.manage"
	AssignmentsRead   = "assignments.read"
	ReportsManager    = "reports.manager"
	ReportsOwner      = "reports.owner"
	ProfileAll        = "profile.*"
)

// rolePermissions is the static grant table. Row-level scoping (which
// employees a manager may see) is applied separately by the visibility check.
var rolePermissions = map[string][]string{
	actor.RoleAdmin: {"*"},
	actor.RoleManager: {
		EmployeesRead,
		WorkLogsRead,
		WorkLogsWrite,
		AssignmentsRead,
		ReportsManager,
		ProfileAll,
	},
	actor.RoleEmployee: {
		EmployeesRead,
		WorkLogsRead,
		ReportsManager,
		ProfileAll,
	},
}

// ForRole returns the permissions granted to a role, nil for unknown roles.
func ForRole(role string) []string {
	return rolePermissions[role]
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// RoleHas checks a role against a required permission.
func RoleHas(role, required string) bool {
	return HasPermission(ForRole(role), required)
}

// HasPermission checks if the user's permissions include the required permission.
// Supports wildcard matching:
//   - "*" matches everything
//   - "worklogs.*" matches "worklogs.read", "worklogs.write", etc.
//   - Exact match for specific permissions
func HasPermission(userPerms []string, required string) bool {
	if required == "" {
		return true
	}

	for _, p := range userPerms {
		if p == "*" || p == required {
			return true
		}
		if strings.HasSuffix(p, ".*") {
			prefix := strings.TrimSuffix(p, ".*")
			if strings.HasPrefix(required, prefix+".") {
				return true
			}
		}
	}
	return false
}

// HasAnyPermission checks if the user has any of the required permissions.
func HasAnyPermission(userPerms []string, required []string) bool {
	for _, req := range required {
		if HasPermission(userPerms, req) {
			return true
		}
	}
	return false
}
