package service

import (
	"context"

	"github.com/hourbook/hourbook-backend/pkg/actor"
)

// AssignmentLookup answers manager-to-employee questions
type AssignmentLookup interface {
	IsAssigned(ctx context.Context, managerUserID, employeeID int64) (bool, error)
	EmployeeIDs(ctx context.Context, managerUserID int64) ([]int64, error)
}

// Visibility decides which employees an actor may see.
//
//   - system (nil actor) and admins see everyone
//   - managers see the employees assigned to them
//   - employees see their own record only
type Visibility struct {
	assignments AssignmentLookup
}

// NewVisibility creates the visibility check
func NewVisibility(assignments AssignmentLookup) *Visibility {
	return &Visibility{assignments: assignments}
}

// CanView reports whether a may read the employee's records
func (v *Visibility) CanView(ctx context.Context, a *actor.Actor, employeeID int64) (bool, error) {
	switch {
	case a.IsSystem(), a.IsAdmin():
		return true, nil
	case a.IsManager():
		return v.assignments.IsAssigned(ctx, a.UserID, employeeID)
	default:
		return a.OwnsEmployee(employeeID), nil
	}
}

// VisibleEmployees lists the employees a may see, nil meaning all of them
func (v *Visibility) VisibleEmployees(ctx context.Context, a *actor.Actor) ([]int64, error) {
	switch {
	case a.IsSystem(), a.IsAdmin():
		return nil, nil
	case a.IsManager():
		return v.assignments.EmployeeIDs(ctx, a.UserID)
	case a.EmployeeID != nil:
		return []int64{*a.EmployeeID}, nil
	default:
		return []int64{}, nil
	}
}
