package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActor_Roles(t *testing.T) {
	empID := int64(7)
	a := &Actor{UserID: 3, Username: "jdoe", Role: RoleEmployee, EmployeeID: &empID}

	assert.False(t, a.IsAdmin())
	assert.False(t, a.IsManager())
	assert.True(t, a.OwnsEmployee(7))
	assert.False(t, a.OwnsEmployee(8))
	assert.Equal(t, "jdoe#3 (employee)", a.String())

	var none *Actor
	assert.True(t, none.IsSystem())
	assert.False(t, none.OwnsEmployee(7))
	assert.Equal(t, "system", none.String())
}

func TestContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	a := &Actor{UserID: 1, Username: "admin", Role: RoleAdmin}
	ctx := WithActor(context.Background(), a)
	assert.Same(t, a, FromContext(ctx))
}
