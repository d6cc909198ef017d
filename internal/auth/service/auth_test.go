package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/hourbook/hourbook-backend/internal/auth/jwt"
	"github.com/hourbook/hourbook-backend/internal/auth/service"
	"github.com/hourbook/hourbook-backend/internal/user/repository"
	"github.com/hourbook/hourbook-backend/pkg/actor"
	"github.com/hourbook/hourbook-backend/pkg/config"
	"github.com/hourbook/hourbook-backend/pkg/errors"
	"github.com/hourbook/hourbook-backend/pkg/logger"
	"github.com/hourbook/hourbook-backend/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users   map[int64]*repository.User
	changed map[int64]string
}

func (f *fakeUsers) ValidateCredentials(_ context.Context, username, password string) (*repository.User, error) {
	for _, u := range f.users {
		if u.Username == username && password == testutil.DefaultPassword {
			return u, nil
		}
	}
	return nil, errors.InvalidCredentials()
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, errors.NotFound("user")
	}
	return u, nil
}

func (f *fakeUsers) ChangePassword(_ context.Context, userID int64, current, next string) error {
	if current != testutil.DefaultPassword {
		return errors.Unauthorized("").WithKey("errors.wrong_password")
	}
	f.changed[userID] = next
	return nil
}

func newService() (*service.AuthService, *fakeUsers, *jwt.Manager) {
	users := &fakeUsers{
		users: map[int64]*repository.User{
			1: {ID: 1, Username: "admin", Role: actor.RoleAdmin},
			2: {ID: 2, Username: "jdoe", Role: actor.RoleEmployee, EmployeeID: testutil.PtrInt64(4)},
		},
		changed: map[int64]string{},
	}
	tokens := jwt.NewManager(&config.JWTConfig{Secret: "a-test-secret-that-is-long-enough-for-hs256", ExpiresIn: "7d"})
	return service.NewAuthService(users, tokens, logger.Nop()), users, tokens
}

func TestAuthService_Login(t *testing.T) {
	svc, _, tokens := newService()

	resp, err := svc.Login(context.Background(), &service.LoginRequest{Username: "jdoe", Password: testutil.DefaultPassword}, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, int64(2), resp.User.ID)

	claims, err := tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(2), claims.UserID)
	assert.Equal(t, actor.RoleEmployee, claims.Role)
	require.NotNil(t, claims.EmployeeID)
	assert.Equal(t, int64(4), *claims.EmployeeID)
}

func TestAuthService_Login_Invalid(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Login(context.Background(), &service.LoginRequest{Username: "jdoe", Password: "nope"}, "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, errors.StatusCode(err))
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, users, tokens := newService()
	ctx := context.Background()

	token, _, err := tokens.Generate(jwt.Subject{ID: 2, Username: "jdoe", Role: actor.RoleEmployee})
	require.NoError(t, err)

	a, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.UserID)
	require.NotNil(t, a.EmployeeID)

	users.users[2].Role = actor.RoleManager
	a, err = svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, actor.RoleManager, a.Role, "role comes from the stored account, not the token")

	delete(users.users, 2)
	_, err = svc.Authenticate(ctx, token)
	assert.Equal(t, http.StatusUnauthorized, errors.StatusCode(err))

	_, err = svc.Authenticate(ctx, "garbage")
	assert.Equal(t, http.StatusUnauthorized, errors.StatusCode(err))
}

func TestAuthService_Me(t *testing.T) {
	svc, _, _ := newService()

	_, err := svc.Me(context.Background())
	assert.Equal(t, http.StatusUnauthorized, errors.StatusCode(err))

	u, err := svc.Me(actor.WithActor(context.Background(), testutil.Admin(1)))
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc, users, _ := newService()
	ctx := actor.WithActor(context.Background(), testutil.Employee(2, 4))

	err := svc.ChangePassword(ctx, &service.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, errors.StatusCode(err))

	require.NoError(t, svc.ChangePassword(ctx, &service.ChangePasswordRequest{
		CurrentPassword: testutil.DefaultPassword,
		NewPassword:     "secret1",
	}))
	assert.Equal(t, "secret1", users.changed[2])

	err = svc.ChangePassword(context.Background(), &service.ChangePasswordRequest{CurrentPassword: "x", NewPassword: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, errors.StatusCode(err))
}
