package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/testutil"
	"go-storefront/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type accountEnv struct {
	users UserService
	auth  AuthService
	roles repository.RoleRepository
}

func newAccountEnv(t *testing.T) *accountEnv {
	t.Helper()
	db := testutil.OpenDB(t)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	env := &accountEnv{
		users: NewUserService(userRepo, roleRepo, repository.NewPrivilegeRepo(db), nil),
		auth:  NewAuthService(userRepo, jwt.NewManager("test-secret", time.Hour), nil),
		roles: roleRepo,
	}
	require.NoError(t, env.users.Seed(context.Background(), "Admin@Example.com", "secret1"))
	return env
}

func (e *accountEnv) roleID(t *testing.T, code string) uint {
	t.Helper()
	role, err := e.roles.FindByCode(context.Background(), code)
	require.NoError(t, err)
	return role.ID
}

func TestUserService_SeedIsIdempotent(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	require.NoError(t, env.users.Seed(ctx, "admin@example.com", "other"))

	users, err := env.users.GetAllUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.com", users[0].Email)
	assert.Equal(t, model.RoleMasterAdmin, users[0].RoleCode)
	assert.Contains(t, users[0].Privileges, model.PrivUserCreate)

	roles, err := env.users.ListRoles(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, len(model.DefaultRoles))
}

func TestUserService_CreateCashier(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	resp, err := env.users.CreateUser(ctx, &CreateUserRequest{
		Email:    "Kasir@Example.com",
		Password: "kasir123",
		FullName: "Kasir Satu",
		RoleID:   env.roleID(t, model.RoleCashier),
	}, tester)
	require.NoError(t, err)
	assert.Equal(t, "kasir@example.com", resp.Email)
	assert.Equal(t, model.RoleCashier, resp.RoleCode)
	assert.Contains(t, resp.Privileges, model.PrivOrderCreate)
	assert.NotContains(t, resp.Privileges, model.PrivProductCreate)

	_, err = env.users.CreateUser(ctx, &CreateUserRequest{
		Email:    "kasir@example.com",
		Password: "kasir123",
		FullName: "Duplicate",
		RoleID:   env.roleID(t, model.RoleCashier),
	}, tester)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_CreateRejectsUnknownRole(t *testing.T) {
	env := newAccountEnv(t)

	_, err := env.users.CreateUser(context.Background(), &CreateUserRequest{
		Email:    "x@example.com",
		Password: "secret1",
		FullName: "X",
		RoleID:   999,
	}, tester)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestUserService_DeactivateEndsSession(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	created, err := env.users.CreateUser(ctx, &CreateUserRequest{
		Email:    "kasir@example.com",
		Password: "kasir123",
		FullName: "Kasir",
		RoleID:   env.roleID(t, model.RoleCashier),
	}, tester)
	require.NoError(t, err)

	login, err := env.auth.Login(ctx, "kasir@example.com", "kasir123")
	require.NoError(t, err)

	inactive := false
	updated, err := env.users.UpdateUser(ctx, created.ID, &UpdateUserRequest{
		FullName: "Kasir",
		RoleID:   env.roleID(t, model.RoleCashier),
		IsActive: &inactive,
	}, tester)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = env.auth.ValidateToken(ctx, login.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.auth.Login(ctx, "kasir@example.com", "kasir123")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestUserService_DeleteUser(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	created, err := env.users.CreateUser(ctx, &CreateUserRequest{
		Email:    "gone@example.com",
		Password: "secret1",
		FullName: "Gone",
		RoleID:   env.roleID(t, model.RoleAdmin),
	}, tester)
	require.NoError(t, err)

	require.NoError(t, env.users.DeleteUser(ctx, created.ID, tester))
	_, err = env.users.GetUserByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = env.users.DeleteUser(ctx, created.ID, Actor{ID: created.ID.String()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAuthService_LoginReplacesSession(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	first, err := env.auth.Login(ctx, "admin@example.com", "secret1")
	require.NoError(t, err)
	assert.Contains(t, first.Privileges, model.PrivUserCreate)
	assert.NotNil(t, first.User.LastLoginAt)

	valid, err := env.auth.ValidateToken(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", valid.User.Email)

	second, err := env.auth.Login(ctx, "admin@example.com", "secret1")
	require.NoError(t, err)

	_, err = env.auth.ValidateToken(ctx, first.Token)
	assert.True(t, errors.Is(err, ErrSessionReplaced))
	_, err = env.auth.ValidateToken(ctx, second.Token)
	assert.NoError(t, err)
}

func TestAuthService_LoginFailures(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	_, err := env.auth.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.ValidateToken(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_ChangeAndResetPassword(t *testing.T) {
	env := newAccountEnv(t)
	ctx := context.Background()

	login, err := env.auth.Login(ctx, "admin@example.com", "secret1")
	require.NoError(t, err)

	err = env.auth.ChangePassword(ctx, login.User.ID, &ChangePasswordRequest{OldPassword: "bad", NewPassword: "secret2"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, env.auth.ChangePassword(ctx, login.User.ID, &ChangePasswordRequest{OldPassword: "secret1", NewPassword: "secret2"}))
	_, err = env.auth.Login(ctx, "admin@example.com", "secret2")
	require.NoError(t, err)

	relogin, err := env.auth.Login(ctx, "admin@example.com", "secret2")
	require.NoError(t, err)
	require.NoError(t, env.auth.ResetPassword(ctx, "admin@example.com", "secret3"))

	_, err = env.auth.ValidateToken(ctx, relogin.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)
	_, err = env.auth.Login(ctx, "admin@example.com", "secret3")
	assert.NoError(t, err)

	assert.ErrorIs(t, env.auth.ResetPassword(ctx, "admin@example.com", "123"), ErrInvalidInput)
}
