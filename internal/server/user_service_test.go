package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/sitevision/internal/config"
	"github.com/jonathan/sitevision/internal/db"
	"github.com/jonathan/sitevision/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPasswordConfig uses the cheapest bcrypt cost to keep tests fast.
func testPasswordConfig() *config.PasswordConfig {
	return &config.PasswordConfig{BcryptCost: 4}
}

func newTestUserService() (*UserService, *mockStore) {
	store := newMockStore()
	return NewUserService(store, testPasswordConfig()), store
}

func TestToAPIUser(t *testing.T) {
	t.Run("valid user", func(t *testing.T) {
		now := time.Now()
		dbUser := &db.User{
			ID:           uuid.New(),
			Name:         "Jane Inspector",
			Email:        "jane@example.com",
			Role:         types.RoleInspector,
			PasswordHash: "hashed-password",
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		apiUser := toAPIUser(dbUser)
		require.NotNil(t, apiUser)
		assert.Equal(t, dbUser.ID, apiUser.ID)
		assert.Equal(t, dbUser.Name, apiUser.Name)
		assert.Equal(t, dbUser.Email, apiUser.Email)
		assert.Equal(t, dbUser.Role, apiUser.Role)
		assert.Equal(t, dbUser.CreatedAt, apiUser.CreatedAt)
		assert.Equal(t, dbUser.UpdatedAt, apiUser.UpdatedAt)
		// types.User has no password hash field to leak
	})

	t.Run("nil user", func(t *testing.T) {
		assert.Nil(t, toAPIUser(nil))
	})
}

func TestUserService_Register(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	user, err := service.Register(ctx, &types.RegisterRequest{
		Name:     "Jane Inspector",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Jane Inspector", user.Name)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, types.RoleInspector, user.Role, "new users start as inspectors")
	assert.NotEqual(t, uuid.Nil, user.ID)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	req := &types.RegisterRequest{
		Name:     "Jane Inspector",
		Email:    "jane@example.com",
		Password: "password123",
	}
	_, err := service.Register(ctx, req)
	require.NoError(t, err)

	_, err = service.Register(ctx, req)
	require.Error(t, err)
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Contains(t, err.Error(), "jane@example.com")
}

func TestUserService_Login(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	registered, err := service.Register(ctx, &types.RegisterRequest{
		Name:     "Jane Inspector",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		user, err := service.Login(ctx, &types.LoginRequest{
			Email:    "jane@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, &types.LoginRequest{
			Email:    "jane@example.com",
			Password: "wrong-password",
		})
		require.Error(t, err)
		var unauthorized *UnauthorizedError
		assert.ErrorAs(t, err, &unauthorized)
		assert.Equal(t, "invalid email or password", err.Error())
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Login(ctx, &types.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		require.Error(t, err)
		// Same generic message as a wrong password, so the endpoint
		// does not reveal which emails are registered.
		assert.Equal(t, "invalid email or password", err.Error())
	})
}

func TestUserService_UpdatePassword(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	registered, err := service.Register(ctx, &types.RegisterRequest{
		Name:     "Jane Inspector",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		err := service.UpdatePassword(ctx, registered.ID, "wrong", "newpassword1")
		require.Error(t, err)
		var unauthorized *UnauthorizedError
		assert.ErrorAs(t, err, &unauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := service.UpdatePassword(ctx, uuid.New(), "password123", "newpassword1")
		require.Error(t, err)
		var notFound *NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("success", func(t *testing.T) {
		err := service.UpdatePassword(ctx, registered.ID, "password123", "newpassword1")
		require.NoError(t, err)

		// Old password no longer works
		_, err = service.Login(ctx, &types.LoginRequest{
			Email:    "jane@example.com",
			Password: "password123",
		})
		require.Error(t, err)

		// New password does
		_, err = service.Login(ctx, &types.LoginRequest{
			Email:    "jane@example.com",
			Password: "newpassword1",
		})
		require.NoError(t, err)
	})
}

func TestUserService_GetUser(t *testing.T) {
	service, _ := newTestUserService()
	ctx := context.Background()

	registered, err := service.Register(ctx, &types.RegisterRequest{
		Name:     "Jane Inspector",
		Email:    "jane@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	user, err := service.GetUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.Email, user.Email)

	_, err = service.GetUser(ctx, uuid.New())
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUserService_ListUsers(t *testing.T) {
	service, store := newTestUserService()
	ctx := context.Background()

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := service.Register(ctx, &types.RegisterRequest{
			Name:     "User",
			Email:    email,
			Password: "password123",
		})
		require.NoError(t, err)
	}

	users, err := service.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	count, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
