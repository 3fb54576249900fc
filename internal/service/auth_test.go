package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest(username string) types.RegisterRequest {
	return types.RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "correct-horse",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)
	auth := service.NewAuthService(e.db, "test-secret", nil)
	ctx := context.Background()

	user, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	token, err := auth.Login(ctx, "ADA@example.com", "correct-horse")
	require.NoError(t, err)

	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada", claims.Username)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)

	_, err = auth.Login(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = auth.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicatesAndBadInput(t *testing.T) {
	e := newEnv(t)
	auth := service.NewAuthService(e.db, "test-secret", nil)
	ctx := context.Background()

	_, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	_, err = auth.Register(ctx, registerRequest("ada"))
	assert.ErrorIs(t, err, service.ErrUserExists)

	bad := registerRequest("me")
	bad.Email = "not-an-email"
	bad.Password = "short"
	_, err = auth.Register(ctx, bad)
	fields := validationFields(t, err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "password")
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	e := newEnv(t)
	auth := service.NewAuthService(e.db, "test-secret", nil)
	other := service.NewAuthService(e.db, "other-secret", nil)
	ctx := context.Background()

	user, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)
	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)

	_, err = auth.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
	_, err = auth.ValidateToken(ctx, foreign)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}

func TestSetPassword(t *testing.T) {
	e := newEnv(t)
	auth := service.NewAuthService(e.db, "test-secret", nil)
	ctx := context.Background()
	user, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	err = auth.SetPassword(ctx, user.ID, types.SetPasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new-pass"})
	assert.ErrorIs(t, err, service.ErrWrongPassword)

	require.NoError(t, auth.SetPassword(ctx, user.ID, types.SetPasswordRequest{CurrentPassword: "correct-horse", NewPassword: "brand-new-pass"}))

	_, err = auth.Login(ctx, "ada@example.com", "brand-new-pass")
	assert.NoError(t, err)
}

func TestListUsers(t *testing.T) {
	e := newEnv(t)
	auth := service.NewAuthService(e.db, "test-secret", nil)
	for _, name := range []string{"carol", "alice", "bob"} {
		createUser(t, e, name)
	}

	users, total, err := auth.ListUsers(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)

	_, err = auth.GetUserByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestLogoutRevokesToken(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	e := newEnv(t)
	auth := service.NewAuthService(e.db, "test-secret", client)
	ctx := context.Background()
	_, err := auth.Register(ctx, registerRequest("ada"))
	require.NoError(t, err)

	token, err := auth.Login(ctx, "ada@example.com", "correct-horse")
	require.NoError(t, err)
	claims, err := auth.ValidateToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))

	_, err = auth.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, service.ErrInvalidToken)
}
