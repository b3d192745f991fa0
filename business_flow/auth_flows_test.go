package businessflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/urlite/urlite/app/dto"
	"github.com/urlite/urlite/app/services"
	"github.com/urlite/urlite/utils"
)

func newTestTokenService(t *testing.T) services.TokenService {
	t.Helper()
	svc, err := services.NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
		nil,
	)
	require.NoError(t, err)
	return svc
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessfulSignup", func(t *testing.T) {
		userRepo := newFakeUserRepository()
		flow := NewSignupFlow(userRepo)

		result, err := flow.Signup(ctx, &dto.SignupRequest{
			Name:            "Jane Doe",
			Email:           "Jane.Doe@Example.com",
			Password:        "SecurePass123!",
			ConfirmPassword: "SecurePass123!",
		}, NewClientMetadata("127.0.0.1", "test-agent"))
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, "Jane Doe", result.User.Name)
		assert.Equal(t, "jane.doe@example.com", result.User.Email)
		assert.True(t, result.User.IsActive)
		assert.NotEmpty(t, result.User.UUID)

		stored, err := userRepo.ByEmail(ctx, "jane.doe@example.com")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("SecurePass123!")))
	})

	t.Run("DuplicateEmailRejected", func(t *testing.T) {
		userRepo := newFakeUserRepository()
		flow := NewSignupFlow(userRepo)

		req := &dto.SignupRequest{
			Name:            "Jane Doe",
			Email:           "jane@example.com",
			Password:        "SecurePass123!",
			ConfirmPassword: "SecurePass123!",
		}
		_, err := flow.Signup(ctx, req, nil)
		require.NoError(t, err)

		_, err = flow.Signup(ctx, req, nil)
		require.Error(t, err)
		assert.True(t, IsEmailAlreadyExists(err))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (LoginFlow, *fakeUserRepository) {
		userRepo := newFakeUserRepository()
		signup := NewSignupFlow(userRepo)
		_, err := signup.Signup(ctx, &dto.SignupRequest{
			Name:            "Jane Doe",
			Email:           "jane@example.com",
			Password:        "SecurePass123!",
			ConfirmPassword: "SecurePass123!",
		}, nil)
		require.NoError(t, err)
		return NewLoginFlow(userRepo, newTestTokenService(t)), userRepo
	}

	t.Run("SuccessfulLogin", func(t *testing.T) {
		flow, userRepo := setup(t)

		result, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "JANE@example.com",
			Password: "SecurePass123!",
		}, NewClientMetadata("127.0.0.1", "test-agent"))
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.NotEmpty(t, result.Session.AccessToken)
		assert.NotEmpty(t, result.Session.RefreshToken)
		assert.Equal(t, "Bearer", result.Session.TokenType)
		assert.Equal(t, utils.AccessTokenTTLSeconds, result.Session.ExpiresIn)
		require.NotNil(t, result.User.LastLoginAt)

		stored, err := userRepo.ByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		flow, _ := setup(t)

		_, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "SecurePass123!",
		}, nil)
		require.Error(t, err)
		assert.True(t, IsUserNotFound(err))
	})

	t.Run("WrongPassword", func(t *testing.T) {
		flow, _ := setup(t)

		_, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "jane@example.com",
			Password: "WrongPass123!",
		}, nil)
		require.Error(t, err)
		assert.True(t, IsIncorrectPassword(err))
	})

	t.Run("InactiveAccount", func(t *testing.T) {
		flow, userRepo := setup(t)

		stored, err := userRepo.ByEmail(ctx, "jane@example.com")
		require.NoError(t, err)
		stored.IsActive = utils.ToPtr(false)
		require.NoError(t, userRepo.Save(ctx, stored))

		_, err = flow.Login(ctx, &dto.LoginRequest{
			Email:    "jane@example.com",
			Password: "SecurePass123!",
		}, nil)
		require.Error(t, err)
		assert.True(t, IsAccountInactive(err))
	})

	t.Run("RefreshRotatesTokens", func(t *testing.T) {
		flow, _ := setup(t)

		login, err := flow.Login(ctx, &dto.LoginRequest{
			Email:    "jane@example.com",
			Password: "SecurePass123!",
		}, nil)
		require.NoError(t, err)

		refreshed, err := flow.Refresh(ctx, &dto.RefreshTokenRequest{
			RefreshToken: login.Session.RefreshToken,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.Session.AccessToken)
		assert.NotEqual(t, login.Session.AccessToken, refreshed.Session.AccessToken)
	})
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepository()
	signup := NewSignupFlow(userRepo)
	created, err := signup.Signup(ctx, &dto.SignupRequest{
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Password:        "SecurePass123!",
		ConfirmPassword: "SecurePass123!",
	}, nil)
	require.NoError(t, err)

	flow := NewProfileFlow(userRepo)

	result, err := flow.GetProfile(ctx, created.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", result.User.Email)

	_, err = flow.GetProfile(ctx, 999)
	require.Error(t, err)
	assert.True(t, IsUserNotFound(err))

	_, err = flow.GetProfile(ctx, 0)
	require.Error(t, err)
	assert.True(t, IsUserNotFound(err))
}
