// Package services provides external service integrations and technical concerns like tokens and code generation
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
		nil, // revocations
	)
}

func TestNewTokenService(t *testing.T) {
	t.Run("ValidSymmetricKeyConfiguration", func(t *testing.T) {
		svc, err := createTestTokenService()
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("MissingSecretKey", func(t *testing.T) {
		_, err := NewTokenService(15*time.Minute, 7*24*time.Hour, "test-issuer", "test-audience", false, "", "", "", nil)
		require.Error(t, err)
	})

	t.Run("RSAWithoutKeys", func(t *testing.T) {
		_, err := NewTokenService(15*time.Minute, 7*24*time.Hour, "test-issuer", "test-audience", true, "", "", "", nil)
		require.Error(t, err)
	})
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := svc.GenerateTokens(42)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	accessClaims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 42, accessClaims.UserID)
	assert.Equal(t, "access", accessClaims.TokenType)
	assert.NotEmpty(t, accessClaims.TokenID)
	assert.True(t, accessClaims.ExpiresAt.After(accessClaims.IssuedAt))

	refreshClaims, err := svc.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
	assert.NotEqual(t, accessClaims.TokenID, refreshClaims.TokenID)
}

func TestValidateTokenFailures(t *testing.T) {
	svc, err := createTestTokenService()
	require.NoError(t, err)

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("WrongSigningKey", func(t *testing.T) {
		other, err := NewTokenService(15*time.Minute, 7*24*time.Hour, "test-issuer", "test-audience", false, "", "", "another-secret-key-for-jwt-signing-32ch", nil)
		require.NoError(t, err)

		token, _, err := other.GenerateTokens(1)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expired, err := NewTokenService(-1*time.Minute, 7*24*time.Hour, "test-issuer", "test-audience", false, "", "", "test-secret-key-for-jwt-signing-32-chars", nil)
		require.NoError(t, err)

		token, _, err := expired.GenerateTokens(1)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})
}

func TestRefreshToken(t *testing.T) {
	svc, err := createTestTokenService()
	require.NoError(t, err)

	t.Run("RefreshWithRefreshToken", func(t *testing.T) {
		_, refreshToken, err := svc.GenerateTokens(7)
		require.NoError(t, err)

		newAccess, newRefresh, err := svc.RefreshToken(refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)

		claims, err := svc.ValidateToken(newAccess)
		require.NoError(t, err)
		assert.EqualValues(t, 7, claims.UserID)
	})

	t.Run("AccessTokenCannotRefresh", func(t *testing.T) {
		accessToken, _, err := svc.GenerateTokens(7)
		require.NoError(t, err)

		_, _, err = svc.RefreshToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestRevocationWithoutRedis(t *testing.T) {
	svc, err := createTestTokenService()
	require.NoError(t, err)

	// Without a revocation store nothing is considered revoked
	assert.False(t, svc.IsTokenRevoked("some-token-id"))

	accessToken, _, err := svc.GenerateTokens(1)
	require.NoError(t, err)
	require.NoError(t, svc.RevokeToken(accessToken))

	// The token still validates since revocations are disabled
	_, err = svc.ValidateToken(accessToken)
	assert.NoError(t, err)
}
