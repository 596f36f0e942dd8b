package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "test-access-secret-key-for-testing-purposes"
	testRefreshSecret = "test-refresh-secret-key-for-testing-purposes"
)

func TestNewService(t *testing.T) {
	service := NewService(
		testAccessSecret,
		testRefreshSecret,
		time.Hour,
		24*time.Hour,
	)

	assert.NotNil(t, service)
	assert.Equal(t, testAccessSecret, service.accessSecret)
	assert.Equal(t, testRefreshSecret, service.refreshSecret)
	assert.Equal(t, time.Hour, service.accessTokenExpiry)
	assert.Equal(t, 24*time.Hour, service.refreshTokenExpiry)
}

func TestGenerateAccessToken(t *testing.T) {
	service := NewService(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)

	token, err := service.GenerateAccessToken(42, "jane@example.com", "agent")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, "42", claims.Subject)
}

func TestGenerateRefreshToken(t *testing.T) {
	service := NewService(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)

	token, err := service.GenerateRefreshToken(42, "jane@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateAccessToken(t *testing.T) {
	service := NewService(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)

	t.Run("Valid token", func(t *testing.T) {
		token, err := service.GenerateAccessToken(7, "admin@example.com", "admin")
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.UserID)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("Refresh token rejected as access token", func(t *testing.T) {
		token, err := service.GenerateRefreshToken(7, "admin@example.com")
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Malformed token", func(t *testing.T) {
		claims, err := service.ValidateAccessToken("not.a.token")
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Wrong secret", func(t *testing.T) {
		other := NewService("different-secret", testRefreshSecret, time.Hour, 24*time.Hour)
		token, err := other.GenerateAccessToken(7, "admin@example.com", "admin")
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Expired token", func(t *testing.T) {
		short := NewService(testAccessSecret, testRefreshSecret, -time.Minute, 24*time.Hour)
		token, err := short.GenerateAccessToken(7, "admin@example.com", "admin")
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})

	t.Run("Wrong signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7})
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		claims, err := service.ValidateAccessToken(tokenString)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestValidateRefreshToken(t *testing.T) {
	service := NewService(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)

	t.Run("Access token rejected as refresh token", func(t *testing.T) {
		token, err := service.GenerateAccessToken(7, "admin@example.com", "admin")
		require.NoError(t, err)

		claims, err := service.ValidateRefreshToken(token)
		assert.Error(t, err)
		assert.Nil(t, claims)
	})
}

func TestIsTokenExpired(t *testing.T) {
	service := NewService(testAccessSecret, testRefreshSecret, time.Hour, 24*time.Hour)

	t.Run("Fresh token", func(t *testing.T) {
		token, err := service.GenerateAccessToken(7, "admin@example.com", "admin")
		require.NoError(t, err)
		assert.False(t, service.IsTokenExpired(token))
	})

	t.Run("Expired token", func(t *testing.T) {
		short := NewService(testAccessSecret, testRefreshSecret, -time.Minute, 24*time.Hour)
		token, err := short.GenerateAccessToken(7, "admin@example.com", "admin")
		require.NoError(t, err)
		assert.True(t, service.IsTokenExpired(token))
	})

	t.Run("Garbage token", func(t *testing.T) {
		assert.True(t, service.IsTokenExpired("garbage"))
	})
}
