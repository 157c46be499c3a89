package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicedesk/backend/internal/infrastructure/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-that-is-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-that-is-32-chars-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "invoicedesk-test",
		MaxRefreshCount:        2,
	}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	userID := uuid.New()

	pair, err := svc.GenerateTokenPair(userID, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)

	parsed, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
	assert.Greater(t, claims.RemainingTTL(), 14*time.Minute)
}

func TestJWTService_RejectsWrongTokenType(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	pair, err := svc.GenerateTokenPair(uuid.New(), "a@b.co")
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Same secret for both types still fails on the type claim.
	cfg := testJWTConfig()
	cfg.RefreshSecret = ""
	shared := NewJWTService(cfg)
	pair, err = shared.GenerateTokenPair(uuid.New(), "a@b.co")
	require.NoError(t, err)
	_, err = shared.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }
	pair, err := svc.GenerateTokenPair(uuid.New(), "a@b.co")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_RejectsGarbageAndForeignIssuer(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	_, err := svc.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	cfg := testJWTConfig()
	cfg.Issuer = "someone-else"
	other := NewJWTService(cfg)
	pair, err := other.GenerateTokenPair(uuid.New(), "a@b.co")
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RefreshTokenPair(t *testing.T) {
	svc := NewJWTService(testJWTConfig())
	userID := uuid.New()
	pair, err := svc.GenerateTokenPair(userID, "a@b.co")
	require.NoError(t, err)

	refreshed, old, err := svc.RefreshTokenPair(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 0, old.RefreshCount)

	claims, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.RefreshCount)
	assert.Equal(t, userID.String(), claims.UserID)

	second, _, err := svc.RefreshTokenPair(refreshed.RefreshToken)
	require.NoError(t, err)

	_, _, err = svc.RefreshTokenPair(second.RefreshToken)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)

	_, _, err = svc.RefreshTokenPair(pair.AccessToken)
	assert.Error(t, err)
}
