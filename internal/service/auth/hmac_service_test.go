package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dimitry-co/ai-study-buddy/internal/config"
)

const testSecret = "test-jwt-secret-at-least-32-chars-long"

func newTestService(t *testing.T) *hmacService {
	t.Helper()
	svc, err := NewService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc.(*hmacService)
}

func TestNewServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewService(config.AuthConfig{
		JWTSecret:            "too-short",
		TokenLifetimeMinutes: 60,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 characters")
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID, "user@example.com")
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(token, ".")))

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.timeFunc = func() time.Time { return issuedAt }
	token, err := svc.GenerateToken(context.Background(), uuid.New(), "user@example.com")
	require.NoError(t, err)

	// validate well past the lifetime plus the clock skew allowance
	svc.timeFunc = time.Now
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWithinClockSkew(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	issuedAt := time.Now()
	svc.timeFunc = func() time.Time { return issuedAt }
	token, err := svc.GenerateToken(context.Background(), uuid.New(), "user@example.com")
	require.NoError(t, err)

	// one minute past expiry is still inside the 2-minute skew window
	svc.timeFunc = func() time.Time { return issuedAt.Add(61 * time.Minute) }
	_, err = svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestValidateTokenMalformed(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongKey(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	token, err := svc.GenerateToken(context.Background(), uuid.New(), "user@example.com")
	require.NoError(t, err)

	other, err := NewService(config.AuthConfig{
		JWTSecret:            "another-jwt-secret-at-least-32-chars!!",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
