package utils

import (
	"testing"
	"time"

	"flowsite-api/core/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T, secret string) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", secret)
	_, err := config.Load()
	require.NoError(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	loadTestConfig(t, "test-secret")

	userID := uuid.New()
	email := "staff@flowsuite.io"
	token, err := GenerateToken(userID, &email, "staff", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateAndParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, email, claims.Email)
	assert.Equal(t, "staff", claims.Purpose)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestExpiredTokenRejected(t *testing.T) {
	loadTestConfig(t, "test-secret")

	token, err := GenerateToken(uuid.New(), nil, "staff", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAndParseToken(token)
	assert.Error(t, err)
}

func TestTokenSignedWithOtherSecretRejected(t *testing.T) {
	loadTestConfig(t, "first-secret")
	token, err := GenerateToken(uuid.New(), nil, "staff", time.Hour)
	require.NoError(t, err)

	loadTestConfig(t, "second-secret")
	_, err = ValidateAndParseToken(token)
	assert.Error(t, err)
}
