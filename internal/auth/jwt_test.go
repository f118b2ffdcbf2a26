package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!", 8*time.Hour)
	staffID := uuid.New()

	token, err := mgr.GenerateToken(staffID, "ops@example.com", "staff")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, staffID.String(), claims.Subject)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "staff", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!", 8*time.Hour)
	other := NewJWTManager("a-different-secret-32-characters!!!", 8*time.Hour)

	token, err := mgr.GenerateToken(uuid.New(), "ops@example.com", "staff")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!", -time.Minute)

	token, err := mgr.GenerateToken(uuid.New(), "ops@example.com", "staff")
	require.NoError(t, err)

	_, err = mgr.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	mgr := NewJWTManager("test-secret-at-least-32-characters!", 8*time.Hour)
	_, err := mgr.ValidateToken("not.a.jwt")
	assert.Error(t, err)
}
