package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	tokenStr, expiresAt, err := tm.GenerateToken("profile-1", domain.RoleStaff)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "profile-1", claims.ProfileID)
	assert.Equal(t, domain.RoleStaff, claims.Role)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", 30)
	verifier := NewTokenManager("secret-b", 30)

	tokenStr, _, err := issuer.GenerateToken("profile-1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.ParseToken(tokenStr)
	require.Error(t, err)
}

func TestParseToken_RejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 30)

	_, err := tm.ParseToken("not-a-jwt")
	require.Error(t, err)
}

func TestNewTokenManager_DefaultsTTL(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)

	_, expiresAt, err := tm.GenerateToken("profile-1", domain.RoleStudent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}
