package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-it/helpdesk/internal/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("unit-secret", 30)

	token, expiresAt, err := tm.GenerateToken("alice", domain.RoleStudent)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, domain.RoleStudent, claims.Role)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenIDsAreUnique(t *testing.T) {
	tm := NewTokenManager("unit-secret", 30)

	first, _, err := tm.GenerateToken("alice", domain.RoleStudent)
	require.NoError(t, err)
	second, _, err := tm.GenerateToken("alice", domain.RoleStudent)
	require.NoError(t, err)

	firstClaims, err := tm.ParseToken(first)
	require.NoError(t, err)
	secondClaims, err := tm.ParseToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 30).GenerateToken("alice", domain.RoleStudent)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 30).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("unit-secret", 30)

	_, err := tm.ParseToken("not-a-token")
	assert.Error(t, err)
	_, err = tm.ParseToken("")
	assert.Error(t, err)
}

func TestTokenManagerDefaultTTL(t *testing.T) {
	tm := NewTokenManager("unit-secret", 0)

	_, expiresAt, err := tm.GenerateToken("alice", domain.RoleStudent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(480*time.Minute), expiresAt, 5*time.Second)
}
