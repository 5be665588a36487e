package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	manager := NewManager("test-secret", time.Hour, 24*time.Hour)

	token, err := manager.Generate(42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Nickname)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
}

func TestVerify_WrongSecret(t *testing.T) {
	manager := NewManager("test-secret", time.Hour, 24*time.Hour)
	other := NewManager("other-secret", time.Hour, 24*time.Hour)

	token, err := manager.Generate(1, "bob")
	require.NoError(t, err)

	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Expired(t *testing.T) {
	manager := NewManager("test-secret", -time.Minute, 24*time.Hour)

	token, err := manager.Generate(1, "bob")
	require.NoError(t, err)

	_, err = manager.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerify_Garbage(t *testing.T) {
	manager := NewManager("test-secret", time.Hour, 24*time.Hour)

	_, err := manager.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRefresh(t *testing.T) {
	manager := NewManager("test-secret", time.Hour, 24*time.Hour)

	refresh, err := manager.GenerateRefresh(42)
	require.NoError(t, err)

	claims, err := manager.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)

	// access 토큰으로는 재발급할 수 없다
	access, err := manager.Generate(42, "alice")
	require.NoError(t, err)
	_, err = manager.VerifyRefresh(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
