package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-must-be-at-least-32-characters-long"

func newTestJWTManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewJWTManager_ShortSecret(t *testing.T) {
	_, err := NewJWTManager("too-short", time.Minute, time.Hour)
	assert.ErrorIs(t, err, ErrShortSecret)
}

func TestJWTManager_GenerateToken(t *testing.T) {
	m := newTestJWTManager(t)

	tests := []struct {
		name      string
		userID    string
		username  string
		role      string
		wantError bool
	}{
		{"valid admin token", "user123", "alice", RoleAdmin, false},
		{"valid viewer token", "user456", "bob", RoleViewer, false},
		{"empty userID", "", "charlie", RoleEditor, true},
		{"empty username", "user789", "", RoleEditor, true},
		{"empty role", "user101", "dave", "", true},
		{"invalid role", "user102", "eve", "root", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := m.GenerateToken(tt.userID, tt.username, tt.role)
			if tt.wantError {
				assert.Error(t, err)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}

func TestJWTManager_ValidateToken(t *testing.T) {
	m := newTestJWTManager(t)
	ctx := context.Background()

	token, err := m.GenerateToken("user123", "alice", RoleEditor)
	require.NoError(t, err)

	claims, err := m.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, RoleEditor, claims.Role)

	_, err = m.ValidateToken(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ValidateToken(ctx, "not.a.token")
	assert.Error(t, err)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	m, err := NewJWTManager(testSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := m.GenerateToken("user123", "alice", RoleEditor)
	require.NoError(t, err)

	_, err = m.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	m := newTestJWTManager(t)
	other, err := NewJWTManager("another-secret-key-that-is-32-chars-x", time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := m.GenerateToken("user123", "alice", RoleEditor)
	require.NoError(t, err)

	_, err = other.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestJWTManager_RefreshTokenFlow(t *testing.T) {
	m := newTestJWTManager(t)

	refresh, err := m.GenerateRefreshToken("user123")
	require.NoError(t, err)

	userID, err := m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "user123", userID)

	// An access token is not a refresh token
	access, err := m.GenerateToken("user123", "alice", RoleEditor)
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.Error(t, err)

	// And a refresh token is not an access token
	_, err = m.ValidateToken(context.Background(), refresh)
	assert.Error(t, err)
}
