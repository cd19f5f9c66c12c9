package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore_CreateUser(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		role     string
		wantErr  error
	}{
		{"valid editor", "alice", "password123", RoleEditor, nil},
		{"valid admin", "bob-admin", "password123", RoleAdmin, nil},
		{"username too short", "ab", "password123", RoleEditor, ErrInvalidUsername},
		{"username with spaces", "bad user", "password123", RoleEditor, ErrInvalidUsername},
		{"empty password", "charlie", "", RoleEditor, ErrEmptyPassword},
		{"weak password", "charlie", "short", RoleEditor, ErrWeakPassword},
		{"bogus role", "charlie", "password123", "superuser", ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewUserStore()
			user, err := store.CreateUser(tt.username, tt.password, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, user.ID)
			assert.Equal(t, tt.username, user.Username)
			// Hash must never equal the raw password
			assert.NotEqual(t, tt.password, user.PasswordHash)
		})
	}
}

func TestUserStore_DuplicateUsername(t *testing.T) {
	store := NewUserStore()
	_, err := store.CreateUser("alice", "password123", RoleEditor)
	require.NoError(t, err)

	_, err = store.CreateUser("alice", "different456", RoleEditor)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestUserStore_Authenticate(t *testing.T) {
	store := NewUserStore()
	_, err := store.CreateUser("alice", "password123", RoleEditor)
	require.NoError(t, err)

	user, err := store.Authenticate("alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = store.Authenticate("alice", "wrongpass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown users get the same error as wrong passwords
	_, err = store.Authenticate("nobody", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserStore_Lookups(t *testing.T) {
	store := NewUserStore()
	created, err := store.CreateUser("alice", "password123", RoleViewer)
	require.NoError(t, err)

	byName, err := store.GetUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byID, err := store.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	_, err = store.GetUserByUsername("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserStore_DeleteUser(t *testing.T) {
	store := NewUserStore()
	user, err := store.CreateUser("alice", "password123", RoleEditor)
	require.NoError(t, err)

	require.NoError(t, store.DeleteUser(user.ID))
	_, err = store.GetUserByID(user.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)

	// Username is freed for reuse
	_, err = store.CreateUser("alice", "password123", RoleEditor)
	assert.NoError(t, err)
}

func TestUserStore_Persistence(t *testing.T) {
	dir := t.TempDir()

	store := NewUserStore()
	created, err := store.CreateUser("alice", "password123", RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, store.SaveUsers(dir))

	loaded := NewUserStore()
	require.NoError(t, loaded.LoadUsers(dir))

	user, err := loaded.GetUserByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, RoleAdmin, user.Role)

	// Password still verifies against the persisted hash
	_, err = loaded.Authenticate("alice", "password123")
	assert.NoError(t, err)
}

func TestUserStore_LoadMissingFile(t *testing.T) {
	store := NewUserStore()
	assert.NoError(t, store.LoadUsers(t.TempDir()))
	assert.Equal(t, 0, store.Count())
}
