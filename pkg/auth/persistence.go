package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const usersFileName = "users.json"

// persistedUser includes the password hash for persistence
type persistedUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	CreatedAt    int64  `json:"created_at"`
}

// SaveUsers persists all users to disk
func (s *UserStore) SaveUsers(dataDir string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	users := make([]*persistedUser, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, &persistedUser{
			ID:           user.ID,
			Username:     user.Username,
			PasswordHash: user.PasswordHash,
			Role:         user.Role,
			CreatedAt:    user.CreatedAt,
		})
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}

	// Restrictive permissions: the file contains password hashes
	filePath := filepath.Join(dataDir, usersFileName)
	tmpPath := filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write users file: %w", err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename users file: %w", err)
	}
	return nil
}

// LoadUsers loads users from disk. A missing file is not an error.
func (s *UserStore) LoadUsers(dataDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := filepath.Join(dataDir, usersFileName)
	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read users file: %w", err)
	}

	var users []*persistedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return fmt.Errorf("failed to unmarshal users: %w", err)
	}

	for _, pu := range users {
		user := &User{
			ID:           pu.ID,
			Username:     pu.Username,
			PasswordHash: pu.PasswordHash,
			Role:         pu.Role,
			CreatedAt:    pu.CreatedAt,
		}
		s.users[user.ID] = user
		s.usernameMap[user.Username] = user.ID
	}
	return nil
}
