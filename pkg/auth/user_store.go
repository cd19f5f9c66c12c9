package auth

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidUsername    = errors.New("username must be 3-50 alphanumeric characters")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordHashFailed = errors.New("failed to hash password")
)

const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 50
	BcryptCost        = 12 // Cost factor for bcrypt
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// User represents a registered account
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never serialize password hash
	Role         string `json:"role"`
	CreatedAt    int64  `json:"created_at"`
}

// UserStore manages user storage and authentication
type UserStore struct {
	users       map[string]*User  // userID -> User
	usernameMap map[string]string // username -> userID
	mu          sync.RWMutex
}

// NewUserStore creates a new user store
func NewUserStore() *UserStore {
	return &UserStore{
		users:       make(map[string]*User),
		usernameMap: make(map[string]string),
	}
}

// CreateUser creates a new user with a bcrypt-hashed password
func (s *UserStore) CreateUser(username, password, role string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateUsername(username); err != nil {
		return nil, err
	}

	if _, exists := s.usernameMap[username]; exists {
		return nil, fmt.Errorf("%w: %s", ErrUserExists, username)
	}

	if err := validatePassword(password); err != nil {
		return nil, err
	}

	if !validRoles[role] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPasswordHashFailed, err)
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hashedPassword,
		Role:         role,
		CreatedAt:    time.Now().Unix(),
	}

	s.users[user.ID] = user
	s.usernameMap[username] = user.ID

	return user, nil
}

// Authenticate verifies a username/password pair and returns the user.
// The same error is returned for a missing user and a wrong password so
// callers cannot probe for account existence.
func (s *UserStore) Authenticate(username, password string) (*User, error) {
	s.mu.RLock()
	userID, exists := s.usernameMap[username]
	if !exists {
		s.mu.RUnlock()
		// Burn a comparison anyway to keep timing consistent
		bcrypt.CompareHashAndPassword([]byte("$2a$12$invalidinvalidinvalidinv"), []byte(password))
		return nil, ErrInvalidCredentials
	}
	user := s.users[userID]
	s.mu.RUnlock()

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username
func (s *UserStore) GetUserByUsername(username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if username == "" {
		return nil, ErrInvalidUsername
	}

	userID, exists := s.usernameMap[username]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	user, exists := s.users[userID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *UserStore) GetUserByID(userID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return user, nil
}

// Count returns the number of registered users
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// DeleteUser removes a user
func (s *UserStore) DeleteUser(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[userID]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}

	delete(s.usernameMap, user.Username)
	delete(s.users, userID)
	return nil
}

func validateUsername(username string) error {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return ErrInvalidUsername
	}
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
