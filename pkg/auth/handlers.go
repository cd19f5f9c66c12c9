package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dd0wney/mindmapr/pkg/logging"
	"github.com/dd0wney/mindmapr/pkg/metrics"
)

const (
	DefaultTokenDuration        = 15 * time.Minute
	DefaultRefreshTokenDuration = 7 * 24 * time.Hour
)

// Handler handles authentication endpoints
type Handler struct {
	userStore  *UserStore
	jwtManager *JWTManager
	dataDir    string
	metrics    *metrics.Registry
	logger     logging.Logger
}

// NewHandler creates a new authentication handler. If dataDir is non-empty
// the user store is written back after every registration.
func NewHandler(userStore *UserStore, jwtManager *JWTManager, dataDir string, reg *metrics.Registry) *Handler {
	return &Handler{
		userStore:  userStore,
		jwtManager: jwtManager,
		dataDir:    dataDir,
		metrics:    reg,
		logger:     logging.With(logging.Component("auth")),
	}
}

// ServeHTTP implements http.Handler for the /auth/ subtree
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth/login":
		if r.Method == http.MethodPost {
			h.handleLogin(w, r)
		} else {
			h.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case "/auth/register":
		if r.Method == http.MethodPost {
			h.handleRegister(w, r)
		} else {
			h.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case "/auth/refresh":
		if r.Method == http.MethodPost {
			h.handleRefresh(w, r)
		} else {
			h.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	case "/auth/me":
		if r.Method == http.MethodGet {
			h.handleMe(w, r)
		} else {
			h.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	default:
		h.respondError(w, http.StatusNotFound, "Not found")
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// The first account gets admin so a fresh install can manage itself
	role := RoleEditor
	if h.userStore.Count() == 0 {
		role = RoleAdmin
	}

	user, err := h.userStore.CreateUser(req.Username, req.Password, role)
	if err != nil {
		h.recordAttempt("register", false)
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if h.dataDir != "" {
		if err := h.userStore.SaveUsers(h.dataDir); err != nil {
			h.logger.Error("failed to persist users", logging.Error(err))
		}
	}

	h.recordAttempt("register", true)
	if h.metrics != nil {
		h.metrics.RegisteredUsers.Set(float64(h.userStore.Count()))
	}
	h.logger.Info("user registered",
		logging.UserID(user.ID), logging.String("username", user.Username))

	h.issueTokens(w, user)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userStore.Authenticate(req.Username, req.Password)
	if err != nil {
		h.recordAttempt("login", false)
		h.logger.Warn("login failed", logging.String("username", req.Username))
		h.respondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	h.recordAttempt("login", true)
	h.issueTokens(w, user)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := h.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		h.recordAttempt("refresh", false)
		h.respondError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	user, err := h.userStore.GetUserByID(userID)
	if err != nil {
		h.recordAttempt("refresh", false)
		h.respondError(w, http.StatusUnauthorized, "User not found")
		return
	}

	h.recordAttempt("refresh", true)
	h.issueTokens(w, user)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, err := h.extractAndValidateToken(r)
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "Invalid or missing token")
		return
	}

	user, err := h.userStore.GetUserByID(claims.UserID)
	if err != nil {
		h.respondError(w, http.StatusUnauthorized, "User not found")
		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

// issueTokens generates and returns an access/refresh token pair
func (h *Handler) issueTokens(w http.ResponseWriter, user *User) {
	accessToken, err := h.jwtManager.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	refreshToken, err := h.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "Failed to generate refresh token")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordTokenIssued("access")
		h.metrics.RecordTokenIssued("refresh")
	}

	h.respondJSON(w, http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	})
}

// extractAndValidateToken extracts and validates JWT from Authorization header
func (h *Handler) extractAndValidateToken(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	claims, err := h.jwtManager.ValidateToken(r.Context(), parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

func (h *Handler) recordAttempt(kind string, success bool) {
	if h.metrics != nil {
		h.metrics.RecordAuthAttempt(kind, success)
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
