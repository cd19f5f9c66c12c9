package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/mindmapr/pkg/metrics"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	m, err := NewJWTManager(testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return NewHandler(NewUserStore(), m, "", metrics.NewRegistry())
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RegisterAndLogin(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/auth/register", RegisterRequest{Username: "alice", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	// First registered user becomes admin
	assert.Equal(t, RoleAdmin, tokens.User.Role)

	rec = postJSON(t, h, "/auth/register", RegisterRequest{Username: "bob", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	assert.Equal(t, RoleEditor, tokens.User.Role)

	rec = postJSON(t, h, "/auth/login", LoginRequest{Username: "alice", Password: "password123"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h, "/auth/login", LoginRequest{Username: "alice", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_RegisterValidation(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/auth/register", RegisterRequest{Username: "x", Password: "password123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h, "/auth/register", RegisterRequest{Username: "alice", Password: "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Refresh(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/auth/register", RegisterRequest{Username: "alice", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))

	rec = postJSON(t, h, "/auth/refresh", RefreshRequest{RefreshToken: tokens.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var refreshed TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	rec = postJSON(t, h, "/auth/refresh", RefreshRequest{RefreshToken: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_Me(t *testing.T) {
	h := newTestHandler(t)

	rec := postJSON(t, h, "/auth/register", RegisterRequest{Username: "alice", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code)
	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	mrec := httptest.NewRecorder()
	h.ServeHTTP(mrec, req)
	require.Equal(t, http.StatusOK, mrec.Code)

	var user User
	require.NoError(t, json.Unmarshal(mrec.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)

	// Without a token
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	mrec = httptest.NewRecorder()
	h.ServeHTTP(mrec, req)
	assert.Equal(t, http.StatusUnauthorized, mrec.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
