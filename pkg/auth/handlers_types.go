package auth

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the payload for POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse carries a freshly issued token pair
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// ErrorResponse is the standard error envelope
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
