package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/dd0wney/mindmapr/pkg/api/middleware"
	"github.com/dd0wney/mindmapr/pkg/auth"
	"github.com/dd0wney/mindmapr/pkg/logging"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// ClaimsFromContext returns the authenticated user's claims, if any
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}

// requireAuth validates the bearer token and stores claims on the
// request context
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			s.respondError(w, http.StatusUnauthorized, "Authorization required")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := s.jwtManager.ValidateToken(r.Context(), token)
		if err != nil {
			s.logger.Debug("token validation failed", logging.Error(err))
			s.respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		// Reject tokens for deleted users
		if _, err := s.userStore.GetUserByID(claims.UserID); err != nil {
			s.respondError(w, http.StatusUnauthorized, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// generalRateLimit applies the optional API-wide rate limiter
func (s *Server) generalRateLimit(next http.Handler) http.Handler {
	if s.rateLimiter == nil {
		return next
	}
	return middleware.RateLimit(s.rateLimiter, s.clientID)(next)
}

// authRateLimit applies the stricter auth endpoint limiter
func (s *Server) authRateLimit(next http.Handler) http.Handler {
	return middleware.RateLimit(s.authRateLimiter, s.clientID)(next)
}

// clientID keys rate limit buckets by user when authenticated,
// otherwise by remote IP
func (s *Server) clientID(r *http.Request) string {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return "user:" + claims.UserID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
