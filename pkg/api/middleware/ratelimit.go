package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dd0wney/mindmapr/pkg/logging"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerSecond float64       // Rate of token replenishment
	BurstSize         int           // Maximum burst size (bucket capacity)
	CleanupInterval   time.Duration // How often to clean up expired buckets
	ClientExpiration  time.Duration // How long to keep inactive client buckets
	MaxClients        int           // Maximum number of tracked clients
}

// DefaultRateLimitConfig returns sensible defaults for rate limiting
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         200,
		CleanupInterval:   5 * time.Minute,
		ClientExpiration:  10 * time.Minute,
		MaxClients:        100000,
	}
}

// AuthRateLimitConfig returns the stricter limits used on login and
// register endpoints to slow brute-force attempts
func AuthRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		RequestsPerSecond: 5,
		BurstSize:         10,
		CleanupInterval:   5 * time.Minute,
		ClientExpiration:  30 * time.Minute,
		MaxClients:        50000,
	}
}

// tokenBucket implements the token bucket rate limiting algorithm
type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// RateLimiter manages rate limiting for multiple clients
type RateLimiter struct {
	config   *RateLimitConfig
	clients  map[string]*tokenBucket
	mu       sync.RWMutex
	stopChan chan struct{}
	stopOnce sync.Once
	logger   logging.Logger
}

// NewRateLimiter creates a new rate limiter and starts its cleanup loop
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	rl := &RateLimiter{
		config:   config,
		clients:  make(map[string]*tokenBucket),
		stopChan: make(chan struct{}),
		logger:   logging.DefaultLogger(),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow checks whether a request from the given client should pass.
// Returns false when the client is rate limited or the tracked-client
// cap has been reached.
func (rl *RateLimiter) Allow(clientID string) bool {
	bucket := rl.getBucket(clientID)
	if bucket == nil {
		return false
	}

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(bucket.lastRefill).Seconds()

	bucket.tokens += elapsed * rl.config.RequestsPerSecond
	if bucket.tokens > float64(rl.config.BurstSize) {
		bucket.tokens = float64(rl.config.BurstSize)
	}
	bucket.lastRefill = now

	if bucket.tokens >= 1 {
		bucket.tokens--
		return true
	}

	return false
}

func (rl *RateLimiter) getBucket(clientID string) *tokenBucket {
	rl.mu.RLock()
	bucket, exists := rl.clients[clientID]
	clientCount := len(rl.clients)
	rl.mu.RUnlock()

	if exists {
		return bucket
	}

	if rl.config.MaxClients > 0 && clientCount >= rl.config.MaxClients {
		rl.logger.Warn("rate limiter client cap reached",
			logging.Int("max_clients", rl.config.MaxClients))
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if bucket, exists = rl.clients[clientID]; exists {
		return bucket
	}

	if rl.config.MaxClients > 0 && len(rl.clients) >= rl.config.MaxClients {
		return nil
	}

	bucket = &tokenBucket{
		tokens:     float64(rl.config.BurstSize),
		lastRefill: time.Now(),
	}
	rl.clients[clientID] = bucket
	return bucket
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopChan:
			return
		}
	}
}

// cleanup removes inactive client buckets. Candidates are collected
// under the read lock, then re-verified under the write lock since a
// bucket may have been refreshed in between.
func (rl *RateLimiter) cleanup() {
	now := time.Now()
	expiredClients := make([]string, 0)

	rl.mu.RLock()
	for clientID, bucket := range rl.clients {
		bucket.mu.Lock()
		isExpired := now.Sub(bucket.lastRefill) > rl.config.ClientExpiration
		bucket.mu.Unlock()
		if isExpired {
			expiredClients = append(expiredClients, clientID)
		}
	}
	rl.mu.RUnlock()

	if len(expiredClients) == 0 {
		return
	}

	rl.mu.Lock()
	for _, clientID := range expiredClients {
		if bucket, exists := rl.clients[clientID]; exists {
			bucket.mu.Lock()
			if now.Sub(bucket.lastRefill) > rl.config.ClientExpiration {
				delete(rl.clients, clientID)
			}
			bucket.mu.Unlock()
		}
	}
	rl.mu.Unlock()
}

// Stop stops the rate limiter cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
	})
}

// ClientIDFunc extracts a client identifier from a request
type ClientIDFunc func(*http.Request) string

// RateLimit creates middleware that applies per-client rate limiting
func RateLimit(limiter *RateLimiter, getClientID ClientIDFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			clientID := getClientID(r)

			if !limiter.Allow(clientID) {
				w.Header().Set("Retry-After", "1")
				w.Header().Set("X-RateLimit-Limit", strconv.FormatFloat(limiter.config.RequestsPerSecond, 'f', 0, 64))
				http.Error(w, "Rate limit exceeded. Please retry after 1 second.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
