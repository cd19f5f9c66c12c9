package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestRequestIDGenerated(t *testing.T) {
	var captured string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDFromClient(t *testing.T) {
	var captured string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "client-id-123", captured)
}

func TestRequestIDSanitized(t *testing.T) {
	var captured string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc<script>def")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abcscriptdef", captured)
}

func TestPanicRecovery(t *testing.T) {
	handler := PanicRecovery(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestBodyLimit(t *testing.T) {
	handler := BodyLimit(10)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSAllowedOrigin(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowedOrigins = []string{"https://app.example.com"}
	handler := CORS(config)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDisallowedOrigin(t *testing.T) {
	handler := CORS(DefaultCORSConfig())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	config := DefaultCORSConfig()
	config.AllowedOrigins = []string{"*"}
	handler := CORS(config)(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String(), "preflight should not reach the handler")
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         3,
		CleanupInterval:   time.Minute,
		ClientExpiration:  time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("client-1"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("client-1"), "burst exhausted")
	assert.True(t, rl.Allow("client-2"), "other clients unaffected")
}

func TestRateLimiterRefills(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{
		RequestsPerSecond: 100,
		BurstSize:         1,
		CleanupInterval:   time.Minute,
		ClientExpiration:  time.Minute,
	})
	defer rl.Stop()

	assert.True(t, rl.Allow("client-1"))
	assert.False(t, rl.Allow("client-1"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.Allow("client-1"))
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(&RateLimitConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
		CleanupInterval:   time.Minute,
		ClientExpiration:  time.Minute,
	})
	defer rl.Stop()

	handler := RateLimit(rl, func(r *http.Request) string { return "c" })(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestMetricsMiddlewareNilRecorder(t *testing.T) {
	handler := Metrics(nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type countingRecorder struct {
	requests int
}

func (c *countingRecorder) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	c.requests++
}
func (c *countingRecorder) RecordResponseSize(method, path string, size float64) {}
func (c *countingRecorder) IncHTTPRequestsInFlight()                             {}
func (c *countingRecorder) DecHTTPRequestsInFlight()                             {}

func TestResponseWrappersPreserveFlusher(t *testing.T) {
	streamingHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok, "writer must stay flushable for event streams")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
	})

	recorder := &countingRecorder{}
	handler := Logging(nil)(Metrics(recorder)(streamingHandler))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, rec.Flushed)
	assert.Equal(t, 1, recorder.requests)
}
