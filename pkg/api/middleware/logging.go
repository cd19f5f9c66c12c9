package middleware

import (
	"net/http"
	"time"

	"github.com/dd0wney/mindmapr/pkg/logging"
)

// statusResponseWriter captures the response status code
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Flush passes through to the underlying writer so streaming
// responses keep working behind the wrapper
func (w *statusResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Logging creates middleware that logs each request with its request
// ID, status and latency
func Logging(logger logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapper, r)

			logger.Info("http request",
				logging.String("request_id", GetRequestID(r)),
				logging.String("method", r.Method),
				logging.Path(r.URL.Path),
				logging.Int("status", wrapper.statusCode),
				logging.Latency(time.Since(start)))
		})
	}
}
