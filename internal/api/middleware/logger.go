package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/projectcostai/projectcostai/internal/pkg/logger"
)

const logFieldsKey ContextKey = "logFields"

// logFields collects values added by inner handlers for the access log
type logFields struct {
	mu     sync.Mutex
	values map[string]interface{}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// AddLogField attaches a field to the access log line of the request
func AddLogField(r *http.Request, key string, value interface{}) {
	if lf, ok := r.Context().Value(logFieldsKey).(*logFields); ok {
		lf.mu.Lock()
		lf.values[key] = value
		lf.mu.Unlock()
	}
}

// Logger returns a middleware that logs HTTP requests
func Logger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			lf := &logFields{values: make(map[string]interface{})}
			r = r.WithContext(context.WithValue(r.Context(), logFieldsKey, lf))

			next.ServeHTTP(wrapped, r)

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     wrapped.statusCode,
				"duration":   time.Since(start).Milliseconds(),
				"bytes":      wrapped.written,
				"ip":         r.RemoteAddr,
				"user_agent": r.UserAgent(),
				"request_id": GetRequestID(r),
			}
			lf.mu.Lock()
			for k, v := range lf.values {
				fields[k] = v
			}
			lf.mu.Unlock()

			entry := log.WithFields(fields)
			switch {
			case wrapped.statusCode >= 500:
				entry.Error("HTTP request")
			case wrapped.statusCode >= 400:
				entry.Warn("HTTP request")
			default:
				entry.Info("HTTP request")
			}
		})
	}
}
