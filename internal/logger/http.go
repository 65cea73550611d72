package logger

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ContextKey is a type for context keys
type ContextKey string

// ContextKeyRequestID is the key used to store the request ID in the context
const ContextKeyRequestID ContextKey = "request_id"

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-Id"

// WithRequestID assigns every request an ID, reusing the inbound header when set,
// and echoes it back in the response headers
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), ContextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the request ID stored in ctx, if any
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// HTTPMiddleware logs one line per request using the global logger and
// stores a request scoped logger in the request context
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		l := Get()
		if requestID := RequestID(r.Context()); requestID != "" {
			l = l.WithFields(map[string]interface{}{"request_id": requestID})
		}

		rww := &responseWriterWrapper{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rww, r.WithContext(NewContext(r.Context(), l)))

		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip = r.RemoteAddr
		}

		l.Info("HTTP request", map[string]interface{}{
			"method":     r.Method,
			"path":       r.URL.Path,
			"query":      r.URL.RawQuery,
			"ip":         ip,
			"user_agent": r.UserAgent(),
			"status":     rww.status,
			"duration":   time.Since(start).String(),
		})
	})
}

// responseWriterWrapper captures the status code written by the handler
type responseWriterWrapper struct {
	http.ResponseWriter
	status int
}

func (r *responseWriterWrapper) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
