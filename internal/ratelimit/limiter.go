// Package ratelimit throttles incoming HTTP requests with a shared token bucket.
package ratelimit

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/drallgood/bookshelf-api/internal/logger"
)

// Limiter wraps rate.Limiter with a name for logging.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a limiter allowing requestsPerSecond sustained requests and
// bursts of up to burst requests. A burst below one is raised to one.
// New returns nil when requestsPerSecond is not positive, which disables limiting.
func New(name string, requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		name:    name,
	}
}

// Allow reports whether a request can proceed without blocking.
// A nil limiter allows everything.
func (l *Limiter) Allow() bool {
	if l == nil {
		return true
	}
	return l.limiter.Allow()
}

// Name returns the name of this limiter.
func (l *Limiter) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Middleware rejects requests with reject once the bucket is empty.
func (l *Limiter) Middleware(reject http.Handler, next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow() {
			logger.FromContext(r.Context()).Warn("Rate limit exceeded", map[string]interface{}{
				"limiter": l.Name(),
				"path":    r.URL.Path,
			})
			reject.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
