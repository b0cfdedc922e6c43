// Package middleware carries Notir's ambient HTTP hardening: request
// size caps, rate limiting, and structured access logging. None of it
// depends on an authenticated principal — Notir has no authentication.
package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

// MaxBytes protects against memory-exhaustion attacks by capping the
// request body size.
func MaxBytes(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// ==============================================================================
// In-memory rate limiting
// ==============================================================================

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a per-IP token-bucket rate limiter. Unlike a package-level
// singleton it is constructed explicitly so tests can spin up independent
// instances without interfering with each other.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

// NewLimiter builds a Limiter allowing rps requests per second per IP,
// with burst allowed above that steady rate.
func NewLimiter(rps float64, burst int) *Limiter {
	l := &Limiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go l.reapLoop()
	return l
}

// reapLoop evicts visitors that have been idle long enough that their
// bucket would have refilled anyway, keeping the map from growing
// unboundedly across a long-running process.
func (l *Limiter) reapLoop() {
	for {
		time.Sleep(time.Minute)
		l.mu.Lock()
		for ip, v := range l.visitors {
			if time.Since(v.lastSeen) > 3*time.Minute {
				delete(l.visitors, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware returns the chi-compatible middleware enforcing this limiter.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		l.mu.Lock()
		v, exists := l.visitors[ip]
		if !exists {
			v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
			l.visitors[ip] = v
		}
		v.lastSeen = time.Now()
		limiter := v.limiter
		l.mu.Unlock()

		if !limiter.Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ==============================================================================
// Structured access logging
// ==============================================================================

// StructuredLogger logs every request's trace id, method, path, status,
// latency, and remote IP via the given logger.
func StructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http access",
				slog.String("trace_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("latency", time.Since(start)),
				slog.String("ip", r.RemoteAddr),
			)
		})
	}
}
