package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/davidtseymour/personal-productivity-system/internal/ctxkeys"
)

// cleanupInterval is how often Allow sweeps out idle keys
const cleanupInterval = 5 * time.Minute

// RateLimiter tracks request times per key. Idle keys are swept from
// within Allow, so a limiter owns no goroutine.
type RateLimiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	limit       int           // Max requests allowed
	window      time.Duration // Time window for rate limiting
	now         func() time.Time
	lastCleanup time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests:    make(map[string][]time.Time),
		limit:       limit,
		window:      window,
		now:         time.Now,
		lastCleanup: time.Now(),
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastCleanup) >= cleanupInterval {
		rl.cleanup(now)
	}
	cutoff := now.Add(-rl.window)

	// Drop requests outside the window
	valid := rl.requests[key][:0]
	for _, t := range rl.requests[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

// cleanup forgets keys with no request in the last two windows.
// rl.mu must be held.
func (rl *RateLimiter) cleanup(now time.Time) {
	cutoff := now.Add(-rl.window * 2)
	for key, requests := range rl.requests {
		if len(requests) == 0 || !requests[len(requests)-1].After(cutoff) {
			delete(rl.requests, key)
		}
	}
	rl.lastCleanup = now
}

// RateLimitWrites limits mutating requests per acting user, falling back to
// the client IP. A limit of zero or less disables the check.
func RateLimitWrites(limit int, window time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	if limit <= 0 {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	limiter := NewRateLimiter(limit, window)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := "ip:" + clientIP(r)
			if user := ctxkeys.User(r.Context()); user != nil {
				key = "user:" + user.ID
			}

			if !limiter.Allow(key) {
				slog.Warn("rate limit exceeded", "key", key, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"too many requests, try again later"}` + "\n"))
				return
			}

			next(w, r)
		}
	}
}

// clientIP prefers proxy headers over RemoteAddr
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
