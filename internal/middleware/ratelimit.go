package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const msgTooManyRequests = "Too many requests. Please slow down."

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than ttl are dropped by Cleanup.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	rps     int
	burst   int
	ttl     time.Duration
	log     *slog.Logger
	now     func() time.Time
}

func NewRateLimiter(rps, burst int, ttl time.Duration, log *slog.Logger) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients: make(map[string]*limiterEntry),
		rps:     rps,
		burst:   burst,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
	}
}

func (l *RateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.clients[key]
	if !ok {
		e = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(l.rps)), l.burst),
		}
		l.clients[key] = e
	}
	e.lastAccess = l.now()

	return e.limiter
}

func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r)
		if !l.get(ip).Allow() {
			l.log.Warn("rate limit exceeded",
				slog.String("operation", "middleware.ratelimit.Limit"),
				slog.String("ip", ip),
				slog.String("uri", r.URL.RequestURI()))
			http.Error(w, msgTooManyRequests, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Cleanup sweeps idle buckets every ttl until ctx is done.
func (l *RateLimiter) Cleanup(ctx context.Context) {
	if l.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(l.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep()
		}
	}
}

func (l *RateLimiter) sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.ttl)
	removed := 0
	for key, e := range l.clients {
		if e.lastAccess.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}
