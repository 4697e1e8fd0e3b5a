package api

import (
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterConfig sets the per-client token bucket parameters and how
// aggressively idle clients are forgotten. Zero values select the defaults
// in newClientLimiter.
type limiterConfig struct {
	rps        float64       // tokens refilled per second per client
	burst      int           // bucket capacity
	sweepEvery time.Duration // minimum interval between stale-entry sweeps
	staleAfter time.Duration // idle time after which a client is dropped
}

// clientLimiter keys token buckets by client IP. Sweeping of idle entries
// piggybacks on the request path, so an idle server holds no background
// timers; an abandoned bucket lives at most staleAfter plus one sweep
// interval.
type clientLimiter struct {
	cfg limiterConfig

	mu        sync.Mutex
	buckets   map[string]*clientBucket
	lastSweep time.Time
}

type clientBucket struct {
	tokens *rate.Limiter
	seen   time.Time
}

func newClientLimiter(cfg limiterConfig) *clientLimiter {
	if cfg.rps <= 0 {
		cfg.rps = 10
	}
	if cfg.burst <= 0 {
		cfg.burst = 20
	}
	if cfg.sweepEvery <= 0 {
		cfg.sweepEvery = 5 * time.Minute
	}
	if cfg.staleAfter <= 0 {
		cfg.staleAfter = 10 * time.Minute
	}
	return &clientLimiter{
		cfg:       cfg,
		buckets:   make(map[string]*clientBucket),
		lastSweep: time.Now(),
	}
}

// allow consumes one token from the bucket for key, creating the bucket on
// first sight, and reports whether the request may proceed.
func (cl *clientLimiter) allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := time.Now()
	cl.sweepLocked(now)

	b, ok := cl.buckets[key]
	if !ok {
		b = &clientBucket{tokens: rate.NewLimiter(rate.Limit(cl.cfg.rps), cl.cfg.burst)}
		cl.buckets[key] = b
	}
	b.seen = now
	return b.tokens.Allow()
}

// sweepLocked drops buckets idle for longer than staleAfter, at most once
// per sweepEvery. Caller holds cl.mu.
func (cl *clientLimiter) sweepLocked(now time.Time) {
	if now.Sub(cl.lastSweep) < cl.cfg.sweepEvery {
		return
	}
	for key, b := range cl.buckets {
		if now.Sub(b.seen) > cl.cfg.staleAfter {
			delete(cl.buckets, key)
		}
	}
	cl.lastSweep = now
}

// rateLimitMiddleware rejects requests from clients whose bucket is empty.
// 429 responses carry Retry-After so well-behaved clients back off.
func rateLimitMiddleware(cl *clientLimiter, trustProxy bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r, trustProxy)
			if !cl.allow(key) {
				logger.Warn("rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
					"method", r.Method,
				)
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP derives the limiter key for a request. Behind a trusted reverse
// proxy the forwarded headers name the real client (X-Real-IP, then the
// first X-Forwarded-For entry); otherwise only RemoteAddr is believed,
// since forwarded headers are caller-controlled. Header values must parse
// as addresses so arbitrary strings cannot become limiter keys.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		forwarded, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		for _, candidate := range []string{r.Header.Get("X-Real-IP"), forwarded} {
			if addr, err := netip.ParseAddr(strings.TrimSpace(candidate)); err == nil {
				return addr.String()
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
