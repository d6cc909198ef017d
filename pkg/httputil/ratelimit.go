package httputil

import (
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hourbook/hourbook-backend/pkg/errors"
	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client key.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	r        rate.Limit
	b        int
	idle     time.Duration
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPRateLimiter allows `attempts` requests per `window` for each key,
// e.g. 5 logins per 15 minutes.
func NewIPRateLimiter(attempts int, window time.Duration) *IPRateLimiter {
	if attempts < 1 {
		attempts = 1
	}
	return &IPRateLimiter{
		limiters: make(map[string]*entry),
		r:        rate.Every(window / time.Duration(attempts)),
		b:        attempts,
		idle:     window,
		now:      time.Now,
	}
}

// Allow consumes a token for key. When denied it returns how long the
// caller should wait before the next token is available.
func (l *IPRateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.r, l.b)}
		l.limiters[key] = e
	}
	e.lastSeen = now

	res := e.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep drops buckets that have been idle for a whole window; they would be full again anyway.
func (l *IPRateLimiter) sweep(now time.Time) {
	for key, e := range l.limiters {
		if now.Sub(e.lastSeen) > l.idle {
			delete(l.limiters, key)
		}
	}
}

// RateLimit rejects requests from a client IP that exceeds the limiter.
func RateLimit(l *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ok, wait := l.Allow(ClientIP(r)); !ok {
				ErrorLocalized(w, r, errors.TooManyRequests(int(math.Ceil(wait.Seconds()))))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the request's remote host. chi's RealIP middleware is
// expected to have already applied X-Forwarded-For.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
