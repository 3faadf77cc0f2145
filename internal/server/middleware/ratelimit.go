// file: internal/server/middleware/ratelimit.go
// version: 2.0.0
// guid: 1331705a-85cb-4158-92f5-5ce203d8a0e7

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	defaultIdleTTL   = 15 * time.Minute
	sweepInterval    = time.Minute
	unknownClientKey = "unknown"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is a per-client token bucket limiter keyed by client IP.
type IPRateLimiter struct {
	mu             sync.Mutex
	entries        map[string]*limiterEntry
	requestsPerMin int
	burst          int
	idleTTL        time.Duration
	lastSweep      time.Time
	now            func() time.Time
}

func NewIPRateLimiter(requestsPerMinute int, burst int) *IPRateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{
		entries:        make(map[string]*limiterEntry),
		requestsPerMin: requestsPerMinute,
		burst:          burst,
		idleTTL:        defaultIdleTTL,
		now:            time.Now,
	}
}

// Allow reports whether key may make a request now. When it may not, the
// returned duration is how long the client should wait before retrying.
func (r *IPRateLimiter) Allow(key string) (bool, time.Duration) {
	now := r.now()
	lim := r.limiterFor(key, now)

	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return false, r.interval()
	}
	delay := res.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	res.CancelAt(now)
	return false, delay
}

// Clients returns the number of tracked client buckets.
func (r *IPRateLimiter) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *IPRateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) >= sweepInterval {
		for k, entry := range r.entries {
			if now.Sub(entry.lastSeen) > r.idleTTL {
				delete(r.entries, k)
			}
		}
		r.lastSweep = now
	}

	entry, ok := r.entries[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(r.interval()), r.burst),
		}
		r.entries[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// interval is the time it takes to earn one token.
func (r *IPRateLimiter) interval() time.Duration {
	return time.Minute / time.Duration(r.requestsPerMin)
}

// Middleware returns a Gin middleware that enforces the configured limit.
func (r *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if key == "" {
			key = unknownClientKey
		}
		ok, wait := r.Allow(key)
		if !ok {
			seconds := int(math.Ceil(wait.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			abortWithError(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
			return
		}
		c.Next()
	}
}

// abortWithError stops the chain with the same envelope the API handlers use.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":  message,
		"code":   code,
		"status": status,
	})
}
