package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// staleAfter is how long an idle client entry survives before eviction.
const staleAfter = 5 * time.Minute

// RateLimiter throttles OTP generation per client IP, on top of the
// domain-level single-active-OTP rule. Stale entries are evicted lazily
// on the request path, so a limiter owns no background goroutine.
type RateLimiter struct {
	perMinute rate.Limit
	burst     int

	mu          sync.Mutex
	limiters    map[string]*clientLimiter
	lastCleanup time.Time
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewRateLimiter creates a per-client rate limiter
func NewRateLimiter(perMinute float64, burst int) *RateLimiter {
	return &RateLimiter{
		perMinute:   rate.Limit(perMinute / 60.0),
		burst:       burst,
		limiters:    make(map[string]*clientLimiter),
		lastCleanup: time.Now(),
	}
}

// Limit returns the gin middleware enforcing the configured rate.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Try again in a few minutes."})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastCleanup) >= staleAfter {
		cutoff := now.Add(-staleAfter)
		for k, cl := range rl.limiters {
			if cl.lastAccess.Before(cutoff) {
				delete(rl.limiters, k)
			}
		}
		rl.lastCleanup = now
	}

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.perMinute, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = now
	return cl.limiter.Allow()
}
