package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Per-IP token-bucket rate limiting for the solve endpoints. An
// adversarial puzzle can make a single /count request burn seconds of
// CPU, so the budget is enforced per client IP: each IP owns a bucket
// refilled at the configured rate, and an empty bucket yields HTTP 429
// with a Retry-After header. Buckets idle past bucketIdleEviction are
// evicted by a background sweep so transient IPs cannot grow the map
// without bound.

const bucketIdleEviction = 10 * time.Minute

type tokenBucket struct {
	mu       sync.Mutex
	tokens   float64
	lastSeen time.Time
}

// take refills the bucket for the elapsed time, then tries to consume
// one token; on failure it reports how long until one is available.
func (b *tokenBucket) take(refillPerSec, burst float64) (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastSeen).Seconds() * refillPerSec
	if b.tokens > burst {
		b.tokens = burst
	}
	b.lastSeen = now

	if b.tokens >= 1.0 {
		b.tokens--
		return true, 0
	}
	wait := time.Duration((1.0 - b.tokens) / refillPerSec * float64(time.Second))
	return false, wait
}

// RateLimiter holds the per-IP buckets.
type RateLimiter struct {
	ratePerMin int
	refill     float64
	burst      float64
	mu         sync.Mutex
	buckets    map[string]*tokenBucket
}

// NewRateLimiter allows ratePerMin requests per minute per IP with the
// given burst capacity.
func NewRateLimiter(ratePerMin, burst int) *RateLimiter {
	rl := &RateLimiter{
		ratePerMin: ratePerMin,
		refill:     float64(ratePerMin) / 60.0,
		burst:      float64(burst),
		buckets:    make(map[string]*tokenBucket),
	}
	go rl.sweepIdle()
	return rl
}

func (rl *RateLimiter) bucketFor(ip string) *tokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[ip]
	if !ok {
		b = &tokenBucket{tokens: rl.burst}
		rl.buckets[ip] = b
	}
	return b
}

// Middleware enforces the limit on every request it wraps.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.bucketFor(c.ClientIP()).take(rl.refill, rl.burst)
		if !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Rate limit exceeded",
				"retryAfter": retryAfter.String(),
				"limit":      fmt.Sprintf("%d requests/minute per IP", rl.ratePerMin),
			})
			return
		}
		c.Next()
	}
}

// sweepIdle periodically drops buckets that have not been touched for
// bucketIdleEviction.
func (rl *RateLimiter) sweepIdle() {
	ticker := time.NewTicker(bucketIdleEviction)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-bucketIdleEviction)
		rl.mu.Lock()
		for ip, b := range rl.buckets {
			b.mu.Lock()
			idle := b.lastSeen.Before(cutoff)
			b.mu.Unlock()
			if idle {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}
