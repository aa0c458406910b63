package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/gin-gonic/gin"
)

// TokenBucket holds up to capacity tokens and regains refillRate tokens per second.
type TokenBucket struct {
	capacity   float64
	tokens     float64
	refillRate float64
	lastRefill time.Time
	clock      clock.Clock
	mu         sync.Mutex
}

func NewTokenBucket(capacity int, refillRate float64, clk clock.Clock) *TokenBucket {
	return &TokenBucket{
		capacity:   float64(capacity),
		tokens:     float64(capacity),
		refillRate: refillRate,
		lastRefill: clk.Now(),
		clock:      clk,
	}
}

func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.clock.Now()
	if elapsed := now.Sub(tb.lastRefill); elapsed > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+elapsed.Seconds()*tb.refillRate)
		tb.lastRefill = now
	}
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit answers 429 once bucket is drained.
func RateLimit(bucket *TokenBucket) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !bucket.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			return
		}
		c.Next()
	}
}
