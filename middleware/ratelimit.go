package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"readyprobe/config"
	"readyprobe/logger"
	"readyprobe/types"
)

// limiterEntry wraps a rate limiter with its last access time
type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter manages rate limiting for requests
type RateLimiter struct {
	limiters        map[string]*limiterEntry
	mu              sync.RWMutex
	requestsPerSec  rate.Limit
	burst           int
	strategy        string
	enabled         bool
	cleanupInterval time.Duration
	lastCleanup     time.Time
	exempt          map[string]struct{}
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		limiters:        make(map[string]*limiterEntry),
		requestsPerSec:  rate.Limit(cfg.RequestsPerSec),
		burst:           cfg.Burst,
		strategy:        cfg.Strategy,
		enabled:         cfg.Enabled,
		cleanupInterval: cfg.CleanupInterval,
		lastCleanup:     time.Now(),
		exempt:          make(map[string]struct{}),
	}

	logger.Info("Rate limiter initialized | requests_per_sec=%.2f burst=%d strategy=%s enabled=%v cleanup_interval=%v",
		cfg.RequestsPerSec, cfg.Burst, cfg.Strategy, cfg.Enabled, cfg.CleanupInterval)

	return rl
}

// Exempt excludes paths from rate limiting (orchestrator probes)
func (rl *RateLimiter) Exempt(paths ...string) *RateLimiter {
	for _, p := range paths {
		rl.exempt[p] = struct{}{}
	}
	return rl
}

// GetLimiter retrieves or creates a rate limiter for the given identifier
func (rl *RateLimiter) GetLimiter(identifier string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) > rl.cleanupInterval {
		rl.cleanup()
		rl.lastCleanup = time.Now()
	}

	entry, exists := rl.limiters[identifier]
	if !exists {
		entry = &limiterEntry{
			limiter:    rate.NewLimiter(rl.requestsPerSec, rl.burst),
			lastAccess: time.Now(),
		}
		rl.limiters[identifier] = entry
	} else {
		entry.lastAccess = time.Now()
	}

	return entry.limiter
}

// cleanup removes limiters idle for longer than cleanupInterval.
// Caller holds the write lock.
func (rl *RateLimiter) cleanup() {
	now := time.Now()
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastAccess) > rl.cleanupInterval {
			delete(rl.limiters, key)
		}
	}
}

// extractIdentifier picks the rate limit key per strategy (IP or API key).
// The IP comes from gin, which only honors forwarding headers set by trusted proxies.
func (rl *RateLimiter) extractIdentifier(c *gin.Context) string {
	if rl.strategy == "api_key" {
		auth := c.GetHeader("Authorization")
		if len(auth) > 7 && auth[:7] == "Bearer " {
			return auth[7:]
		}
	}
	return c.ClientIP()
}

// Middleware returns the rate limiting middleware handler
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled {
			c.Next()
			return
		}

		if _, ok := rl.exempt[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		identifier := rl.extractIdentifier(c)
		limiter := rl.GetLimiter(identifier)
		if !limiter.Allow() {
			rl.respondRateLimitExceeded(c, identifier)
			return
		}

		remaining := int(math.Max(0, math.Floor(limiter.Tokens())))
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%.0f", float64(rl.requestsPerSec)))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Next()
	}
}

// respondRateLimitExceeded sends a 429 error response
func (rl *RateLimiter) respondRateLimitExceeded(c *gin.Context, identifier string) {
	c.Header("Retry-After", "60")
	c.Header("X-RateLimit-Limit", fmt.Sprintf("%.0f", float64(rl.requestsPerSec)))
	c.Header("X-RateLimit-Remaining", "0")
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(time.Minute).Unix()))

	logger.Warn("Rate limit exceeded | identifier=%s client_ip=%s path=%s method=%s strategy=%s",
		maskIdentifier(identifier), c.ClientIP(), c.Request.URL.Path, c.Request.Method, rl.strategy)

	writeError(c, http.StatusTooManyRequests, types.NewError(
		"Rate limit exceeded. Please retry after 60 seconds.",
		"rate_limit_error",
		"rate_limit_exceeded",
	))
}

// maskIdentifier masks the identifier for logging (shows only first 8 characters)
func maskIdentifier(identifier string) string {
	if len(identifier) <= 8 {
		return identifier
	}
	return identifier[:8] + "..."
}
