package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"finview/internal/logger"
)

// rateLimitPrefix is the Redis key prefix for per-client rate limits.
const rateLimitPrefix = "finview:ratelimit:"

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter decides whether a client may make another request in a scope.
type Limiter interface {
	Allow(ctx context.Context, scope, clientID string) (*RateLimitResult, error)
}

// RateLimiter is a fixed-window limiter backed by Redis counters.
type RateLimiter struct {
	cache  *Cache
	limit  int64
	window time.Duration
}

// NewRateLimiter allows limit requests per window for each (scope, client).
func NewRateLimiter(c *Cache, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{cache: c, limit: int64(limit), window: window}
}

// Allow counts the request and reports whether it is within the limit.
// Redis failures fail open.
func (l *RateLimiter) Allow(ctx context.Context, scope, clientID string) (*RateLimitResult, error) {
	if l.limit <= 0 {
		return &RateLimitResult{Allowed: true}, nil
	}

	key := rateLimitKey(scope, clientID)

	pipe := l.cache.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, l.window)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Get().Warnw("rate limit check failed, allowing request", "scope", scope, "error", err)
		return &RateLimitResult{Allowed: true, Remaining: l.limit}, nil
	}

	return evaluate(incr.Val(), l.limit, ttl.Val(), l.window), nil
}

func evaluate(count, limit int64, ttl, window time.Duration) *RateLimitResult {
	if ttl <= 0 {
		ttl = window
	}
	if count > limit {
		return &RateLimitResult{Allowed: false, Remaining: 0, RetryAfter: ttl}
	}
	return &RateLimitResult{Allowed: true, Remaining: limit - count}
}

// rateLimitKey hashes the client id so raw IP addresses are not stored.
func rateLimitKey(scope, clientID string) string {
	hash := sha256.Sum256([]byte(clientID))
	return rateLimitPrefix + scope + ":" + hex.EncodeToString(hash[:8])
}
