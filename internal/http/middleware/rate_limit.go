package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tahseenomar/slack-visitor-bot/pkg/logger"
)

// RateLimitConfig defines rate limiting parameters
type RateLimitConfig struct {
	Requests int           // Max requests per window
	Window   time.Duration // Time window duration
}

// RateLimiter caps how often a single Slack user can invoke the slash
// command. Backed by Redis; with a nil client every request is allowed.
type RateLimiter struct {
	client *redis.Client
	config RateLimitConfig
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *redis.Client, config RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// Allow reports whether the keyed caller is within the limit. Errors from
// Redis fail open; throttling is protection, not a contract.
func (rl *RateLimiter) Allow(ctx context.Context, key string) bool {
	if rl.client == nil || rl.config.Requests <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// Hash the key for privacy
	hasher := sha256.New()
	hasher.Write([]byte(key))
	hashedKey := fmt.Sprintf("ratelimit:%x", hasher.Sum(nil))

	count, err := rl.client.Incr(ctx, hashedKey).Result()
	if err != nil {
		logger.WarnContext(ctx, "Rate limit check failed, allowing request", "error", err)
		return true
	}
	if count == 1 {
		if err := rl.client.Expire(ctx, hashedKey, rl.config.Window).Err(); err != nil {
			logger.WarnContext(ctx, "Failed to set rate limit expiry", "error", err)
		}
	}

	return count <= int64(rl.config.Requests)
}
