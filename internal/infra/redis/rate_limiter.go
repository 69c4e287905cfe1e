package redis

import (
	"context"
	"fmt"
	"time"
)

// Counter is the slice of RedisClient the limiter needs.
type Counter interface {
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// RateLimiter is a fixed-window counter per key.
type RateLimiter struct {
	client Counter
	limit  int
	window time.Duration
}

func NewRateLimiter(client Counter, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow reports whether another event for chatID fits in the current window.
func (r *RateLimiter) Allow(ctx context.Context, chatID int64) (bool, error) {
	key := ChatKey(chatID)
	count, err := r.client.Incr(ctx, key)
	if err != nil {
		return false, err
	}

	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window); err != nil {
			return false, err
		}
	}

	if count > int64(r.limit) {
		return false, nil
	}

	return true, nil
}

func ChatKey(chatID int64) string {
	return fmt.Sprintf("rate_limit:chat:%d", chatID)
}
