package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/socialplatform/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// RateLimitError is returned when a user acts again before the window closes.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Limiter grants at most one action per user per window.
type Limiter interface {
	Allow(ctx context.Context, userID uint, action string, window time.Duration) error
	// Release reopens the window, used when the guarded action failed.
	Release(ctx context.Context, userID uint, action string) error
}

type redisLimiter struct {
	rdb *redis.Client
}

// New returns a redis-backed limiter. A nil client allows everything.
func New(rdb *redis.Client) Limiter {
	return &redisLimiter{rdb: rdb}
}

func key(userID uint, action string) string {
	return fmt.Sprintf("rate_limit:user:%d:%s", userID, action)
}

func (l *redisLimiter) Allow(ctx context.Context, userID uint, action string, window time.Duration) error {
	if l.rdb == nil || window <= 0 {
		return nil
	}

	wasSet, err := l.rdb.SetNX(ctx, key(userID, action), "locked", window).Result()
	if err != nil {
		return fmt.Errorf("failed to check rate limit in redis: %w", err)
	}
	if wasSet {
		return nil
	}

	ttl, err := l.rdb.TTL(ctx, key(userID, action)).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}
	return &RateLimitError{
		Message:    fmt.Sprintf("You are doing that too fast. Please wait %.0f seconds", ttl.Seconds()),
		RetryAfter: ttl,
	}
}

func (l *redisLimiter) Release(ctx context.Context, userID uint, action string) error {
	if l.rdb == nil {
		return nil
	}
	return l.rdb.Del(ctx, key(userID, action)).Err()
}
