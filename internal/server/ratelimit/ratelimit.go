// Package ratelimit implements a Redis fixed-window request counter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter allows at most limit hits per key within each window.
type Limiter struct {
	rdb    redis.Cmdable
	limit  int
	window time.Duration
	prefix string
}

func New(rdb redis.Cmdable, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// Result describes one counted hit.
type Result struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

// Allow counts a hit for key. On Redis failure it returns the error
// together with an allowing Result so callers can fail open.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	k := l.prefix + ":" + key

	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return Result{Allowed: true, Remaining: l.limit}, fmt.Errorf("incr %s: %w", k, err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return Result{Allowed: true, Remaining: l.limit - 1}, fmt.Errorf("expire %s: %w", k, err)
		}
	}

	ttl, err := l.rdb.TTL(ctx, k).Result()
	if err == nil && ttl < 0 {
		// counter without expiry, e.g. after a failed EXPIRE: restart its window
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return Result{Allowed: true, Remaining: l.limit}, fmt.Errorf("expire %s: %w", k, err)
		}
		ttl = l.window
	}
	if err != nil {
		ttl = l.window
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: count <= int64(l.limit), Remaining: remaining, ResetIn: ttl}, nil
}

// Limit returns the configured number of hits per window.
func (l *Limiter) Limit() int { return l.limit }
