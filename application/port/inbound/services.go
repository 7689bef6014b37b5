package inbound

import (
	"context"
	"time"
)

// RateLimitService counts attempts per key inside a fixed window.
// Implemented by infrastructure/service/ratelimit.
type RateLimitService interface {
	// Allow records one attempt and reports whether key is still under limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Block(ctx context.Context, key string, duration time.Duration, reason string) error
	IsBlocked(ctx context.Context, key string) (bool, error)
	GetAttempts(ctx context.Context, key string) (int, error)
}
