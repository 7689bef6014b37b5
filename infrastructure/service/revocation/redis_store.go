package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/unifind/unifind/application/port/outbound"
)

const keyPrefix = "blocklist:"

// RedisStore keeps revoked token ids as empty keys that expire with the token.
type RedisStore struct {
	client     *redis.Client
	defaultTTL time.Duration
}

var _ outbound.RevocationStore = (*RedisStore)(nil)

// NewRedisStore uses defaultTTL whenever Revoke is called without a positive ttl.
func NewRedisStore(client *redis.Client, defaultTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, defaultTTL: defaultTTL}
}

func (s *RedisStore) Contains(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation for %s: %w", tokenID, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if err := s.client.Set(ctx, keyPrefix+tokenID, "", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke %s: %w", tokenID, err)
	}
	return nil
}
