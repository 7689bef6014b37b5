package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/unifind/unifind/application/port/inbound"
	"github.com/unifind/unifind/infrastructure/service/logger"
)

type RateLimitConfig struct {
	Enabled       bool
	IPAttempts    int
	IPWindow      time.Duration
	BlockDuration time.Duration
}

type rateLimitService struct {
	redisClient *redis.Client
	logger      logger.Logger
}

// NewRateLimitService returns a no-op limiter when rate limiting is disabled.
func NewRateLimitService(cfg RateLimitConfig, client *redis.Client, log logger.Logger) inbound.RateLimitService {
	if !cfg.Enabled || client == nil {
		log.Info(context.Background(), "Rate limiting disabled", nil)
		return noopRateLimitService{}
	}

	log.Info(context.Background(), "Rate limiting service initialized", map[string]interface{}{
		"ip_attempts":    cfg.IPAttempts,
		"ip_window":      cfg.IPWindow.String(),
		"block_duration": cfg.BlockDuration.String(),
	})
	return &rateLimitService{redisClient: client, logger: log}
}

// Allow counts the attempt first; the window starts at the first attempt.
func (s *rateLimitService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	counterKey := "ratelimit:" + key

	count, err := s.redisClient.Incr(ctx, counterKey).Result()
	if err != nil {
		s.logger.Error(ctx, "Failed to increment rate limit counter", err, map[string]interface{}{"key": key})
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}
	if count == 1 {
		if err := s.redisClient.Expire(ctx, counterKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	allowed := count <= int64(limit)

	s.logger.Debug(ctx, "Rate limit check", map[string]interface{}{
		"key":     key,
		"count":   count,
		"limit":   limit,
		"allowed": allowed,
	})
	return allowed, nil
}

func (s *rateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	blockKey := "blocked:" + key

	pipe := s.redisClient.TxPipeline()
	pipe.HSet(ctx, blockKey, map[string]interface{}{
		"reason":         reason,
		"blocked_at":     time.Now().Unix(),
		"correlation_id": logger.CorrelationID(ctx),
	})
	pipe.Expire(ctx, blockKey, duration)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error(ctx, "Failed to block key", err, map[string]interface{}{"key": key})
		return fmt.Errorf("failed to block key: %w", err)
	}

	s.logger.Warn(ctx, "Key blocked due to rate limit exceeded", map[string]interface{}{
		"key":      key,
		"duration": duration.String(),
		"reason":   reason,
	})
	return nil
}

func (s *rateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, "blocked:"+key).Result()
	if err != nil {
		s.logger.Error(ctx, "Failed to check block status", err, map[string]interface{}{"key": key})
		return false, fmt.Errorf("failed to check block status: %w", err)
	}
	return exists > 0, nil
}

func (s *rateLimitService) GetAttempts(ctx context.Context, key string) (int, error) {
	count, err := s.redisClient.Get(ctx, "ratelimit:"+key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get attempts: %w", err)
	}
	return count, nil
}

type noopRateLimitService struct{}

func (noopRateLimitService) Allow(context.Context, string, int, time.Duration) (bool, error) {
	return true, nil
}

func (noopRateLimitService) Block(context.Context, string, time.Duration, string) error {
	return nil
}

func (noopRateLimitService) IsBlocked(context.Context, string) (bool, error) {
	return false, nil
}

func (noopRateLimitService) GetAttempts(context.Context, string) (int, error) {
	return 0, nil
}
