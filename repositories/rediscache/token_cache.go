// Package rediscache implements repositories.TokenCache on Redis.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cardfolio/backend/repositories"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TokenCache implements the repositories.TokenCache interface on a Redis client
type TokenCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewTokenCache creates a new Redis-backed token cache
func NewTokenCache(rdb *redis.Client, logger *zap.Logger) *TokenCache {
	return &TokenCache{
		rdb:    rdb,
		logger: logger,
	}
}

// HealthCheck pings the Redis server
func (c *TokenCache) HealthCheck(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Get retrieves a value. A missing or expired key maps to ErrCacheMiss;
// every other failure is surfaced as-is so callers can treat the cache as
// unreachable.
func (c *TokenCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repositories.ErrCacheMiss
		}
		return "", fmt.Errorf("failed to get cache key: %w", err)
	}
	return val, nil
}

// Set stores a value with a TTL
func (c *TokenCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key: %w", err)
	}
	c.logger.Debug("cache entry written", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a key. Redis DEL on a missing key is a no-op.
func (c *TokenCache) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key: %w", err)
	}
	return nil
}
