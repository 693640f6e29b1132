package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/firasbelhiba/4hacks-backend--sub000/domain"
)

// Key prefixes namespace the two kinds of ephemeral entries.
const (
	VerificationKeyPrefix = "verify:"
	ResetKeyPrefix        = "pwdreset:"
)

// VerificationKey builds the cache key for a user's email verification code.
func VerificationKey(userID uint) string {
	return fmt.Sprintf("%s%d", VerificationKeyPrefix, userID)
}

// ResetKey builds the cache key for a user's reset-token digest.
func ResetKey(userID uint) string {
	return fmt.Sprintf("%s%d", ResetKeyPrefix, userID)
}

// RedisCodeCache implements domain.CodeCache using Redis. Entry lifetime is
// owned entirely by Redis TTLs; there is no application-level reaping.
type RedisCodeCache struct {
	client *redis.Client
}

// NewCodeCache creates a new Redis-backed code cache
func NewCodeCache(client *redis.Client) domain.CodeCache {
	return &RedisCodeCache{client: client}
}

// Set implements domain.CodeCache
func (c *RedisCodeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Get implements domain.CodeCache
func (c *RedisCodeCache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrCacheMiss
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cache entry: %w", err)
	}
	return value, nil
}

// Delete implements domain.CodeCache
func (c *RedisCodeCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}
