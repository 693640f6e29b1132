package database

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a redis client for the ephemeral code cache.
func NewRedis(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

// Ping verifies the redis connection is usable.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}
