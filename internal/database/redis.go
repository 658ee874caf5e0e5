// Package database wraps the optional Redis-backed occurrence-result
// cache. ERIN only ever needs get/set on a handful of
// byte-string keys, so RedisClient exposes just that narrow surface
// rather than the full go-redis API.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bigladder/erin/internal/config"
)

// RedisClient wraps a go-redis connection with the narrow set of
// operations the occurrence cache (cache.go) needs.
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient connects to the Redis instance named by cfg, verifying
// the connection with a Ping before returning.
func NewRedisClient(cfg config.RedisConfig) (*RedisClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Addr(),
		Password:        cfg.Password,
		DB:              cfg.DB,
		PoolSize:        10,
		MaxRetries:      3,
		MinRetryBackoff: 100 * time.Millisecond,
		DialTimeout:     5 * time.Second,
		ReadTimeout:     3 * time.Second,
		WriteTimeout:    3 * time.Second,
	})

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisClient{client: rdb, ctx: ctx}, nil
}

// Close closes the underlying connection.
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// Ping tests the Redis connection.
func (r *RedisClient) Ping() error {
	return r.client.Ping(r.ctx).Err()
}

// Set stores value under key with the given expiration (zero means no
// expiration).
func (r *RedisClient) Set(key string, value []byte, expiration time.Duration) error {
	return r.client.Set(r.ctx, key, value, expiration).Err()
}

// Get retrieves the value stored under key. ok is false when the key is
// absent; err carries any other failure.
func (r *RedisClient) Get(key string) (value []byte, ok bool, err error) {
	v, err := r.client.Get(r.ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
