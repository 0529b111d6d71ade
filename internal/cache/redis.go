package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis. This is the backend for
// multi-instance deployments sharing one cache.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store from a connection URL
// (e.g. "redis://localhost:6379" or "redis://:password@host:6379/0").
// The connection is verified with a ping before the store is returned.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis cache connected", "addr", opts.Addr, "db", opts.DB)

	return &RedisStore{client: client}, nil
}

// Get retrieves the value for key from Redis.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // no entry, not an error
		}
		return nil, false, fmt.Errorf("failed to get key from redis: %w", err)
	}
	return data, true, nil
}

// Set stores value under key with the given TTL (SETEX semantics).
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key in redis: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
