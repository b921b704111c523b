package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis implements KV on a Redis instance. Values above the configured size
// limit are rejected with ErrQuotaExceeded before reaching the server.
type Redis struct {
	client        *redis.Client
	keyPrefix     string
	maxValueBytes int
}

// NewRedis parses a Redis URL (e.g. "redis://host:6379/0") and returns a
// connected store. maxValueBytes <= 0 disables the size limit.
func NewRedis(rawURL, keyPrefix string, maxValueBytes int) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Redis{
		client:        redis.NewClient(opts),
		keyPrefix:     keyPrefix,
		maxValueBytes: maxValueBytes,
	}, nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close shuts down the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(k string) string {
	return r.keyPrefix + k
}

// Get fetches a key. Returns ErrNotFound when absent.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage get %s: %w", key, err)
	}
	return raw, nil
}

// Set stores a value with no TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if r.maxValueBytes > 0 && len(value) > r.maxValueBytes {
		return ErrQuotaExceeded
	}
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("storage set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("storage del %s: %w", key, err)
	}
	return nil
}
