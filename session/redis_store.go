package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/medleaf/pharmakit"
)

// RedisStore is a Redis-backed implementation of pharmakit.Store. Keys are
// namespaced so several clients can share one Redis without collisions.
type RedisStore struct {
	client    *redis.Client
	namespace string
	logger    pharmakit.Logger
}

// RedisStoreOptions configures the Redis store
type RedisStoreOptions struct {
	RedisURL  string
	Namespace string           // defaults to "pharmakit:session"
	Logger    pharmakit.Logger // optional
}

// NewRedisStore creates a Redis-backed store and verifies connectivity.
func NewRedisStore(opts RedisStoreOptions) (*RedisStore, error) {
	opt, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	namespace := opts.Namespace
	if namespace == "" {
		namespace = "pharmakit:session"
	}
	logger := opts.Logger
	if logger == nil {
		logger = &pharmakit.NoOpLogger{}
	}

	return &RedisStore{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}, nil
}

func (r *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", r.namespace, key)
}

// Get retrieves a value. A missing key returns "" with no error, matching
// the MemoryStore contract.
func (r *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Set stores a value with optional TTL (0 means no expiry).
func (r *RedisStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes a value
func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Exists checks whether a key is present
func (r *RedisStore) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n > 0, nil
}

// Close releases the Redis connection
func (r *RedisStore) Close() error {
	return r.client.Close()
}
