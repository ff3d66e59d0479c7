package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vipul43/classmate-sync/internal/service"
)

// RedisStateStore keeps pending OAuth connect states in Redis so any
// gateway instance can finish a flow another instance started.
type RedisStateStore struct {
	client redis.UniversalClient
}

var _ service.StateStore = (*RedisStateStore)(nil)

// NewRedisStateStore constructs a Redis-backed state store.
func NewRedisStateStore(client redis.UniversalClient) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// SaveState stores the user id for a state key with TTL.
func (s *RedisStateStore) SaveState(ctx context.Context, key, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("persist state: %w", err)
	}
	return nil
}

// ConsumeState atomically reads and deletes the state key, so a state can
// complete at most one flow.
func (s *RedisStateStore) ConsumeState(ctx context.Context, key string) (string, error) {
	userID, err := s.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("load state: %w", err)
	}
	return userID, nil
}
