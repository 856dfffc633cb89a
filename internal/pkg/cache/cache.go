package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL tiers. Short for rapidly changing data, medium for dashboard
// aggregates, long for summary data.
const (
	TTLShort  = 60 * time.Second
	TTLMedium = 5 * time.Minute
	TTLLong   = time.Hour
)

// Cache key registry. Keys are namespaced per view so invalidation can
// target exactly the views a write affects.
const (
	KeyDashboardSummary = "leave:dashboard:summary"
	KeyTodayOnLeave     = "leave:today:on_leave"
)

func KeyEmployeeLeaves(employeeID int64) string {
	return fmt.Sprintf("leave:employee:%d", employeeID)
}

func KeyDirectoryEmployee(employeeID int64) string {
	return fmt.Sprintf("directory:employee:%d", employeeID)
}

func KeyDirectoryEmail(email string) string {
	return fmt.Sprintf("directory:email:%s", email)
}

// Store is the cache collaborator injected into services. Implementations
// must treat the cache as a best-effort optimization: correctness never
// depends on a hit.
type Store interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &redisStore{client: client}, nil
}

func (s *redisStore) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// Corrupt entry behaves like a miss; the caller recomputes.
		return false, nil
	}
	return true, nil
}

func (s *redisStore) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}
