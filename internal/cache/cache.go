package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a read-through cache for service-level GETs. Values are stored as
// JSON. A cache failure is never fatal to the caller: services treat a miss
// and an error the same way and fall through to the repository.
type Cache interface {
	// Get unmarshals the cached value into dest and reports whether the key
	// was present.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	// Key builds a namespaced cache key: <service>:<part>:<part>...
	Key(parts ...string) string
}

type redisCache struct {
	client      *redis.Client
	serviceName string
}

// New returns a redis-backed Cache. An empty addr disables caching and
// returns a no-op implementation, so callers never need a nil check.
func New(addr, serviceName string) Cache {
	if addr == "" {
		return noop{}
	}
	return &redisCache{
		client:      redis.NewClient(&redis.Options{Addr: addr}),
		serviceName: serviceName,
	}
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, raw, ttl).Err()
}

func (r *redisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisCache) Key(parts ...string) string {
	return r.serviceName + ":" + strings.Join(parts, ":")
}

type noop struct{}

func (noop) Get(ctx context.Context, key string, dest interface{}) (bool, error) { return false, nil }
func (noop) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noop) Del(ctx context.Context, keys ...string) error { return nil }
func (noop) Key(parts ...string) string                    { return strings.Join(parts, ":") }

// Noop returns a disabled Cache, mainly for tests.
func Noop() Cache { return noop{} }
