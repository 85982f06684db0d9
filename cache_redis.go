package openblox

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSettings configures a RedisCache entry's lifetime.
type RedisSettings struct {
	TTL time.Duration
}

// RedisCache is a CacheAdapter backed by a Redis instance, for sharing cached
// responses between processes. Keys are namespaced under the configured
// prefix; values are the raw response bodies.
type RedisCache struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

// NewRedisCache constructs a RedisCache on top of an existing client.
// defaultTTL applies whenever a Set carries no RedisSettings.
func NewRedisCache(client redis.UniversalClient, prefix string, defaultTTL time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "openblox:cache:"
	}
	return &RedisCache{
		client:     client,
		prefix:     prefix,
		defaultTTL: defaultTTL,
	}
}

func (c *RedisCache) Get(ctx context.Context, key CacheKey) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key CacheKey, value []byte, settings any) error {
	ttl := c.defaultTTL
	switch s := settings.(type) {
	case RedisSettings:
		if s.TTL > 0 {
			ttl = s.TTL
		}
	case *RedisSettings:
		if s != nil && s.TTL > 0 {
			ttl = s.TTL
		}
	}
	return c.client.Set(ctx, c.prefix+key.String(), value, ttl).Err()
}
