package caching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps bodies in Redis under prefix+sha256(url) with a TTL.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewRedisCache connects and verifies the connection with a PING.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisCache{rdb: rdb, prefix: opts.Prefix, ttl: opts.TTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, url string) ([]byte, bool) {
	data, err := c.rdb.Get(ctx, c.prefix+key(url)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores data. A ttl of zero or less keeps the key without expiry.
func (c *RedisCache) Set(ctx context.Context, url string, data []byte) error {
	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, c.prefix+key(url), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write to redis cache: %w", err)
	}
	return nil
}

// Forget removes a cached body. Missing keys are not an error.
func (c *RedisCache) Forget(ctx context.Context, url string) error {
	err := c.rdb.Del(ctx, c.prefix+key(url)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to delete from redis cache: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
