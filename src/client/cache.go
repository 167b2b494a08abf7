package client

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// tagKey indexes every cached catalog response so a write can drop them all.
const tagKey = "catalog:cached_keys"

// Cache stores raw remote responses for the unauthenticated catalog reads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Purge(ctx context.Context) error
}

// NewRedisCache returns a redis backed cache, or a no-op cache when rdb is nil
// so the storefront keeps working without redis.
func NewRedisCache(rdb *redis.Client, logger *slog.Logger) Cache {
	if rdb == nil {
		return NopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &redisCache{rdb: rdb, logger: logger}
}

type redisCache struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "[Cache] read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return nil, false
	}
	return data, len(data) > 0
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, key, value, ttl)
	pipe.SAdd(ctx, tagKey, key)
	pipe.Expire(ctx, tagKey, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.WarnContext(ctx, "[Cache] write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (c *redisCache) Purge(ctx context.Context) error {
	keys, err := c.rdb.SMembers(ctx, tagKey).Result()
	if err != nil {
		return err
	}
	keys = append(keys, tagKey)
	return c.rdb.Del(ctx, keys...).Err()
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (NopCache) Set(context.Context, string, []byte, time.Duration) {}
func (NopCache) Purge(context.Context) error                        { return nil }
