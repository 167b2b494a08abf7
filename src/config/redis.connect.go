package config

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var defaultSentinels = []string{
	"redis-sentinel-node-0.redis-sentinel-headless.architecture.svc.cluster.local:26379",
	"redis-sentinel-node-1.redis-sentinel-headless.architecture.svc.cluster.local:26379",
	"redis-sentinel-node-2.redis-sentinel-headless.architecture.svc.cluster.local:26379",
}

// ConnectRedis opens the redis client used for catalog and image caching.
// A failed ping is returned so the caller can decide to run uncached.
func ConnectRedis(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	var rdb *redis.Client
	if cfg.Mode == "sentinel" {
		sentinels := cfg.Sentinels
		if len(sentinels) == 0 {
			sentinels = defaultSentinels
		}
		rdb = redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:       cfg.MasterName,
			SentinelAddrs:    sentinels,
			Password:         cfg.Password,
			SentinelPassword: cfg.Password,
			DB:               0,
		})
	} else {
		rdb = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Password: cfg.Password,
			DB:       0,
		})
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	pong, err := rdb.Ping(pingCtx).Result()
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping (%s mode): %w", modeName(cfg.Mode), err)
	}
	logger.Info("redis connected", slog.String("mode", modeName(cfg.Mode)), slog.String("pong", pong))
	return rdb, nil
}

func modeName(mode string) string {
	if mode == "" {
		return "standalone"
	}
	return mode
}
