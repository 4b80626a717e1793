// Package cache holds the Redis client and the small key-value guards built on it.
package cache

import (
	"context"
	"log/slog"
	"time"

	"ministry/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const pingTimeout = 2 * time.Second

type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewRedisClient returns nil when Redis is not configured or does not answer a ping,
// so callers degrade instead of failing startup.
func NewRedisClient(params Params) *redis.Client {
	cfg := params.Config.Redis
	if cfg == nil || cfg.Addr == "" {
		params.Logger.Info("Redis not configured, rate limiting and cooldowns fall back")

		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		params.Logger.Warn("Redis unavailable, continuing without it",
			slog.String("addr", cfg.Addr),
			slog.Any("error", err),
		)
		_ = client.Close()

		return nil
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	params.Logger.Info("Redis connected", slog.String("addr", cfg.Addr))

	return client
}
