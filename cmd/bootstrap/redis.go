package bootstrap

import (
	"context"
	"log/slog"

	"salon-booking/internal/infra/ratelimit"
	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/config"
	"salon-booking/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RedisModule = fx.Module("redis",
	fx.Provide(
		NewRedisClient,
		NewQuotaChecker,
	),
)

// NewRedisClient returns nil when no address is configured.
func NewRedisClient(lc fx.Lifecycle, cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				// the limiter decides per request whether to fail open
				slog.Warn("redis ping failed", "addr", cfg.Redis.Addr, "error", err.Error())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			return rdb.Close()
		},
	})
	return rdb
}

func NewQuotaChecker(rdb *redis.Client, cfg config.Config, clk clock.Clock) shared.QuotaChecker {
	if rdb == nil {
		slog.Warn("REDIS_ADDR not set, rate limiting disabled")
		return ratelimit.Unlimited{
			Window: cfg.RateLimit.Window,
			Clock:  clk,
			Limits: ratelimit.Limits(cfg.RateLimit),
		}
	}
	return ratelimit.NewRedisQuota(rdb, cfg.RateLimit, clk)
}
