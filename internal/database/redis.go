package database

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/fuelcard/backend/internal/config"
)

// InitRedis connects to redis. Redis is optional: on failure it logs and
// returns nil so the service keeps running without idempotency support.
func InitRedis(ctx context.Context, cfg config.RedisConfig, logger zerolog.Logger) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.Addr()).Msg("Redis connection failed, continuing without Redis")
		_ = rdb.Close()
		return nil
	}

	logger.Info().Str("addr", cfg.Addr()).Msg("Redis connection established")
	return rdb
}
