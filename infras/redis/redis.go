package redis

import (
	"context"
	"fmt"
	"net"
	"time"
	"todoapp/config"
	"todoapp/shared/constant"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const pingTimeout = 5 * time.Second

// New connects the primary redis pool when the redis cache driver is selected. For any other
// driver it returns a nil client and a no-op cleanup.
func New(config *config.Config) (*goRedis.Client, func(), error) {
	if config.Cache.Driver != constant.CacheDriverRedis {
		log.Info().Str("driver", config.Cache.Driver).Msg("Redis disabled for cache driver")

		return nil, func() {}, nil
	}

	primary := config.Cache.Redis.Primary
	timeout := config.CacheOperationTimeout()

	client := goRedis.NewClient(&goRedis.Options{
		Addr:         net.JoinHostPort(primary.Host, primary.Port),
		Password:     primary.Password,
		DB:           primary.DB,
		PoolSize:     primary.PoolSize,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()

		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().
		Int("db", primary.DB).
		Str("host", primary.Host).
		Str("port", primary.Port).
		Int("poolSize", primary.PoolSize).
		Msg("Connected to Redis")

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Redis client")

			return
		}

		log.Info().Msg("Redis client closed")
	}

	return client, cleanup, nil
}
