package cache

//go:generate go run go.uber.org/mock/mockgen -source=./cache.go -destination=./mocks/cache_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"todoapp/config"
	"todoapp/infras/metrics"
	"todoapp/infras/otel"
	"todoapp/shared/constant"

	"github.com/redis/go-redis/v9"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
	// Nil is returned by Get on a cache miss, whatever the driver.
	Nil = redis.Nil
)

var ErrUnknownDriver = errors.New("unknown cache driver")

// Cache is a key-value store of JSON encoded values with per-entry TTL in seconds.
type Cache interface {
	Save(ctx context.Context, key string, value any, duration int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Delete(ctx context.Context, key string) error
	// Incr atomically increments the counter at key. A counter created by the call expires
	// after duration seconds; 0 keeps it forever. Later increments keep the original expiry.
	Incr(ctx context.Context, key string, duration int) (int64, error)
	Ping(ctx context.Context) error
}

// New returns the driver selected by CACHE_DRIVER, wrapped with per-call timeouts, tracing and
// error metrics. The redis client is only required for the redis driver.
func New(config *config.Config, client *redis.Client, ot otel.Otel, mtr metrics.Metrics) (Cache, error) {
	var driver Cache

	switch config.Cache.Driver {
	case constant.CacheDriverRedis:
		if client == nil {
			return nil, fmt.Errorf("%w: redis client is not configured", ErrUnknownDriver)
		}

		driver = NewRedisCache(client)
	case constant.CacheDriverMemory:
		driver = NewMemoryCache(config)
	case constant.CacheDriverNone, constant.Empty:
		driver = NewNoopCache()
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, config.Cache.Driver)
	}

	return NewInstrumented(driver, ot, mtr, config.CacheOperationTimeout()), nil
}

// IsMiss reports whether err means the key was absent.
func IsMiss(err error) bool {
	return errors.Is(err, Nil)
}

func encode(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cache value: %w", err)
		}

		return data, nil
	}
}

func decode(data []byte, value any) error {
	switch v := value.(type) {
	case *string:
		*v = string(data)
	case *[]byte:
		*v = append((*v)[:0], data...)
	default:
		if err := json.Unmarshal(data, value); err != nil {
			return fmt.Errorf("failed to unmarshal cache value: %w", err)
		}
	}

	return nil
}
