package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript sets the expiry only on the increment that creates the counter.
var incrScript = redis.NewScript(`
local value = redis.call("INCR", KEYS[1])
if value == 1 and tonumber(ARGV[1]) > 0 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return value
`)

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{
		client: client,
	}
}

// Delete implements Cache.
func (cache *redisCache) Delete(ctx context.Context, key string) error {
	if err := cache.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

// Get implements Cache.
func (cache *redisCache) Get(ctx context.Context, key string, value any) error {
	cacheValue, err := cache.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Nil
	}

	if err != nil {
		return fmt.Errorf("failed to get cache value: %w", err)
	}

	return decode(cacheValue, value)
}

// Save implements Cache.
func (cache *redisCache) Save(ctx context.Context, key string, value any, duration int) error {
	strValue, err := encode(value)
	if err != nil {
		return err
	}

	err = cache.client.Set(ctx, key, strValue, time.Second*time.Duration(duration)).Err()
	if err != nil {
		return fmt.Errorf("failed to set cache value: %w", err)
	}

	return nil
}

// Incr implements Cache.
func (cache *redisCache) Incr(ctx context.Context, key string, duration int) (int64, error) {
	value, err := incrScript.Run(ctx, cache.client, []string{key}, duration).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to increment cache value: %w", err)
	}

	return value, nil
}

// Ping implements Cache.
func (cache *redisCache) Ping(ctx context.Context) error {
	if err := cache.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}
