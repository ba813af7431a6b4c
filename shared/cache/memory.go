package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
	"todoapp/config"

	"github.com/viccon/sturdyc"
)

// memoryTTL bounds every entry in the in-process store; shorter per-entry TTLs are enforced
// on read from the stored expiry.
const memoryTTL = time.Hour

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memoryCounter struct {
	value     int64
	expiresAt time.Time
}

func (c memoryCounter) expired(now time.Time) bool {
	return !c.expiresAt.IsZero() && now.After(c.expiresAt)
}

// memoryCache keeps counters out of sturdyc so that eviction can never reset them.
type memoryCache struct {
	client   *sturdyc.Client[memoryEntry]
	capacity int

	mu       sync.Mutex
	counters map[string]memoryCounter
}

// NewMemoryCache returns a single-process cache backed by sturdyc.
func NewMemoryCache(config *config.Config) Cache {
	memory := config.Cache.Memory

	client := sturdyc.New[memoryEntry](
		max(memory.Capacity, 1),
		max(memory.NumShards, 1),
		memoryTTL,
		min(max(memory.EvictionPercentage, 1), 100),
	)

	return &memoryCache{
		client:   client,
		capacity: max(memory.Capacity, 1),
		counters: map[string]memoryCounter{},
	}
}

func (cache *memoryCache) lookup(key string) ([]byte, bool) {
	entry, ok := cache.client.Get(key)
	if !ok {
		return nil, false
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		cache.client.Delete(key)

		return nil, false
	}

	return entry.data, true
}

// Delete implements Cache.
func (cache *memoryCache) Delete(_ context.Context, key string) error {
	cache.mu.Lock()
	delete(cache.counters, key)
	cache.mu.Unlock()

	cache.client.Delete(key)

	return nil
}

// Get implements Cache.
func (cache *memoryCache) Get(_ context.Context, key string, value any) error {
	if counter, ok := cache.counter(key); ok {
		return decode([]byte(strconv.FormatInt(counter, 10)), value)
	}

	data, ok := cache.lookup(key)
	if !ok {
		return Nil
	}

	return decode(data, value)
}

// Save implements Cache.
func (cache *memoryCache) Save(_ context.Context, key string, value any, duration int) error {
	data, err := encode(value)
	if err != nil {
		return err
	}

	cache.mu.Lock()
	delete(cache.counters, key)
	cache.mu.Unlock()

	entry := memoryEntry{data: data}
	if duration > 0 {
		entry.expiresAt = time.Now().Add(time.Duration(duration) * time.Second)
	}

	cache.client.Set(key, entry)

	return nil
}

// Incr implements Cache.
func (cache *memoryCache) Incr(_ context.Context, key string, duration int) (int64, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	now := time.Now()

	counter, ok := cache.counters[key]
	if !ok || counter.expired(now) {
		if len(cache.counters) >= cache.capacity {
			cache.pruneCounters(now)
		}

		counter = memoryCounter{}
		if duration > 0 {
			counter.expiresAt = now.Add(time.Duration(duration) * time.Second)
		}
	}

	counter.value++
	cache.counters[key] = counter

	return counter.value, nil
}

func (cache *memoryCache) counter(key string) (int64, bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	counter, ok := cache.counters[key]
	if !ok {
		return 0, false
	}

	if counter.expired(time.Now()) {
		delete(cache.counters, key)

		return 0, false
	}

	return counter.value, true
}

// pruneCounters drops expired counters. Callers hold mu.
func (cache *memoryCache) pruneCounters(now time.Time) {
	for key, counter := range cache.counters {
		if counter.expired(now) {
			delete(cache.counters, key)
		}
	}
}

// Ping implements Cache.
func (cache *memoryCache) Ping(_ context.Context) error {
	return nil
}
