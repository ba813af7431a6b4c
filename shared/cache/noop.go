package cache

import "context"

type noopCache struct{}

// NewNoopCache returns a cache that stores nothing. Every Get is a miss.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Save(context.Context, string, any, int) error { return nil }

func (noopCache) Get(context.Context, string, any) error { return Nil }

func (noopCache) Delete(context.Context, string) error { return nil }

func (noopCache) Incr(context.Context, string, int) (int64, error) { return 0, nil }

func (noopCache) Ping(context.Context) error { return nil }
