package cache

import (
	"context"
	"time"
	"todoapp/infras/metrics"
	"todoapp/infras/otel"

	"github.com/rs/zerolog/log"
)

type instrumented struct {
	next    Cache
	otel    otel.Otel
	metrics metrics.Metrics
	timeout time.Duration
}

// NewInstrumented bounds every call to next by timeout, opens a span per call and counts
// backend errors. Misses are not errors.
func NewInstrumented(next Cache, ot otel.Otel, mtr metrics.Metrics, timeout time.Duration) Cache {
	return &instrumented{
		next:    next,
		otel:    ot,
		metrics: mtr,
		timeout: timeout,
	}
}

func (cache *instrumented) begin(ctx context.Context, operation, key string) (context.Context, func(error)) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+"."+operation)
	scope.SetAttribute(otelCacheKeyAttribute, key)

	cancel := func() {}
	if cache.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, cache.timeout)
	}

	return ctx, func(err error) {
		cancel()

		if err != nil && !IsMiss(err) {
			scope.TraceError(err)
			cache.metrics.CacheError(operation)
			log.Warn().Err(err).Str("key", key).Str("operation", operation).Msg("cache operation failed")
		}

		scope.End()
	}
}

func (cache *instrumented) Save(ctx context.Context, key string, value any, duration int) (err error) {
	ctx, end := cache.begin(ctx, "Save", key)
	defer func() { end(err) }()

	return cache.next.Save(ctx, key, value, duration)
}

func (cache *instrumented) Get(ctx context.Context, key string, value any) (err error) {
	ctx, end := cache.begin(ctx, "Get", key)
	defer func() { end(err) }()

	return cache.next.Get(ctx, key, value)
}

func (cache *instrumented) Delete(ctx context.Context, key string) (err error) {
	ctx, end := cache.begin(ctx, "Delete", key)
	defer func() { end(err) }()

	return cache.next.Delete(ctx, key)
}

func (cache *instrumented) Incr(ctx context.Context, key string, duration int) (value int64, err error) {
	ctx, end := cache.begin(ctx, "Incr", key)
	defer func() { end(err) }()

	return cache.next.Incr(ctx, key, duration)
}

func (cache *instrumented) Ping(ctx context.Context) (err error) {
	ctx, end := cache.begin(ctx, "Ping", "")
	defer func() { end(err) }()

	return cache.next.Ping(ctx)
}
