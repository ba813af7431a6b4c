package otel_test

import (
	"context"
	"errors"
	"testing"
	"todoapp/config"
	"todoapp/infras/otel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutExporter(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Name = "todo-api"
	cfg.External.Otel.SamplingRate = 1

	ot, cleanup, err := otel.New(cfg)
	require.NoError(t, err)
	defer cleanup()

	ctx, scope := ot.NewScope(context.Background(), "service", "service.Create")
	scope.SetAttributes(map[string]any{
		"todo.id":    int64(1),
		"todo.title": "Buy milk",
		"done":       false,
		"ratio":      0.5,
		"count":      3,
		"tags":       []string{"a"},
		"other":      struct{}{},
	})
	scope.AddEvent("cache.miss")
	scope.TraceIfError(nil)
	scope.TraceIfError(errors.New("boom"))
	scope.SetName("service.Create")

	assert.Len(t, otel.TraceID(ctx), 32)

	scope.End()
}

func TestTraceIDWithoutSpan(t *testing.T) {
	assert.Empty(t, otel.TraceID(context.Background()))
}
