package otel

import (
	"context"
	"fmt"
	"todoapp/config"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials/insecure"
)

type Otel interface {
	NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope)
}

type otelImpl struct {
	TracerProvider *trace.TracerProvider
}

func (o *otelImpl) NewScope(ctx context.Context, scopeName, spanName string) (context.Context, Scope) {
	ctx, span := o.TracerProvider.Tracer(scopeName).Start(ctx, spanName)

	return ctx, NewScope(span)
}

// New builds the tracer provider. With EXTERNAL_OTEL_ENABLE unset spans are still created, so
// trace ids reach the logs, but nothing is exported. The cleanup flushes pending spans.
func New(config *config.Config) (Otel, func(), error) {
	ctx := context.Background()

	options := []trace.TracerProviderOption{
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(config.External.Otel.SamplingRate))),
		trace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(config.App.Name),
			semconv.ServiceVersionKey.String(config.App.Version),
			semconv.DeploymentEnvironmentKey.String(config.Server.Env),
		)),
	}

	if config.External.Otel.Enable {
		exporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(config.External.Otel.Endpoint),
			otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
		}

		options = append(options, trace.WithBatcher(exporter))

		log.Info().Str("endpoint", config.External.Otel.Endpoint).Msg("OTLP trace exporter enabled")
	}

	traceProvider := trace.NewTracerProvider(options...)

	// Set tracer provider global
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	otelInstance := &otelImpl{
		TracerProvider: traceProvider,
	}

	cleanup := func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to shut down tracer provider")

			return
		}

		log.Info().Msg("Tracer provider shut down")
	}

	return otelInstance, cleanup, nil
}

// TraceID returns the hex trace id of the span carried by ctx, or an empty string.
func TraceID(ctx context.Context) string {
	spanContext := oteltrace.SpanContextFromContext(ctx)
	if !spanContext.HasTraceID() {
		return ""
	}

	return spanContext.TraceID().String()
}
