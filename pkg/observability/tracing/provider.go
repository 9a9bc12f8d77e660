package tracing

import (
	"context"

	appconfig "github.com/Sokol111/ecommerce-price-sync/pkg/core/config"
	otelinternal "github.com/Sokol111/ecommerce-price-sync/pkg/observability/internal"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// newTracerProvider exports over OTLP/gRPC when endpoint is set and keeps
// spans in-process otherwise.
func newTracerProvider(ctx context.Context, log *zap.Logger, endpoint string, appCfg appconfig.AppConfig) (*sdktrace.TracerProvider, error) {
	res, err := otelinternal.NewResource(ctx, appCfg)
	if err != nil {
		return nil, err
	}

	if endpoint == "" {
		log.Info("tracing: no collector endpoint, running in local mode")
		return sdktrace.NewTracerProvider(
			sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
			sdktrace.WithResource(res),
		), nil
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	), nil
}

// Logger returns log with trace_id and span_id of the span in ctx, if any.
func Logger(ctx context.Context, log *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
