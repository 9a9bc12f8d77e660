package metrics

import (
	"context"
	"fmt"
	"time"

	appconfig "github.com/Sokol111/ecommerce-price-sync/pkg/core/config"
	otelinternal "github.com/Sokol111/ecommerce-price-sync/pkg/observability/internal"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// newProvider builds the meter provider that carries the price update
// counter and the runtime metrics, pushed over OTLP gRPC every interval.
func newProvider(ctx context.Context, endpoint string, interval time.Duration, appCfg appconfig.AppConfig) (*sdkmetric.MeterProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("metrics: otel-collector-endpoint is required")
	}

	res, err := otelinternal.NewResource(ctx, appCfg)
	if err != nil {
		return nil, fmt.Errorf("metrics: build resource: %w", err)
	}

	exp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("metrics: create otlp exporter for %s: %w", endpoint, err)
	}

	reader := sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(interval))
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	), nil
}
