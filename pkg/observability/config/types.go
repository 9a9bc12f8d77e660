package config

import "time"

const (
	DefaultMetricsInterval      = 10 * time.Second
	DefaultShutdownTimeout      = 5 * time.Second
	DefaultRuntimeStatsInterval = time.Second

	// Readiness component names.
	TracingComponentName = "tracing"
	MetricsComponentName = "metrics"
)

// Config is the "observability" section.
type Config struct {
	OtelCollectorEndpoint string        `mapstructure:"otel-collector-endpoint"`
	Tracing               TracingConfig `mapstructure:"tracing"`
	Metrics               MetricsConfig `mapstructure:"metrics"`
}

type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type MetricsConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	// Runtime enables Go runtime metrics (GC, goroutines, memory).
	Runtime bool `mapstructure:"runtime"`
}
