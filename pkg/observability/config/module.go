package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type configOptions struct {
	config         *Config
	disableTracing bool
	disableMetrics bool
}

type Option func(*configOptions)

// WithConfig provides a static Config.
func WithConfig(cfg Config) Option {
	return func(opts *configOptions) {
		opts.config = &cfg
	}
}

// WithDisableTracing disables tracing regardless of configuration.
func WithDisableTracing() Option {
	return func(opts *configOptions) {
		opts.disableTracing = true
	}
}

// WithDisableMetrics disables metrics regardless of configuration.
func WithDisableMetrics() Option {
	return func(opts *configOptions) {
		opts.disableMetrics = true
	}
}

// NewObservabilityConfigModule provides Config from the "observability"
// viper section, or from WithConfig. A missing section disables everything.
func NewObservabilityConfigModule(opts ...Option) fx.Option {
	cfg := &configOptions{}
	for _, opt := range opts {
		opt(cfg)
	}

	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(provideConfig),
	)
}

func provideConfig(opts *configOptions, v *viper.Viper, logger *zap.Logger) (Config, error) {
	var cfg Config
	if opts.config != nil {
		cfg = *opts.config
	} else if sub := v.Sub("observability"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load observability config: %w", err)
		}
	}

	applyDefaults(&cfg)
	applyDisableOptions(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	logger.Info("loaded observability config",
		zap.Bool("tracing", cfg.Tracing.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Metrics.Interval == 0 {
		cfg.Metrics.Interval = DefaultMetricsInterval
	}
}

func applyDisableOptions(cfg *Config, opts *configOptions) {
	if opts.disableTracing {
		cfg.Tracing.Enabled = false
	}
	if opts.disableMetrics {
		cfg.Metrics.Enabled = false
	}
}

// Validate requires a collector endpoint when metrics export is on.
func (c Config) Validate() error {
	if c.Metrics.Enabled && c.OtelCollectorEndpoint == "" {
		return errors.New("observability: otel-collector-endpoint is required when metrics are enabled")
	}
	if c.Metrics.Interval < 0 {
		return errors.New("observability: metrics interval must be positive")
	}
	return nil
}
