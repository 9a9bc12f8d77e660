// Package config loads and validates the "kafka" configuration section.
package config

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type moduleOptions struct {
	static *Config
}

type Option func(*moduleOptions)

// WithKafkaConfig supplies a static Config instead of reading viper.
// Defaults and validation still apply.
func WithKafkaConfig(cfg Config) Option {
	return func(o *moduleOptions) { o.static = &cfg }
}

func NewKafkaConfigModule(opts ...Option) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if o.static != nil {
		return fx.Provide(func(log *zap.Logger) (Config, error) {
			return finalize(*o.static, log)
		})
	}
	return fx.Provide(newConfig)
}

func newConfig(v *viper.Viper, log *zap.Logger) (Config, error) {
	var cfg Config
	sub := v.Sub("kafka")
	if sub == nil {
		return cfg, fmt.Errorf("kafka config section is missing")
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to load kafka config: %w", err)
	}
	return finalize(cfg, log)
}

// load applies defaults and validates cfg.
func load(cfg Config) (Config, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid kafka config: %w", err)
	}
	return cfg, nil
}

func finalize(cfg Config, log *zap.Logger) (Config, error) {
	cfg, err := load(cfg)
	if err != nil {
		return cfg, err
	}
	log.Info("kafka config loaded",
		zap.String("brokers", cfg.Brokers),
		zap.String("schema_registry", cfg.SchemaRegistry.URL),
		zap.Int("consumers", len(cfg.Consumers.Items)),
	)
	return cfg, nil
}
