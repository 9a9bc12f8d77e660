package product

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// UnmatchedPolicy decides what happens to a price change for an unknown code.
type UnmatchedPolicy string

const (
	// UnmatchedSkip logs and commits the message.
	UnmatchedSkip UnmatchedPolicy = "skip"
	// UnmatchedDLQ routes the message to the dead-letter topic.
	UnmatchedDLQ UnmatchedPolicy = "dlq"
)

// Config is the "pricing" section.
type Config struct {
	UnmatchedPolicy UnmatchedPolicy `mapstructure:"unmatched-policy"`
}

func (c *Config) applyDefaults() {
	if c.UnmatchedPolicy == "" {
		c.UnmatchedPolicy = UnmatchedSkip
	}
}

func (c Config) Validate() error {
	switch c.UnmatchedPolicy {
	case UnmatchedSkip, UnmatchedDLQ:
		return nil
	}
	return fmt.Errorf("pricing: unmatched-policy must be %q or %q, got %q", UnmatchedSkip, UnmatchedDLQ, c.UnmatchedPolicy)
}

func newConfig(v *viper.Viper, log *zap.Logger) (Config, error) {
	var cfg Config
	if sub := v.Sub("pricing"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load pricing config: %w", err)
		}
	}
	return finalizeConfig(cfg, log)
}

func finalizeConfig(cfg Config, log *zap.Logger) (Config, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	log.Info("loaded pricing config", zap.String("unmatched_policy", string(cfg.UnmatchedPolicy)))
	return cfg, nil
}
