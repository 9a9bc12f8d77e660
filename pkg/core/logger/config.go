package logger

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config is read from the "logger" section.
type Config struct {
	Level           zapcore.Level
	Development     bool
	OutputPaths     []string
	StacktraceLevel zapcore.Level
}

// DefaultConfig is used when the "logger" section is absent.
func DefaultConfig() Config {
	return Config{
		Level:           zapcore.InfoLevel,
		StacktraceLevel: zapcore.ErrorLevel,
	}
}

type rawConfig struct {
	Level           string   `mapstructure:"level"`
	Development     bool     `mapstructure:"development"`
	OutputPaths     []string `mapstructure:"output-paths"`
	StacktraceLevel string   `mapstructure:"stacktrace-level"`
}

func newConfig(v *viper.Viper) (Config, error) {
	cfg := DefaultConfig()

	sub := v.Sub("logger")
	if sub == nil {
		return cfg, nil
	}

	var raw rawConfig
	if err := sub.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("failed to load logger config: %w", err)
	}

	var err error
	if cfg.Level, err = parseLevel(raw.Level, cfg.Level); err != nil {
		return Config{}, fmt.Errorf("invalid level: %w", err)
	}
	if cfg.StacktraceLevel, err = parseLevel(raw.StacktraceLevel, cfg.StacktraceLevel); err != nil {
		return Config{}, fmt.Errorf("invalid stacktrace-level: %w", err)
	}
	cfg.Development = raw.Development
	cfg.OutputPaths = raw.OutputPaths

	return cfg, cfg.Validate()
}

func parseLevel(s string, fallback zapcore.Level) (zapcore.Level, error) {
	if s == "" {
		return fallback, nil
	}
	return zapcore.ParseLevel(s)
}

// Validate rejects blank output paths.
func (c Config) Validate() error {
	for i, p := range c.OutputPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("output-paths[%d] is blank", i)
		}
	}
	return nil
}
