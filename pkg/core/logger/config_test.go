package logger

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults when section is absent", func(t *testing.T) {
		cfg, err := newConfig(viper.New())

		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("parses levels and paths", func(t *testing.T) {
		v := viper.New()
		v.Set("logger.level", "debug")
		v.Set("logger.development", true)
		v.Set("logger.stacktrace-level", "warn")
		v.Set("logger.output-paths", []string{"stdout"})

		cfg, err := newConfig(v)

		require.NoError(t, err)
		assert.Equal(t, zapcore.DebugLevel, cfg.Level)
		assert.Equal(t, zapcore.WarnLevel, cfg.StacktraceLevel)
		assert.True(t, cfg.Development)
		assert.Equal(t, []string{"stdout"}, cfg.OutputPaths)
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		v := viper.New()
		v.Set("logger.level", "verbose")

		_, err := newConfig(v)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid level")
	})

	t.Run("rejects blank output path", func(t *testing.T) {
		v := viper.New()
		v.Set("logger.output-paths", []string{"stdout", " "})

		_, err := newConfig(v)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "output-paths[1]")
	})
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger(Config{Level: zapcore.WarnLevel, StacktraceLevel: zapcore.ErrorLevel, OutputPaths: []string{"stdout"}})

	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}
