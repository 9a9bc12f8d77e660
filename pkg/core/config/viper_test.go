package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestResolveConfigPath(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv(envConfigFile, "/from/env.yaml")

		path, explicit := resolveConfigPath("/explicit.yaml", "local")

		assert.Equal(t, "/explicit.yaml", path)
		assert.True(t, explicit)
	})

	t.Run("CONFIG_FILE is explicit", func(t *testing.T) {
		t.Setenv(envConfigFile, "/from/env.yaml")

		path, explicit := resolveConfigPath("", "local")

		assert.Equal(t, "/from/env.yaml", path)
		assert.True(t, explicit)
	})

	t.Run("derives default from environment", func(t *testing.T) {
		t.Setenv(envConfigFile, "")
		t.Setenv(envConfigDir, "")
		t.Setenv(envConfigName, "")

		path, explicit := resolveConfigPath("", "dev")

		assert.Equal(t, filepath.Join(defaultConfigDir, "config.dev.yaml"), path)
		assert.False(t, explicit)
	})

	t.Run("honours CONFIG_DIR and CONFIG_NAME", func(t *testing.T) {
		t.Setenv(envConfigFile, "")
		t.Setenv(envConfigDir, "/etc/pricesync")
		t.Setenv(envConfigName, "custom")

		path, _ := resolveConfigPath("", "dev")

		assert.Equal(t, filepath.Join("/etc/pricesync", "custom.yaml"), path)
	})
}

func TestNewViper(t *testing.T) {
	t.Run("reads yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "postgres:\n  host: db\n  port: 5433\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		v, err := newViper(path, true, zap.NewNop())

		require.NoError(t, err)
		assert.Equal(t, "db", v.GetString("postgres.host"))
		assert.Equal(t, 5433, v.GetInt("postgres.port"))
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		_, err := newViper("/nonexistent/config.yaml", true, zap.NewNop())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "/nonexistent/config.yaml")
	})

	t.Run("missing default file falls back to environment", func(t *testing.T) {
		v, err := newViper("/nonexistent/config.local.yaml", false, zap.NewNop())

		require.NoError(t, err)
		assert.Empty(t, v.AllKeys())
	})

	t.Run("environment overrides nested keys", func(t *testing.T) {
		t.Setenv("POSTGRES_HOST", "from-env")

		v, err := newViper("", false, zap.NewNop())

		require.NoError(t, err)
		assert.Equal(t, "from-env", v.GetString("postgres.host"))
	})
}
