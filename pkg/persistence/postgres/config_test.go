package postgres

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		v := viper.New()
		v.Set("postgres.host", "localhost")
		v.Set("postgres.database", "products")

		cfg, err := newConfig(v)

		require.NoError(t, err)
		assert.Equal(t, defaultPort, cfg.Port)
		assert.Equal(t, defaultSSLMode, cfg.SSLMode)
		assert.Equal(t, int32(defaultMaxConns), cfg.MaxConns)
		assert.Equal(t, defaultConnectTimeout, cfg.ConnectTimeout)
		assert.Equal(t, defaultMigrationsTable, cfg.Migrations.Table)
	})

	t.Run("reads explicit values", func(t *testing.T) {
		v := viper.New()
		v.Set("postgres.connection-string", "postgres://u:p@db:5433/x")
		v.Set("postgres.max-conns", 4)
		v.Set("postgres.min-conns", 2)
		v.Set("postgres.max-conn-idle-time", "30s")
		v.Set("postgres.migrations.auto-apply", true)

		cfg, err := newConfig(v)

		require.NoError(t, err)
		assert.Equal(t, int32(4), cfg.MaxConns)
		assert.Equal(t, int32(2), cfg.MinConns)
		assert.Equal(t, 30*time.Second, cfg.MaxConnIdleTime)
		assert.True(t, cfg.Migrations.AutoApply)
	})

	t.Run("missing section fails validation", func(t *testing.T) {
		_, err := newConfig(viper.New())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "host or connection-string")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "connection string only", cfg: Config{ConnectionString: "postgres://x", MaxConns: 1}},
		{name: "host and database", cfg: Config{Host: "db", Database: "products", MaxConns: 1}},
		{name: "missing database", cfg: Config{Host: "db", MaxConns: 1}, wantErr: "database is required"},
		{name: "min above max", cfg: Config{Host: "db", Database: "p", MinConns: 5, MaxConns: 2}, wantErr: "exceeds max-conns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	t.Run("builds url from fields", func(t *testing.T) {
		cfg := Config{Host: "db", Port: 5432, Username: "app", Password: "p@ss", Database: "products", SSLMode: "disable"}

		assert.Equal(t, "postgres://app:p%40ss@db:5432/products?sslmode=disable", cfg.DSN())
	})

	t.Run("connection string wins", func(t *testing.T) {
		cfg := Config{ConnectionString: "postgres://a@b/c", Host: "ignored"}

		assert.Equal(t, "postgres://a@b/c", cfg.DSN())
	})
}
