package postgres

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// ConnectionString, when set, takes precedence over the discrete fields.
	ConnectionString string `mapstructure:"connection-string"`
	Host             string `mapstructure:"host"`
	Port             int    `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	SSLMode          string `mapstructure:"ssl-mode"`

	MaxConns        int32         `mapstructure:"max-conns"`
	MinConns        int32         `mapstructure:"min-conns"`
	MaxConnIdleTime time.Duration `mapstructure:"max-conn-idle-time"`
	ConnectTimeout  time.Duration `mapstructure:"connect-timeout"`

	Migrations MigrationsConfig `mapstructure:"migrations"`
}

type MigrationsConfig struct {
	// AutoApply runs pending migrations during application start.
	AutoApply bool   `mapstructure:"auto-apply"`
	Table     string `mapstructure:"table"`
}

const (
	defaultPort            = 5432
	defaultSSLMode         = "disable"
	defaultMaxConns        = 10
	defaultMinConns        = 1
	defaultMaxConnIdleTime = 5 * time.Minute
	defaultConnectTimeout  = 10 * time.Second
	defaultMigrationsTable = "schema_migrations"
)

func newConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if sub := v.Sub("postgres"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load postgres config: %w", err)
		}
	}
	applyDefaults(&cfg)
	return cfg, cfg.Validate()
}

func applyDefaults(cfg *Config) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = defaultSSLMode
	}
	if cfg.MaxConns == 0 {
		cfg.MaxConns = defaultMaxConns
	}
	if cfg.MinConns == 0 {
		cfg.MinConns = defaultMinConns
	}
	if cfg.MaxConnIdleTime == 0 {
		cfg.MaxConnIdleTime = defaultMaxConnIdleTime
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.Migrations.Table == "" {
		cfg.Migrations.Table = defaultMigrationsTable
	}
}

func (c Config) Validate() error {
	if c.ConnectionString == "" {
		if c.Host == "" {
			return errors.New("postgres: host or connection-string is required")
		}
		if c.Database == "" {
			return errors.New("postgres: database is required")
		}
	}
	if c.MinConns > c.MaxConns {
		return fmt.Errorf("postgres: min-conns (%d) exceeds max-conns (%d)", c.MinConns, c.MaxConns)
	}
	return nil
}

// DSN returns the connection URL.
func (c Config) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	if c.Username != "" {
		u.User = url.UserPassword(c.Username, c.Password)
	}
	return u.String()
}
