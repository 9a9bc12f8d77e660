package server

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultPort = 8080

// Config is the "server" section. Only probe routes are served.
type Config struct {
	// Port 0 picks a free port.
	Port       int              `mapstructure:"port"`
	Connection ConnectionConfig `mapstructure:"connection"`
}

type ConnectionConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read-header-timeout"`
	ReadTimeout       time.Duration `mapstructure:"read-timeout"`
	WriteTimeout      time.Duration `mapstructure:"write-timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle-timeout"`
}

func newConfig(v *viper.Viper, log *zap.Logger) (Config, error) {
	cfg := Config{Port: defaultPort}
	if sub := v.Sub("server"); sub != nil {
		if err := sub.Unmarshal(&cfg); err != nil {
			return cfg, fmt.Errorf("failed to load server config: %w", err)
		}
	}
	cfg.Connection.setDefaults()

	log.Info("loaded server config", zap.Int("port", cfg.Port))
	return cfg, nil
}

func (c *ConnectionConfig) setDefaults() {
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
}
