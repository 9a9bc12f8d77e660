package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	envConfigFile = "CONFIG_FILE"
	envConfigDir  = "CONFIG_DIR"
	envConfigName = "CONFIG_NAME"

	defaultConfigDir = "./configs"
)

type viperOptions struct {
	configPath   string
	noConfigFile bool
}

// ViperOption configures the viper module.
type ViperOption func(*viperOptions)

// WithConfigPath loads configuration from the given file.
func WithConfigPath(path string) ViperOption {
	return func(o *viperOptions) {
		o.configPath = path
	}
}

// WithoutConfigFile provides a viper instance backed only by the environment.
func WithoutConfigFile() ViperOption {
	return func(o *viperOptions) {
		o.noConfigFile = true
	}
}

// NewViperModule provides *viper.Viper. The config file is resolved in order:
// WithConfigPath, CONFIG_FILE, then CONFIG_DIR/CONFIG_NAME.yaml where the
// directory defaults to ./configs and the name to config.{APP_ENV}.
// An explicitly named file must exist; the derived default is optional.
func NewViperModule(opts ...ViperOption) fx.Option {
	o := &viperOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return fx.Module("viper",
		fx.Provide(func(app AppConfig, log *zap.Logger) (*viper.Viper, error) {
			if o.noConfigFile {
				return newViper("", false, log)
			}
			path, explicit := resolveConfigPath(o.configPath, app.Environment)
			return newViper(path, explicit, log)
		}),
	)
}

func resolveConfigPath(configPath, environment string) (string, bool) {
	if configPath != "" {
		return configPath, true
	}
	if file := os.Getenv(envConfigFile); file != "" {
		return file, true
	}

	dir := os.Getenv(envConfigDir)
	if dir == "" {
		dir = defaultConfigDir
	}
	name := os.Getenv(envConfigName)
	if name == "" {
		name = "config." + environment
	}
	return filepath.Join(dir, name+".yaml"), false
}

func newViper(path string, explicit bool, log *zap.Logger) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if path == "" {
		log.Info("no config file, using environment only")
		return v, nil
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return nil, fmt.Errorf("config file [%s] is not accessible: %w", path, err)
		}
		log.Info("default config file not found, using environment only", zap.String("path", path))
		return v, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file [%s]: %w", path, err)
	}

	log.Info("config file loaded",
		zap.String("path", v.ConfigFileUsed()),
		zap.Strings("keys", v.AllKeys()),
	)
	return v, nil
}
