package config

import (
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	envAppEnv            = "APP_ENV"
	envAppServiceName    = "APP_SERVICE_NAME"
	envAppServiceVersion = "APP_SERVICE_VERSION"
)

// AppConfig identifies the running service instance.
type AppConfig struct {
	ServiceName    string
	ServiceVersion string
	// Environment is the deployment environment (e.g. "local", "dev", "pro").
	Environment string
}

type appConfigOptions struct {
	static *AppConfig
}

// AppConfigOption configures the app config module.
type AppConfigOption func(*appConfigOptions)

// WithAppConfig supplies a static AppConfig instead of reading the environment.
func WithAppConfig(cfg AppConfig) AppConfigOption {
	return func(o *appConfigOptions) {
		o.static = &cfg
	}
}

// NewAppConfigModule provides AppConfig, read from APP_ENV, APP_SERVICE_NAME
// and APP_SERVICE_VERSION unless a static value is supplied.
func NewAppConfigModule(opts ...AppConfigOption) fx.Option {
	o := &appConfigOptions{}
	for _, opt := range opts {
		opt(o)
	}

	provide := fx.Provide(loadAppConfig)
	if o.static != nil {
		provide = fx.Supply(*o.static)
	}

	return fx.Module("appconfig",
		provide,
		fx.Invoke(func(log *zap.Logger, conf AppConfig) {
			log.Info("application config loaded",
				zap.String("service", conf.ServiceName),
				zap.String("version", conf.ServiceVersion),
				zap.String("environment", conf.Environment),
			)
		}),
	)
}

func loadAppConfig() (AppConfig, error) {
	cfg := AppConfig{
		Environment:    os.Getenv(envAppEnv),
		ServiceName:    os.Getenv(envAppServiceName),
		ServiceVersion: os.Getenv(envAppServiceVersion),
	}

	for name, value := range map[string]string{
		envAppEnv:            cfg.Environment,
		envAppServiceName:    cfg.ServiceName,
		envAppServiceVersion: cfg.ServiceVersion,
	} {
		if value == "" {
			return AppConfig{}, fmt.Errorf("%s is required", name)
		}
	}

	return cfg, nil
}
