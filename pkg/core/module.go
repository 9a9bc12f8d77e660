// Package core assembles configuration, logging and readiness.
package core

import (
	"time"

	"github.com/Sokol111/ecommerce-price-sync/pkg/core/config"
	"github.com/Sokol111/ecommerce-price-sync/pkg/core/health"
	"github.com/Sokol111/ecommerce-price-sync/pkg/core/logger"
	"go.uber.org/fx"
)

type coreOptions struct {
	appConfig     *config.AppConfig
	loggerConfig  *logger.Config
	configPath    string
	dotEnvPath    string
	disableDotEnv bool
	disableViper  bool
}

type Option func(*coreOptions)

// WithAppConfig supplies a static AppConfig instead of reading APP_* variables.
func WithAppConfig(cfg config.AppConfig) Option {
	return func(o *coreOptions) { o.appConfig = &cfg }
}

// WithLoggerConfig supplies a static logger config.
func WithLoggerConfig(cfg logger.Config) Option {
	return func(o *coreOptions) { o.loggerConfig = &cfg }
}

// WithConfigPath loads the given YAML file instead of resolving one.
func WithConfigPath(path string) Option {
	return func(o *coreOptions) { o.configPath = path }
}

// WithDotEnvPath loads variables from path instead of ./.env.
func WithDotEnvPath(path string) Option {
	return func(o *coreOptions) { o.dotEnvPath = path }
}

func WithoutEnvFile() Option {
	return func(o *coreOptions) { o.disableDotEnv = true }
}

func WithoutConfigFile() Option {
	return func(o *coreOptions) { o.disableViper = true }
}

// NewCoreModule provides AppConfig, *viper.Viper, *zap.Logger and the
// readiness tracker.
func NewCoreModule(opts ...Option) fx.Option {
	o := &coreOptions{}
	for _, opt := range opts {
		opt(o)
	}

	modules := []fx.Option{
		fx.StartTimeout(2 * time.Minute),
		fx.StopTimeout(time.Minute),
	}

	if !o.disableDotEnv {
		modules = append(modules, config.NewDotEnvModule(o.dotEnvPath))
	}

	var appOpts []config.AppConfigOption
	if o.appConfig != nil {
		appOpts = append(appOpts, config.WithAppConfig(*o.appConfig))
	}
	modules = append(modules, config.NewAppConfigModule(appOpts...))

	var viperOpts []config.ViperOption
	switch {
	case o.disableViper:
		viperOpts = append(viperOpts, config.WithoutConfigFile())
	case o.configPath != "":
		viperOpts = append(viperOpts, config.WithConfigPath(o.configPath))
	}
	modules = append(modules, config.NewViperModule(viperOpts...))

	var loggerOpts []logger.Option
	if o.loggerConfig != nil {
		loggerOpts = append(loggerOpts, logger.WithLoggerConfig(*o.loggerConfig))
	}
	modules = append(modules,
		logger.NewZapLoggingModule(loggerOpts...),
		health.NewReadinessModule(),
	)

	return fx.Options(modules...)
}
