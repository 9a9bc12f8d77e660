package logger

import (
	"context"
	"errors"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

type moduleOptions struct {
	static *Config
}

// Option configures the logger module.
type Option func(*moduleOptions)

// WithLoggerConfig supplies a static Config instead of reading viper.
func WithLoggerConfig(cfg Config) Option {
	return func(o *moduleOptions) {
		o.static = &cfg
	}
}

// NewZapLoggingModule provides *zap.Logger and routes fx events through it.
func NewZapLoggingModule(opts ...Option) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configOption := fx.Provide(newConfig)
	if o.static != nil {
		configOption = fx.Supply(*o.static)
	}

	return fx.Options(
		configOption,
		fx.Provide(provideLogger),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
}

func provideLogger(lc fx.Lifecycle, conf Config) (*zap.Logger, error) {
	log, err := newLogger(conf)
	if err != nil {
		return nil, err
	}

	log.Info("logger initialized",
		zap.Stringer("level", conf.Level),
		zap.Bool("development", conf.Development),
	)

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			// stderr and stdout cannot be synced on linux
			if err := log.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
				return err
			}
			return nil
		},
	})

	return log, nil
}
