package postgres

import (
	"context"

	"github.com/Sokol111/ecommerce-price-sync/pkg/core/config"
	"github.com/Sokol111/ecommerce-price-sync/pkg/core/health"
	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type moduleOptions struct {
	static *Config
}

type Option func(*moduleOptions)

// WithPostgresConfig supplies a static Config instead of reading viper.
func WithPostgresConfig(cfg Config) Option {
	return func(o *moduleOptions) {
		applyDefaults(&cfg)
		o.static = &cfg
	}
}

// NewPostgresModule provides Postgres, persistence.TxManager and Migrator.
// A MigrationSource must be supplied by the application.
func NewPostgresModule(opts ...Option) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configOption := fx.Provide(newConfig)
	if o.static != nil {
		configOption = fx.Supply(*o.static)
	}

	return fx.Module("postgres",
		configOption,
		fx.Decorate(func(log *zap.Logger) *zap.Logger {
			return log.Named("postgres")
		}),
		fx.Provide(
			providePostgres,
			newTxManager,
			newMigrator,
		),
	)
}

type postgresParams struct {
	fx.In

	Lc        fx.Lifecycle
	Log       *zap.Logger
	Conf      Config
	AppConf   config.AppConfig
	Readiness health.ComponentManager
	Source    MigrationSource `optional:"true"`
}

func providePostgres(p postgresParams) (Postgres, error) {
	pg, err := newPostgres(context.Background(), p.Conf, p.AppConf.ServiceName, p.Log)
	if err != nil {
		return nil, err
	}

	markReady := p.Readiness.AddComponent("postgres")
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := pg.ping(ctx); err != nil {
				return err
			}
			if p.Conf.Migrations.AutoApply {
				if err := newMigrator(pg, p.Source, p.Conf, p.Log).Up(); err != nil {
					return err
				}
			}
			markReady()
			return nil
		},
		OnStop: func(context.Context) error {
			pg.close()
			return nil
		},
	})

	return pg, nil
}

var _ persistence.TxManager = (*txManager)(nil)
