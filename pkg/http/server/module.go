package server

import (
	"context"
	"net/http"

	"github.com/Sokol111/ecommerce-price-sync/pkg/core/health"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type moduleOptions struct {
	static *Config
}

type Option func(*moduleOptions)

// WithServerConfig supplies a static Config instead of the "server" section.
func WithServerConfig(cfg Config) Option {
	return func(o *moduleOptions) {
		cfg.Connection.setDefaults()
		o.static = &cfg
	}
}

// NewHTTPServerModule provides *http.ServeMux for route registration and
// serves it for the lifetime of the app.
func NewHTTPServerModule(opts ...Option) fx.Option {
	o := &moduleOptions{}
	for _, opt := range opts {
		opt(o)
	}

	configOption := fx.Provide(newConfig)
	if o.static != nil {
		configOption = fx.Supply(*o.static)
	}

	return fx.Module("http-server",
		configOption,
		fx.Provide(newServeMux),
		fx.Invoke(startHTTPServer),
	)
}

func newServeMux() (*http.ServeMux, http.Handler) {
	mux := http.NewServeMux()
	return mux, mux
}

func startHTTPServer(lc fx.Lifecycle, log *zap.Logger, conf Config, handler http.Handler, readiness health.ComponentManager, shutdowner fx.Shutdowner) {
	var srv Server
	markReady := readiness.AddComponent("http-server")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// routes are registered by now
			srv = newServer(log, conf, handler)

			go func() {
				if err := srv.ServeWithReadyCallback(markReady); err != nil {
					log.Error("HTTP server failed, shutting down application", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if srv != nil {
				return srv.Shutdown(ctx)
			}
			return nil
		},
	})
}
