package health

import (
	"net/http"

	"go.uber.org/fx"
)

// NewHealthRoutesModule registers /health/ready and /health/live.
func NewHealthRoutesModule() fx.Option {
	return fx.Options(
		fx.Provide(newHealthHandler),
		fx.Invoke(registerHealthRoutes),
	)
}

func registerHealthRoutes(mux *http.ServeMux, handler *healthHandler) {
	mux.HandleFunc("GET /health/ready", handler.IsReady)
	mux.HandleFunc("GET /health/live", handler.IsLive)
}
