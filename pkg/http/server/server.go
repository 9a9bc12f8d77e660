package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

type Server interface {
	// ServeWithReadyCallback listens, calls onReady, then serves until Shutdown.
	ServeWithReadyCallback(onReady func()) error
	Shutdown(ctx context.Context) error
}

type server struct {
	httpSrv *http.Server
	log     *zap.Logger
}

func newServer(log *zap.Logger, conf Config, handler http.Handler) *server {
	return &server{
		httpSrv: &http.Server{
			Addr:              ":" + strconv.Itoa(conf.Port),
			Handler:           handler,
			ReadHeaderTimeout: conf.Connection.ReadHeaderTimeout,
			ReadTimeout:       conf.Connection.ReadTimeout,
			WriteTimeout:      conf.Connection.WriteTimeout,
			IdleTimeout:       conf.Connection.IdleTimeout,
		},
		log: log,
	}
}

func (s *server) ServeWithReadyCallback(onReady func()) error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		s.log.Error("failed to listen", zap.Error(err))
		return err
	}
	s.log.Info("starting HTTP server", zap.String("addr", ln.Addr().String()))
	onReady()

	if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("HTTP server stopped with error", zap.Error(err))
		return err
	}
	return nil
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
