// Package worker runs long-lived loops bound to the fx lifecycle.
package worker

import (
	"context"
	"sync"

	"github.com/Sokol111/ecommerce-price-sync/pkg/core/health"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// RunFunc blocks until ctx is cancelled. A non-nil return is a fatal error.
type RunFunc func(ctx context.Context) error

type options struct {
	waitReady       bool
	shutdownOnError bool
}

type Option func(*options)

// WithReady delays the run until every readiness component is ready.
func WithReady() Option {
	return func(o *options) { o.waitReady = true }
}

// WithShutdown stops the application with exit code 1 when the run fails.
func WithShutdown() Option {
	return func(o *options) { o.shutdownOnError = true }
}

type Worker struct {
	name       string
	run        RunFunc
	log        *zap.Logger
	readiness  health.ReadinessWaiter
	shutdowner fx.Shutdowner
	opts       options

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func New(name string, run RunFunc, log *zap.Logger, readiness health.ReadinessWaiter, shutdowner fx.Shutdowner, opts ...Option) *Worker {
	w := &Worker{
		name:       name,
		run:        run,
		log:        log.With(zap.String("worker", name)),
		readiness:  readiness,
		shutdowner: shutdowner,
	}
	for _, opt := range opts {
		opt(&w.opts)
	}
	return w
}

// Start launches the run loop in its own goroutine.
func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	w.log.Info("starting worker")
	go func() {
		defer close(w.done)
		w.loop(ctx)
	}()
}

func (w *Worker) loop(ctx context.Context) {
	if w.opts.waitReady {
		if err := w.readiness.WaitReady(ctx); err != nil {
			w.log.Info("worker cancelled before readiness")
			return
		}
	}

	err := w.run(ctx)
	if err == nil {
		w.log.Info("worker stopped")
		return
	}

	if !w.opts.shutdownOnError {
		w.log.Error("worker stopped with error", zap.Error(err))
		return
	}

	w.log.Error("worker failed, shutting down application", zap.Error(err))
	if sErr := w.shutdowner.Shutdown(fx.ExitCode(1)); sErr != nil {
		w.log.Error("failed to initiate shutdown", zap.Error(sErr))
	}
}

// Stop cancels the run and waits for it to return or for ctx to expire.
func (w *Worker) Stop(ctx context.Context) error {
	if w.cancel == nil {
		return nil
	}
	w.once.Do(func() {
		w.log.Info("stopping worker")
		w.cancel()
	})

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Bind starts w on application start and stops it on application stop.
func Bind(lc fx.Lifecycle, w *Worker) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			w.Start()
			return nil
		},
		OnStop: w.Stop,
	})
}
