package container

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Environment is PostgreSQL plus Redpanda, started in parallel.
type Environment struct {
	Postgres *PostgresContainer
	Redpanda *RedpandaContainer
}

func StartEnvironment(ctx context.Context) (*Environment, error) {
	env := &Environment{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		env.Postgres, err = StartPostgresContainer(gctx)
		return err
	})
	g.Go(func() (err error) {
		env.Redpanda, err = StartRedpandaContainer(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		_ = env.Terminate(context.WithoutCancel(ctx))
		return nil, err
	}
	return env, nil
}

func (e *Environment) Terminate(ctx context.Context) error {
	var errs []error
	if e.Postgres != nil {
		errs = append(errs, e.Postgres.Terminate(ctx))
	}
	if e.Redpanda != nil {
		errs = append(errs, e.Redpanda.Terminate(ctx))
	}
	return errors.Join(errs...)
}
