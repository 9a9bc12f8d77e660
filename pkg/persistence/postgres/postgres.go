// Package postgres provides a pgx connection pool, context-scoped
// transactions and schema migrations.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Querier is the statement surface shared by the pool and a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Postgres interface {
	// Querier returns the transaction bound to ctx, or the pool.
	Querier(ctx context.Context) Querier
	Pool() *pgxpool.Pool
}

type postgres struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

func newPostgres(ctx context.Context, conf Config, serviceName string, log *zap.Logger) (*postgres, error) {
	poolConf, err := pgxpool.ParseConfig(conf.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid postgres connection settings: %w", err)
	}
	poolConf.MaxConns = conf.MaxConns
	poolConf.MinConns = conf.MinConns
	poolConf.MaxConnIdleTime = conf.MaxConnIdleTime
	poolConf.ConnConfig.ConnectTimeout = conf.ConnectTimeout
	if serviceName != "" {
		poolConf.ConnConfig.RuntimeParams["application_name"] = serviceName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConf)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	return &postgres{pool: pool, log: log}, nil
}

func (p *postgres) ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	cfg := p.pool.Config().ConnConfig
	p.log.Info("connected to postgres",
		zap.String("host", cfg.Host),
		zap.Uint16("port", cfg.Port),
		zap.String("database", cfg.Database),
	)
	return nil
}

func (p *postgres) close() {
	p.pool.Close()
	p.log.Info("postgres pool closed")
}

func (p *postgres) Querier(ctx context.Context) Querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return p.pool
}

func (p *postgres) Pool() *pgxpool.Pool {
	return p.pool
}
