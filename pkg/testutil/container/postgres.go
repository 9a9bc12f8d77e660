package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresContainer wraps the testcontainers PostgreSQL container with a pool
type PostgresContainer struct {
	Container        *tcpostgres.PostgresContainer
	Pool             *pgxpool.Pool
	ConnectionString string
}

const (
	postgresImage    = "postgres:16-alpine"
	postgresDatabase = "pricesync"
	postgresUser     = "pricesync"
	postgresPassword = "pricesync"
)

// StartPostgresContainer starts PostgreSQL and returns a wrapper with a connected pool
func StartPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	pgContainer, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase(postgresDatabase),
		tcpostgres.WithUsername(postgresUser),
		tcpostgres.WithPassword(postgresPassword),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connectionString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(pgContainer)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		_ = testcontainers.TerminateContainer(pgContainer)
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		_ = testcontainers.TerminateContainer(pgContainer)
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresContainer{
		Container:        pgContainer,
		Pool:             pool,
		ConnectionString: connectionString,
	}, nil
}

// Terminate closes the pool and terminates the container
func (p *PostgresContainer) Terminate(ctx context.Context) error {
	if p.Pool != nil {
		p.Pool.Close()
	}
	if p.Container != nil {
		if err := testcontainers.TerminateContainer(p.Container); err != nil {
			return fmt.Errorf("failed to terminate postgres container: %w", err)
		}
	}
	return nil
}
