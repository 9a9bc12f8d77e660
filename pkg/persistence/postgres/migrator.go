package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// MigrationSource is a directory of golang-migrate SQL files.
type MigrationSource struct {
	FS  fs.FS
	Dir string
}

type Migrator interface {
	Up() error
	// Down rolls back every applied migration.
	Down() error
	Version() (version uint, dirty bool, err error)
}

type migrator struct {
	pg     Postgres
	source MigrationSource
	table  string
	log    *zap.Logger
}

func newMigrator(pg Postgres, source MigrationSource, conf Config, log *zap.Logger) Migrator {
	return &migrator{
		pg:     pg,
		source: source,
		table:  conf.Migrations.Table,
		log:    log.With(zap.String("migrations_table", conf.Migrations.Table)),
	}
}

func (m *migrator) open() (*migrate.Migrate, error) {
	if m.source.FS == nil {
		return nil, errors.New("no migration source configured")
	}

	src, err := iofs.New(m.source.FS, m.source.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}

	db := stdlib.OpenDBFromPool(m.pg.Pool())
	driver, err := pgxmigrate.WithInstance(db, &pgxmigrate.Config{MigrationsTable: m.table})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	mi, err := migrate.NewWithInstance("iofs", src, "pgx5", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mi, nil
}

func (m *migrator) Up() error {
	return m.run("up", func(mi *migrate.Migrate) error { return mi.Up() })
}

func (m *migrator) Down() error {
	m.log.Warn("rolling back all migrations")
	return m.run("down", func(mi *migrate.Migrate) error { return mi.Down() })
}

func (m *migrator) run(direction string, step func(*migrate.Migrate) error) error {
	mi, err := m.open()
	if err != nil {
		return err
	}
	defer m.closeQuietly(mi)

	err = step(mi)
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("no migrations to apply", zap.String("direction", direction))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrations %s failed: %w", direction, err)
	}

	version, dirty, err := mi.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	m.log.Info("migrations applied",
		zap.String("direction", direction),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

func (m *migrator) Version() (uint, bool, error) {
	mi, err := m.open()
	if err != nil {
		return 0, false, err
	}
	defer m.closeQuietly(mi)

	version, dirty, err := mi.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (m *migrator) closeQuietly(mi *migrate.Migrate) {
	if srcErr, dbErr := mi.Close(); srcErr != nil || dbErr != nil {
		m.log.Debug("migrate close", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
	}
}
