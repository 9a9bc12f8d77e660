package postgres

import (
	"errors"
	"fmt"

	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// MapError translates driver errors into persistence sentinels. The original
// error stays in the chain.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %w", persistence.ErrEntityNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s: %w", persistence.ErrDuplicateKey, pgErr.ConstraintName, err)
	}
	return err
}
