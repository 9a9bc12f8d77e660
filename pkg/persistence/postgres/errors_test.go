package postgres

import (
	"errors"
	"testing"

	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, MapError(nil))
	})

	t.Run("no rows becomes not found", func(t *testing.T) {
		err := MapError(pgx.ErrNoRows)

		assert.ErrorIs(t, err, persistence.ErrEntityNotFound)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})

	t.Run("unique violation becomes duplicate key", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "products_code_key"}

		err := MapError(pgErr)

		assert.ErrorIs(t, err, persistence.ErrDuplicateKey)
		assert.Contains(t, err.Error(), "products_code_key")
	})

	t.Run("other errors pass through", func(t *testing.T) {
		original := errors.New("connection reset")

		assert.Same(t, original, MapError(original))
	})
}
