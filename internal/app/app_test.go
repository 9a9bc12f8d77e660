package app

import (
	"testing"

	"github.com/Sokol111/ecommerce-price-sync/internal/product"
	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence/postgres"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestGraphs(t *testing.T) {
	t.Run("service", func(t *testing.T) {
		require.NoError(t, fx.ValidateApp(Service()))
	})

	t.Run("migrations", func(t *testing.T) {
		require.NoError(t, fx.ValidateApp(Migrations(
			With(fx.Invoke(func(postgres.Migrator) {})),
		)))
	})

	t.Run("publishing", func(t *testing.T) {
		require.NoError(t, fx.ValidateApp(Publishing(
			With(fx.Invoke(func(product.PricePublisher) {})),
		)))
	})
}
