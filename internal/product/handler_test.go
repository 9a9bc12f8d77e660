package product

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/consumer"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

type fakeRepository struct {
	products map[string]*Product
	err      error
	updates  int
}

func newFakeRepository(products ...*Product) *fakeRepository {
	r := &fakeRepository{products: make(map[string]*Product)}
	for _, p := range products {
		r.products[p.Code] = p
	}
	return r
}

func (r *fakeRepository) UpdatePrice(_ context.Context, code string, price decimal.Decimal) error {
	r.updates++
	if r.err != nil {
		return r.err
	}
	p, ok := r.products[code]
	if !ok {
		return persistence.ErrEntityNotFound
	}
	p.Price = price
	return nil
}

func (r *fakeRepository) FindByCode(_ context.Context, code string) (*Product, error) {
	p, ok := r.products[code]
	if !ok {
		return nil, persistence.ErrEntityNotFound
	}
	return p, nil
}

func (r *fakeRepository) Create(_ context.Context, p *Product) error {
	if _, ok := r.products[p.Code]; ok {
		return persistence.ErrDuplicateKey
	}
	p.ID = int64(len(r.products) + 1)
	r.products[p.Code] = p
	return nil
}

func (r *fakeRepository) Count(context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type otherEvent struct{ events.EventMetadata }

func (e *otherEvent) GetMetadata() *events.EventMetadata { return &e.EventMetadata }
func (e *otherEvent) GetTopic() string                   { return "other" }
func (e *otherEvent) GetSchemaName() string              { return "com.test.Other" }
func (e *otherEvent) GetSchema() []byte                  { return nil }

func newTestHandler(t *testing.T, repo Repository, tx *fakeTxManager, policy UnmatchedPolicy) *priceChangedHandler {
	t.Helper()
	h, err := newPriceChangedHandler(repo, tx, Config{UnmatchedPolicy: policy}, noop.NewMeterProvider(), zap.NewNop())
	require.NoError(t, err)
	return h
}

func seeded() *Product {
	return &Product{ID: 1, Code: "P100", Name: "Product One", Price: decimal.RequireFromString("10.00")}
}

func TestPriceChangedHandler_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("updates price in a transaction", func(t *testing.T) {
		repo, tx := newFakeRepository(seeded()), &fakeTxManager{}
		h := newTestHandler(t, repo, tx, UnmatchedSkip)

		err := h.Process(ctx, NewProductPriceChanged("P100", decimal.RequireFromString("14.50")))
		require.NoError(t, err)

		p, _ := repo.FindByCode(ctx, "P100")
		assert.Equal(t, "14.50", p.Price.StringFixed(2))
		assert.Equal(t, 1, tx.calls)
	})

	t.Run("same event twice is idempotent", func(t *testing.T) {
		repo := newFakeRepository(seeded())
		h := newTestHandler(t, repo, &fakeTxManager{}, UnmatchedSkip)
		event := NewProductPriceChanged("P100", decimal.RequireFromString("14.50"))

		require.NoError(t, h.Process(ctx, event))
		require.NoError(t, h.Process(ctx, event))

		p, _ := repo.FindByCode(ctx, "P100")
		assert.Equal(t, "14.50", p.Price.StringFixed(2))
	})

	t.Run("later event wins", func(t *testing.T) {
		repo := newFakeRepository(seeded())
		h := newTestHandler(t, repo, &fakeTxManager{}, UnmatchedSkip)

		require.NoError(t, h.Process(ctx, NewProductPriceChanged("P100", decimal.RequireFromString("11.00"))))
		require.NoError(t, h.Process(ctx, NewProductPriceChanged("P100", decimal.RequireFromString("12.00"))))

		p, _ := repo.FindByCode(ctx, "P100")
		assert.Equal(t, "12.00", p.Price.StringFixed(2))
	})

	t.Run("unknown code is skipped by default", func(t *testing.T) {
		repo := newFakeRepository(seeded())
		h := newTestHandler(t, repo, &fakeTxManager{}, UnmatchedSkip)

		err := h.Process(ctx, NewProductPriceChanged("P999", decimal.RequireFromString("1.00")))
		assert.ErrorIs(t, err, consumer.ErrSkipMessage)
		assert.ErrorIs(t, err, persistence.ErrEntityNotFound)

		n, _ := repo.Count(ctx)
		assert.Equal(t, int64(1), n)
	})

	t.Run("unknown code is permanent with dlq policy", func(t *testing.T) {
		h := newTestHandler(t, newFakeRepository(), &fakeTxManager{}, UnmatchedDLQ)

		err := h.Process(ctx, NewProductPriceChanged("P999", decimal.RequireFromString("1.00")))
		assert.ErrorIs(t, err, consumer.ErrPermanent)
		assert.NotErrorIs(t, err, consumer.ErrSkipMessage)
	})

	t.Run("invalid events are permanent and never reach the store", func(t *testing.T) {
		invalid := map[string]*ProductPriceChanged{
			"empty code":      NewProductPriceChanged("", decimal.RequireFromString("1.00")),
			"negative price":  NewProductPriceChanged("P100", decimal.RequireFromString("-0.01")),
			"missing price":   {ProductCode: "P100"},
			"price too large": NewProductPriceChanged("P100", decimal.RequireFromString("123456789012")),
		}
		for name, event := range invalid {
			t.Run(name, func(t *testing.T) {
				repo := newFakeRepository(seeded())
				h := newTestHandler(t, repo, &fakeTxManager{}, UnmatchedSkip)

				err := h.Process(ctx, event)
				assert.ErrorIs(t, err, consumer.ErrPermanent)
				assert.Zero(t, repo.updates)
			})
		}
	})

	t.Run("zero price is accepted", func(t *testing.T) {
		repo := newFakeRepository(seeded())
		h := newTestHandler(t, repo, &fakeTxManager{}, UnmatchedSkip)

		require.NoError(t, h.Process(ctx, &ProductPriceChanged{ProductCode: "P100", Price: new(big.Rat)}))
		p, _ := repo.FindByCode(ctx, "P100")
		assert.True(t, p.Price.IsZero())
	})

	t.Run("unexpected event type is permanent", func(t *testing.T) {
		h := newTestHandler(t, newFakeRepository(), &fakeTxManager{}, UnmatchedSkip)
		assert.ErrorIs(t, h.Process(ctx, &otherEvent{}), consumer.ErrPermanent)
	})

	t.Run("store errors are returned for retry", func(t *testing.T) {
		repo := newFakeRepository(seeded())
		repo.err = errors.New("connection refused")
		h := newTestHandler(t, repo, &fakeTxManager{}, UnmatchedSkip)

		err := h.Process(ctx, NewProductPriceChanged("P100", decimal.RequireFromString("14.50")))
		require.Error(t, err)
		assert.NotErrorIs(t, err, consumer.ErrPermanent)
		assert.NotErrorIs(t, err, consumer.ErrSkipMessage)
	})
}
