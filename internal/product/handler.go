package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/consumer"
	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"github.com/Sokol111/ecommerce-price-sync/pkg/observability/tracing"
	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// priceChangedHandler applies ProductPriceChanged events to the store.
type priceChangedHandler struct {
	repo    Repository
	tx      persistence.TxManager
	policy  UnmatchedPolicy
	updates metric.Int64Counter
	log     *zap.Logger
}

func newPriceChangedHandler(repo Repository, tx persistence.TxManager, conf Config, mp metric.MeterProvider, log *zap.Logger) (*priceChangedHandler, error) {
	updates, err := mp.Meter("product").Int64Counter("product.price.updates",
		metric.WithDescription("Price change events by result"),
	)
	if err != nil {
		return nil, err
	}
	return &priceChangedHandler{
		repo:    repo,
		tx:      tx,
		policy:  conf.UnmatchedPolicy,
		updates: updates,
		log:     log,
	}, nil
}

func (h *priceChangedHandler) Process(ctx context.Context, event events.Event) error {
	e, ok := event.(*ProductPriceChanged)
	if !ok {
		return fmt.Errorf("%w: unexpected event %T", consumer.ErrPermanent, event)
	}

	log := tracing.Logger(ctx, h.log).With(zap.String("product_code", e.ProductCode))
	log.Info("received price change")

	price, err := e.Decimal()
	if err == nil {
		err = ValidatePriceChange(e.ProductCode, price)
	}
	if err != nil {
		h.count(ctx, "invalid")
		return fmt.Errorf("%w: %w", consumer.ErrPermanent, err)
	}

	err = h.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		return h.repo.UpdatePrice(txCtx, e.ProductCode, price)
	})
	switch {
	case err == nil:
		h.count(ctx, "applied")
		return nil
	case errors.Is(err, persistence.ErrEntityNotFound):
		h.count(ctx, "unmatched")
		if h.policy == UnmatchedDLQ {
			return fmt.Errorf("%w: %w", consumer.ErrPermanent, err)
		}
		log.Warn("no product with this code, ignoring price change")
		return fmt.Errorf("%w: %w", consumer.ErrSkipMessage, err)
	}
	return err
}

func (h *priceChangedHandler) count(ctx context.Context, result string) {
	h.updates.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
