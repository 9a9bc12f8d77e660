package product

import (
	"context"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/producer"
	"github.com/shopspring/decimal"
)

// PricePublisher announces price changes on PriceChangesTopic.
type PricePublisher interface {
	PublishPriceChange(ctx context.Context, code string, price decimal.Decimal) error
}

type pricePublisher struct {
	publisher producer.Publisher
}

func newPricePublisher(p producer.Publisher) PricePublisher {
	return &pricePublisher{publisher: p}
}

// PublishPriceChange keys the message by code so changes to one product
// stay ordered.
func (p *pricePublisher) PublishPriceChange(ctx context.Context, code string, price decimal.Decimal) error {
	if err := ValidatePriceChange(code, price); err != nil {
		return err
	}
	return p.publisher.Publish(ctx, code, NewProductPriceChanged(code, price))
}
