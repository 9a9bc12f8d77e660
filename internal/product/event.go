package product

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/Sokol111/ecommerce-price-sync/pkg/messaging/kafka/events"
	"github.com/shopspring/decimal"
)

const (
	// PriceChangesTopic carries ProductPriceChanged keyed by product code.
	PriceChangesTopic = "product-price-changes"

	PriceChangedSchemaName = "com.ecommerce.price.ProductPriceChanged"
)

var priceChangedSchema = []byte(`{
  "type": "record",
  "name": "ProductPriceChanged",
  "namespace": "com.ecommerce.price",
  "fields": [
    {"name": "metadata", "type": ` + events.MetadataSchema + `},
    {"name": "product_code", "type": "string"},
    {"name": "price", "type": {"type": "bytes", "logicalType": "decimal", "precision": 12, "scale": 2}}
  ]
}`)

// ProductPriceChanged announces a new price for one product.
type ProductPriceChanged struct {
	Metadata    events.EventMetadata `avro:"metadata"`
	ProductCode string               `avro:"product_code"`
	Price       *big.Rat             `avro:"price"`
}

func NewProductPriceChanged(code string, price decimal.Decimal) *ProductPriceChanged {
	return &ProductPriceChanged{
		ProductCode: code,
		Price:       price.Round(PriceScale).Rat(),
	}
}

func newPriceChangedEvent() events.Event {
	return &ProductPriceChanged{}
}

func (e *ProductPriceChanged) GetMetadata() *events.EventMetadata { return &e.Metadata }
func (e *ProductPriceChanged) GetTopic() string                   { return PriceChangesTopic }
func (e *ProductPriceChanged) GetSchemaName() string              { return PriceChangedSchemaName }
func (e *ProductPriceChanged) GetSchema() []byte                  { return priceChangedSchema }

// Decimal returns the price with PriceScale fractional digits.
func (e *ProductPriceChanged) Decimal() (decimal.Decimal, error) {
	if e.Price == nil {
		return decimal.Decimal{}, errors.New("price is missing")
	}
	d, err := decimal.NewFromString(e.Price.FloatString(PriceScale))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid price %s: %w", e.Price.String(), err)
	}
	return d, nil
}
