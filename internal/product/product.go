// Package product keeps product prices in sync with price change events.
package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// PriceScale is the number of fractional digits stored for a price.
	PriceScale = 2
	// PricePrecision is the total number of digits a price may carry,
	// matching the event schema and the products.price column.
	PricePrecision = 12
)

type Product struct {
	ID    int64
	Code  string
	Name  string
	Price decimal.Decimal
}

// Repository is the product store.
type Repository interface {
	// UpdatePrice sets the price of the product with code. It returns
	// persistence.ErrEntityNotFound when no product has that code.
	UpdatePrice(ctx context.Context, code string, price decimal.Decimal) error
	FindByCode(ctx context.Context, code string) (*Product, error)
	// Create inserts p and sets p.ID.
	Create(ctx context.Context, p *Product) error
	Count(ctx context.Context) (int64, error)
}

var (
	ErrEmptyCode     = errors.New("product code is empty")
	ErrNegativePrice = errors.New("price is negative")
	ErrPriceTooLarge = errors.New("price exceeds the supported precision")
)

// ValidatePriceChange checks the fields of a price change.
func ValidatePriceChange(code string, price decimal.Decimal) error {
	if code == "" {
		return ErrEmptyCode
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativePrice, price.StringFixed(PriceScale))
	}
	if price.Round(PriceScale).NumDigits() > PricePrecision {
		return fmt.Errorf("%w: %s has more than %d digits", ErrPriceTooLarge, price.StringFixed(PriceScale), PricePrecision)
	}
	return nil
}
