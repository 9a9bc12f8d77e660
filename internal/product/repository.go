package product

import (
	"context"
	"fmt"

	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence"
	"github.com/Sokol111/ecommerce-price-sync/pkg/persistence/postgres"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	updatePriceSQL = `UPDATE products SET price = $2 WHERE code = $1`
	findByCodeSQL  = `SELECT id, code, name, price FROM products WHERE code = $1`
	insertSQL      = `INSERT INTO products (code, name, price) VALUES ($1, $2, $3) RETURNING id`
	countSQL       = `SELECT count(*) FROM products`
)

type repository struct {
	pg postgres.Postgres
}

func newRepository(pg postgres.Postgres) Repository {
	return &repository{pg: pg}
}

func (r *repository) UpdatePrice(ctx context.Context, code string, price decimal.Decimal) error {
	tag, err := r.pg.Querier(ctx).Exec(ctx, updatePriceSQL, code, toNumeric(price))
	if err != nil {
		return fmt.Errorf("failed to update price of %s: %w", code, postgres.MapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", code, persistence.ErrEntityNotFound)
	}
	return nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Product, error) {
	var (
		p     Product
		price pgtype.Numeric
	)
	err := r.pg.Querier(ctx).QueryRow(ctx, findByCodeSQL, code).Scan(&p.ID, &p.Code, &p.Name, &price)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", code, postgres.MapError(err))
	}
	p.Price = fromNumeric(price)
	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	err := r.pg.Querier(ctx).QueryRow(ctx, insertSQL, p.Code, p.Name, toNumeric(p.Price)).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create product %s: %w", p.Code, postgres.MapError(err))
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pg.Querier(ctx).QueryRow(ctx, countSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", postgres.MapError(err))
	}
	return n, nil
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	d = d.Round(PriceScale)
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
