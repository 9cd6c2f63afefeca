package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store is the product persistence contract. The store is the only writer
// of Product.Stock after creation: TryDecrementStock must check and subtract
// atomically and return ErrInsufficientStock without changing anything when
// the quantity is not available.
type Store interface {
	GetProduct(ctx context.Context, code string) (*Product, error)
	ListProducts(ctx context.Context, opts ListOpts) ([]*Product, error)
	SearchProducts(ctx context.Context, term string, opts ListOpts) ([]*Product, error)
	UpsertProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, code string) error
	TryDecrementStock(ctx context.Context, code string, qty decimal.Decimal) error
	IncrementStock(ctx context.Context, code string, qty decimal.Decimal) error
	ListLowStock(ctx context.Context, threshold decimal.Decimal) ([]*Product, error)
}

type ListOpts struct {
	Limit  int
	Offset int
}
