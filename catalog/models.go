// Package catalog defines products and the stock primitives the document
// lifecycle relies on.
package catalog

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

// DefaultUnit is the unit label used when a product does not set one.
const DefaultUnit = "unidad"

var (
	ErrNotFound          = errors.New("folio: product not found")
	ErrInsufficientStock = errors.New("folio: insufficient stock")
)

type Product struct {
	types.Entity
	ID          id.ProductID    `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Unit        string          `json:"unit"`
	Stock       decimal.Decimal `json:"stock"`
	Description string          `json:"description,omitempty"`
}

// Clone returns a copy that shares no mutable state with p.
func (p *Product) Clone() *Product {
	c := *p
	return &c
}

// IsLowStock reports whether stock is at or below threshold.
func (p *Product) IsLowStock(threshold decimal.Decimal) bool {
	return p.Stock.LessThanOrEqual(threshold)
}
