// Package pricing resolves requested line items against the live catalog and
// computes document totals.
//
// Unit prices are captured at resolution time and never rounded. Rounding to
// the currency's minor unit (half away from zero) happens once per line
// subtotal and once for the tax amount; the total is the exact sum of the
// rounded subtotal and tax.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

var (
	ErrUnknownProduct  = errors.New("folio: unknown product")
	ErrInvalidQuantity = errors.New("folio: invalid quantity")
	ErrNoItems         = errors.New("folio: document has no line items")
)

// Request is one requested line: a product code and a quantity.
type Request struct {
	Code     string          `json:"code"`
	Quantity decimal.Decimal `json:"quantity"`
}

type LineItem struct {
	ID          id.LineItemID   `json:"id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    types.Money     `json:"subtotal"`
}

type Totals struct {
	Subtotal  types.Money     `json:"subtotal"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxAmount types.Money     `json:"tax_amount"`
	Total     types.Money     `json:"total"`
}

// ItemError reports which requested line failed resolution.
type ItemError struct {
	Index    int
	Code     string
	Quantity decimal.Decimal
	Err      error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%v: line %d (code %q, quantity %s)", e.Err, e.Index+1, e.Code, e.Quantity)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Catalog is the read side of catalog.Store that resolution needs.
type Catalog interface {
	GetProduct(ctx context.Context, code string) (*catalog.Product, error)
}

type Calculator struct {
	catalog  Catalog
	currency string
}

// NewCalculator creates a calculator producing amounts in currency.
func NewCalculator(c Catalog, currency string) *Calculator {
	return &Calculator{catalog: c, currency: currency}
}

// Resolve looks up every requested product and snapshots its current price.
// It fails on the first invalid line and returns no partial result. A line
// whose subtotal, or the running document subtotal, exceeds types.MaxAmount
// fails with types.ErrOutOfRange.
func (c *Calculator) Resolve(ctx context.Context, requested []Request) ([]LineItem, error) {
	if len(requested) == 0 {
		return nil, ErrNoItems
	}

	items := make([]LineItem, 0, len(requested))
	running := decimal.Zero
	for i, r := range requested {
		if !types.ValidQuantity(r.Quantity) {
			return nil, &ItemError{Index: i, Code: r.Code, Quantity: r.Quantity, Err: ErrInvalidQuantity}
		}

		p, err := c.catalog.GetProduct(ctx, r.Code)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return nil, &ItemError{Index: i, Code: r.Code, Quantity: r.Quantity, Err: ErrUnknownProduct}
			}
			return nil, fmt.Errorf("pricing: get product %q: %w", r.Code, err)
		}

		line := p.UnitPrice.Mul(r.Quantity)
		running = running.Add(line)
		if !types.AmountInRange(line, c.currency) || !types.AmountInRange(running, c.currency) {
			return nil, &ItemError{Index: i, Code: r.Code, Quantity: r.Quantity, Err: types.ErrOutOfRange}
		}

		items = append(items, NewLineItem(p, r.Quantity, c.currency))
	}
	return items, nil
}

// ComputeTotals totals items at taxRate percent.
func (c *Calculator) ComputeTotals(items []LineItem, taxRate decimal.Decimal) Totals {
	return ComputeTotals(items, taxRate, c.currency)
}

// NewLineItem builds a line for qty units of p at its current price.
func NewLineItem(p *catalog.Product, qty decimal.Decimal, currency string) LineItem {
	return LineItem{
		ID:          id.NewLineItemID(),
		ProductCode: p.Code,
		ProductName: p.Name,
		Unit:        p.Unit,
		Quantity:    qty,
		UnitPrice:   p.UnitPrice,
		Subtotal:    types.FromDecimal(p.UnitPrice.Mul(qty), currency),
	}
}

// ComputeTotals sums line subtotals and applies taxRate percent.
func ComputeTotals(items []LineItem, taxRate decimal.Decimal, currency string) Totals {
	subtotal := types.Zero(currency)
	for _, it := range items {
		subtotal = subtotal.Add(it.Subtotal)
	}
	tax := subtotal.Percent(taxRate)
	return Totals{
		Subtotal:  subtotal,
		TaxRate:   taxRate,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// Demand is the total requested quantity of one product across lines.
type Demand struct {
	Code     string
	Quantity decimal.Decimal
}

// Aggregate sums quantities per product code, sorted by code.
func Aggregate(items []LineItem) []Demand {
	byCode := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		byCode[it.ProductCode] = byCode[it.ProductCode].Add(it.Quantity)
	}

	out := make([]Demand, 0, len(byCode))
	for code, qty := range byCode {
		out = append(out, Demand{Code: code, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
