package folio

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/types"
)

// SaveProduct validates p and creates or replaces the product with its code.
// An existing product keeps its ID and creation time.
func (f *Folio) SaveProduct(ctx context.Context, p *catalog.Product) (*catalog.Product, error) {
	const op = "save product"

	p = p.Clone()
	if err := validateProduct(p); err != nil {
		return nil, &Error{Kind: KindValidation, Op: op, Product: p.Code, Err: err}
	}

	unlock := f.locks.Lock(productKey(p.Code))
	defer unlock()

	existing, err := f.store.GetProduct(ctx, p.Code)
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = f.now()
	case IsNotFound(err):
		if p.ID.IsNil() {
			p.ID = id.NewProductID()
		}
		p.Entity = types.NewEntityAt(f.now())
	default:
		return nil, classify(op, err)
	}

	if err := f.store.UpsertProduct(ctx, p); err != nil {
		return nil, classify(op, err)
	}

	f.plugins.EmitProductSaved(ctx, p)
	f.logger.Info("product saved",
		"code", p.Code,
		"price", p.UnitPrice.String(),
		"stock", p.Stock.String(),
	)
	return p, nil
}

// GetProduct retrieves a product by code.
func (f *Folio) GetProduct(ctx context.Context, code string) (*catalog.Product, error) {
	p, err := f.store.GetProduct(ctx, code)
	if err != nil {
		return nil, classifyProduct("get product", code, err)
	}
	return p, nil
}

// ListProducts lists products ordered by code.
func (f *Folio) ListProducts(ctx context.Context, opts catalog.ListOpts) ([]*catalog.Product, error) {
	ps, err := f.store.ListProducts(ctx, opts)
	if err != nil {
		return nil, classify("list products", err)
	}
	return ps, nil
}

// SearchProducts finds products whose name or code contains term, ignoring
// case. An empty term lists everything.
func (f *Folio) SearchProducts(ctx context.Context, term string, opts catalog.ListOpts) ([]*catalog.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return f.ListProducts(ctx, opts)
	}
	ps, err := f.store.SearchProducts(ctx, term, opts)
	if err != nil {
		return nil, classify("search products", err)
	}
	return ps, nil
}

// DeleteProduct removes a product. Documents keep their line snapshots.
func (f *Folio) DeleteProduct(ctx context.Context, code string) error {
	const op = "delete product"

	unlock := f.locks.Lock(productKey(code))
	defer unlock()

	if err := f.store.DeleteProduct(ctx, code); err != nil {
		return classifyProduct(op, code, err)
	}

	f.plugins.EmitProductDeleted(ctx, code)
	f.logger.Info("product deleted", "code", code)
	return nil
}

// Restock adds qty units to a product's stock and returns the updated product.
func (f *Folio) Restock(ctx context.Context, code string, qty decimal.Decimal) (*catalog.Product, error) {
	const op = "restock"

	if !types.ValidQuantity(qty) {
		return nil, &Error{Kind: KindInvalidQuantity, Op: op, Product: code, Err: ErrInvalidQuantity}
	}

	unlock := f.locks.Lock(productKey(code))
	defer unlock()

	cur, err := f.store.GetProduct(ctx, code)
	if err != nil {
		return nil, classifyProduct(op, code, err)
	}
	if cur.Stock.Add(qty).GreaterThan(types.MaxQuantity) {
		return nil, &Error{Kind: KindInvalidQuantity, Op: op, Product: code, Err: ErrInvalidQuantity}
	}

	if err := f.store.IncrementStock(ctx, code, qty); err != nil {
		return nil, classifyProduct(op, code, err)
	}
	p, err := f.store.GetProduct(ctx, code)
	if err != nil {
		return nil, classify(op, err)
	}

	f.logger.Info("product restocked",
		"code", code,
		"added", qty.String(),
		"stock", p.Stock.String(),
	)
	return p, nil
}

// LowStock lists products at or below the configured threshold.
func (f *Folio) LowStock(ctx context.Context) ([]*catalog.Product, error) {
	const op = "low stock"

	st, err := f.settings.Current(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	ps, err := f.store.ListLowStock(ctx, st.LowStockThreshold)
	if err != nil {
		return nil, classify(op, err)
	}
	return ps, nil
}

func classifyProduct(op, code string, err error) error {
	e := classify(op, err)
	var fe *Error
	if errors.As(e, &fe) && fe.Product == "" {
		fe.Product = code
	}
	return e
}
