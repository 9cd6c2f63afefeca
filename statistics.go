package folio

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
)

// Statistics summarizes sales and flags products running out.
type Statistics struct {
	Sales             invoice.Summary    `json:"sales"`
	LowStock          []*catalog.Product `json:"low_stock"`
	LowStockThreshold decimal.Decimal    `json:"low_stock_threshold"`
}

// Statistics aggregates the invoices matching opts (all of them when opts is
// zero) and lists low-stock products.
func (f *Folio) Statistics(ctx context.Context, opts invoice.ListOpts) (*Statistics, error) {
	const op = "statistics"

	st, err := f.settings.Current(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	invs, err := f.store.ListInvoices(ctx, opts)
	if err != nil {
		return nil, classify(op, err)
	}
	low, err := f.store.ListLowStock(ctx, st.LowStockThreshold)
	if err != nil {
		return nil, classify(op, err)
	}

	return &Statistics{
		Sales:             invoice.Summarize(invs, st.Currency),
		LowStock:          low,
		LowStockThreshold: st.LowStockThreshold,
	}, nil
}
