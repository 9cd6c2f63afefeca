// Package invoice defines issued invoices. An invoice is immutable once
// persisted; stores expose no update path.
package invoice

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/types"
)

var ErrNotFound = errors.New("folio: invoice not found")

type Invoice struct {
	types.Entity
	ID                    id.InvoiceID       `json:"id"`
	Number                string             `json:"number"`
	Customer              string             `json:"customer"`
	Notes                 string             `json:"notes,omitempty"`
	Items                 []pricing.LineItem `json:"items"`
	Subtotal              types.Money        `json:"subtotal"`
	TaxRate               decimal.Decimal    `json:"tax_rate"`
	TaxAmount             types.Money        `json:"tax_amount"`
	Total                 types.Money        `json:"total"`
	SourceQuotationNumber string             `json:"source_quotation_number,omitempty"`
}

// Clone returns a deep copy of inv.
func (inv *Invoice) Clone() *Invoice {
	c := *inv
	c.Items = append([]pricing.LineItem(nil), inv.Items...)
	return &c
}

// Totals returns the invoice amounts as a pricing.Totals.
func (inv *Invoice) Totals() pricing.Totals {
	return pricing.Totals{
		Subtotal:  inv.Subtotal,
		TaxRate:   inv.TaxRate,
		TaxAmount: inv.TaxAmount,
		Total:     inv.Total,
	}
}
