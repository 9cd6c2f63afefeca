// Package quotation defines price quotations and their one-way transition
// into an invoice.
package quotation

import (
	"errors"
	"time"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/types"
)

var (
	ErrNotFound        = errors.New("folio: quotation not found")
	ErrAlreadyInvoiced = errors.New("folio: quotation already invoiced")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusInvoiced Status = "invoiced"
)

// CanTransitionTo reports whether a quotation in status s may move to next.
// Invoiced is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next == StatusInvoiced
}

type Quotation struct {
	types.Entity
	ID            id.QuotationID     `json:"id"`
	Number        string             `json:"number"`
	Customer      string             `json:"customer"`
	Notes         string             `json:"notes,omitempty"`
	Items         []pricing.LineItem `json:"items"`
	Subtotal      types.Money        `json:"subtotal"`
	Total         types.Money        `json:"total"`
	Status        Status             `json:"status"`
	InvoiceNumber string             `json:"invoice_number,omitempty"`
	InvoicedAt    *time.Time         `json:"invoiced_at,omitempty"`
}

// Clone returns a deep copy of q.
func (q *Quotation) Clone() *Quotation {
	c := *q
	c.Items = append([]pricing.LineItem(nil), q.Items...)
	if q.InvoicedAt != nil {
		t := *q.InvoicedAt
		c.InvoicedAt = &t
	}
	return &c
}
