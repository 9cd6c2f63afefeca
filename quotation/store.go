package quotation

import (
	"context"
	"time"
)

// Store persists quotations. MarkQuotationInvoiced must be a conditional
// update: it succeeds only while the stored status is pending and returns
// ErrAlreadyInvoiced otherwise, or ErrNotFound when number is unknown.
type Store interface {
	CreateQuotation(ctx context.Context, q *Quotation) error
	GetQuotation(ctx context.Context, number string) (*Quotation, error)
	ListQuotations(ctx context.Context, opts ListOpts) ([]*Quotation, error)
	MarkQuotationInvoiced(ctx context.Context, number, invoiceNumber string, at time.Time) error
}

type ListOpts struct {
	Status   Status
	Customer string
	Limit    int
	Offset   int
}
