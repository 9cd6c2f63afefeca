package invoice

import (
	"context"
	"time"
)

// Store persists invoices. DeleteInvoice exists only so the engine can
// compensate a failed conversion; it is not part of the public lifecycle.
type Store interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, number string) (*Invoice, error)
	ListInvoices(ctx context.Context, opts ListOpts) ([]*Invoice, error)
	DeleteInvoice(ctx context.Context, number string) error
}

// ListOpts filters invoice listings. Customer matches as a case-insensitive
// substring; Start is inclusive and End exclusive. Results are newest first.
type ListOpts struct {
	Customer string
	Start    time.Time
	End      time.Time
	Limit    int
	Offset   int
}
