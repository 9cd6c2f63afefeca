// Package store defines the unified persistence contract for Folio.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/settings"
)

// Store is the unified storage interface for all Folio entities.
// Methods are declared explicitly rather than by embedding so that every
// backend's surface is visible in one place; the per-package interfaces
// (catalog.Store, quotation.Store, ...) are satisfied by any Store.
type Store interface {
	// Catalog methods
	GetProduct(ctx context.Context, code string) (*catalog.Product, error)
	ListProducts(ctx context.Context, opts catalog.ListOpts) ([]*catalog.Product, error)
	SearchProducts(ctx context.Context, term string, opts catalog.ListOpts) ([]*catalog.Product, error)
	UpsertProduct(ctx context.Context, p *catalog.Product) error
	DeleteProduct(ctx context.Context, code string) error
	TryDecrementStock(ctx context.Context, code string, qty decimal.Decimal) error
	IncrementStock(ctx context.Context, code string, qty decimal.Decimal) error
	ListLowStock(ctx context.Context, threshold decimal.Decimal) ([]*catalog.Product, error)

	// Quotation methods
	CreateQuotation(ctx context.Context, q *quotation.Quotation) error
	GetQuotation(ctx context.Context, number string) (*quotation.Quotation, error)
	ListQuotations(ctx context.Context, opts quotation.ListOpts) ([]*quotation.Quotation, error)
	MarkQuotationInvoiced(ctx context.Context, number, invoiceNumber string, at time.Time) error

	// Invoice methods
	CreateInvoice(ctx context.Context, inv *invoice.Invoice) error
	GetInvoice(ctx context.Context, number string) (*invoice.Invoice, error)
	ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error)
	DeleteInvoice(ctx context.Context, number string) error

	// Numbering methods
	LastIssued(ctx context.Context, kind numbering.Kind) (int64, error)
	AdvanceCounter(ctx context.Context, kind numbering.Kind) (int64, error)

	// Settings methods
	GetSettings(ctx context.Context) (*settings.Settings, error)
	SaveSettings(ctx context.Context, s *settings.Settings) error

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Compile-time checks that Store satisfies every per-entity contract.
var (
	_ catalog.Store   = Store(nil)
	_ quotation.Store = Store(nil)
	_ invoice.Store   = Store(nil)
	_ numbering.Store = Store(nil)
	_ settings.Store  = Store(nil)
)
