// Package plugin provides an extensible plugin system for Folio.
// Plugins can hook into catalog, numbering and document lifecycle events.
package plugin

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/render"
	"github.com/xraph/folio/settings"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the engine starts. f is the *folio.Folio.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, f interface{}) error
}

// OnShutdown is called when the engine stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

type OnProductSaved interface {
	Plugin
	OnProductSaved(ctx context.Context, p *catalog.Product) error
}

type OnProductDeleted interface {
	Plugin
	OnProductDeleted(ctx context.Context, code string) error
}

// OnStockLow is called after an invoice leaves a product at or below the
// configured low-stock threshold.
type OnStockLow interface {
	Plugin
	OnStockLow(ctx context.Context, p *catalog.Product, threshold decimal.Decimal) error
}

// ──────────────────────────────────────────────────
// Document hooks
// ──────────────────────────────────────────────────

type OnQuotationCreated interface {
	Plugin
	OnQuotationCreated(ctx context.Context, q *quotation.Quotation) error
}

// OnInvoiceIssued is called for every persisted invoice, converted or not.
type OnInvoiceIssued interface {
	Plugin
	OnInvoiceIssued(ctx context.Context, inv *invoice.Invoice) error
}

// OnQuotationConverted is called after q has been marked invoiced by inv.
type OnQuotationConverted interface {
	Plugin
	OnQuotationConverted(ctx context.Context, q *quotation.Quotation, inv *invoice.Invoice) error
}

// OnDocumentFailed is called when a document operation fails after
// validation, i.e. on storage errors.
type OnDocumentFailed interface {
	Plugin
	OnDocumentFailed(ctx context.Context, kind numbering.Kind, op string, err error) error
}

// ──────────────────────────────────────────────────
// Numbering and settings hooks
// ──────────────────────────────────────────────────

type OnNumberIssued interface {
	Plugin
	OnNumberIssued(ctx context.Context, kind numbering.Kind, number string) error
}

type OnSettingsUpdated interface {
	Plugin
	OnSettingsUpdated(ctx context.Context, old, updated *settings.Settings) error
}

// ──────────────────────────────────────────────────
// Document formatters
// ──────────────────────────────────────────────────

// DocumentFormatter exports documents in a format other than plain text.
type DocumentFormatter interface {
	Plugin
	Format() string // "pdf", "html", "csv", ...
	Render(ctx context.Context, doc render.Document, paper render.Paper, w io.Writer) error
}
