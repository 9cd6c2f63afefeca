// Package observability provides a metrics extension for Folio that records
// document lifecycle counts through a MetricFactory.
package observability

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/plugin"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/settings"
)

// Ensure MetricsExtension implements required interfaces.
var (
	_ plugin.Plugin               = (*MetricsExtension)(nil)
	_ plugin.OnInit               = (*MetricsExtension)(nil)
	_ plugin.OnProductSaved       = (*MetricsExtension)(nil)
	_ plugin.OnProductDeleted     = (*MetricsExtension)(nil)
	_ plugin.OnStockLow           = (*MetricsExtension)(nil)
	_ plugin.OnQuotationCreated   = (*MetricsExtension)(nil)
	_ plugin.OnInvoiceIssued      = (*MetricsExtension)(nil)
	_ plugin.OnQuotationConverted = (*MetricsExtension)(nil)
	_ plugin.OnDocumentFailed     = (*MetricsExtension)(nil)
	_ plugin.OnNumberIssued       = (*MetricsExtension)(nil)
	_ plugin.OnSettingsUpdated    = (*MetricsExtension)(nil)
)

// Counter interface for metric counters.
type Counter interface {
	Inc()
	Add(float64)
}

// Histogram interface for metric histograms.
type Histogram interface {
	Observe(float64)
}

// MetricFactory creates metrics.
type MetricFactory interface {
	Counter(name string) Counter
	Histogram(name string) Histogram
}

// MetricsExtension records system-wide document metrics.
// Register it as a Folio plugin to track them automatically.
type MetricsExtension struct {
	factory MetricFactory

	// Catalog metrics
	ProductSaved   Counter
	ProductDeleted Counter
	StockLow       Counter

	// Document metrics
	QuotationCreated   Counter
	QuotationConverted Counter
	QuotationTotal     Histogram
	InvoiceIssued      Counter
	InvoiceTotal       Histogram
	InvoiceLines       Histogram

	// Numbering metrics
	InvoiceNumbers   Counter
	QuotationNumbers Counter

	SettingsUpdated Counter

	// Error metrics
	DocumentErrors Counter
}

// NewMetricsExtension creates a MetricsExtension with the provided MetricFactory.
// Use app.Metrics() in forge extensions.
func NewMetricsExtension(factory MetricFactory) *MetricsExtension {
	return &MetricsExtension{
		factory: factory,

		ProductSaved:   factory.Counter("folio.product.saved"),
		ProductDeleted: factory.Counter("folio.product.deleted"),
		StockLow:       factory.Counter("folio.product.stock_low"),

		QuotationCreated:   factory.Counter("folio.quotation.created"),
		QuotationConverted: factory.Counter("folio.quotation.converted"),
		QuotationTotal:     factory.Histogram("folio.quotation.total_amount"),
		InvoiceIssued:      factory.Counter("folio.invoice.issued"),
		InvoiceTotal:       factory.Histogram("folio.invoice.total_amount"),
		InvoiceLines:       factory.Histogram("folio.invoice.lines"),

		InvoiceNumbers:   factory.Counter("folio.numbering.invoice.issued"),
		QuotationNumbers: factory.Counter("folio.numbering.quotation.issued"),

		SettingsUpdated: factory.Counter("folio.settings.updated"),

		DocumentErrors: factory.Counter("folio.document.errors"),
	}
}

// Name implements plugin.Plugin.
func (m *MetricsExtension) Name() string { return "observability-metrics" }

// OnInit implements plugin.OnInit.
func (m *MetricsExtension) OnInit(_ context.Context, _ interface{}) error {
	return nil
}

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

func (m *MetricsExtension) OnProductSaved(_ context.Context, _ *catalog.Product) error {
	m.ProductSaved.Inc()
	return nil
}

func (m *MetricsExtension) OnProductDeleted(_ context.Context, _ string) error {
	m.ProductDeleted.Inc()
	return nil
}

func (m *MetricsExtension) OnStockLow(_ context.Context, _ *catalog.Product, _ decimal.Decimal) error {
	m.StockLow.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Document hooks
// ──────────────────────────────────────────────────

func (m *MetricsExtension) OnQuotationCreated(_ context.Context, q *quotation.Quotation) error {
	m.QuotationCreated.Inc()
	m.QuotationTotal.Observe(q.Total.Decimal().InexactFloat64())
	return nil
}

func (m *MetricsExtension) OnInvoiceIssued(_ context.Context, inv *invoice.Invoice) error {
	m.InvoiceIssued.Inc()
	m.InvoiceTotal.Observe(inv.Total.Decimal().InexactFloat64())
	m.InvoiceLines.Observe(float64(len(inv.Items)))
	return nil
}

func (m *MetricsExtension) OnQuotationConverted(_ context.Context, _ *quotation.Quotation, _ *invoice.Invoice) error {
	m.QuotationConverted.Inc()
	return nil
}

func (m *MetricsExtension) OnDocumentFailed(_ context.Context, _ numbering.Kind, _ string, _ error) error {
	m.DocumentErrors.Inc()
	return nil
}

// ──────────────────────────────────────────────────
// Numbering and settings hooks
// ──────────────────────────────────────────────────

func (m *MetricsExtension) OnNumberIssued(_ context.Context, kind numbering.Kind, _ string) error {
	switch kind {
	case numbering.KindInvoice:
		m.InvoiceNumbers.Inc()
	case numbering.KindQuotation:
		m.QuotationNumbers.Inc()
	}
	return nil
}

func (m *MetricsExtension) OnSettingsUpdated(_ context.Context, _, _ *settings.Settings) error {
	m.SettingsUpdated.Inc()
	return nil
}
