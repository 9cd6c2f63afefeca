// Package audithook bridges Folio document events to an audit trail backend.
//
// It defines a local Recorder interface so the package does not depend on a
// particular audit system. Callers inject a RecorderFunc adapter at wiring
// time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/plugin"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/settings"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin               = (*Extension)(nil)
	_ plugin.OnProductSaved       = (*Extension)(nil)
	_ plugin.OnProductDeleted     = (*Extension)(nil)
	_ plugin.OnStockLow           = (*Extension)(nil)
	_ plugin.OnQuotationCreated   = (*Extension)(nil)
	_ plugin.OnInvoiceIssued      = (*Extension)(nil)
	_ plugin.OnQuotationConverted = (*Extension)(nil)
	_ plugin.OnDocumentFailed     = (*Extension)(nil)
	_ plugin.OnNumberIssued       = (*Extension)(nil)
	_ plugin.OnSettingsUpdated    = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a single audit trail entry.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges Folio lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	static   []any
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// ──────────────────────────────────────────────────
// Catalog hooks
// ──────────────────────────────────────────────────

func (e *Extension) OnProductSaved(ctx context.Context, p *catalog.Product) error {
	return e.record(ctx, ActionProductSaved, SeverityInfo, OutcomeSuccess,
		ResourceProduct, p.Code, CategoryCatalog, nil,
		"name", p.Name,
		"unit_price", p.UnitPrice.String(),
		"stock", p.Stock.String(),
	)
}

func (e *Extension) OnProductDeleted(ctx context.Context, code string) error {
	return e.record(ctx, ActionProductDeleted, SeverityWarning, OutcomeSuccess,
		ResourceProduct, code, CategoryCatalog, nil,
	)
}

func (e *Extension) OnStockLow(ctx context.Context, p *catalog.Product, threshold decimal.Decimal) error {
	return e.record(ctx, ActionStockLow, SeverityWarning, OutcomeSuccess,
		ResourceProduct, p.Code, CategoryInventory, nil,
		"stock", p.Stock.String(),
		"threshold", threshold.String(),
	)
}

// ──────────────────────────────────────────────────
// Document hooks
// ──────────────────────────────────────────────────

func (e *Extension) OnQuotationCreated(ctx context.Context, q *quotation.Quotation) error {
	return e.record(ctx, ActionQuotationCreated, SeverityInfo, OutcomeSuccess,
		ResourceQuotation, q.Number, CategoryBilling, nil,
		"customer", q.Customer,
		"total", q.Total.String(),
		"lines", len(q.Items),
	)
}

func (e *Extension) OnInvoiceIssued(ctx context.Context, inv *invoice.Invoice) error {
	kv := []any{
		"customer", inv.Customer,
		"total", inv.Total.String(),
		"tax_rate", inv.TaxRate.String(),
		"lines", len(inv.Items),
	}
	if inv.SourceQuotationNumber != "" {
		kv = append(kv, "source_quotation", inv.SourceQuotationNumber)
	}
	return e.record(ctx, ActionInvoiceIssued, SeverityInfo, OutcomeSuccess,
		ResourceInvoice, inv.Number, CategoryBilling, nil, kv...)
}

func (e *Extension) OnQuotationConverted(ctx context.Context, q *quotation.Quotation, inv *invoice.Invoice) error {
	return e.record(ctx, ActionQuotationConverted, SeverityInfo, OutcomeSuccess,
		ResourceQuotation, q.Number, CategoryBilling, nil,
		"invoice_number", inv.Number,
	)
}

// OnDocumentFailed records storage failures that happened after validation.
func (e *Extension) OnDocumentFailed(ctx context.Context, kind numbering.Kind, op string, err error) error {
	return e.record(ctx, ActionDocumentFailed, SeverityCritical, OutcomeFailure,
		string(kind), "", CategoryBilling, err,
		"operation", op,
	)
}

// ──────────────────────────────────────────────────
// Numbering and settings hooks
// ──────────────────────────────────────────────────

func (e *Extension) OnNumberIssued(ctx context.Context, kind numbering.Kind, number string) error {
	return e.record(ctx, ActionNumberIssued, SeverityInfo, OutcomeSuccess,
		ResourceNumber, number, CategoryBilling, nil,
		"kind", string(kind),
	)
}

func (e *Extension) OnSettingsUpdated(ctx context.Context, old, updated *settings.Settings) error {
	return e.record(ctx, ActionSettingsUpdated, SeverityInfo, OutcomeSuccess,
		ResourceSettings, "", CategoryConfiguration, nil,
		"invoice_prefix", updated.InvoicePrefix,
		"quotation_prefix", updated.QuotationPrefix,
		"apply_invoice_tax", updated.ApplyInvoiceTax,
		"tax_toggled", old.ApplyInvoiceTax != updated.ApplyInvoiceTax,
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
// Recorder failures are logged, never returned.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}

	pairs := append(append([]any(nil), e.static...), kvPairs...)
	meta := make(map[string]any, len(pairs)/2+1)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", pairs[i])
		}
		meta[key] = pairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
