package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/settings"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// It uses type-cached discovery so emitting only touches interested plugins.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	// Type-cached plugin lists for efficient dispatch
	onInit               []OnInit
	onShutdown           []OnShutdown
	onProductSaved       []OnProductSaved
	onProductDeleted     []OnProductDeleted
	onStockLow           []OnStockLow
	onQuotationCreated   []OnQuotationCreated
	onInvoiceIssued      []OnInvoiceIssued
	onQuotationConverted []OnQuotationConverted
	onDocumentFailed     []OnDocumentFailed
	onNumberIssued       []OnNumberIssued
	onSettingsUpdated    []OnSettingsUpdated
	formatters           map[string]DocumentFormatter
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:     slog.Default(),
		timeout:    DefaultTimeout,
		formatters: make(map[string]DocumentFormatter),
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	r.timeout = d
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}
	if v, ok := p.(DocumentFormatter); ok {
		if _, dup := r.formatters[v.Format()]; dup {
			return fmt.Errorf("plugin: duplicate formatter %q: %s", v.Format(), p.Name())
		}
		r.formatters[v.Format()] = v
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnProductSaved); ok {
		r.onProductSaved = append(r.onProductSaved, v)
	}
	if v, ok := p.(OnProductDeleted); ok {
		r.onProductDeleted = append(r.onProductDeleted, v)
	}
	if v, ok := p.(OnStockLow); ok {
		r.onStockLow = append(r.onStockLow, v)
	}
	if v, ok := p.(OnQuotationCreated); ok {
		r.onQuotationCreated = append(r.onQuotationCreated, v)
	}
	if v, ok := p.(OnInvoiceIssued); ok {
		r.onInvoiceIssued = append(r.onInvoiceIssued, v)
	}
	if v, ok := p.(OnQuotationConverted); ok {
		r.onQuotationConverted = append(r.onQuotationConverted, v)
	}
	if v, ok := p.(OnDocumentFailed); ok {
		r.onDocumentFailed = append(r.onDocumentFailed, v)
	}
	if v, ok := p.(OnNumberIssued); ok {
		r.onNumberIssued = append(r.onNumberIssued, v)
	}
	if v, ok := p.(OnSettingsUpdated); ok {
		r.onSettingsUpdated = append(r.onSettingsUpdated, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedInterfaces(p),
	)

	return nil
}

var hookTypes = []struct {
	typ  reflect.Type
	name string
}{
	{reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit"},
	{reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown"},
	{reflect.TypeOf((*OnProductSaved)(nil)).Elem(), "OnProductSaved"},
	{reflect.TypeOf((*OnProductDeleted)(nil)).Elem(), "OnProductDeleted"},
	{reflect.TypeOf((*OnStockLow)(nil)).Elem(), "OnStockLow"},
	{reflect.TypeOf((*OnQuotationCreated)(nil)).Elem(), "OnQuotationCreated"},
	{reflect.TypeOf((*OnInvoiceIssued)(nil)).Elem(), "OnInvoiceIssued"},
	{reflect.TypeOf((*OnQuotationConverted)(nil)).Elem(), "OnQuotationConverted"},
	{reflect.TypeOf((*OnDocumentFailed)(nil)).Elem(), "OnDocumentFailed"},
	{reflect.TypeOf((*OnNumberIssued)(nil)).Elem(), "OnNumberIssued"},
	{reflect.TypeOf((*OnSettingsUpdated)(nil)).Elem(), "OnSettingsUpdated"},
	{reflect.TypeOf((*DocumentFormatter)(nil)).Elem(), "DocumentFormatter"},
}

// implementedInterfaces returns the hook names p implements.
func implementedInterfaces(p Plugin) []string {
	var names []string
	t := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if t.Implements(h.typ) {
			names = append(names, h.name)
		}
	}
	return names
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// Formatter returns the document formatter registered for format, or nil.
func (r *Registry) Formatter(format string) DocumentFormatter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.formatters[format]
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, f interface{}) {
	r.mu.RLock()
	plugins := r.onInit
	r.mu.RUnlock()

	emit(ctx, r, "OnInit", plugins, func(p OnInit) error { return p.OnInit(ctx, f) })
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	r.mu.RLock()
	plugins := r.onShutdown
	r.mu.RUnlock()

	emit(ctx, r, "OnShutdown", plugins, func(p OnShutdown) error { return p.OnShutdown(ctx) })
}

func (r *Registry) EmitProductSaved(ctx context.Context, prod *catalog.Product) {
	r.mu.RLock()
	plugins := r.onProductSaved
	r.mu.RUnlock()

	emit(ctx, r, "OnProductSaved", plugins, func(p OnProductSaved) error { return p.OnProductSaved(ctx, prod) })
}

func (r *Registry) EmitProductDeleted(ctx context.Context, code string) {
	r.mu.RLock()
	plugins := r.onProductDeleted
	r.mu.RUnlock()

	emit(ctx, r, "OnProductDeleted", plugins, func(p OnProductDeleted) error { return p.OnProductDeleted(ctx, code) })
}

func (r *Registry) EmitStockLow(ctx context.Context, prod *catalog.Product, threshold decimal.Decimal) {
	r.mu.RLock()
	plugins := r.onStockLow
	r.mu.RUnlock()

	emit(ctx, r, "OnStockLow", plugins, func(p OnStockLow) error { return p.OnStockLow(ctx, prod, threshold) })
}

func (r *Registry) EmitQuotationCreated(ctx context.Context, q *quotation.Quotation) {
	r.mu.RLock()
	plugins := r.onQuotationCreated
	r.mu.RUnlock()

	emit(ctx, r, "OnQuotationCreated", plugins, func(p OnQuotationCreated) error { return p.OnQuotationCreated(ctx, q) })
}

func (r *Registry) EmitInvoiceIssued(ctx context.Context, inv *invoice.Invoice) {
	r.mu.RLock()
	plugins := r.onInvoiceIssued
	r.mu.RUnlock()

	emit(ctx, r, "OnInvoiceIssued", plugins, func(p OnInvoiceIssued) error { return p.OnInvoiceIssued(ctx, inv) })
}

func (r *Registry) EmitQuotationConverted(ctx context.Context, q *quotation.Quotation, inv *invoice.Invoice) {
	r.mu.RLock()
	plugins := r.onQuotationConverted
	r.mu.RUnlock()

	emit(ctx, r, "OnQuotationConverted", plugins, func(p OnQuotationConverted) error {
		return p.OnQuotationConverted(ctx, q, inv)
	})
}

func (r *Registry) EmitDocumentFailed(ctx context.Context, kind numbering.Kind, op string, err error) {
	r.mu.RLock()
	plugins := r.onDocumentFailed
	r.mu.RUnlock()

	emit(ctx, r, "OnDocumentFailed", plugins, func(p OnDocumentFailed) error {
		return p.OnDocumentFailed(ctx, kind, op, err)
	})
}

func (r *Registry) EmitNumberIssued(ctx context.Context, kind numbering.Kind, number string) {
	r.mu.RLock()
	plugins := r.onNumberIssued
	r.mu.RUnlock()

	emit(ctx, r, "OnNumberIssued", plugins, func(p OnNumberIssued) error { return p.OnNumberIssued(ctx, kind, number) })
}

func (r *Registry) EmitSettingsUpdated(ctx context.Context, old, updated *settings.Settings) {
	r.mu.RLock()
	plugins := r.onSettingsUpdated
	r.mu.RUnlock()

	emit(ctx, r, "OnSettingsUpdated", plugins, func(p OnSettingsUpdated) error {
		return p.OnSettingsUpdated(ctx, old, updated)
	})
}

// emit calls fn for every plugin, logging failures. Hooks never fail the
// operation that triggered them.
func emit[T Plugin](ctx context.Context, r *Registry, hook string, plugins []T, fn func(T) error) {
	for _, p := range plugins {
		if err := r.callWithTimeout(ctx, p.Name(), func() error { return fn(p) }); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// callWithTimeout calls a plugin function with a timeout.
// Plugins should never block the document pipeline.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
