// Package memory provides an in-memory store.Store for tests and
// single-process use. Values are copied on the way in and out so callers
// never share state with the store.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio"
	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/settings"
	folstore "github.com/xraph/folio/store"
)

var _ folstore.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	products   map[string]*catalog.Product
	quotations map[string]*quotation.Quotation
	invoices   map[string]*invoice.Invoice
	counters   map[numbering.Kind]int64
	settings   *settings.Settings
}

func New() *Store {
	return &Store{
		products:   make(map[string]*catalog.Product),
		quotations: make(map[string]*quotation.Quotation),
		invoices:   make(map[string]*invoice.Invoice),
		counters:   make(map[numbering.Kind]int64),
	}
}

// ==================== Catalog Store ====================

func (s *Store) GetProduct(_ context.Context, code string) (*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.products[code]; ok {
		return p.Clone(), nil
	}
	return nil, folio.ErrProductNotFound
}

func (s *Store) ListProducts(_ context.Context, opts catalog.ListOpts) ([]*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterProducts(func(*catalog.Product) bool { return true }, opts), nil
}

func (s *Store) SearchProducts(_ context.Context, term string, opts catalog.ListOpts) ([]*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	term = strings.ToLower(term)
	return s.filterProducts(func(p *catalog.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Code), term)
	}, opts), nil
}

func (s *Store) UpsertProduct(_ context.Context, p *catalog.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := p.Clone()
	if existing, ok := s.products[p.Code]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	}
	s.products[p.Code] = c
	return nil
}

func (s *Store) DeleteProduct(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[code]; !ok {
		return folio.ErrProductNotFound
	}
	delete(s.products, code)
	return nil
}

func (s *Store) TryDecrementStock(_ context.Context, code string, qty decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[code]
	if !ok {
		return folio.ErrProductNotFound
	}
	if p.Stock.LessThan(qty) {
		return folio.ErrInsufficientStock
	}
	p.Stock = p.Stock.Sub(qty)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) IncrementStock(_ context.Context, code string, qty decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[code]
	if !ok {
		return folio.ErrProductNotFound
	}
	p.Stock = p.Stock.Add(qty)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) ListLowStock(_ context.Context, threshold decimal.Decimal) ([]*catalog.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.filterProducts(func(p *catalog.Product) bool { return p.IsLowStock(threshold) }, catalog.ListOpts{}), nil
}

// filterProducts returns matching products sorted by code. Callers hold s.mu.
func (s *Store) filterProducts(match func(*catalog.Product) bool, opts catalog.ListOpts) []*catalog.Product {
	result := make([]*catalog.Product, 0)
	for _, p := range s.products {
		if match(p) {
			result = append(result, p.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return page(result, opts.Limit, opts.Offset)
}

// ==================== Quotation Store ====================

func (s *Store) CreateQuotation(_ context.Context, q *quotation.Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.quotations[q.Number]; exists {
		return folio.ErrAlreadyExists
	}
	s.quotations[q.Number] = q.Clone()
	return nil
}

func (s *Store) GetQuotation(_ context.Context, number string) (*quotation.Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if q, ok := s.quotations[number]; ok {
		return q.Clone(), nil
	}
	return nil, folio.ErrQuotationNotFound
}

func (s *Store) ListQuotations(_ context.Context, opts quotation.ListOpts) ([]*quotation.Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer := strings.ToLower(opts.Customer)
	result := make([]*quotation.Quotation, 0)
	for _, q := range s.quotations {
		if opts.Status != "" && q.Status != opts.Status {
			continue
		}
		if customer != "" && !strings.Contains(strings.ToLower(q.Customer), customer) {
			continue
		}
		result = append(result, q.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].CreatedAt, result[j].CreatedAt, result[i].Number, result[j].Number)
	})
	return page(result, opts.Limit, opts.Offset), nil
}

func (s *Store) MarkQuotationInvoiced(_ context.Context, number, invoiceNumber string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotations[number]
	if !ok {
		return folio.ErrQuotationNotFound
	}
	if !q.Status.CanTransitionTo(quotation.StatusInvoiced) {
		return folio.ErrAlreadyInvoiced
	}
	q.Status = quotation.StatusInvoiced
	q.InvoiceNumber = invoiceNumber
	q.InvoicedAt = &at
	q.UpdatedAt = at
	return nil
}

// ==================== Invoice Store ====================

func (s *Store) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.Number]; exists {
		return folio.ErrAlreadyExists
	}
	s.invoices[inv.Number] = inv.Clone()
	return nil
}

func (s *Store) GetInvoice(_ context.Context, number string) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if inv, ok := s.invoices[number]; ok {
		return inv.Clone(), nil
	}
	return nil, folio.ErrInvoiceNotFound
}

func (s *Store) ListInvoices(_ context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer := strings.ToLower(opts.Customer)
	result := make([]*invoice.Invoice, 0)
	for _, inv := range s.invoices {
		if customer != "" && !strings.Contains(strings.ToLower(inv.Customer), customer) {
			continue
		}
		if !opts.Start.IsZero() && inv.CreatedAt.Before(opts.Start) {
			continue
		}
		if !opts.End.IsZero() && !inv.CreatedAt.Before(opts.End) {
			continue
		}
		result = append(result, inv.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return newerFirst(result[i].CreatedAt, result[j].CreatedAt, result[i].Number, result[j].Number)
	})
	return page(result, opts.Limit, opts.Offset), nil
}

func (s *Store) DeleteInvoice(_ context.Context, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invoices[number]; !ok {
		return folio.ErrInvoiceNotFound
	}
	delete(s.invoices, number)
	return nil
}

// ==================== Numbering Store ====================

func (s *Store) LastIssued(_ context.Context, kind numbering.Kind) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counters[kind], nil
}

func (s *Store) AdvanceCounter(_ context.Context, kind numbering.Kind) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[kind]++
	return s.counters[kind], nil
}

// ==================== Settings Store ====================

func (s *Store) GetSettings(_ context.Context) (*settings.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.settings == nil {
		return nil, folio.ErrSettingsNotFound
	}
	c := *s.settings
	return &c, nil
}

func (s *Store) SaveSettings(_ context.Context, st *settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *st
	s.settings = &c
	return nil
}

// ==================== Store management ====================

func (s *Store) Migrate(_ context.Context) error {
	return nil // No migration needed for memory store
}

func (s *Store) Ping(_ context.Context) error {
	return nil // Always available
}

func (s *Store) Close() error {
	return nil // Nothing to close
}

// ==================== Helpers ====================

func page[T any](items []T, limit, offset int) []T {
	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func newerFirst(a, b time.Time, aNum, bNum string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aNum > bNum
}
