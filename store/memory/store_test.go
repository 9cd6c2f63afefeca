package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio"
	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/types"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStockPrimitives(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.UpsertProduct(ctx, &catalog.Product{Code: "P1", Name: "Tornillo", Stock: dec("3")})

	if err := s.TryDecrementStock(ctx, "P1", dec("5")); !errors.Is(err, folio.ErrInsufficientStock) {
		t.Fatalf("err = %v", err)
	}
	p, _ := s.GetProduct(ctx, "P1")
	if !p.Stock.Equal(dec("3")) {
		t.Errorf("stock changed to %s", p.Stock)
	}

	if err := s.TryDecrementStock(ctx, "P1", dec("2.5")); err != nil {
		t.Fatal(err)
	}
	if err := s.IncrementStock(ctx, "P1", dec("1")); err != nil {
		t.Fatal(err)
	}
	p, _ = s.GetProduct(ctx, "P1")
	if !p.Stock.Equal(dec("1.5")) {
		t.Errorf("stock = %s, want 1.5", p.Stock)
	}

	if err := s.TryDecrementStock(ctx, "NOPE", dec("1")); !errors.Is(err, folio.ErrProductNotFound) {
		t.Errorf("unknown code err = %v", err)
	}
}

func TestConcurrentDecrementNeverOversells(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.UpsertProduct(ctx, &catalog.Product{Code: "P1", Stock: dec("10")})

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryDecrementStock(ctx, "P1", dec("1")) == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	p, _ := s.GetProduct(ctx, "P1")
	if ok != 10 || !p.Stock.IsZero() {
		t.Errorf("succeeded %d times, stock %s", ok, p.Stock)
	}
}

func TestProductsAreCopied(t *testing.T) {
	ctx := context.Background()
	s := New()
	p := &catalog.Product{Code: "P1", Name: "Original", Stock: dec("1")}
	_ = s.UpsertProduct(ctx, p)
	p.Name = "Mutated"

	got, _ := s.GetProduct(ctx, "P1")
	if got.Name != "Original" {
		t.Error("store shares the caller's product")
	}
	got.Name = "Mutated again"
	again, _ := s.GetProduct(ctx, "P1")
	if again.Name != "Original" {
		t.Error("store returned its own product")
	}
}

func TestSearchAndLowStock(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.UpsertProduct(ctx, &catalog.Product{Code: "TOR-1", Name: "Tornillo", Stock: dec("2")})
	_ = s.UpsertProduct(ctx, &catalog.Product{Code: "CAB-1", Name: "Cable", Stock: dec("50")})
	_ = s.UpsertProduct(ctx, &catalog.Product{Code: "TUE-1", Name: "Tuerca", Stock: dec("5")})

	found, _ := s.SearchProducts(ctx, "tor", catalog.ListOpts{})
	if len(found) != 1 || found[0].Code != "TOR-1" {
		t.Errorf("search = %v", found)
	}
	found, _ = s.SearchProducts(ctx, "cab-", catalog.ListOpts{})
	if len(found) != 1 {
		t.Errorf("search by code = %v", found)
	}

	low, _ := s.ListLowStock(ctx, dec("5"))
	if len(low) != 2 || low[0].Code != "TOR-1" || low[1].Code != "TUE-1" {
		t.Errorf("low stock = %v", low)
	}

	all, _ := s.ListProducts(ctx, catalog.ListOpts{Limit: 2, Offset: 1})
	if len(all) != 2 || all[0].Code != "TOR-1" {
		t.Errorf("page = %v", all)
	}
}

func TestMarkQuotationInvoiced(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreateQuotation(ctx, &quotation.Quotation{Number: "COT-1", Status: quotation.StatusPending})

	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if err := s.MarkQuotationInvoiced(ctx, "COT-1", "FAC-1", at); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkQuotationInvoiced(ctx, "COT-1", "FAC-2", at); !errors.Is(err, folio.ErrAlreadyInvoiced) {
		t.Errorf("second mark err = %v", err)
	}
	if err := s.MarkQuotationInvoiced(ctx, "COT-9", "FAC-2", at); !errors.Is(err, folio.ErrQuotationNotFound) {
		t.Errorf("missing err = %v", err)
	}

	q, _ := s.GetQuotation(ctx, "COT-1")
	if q.Status != quotation.StatusInvoiced || q.InvoiceNumber != "FAC-1" {
		t.Errorf("quotation = %+v", q)
	}
}

func TestListInvoicesFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	day := func(d int) time.Time { return time.Date(2026, 3, d, 12, 0, 0, 0, time.UTC) }
	for i, c := range []string{"Ana López", "Luis Pérez", "ANA Torres"} {
		inv := &invoice.Invoice{Number: string(rune('A' + i)), Customer: c, Total: types.USD(100)}
		inv.CreatedAt = day(i + 1)
		_ = s.CreateInvoice(ctx, inv)
	}

	got, _ := s.ListInvoices(ctx, invoice.ListOpts{Customer: "ana"})
	if len(got) != 2 || got[0].Number != "C" || got[1].Number != "A" {
		t.Errorf("customer filter = %v", got)
	}

	got, _ = s.ListInvoices(ctx, invoice.ListOpts{Start: day(2), End: day(3)})
	if len(got) != 1 || got[0].Number != "B" {
		t.Errorf("date filter = %v", got)
	}

	if err := s.CreateInvoice(ctx, &invoice.Invoice{Number: "A"}); !errors.Is(err, folio.ErrAlreadyExists) {
		t.Errorf("duplicate err = %v", err)
	}
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	s := New()
	for range 3 {
		_, _ = s.AdvanceCounter(ctx, numbering.KindInvoice)
	}
	n, _ := s.LastIssued(ctx, numbering.KindInvoice)
	q, _ := s.LastIssued(ctx, numbering.KindQuotation)
	if n != 3 || q != 0 {
		t.Errorf("invoice %d quotation %d", n, q)
	}
}

func TestSettingsNotFound(t *testing.T) {
	if _, err := New().GetSettings(context.Background()); !errors.Is(err, folio.ErrSettingsNotFound) {
		t.Errorf("err = %v", err)
	}
}
