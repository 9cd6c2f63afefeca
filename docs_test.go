package folio_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio"
	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/store/memory"
	"github.com/xraph/folio/types"
)

// TestDocumentationExamples runs the snippets from the package documentation.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		f := folio.New(memory.New(), folio.WithLogger(slog.Default()))

		ctx := context.Background()
		if err := f.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer f.Stop()

		if _, err := f.SaveProduct(ctx, &catalog.Product{
			Code:      "P1",
			Name:      "Tornillo",
			UnitPrice: decimal.RequireFromString("10.00"),
			Stock:     decimal.NewFromInt(10),
		}); err != nil {
			t.Fatal(err)
		}

		q, err := f.CreateQuotation(ctx, folio.QuotationRequest{
			Customer: "ACME",
			Items:    []folio.Item{{Code: "P1", Quantity: decimal.NewFromInt(2)}},
		})
		if err != nil {
			t.Fatal(err)
		}

		inv, err := f.ConvertQuotation(ctx, q.Number)
		if err != nil {
			t.Fatal(err)
		}
		if inv.Total.String() != "$20.00" {
			t.Errorf("invoice total = %s", inv.Total)
		}

		res, err := f.CreateInvoice(ctx, folio.InvoiceRequest{
			Items:       []folio.Item{{Code: "P1", Quantity: decimal.NewFromInt(1)}},
			PreviewOnly: true,
			Paper:       "thermal",
		})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(res.Text, "VISTA PREVIA") {
			t.Errorf("preview text missing marker:\n%s", res.Text)
		}
	})

	t.Run("ErrorExample", func(t *testing.T) {
		f := folio.New(memory.New())
		ctx := context.Background()

		if _, err := f.SaveProduct(ctx, &catalog.Product{
			Code:      "P1",
			Name:      "Tornillo",
			UnitPrice: decimal.RequireFromString("10.00"),
			Stock:     decimal.NewFromInt(3),
		}); err != nil {
			t.Fatal(err)
		}

		_, err := f.CreateInvoice(ctx, folio.InvoiceRequest{
			Items: []folio.Item{{Code: "P1", Quantity: decimal.NewFromInt(5)}},
		})
		if !errors.Is(err, folio.ErrInsufficientStock) {
			t.Fatalf("err = %v", err)
		}
		var fe *folio.Error
		if !errors.As(err, &fe) {
			t.Fatalf("err %T is not *folio.Error", err)
		}
		if fe.Product != "P1" || !fe.Available.Equal(decimal.NewFromInt(3)) {
			t.Errorf("got product %q available %s", fe.Product, fe.Available)
		}
	})

	t.Run("MoneyExamples", func(t *testing.T) {
		m1 := types.USD(100)
		m2 := types.USD(200)
		if got := m1.Add(m2); got.Amount != 300 {
			t.Errorf("Add = %v", got)
		}
		if !m1.LessThan(m2) {
			t.Error("LessThan")
		}
		if m1.String() != "$1.00" || m1.FormatMajor() != "1.00" {
			t.Errorf("formatting: %s %s", m1.String(), m1.FormatMajor())
		}
	})
}
