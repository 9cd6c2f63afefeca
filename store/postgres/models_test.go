package postgres

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

func TestProductModelRoundTrip(t *testing.T) {
	p := &catalog.Product{
		ID:        id.NewProductID(),
		Code:      "CAB-1",
		Name:      "Cable",
		UnitPrice: decimal.RequireFromString("3.333"),
		Unit:      "metro",
		Stock:     decimal.RequireFromString("0.125"),
	}

	m, err := toProductModel(p)
	if err != nil {
		t.Fatal(err)
	}
	if m.StockMilli != 125 || m.UnitPrice != "3.333" {
		t.Fatalf("model = %+v", m)
	}
	got, err := fromProductModel(m)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID.String() != p.ID.String() || !got.Stock.Equal(p.Stock) || !got.UnitPrice.Equal(p.UnitPrice) {
		t.Errorf("got %+v", got)
	}

	p.Stock = decimal.RequireFromString("10000000000000000")
	if _, err := toProductModel(p); !errors.Is(err, types.ErrOutOfRange) {
		t.Errorf("overflowing stock: err = %v", err)
	}
}

func TestInvoiceModelRoundTrip(t *testing.T) {
	p := &catalog.Product{Code: "P1", Name: "Tornillo", Unit: "pieza", UnitPrice: decimal.RequireFromString("10.005")}
	items := []pricing.LineItem{
		pricing.NewLineItem(p, decimal.RequireFromString("2.5"), "mxn"),
		pricing.NewLineItem(p, decimal.RequireFromString("1"), "mxn"),
	}
	totals := pricing.ComputeTotals(items, decimal.RequireFromString("16"), "mxn")
	created := time.Date(2026, time.May, 4, 10, 30, 0, 0, time.UTC)
	inv := &invoice.Invoice{
		Entity:                types.Entity{CreatedAt: created, UpdatedAt: created},
		ID:                    id.NewInvoiceID(),
		Number:                "FAC-2026-0007",
		Customer:              "ACME",
		Notes:                 "entrega parcial",
		Items:                 items,
		Subtotal:              totals.Subtotal,
		TaxRate:               totals.TaxRate,
		TaxAmount:             totals.TaxAmount,
		Total:                 totals.Total,
		SourceQuotationNumber: "COT-2026-0003",
	}

	m, err := toInvoiceModel(inv)
	if err != nil {
		t.Fatal(err)
	}
	if m.Currency != "mxn" || m.TaxRate != "16" || m.SourceQuotation != "COT-2026-0003" {
		t.Errorf("model = %+v", m)
	}
	if !json.Valid(m.Items) {
		t.Fatalf("items column is not valid JSON: %s", m.Items)
	}

	got, err := fromInvoiceModel(m)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID.String() != inv.ID.String() || got.Number != inv.Number || got.Customer != "ACME" || got.Notes != inv.Notes {
		t.Errorf("header = %+v", got)
	}
	if !got.Subtotal.Equal(inv.Subtotal) || !got.TaxAmount.Equal(inv.TaxAmount) || !got.Total.Equal(inv.Total) {
		t.Errorf("totals = %s + %s = %s, want %s + %s = %s",
			got.Subtotal, got.TaxAmount, got.Total, inv.Subtotal, inv.TaxAmount, inv.Total)
	}
	if !got.TaxRate.Equal(inv.TaxRate) {
		t.Errorf("tax rate = %s", got.TaxRate)
	}
	if got.SourceQuotationNumber != "COT-2026-0003" || !got.CreatedAt.Equal(created) {
		t.Errorf("source = %q, created = %v", got.SourceQuotationNumber, got.CreatedAt)
	}

	if len(got.Items) != len(items) {
		t.Fatalf("got %d items", len(got.Items))
	}
	for i, it := range got.Items {
		want := items[i]
		if it.ID.String() != want.ID.String() || it.ProductCode != "P1" || it.Unit != "pieza" {
			t.Errorf("item %d = %+v", i, it)
		}
		if !it.Quantity.Equal(want.Quantity) || !it.UnitPrice.Equal(want.UnitPrice) || !it.Subtotal.Equal(want.Subtotal) {
			t.Errorf("item %d amounts = %s x %s = %s", i, it.Quantity, it.UnitPrice, it.Subtotal)
		}
	}
}

func TestInvoiceModelRejectsBadColumns(t *testing.T) {
	base := invoiceModel{Number: "FAC-2026-0001", TaxRate: "0", Items: json.RawMessage(`[]`)}

	badItems := base
	badItems.Items = json.RawMessage(`{"not":"a list"}`)
	if _, err := fromInvoiceModel(&badItems); err == nil {
		t.Error("malformed items accepted")
	}

	badRate := base
	badRate.TaxRate = "sixteen"
	if _, err := fromInvoiceModel(&badRate); err == nil {
		t.Error("malformed tax rate accepted")
	}

	empty := base
	empty.Items = nil
	got, err := fromInvoiceModel(&empty)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 0 {
		t.Errorf("items = %v", got.Items)
	}
}

func TestSettingsModelRoundTrip(t *testing.T) {
	st := settings.Defaults()
	st.Currency = "usd"
	st.DefaultTaxRate = decimal.RequireFromString("8.25")

	m, err := toSettingsModel(&st)
	if err != nil {
		t.Fatal(err)
	}
	if m.ID != 1 {
		t.Errorf("id = %d", m.ID)
	}
	got, err := fromSettingsModel(m)
	if err != nil {
		t.Fatal(err)
	}
	if got.Currency != "usd" || !got.DefaultTaxRate.Equal(st.DefaultTaxRate) || got.InvoiceTemplate != st.InvoiceTemplate {
		t.Errorf("got %+v", got)
	}
}

func TestLikePattern(t *testing.T) {
	tests := map[string]string{
		"Tor":    "%Tor%",
		"50%":    `%50\%%`,
		"a_b":    `%a\_b%`,
		`c:\tmp`: `%c:\\tmp%`,
	}
	for in, want := range tests {
		if got := likePattern(in); got != want {
			t.Errorf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}
