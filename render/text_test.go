package render

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/settings"
)

func sampleDocument(rate string) Document {
	p := &catalog.Product{Code: "P1", Name: "Tornillo hexagonal de acero inoxidable", UnitPrice: decimal.RequireFromString("10.00")}
	items := []pricing.LineItem{pricing.NewLineItem(p, decimal.NewFromInt(2), "usd")}
	return Document{
		Title:    TitleInvoice,
		Number:   "FAC-2026-0001",
		Date:     time.Date(2026, time.March, 4, 9, 5, 6, 0, time.UTC),
		Customer: "Ana López",
		Items:    items,
		Totals:   pricing.ComputeTotals(items, decimal.RequireFromString(rate), "usd"),
		Notes:    "Entrega en tienda",
		Company:  settings.Company{Name: "Ferretería Central", TaxID: "FEC010101AAA"},
	}
}

func TestTextNormal(t *testing.T) {
	out := Text(sampleDocument("0"), PaperNormal)

	for _, want := range []string{
		"Ferretería Central",
		"RFC: FEC010101AAA",
		"FACTURA",
		"Número: FAC-2026-0001",
		"Fecha: 04/03/2026 09:05:06",
		"Cliente: Ana López",
		"Tornillo hexagonal de acero...",
		"$10.00",
		"$20.00",
		"TOTAL:",
		"Notas:\nEntrega en tienda",
		"Gracias por su compra!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Impuesto") {
		t.Error("tax line rendered for zero rate")
	}
	if strings.Contains(out, "VISTA PREVIA") {
		t.Error("preview marker on a final document")
	}
	if !strings.Contains(out, strings.Repeat("=", 90)) {
		t.Error("A4 rule is not 90 columns")
	}
}

func TestTextTaxAndPreview(t *testing.T) {
	doc := sampleDocument("16")
	doc.Preview = true
	out := Text(doc, PaperLetter)

	if !strings.Contains(out, "Impuesto (16%):") || !strings.Contains(out, "$3.20") || !strings.Contains(out, "$23.20") {
		t.Errorf("tax lines missing\n%s", out)
	}
	if !strings.Contains(out, "VISTA PREVIA") {
		t.Error("preview marker missing")
	}
}

func TestTextThermalFitsWidth(t *testing.T) {
	out := Text(sampleDocument("16"), PaperThermal)
	cols := PaperThermal.Columns()
	if cols != 35 {
		t.Fatalf("thermal columns = %d", cols)
	}
	for _, line := range strings.Split(out, "\n") {
		if n := len([]rune(line)); n > cols {
			t.Errorf("line %q is %d runes wide", line, n)
		}
	}
	if !strings.Contains(out, "2.00 x $10.00 = $20.00") {
		t.Errorf("compact item line missing\n%s", out)
	}
}

func TestPaperByName(t *testing.T) {
	tests := []struct {
		name string
		want Paper
		err  bool
	}{
		{"", PaperNormal, false},
		{"normal", PaperNormal, false},
		{"THERMAL", PaperThermal, false},
		{"letter", PaperLetter, false},
		{"legal", Paper{}, true},
	}
	for _, tt := range tests {
		got, err := PaperByName(tt.name)
		if (err != nil) != tt.err {
			t.Errorf("%q: err = %v", tt.name, err)
			continue
		}
		if got.Name != tt.want.Name {
			t.Errorf("%q: got %q", tt.name, got.Name)
		}
	}
}
