package render

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

const (
	TitleInvoice   = "FACTURA"
	TitleQuotation = "COTIZACIÓN"

	// Paper narrower than a full item row gets the two-line item layout.
	tableWidth = 76
	nameWidth  = 30
	labelWidth = 50
)

// Document is everything a rendered page shows.
type Document struct {
	Title    string
	Number   string
	Date     time.Time
	Customer string
	Items    []pricing.LineItem
	Totals   pricing.Totals
	Notes    string
	Company  settings.Company
	Preview  bool
}

// Text renders doc for paper.
func Text(doc Document, paper Paper) string {
	cols := paper.Columns()
	rule := func(c string) string { return strings.Repeat(c, cols) }

	var lines []string
	add := func(s ...string) { lines = append(lines, s...) }

	if doc.Company.Name != "" {
		add(center(doc.Company.Name, cols))
		for _, s := range []string{doc.Company.Address, doc.Company.Phone, doc.Company.Email} {
			if s != "" {
				add(center(s, cols))
			}
		}
		if doc.Company.TaxID != "" {
			add(center("RFC: "+doc.Company.TaxID, cols))
		}
	}

	add(rule("="), center(doc.Title, cols), rule("="))
	if doc.Preview {
		add(center("*** VISTA PREVIA ***", cols))
	}
	add("")

	add("Número: "+doc.Number,
		"Fecha: "+doc.Date.Format("02/01/2006 15:04:05"),
		"Cliente: "+doc.Customer,
		"",
		rule("-"),
		"")

	wide := cols >= tableWidth
	if wide {
		add(fmt.Sprintf("%-10s %-30s %8s %12s %12s", "Código", "Descripción", "Cant.", "Precio", "Total"))
	}
	add(rule("-"))
	for _, it := range doc.Items {
		if wide {
			add(fmt.Sprintf("%-10s %-30s %8s %12s %12s",
				it.ProductCode, truncate(it.ProductName, nameWidth), quantity(it.Quantity),
				unitPrice(it.UnitPrice, it.Subtotal.Currency), it.Subtotal))
			continue
		}
		add(truncate(it.ProductCode+" "+it.ProductName, cols),
			fmt.Sprintf("  %s x %s = %s", quantity(it.Quantity),
				unitPrice(it.UnitPrice, it.Subtotal.Currency), it.Subtotal))
	}
	add(rule("-"), "")

	width := labelWidth
	if !wide {
		width = cols - 13
	}
	total := func(label string, m types.Money) string {
		return fmt.Sprintf("%-*s %12s", width, label, m)
	}
	add(total("Subtotal:", doc.Totals.Subtotal))
	if doc.Totals.TaxRate.IsPositive() {
		add(total("Impuesto ("+doc.Totals.TaxRate.String()+"%):", doc.Totals.TaxAmount))
	}
	add(rule("="), total("TOTAL:", doc.Totals.Total), rule("="))

	if doc.Notes != "" {
		add("", "Notas:", doc.Notes)
	}
	add("", "Gracias por su compra!")

	return strings.Join(lines, "\n")
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

func quantity(q decimal.Decimal) string {
	if q.Exponent() < -2 {
		return q.StringFixed(3)
	}
	return q.StringFixed(2)
}

// unitPrice shows unrounded prices with at least two decimals.
func unitPrice(p decimal.Decimal, currency string) string {
	places := int32(2)
	if p.Exponent() < -2 {
		places = -p.Exponent()
	}
	return types.CurrencySymbol(currency) + p.StringFixed(places)
}
