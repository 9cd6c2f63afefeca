// Package folio provides a quotation and invoicing engine for Go applications
// that sell from a stocked product catalog.
//
// Folio is designed as a library, not a service. Import it directly into your
// Go application and back it with one of the stores under store/. It provides:
//
//   - Quotations priced from the live catalog, with no stock reserved
//   - Invoices that decrement stock atomically and undo partial work on failure
//   - One-way conversion of a pending quotation into an invoice
//   - Gap-free, template-driven document numbering per document kind
//   - Side-effect-free previews rendered for normal, thermal and letter paper
//   - Plugin hooks for metrics, audit trails and export formats
//
// # Quick Start
//
//	import (
//	    "github.com/xraph/folio"
//	    "github.com/xraph/folio/store/memory"
//	)
//
//	f := folio.New(memory.New())
//	if err := f.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Stop()
//
// # Core Concepts
//
// Products carry a code, a unit price and a stock level:
//
//	f.SaveProduct(ctx, &catalog.Product{
//	    Code:      "P1",
//	    Name:      "Tornillo",
//	    UnitPrice: decimal.RequireFromString("10.00"),
//	    Stock:     decimal.NewFromInt(10),
//	})
//
// Quotations capture prices without touching stock:
//
//	q, err := f.CreateQuotation(ctx, folio.QuotationRequest{
//	    Customer: "ACME",
//	    Items:    []folio.Item{{Code: "P1", Quantity: decimal.NewFromInt(2)}},
//	})
//
// Converting a quotation issues an invoice at the quoted prices:
//
//	inv, err := f.ConvertQuotation(ctx, q.Number)
//
// Invoices can also be created directly, or previewed first:
//
//	res, err := f.CreateInvoice(ctx, folio.InvoiceRequest{
//	    Items:       []folio.Item{{Code: "P1", Quantity: decimal.NewFromInt(1)}},
//	    PreviewOnly: true,
//	    Paper:       "thermal",
//	})
//	fmt.Println(res.Text)
//
// # Errors
//
// Every operation fails with a *folio.Error whose Kind is machine readable.
// errors.Is matches both the kind's sentinel and the underlying cause:
//
//	if errors.Is(err, folio.ErrInsufficientStock) {
//	    var fe *folio.Error
//	    errors.As(err, &fe)
//	    log.Printf("%s: %s available", fe.Product, fe.Available)
//	}
//
// Validation failures never mutate anything. Storage failures after stock was
// decremented are compensated before the error is returned.
//
// # Money
//
// Unit prices and quantities are decimals; amounts are integers in the
// currency's minor unit. Line subtotals and tax are rounded half away from
// zero; unit prices never are.
package folio
