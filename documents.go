package folio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/render"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

// DefaultCustomer is recorded when a request names no customer.
const DefaultCustomer = "Cliente General"

// QuotationRequest asks for a new quotation.
type QuotationRequest struct {
	Customer string
	Notes    string
	Items    []pricing.Request
}

// InvoiceRequest asks for a new invoice, or a preview of one.
type InvoiceRequest struct {
	Customer string
	Notes    string
	Items    []pricing.Request

	// PreviewOnly computes and renders the invoice without issuing a
	// number, touching stock or persisting anything.
	PreviewOnly bool

	// SourceQuotationNumber marks that pending quotation as invoiced
	// together with the new invoice.
	SourceQuotationNumber string

	// Paper selects the preview layout; empty means render.PaperNormal.
	Paper string
}

// InvoiceResult is the outcome of CreateInvoice.
type InvoiceResult struct {
	Invoice *invoice.Invoice
	Preview bool
	// Text is the rendered preview; empty for issued invoices.
	Text string
}

// ──────────────────────────────────────────────────
// Quotations
// ──────────────────────────────────────────────────

// CreateQuotation prices the requested items at current catalog prices and
// stores a pending quotation. Stock is not checked or reserved.
func (f *Folio) CreateQuotation(ctx context.Context, req QuotationRequest) (*quotation.Quotation, error) {
	const op = "create quotation"

	st, err := f.settings.Current(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	items, err := pricing.NewCalculator(f.store, st.Currency).Resolve(ctx, req.Items)
	if err != nil {
		return nil, classify(op, err)
	}
	totals := pricing.ComputeTotals(items, decimal.Zero, st.Currency)

	number, err := f.numbers.Issue(ctx, numbering.KindQuotation)
	if err != nil {
		return nil, f.fail(ctx, numbering.KindQuotation, op, err)
	}
	f.plugins.EmitNumberIssued(ctx, numbering.KindQuotation, number)

	q := &quotation.Quotation{
		Entity:   types.NewEntityAt(f.now()),
		ID:       id.NewQuotationID(),
		Number:   number,
		Customer: customerOrDefault(req.Customer),
		Notes:    strings.TrimSpace(req.Notes),
		Items:    items,
		Subtotal: totals.Subtotal,
		Total:    totals.Total,
		Status:   quotation.StatusPending,
	}

	if err := f.store.CreateQuotation(ctx, q); err != nil {
		f.logger.Warn("quotation number issued but not stored",
			"number", number,
			"error", err,
		)
		return nil, f.fail(ctx, numbering.KindQuotation, op, err)
	}

	f.plugins.EmitQuotationCreated(ctx, q)
	f.logger.Info("quotation created",
		"number", q.Number,
		"customer", q.Customer,
		"total", q.Total.String(),
	)
	return q, nil
}

// GetQuotation retrieves a quotation by number.
func (f *Folio) GetQuotation(ctx context.Context, number string) (*quotation.Quotation, error) {
	q, err := f.store.GetQuotation(ctx, number)
	if err != nil {
		return nil, classifyDocument("get quotation", number, err)
	}
	return q, nil
}

// ListQuotations lists quotations, newest first.
func (f *Folio) ListQuotations(ctx context.Context, opts quotation.ListOpts) ([]*quotation.Quotation, error) {
	qs, err := f.store.ListQuotations(ctx, opts)
	if err != nil {
		return nil, classify("list quotations", err)
	}
	return qs, nil
}

// ConvertQuotation issues an invoice from a pending quotation using the
// quotation's captured prices, then marks the quotation invoiced. Stock is
// checked against current levels and decremented.
func (f *Folio) ConvertQuotation(ctx context.Context, number string) (*invoice.Invoice, error) {
	const op = "convert quotation"

	q, err := f.pendingQuotation(ctx, op, number)
	if err != nil {
		return nil, err
	}
	st, err := f.settings.Current(ctx)
	if err != nil {
		return nil, classify(op, err)
	}

	items := make([]pricing.LineItem, len(q.Items))
	for i, it := range q.Items {
		it.ID = id.NewLineItemID()
		items[i] = it
	}
	notes := strings.TrimSpace(fmt.Sprintf("Basado en cotización %s. %s", q.Number, q.Notes))
	inv := f.newInvoice(st, q.Total.Currency, q.Customer, notes, items, q.Number)

	if err := f.checkStock(ctx, op, inv.Items); err != nil {
		return nil, err
	}
	if err := f.issue(ctx, op, inv); err != nil {
		return nil, err
	}

	converted := q.Clone()
	converted.Status = quotation.StatusInvoiced
	converted.InvoiceNumber = inv.Number
	invoicedAt := inv.CreatedAt
	converted.InvoicedAt = &invoicedAt

	f.plugins.EmitInvoiceIssued(ctx, inv)
	f.plugins.EmitQuotationConverted(ctx, converted, inv)
	f.notifyLowStock(ctx, st, inv.Items)

	f.logger.Info("quotation converted",
		"quotation", q.Number,
		"invoice", inv.Number,
		"total", inv.Total.String(),
	)
	return inv, nil
}

// ──────────────────────────────────────────────────
// Invoices
// ──────────────────────────────────────────────────

// CreateInvoice validates the request against the catalog and stock and
// either returns a rendered preview or issues and stores the invoice.
func (f *Folio) CreateInvoice(ctx context.Context, req InvoiceRequest) (*InvoiceResult, error) {
	const op = "create invoice"

	paper, err := render.PaperByName(req.Paper)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Op: op, Err: err}
	}
	st, err := f.settings.Current(ctx)
	if err != nil {
		return nil, classify(op, err)
	}
	items, err := pricing.NewCalculator(f.store, st.Currency).Resolve(ctx, req.Items)
	if err != nil {
		return nil, classify(op, err)
	}
	if err := f.checkStock(ctx, op, items); err != nil {
		return nil, err
	}
	source := strings.TrimSpace(req.SourceQuotationNumber)
	if source != "" {
		if _, err := f.pendingQuotation(ctx, op, source); err != nil {
			return nil, err
		}
	}

	inv := f.newInvoice(st, st.Currency, req.Customer, strings.TrimSpace(req.Notes), items, source)

	if req.PreviewOnly {
		return f.previewInvoice(ctx, op, st, inv, paper)
	}

	if err := f.issue(ctx, op, inv); err != nil {
		return nil, err
	}

	f.plugins.EmitInvoiceIssued(ctx, inv)
	f.notifyLowStock(ctx, st, inv.Items)

	f.logger.Info("invoice issued",
		"number", inv.Number,
		"customer", inv.Customer,
		"total", inv.Total.String(),
		"source_quotation", inv.SourceQuotationNumber,
	)
	return &InvoiceResult{Invoice: inv}, nil
}

// GetInvoice retrieves an invoice by number.
func (f *Folio) GetInvoice(ctx context.Context, number string) (*invoice.Invoice, error) {
	inv, err := f.store.GetInvoice(ctx, number)
	if err != nil {
		return nil, classifyDocument("get invoice", number, err)
	}
	return inv, nil
}

// ListInvoices lists invoices, newest first.
func (f *Folio) ListInvoices(ctx context.Context, opts invoice.ListOpts) ([]*invoice.Invoice, error) {
	invs, err := f.store.ListInvoices(ctx, opts)
	if err != nil {
		return nil, classify("list invoices", err)
	}
	return invs, nil
}

// PeekNextNumber returns the identifier the next document of kind would get.
// Nothing is reserved.
func (f *Folio) PeekNextNumber(ctx context.Context, kind numbering.Kind) (string, error) {
	n, err := f.numbers.PeekNext(ctx, kind)
	if err != nil {
		return "", classify("peek number", err)
	}
	return n, nil
}

// NumberingState returns the prefix, template and last issued value for kind.
func (f *Folio) NumberingState(ctx context.Context, kind numbering.Kind) (*numbering.State, error) {
	s, err := f.numbers.State(ctx, kind)
	if err != nil {
		return nil, classify("numbering state", err)
	}
	return s, nil
}

// ──────────────────────────────────────────────────
// Issuance
// ──────────────────────────────────────────────────

func (f *Folio) newInvoice(st *settings.Settings, currency, customer, notes string, items []pricing.LineItem, source string) *invoice.Invoice {
	totals := pricing.ComputeTotals(items, st.InvoiceTaxRate(), currency)
	return &invoice.Invoice{
		Entity:                types.NewEntityAt(f.now()),
		ID:                    id.NewInvoiceID(),
		Customer:              customerOrDefault(customer),
		Notes:                 notes,
		Items:                 items,
		Subtotal:              totals.Subtotal,
		TaxRate:               totals.TaxRate,
		TaxAmount:             totals.TaxAmount,
		Total:                 totals.Total,
		SourceQuotationNumber: source,
	}
}

func (f *Folio) previewInvoice(ctx context.Context, op string, st *settings.Settings, inv *invoice.Invoice, paper render.Paper) (*InvoiceResult, error) {
	number, err := f.numbers.PeekNext(ctx, numbering.KindInvoice)
	if err != nil {
		return nil, classify(op, err)
	}
	inv.Number = number

	doc := invoiceDocument(inv, st.Company)
	doc.Preview = true

	f.logger.Debug("invoice preview",
		"number", number,
		"customer", inv.Customer,
		"total", inv.Total.String(),
	)
	return &InvoiceResult{Invoice: inv, Preview: true, Text: render.Text(doc, paper)}, nil
}

// issue performs the mutating part of invoicing under the product and
// quotation locks: decrement stock, issue the number, store the invoice and
// mark the source quotation. A failing step undoes the steps before it.
func (f *Folio) issue(ctx context.Context, op string, inv *invoice.Invoice) error {
	demands := pricing.Aggregate(inv.Items)
	source := inv.SourceQuotationNumber

	keys := make([]string, 0, len(demands)+1)
	for _, d := range demands {
		keys = append(keys, productKey(d.Code))
	}
	if source != "" {
		keys = append(keys, quotationKey(source))
	}
	unlock := f.locks.Lock(keys...)
	defer unlock()

	if err := f.checkStock(ctx, op, inv.Items); err != nil {
		return err
	}
	if source != "" {
		if _, err := f.pendingQuotation(ctx, op, source); err != nil {
			return err
		}
	}

	taken := make([]pricing.Demand, 0, len(demands))
	for _, d := range demands {
		if err := f.store.TryDecrementStock(ctx, d.Code, d.Quantity); err != nil {
			if errors.Is(err, ErrInsufficientStock) {
				err = f.insufficientStock(ctx, op, d)
			}
			return f.compensate(ctx, op, err, taken, "")
		}
		taken = append(taken, d)
	}

	number, err := f.numbers.Issue(ctx, numbering.KindInvoice)
	if err != nil {
		return f.compensate(ctx, op, err, taken, "")
	}
	inv.Number = number
	f.plugins.EmitNumberIssued(ctx, numbering.KindInvoice, number)

	if err := f.store.CreateInvoice(ctx, inv); err != nil {
		f.logger.Warn("invoice number issued but not stored",
			"number", number,
			"error", err,
		)
		return f.compensate(ctx, op, err, taken, "")
	}

	if source != "" {
		if err := f.store.MarkQuotationInvoiced(ctx, source, number, inv.CreatedAt); err != nil {
			return f.compensate(ctx, op, err, taken, number)
		}
	}
	return nil
}

// compensate undoes a partially applied issue: it deletes the stored invoice
// when written is set and gives back every decremented quantity. Failures
// while undoing are logged and joined to the returned error.
func (f *Folio) compensate(ctx context.Context, op string, cause error, taken []pricing.Demand, written string) error {
	ctx = context.WithoutCancel(ctx)
	errs := []error{f.fail(ctx, numbering.KindInvoice, op, cause)}

	if written != "" {
		if err := f.store.DeleteInvoice(ctx, written); err != nil {
			f.logger.Error("compensation failed: invoice not removed",
				"op", op,
				"number", written,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("folio: remove invoice %s: %w", written, err))
		}
	}

	for i := len(taken) - 1; i >= 0; i-- {
		d := taken[i]
		if err := f.store.IncrementStock(ctx, d.Code, d.Quantity); err != nil {
			f.logger.Error("compensation failed: stock not restored",
				"op", op,
				"product", d.Code,
				"quantity", d.Quantity.String(),
				"error", err,
			)
			errs = append(errs, fmt.Errorf("folio: restore stock of %s: %w", d.Code, err))
		}
	}

	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// checkStock verifies that current stock covers the summed quantity of every
// product in items.
func (f *Folio) checkStock(ctx context.Context, op string, items []pricing.LineItem) error {
	for _, d := range pricing.Aggregate(items) {
		p, err := f.store.GetProduct(ctx, d.Code)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return &Error{Kind: KindUnknownProduct, Op: op, Product: d.Code, Err: ErrUnknownProduct}
			}
			return classify(op, err)
		}
		if p.Stock.LessThan(d.Quantity) {
			return &Error{
				Kind:      KindInsufficientStock,
				Op:        op,
				Product:   d.Code,
				Available: p.Stock,
				Requested: d.Quantity,
				Err:       ErrInsufficientStock,
			}
		}
	}
	return nil
}

// insufficientStock builds the error for a decrement the store refused,
// reading the level that beat us to it.
func (f *Folio) insufficientStock(ctx context.Context, op string, d pricing.Demand) error {
	e := &Error{
		Kind:      KindInsufficientStock,
		Op:        op,
		Product:   d.Code,
		Available: decimal.Zero,
		Requested: d.Quantity,
		Err:       ErrInsufficientStock,
	}
	if p, err := f.store.GetProduct(ctx, d.Code); err == nil {
		e.Available = p.Stock
	}
	return e
}

// pendingQuotation loads number and checks that it can still be invoiced.
func (f *Folio) pendingQuotation(ctx context.Context, op, number string) (*quotation.Quotation, error) {
	q, err := f.store.GetQuotation(ctx, number)
	if err != nil {
		return nil, classifyDocument(op, number, err)
	}
	if !q.Status.CanTransitionTo(quotation.StatusInvoiced) {
		return nil, &Error{Kind: KindAlreadyInvoiced, Op: op, Document: number, Err: ErrAlreadyInvoiced}
	}
	return q, nil
}

// notifyLowStock tells plugins about products the invoice left at or below
// the configured threshold.
func (f *Folio) notifyLowStock(ctx context.Context, st *settings.Settings, items []pricing.LineItem) {
	for _, d := range pricing.Aggregate(items) {
		p, err := f.store.GetProduct(ctx, d.Code)
		if err != nil {
			f.logger.Warn("low stock check failed", "product", d.Code, "error", err)
			continue
		}
		if p.IsLowStock(st.LowStockThreshold) {
			f.plugins.EmitStockLow(ctx, p, st.LowStockThreshold)
		}
	}
}

func customerOrDefault(customer string) string {
	if c := strings.TrimSpace(customer); c != "" {
		return c
	}
	return DefaultCustomer
}

// classifyDocument classifies err and records the document number it
// concerns.
func classifyDocument(op, number string, err error) error {
	e := classify(op, err)
	var fe *Error
	if errors.As(e, &fe) && fe.Document == "" {
		fe.Document = number
	}
	return e
}
