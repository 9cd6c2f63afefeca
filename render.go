package folio

import (
	"context"
	"fmt"
	"io"

	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/render"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

// FormatText is the built-in export format handled by render.Text.
const FormatText = "text"

// RenderInvoice renders a stored invoice as plain text on the named paper.
func (f *Folio) RenderInvoice(ctx context.Context, number, paperName string) (string, error) {
	const op = "render invoice"

	doc, paper, err := f.invoiceForRender(ctx, op, number, paperName)
	if err != nil {
		return "", err
	}
	return render.Text(doc, paper), nil
}

// RenderQuotation renders a stored quotation as plain text on the named paper.
func (f *Folio) RenderQuotation(ctx context.Context, number, paperName string) (string, error) {
	const op = "render quotation"

	paper, err := render.PaperByName(paperName)
	if err != nil {
		return "", &Error{Kind: KindValidation, Op: op, Err: err}
	}
	q, err := f.store.GetQuotation(ctx, number)
	if err != nil {
		return "", classifyDocument(op, number, err)
	}
	st, err := f.settings.Current(ctx)
	if err != nil {
		return "", classify(op, err)
	}
	return render.Text(quotationDocument(q, st.Company), paper), nil
}

// ExportInvoice writes a stored invoice to w in format. "text" is always
// available; other formats come from registered DocumentFormatter plugins.
func (f *Folio) ExportInvoice(ctx context.Context, number, format, paperName string, w io.Writer) error {
	const op = "export invoice"

	doc, paper, err := f.invoiceForRender(ctx, op, number, paperName)
	if err != nil {
		return err
	}

	if format == "" || format == FormatText {
		if _, err := io.WriteString(w, render.Text(doc, paper)); err != nil {
			return classify(op, err)
		}
		return nil
	}

	fm := f.plugins.Formatter(format)
	if fm == nil {
		return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf("%w: no formatter for %q", ErrInvalidInput, format)}
	}
	if err := fm.Render(ctx, doc, paper, w); err != nil {
		return classifyDocument(op, number, err)
	}
	return nil
}

func (f *Folio) invoiceForRender(ctx context.Context, op, number, paperName string) (render.Document, render.Paper, error) {
	paper, err := render.PaperByName(paperName)
	if err != nil {
		return render.Document{}, render.Paper{}, &Error{Kind: KindValidation, Op: op, Err: err}
	}
	inv, err := f.store.GetInvoice(ctx, number)
	if err != nil {
		return render.Document{}, render.Paper{}, classifyDocument(op, number, err)
	}
	st, err := f.settings.Current(ctx)
	if err != nil {
		return render.Document{}, render.Paper{}, classify(op, err)
	}
	return invoiceDocument(inv, st.Company), paper, nil
}

func invoiceDocument(inv *invoice.Invoice, company settings.Company) render.Document {
	return render.Document{
		Title:    render.TitleInvoice,
		Number:   inv.Number,
		Date:     inv.CreatedAt,
		Customer: inv.Customer,
		Items:    inv.Items,
		Totals:   inv.Totals(),
		Notes:    inv.Notes,
		Company:  company,
	}
}

func quotationDocument(q *quotation.Quotation, company settings.Company) render.Document {
	return render.Document{
		Title:    render.TitleQuotation,
		Number:   q.Number,
		Date:     q.CreatedAt,
		Customer: q.Customer,
		Items:    q.Items,
		Totals: pricing.Totals{
			Subtotal:  q.Subtotal,
			TaxAmount: types.Zero(q.Total.Currency),
			Total:     q.Total,
		},
		Notes:   q.Notes,
		Company: company,
	}
}
