package folio

import (
	"context"

	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/settings"
)

// Settings returns the effective business settings.
func (f *Folio) Settings(ctx context.Context) (*settings.Settings, error) {
	s, err := f.settings.Current(ctx)
	if err != nil {
		return nil, classify("get settings", err)
	}
	return s, nil
}

// UpdateSettings validates and stores s, replacing the current settings.
// Unknown numbering placeholders are accepted and logged.
func (f *Folio) UpdateSettings(ctx context.Context, s *settings.Settings) (*settings.Settings, error) {
	const op = "update settings"

	updated := *s
	if err := validateSettings(&updated); err != nil {
		return nil, classify(op, err)
	}
	f.warnUnknownPlaceholders(numbering.KindInvoice, updated.InvoiceTemplate)
	f.warnUnknownPlaceholders(numbering.KindQuotation, updated.QuotationTemplate)

	old, err := f.settings.Current(ctx)
	if err != nil {
		return nil, classify(op, err)
	}

	updated.UpdatedAt = f.now()
	if err := f.store.SaveSettings(ctx, &updated); err != nil {
		return nil, classify(op, err)
	}

	f.plugins.EmitSettingsUpdated(ctx, old, &updated)
	f.logger.Info("settings updated",
		"invoice_prefix", updated.InvoicePrefix,
		"quotation_prefix", updated.QuotationPrefix,
		"apply_invoice_tax", updated.ApplyInvoiceTax,
	)
	return &updated, nil
}

func (f *Folio) warnUnknownPlaceholders(kind numbering.Kind, tmpl numbering.Template) {
	if unknown := tmpl.UnknownPlaceholders(); len(unknown) > 0 {
		f.logger.Warn("numbering template has unknown placeholders",
			"kind", string(kind),
			"template", string(tmpl),
			"placeholders", unknown,
		)
	}
}
