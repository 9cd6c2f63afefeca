// Package settings holds business configuration: numbering layout per
// document kind, tax behavior, currency and company metadata.
package settings

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/numbering"
)

var ErrNotFound = errors.New("folio: settings not found")

type Settings struct {
	InvoicePrefix     string             `json:"invoice_prefix"`
	InvoiceTemplate   numbering.Template `json:"invoice_template"`
	QuotationPrefix   string             `json:"quotation_prefix"`
	QuotationTemplate numbering.Template `json:"quotation_template"`

	// DefaultTaxRate is a percentage, 16 meaning 16%.
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"`

	// ApplyInvoiceTax enables DefaultTaxRate on invoices. Quotations are
	// always totaled without tax.
	ApplyInvoiceTax bool `json:"apply_invoice_tax"`

	Currency          string          `json:"currency"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Company           Company         `json:"company"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Company is the issuer shown on rendered documents.
type Company struct {
	SystemName string `json:"system_name"`
	Name       string `json:"name"`
	Address    string `json:"address,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
	TaxID      string `json:"tax_id,omitempty"`
	Color      string `json:"color,omitempty"`
	Signature  string `json:"signature,omitempty"`
	LogoRef    string `json:"logo_ref,omitempty"`
}

// Defaults returns the settings used before anything is stored.
func Defaults() Settings {
	return Settings{
		InvoicePrefix:     "FAC",
		InvoiceTemplate:   numbering.DefaultTemplate,
		QuotationPrefix:   "COT",
		QuotationTemplate: numbering.DefaultTemplate,
		DefaultTaxRate:    decimal.NewFromInt(16),
		ApplyInvoiceTax:   false,
		Currency:          "usd",
		LowStockThreshold: decimal.NewFromInt(5),
		Company: Company{
			SystemName: "Sistema de Facturación",
			Name:       "Mi Empresa",
			Color:      "#2c3e50",
		},
	}
}

// Numbering returns the prefix and template configured for kind.
func (s *Settings) Numbering(kind numbering.Kind) (string, numbering.Template, error) {
	switch kind {
	case numbering.KindInvoice:
		return s.InvoicePrefix, s.InvoiceTemplate, nil
	case numbering.KindQuotation:
		return s.QuotationPrefix, s.QuotationTemplate, nil
	default:
		return "", "", numbering.ErrUnknownKind
	}
}

// InvoiceTaxRate is the rate applied to invoices: DefaultTaxRate when
// ApplyInvoiceTax is on, zero otherwise.
func (s *Settings) InvoiceTaxRate() decimal.Decimal {
	if !s.ApplyInvoiceTax {
		return decimal.Zero
	}
	return s.DefaultTaxRate
}
