package extension

import (
	"github.com/shopspring/decimal"

	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/settings"
)

// Config holds the Folio extension configuration.
// Fields can be set programmatically via Option functions or loaded from
// YAML configuration files (under "extensions.folio" or "folio" keys).
//
// The business fields seed the settings used until the first
// Folio.UpdateSettings call stores a record.
type Config struct {
	// DisableMigrate prevents auto-migration on start.
	DisableMigrate bool `json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// Currency is the ISO 4217 code documents are priced in (default: "usd").
	Currency string `json:"currency" mapstructure:"currency" yaml:"currency"`

	// InvoicePrefix and QuotationPrefix replace {prefix} in identifiers
	// (defaults: "FAC" and "COT").
	InvoicePrefix   string `json:"invoice_prefix" mapstructure:"invoice_prefix" yaml:"invoice_prefix"`
	QuotationPrefix string `json:"quotation_prefix" mapstructure:"quotation_prefix" yaml:"quotation_prefix"`

	// NumberTemplate is the identifier layout for both document kinds
	// (default: "{prefix}-{year}-{sequence:04d}").
	NumberTemplate string `json:"number_template" mapstructure:"number_template" yaml:"number_template"`

	// DefaultTaxRate is a percentage, 16 meaning 16% (default: 16).
	DefaultTaxRate float64 `json:"default_tax_rate" mapstructure:"default_tax_rate" yaml:"default_tax_rate"`

	// ApplyInvoiceTax enables DefaultTaxRate on invoices.
	ApplyInvoiceTax bool `json:"apply_invoice_tax" mapstructure:"apply_invoice_tax" yaml:"apply_invoice_tax"`

	// LowStockThreshold is the stock level at or below which a product is
	// reported as low (default: 5).
	LowStockThreshold float64 `json:"low_stock_threshold" mapstructure:"low_stock_threshold" yaml:"low_stock_threshold"`

	// CompanyName is printed at the top of rendered documents.
	CompanyName string `json:"company_name" mapstructure:"company_name" yaml:"company_name"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	d := settings.Defaults()
	tax, _ := d.DefaultTaxRate.Float64()
	low, _ := d.LowStockThreshold.Float64()
	return Config{
		Currency:          d.Currency,
		InvoicePrefix:     d.InvoicePrefix,
		QuotationPrefix:   d.QuotationPrefix,
		NumberTemplate:    string(numbering.DefaultTemplate),
		DefaultTaxRate:    tax,
		LowStockThreshold: low,
		CompanyName:       d.Company.Name,
	}
}

// Settings converts the configuration into default business settings.
func (c Config) Settings() settings.Settings {
	s := settings.Defaults()
	s.Currency = c.Currency
	s.InvoicePrefix = c.InvoicePrefix
	s.QuotationPrefix = c.QuotationPrefix
	s.InvoiceTemplate = numbering.Template(c.NumberTemplate)
	s.QuotationTemplate = numbering.Template(c.NumberTemplate)
	s.DefaultTaxRate = decimal.NewFromFloat(c.DefaultTaxRate)
	s.ApplyInvoiceTax = c.ApplyInvoiceTax
	s.LowStockThreshold = decimal.NewFromFloat(c.LowStockThreshold)
	s.Company.Name = c.CompanyName
	return s
}
