package folio

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

// MaxUnitPrice is the largest accepted product price, in major units.
var MaxUnitPrice = decimal.New(1, 12)

// validateProduct normalizes p in place and reports every invalid field.
func validateProduct(p *catalog.Product) error {
	var errs MultiError

	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.TrimSpace(p.Name)
	p.Unit = strings.TrimSpace(p.Unit)
	if p.Unit == "" {
		p.Unit = catalog.DefaultUnit
	}

	if p.Code == "" {
		errs.Add(ValidationError{Field: "code", Message: "is required"})
	}
	if p.Name == "" {
		errs.Add(ValidationError{Field: "name", Message: "is required"})
	}
	if p.UnitPrice.IsNegative() {
		errs.Add(ValidationError{Field: "unit_price", Message: "must not be negative"})
	}
	if p.UnitPrice.GreaterThan(MaxUnitPrice) {
		errs.Add(ValidationError{Field: "unit_price", Message: "must not exceed " + MaxUnitPrice.String()})
	}
	if !types.ValidStock(p.Stock) {
		errs.Add(ValidationError{Field: "stock", Message: "must be non-negative, at most " + types.MaxQuantity.String() + ", with at most 3 decimal places"})
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// validateSettings normalizes s in place. Templates without a sequence
// placeholder are configuration errors; everything else is a validation error.
func validateSettings(s *settings.Settings) error {
	for _, tmpl := range []numbering.Template{s.InvoiceTemplate, s.QuotationTemplate} {
		if err := tmpl.Validate(); err != nil {
			return err
		}
	}

	var errs MultiError

	s.Currency = strings.ToLower(strings.TrimSpace(s.Currency))
	if s.Currency == "" {
		errs.Add(ValidationError{Field: "currency", Message: "is required"})
	}
	if s.DefaultTaxRate.IsNegative() {
		errs.Add(ValidationError{Field: "default_tax_rate", Message: "must not be negative"})
	}
	if s.DefaultTaxRate.GreaterThan(decimal.NewFromInt(100)) {
		errs.Add(ValidationError{Field: "default_tax_rate", Message: "must be a percentage no greater than 100"})
	}
	if s.LowStockThreshold.IsNegative() {
		errs.Add(ValidationError{Field: "low_stock_threshold", Message: "must not be negative"})
	}
	if s.LowStockThreshold.GreaterThan(types.MaxQuantity) {
		errs.Add(ValidationError{Field: "low_stock_threshold", Message: "must not exceed " + types.MaxQuantity.String()})
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
