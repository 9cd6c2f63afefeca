package extension

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/numbering"
)

func TestMergeWithDefaults(t *testing.T) {
	cfg := mergeWithDefaults(Config{Currency: "mxn", DefaultTaxRate: 8})

	if cfg.Currency != "mxn" || cfg.DefaultTaxRate != 8 {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
	if cfg.InvoicePrefix != "FAC" || cfg.QuotationPrefix != "COT" {
		t.Errorf("prefixes = %q %q", cfg.InvoicePrefix, cfg.QuotationPrefix)
	}
	if cfg.NumberTemplate != string(numbering.DefaultTemplate) {
		t.Errorf("template = %q", cfg.NumberTemplate)
	}
	if cfg.LowStockThreshold != 5 {
		t.Errorf("threshold = %v", cfg.LowStockThreshold)
	}
}

func TestMergeConfigurations(t *testing.T) {
	tests := []struct {
		name         string
		yaml, code   Config
		wantCurrency string
		wantPrefix   string
		wantMigrate  bool
		wantTax      bool
	}{
		{
			name:         "yaml wins",
			yaml:         Config{Currency: "eur", InvoicePrefix: "F"},
			code:         Config{Currency: "mxn", InvoicePrefix: "X"},
			wantCurrency: "eur",
			wantPrefix:   "F",
		},
		{
			name:         "code fills gaps",
			yaml:         Config{},
			code:         Config{Currency: "mxn"},
			wantCurrency: "mxn",
			wantPrefix:   "FAC",
		},
		{
			name:         "code flags override",
			yaml:         Config{},
			code:         Config{DisableMigrate: true, ApplyInvoiceTax: true},
			wantCurrency: "usd",
			wantPrefix:   "FAC",
			wantMigrate:  true,
			wantTax:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeConfigurations(tt.yaml, tt.code)
			if got.Currency != tt.wantCurrency || got.InvoicePrefix != tt.wantPrefix {
				t.Errorf("currency %q prefix %q", got.Currency, got.InvoicePrefix)
			}
			if got.DisableMigrate != tt.wantMigrate || got.ApplyInvoiceTax != tt.wantTax {
				t.Errorf("flags: migrate %v tax %v", got.DisableMigrate, got.ApplyInvoiceTax)
			}
		})
	}
}

func TestConfigSettings(t *testing.T) {
	cfg := mergeWithDefaults(Config{
		Currency:        "mxn",
		NumberTemplate:  "{prefix}{sequence:06d}",
		ApplyInvoiceTax: true,
	})
	s := cfg.Settings()

	if s.Currency != "mxn" || !s.ApplyInvoiceTax {
		t.Errorf("settings = %+v", s)
	}
	if s.InvoiceTemplate != "{prefix}{sequence:06d}" || s.QuotationTemplate != s.InvoiceTemplate {
		t.Errorf("templates = %q %q", s.InvoiceTemplate, s.QuotationTemplate)
	}
	if !s.DefaultTaxRate.Equal(decimal.NewFromInt(16)) {
		t.Errorf("tax rate = %s", s.DefaultTaxRate)
	}
	if !s.InvoiceTaxRate().Equal(decimal.NewFromInt(16)) {
		t.Errorf("invoice tax rate = %s", s.InvoiceTaxRate())
	}
}

func TestOptions(t *testing.T) {
	e := New(WithCurrency("eur"), WithInvoiceTax(8), WithDisableMigrate(), WithNumberTemplate("{sequence}"))

	if e.config.Currency != "eur" || e.config.DefaultTaxRate != 8 || !e.config.ApplyInvoiceTax {
		t.Errorf("config = %+v", e.config)
	}
	if !e.config.DisableMigrate || e.config.NumberTemplate != "{sequence}" {
		t.Errorf("config = %+v", e.config)
	}
	if e.Engine() != nil {
		t.Error("engine built before Register")
	}
}
