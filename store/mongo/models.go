package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xraph/grove"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

// ==================== Product models ====================

type productModel struct {
	grove.BaseModel `grove:"table:folio_products"`

	Code        string    `grove:"code,pk"      bson:"_id"`
	ID          string    `grove:"id"           bson:"id"`
	Name        string    `grove:"name"         bson:"name"`
	UnitPrice   string    `grove:"unit_price"   bson:"unit_price"`
	Unit        string    `grove:"unit"         bson:"unit"`
	StockMilli  int64     `grove:"stock_milli"  bson:"stock_milli"`
	Description string    `grove:"description"  bson:"description"`
	CreatedAt   time.Time `grove:"created_at"   bson:"created_at"`
	UpdatedAt   time.Time `grove:"updated_at"   bson:"updated_at"`
}

func toProductModel(p *catalog.Product) (*productModel, error) {
	stock, err := types.ToMilli(p.Stock)
	if err != nil {
		return nil, fmt.Errorf("product %s: stock: %w", p.Code, err)
	}
	return &productModel{
		Code:        p.Code,
		ID:          p.ID.String(),
		Name:        p.Name,
		UnitPrice:   p.UnitPrice.String(),
		Unit:        p.Unit,
		StockMilli:  stock,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func fromProductModel(m *productModel) (*catalog.Product, error) {
	pid, err := id.ParseOptional(m.ID, id.PrefixProduct)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", m.Code, err)
	}
	price, err := decimal.NewFromString(m.UnitPrice)
	if err != nil {
		return nil, fmt.Errorf("product %s: unit price: %w", m.Code, err)
	}
	return &catalog.Product{
		Entity:      types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:          pid,
		Code:        m.Code,
		Name:        m.Name,
		UnitPrice:   price,
		Unit:        m.Unit,
		Stock:       types.FromMilli(m.StockMilli),
		Description: m.Description,
	}, nil
}

// ==================== Line item models ====================

type lineItemModel struct {
	ID          string `bson:"id"`
	ProductCode string `bson:"product_code"`
	ProductName string `bson:"product_name"`
	Unit        string `bson:"unit"`
	Quantity    string `bson:"quantity"`
	UnitPrice   string `bson:"unit_price"`
	Subtotal    int64  `bson:"subtotal"`
}

func toLineItemModels(items []pricing.LineItem) []lineItemModel {
	out := make([]lineItemModel, len(items))
	for i, it := range items {
		out[i] = lineItemModel{
			ID:          it.ID.String(),
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			Unit:        it.Unit,
			Quantity:    it.Quantity.String(),
			UnitPrice:   it.UnitPrice.String(),
			Subtotal:    it.Subtotal.Amount,
		}
	}
	return out
}

func fromLineItemModels(models []lineItemModel, currency string) ([]pricing.LineItem, error) {
	out := make([]pricing.LineItem, len(models))
	for i, m := range models {
		lid, err := id.ParseOptional(m.ID, id.PrefixLineItem)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		qty, err := decimal.NewFromString(m.Quantity)
		if err != nil {
			return nil, fmt.Errorf("line %d: quantity: %w", i+1, err)
		}
		price, err := decimal.NewFromString(m.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("line %d: unit price: %w", i+1, err)
		}
		out[i] = pricing.LineItem{
			ID:          lid,
			ProductCode: m.ProductCode,
			ProductName: m.ProductName,
			Unit:        m.Unit,
			Quantity:    qty,
			UnitPrice:   price,
			Subtotal:    types.Money{Amount: m.Subtotal, Currency: currency},
		}
	}
	return out, nil
}

// ==================== Quotation models ====================

type quotationModel struct {
	grove.BaseModel `grove:"table:folio_quotations"`

	Number        string          `grove:"number,pk"       bson:"_id"`
	ID            string          `grove:"id"              bson:"id"`
	Customer      string          `grove:"customer"        bson:"customer"`
	Notes         string          `grove:"notes"           bson:"notes"`
	Items         []lineItemModel `grove:"items"           bson:"items"`
	Currency      string          `grove:"currency"        bson:"currency"`
	Subtotal      int64           `grove:"subtotal"        bson:"subtotal"`
	Total         int64           `grove:"total"           bson:"total"`
	Status        string          `grove:"status"          bson:"status"`
	InvoiceNumber string          `grove:"invoice_number"  bson:"invoice_number"`
	InvoicedAt    *time.Time      `grove:"invoiced_at"     bson:"invoiced_at,omitempty"`
	CreatedAt     time.Time       `grove:"created_at"      bson:"created_at"`
	UpdatedAt     time.Time       `grove:"updated_at"      bson:"updated_at"`
}

func toQuotationModel(q *quotation.Quotation) *quotationModel {
	return &quotationModel{
		Number:        q.Number,
		ID:            q.ID.String(),
		Customer:      q.Customer,
		Notes:         q.Notes,
		Items:         toLineItemModels(q.Items),
		Currency:      q.Total.Currency,
		Subtotal:      q.Subtotal.Amount,
		Total:         q.Total.Amount,
		Status:        string(q.Status),
		InvoiceNumber: q.InvoiceNumber,
		InvoicedAt:    q.InvoicedAt,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

func fromQuotationModel(m *quotationModel) (*quotation.Quotation, error) {
	qid, err := id.ParseOptional(m.ID, id.PrefixQuotation)
	if err != nil {
		return nil, fmt.Errorf("quotation %s: %w", m.Number, err)
	}
	items, err := fromLineItemModels(m.Items, m.Currency)
	if err != nil {
		return nil, fmt.Errorf("quotation %s: %w", m.Number, err)
	}
	return &quotation.Quotation{
		Entity:        types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:            qid,
		Number:        m.Number,
		Customer:      m.Customer,
		Notes:         m.Notes,
		Items:         items,
		Subtotal:      types.Money{Amount: m.Subtotal, Currency: m.Currency},
		Total:         types.Money{Amount: m.Total, Currency: m.Currency},
		Status:        quotation.Status(m.Status),
		InvoiceNumber: m.InvoiceNumber,
		InvoicedAt:    m.InvoicedAt,
	}, nil
}

// ==================== Invoice models ====================

type invoiceModel struct {
	grove.BaseModel `grove:"table:folio_invoices"`

	Number          string          `grove:"number,pk"         bson:"_id"`
	ID              string          `grove:"id"                bson:"id"`
	Customer        string          `grove:"customer"          bson:"customer"`
	Notes           string          `grove:"notes"             bson:"notes"`
	Items           []lineItemModel `grove:"items"             bson:"items"`
	Currency        string          `grove:"currency"          bson:"currency"`
	Subtotal        int64           `grove:"subtotal"          bson:"subtotal"`
	TaxRate         string          `grove:"tax_rate"          bson:"tax_rate"`
	TaxAmount       int64           `grove:"tax_amount"        bson:"tax_amount"`
	Total           int64           `grove:"total"             bson:"total"`
	SourceQuotation string          `grove:"source_quotation"  bson:"source_quotation"`
	CreatedAt       time.Time       `grove:"created_at"        bson:"created_at"`
	UpdatedAt       time.Time       `grove:"updated_at"        bson:"updated_at"`
}

func toInvoiceModel(inv *invoice.Invoice) *invoiceModel {
	return &invoiceModel{
		Number:          inv.Number,
		ID:              inv.ID.String(),
		Customer:        inv.Customer,
		Notes:           inv.Notes,
		Items:           toLineItemModels(inv.Items),
		Currency:        inv.Total.Currency,
		Subtotal:        inv.Subtotal.Amount,
		TaxRate:         inv.TaxRate.String(),
		TaxAmount:       inv.TaxAmount.Amount,
		Total:           inv.Total.Amount,
		SourceQuotation: inv.SourceQuotationNumber,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
}

func fromInvoiceModel(m *invoiceModel) (*invoice.Invoice, error) {
	iid, err := id.ParseOptional(m.ID, id.PrefixInvoice)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", m.Number, err)
	}
	items, err := fromLineItemModels(m.Items, m.Currency)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", m.Number, err)
	}
	rate, err := decimal.NewFromString(m.TaxRate)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: tax rate: %w", m.Number, err)
	}
	return &invoice.Invoice{
		Entity:                types.Entity{CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ID:                    iid,
		Number:                m.Number,
		Customer:              m.Customer,
		Notes:                 m.Notes,
		Items:                 items,
		Subtotal:              types.Money{Amount: m.Subtotal, Currency: m.Currency},
		TaxRate:               rate,
		TaxAmount:             types.Money{Amount: m.TaxAmount, Currency: m.Currency},
		Total:                 types.Money{Amount: m.Total, Currency: m.Currency},
		SourceQuotationNumber: m.SourceQuotation,
	}, nil
}

// ==================== Numbering and settings models ====================

type counterModel struct {
	grove.BaseModel `grove:"table:folio_counters"`

	Kind       string    `grove:"kind,pk"      bson:"_id"`
	LastIssued int64     `grove:"last_issued"  bson:"last_issued"`
	UpdatedAt  time.Time `grove:"updated_at"   bson:"updated_at"`
}

type companyModel struct {
	SystemName string `bson:"system_name"`
	Name       string `bson:"name"`
	Address    string `bson:"address"`
	Phone      string `bson:"phone"`
	Email      string `bson:"email"`
	TaxID      string `bson:"tax_id"`
	Color      string `bson:"color"`
	Signature  string `bson:"signature"`
	LogoRef    string `bson:"logo_ref"`
}

type settingsModel struct {
	grove.BaseModel `grove:"table:folio_settings"`

	ID                string       `grove:"id,pk"                bson:"_id"`
	InvoicePrefix     string       `grove:"invoice_prefix"       bson:"invoice_prefix"`
	InvoiceTemplate   string       `grove:"invoice_template"     bson:"invoice_template"`
	QuotationPrefix   string       `grove:"quotation_prefix"     bson:"quotation_prefix"`
	QuotationTemplate string       `grove:"quotation_template"   bson:"quotation_template"`
	DefaultTaxRate    string       `grove:"default_tax_rate"     bson:"default_tax_rate"`
	ApplyInvoiceTax   bool         `grove:"apply_invoice_tax"    bson:"apply_invoice_tax"`
	Currency          string       `grove:"currency"             bson:"currency"`
	LowStockThreshold string       `grove:"low_stock_threshold"  bson:"low_stock_threshold"`
	Company           companyModel `grove:"company"              bson:"company"`
	UpdatedAt         time.Time    `grove:"updated_at"           bson:"updated_at"`
}

// settingsDocID is the fixed key of the single settings document.
const settingsDocID = "settings"

func toSettingsModel(s *settings.Settings) *settingsModel {
	return &settingsModel{
		ID:                settingsDocID,
		InvoicePrefix:     s.InvoicePrefix,
		InvoiceTemplate:   string(s.InvoiceTemplate),
		QuotationPrefix:   s.QuotationPrefix,
		QuotationTemplate: string(s.QuotationTemplate),
		DefaultTaxRate:    s.DefaultTaxRate.String(),
		ApplyInvoiceTax:   s.ApplyInvoiceTax,
		Currency:          s.Currency,
		LowStockThreshold: s.LowStockThreshold.String(),
		Company:           companyModel(s.Company),
		UpdatedAt:         s.UpdatedAt,
	}
}

func fromSettingsModel(m *settingsModel) (*settings.Settings, error) {
	rate, err := decimal.NewFromString(m.DefaultTaxRate)
	if err != nil {
		return nil, fmt.Errorf("settings: tax rate: %w", err)
	}
	threshold, err := decimal.NewFromString(m.LowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("settings: low stock threshold: %w", err)
	}
	return &settings.Settings{
		InvoicePrefix:     m.InvoicePrefix,
		InvoiceTemplate:   numbering.Template(m.InvoiceTemplate),
		QuotationPrefix:   m.QuotationPrefix,
		QuotationTemplate: numbering.Template(m.QuotationTemplate),
		DefaultTaxRate:    rate,
		ApplyInvoiceTax:   m.ApplyInvoiceTax,
		Currency:          m.Currency,
		LowStockThreshold: threshold,
		Company:           settings.Company(m.Company),
		UpdatedAt:         m.UpdatedAt,
	}, nil
}
