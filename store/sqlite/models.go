package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xraph/grove"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/id"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

// ==================== Product models ====================

// Stock is stored in thousandths so the conditional decrement is plain
// integer arithmetic inside the UPDATE.
type productModel struct {
	grove.BaseModel `grove:"table:folio_products"`

	Code        string    `grove:"code,pk"`
	ID          string    `grove:"id"`
	Name        string    `grove:"name"`
	UnitPrice   string    `grove:"unit_price"`
	Unit        string    `grove:"unit"`
	StockMilli  int64     `grove:"stock_milli"`
	Description string    `grove:"description"`
	CreatedAt   time.Time `grove:"created_at"`
	UpdatedAt   time.Time `grove:"updated_at"`
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

// ==================== Quotation models ====================

type quotationModel struct {
	grove.BaseModel `grove:"table:folio_quotations"`

	Number        string     `grove:"number,pk"`
	ID            string     `grove:"id"`
	Customer      string     `grove:"customer"`
	Notes         string     `grove:"notes"`
	Items         string     `grove:"items"`
	Currency      string     `grove:"currency"`
	Subtotal      int64      `grove:"subtotal"`
	Total         int64      `grove:"total"`
	Status        string     `grove:"status"`
	InvoiceNumber string     `grove:"invoice_number"`
	InvoicedAt    *time.Time `grove:"invoiced_at"`
	CreatedAt     time.Time  `grove:"created_at"`
	UpdatedAt     time.Time  `grove:"updated_at"`
}

func toQuotationModel(q *quotation.Quotation) (*quotationModel, error) {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return nil, fmt.Errorf("quotation %s: encode items: %w", q.Number, err)
	}
	return &quotationModel{
		Number:        q.Number,
		ID:            q.ID.String(),
		Customer:      q.Customer,
		Notes:         q.Notes,
		Items:         string(items),
		Currency:      q.Total.Currency,
		Subtotal:      q.Subtotal.Amount,
		Total:         q.Total.Amount,
		Status:        string(q.Status),
		InvoiceNumber: q.InvoiceNumber,
		InvoicedAt:    q.InvoicedAt,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}, nil
}

func fromQuotationModel(m *quotationModel) (*quotation.Quotation, error) {
	qid, err := id.ParseOptional(m.ID, id.PrefixQuotation)
	if err != nil {
		return nil, fmt.Errorf("quotation %s: %w", m.Number, err)
	}
	items, err := decodeItems(m.Items)
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

	Number          string    `grove:"number,pk"`
	ID              string    `grove:"id"`
	Customer        string    `grove:"customer"`
	Notes           string    `grove:"notes"`
	Items           string    `grove:"items"`
	Currency        string    `grove:"currency"`
	Subtotal        int64     `grove:"subtotal"`
	TaxRate         string    `grove:"tax_rate"`
	TaxAmount       int64     `grove:"tax_amount"`
	Total           int64     `grove:"total"`
	SourceQuotation string    `grove:"source_quotation"`
	CreatedAt       time.Time `grove:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"`
}

func toInvoiceModel(inv *invoice.Invoice) (*invoiceModel, error) {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: encode items: %w", inv.Number, err)
	}
	return &invoiceModel{
		Number:          inv.Number,
		ID:              inv.ID.String(),
		Customer:        inv.Customer,
		Notes:           inv.Notes,
		Items:           string(items),
		Currency:        inv.Total.Currency,
		Subtotal:        inv.Subtotal.Amount,
		TaxRate:         inv.TaxRate.String(),
		TaxAmount:       inv.TaxAmount.Amount,
		Total:           inv.Total.Amount,
		SourceQuotation: inv.SourceQuotationNumber,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}, nil
}

func fromInvoiceModel(m *invoiceModel) (*invoice.Invoice, error) {
	iid, err := id.ParseOptional(m.ID, id.PrefixInvoice)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", m.Number, err)
	}
	items, err := decodeItems(m.Items)
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

	Kind       string    `grove:"kind,pk"`
	LastIssued int64     `grove:"last_issued"`
	UpdatedAt  time.Time `grove:"updated_at"`
}

// settingsModel is a single row (id = 1) holding the JSON document.
type settingsModel struct {
	grove.BaseModel `grove:"table:folio_settings"`

	ID        int       `grove:"id,pk"`
	Data      string    `grove:"data"`
	UpdatedAt time.Time `grove:"updated_at"`
}

func toSettingsModel(s *settings.Settings) (*settingsModel, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	return &settingsModel{ID: 1, Data: string(data), UpdatedAt: s.UpdatedAt}, nil
}

func fromSettingsModel(m *settingsModel) (*settings.Settings, error) {
	var s settings.Settings
	if err := json.Unmarshal([]byte(m.Data), &s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}

func decodeItems(raw string) ([]pricing.LineItem, error) {
	var items []pricing.LineItem
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}
