package audithook

// Action constants for audit events.
const (
	// Catalog actions
	ActionProductSaved   = "product.saved"
	ActionProductDeleted = "product.deleted"
	ActionStockLow       = "product.stock_low"

	// Document actions
	ActionQuotationCreated   = "quotation.created"
	ActionQuotationConverted = "quotation.converted"
	ActionInvoiceIssued      = "invoice.issued"
	ActionDocumentFailed     = "document.failed"

	// Numbering and configuration actions
	ActionNumberIssued    = "number.issued"
	ActionSettingsUpdated = "settings.updated"
)

// Resource constants for audit events.
const (
	ResourceProduct   = "product"
	ResourceQuotation = "quotation"
	ResourceInvoice   = "invoice"
	ResourceNumber    = "number"
	ResourceSettings  = "settings"
)

// Category constants for audit events.
const (
	CategoryCatalog       = "catalog"
	CategoryBilling       = "billing"
	CategoryInventory     = "inventory"
	CategoryConfiguration = "configuration"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
