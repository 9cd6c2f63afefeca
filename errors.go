package folio

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/invoice"
	"github.com/xraph/folio/numbering"
	"github.com/xraph/folio/pricing"
	"github.com/xraph/folio/quotation"
	"github.com/xraph/folio/settings"
	"github.com/xraph/folio/types"
)

// Sentinel errors for common failure scenarios. Entity sentinels are owned
// by their packages and re-exported here so callers need only this one.
var (
	// General errors
	ErrNotFound      = errors.New("folio: not found")
	ErrAlreadyExists = errors.New("folio: already exists")
	ErrInvalidInput  = errors.New("folio: invalid input")
	ErrConfiguration = errors.New("folio: invalid configuration")
	ErrStorage       = errors.New("folio: storage failure")

	// Catalog errors
	ErrProductNotFound   = catalog.ErrNotFound
	ErrInsufficientStock = catalog.ErrInsufficientStock

	// Pricing errors
	ErrUnknownProduct  = pricing.ErrUnknownProduct
	ErrInvalidQuantity = pricing.ErrInvalidQuantity
	ErrEmptyDocument   = pricing.ErrNoItems

	// Document errors
	ErrQuotationNotFound = quotation.ErrNotFound
	ErrAlreadyInvoiced   = quotation.ErrAlreadyInvoiced
	ErrInvoiceNotFound   = invoice.ErrNotFound

	// Numbering errors
	ErrMissingSequence = numbering.ErrMissingSequence
	ErrUnknownKind     = numbering.ErrUnknownKind

	ErrSettingsNotFound = settings.ErrNotFound
)

// ErrorKind is the machine-readable class of an engine error.
type ErrorKind string

const (
	KindUnknownProduct    ErrorKind = "unknown_product"
	KindInvalidQuantity   ErrorKind = "invalid_quantity"
	KindInsufficientStock ErrorKind = "insufficient_stock"
	KindNotFound          ErrorKind = "not_found"
	KindAlreadyInvoiced   ErrorKind = "already_invoiced"
	KindConfiguration     ErrorKind = "configuration"
	KindStorage           ErrorKind = "storage"
	KindValidation        ErrorKind = "validation"
)

var kindSentinels = map[ErrorKind]error{
	KindUnknownProduct:    ErrUnknownProduct,
	KindInvalidQuantity:   ErrInvalidQuantity,
	KindInsufficientStock: ErrInsufficientStock,
	KindNotFound:          ErrNotFound,
	KindAlreadyInvoiced:   ErrAlreadyInvoiced,
	KindConfiguration:     ErrConfiguration,
	KindStorage:           ErrStorage,
	KindValidation:        ErrInvalidInput,
}

// Error is returned by every engine operation that fails. errors.Is
// matches both the wrapped cause and the sentinel of its Kind, so
// errors.Is(err, ErrInsufficientStock) and errors.Is(err, ErrNotFound)
// work regardless of which store produced the failure.
type Error struct {
	Kind ErrorKind
	Op   string

	// Product is set for unknown_product, invalid_quantity and
	// insufficient_stock.
	Product string
	// Document is the quotation or invoice number involved, if any.
	Document string

	// Available and Requested are set for insufficient_stock.
	Available decimal.Decimal
	Requested decimal.Decimal

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindInsufficientStock:
		return fmt.Sprintf("folio: %s: insufficient stock for %q: available %s, requested %s",
			e.Op, e.Product, e.Available, e.Requested)
	case KindUnknownProduct, KindInvalidQuantity:
		if e.Product != "" {
			return fmt.Sprintf("folio: %s: %s %q: %v", e.Op, e.Kind, e.Product, e.Err)
		}
	case KindNotFound, KindAlreadyInvoiced:
		if e.Document != "" {
			return fmt.Sprintf("folio: %s: %s: %v", e.Op, e.Document, e.Err)
		}
	}
	return fmt.Sprintf("folio: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("folio: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "folio: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("folio: %d errors occurred: %v", len(e.Errors), e.Errors[0])
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e MultiError) Unwrap() []error { return e.Errors }

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// classify wraps err as an *Error for op. Errors that are already classified
// pass through unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}

	e := &Error{Op: op, Err: err}
	var item *pricing.ItemError
	if errors.As(err, &item) {
		e.Product = item.Code
	}

	var ve ValidationError
	var me MultiError
	switch {
	case errors.Is(err, pricing.ErrUnknownProduct):
		e.Kind = KindUnknownProduct
	case errors.Is(err, pricing.ErrInvalidQuantity), errors.Is(err, pricing.ErrNoItems):
		e.Kind = KindInvalidQuantity
	case errors.Is(err, catalog.ErrInsufficientStock):
		e.Kind = KindInsufficientStock
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, quotation.ErrNotFound),
		errors.Is(err, invoice.ErrNotFound),
		errors.Is(err, ErrNotFound):
		e.Kind = KindNotFound
	case errors.Is(err, quotation.ErrAlreadyInvoiced):
		e.Kind = KindAlreadyInvoiced
	case errors.Is(err, numbering.ErrMissingSequence),
		errors.Is(err, numbering.ErrUnknownKind),
		errors.Is(err, ErrConfiguration):
		e.Kind = KindConfiguration
	case errors.As(err, &ve), errors.As(err, &me), errors.Is(err, ErrInvalidInput),
		errors.Is(err, types.ErrOutOfRange):
		e.Kind = KindValidation
	default:
		e.Kind = KindStorage
	}
	return e
}

// KindOf returns the kind of an engine error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrQuotationNotFound) ||
		errors.Is(err, ErrInvoiceNotFound)
}

// IsValidation returns true if the request was rejected before any mutation.
func IsValidation(err error) bool {
	switch KindOf(err) {
	case KindUnknownProduct, KindInvalidQuantity, KindInsufficientStock,
		KindAlreadyInvoiced, KindValidation:
		return true
	}
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return KindOf(err) == KindStorage || errors.Is(err, numbering.ErrCounter)
}
