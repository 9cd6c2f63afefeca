// Package types provides common value types used across Folio.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value in the smallest currency unit.
// Document amounts are stored as integers; decimal arithmetic happens
// before conversion and every conversion rounds half away from zero.
//
// Examples:
//   - MXN(2000) = $20.00 (2000 centavos)
//   - USD(4900) = $49.00 (4900 cents)
type Money struct {
	Amount   int64  `json:"amount"`   // Smallest unit (cents, centavos, ...)
	Currency string `json:"currency"` // ISO 4217 lowercase: "mxn", "usd", "eur"
}

// MXN creates a Money value in Mexican pesos (centavos).
func MXN(centavos int64) Money { return Money{Amount: centavos, Currency: "mxn"} }

// USD creates a Money value in US Dollars (cents).
func USD(cents int64) Money { return Money{Amount: cents, Currency: "usd"} }

// EUR creates a Money value in Euros (cents).
func EUR(cents int64) Money { return Money{Amount: cents, Currency: "eur"} }

// Zero returns a zero Money value in the specified currency.
func Zero(currency string) Money { return Money{Amount: 0, Currency: strings.ToLower(currency)} }

// ErrOutOfRange is returned when a value does not fit the integer
// representation used for storage.
var ErrOutOfRange = errors.New("folio: value out of range")

// MaxAmount is the largest line or document subtotal, in minor units, the
// engine accepts.
const MaxAmount int64 = 1e15

var (
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
	minInt64 = decimal.NewFromInt(math.MinInt64)
)

// NewMoney converts a decimal amount in major units to Money, rounding to
// the currency's minor unit with half-away-from-zero rounding. It fails with
// ErrOutOfRange when the result does not fit in int64.
func NewMoney(d decimal.Decimal, currency string) (Money, error) {
	places := int32(currencyDecimals(currency))
	minor := d.Round(places).Shift(places)
	if minor.GreaterThan(maxInt64) || minor.LessThan(minInt64) {
		return Money{}, fmt.Errorf("%w: %s %s", ErrOutOfRange, d, currency)
	}
	return Money{Amount: minor.IntPart(), Currency: strings.ToLower(currency)}, nil
}

// FromDecimal is NewMoney for amounts already known to be in range. It
// panics on overflow, like the currency checks below.
func FromDecimal(d decimal.Decimal, currency string) Money {
	m, err := NewMoney(d, currency)
	if err != nil {
		panic("money: " + err.Error())
	}
	return m
}

// AmountInRange reports whether d, in major units of currency, is within
// MaxAmount once rounded to the minor unit.
func AmountInRange(d decimal.Decimal, currency string) bool {
	places := int32(currencyDecimals(currency))
	return d.Round(places).Shift(places).Abs().LessThanOrEqual(decimal.NewFromInt(MaxAmount))
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Amount, -int32(currencyDecimals(m.Currency)))
}

// Add adds two Money values. Panics if currencies don't match.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Percent returns rate percent of m, rounded to the minor unit.
func (m Money) Percent(rate decimal.Decimal) Money {
	return FromDecimal(m.Decimal().Mul(rate).Div(decimal.NewFromInt(100)), m.Currency)
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// Equal returns true if both Money values are equal (same amount and currency).
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// LessThan returns true if this Money is less than other. Panics if currencies don't match.
func (m Money) LessThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount < other.Amount
}

// GreaterThan returns true if this Money is greater than other. Panics if currencies don't match.
func (m Money) GreaterThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount > other.Amount
}

// FormatMajor returns the major unit string without currency symbol,
// e.g. "20.00" for MXN(2000).
func (m Money) FormatMajor() string {
	return m.Decimal().StringFixed(int32(currencyDecimals(m.Currency)))
}

// String returns a human-readable string with currency symbol, e.g. "$20.00".
func (m Money) String() string {
	return CurrencySymbol(m.Currency) + m.FormatMajor()
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}{
		Amount:   m.Amount,
		Currency: m.Currency,
		Display:  m.String(),
	})
}

func (m Money) assertSameCurrency(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s != %s", m.Currency, other.Currency))
	}
}

// CurrencySymbol returns the display symbol for currency, or the upper-case
// code followed by a space when no symbol is known.
func CurrencySymbol(currency string) string {
	symbols := map[string]string{
		"mxn": "$",
		"usd": "$",
		"eur": "€",
		"gbp": "£",
		"jpy": "¥",
		"cop": "$",
		"clp": "$",
	}
	if sym, ok := symbols[strings.ToLower(currency)]; ok {
		return sym
	}
	return strings.ToUpper(currency) + " "
}

func currencyDecimals(currency string) int {
	zeroDecimal := map[string]bool{
		"jpy": true,
		"krw": true,
		"clp": true,
		"pyg": true,
	}
	if zeroDecimal[strings.ToLower(currency)] {
		return 0
	}
	return 2
}

// Sum calculates the sum of multiple Money values in the given currency.
func Sum(currency string, values ...Money) Money {
	result := Zero(currency)
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
