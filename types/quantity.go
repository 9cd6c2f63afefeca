package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// QuantityPlaces is the number of decimal places a quantity or stock level
// may carry (thousandths of a unit).
const QuantityPlaces = 3

// MaxQuantity bounds quantities and stock levels so their thousandths fit
// comfortably in an int64 column.
var MaxQuantity = decimal.New(1, 12)

// ValidQuantity reports whether q is positive, at most MaxQuantity and fits
// in QuantityPlaces.
func ValidQuantity(q decimal.Decimal) bool {
	return q.IsPositive() && !q.GreaterThan(MaxQuantity) && fitsPlaces(q)
}

// ValidStock reports whether s is non-negative, at most MaxQuantity and fits
// in QuantityPlaces.
func ValidStock(s decimal.Decimal) bool {
	return !s.IsNegative() && !s.GreaterThan(MaxQuantity) && fitsPlaces(s)
}

// ToMilli converts a quantity to integer thousandths, as stored by the SQL
// and document backends. Values outside int64 fail with ErrOutOfRange.
func ToMilli(q decimal.Decimal) (int64, error) {
	milli := q.Shift(QuantityPlaces).Truncate(0)
	if milli.GreaterThan(maxInt64) || milli.LessThan(minInt64) {
		return 0, fmt.Errorf("%w: quantity %s", ErrOutOfRange, q)
	}
	return milli.IntPart(), nil
}

// FromMilli converts integer thousandths back to a quantity.
func FromMilli(milli int64) decimal.Decimal {
	return decimal.New(milli, -QuantityPlaces)
}

func fitsPlaces(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(QuantityPlaces))
}
