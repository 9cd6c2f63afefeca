package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/xraph/folio/types"
)

// Summary aggregates invoice totals.
type Summary struct {
	Count   int         `json:"count"`
	Total   types.Money `json:"total"`
	Average types.Money `json:"average"`
	Max     types.Money `json:"max"`
	Min     types.Money `json:"min"`
}

// Summarize computes sales statistics over invs. Invoices in a currency
// other than currency are skipped. The average is rounded half away from zero
// to the minor unit.
func Summarize(invs []*Invoice, currency string) Summary {
	s := Summary{
		Total:   types.Zero(currency),
		Average: types.Zero(currency),
		Max:     types.Zero(currency),
		Min:     types.Zero(currency),
	}
	for _, inv := range invs {
		if inv.Total.Currency != s.Total.Currency {
			continue
		}
		if s.Count == 0 || inv.Total.GreaterThan(s.Max) {
			s.Max = inv.Total
		}
		if s.Count == 0 || inv.Total.LessThan(s.Min) {
			s.Min = inv.Total
		}
		s.Total = s.Total.Add(inv.Total)
		s.Count++
	}
	if s.Count > 0 {
		avg := s.Total.Decimal().Div(decimal.NewFromInt(int64(s.Count)))
		s.Average = types.FromDecimal(avg, currency)
	}
	return s
}
