package quotation

import (
	"testing"
	"time"

	"github.com/xraph/folio/pricing"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusInvoiced, true},
		{StatusPending, StatusPending, false},
		{StatusInvoiced, StatusInvoiced, false},
		{StatusInvoiced, StatusPending, false},
		{Status(""), StatusInvoiced, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%q -> %q = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	q := &Quotation{
		Number:     "COT-2026-0001",
		Items:      []pricing.LineItem{{ProductCode: "P1"}},
		InvoicedAt: &at,
	}

	c := q.Clone()
	c.Items[0].ProductCode = "P2"
	*c.InvoicedAt = at.Add(time.Hour)

	if q.Items[0].ProductCode != "P1" {
		t.Error("items shared with clone")
	}
	if !q.InvoicedAt.Equal(at) {
		t.Error("invoiced_at shared with clone")
	}
}
