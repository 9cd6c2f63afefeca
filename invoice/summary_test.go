package invoice

import (
	"testing"

	"github.com/xraph/folio/types"
)

func TestSummarize(t *testing.T) {
	invs := []*Invoice{
		{Number: "A", Total: types.USD(1000)},
		{Number: "B", Total: types.USD(2500)},
		{Number: "C", Total: types.USD(501)},
		{Number: "D", Total: types.EUR(99999)},
	}

	s := Summarize(invs, "usd")
	if s.Count != 3 {
		t.Errorf("count = %d", s.Count)
	}
	if !s.Total.Equal(types.USD(4001)) {
		t.Errorf("total = %v", s.Total)
	}
	// 40.01 / 3 = 13.336...
	if !s.Average.Equal(types.USD(1334)) {
		t.Errorf("average = %v", s.Average)
	}
	if !s.Max.Equal(types.USD(2500)) || !s.Min.Equal(types.USD(501)) {
		t.Errorf("max %v min %v", s.Max, s.Min)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, "usd")
	if s.Count != 0 || !s.Total.IsZero() || !s.Average.IsZero() || !s.Max.IsZero() || !s.Min.IsZero() {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Total.Currency != "usd" {
		t.Errorf("currency = %q", s.Total.Currency)
	}
}
