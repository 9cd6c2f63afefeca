package types

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"0.5", true},
		{"2.125", true},
		{"2.1255", false},
		{"0", false},
		{"-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ValidQuantity(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("ValidQuantity(%s) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidStock(t *testing.T) {
	if !ValidStock(decimal.Zero) {
		t.Error("zero stock should be valid")
	}
	if ValidStock(decimal.NewFromInt(-1)) {
		t.Error("negative stock should be invalid")
	}
	if ValidStock(decimal.RequireFromString("0.0001")) {
		t.Error("stock with four places should be invalid")
	}
}

func TestMilliRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "2.5", "10.125", "1000"} {
		q := decimal.RequireFromString(s)
		milli, err := ToMilli(q)
		if err != nil {
			t.Fatalf("ToMilli(%s): %v", s, err)
		}
		if back := FromMilli(milli); !back.Equal(q) {
			t.Errorf("%s -> %d -> %s", s, milli, back)
		}
	}
	if got, _ := ToMilli(decimal.RequireFromString("2.5")); got != 2500 {
		t.Errorf("ToMilli(2.5) = %d", got)
	}
}

func TestToMilliOutOfRange(t *testing.T) {
	for _, s := range []string{"10000000000000000", "-10000000000000000"} {
		if _, err := ToMilli(decimal.RequireFromString(s)); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("ToMilli(%s): got %v, want ErrOutOfRange", s, err)
		}
	}
}

func TestQuantityUpperBound(t *testing.T) {
	over := MaxQuantity.Add(decimal.NewFromInt(1))
	if ValidQuantity(over) {
		t.Error("quantity above MaxQuantity should be invalid")
	}
	if ValidStock(over) {
		t.Error("stock above MaxQuantity should be invalid")
	}
	if !ValidQuantity(MaxQuantity) || !ValidStock(MaxQuantity) {
		t.Error("MaxQuantity itself should be valid")
	}
}
