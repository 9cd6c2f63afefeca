package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   int64
		currency string
		display  string
	}{
		{"MXN", MXN(2000), 2000, "mxn", "$20.00"},
		{"USD", USD(4900), 4900, "usd", "$49.00"},
		{"EUR", EUR(19950), 19950, "eur", "€199.50"},
		{"Zero MXN", Zero("MXN"), 0, "mxn", "$0.00"},
		{"Unknown currency", Money{Amount: 150, Currency: "pen"}, 150, "pen", "PEN 1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestFromDecimalRounding(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"20", 2000},
		{"10.005", 1001},
		{"10.004", 1000},
		{"0.125", 13},
		{"-0.125", -13},
		{"3.3333", 333},
		{"0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := FromDecimal(decimal.RequireFromString(tt.in), "mxn")
			if got.Amount != tt.want {
				t.Errorf("FromDecimal(%s) = %d, want %d", tt.in, got.Amount, tt.want)
			}
		})
	}
}

func TestFromDecimalZeroDecimalCurrency(t *testing.T) {
	got := FromDecimal(decimal.RequireFromString("99.5"), "JPY")
	if got.Amount != 100 || got.Currency != "jpy" {
		t.Errorf("got %+v, want 100 jpy", got)
	}
	if got.String() != "¥100" {
		t.Errorf("String() = %q", got.String())
	}
}

func TestMoneyPercent(t *testing.T) {
	tests := []struct {
		name string
		base Money
		rate string
		want Money
	}{
		{"sixteen percent", MXN(2000), "16", MXN(320)},
		{"zero rate", MXN(2000), "0", MXN(0)},
		{"rounds half up", MXN(3), "50", MXN(2)},
		{"fractional rate", MXN(10000), "8.25", MXN(825)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.base.Percent(decimal.RequireFromString(tt.rate))
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	if got := MXN(100).Add(MXN(250)); !got.Equal(MXN(350)) {
		t.Errorf("Add: got %v", got)
	}
	if got := Sum("mxn", MXN(1), MXN(2), MXN(3)); !got.Equal(MXN(6)) {
		t.Errorf("Sum: got %v", got)
	}
	if got := Sum("mxn"); !got.Equal(Zero("mxn")) {
		t.Errorf("empty Sum: got %v", got)
	}
	if !MXN(1).LessThan(MXN(2)) || !MXN(2).GreaterThan(MXN(1)) {
		t.Error("comparison failed")
	}
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	_ = MXN(100).Add(USD(100))
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(MXN(2000))
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["display"] != "$20.00" {
		t.Errorf("display = %v", decoded["display"])
	}

	var back Money
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(MXN(2000)) {
		t.Errorf("decoded %v", back)
	}
}

func TestNewMoneyOutOfRange(t *testing.T) {
	huge := decimal.RequireFromString("100000000000000000000")
	if _, err := NewMoney(huge, "mxn"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("got %v, want ErrOutOfRange", err)
	}
	if _, err := NewMoney(huge.Neg(), "jpy"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("negative: got %v, want ErrOutOfRange", err)
	}
	m, err := NewMoney(decimal.RequireFromString("12.345"), "MXN")
	if err != nil || !m.Equal(MXN(1235)) {
		t.Errorf("got %v, %v", m, err)
	}
}

func TestAmountInRange(t *testing.T) {
	if !AmountInRange(decimal.RequireFromString("10000000000000"), "mxn") {
		t.Error("1e13 mxn is exactly MaxAmount and should fit")
	}
	if AmountInRange(decimal.RequireFromString("10000000000000.01"), "mxn") {
		t.Error("above MaxAmount should not fit")
	}
	if !AmountInRange(decimal.RequireFromString("1000000000000000"), "jpy") {
		t.Error("zero-decimal currency uses whole units")
	}
}
