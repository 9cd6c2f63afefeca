package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/xraph/folio/catalog"
	"github.com/xraph/folio/types"
)

type fakeCatalog map[string]*catalog.Product

func (f fakeCatalog) GetProduct(_ context.Context, code string) (*catalog.Product, error) {
	p, ok := f[code]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return p.Clone(), nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCatalog() fakeCatalog {
	return fakeCatalog{
		"P1": {Code: "P1", Name: "Tornillo", Unit: "pieza", UnitPrice: dec("10.00"), Stock: dec("10")},
		"P2": {Code: "P2", Name: "Cable", Unit: "metro", UnitPrice: dec("3.333"), Stock: dec("100")},
		"BIG": {Code: "BIG", Name: "Turbina", Unit: "pieza", UnitPrice: dec("10000000000"), Stock: dec("5000")},
	}
}

func TestResolveSnapshotsPrice(t *testing.T) {
	cat := testCatalog()
	calc := NewCalculator(cat, "usd")

	items, err := calc.Resolve(context.Background(), []Request{{Code: "P1", Quantity: dec("2")}})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	it := items[0]
	if it.ProductName != "Tornillo" || it.Unit != "pieza" {
		t.Errorf("unexpected snapshot %+v", it)
	}
	if !it.Subtotal.Equal(types.USD(2000)) {
		t.Errorf("subtotal = %v, want $20.00", it.Subtotal)
	}
	if it.ID.IsNil() {
		t.Error("line item has no id")
	}

	cat["P1"].UnitPrice = dec("99")
	if !items[0].UnitPrice.Equal(dec("10")) {
		t.Error("resolved price changed with catalog")
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     []Request
		want    error
		wantIdx int
	}{
		{"empty", nil, ErrNoItems, -1},
		{"unknown code", []Request{{Code: "P1", Quantity: dec("1")}, {Code: "NOPE", Quantity: dec("1")}}, ErrUnknownProduct, 1},
		{"zero quantity", []Request{{Code: "P1", Quantity: dec("0")}}, ErrInvalidQuantity, 0},
		{"negative quantity", []Request{{Code: "P1", Quantity: dec("-2")}}, ErrInvalidQuantity, 0},
		{"too many places", []Request{{Code: "P1", Quantity: dec("0.0001")}}, ErrInvalidQuantity, 0},
		{"quantity above max", []Request{{Code: "P1", Quantity: dec("1000000000001")}}, ErrInvalidQuantity, 0},
		{"line over max amount", []Request{{Code: "BIG", Quantity: dec("1001")}}, types.ErrOutOfRange, 0},
		{"document over max amount", []Request{{Code: "BIG", Quantity: dec("1000")}, {Code: "BIG", Quantity: dec("1")}}, types.ErrOutOfRange, 1},
	}

	calc := NewCalculator(testCatalog(), "usd")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := calc.Resolve(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if items != nil {
				t.Error("partial result returned")
			}
			if tt.wantIdx < 0 {
				return
			}
			var ie *ItemError
			if !errors.As(err, &ie) {
				t.Fatalf("err %T is not *ItemError", err)
			}
			if ie.Index != tt.wantIdx {
				t.Errorf("index = %d, want %d", ie.Index, tt.wantIdx)
			}
		})
	}
}

func TestResolveAtMaxAmount(t *testing.T) {
	calc := NewCalculator(testCatalog(), "usd")
	items, err := calc.Resolve(context.Background(), []Request{{Code: "BIG", Quantity: dec("1000")}})
	if err != nil {
		t.Fatal(err)
	}
	if items[0].Subtotal.Amount != types.MaxAmount {
		t.Errorf("subtotal = %d, want %d", items[0].Subtotal.Amount, types.MaxAmount)
	}
	totals := calc.ComputeTotals(items, dec("100"))
	if totals.Total.Amount != 2*types.MaxAmount {
		t.Errorf("total = %d, want %d", totals.Total.Amount, 2*types.MaxAmount)
	}
}

func TestResolveStoreFailure(t *testing.T) {
	boom := errors.New("connection reset")
	calc := NewCalculator(failingCatalog{err: boom}, "usd")

	_, err := calc.Resolve(context.Background(), []Request{{Code: "P1", Quantity: dec("1")}})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if errors.Is(err, ErrUnknownProduct) {
		t.Error("store failure reported as unknown product")
	}
}

type failingCatalog struct{ err error }

func (f failingCatalog) GetProduct(context.Context, string) (*catalog.Product, error) {
	return nil, f.err
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name     string
		lines    [][2]string // price, quantity
		rate     string
		subtotal int64
		tax      int64
		total    int64
	}{
		{"two units no tax", [][2]string{{"10.00", "2"}}, "0", 2000, 0, 2000},
		{"sixteen percent", [][2]string{{"10.00", "2"}}, "16", 2000, 320, 2320},
		{"line rounding half up", [][2]string{{"0.125", "1"}}, "0", 13, 0, 13},
		{"fractional quantity", [][2]string{{"3.333", "1.5"}}, "0", 500, 0, 500},
		{"tax rounding", [][2]string{{"0.10", "1"}, {"0.05", "1"}}, "16", 15, 2, 17},
		{"many lines", [][2]string{{"1.01", "3"}, {"2.50", "2"}, {"0.99", "1"}}, "8", 902, 72, 974},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var items []LineItem
			for i, l := range tt.lines {
				p := &catalog.Product{Code: string(rune('A' + i)), UnitPrice: dec(l[0])}
				items = append(items, NewLineItem(p, dec(l[1]), "usd"))
			}
			got := ComputeTotals(items, dec(tt.rate), "usd")
			if got.Subtotal.Amount != tt.subtotal || got.TaxAmount.Amount != tt.tax || got.Total.Amount != tt.total {
				t.Errorf("got %d/%d/%d, want %d/%d/%d",
					got.Subtotal.Amount, got.TaxAmount.Amount, got.Total.Amount,
					tt.subtotal, tt.tax, tt.total)
			}
			if !got.Total.Equal(got.Subtotal.Add(got.TaxAmount)) {
				t.Error("total is not subtotal + tax")
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	p1 := &catalog.Product{Code: "P1", UnitPrice: dec("1")}
	p2 := &catalog.Product{Code: "P2", UnitPrice: dec("1")}
	items := []LineItem{
		NewLineItem(p2, dec("1.5"), "usd"),
		NewLineItem(p1, dec("2"), "usd"),
		NewLineItem(p2, dec("0.5"), "usd"),
	}

	got := Aggregate(items)
	if len(got) != 2 {
		t.Fatalf("got %d demands", len(got))
	}
	if got[0].Code != "P1" || !got[0].Quantity.Equal(dec("2")) {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Code != "P2" || !got[1].Quantity.Equal(dec("2")) {
		t.Errorf("second = %+v", got[1])
	}
}
