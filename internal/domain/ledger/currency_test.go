package ledger

import "testing"

func TestRound(t *testing.T) {
	idr := Currency{Code: "IDR", Rounding: 1}
	if got := idr.Round(4500000.4); got != 4500000 {
		t.Fatalf("expected 4500000, got %v", got)
	}
	if got := idr.Round(4500000.5); got != 4500001 {
		t.Fatalf("expected 4500001, got %v", got)
	}

	usd := Currency{Code: "USD", Rounding: 0.01}
	if got := usd.Round(10.005); got != 10.01 {
		t.Fatalf("expected 10.01, got %v", got)
	}
	if got := usd.Round(-10.005); got != -10.01 {
		t.Fatalf("expected -10.01, got %v", got)
	}
}

func TestRoundDefaultsToCents(t *testing.T) {
	c := Currency{Code: "XXX"}
	if got := c.Round(1.234); got != 1.23 {
		t.Fatalf("expected 1.23, got %v", got)
	}
}

func TestCompareAmounts(t *testing.T) {
	usd := Currency{Code: "USD", Rounding: 0.01}
	cases := []struct {
		a, b float64
		want int
	}{
		{1.00, 1.00, 0},
		{1.001, 1.002, 0},
		{1.00, 1.01, -1},
		{1.02, 1.01, 1},
		{0.1 + 0.2, 0.3, 0},
	}
	for _, tc := range cases {
		if got := usd.CompareAmounts(tc.a, tc.b); got != tc.want {
			t.Fatalf("CompareAmounts(%v, %v): expected %d, got %d", tc.a, tc.b, tc.want, got)
		}
	}
}

func TestIsZero(t *testing.T) {
	usd := Currency{Code: "USD", Rounding: 0.01}
	if !usd.IsZero(0.001) {
		t.Fatal("expected 0.001 to round to zero")
	}
	if usd.IsZero(0.01) {
		t.Fatal("expected 0.01 to be non-zero")
	}
}
