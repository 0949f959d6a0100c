package ledger

import "math"

type Currency struct {
	Code     string
	Rounding float64
}

func (c Currency) rounding() float64 {
	if c.Rounding <= 0 {
		return 0.01
	}
	return c.Rounding
}

// Round rounds v to the currency's rounding step, half away from zero.
// An epsilon of one representation ulp is added before rounding so that
// values like 10.005, stored as 10.00499...9, still round up.
func (c Currency) Round(v float64) float64 {
	step := c.rounding()
	scaled := v / step
	if scaled != 0 {
		_, exp := math.Frexp(scaled)
		scaled += math.Copysign(math.Ldexp(1, exp-52), scaled)
	}
	return math.Round(scaled) * step
}

// CompareAmounts compares a and b at the currency's precision and
// returns -1, 0 or 1. Amounts closer than the rounding step are equal.
func (c Currency) CompareAmounts(a, b float64) int {
	diff := c.Round(a) - c.Round(b)
	step := c.rounding()
	if math.Abs(diff) < step/2 {
		return 0
	}
	if diff < 0 {
		return -1
	}
	return 1
}

// IsZero reports whether v rounds to zero at the currency's precision.
func (c Currency) IsZero(v float64) bool {
	return c.CompareAmounts(v, 0) == 0
}
