package dashboard

import "github.com/shopspring/decimal"

// Growth describes period-over-period movement as a percentage rate and an
// absolute delta. The two always carry the same sign.
type Growth struct {
	Rate  float64 `json:"rate"`
	Count float64 `json:"count"`
}

// CalculateGrowth compares a current-period value against the prior period.
// A zero prior period maps to +100% when anything appeared and 0% when both
// periods are empty, so the rate never divides by zero.
func CalculateGrowth(current, previous decimal.Decimal) Growth {
	count, _ := current.Sub(previous).Float64()
	if previous.IsZero() {
		if current.GreaterThan(decimal.Zero) {
			return Growth{Rate: 100, Count: count}
		}
		return Growth{Rate: 0, Count: count}
	}
	rate, _ := current.Sub(previous).
		Div(previous).
		Mul(decimal.NewFromInt(100)).
		Float64()
	return Growth{Rate: rate, Count: count}
}
