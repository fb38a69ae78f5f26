package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseOrZero converts a stored amount string into a decimal, treating
// unparseable input as zero so list totals never propagate NaN-like values.
func ParseOrZero(value string) decimal.Decimal {
	parsed, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

// Sum adds the provided amount strings with exact decimal arithmetic.
func Sum(values ...string) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(ParseOrZero(v))
	}
	return total
}
