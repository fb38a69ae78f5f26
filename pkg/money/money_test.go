package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseOrZero(t *testing.T) {
	assert.Equal(t, "1200000.00", ParseOrZero("1200000.00").StringFixed(2))
	assert.Equal(t, "80000.50", ParseOrZero(" 80000.50 ").StringFixed(2))
	assert.True(t, ParseOrZero("not-a-number").IsZero())
	assert.True(t, ParseOrZero("").IsZero())
}

func TestSumSkipsUnparseableValues(t *testing.T) {
	total := Sum("1200000.00", "not-a-number", "80000.50")
	assert.Equal(t, "1280000.50", total.StringFixed(2))
}

func TestSumExactAtFloatHostileValues(t *testing.T) {
	total := Sum("0.10", "0.20")
	assert.True(t, total.Equal(decimal.RequireFromString("0.30")))
}
