package dashboard

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCalculateGrowth(t *testing.T) {
	cases := []struct {
		name     string
		current  string
		previous string
		want     Growth
	}{
		{"both zero", "0", "0", Growth{Rate: 0, Count: 0}},
		{"from nothing", "50", "0", Growth{Rate: 100, Count: 50}},
		{"decline", "80", "100", Growth{Rate: -20, Count: -20}},
		{"increase", "150", "100", Growth{Rate: 50, Count: 50}},
		{"flat", "100", "100", Growth{Rate: 0, Count: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateGrowth(dec(tc.current), dec(tc.previous))
			assert.InDelta(t, tc.want.Rate, got.Rate, 1e-9)
			assert.InDelta(t, tc.want.Count, got.Count, 1e-9)
		})
	}
}

func TestCalculateGrowthSignsAgree(t *testing.T) {
	got := CalculateGrowth(dec("30"), dec("120"))
	assert.Negative(t, got.Rate)
	assert.Negative(t, got.Count)

	got = CalculateGrowth(dec("120"), dec("30"))
	assert.Positive(t, got.Rate)
	assert.Positive(t, got.Count)
}

func TestAverageOrderValue(t *testing.T) {
	assert.True(t, averageOrderValue(dec("100"), 0).IsZero())
	assert.Equal(t, "33.33", averageOrderValue(dec("100"), 3).StringFixed(2))
}
