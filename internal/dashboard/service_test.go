package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	stats map[string]*MonthStats
}

func (s *stubRepo) MonthStats(_ context.Context, year, month int) (*MonthStats, error) {
	key := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
	if stats, ok := s.stats[key]; ok {
		return stats, nil
	}
	return &MonthStats{}, nil
}

func TestMetricsComparesAdjacentMonths(t *testing.T) {
	repo := &stubRepo{stats: map[string]*MonthStats{
		"2025-06": {
			OrderCount:    4,
			OrderRevenue:  dec("400"),
			ChargeRevenue: dec("100"),
			NewCustomers:  3,
		},
		"2025-05": {
			OrderCount:    2,
			OrderRevenue:  dec("150"),
			ChargeRevenue: dec("100"),
			NewCustomers:  0,
		},
	}}
	svc, err := NewService(ServiceParams{
		Repo: repo,
		Now:  func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	result, err := svc.Metrics(context.Background())
	require.NoError(t, err)

	revenue := result.Metrics[MetricRevenue]
	assert.InDelta(t, 500, revenue.Value, 1e-9)
	assert.InDelta(t, 100, revenue.Growth.Rate, 1e-9)
	assert.InDelta(t, 250, revenue.Growth.Count, 1e-9)

	// previous month had zero customers, so growth pins to 100%
	customers := result.Metrics[MetricCustomers]
	assert.InDelta(t, 3, customers.Value, 1e-9)
	assert.InDelta(t, 100, customers.Growth.Rate, 1e-9)

	orders := result.Metrics[MetricOrders]
	assert.InDelta(t, 4, orders.Value, 1e-9)
	assert.InDelta(t, 100, orders.Growth.Rate, 1e-9)

	// average order value excludes subscription revenue: 400/4 vs 150/2
	aov := result.Metrics[MetricAverageOrderValue]
	assert.InDelta(t, 100, aov.Value, 1e-9)
	assert.InDelta(t, 25, aov.Growth.Count, 1e-9)
}

func TestMetricsPreviousMonthAcrossYearBoundary(t *testing.T) {
	repo := &stubRepo{stats: map[string]*MonthStats{
		"2025-01": {OrderCount: 1, OrderRevenue: dec("100")},
		"2024-12": {OrderCount: 1, OrderRevenue: dec("200")},
	}}
	svc, err := NewService(ServiceParams{
		Repo: repo,
		Now:  func() time.Time { return time.Date(2025, 1, 31, 23, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	result, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, -50, result.Metrics[MetricRevenue].Growth.Rate, 1e-9)
}

func TestMetricsEmptyMonths(t *testing.T) {
	svc, err := NewService(ServiceParams{
		Repo: &stubRepo{stats: map[string]*MonthStats{}},
		Now:  func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	result, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	for name, metric := range result.Metrics {
		assert.Zero(t, metric.Value, name)
		assert.Zero(t, metric.Growth.Rate, name)
	}
}
