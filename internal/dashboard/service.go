package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rileysalas/clientdesk-backend/pkg/dates"
	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
)

// Metric names exposed by the dashboard endpoint.
const (
	MetricRevenue           = "revenue"
	MetricCustomers         = "customers"
	MetricOrders            = "orders"
	MetricAverageOrderValue = "averageOrderValue"
)

// Metric pairs a current-month value with its growth against the prior month.
type Metric struct {
	Value  float64 `json:"value"`
	Growth Growth  `json:"growth"`
}

// MetricsResult is the dashboard response shape.
type MetricsResult struct {
	Metrics map[string]Metric `json:"metrics"`
}

// Service computes the dashboard metrics.
type Service interface {
	Metrics(ctx context.Context) (*MetricsResult, error)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a dashboard service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

// Metrics compares the current calendar month against the previous one for
// revenue, new customers, order count, and average order value.
func (s *service) Metrics(ctx context.Context) (*MetricsResult, error) {
	now := s.now().UTC()
	curYear, curMonth := now.Year(), int(now.Month())
	prev := dates.StartOfMonth(curYear, curMonth).AddDate(0, -1, 0)
	prevYear, prevMonth := prev.Year(), int(prev.Month())

	current, err := s.repo.MonthStats(ctx, curYear, curMonth)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current month stats")
	}
	previous, err := s.repo.MonthStats(ctx, prevYear, prevMonth)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load previous month stats")
	}

	curRevenue := current.OrderRevenue.Add(current.ChargeRevenue)
	prevRevenue := previous.OrderRevenue.Add(previous.ChargeRevenue)

	metrics := map[string]Metric{
		MetricRevenue:   buildMetric(curRevenue, prevRevenue),
		MetricCustomers: buildMetric(decimal.NewFromInt(current.NewCustomers), decimal.NewFromInt(previous.NewCustomers)),
		MetricOrders:    buildMetric(decimal.NewFromInt(current.OrderCount), decimal.NewFromInt(previous.OrderCount)),
		MetricAverageOrderValue: buildMetric(
			averageOrderValue(current.OrderRevenue, current.OrderCount),
			averageOrderValue(previous.OrderRevenue, previous.OrderCount),
		),
	}
	return &MetricsResult{Metrics: metrics}, nil
}

func buildMetric(current, previous decimal.Decimal) Metric {
	value, _ := current.Float64()
	return Metric{Value: value, Growth: CalculateGrowth(current, previous)}
}

func averageOrderValue(revenue decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return revenue.Div(decimal.NewFromInt(count)).Round(2)
}
