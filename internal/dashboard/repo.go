package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
)

// MonthStats holds one calendar month's raw aggregates.
type MonthStats struct {
	OrderCount    int64
	OrderRevenue  decimal.Decimal
	ChargeRevenue decimal.Decimal
	NewCustomers  int64
}

// Repository reads the per-month aggregates the metrics endpoint is built on.
type Repository interface {
	MonthStats(ctx context.Context, year, month int) (*MonthStats, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dashboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) MonthStats(ctx context.Context, year, month int) (*MonthStats, error) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	stats := &MonthStats{}

	var orderRow struct {
		Count int64
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total").
		Where("sales_at >= ? AND sales_at < ?", from, to).
		Scan(&orderRow).Error
	if err != nil {
		return nil, err
	}
	stats.OrderCount = orderRow.Count
	stats.OrderRevenue = orderRow.Total

	var chargeTotal decimal.Decimal
	err = r.db.WithContext(ctx).
		Model(&models.SubscriptionPaid{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("year = ? AND month = ?", year, month).
		Scan(&chargeTotal).Error
	if err != nil {
		return nil, err
	}
	stats.ChargeRevenue = chargeTotal

	err = r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&stats.NewCustomers).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
