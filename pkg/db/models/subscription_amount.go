package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionAmount is one declared price valid over a half-open date
// interval [StartDate, EndDate). A nil EndDate means the interval is ongoing.
type SubscriptionAmount struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SubscriptionID uuid.UUID       `gorm:"column:subscription_id;type:uuid;not null;index"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	StartDate      time.Time       `gorm:"column:start_date;type:date;not null"`
	EndDate        *time.Time      `gorm:"column:end_date;type:date"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
