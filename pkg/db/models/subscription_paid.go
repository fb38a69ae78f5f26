package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionPaid is one calendar month's billing obligation. Amount is a
// snapshot of the price at generation time, not a reference to a
// SubscriptionAmount row, so later re-pricing never alters billed history.
type SubscriptionPaid struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SubscriptionID uuid.UUID       `gorm:"column:subscription_id;type:uuid;not null;uniqueIndex:uq_subscription_paid_period"`
	Year           int             `gorm:"column:year;not null;uniqueIndex:uq_subscription_paid_period"`
	Month          int             `gorm:"column:month;not null;uniqueIndex:uq_subscription_paid_period"`
	Amount         decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	IsPaid         bool            `gorm:"column:is_paid;not null;default:false"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`

	Subscription *Subscription `gorm:"foreignKey:SubscriptionID"`
}

// TableName pins the singular table name used by the schema.
func (SubscriptionPaid) TableName() string {
	return "subscription_paid"
}
