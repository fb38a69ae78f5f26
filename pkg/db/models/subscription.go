package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription identifies a recurring service sold to one customer. Status is
// never stored; it is derived from the amount interval history on every read.
type Subscription struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID  uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Customer *Customer            `gorm:"foreignKey:CustomerID"`
	Amounts  []SubscriptionAmount `gorm:"foreignKey:SubscriptionID"`
}
