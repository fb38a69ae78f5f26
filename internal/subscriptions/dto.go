package subscriptions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// View is the resolved listing shape for a subscription: raw row data plus
// everything the pricing resolver derives from the amount history.
type View struct {
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	CustomerID     uuid.UUID `json:"customerId"`
	CustomerName   string    `json:"customerName"`
	Description    *string   `json:"description"`
	CurrentAmount  *string   `json:"currentAmount"`
	LatestAmount   *string   `json:"latestAmount"`
	StartDate      *string   `json:"startDate"`
	EndDate        *string   `json:"endDate"`
	TotalPaid      string    `json:"totalPaid"`
	TotalUnpaid    string    `json:"totalUnpaid"`
	TotalAmount    string    `json:"totalAmount"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AmountView is the wire shape of one price-history row.
type AmountView struct {
	AmountID       uuid.UUID `json:"amountId"`
	SubscriptionID uuid.UUID `json:"subscriptionId"`
	Amount         string    `json:"amount"`
	StartDate      string    `json:"startDate"`
	EndDate        *string   `json:"endDate"`
}

// CreateInput captures a new subscription, optionally priced from day one.
type CreateInput struct {
	CustomerID  uuid.UUID
	Description *string

	// Optional first price row, created in the same transaction.
	InitialAmount    *decimal.Decimal
	InitialStartDate *time.Time
}

// UpdateInput mutates the subscription's own fields.
type UpdateInput struct {
	Description *string
}

// AmountInput captures one price-history row for create or update.
type AmountInput struct {
	Amount    decimal.Decimal
	StartDate time.Time
	EndDate   *time.Time
}

// MonthRange is an inclusive span of calendar months.
type MonthRange struct {
	FromYear  int
	FromMonth int
	ToYear    int
	ToMonth   int
}

// GenerateResult summarizes a monthly obligation run.
type GenerateResult struct {
	CreatedCount int `json:"createdCount"`
	SkippedCount int `json:"skippedCount"`
}
