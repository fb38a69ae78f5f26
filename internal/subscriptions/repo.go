package subscriptions

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
)

// PaidTotals aggregates a subscription's obligation ledger.
type PaidTotals struct {
	Paid   decimal.Decimal
	Unpaid decimal.Decimal
}

// Repository exposes subscription and price-history persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error)
	List(ctx context.Context) ([]models.Subscription, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error

	CreateAmount(ctx context.Context, amount *models.SubscriptionAmount) (*models.SubscriptionAmount, error)
	FindAmountByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionAmount, error)
	UpdateAmount(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteAmount(ctx context.Context, id uuid.UUID) error

	PaidTotals(ctx context.Context) (map[uuid.UUID]PaidTotals, error)
	HasPaidRow(ctx context.Context, subscriptionID uuid.UUID, year, month int) (bool, error)
	CreatePaidRow(ctx context.Context, row *models.SubscriptionPaid) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a subscriptions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Amounts").
		Where("id = ?", id).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *repository) List(ctx context.Context) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Amounts").
		Order("created_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CreateAmount(ctx context.Context, amount *models.SubscriptionAmount) (*models.SubscriptionAmount, error) {
	if err := r.db.WithContext(ctx).Create(amount).Error; err != nil {
		return nil, err
	}
	return amount, nil
}

func (r *repository) FindAmountByID(ctx context.Context, id uuid.UUID) (*models.SubscriptionAmount, error) {
	var amount models.SubscriptionAmount
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&amount).Error
	if err != nil {
		return nil, err
	}
	return &amount, nil
}

func (r *repository) UpdateAmount(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.SubscriptionAmount{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteAmount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.SubscriptionAmount{}).Error
}

type paidTotalsRow struct {
	SubscriptionID uuid.UUID
	IsPaid         bool
	Total          decimal.Decimal
}

func (r *repository) PaidTotals(ctx context.Context) (map[uuid.UUID]PaidTotals, error) {
	var rows []paidTotalsRow
	err := r.db.WithContext(ctx).
		Model(&models.SubscriptionPaid{}).
		Select("subscription_id, is_paid, SUM(amount) AS total").
		Group("subscription_id, is_paid").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[uuid.UUID]PaidTotals, len(rows))
	for _, row := range rows {
		entry := totals[row.SubscriptionID]
		if row.IsPaid {
			entry.Paid = entry.Paid.Add(row.Total)
		} else {
			entry.Unpaid = entry.Unpaid.Add(row.Total)
		}
		totals[row.SubscriptionID] = entry
	}
	return totals, nil
}

func (r *repository) HasPaidRow(ctx context.Context, subscriptionID uuid.UUID, year, month int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SubscriptionPaid{}).
		Where("subscription_id = ? AND year = ? AND month = ?", subscriptionID, year, month).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) CreatePaidRow(ctx context.Context, row *models.SubscriptionPaid) error {
	return r.db.WithContext(ctx).Create(row).Error
}
