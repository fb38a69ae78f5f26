package obligations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
)

// Repository reads unpaid subscription charges and flips paid flags.
type Repository interface {
	// ListUnpaidCharges returns unpaid monthly rows up to and including the
	// given calendar month, with subscription and customer preloaded.
	ListUnpaidCharges(ctx context.Context, year, month int) ([]models.SubscriptionPaid, error)
	MarkChargePaid(ctx context.Context, subscriptionID uuid.UUID, year, month int) (int64, error)
	MarkOrderPaid(ctx context.Context, id uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an obligations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListUnpaidCharges(ctx context.Context, year, month int) ([]models.SubscriptionPaid, error) {
	var rows []models.SubscriptionPaid
	err := r.db.WithContext(ctx).
		Preload("Subscription").
		Preload("Subscription.Customer").
		Where("is_paid = ?", false).
		Where("year < ? OR (year = ? AND month <= ?)", year, year, month).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) MarkChargePaid(ctx context.Context, subscriptionID uuid.UUID, year, month int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.SubscriptionPaid{}).
		Where("subscription_id = ? AND year = ? AND month = ? AND is_paid = ?", subscriptionID, year, month, false).
		Update("is_paid", true)
	return result.RowsAffected, result.Error
}

func (r *repository) MarkOrderPaid(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND is_paid = ?", id, false).
		Update("is_paid", true)
	return result.RowsAffected, result.Error
}
