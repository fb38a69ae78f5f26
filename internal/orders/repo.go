package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	"github.com/rileysalas/clientdesk-backend/pkg/pagination"
)

// Filters narrows an order listing. Zero values mean "no constraint".
type Filters struct {
	Query      string
	Paid       *bool
	DateFrom   *time.Time
	DateTo     *time.Time
	CustomerID *uuid.UUID
}

// Repository exposes order persistence with cursor pagination.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Order, error)
	ListDue(ctx context.Context, before time.Time) ([]models.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, filters Filters, params pagination.Params) ([]models.Order, error) {
	db := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Preload("Customer")

	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		db = db.Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
			Where("orders.description LIKE ? OR customers.name LIKE ?", pattern, pattern)
	}
	if filters.Paid != nil {
		db = db.Where("orders.is_paid = ?", *filters.Paid)
	}
	if filters.DateFrom != nil {
		db = db.Where("orders.sales_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		db = db.Where("orders.sales_at <= ?", *filters.DateTo)
	}
	if filters.CustomerID != nil {
		db = db.Where("orders.customer_id = ?", *filters.CustomerID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		db = db.Where(
			"(orders.created_at < ?) OR (orders.created_at = ? AND orders.id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Order
	err = db.Order("orders.created_at DESC, orders.id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListDue(ctx context.Context, before time.Time) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("is_paid = ? AND sales_at <= ?", false, before).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Order{}).Error
}
