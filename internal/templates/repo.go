package templates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
)

// Repository exposes order template persistence.
type Repository interface {
	Create(ctx context.Context, template *models.OrderTemplate) (*models.OrderTemplate, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.OrderTemplate, error)
	List(ctx context.Context) ([]models.OrderTemplate, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a templates repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, template *models.OrderTemplate) (*models.OrderTemplate, error) {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.OrderTemplate, error) {
	var template models.OrderTemplate
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *repository) List(ctx context.Context) ([]models.OrderTemplate, error) {
	var rows []models.OrderTemplate
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderTemplate{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.OrderTemplate{}).Error
}
