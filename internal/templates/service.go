package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
)

// Input carries the mutable template fields.
type Input struct {
	Name        string
	Amount      decimal.Decimal
	Description *string
}

// Service exposes order template CRUD.
type Service interface {
	Create(ctx context.Context, input Input) (*models.OrderTemplate, error)
	Get(ctx context.Context, id uuid.UUID) (*models.OrderTemplate, error)
	List(ctx context.Context) ([]models.OrderTemplate, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*models.OrderTemplate, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo Repository
}

type service struct {
	repo Repository
}

// NewService builds a templates service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("templates repository required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*models.OrderTemplate, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	template := &models.OrderTemplate{
		Name:        strings.TrimSpace(input.Name),
		Amount:      input.Amount,
		Description: input.Description,
	}
	if _, err := s.repo.Create(ctx, template); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create template")
	}
	return template, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.OrderTemplate, error) {
	return s.find(ctx, id)
}

func (s *service) List(ctx context.Context) ([]models.OrderTemplate, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list templates")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*models.OrderTemplate, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}
	updates := map[string]any{
		"name":   strings.TrimSpace(input.Name),
		"amount": input.Amount,
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update template")
	}
	return s.find(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete template")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.OrderTemplate, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template id required")
	}
	template, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	return template, nil
}

func validateInput(input Input) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	if !input.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	return nil
}
