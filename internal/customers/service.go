package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
)

// Input carries the mutable customer fields. Pointer fields on update mean
// "leave unchanged" when nil.
type Input struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

// Service exposes customer CRUD. Delete refuses while dependent orders or
// subscriptions exist, keeping billing history intact.
type Service interface {
	Create(ctx context.Context, input Input) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	List(ctx context.Context, query string) ([]models.Customer, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo Repository
}

type service struct {
	repo Repository
}

// NewService builds a customers service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, input Input) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	customer := &models.Customer{
		Name:    name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		Notes:   input.Notes,
	}
	if _, err := s.repo.Create(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return customer, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.find(ctx, id)
}

func (s *service) List(ctx context.Context, query string) ([]models.Customer, error) {
	customers, err := s.repo.List(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return customers, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input Input) (*models.Customer, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
		}
	}
	return s.find(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	orderCount, err := s.repo.CountOrders(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer orders")
	}
	if orderCount > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "customer has existing orders")
	}

	subCount, err := s.repo.CountSubscriptions(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer subscriptions")
	}
	if subCount > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "customer has existing subscriptions")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}
