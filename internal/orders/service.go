package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/dates"
	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
	"github.com/rileysalas/clientdesk-backend/pkg/pagination"
)

// View is the wire shape of one order row.
type View struct {
	OrderID      uuid.UUID `json:"orderId"`
	CustomerID   uuid.UUID `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Amount       string    `json:"amount"`
	Description  *string   `json:"description"`
	SalesAt      string    `json:"salesAt"`
	IsPaid       bool      `json:"isPaid"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Page is one cursor page of orders.
type Page struct {
	Orders     []View  `json:"orders"`
	NextCursor *string `json:"nextCursor"`
}

// CreateInput captures a new one-time order.
type CreateInput struct {
	CustomerID  uuid.UUID
	Amount      decimal.Decimal
	Description *string
	SalesAt     time.Time
	IsPaid      bool
}

// UpdateInput mutates order fields; nil means "leave unchanged".
type UpdateInput struct {
	Amount      *decimal.Decimal
	Description *string
	SalesAt     *time.Time
	IsPaid      *bool
}

type customerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// Service exposes order CRUD and listing.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	List(ctx context.Context, filters Filters, params pagination.Params) (*Page, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo      Repository
	Customers customerFinder
}

type service struct {
	repo      Repository
	customers customerFinder
}

// NewService builds an orders service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer finder required")
	}
	return &service{repo: params.Repo, customers: params.Customers}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.SalesAt.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sales date required")
	}

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	order := &models.Order{
		CustomerID:  input.CustomerID,
		Amount:      input.Amount,
		Description: input.Description,
		SalesAt:     dates.DateOnly(input.SalesAt),
		IsPaid:      input.IsPaid,
	}
	if _, err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	order.Customer = customer
	view := buildView(order)
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	view := buildView(order)
	return &view, nil
}

func (s *service) List(ctx context.Context, filters Filters, params pagination.Params) (*Page, error) {
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	page := &Page{Orders: make([]View, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		page.NextCursor = &cursor
	}
	for i := range rows {
		page.Orders = append(page.Orders, buildView(&rows[i]))
	}
	return page, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
		}
		updates["amount"] = *input.Amount
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.SalesAt != nil {
		updates["sales_at"] = dates.DateOnly(*input.SalesAt)
	}
	if input.IsPaid != nil {
		updates["is_paid"] = *input.IsPaid
	}
	if len(updates) > 0 {
		if _, err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) find(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func buildView(order *models.Order) View {
	view := View{
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		CustomerName: "Unknown Customer",
		Amount:       order.Amount.StringFixed(2),
		Description:  order.Description,
		SalesAt:      dates.Format(order.SalesAt),
		IsPaid:       order.IsPaid,
		CreatedAt:    order.CreatedAt,
	}
	if order.Customer != nil && order.Customer.Name != "" {
		view.CustomerName = order.Customer.Name
	}
	return view
}
