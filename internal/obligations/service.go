package obligations

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rileysalas/clientdesk-backend/pkg/dates"
	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
	"github.com/rileysalas/clientdesk-backend/pkg/money"
)

// Obligation types distinguish the two payment sources in the unified list.
const (
	TypeOneTime      = "onetime"
	TypeSubscription = "subscription"
)

const (
	fallbackCustomerName = "Unknown Customer"
	fallbackDescription  = "Subscription Payment"
)

// Item is one outstanding payment, order or subscription charge alike.
type Item struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	CustomerName string     `json:"customerName"`
	Description  string     `json:"description"`
	Amount       string     `json:"amount"`
	DueDate      string     `json:"dueDate"`
	// Correlation fields, set for subscription charges only.
	SubscriptionID *uuid.UUID `json:"subscriptionId"`
	Year           *int       `json:"year"`
	Month          *int       `json:"month"`

	dueAt time.Time
}

// ListResult is the unified unpaid view.
type ListResult struct {
	UnpaidPayments    []Item `json:"unpaidPayments"`
	TotalCount        int    `json:"totalCount"`
	TotalAmount       string `json:"totalAmount"`
	CurrentMonthStart string `json:"currentMonthStart"`
}

// UpdateItem selects one obligation to mark paid. Orders match by ID;
// subscription charges match by subscription, year, and month.
type UpdateItem struct {
	ID             uuid.UUID  `json:"id"`
	Type           string     `json:"type"`
	SubscriptionID *uuid.UUID `json:"subscriptionId"`
	Year           *int       `json:"year"`
	Month          *int       `json:"month"`
}

// UpdateItemResult reports one item's outcome.
type UpdateItemResult struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Result  int64  `json:"result"`
}

// UpdateResult aggregates a bulk mark-as-paid run.
type UpdateResult struct {
	Success      bool               `json:"success"`
	UpdatedCount int                `json:"updatedCount"`
	FailedCount  int                `json:"failedCount"`
	Results      []UpdateItemResult `json:"results"`
}

type orderSource interface {
	ListDue(ctx context.Context, before time.Time) ([]models.Order, error)
}

// Service aggregates outstanding obligations and marks them paid in bulk.
type Service interface {
	List(ctx context.Context) (*ListResult, error)
	BulkMarkPaid(ctx context.Context, items []UpdateItem) (*UpdateResult, error)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo   Repository
	Orders orderSource
	Now    func() time.Time
}

type service struct {
	repo   Repository
	orders orderSource
	now    func() time.Time
}

// NewService builds an obligations service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("obligations repository required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order source required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, orders: params.Orders, now: now}, nil
}

// List unifies unpaid orders and unpaid subscription charges that are already
// due, sorted ascending by due date. Ties keep their source order.
func (s *service) List(ctx context.Context) (*ListResult, error) {
	now := dates.DateOnly(s.now())

	orders, err := s.orders.ListDue(ctx, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list due orders")
	}
	charges, err := s.repo.ListUnpaidCharges(ctx, now.Year(), int(now.Month()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list unpaid charges")
	}

	items := make([]Item, 0, len(orders)+len(charges))
	for i := range orders {
		items = append(items, orderItem(&orders[i]))
	}
	for i := range charges {
		item := chargeItem(&charges[i])
		// pre-generated months that are not due yet stay out of the list
		if item.dueAt.After(now) {
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].dueAt.Before(items[j].dueAt)
	})

	amounts := make([]string, 0, len(items))
	for _, item := range items {
		amounts = append(amounts, item.Amount)
	}

	return &ListResult{
		UnpaidPayments:    items,
		TotalCount:        len(items),
		TotalAmount:       money.Sum(amounts...).StringFixed(2),
		CurrentMonthStart: dates.Format(dates.StartOfMonth(now.Year(), int(now.Month()))),
	}, nil
}

// BulkMarkPaid updates each item independently. A miss on one item never
// rolls back the others; the caller gets per-item outcomes plus counts.
func (s *service) BulkMarkPaid(ctx context.Context, items []UpdateItem) (*UpdateResult, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "items required")
	}

	result := &UpdateResult{Results: make([]UpdateItemResult, 0, len(items))}
	for _, item := range items {
		affected, err := s.markPaid(ctx, item)
		outcome := UpdateItemResult{Type: item.Type, Result: affected}
		if err == nil && affected > 0 {
			outcome.Success = true
			result.UpdatedCount++
		} else {
			result.FailedCount++
		}
		result.Results = append(result.Results, outcome)
	}
	result.Success = result.FailedCount == 0
	return result, nil
}

func (s *service) markPaid(ctx context.Context, item UpdateItem) (int64, error) {
	switch item.Type {
	case TypeOneTime:
		if item.ID == uuid.Nil {
			return 0, fmt.Errorf("order id required")
		}
		return s.repo.MarkOrderPaid(ctx, item.ID)
	case TypeSubscription:
		if item.SubscriptionID == nil || item.Year == nil || item.Month == nil {
			return 0, fmt.Errorf("subscription id, year, and month required")
		}
		return s.repo.MarkChargePaid(ctx, *item.SubscriptionID, *item.Year, *item.Month)
	default:
		return 0, fmt.Errorf("unknown obligation type %q", item.Type)
	}
}

func orderItem(order *models.Order) Item {
	due := dates.DateOnly(order.SalesAt)
	item := Item{
		ID:           order.ID,
		Type:         TypeOneTime,
		CustomerName: fallbackCustomerName,
		Amount:       order.Amount.StringFixed(2),
		DueDate:      dates.Format(due),
		dueAt:        due,
	}
	if order.Description != nil {
		item.Description = *order.Description
	}
	if order.Customer != nil && order.Customer.Name != "" {
		item.CustomerName = order.Customer.Name
	}
	return item
}

func chargeItem(charge *models.SubscriptionPaid) Item {
	due := dates.EndOfMonth(charge.Year, charge.Month)
	year, month := charge.Year, charge.Month
	item := Item{
		ID:             charge.ID,
		Type:           TypeSubscription,
		CustomerName:   fallbackCustomerName,
		Description:    fallbackDescription,
		Amount:         charge.Amount.StringFixed(2),
		DueDate:        dates.Format(due),
		SubscriptionID: &charge.SubscriptionID,
		Year:           &year,
		Month:          &month,
		dueAt:          due,
	}
	if sub := charge.Subscription; sub != nil {
		if sub.Description != nil && *sub.Description != "" {
			item.Description = *sub.Description
		}
		if sub.Customer != nil && sub.Customer.Name != "" {
			item.CustomerName = sub.Customer.Name
		}
	}
	return item
}
