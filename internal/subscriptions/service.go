package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/dates"
	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
)

const maxMonthRangeSpan = 36

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// Service exposes subscription lifecycle, price history, and the monthly
// obligation generation run.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*View, error)
	Get(ctx context.Context, id uuid.UUID) (*View, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) error
	List(ctx context.Context) ([]View, error)

	ListAmounts(ctx context.Context, subscriptionID uuid.UUID) ([]AmountView, error)
	AddAmount(ctx context.Context, subscriptionID uuid.UUID, input AmountInput) (*AmountView, error)
	UpdateAmount(ctx context.Context, subscriptionID, amountID uuid.UUID, input AmountInput) error
	DeleteAmount(ctx context.Context, subscriptionID, amountID uuid.UUID) error

	CalculateMonthly(ctx context.Context, span MonthRange) (*GenerateResult, error)
}

// ServiceParams carries the service dependencies.
type ServiceParams struct {
	Repo      Repository
	Customers customerFinder
	Tx        txRunner
	Now       func() time.Time
}

type service struct {
	repo      Repository
	customers customerFinder
	tx        txRunner
	now       func() time.Time
}

// NewService builds a subscriptions service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("subscriptions repository required")
	}
	if params.Customers == nil {
		return nil, fmt.Errorf("customer finder required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		customers: params.Customers,
		tx:        params.Tx,
		now:       now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*View, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.InitialAmount != nil {
		if !input.InitialAmount.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
		}
		if input.InitialStartDate == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "start date required with initial amount")
		}
	}

	customer, err := s.customers.FindByID(ctx, input.CustomerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	sub := &models.Subscription{
		CustomerID:  input.CustomerID,
		Description: input.Description,
	}

	// Subscription and its first price row commit atomically so a crash
	// cannot leave a subscription without any price history.
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, sub); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
		}
		if input.InitialAmount == nil {
			return nil
		}
		amount := &models.SubscriptionAmount{
			SubscriptionID: sub.ID,
			Amount:         *input.InitialAmount,
			StartDate:      dates.DateOnly(*input.InitialStartDate),
		}
		if _, err := repo.CreateAmount(ctx, amount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create initial amount")
		}
		sub.Amounts = append(sub.Amounts, *amount)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sub.Customer = customer
	view := s.buildView(sub, PaidTotals{})
	return &view, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	sub, err := s.findSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	totals, err := s.repo.PaidTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load paid totals")
	}
	view := s.buildView(sub, totals[sub.ID])
	return &view, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) error {
	if _, err := s.findSubscription(ctx, id); err != nil {
		return err
	}
	updates := map[string]any{}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) == 0 {
		return nil
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update subscription")
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]View, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}
	totals, err := s.repo.PaidTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load paid totals")
	}

	views := make([]View, 0, len(subs))
	for i := range subs {
		views = append(views, s.buildView(&subs[i], totals[subs[i].ID]))
	}
	return views, nil
}

func (s *service) ListAmounts(ctx context.Context, subscriptionID uuid.UUID) ([]AmountView, error) {
	sub, err := s.findSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	views := make([]AmountView, 0, len(sub.Amounts))
	for _, amount := range sortedByStartDesc(sub.Amounts) {
		views = append(views, buildAmountView(amount))
	}
	return views, nil
}

func (s *service) AddAmount(ctx context.Context, subscriptionID uuid.UUID, input AmountInput) (*AmountView, error) {
	if _, err := s.findSubscription(ctx, subscriptionID); err != nil {
		return nil, err
	}
	if err := validateAmountInput(input); err != nil {
		return nil, err
	}

	amount := &models.SubscriptionAmount{
		SubscriptionID: subscriptionID,
		Amount:         input.Amount,
		StartDate:      dates.DateOnly(input.StartDate),
	}
	if input.EndDate != nil {
		end := dates.DateOnly(*input.EndDate)
		amount.EndDate = &end
	}
	if _, err := s.repo.CreateAmount(ctx, amount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create amount")
	}
	view := buildAmountView(*amount)
	return &view, nil
}

func (s *service) UpdateAmount(ctx context.Context, subscriptionID, amountID uuid.UUID, input AmountInput) error {
	amount, err := s.findAmount(ctx, subscriptionID, amountID)
	if err != nil {
		return err
	}
	if err := validateAmountInput(input); err != nil {
		return err
	}

	updates := map[string]any{
		"amount":     input.Amount,
		"start_date": dates.DateOnly(input.StartDate),
	}
	if input.EndDate != nil {
		updates["end_date"] = dates.DateOnly(*input.EndDate)
	} else {
		updates["end_date"] = nil
	}
	if err := s.repo.UpdateAmount(ctx, amount.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update amount")
	}
	return nil
}

func (s *service) DeleteAmount(ctx context.Context, subscriptionID, amountID uuid.UUID) error {
	amount, err := s.findAmount(ctx, subscriptionID, amountID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAmount(ctx, amount.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete amount")
	}
	return nil
}

// CalculateMonthly materializes one subscription_paid row per (subscription,
// month) in the span, snapshotting the price effective on the first of that
// month. Months where a subscription has no effective price are skipped, as
// are months already generated.
func (s *service) CalculateMonthly(ctx context.Context, span MonthRange) (*GenerateResult, error) {
	if err := validateMonthRange(span); err != nil {
		return nil, err
	}

	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list subscriptions")
	}

	result := &GenerateResult{}
	for year, month := span.FromYear, span.FromMonth; year < span.ToYear || (year == span.ToYear && month <= span.ToMonth); year, month = nextMonth(year, month) {
		monthStart := dates.StartOfMonth(year, month)
		for i := range subs {
			sub := &subs[i]
			effective := EffectiveAmount(sub.Amounts, monthStart)
			if effective == nil {
				result.SkippedCount++
				continue
			}
			exists, err := s.repo.HasPaidRow(ctx, sub.ID, year, month)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check obligation row")
			}
			if exists {
				result.SkippedCount++
				continue
			}
			row := &models.SubscriptionPaid{
				SubscriptionID: sub.ID,
				Year:           year,
				Month:          month,
				Amount:         effective.Amount,
				IsPaid:         false,
			}
			if err := s.repo.CreatePaidRow(ctx, row); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create obligation row")
			}
			result.CreatedCount++
		}
	}
	return result, nil
}

func (s *service) findSubscription(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subscription id required")
	}
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "subscription not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}
	return sub, nil
}

func (s *service) findAmount(ctx context.Context, subscriptionID, amountID uuid.UUID) (*models.SubscriptionAmount, error) {
	if _, err := s.findSubscription(ctx, subscriptionID); err != nil {
		return nil, err
	}
	amount, err := s.repo.FindAmountByID(ctx, amountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "amount not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load amount")
	}
	if amount.SubscriptionID != subscriptionID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "amount not found")
	}
	return amount, nil
}

func (s *service) buildView(sub *models.Subscription, totals PaidTotals) View {
	now := s.now()
	view := View{
		SubscriptionID: sub.ID,
		CustomerID:     sub.CustomerID,
		CustomerName:   customerDisplayName(sub.Customer),
		Description:    sub.Description,
		TotalPaid:      totals.Paid.StringFixed(2),
		TotalUnpaid:    totals.Unpaid.StringFixed(2),
		TotalAmount:    totals.Paid.Add(totals.Unpaid).StringFixed(2),
		Status:         StatusFor(sub.Amounts, now),
		CreatedAt:      sub.CreatedAt,
	}
	if effective := EffectiveAmount(sub.Amounts, now); effective != nil {
		current := effective.Amount.StringFixed(2)
		view.CurrentAmount = &current
	}
	if latest := LatestAmount(sub.Amounts); latest != nil {
		amount := latest.Amount.StringFixed(2)
		view.LatestAmount = &amount
		start := dates.Format(latest.StartDate)
		view.StartDate = &start
	}
	view.EndDate = dates.FormatPtr(LatestEndedDate(sub.Amounts))
	return view
}

func buildAmountView(amount models.SubscriptionAmount) AmountView {
	return AmountView{
		AmountID:       amount.ID,
		SubscriptionID: amount.SubscriptionID,
		Amount:         amount.Amount.StringFixed(2),
		StartDate:      dates.Format(amount.StartDate),
		EndDate:        dates.FormatPtr(amount.EndDate),
	}
}

func customerDisplayName(customer *models.Customer) string {
	if customer == nil || customer.Name == "" {
		return "Unknown Customer"
	}
	return customer.Name
}

func validateAmountInput(input AmountInput) error {
	if !input.Amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.StartDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start date required")
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end date must be after start date")
	}
	return nil
}

func validateMonthRange(span MonthRange) error {
	if span.FromMonth < 1 || span.FromMonth > 12 || span.ToMonth < 1 || span.ToMonth > 12 {
		return pkgerrors.New(pkgerrors.CodeValidation, "month must be between 1 and 12")
	}
	if span.FromYear > span.ToYear || (span.FromYear == span.ToYear && span.FromMonth > span.ToMonth) {
		return pkgerrors.New(pkgerrors.CodeValidation, "range start must not be after range end")
	}
	months := (span.ToYear-span.FromYear)*12 + span.ToMonth - span.FromMonth + 1
	if months > maxMonthRangeSpan {
		return pkgerrors.New(pkgerrors.CodeValidation, "range spans too many months")
	}
	return nil
}

func nextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}
