package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
)

type stubRepo struct {
	subs      map[uuid.UUID]*models.Subscription
	amounts   map[uuid.UUID]*models.SubscriptionAmount
	paidRows  []models.SubscriptionPaid
	totals    map[uuid.UUID]PaidTotals
	createdAm []*models.SubscriptionAmount
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		subs:    map[uuid.UUID]*models.Subscription{},
		amounts: map[uuid.UUID]*models.SubscriptionAmount{},
		totals:  map[uuid.UUID]PaidTotals{},
	}
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(_ context.Context, sub *models.Subscription) (*models.Subscription, error) {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	s.subs[sub.ID] = sub
	return sub, nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Subscription, error) {
	sub, ok := s.subs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sub, nil
}

func (s *stubRepo) List(_ context.Context) ([]models.Subscription, error) {
	out := make([]models.Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		out = append(out, *sub)
	}
	return out, nil
}

func (s *stubRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) error {
	sub, ok := s.subs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if desc, ok := updates["description"]; ok {
		value := desc.(string)
		sub.Description = &value
	}
	return nil
}

func (s *stubRepo) CreateAmount(_ context.Context, amount *models.SubscriptionAmount) (*models.SubscriptionAmount, error) {
	if amount.ID == uuid.Nil {
		amount.ID = uuid.New()
	}
	s.amounts[amount.ID] = amount
	s.createdAm = append(s.createdAm, amount)
	if sub, ok := s.subs[amount.SubscriptionID]; ok {
		sub.Amounts = append(sub.Amounts, *amount)
	}
	return amount, nil
}

func (s *stubRepo) FindAmountByID(_ context.Context, id uuid.UUID) (*models.SubscriptionAmount, error) {
	amount, ok := s.amounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return amount, nil
}

func (s *stubRepo) UpdateAmount(_ context.Context, id uuid.UUID, _ map[string]any) error {
	if _, ok := s.amounts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *stubRepo) DeleteAmount(_ context.Context, id uuid.UUID) error {
	delete(s.amounts, id)
	return nil
}

func (s *stubRepo) PaidTotals(_ context.Context) (map[uuid.UUID]PaidTotals, error) {
	return s.totals, nil
}

func (s *stubRepo) HasPaidRow(_ context.Context, subscriptionID uuid.UUID, year, month int) (bool, error) {
	for _, row := range s.paidRows {
		if row.SubscriptionID == subscriptionID && row.Year == year && row.Month == month {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) CreatePaidRow(_ context.Context, row *models.SubscriptionPaid) error {
	s.paidRows = append(s.paidRows, *row)
	return nil
}

type stubCustomers struct {
	customers map[uuid.UUID]*models.Customer
}

func (s *stubCustomers) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, ok := s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

type stubTx struct{}

func (stubTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func newTestService(t *testing.T, repo *stubRepo, customers *stubCustomers, now time.Time) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:      repo,
		Customers: customers,
		Tx:        stubTx{},
		Now:       func() time.Time { return now },
	})
	require.NoError(t, err)
	return svc
}

func seedCustomer(name string) (*stubCustomers, uuid.UUID) {
	id := uuid.New()
	return &stubCustomers{customers: map[uuid.UUID]*models.Customer{
		id: {ID: id, Name: name},
	}}, id
}

func TestCreateUnknownCustomer(t *testing.T) {
	customers := &stubCustomers{customers: map[uuid.UUID]*models.Customer{}}
	svc := newTestService(t, newStubRepo(), customers, day("2025-06-15"))

	_, err := svc.Create(context.Background(), CreateInput{CustomerID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateWithInitialAmount(t *testing.T) {
	customers, customerID := seedCustomer("Acme Co")
	repo := newStubRepo()
	svc := newTestService(t, repo, customers, day("2025-06-15"))

	amount := decimal.RequireFromString("250.00")
	start := day("2025-06-01")
	view, err := svc.Create(context.Background(), CreateInput{
		CustomerID:       customerID,
		InitialAmount:    &amount,
		InitialStartDate: &start,
	})
	require.NoError(t, err)

	require.Len(t, repo.createdAm, 1)
	assert.Equal(t, "Acme Co", view.CustomerName)
	assert.Equal(t, StatusActive, view.Status)
	require.NotNil(t, view.CurrentAmount)
	assert.Equal(t, "250.00", *view.CurrentAmount)
}

func TestCreateInitialAmountRequiresStartDate(t *testing.T) {
	customers, customerID := seedCustomer("Acme Co")
	svc := newTestService(t, newStubRepo(), customers, day("2025-06-15"))

	amount := decimal.RequireFromString("250.00")
	_, err := svc.Create(context.Background(), CreateInput{
		CustomerID:    customerID,
		InitialAmount: &amount,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestAddAmountValidation(t *testing.T) {
	customers, customerID := seedCustomer("Acme Co")
	repo := newStubRepo()
	svc := newTestService(t, repo, customers, day("2025-06-15"))

	view, err := svc.Create(context.Background(), CreateInput{CustomerID: customerID})
	require.NoError(t, err)

	_, err = svc.AddAmount(context.Background(), view.SubscriptionID, AmountInput{
		Amount:    decimal.Zero,
		StartDate: day("2025-06-01"),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	end := day("2025-06-01")
	_, err = svc.AddAmount(context.Background(), view.SubscriptionID, AmountInput{
		Amount:    decimal.RequireFromString("10.00"),
		StartDate: day("2025-06-01"),
		EndDate:   &end,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListResolvesViewFields(t *testing.T) {
	customers, customerID := seedCustomer("Acme Co")
	repo := newStubRepo()
	now := day("2025-06-15")
	svc := newTestService(t, repo, customers, now)

	subID := uuid.New()
	end := day("2025-05-01")
	repo.subs[subID] = &models.Subscription{
		ID:         subID,
		CustomerID: customerID,
		Customer:   &models.Customer{ID: customerID, Name: "Acme Co"},
		Amounts: []models.SubscriptionAmount{
			{SubscriptionID: subID, Amount: decimal.RequireFromString("100.00"), StartDate: day("2025-01-01"), EndDate: &end},
		},
	}
	repo.totals[subID] = PaidTotals{
		Paid:   decimal.RequireFromString("300.00"),
		Unpaid: decimal.RequireFromString("100.00"),
	}

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)

	view := views[0]
	assert.Equal(t, StatusInactive, view.Status)
	assert.Nil(t, view.CurrentAmount)
	require.NotNil(t, view.LatestAmount)
	assert.Equal(t, "100.00", *view.LatestAmount)
	assert.Equal(t, "300.00", view.TotalPaid)
	assert.Equal(t, "100.00", view.TotalUnpaid)
	assert.Equal(t, "400.00", view.TotalAmount)
	require.NotNil(t, view.EndDate)
	assert.Equal(t, "2025-05-01", *view.EndDate)
}

func TestListFallsBackToUnknownCustomer(t *testing.T) {
	customers, customerID := seedCustomer("Acme Co")
	repo := newStubRepo()
	svc := newTestService(t, repo, customers, day("2025-06-15"))

	subID := uuid.New()
	repo.subs[subID] = &models.Subscription{ID: subID, CustomerID: customerID}

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Unknown Customer", views[0].CustomerName)
}

func TestCalculateMonthlySnapshotsEffectivePrice(t *testing.T) {
	customers, customerID := seedCustomer("Acme Co")
	repo := newStubRepo()
	svc := newTestService(t, repo, customers, day("2025-06-15"))

	pricedID := uuid.New()
	repo.subs[pricedID] = &models.Subscription{
		ID:         pricedID,
		CustomerID: customerID,
		Amounts: []models.SubscriptionAmount{
			{SubscriptionID: pricedID, Amount: decimal.RequireFromString("200.00"), StartDate: day("2025-01-01")},
		},
	}
	unpricedID := uuid.New()
	repo.subs[unpricedID] = &models.Subscription{ID: unpricedID, CustomerID: customerID}

	span := MonthRange{FromYear: 2025, FromMonth: 6, ToYear: 2025, ToMonth: 7}
	result, err := svc.CalculateMonthly(context.Background(), span)
	require.NoError(t, err)

	// priced sub gets both months, unpriced sub is skipped for both
	assert.Equal(t, 2, result.CreatedCount)
	assert.Equal(t, 2, result.SkippedCount)
	require.Len(t, repo.paidRows, 2)
	for _, row := range repo.paidRows {
		assert.Equal(t, pricedID, row.SubscriptionID)
		assert.Equal(t, "200.00", row.Amount.StringFixed(2))
		assert.False(t, row.IsPaid)
	}

	// second run is idempotent
	result, err = svc.CalculateMonthly(context.Background(), span)
	require.NoError(t, err)
	assert.Equal(t, 0, result.CreatedCount)
	assert.Equal(t, 4, result.SkippedCount)
	assert.Len(t, repo.paidRows, 2)
}

func TestCalculateMonthlyRejectsBadRanges(t *testing.T) {
	customers, _ := seedCustomer("Acme Co")
	svc := newTestService(t, newStubRepo(), customers, day("2025-06-15"))

	cases := []MonthRange{
		{FromYear: 2025, FromMonth: 0, ToYear: 2025, ToMonth: 6},
		{FromYear: 2025, FromMonth: 13, ToYear: 2025, ToMonth: 6},
		{FromYear: 2025, FromMonth: 8, ToYear: 2025, ToMonth: 6},
		{FromYear: 2025, FromMonth: 1, ToYear: 2035, ToMonth: 1},
	}
	for _, span := range cases {
		_, err := svc.CalculateMonthly(context.Background(), span)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}
