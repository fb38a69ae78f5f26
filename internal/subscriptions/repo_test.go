package subscriptions

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
)

func setupSubscriptionsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  address TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS subscriptions (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  description TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS subscription_amounts (
  id TEXT PRIMARY KEY,
  subscription_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  start_date DATETIME NOT NULL,
  end_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS subscription_paid (
  id TEXT PRIMARY KEY,
  subscription_id TEXT NOT NULL,
  year INTEGER NOT NULL,
  month INTEGER NOT NULL,
  amount NUMERIC NOT NULL,
  is_paid INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (subscription_id, year, month)
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedSubscription(t *testing.T, db *gorm.DB) *models.Subscription {
	t.Helper()
	customer := &models.Customer{ID: uuid.New(), Name: "Acme Co"}
	require.NoError(t, db.Create(customer).Error)
	sub := &models.Subscription{ID: uuid.New(), CustomerID: customer.ID}
	require.NoError(t, db.Create(sub).Error)
	return sub
}

func seedPaidRow(t *testing.T, db *gorm.DB, subID uuid.UUID, year, month int, amount string, paid bool) {
	t.Helper()
	row := &models.SubscriptionPaid{
		ID:             uuid.New(),
		SubscriptionID: subID,
		Year:           year,
		Month:          month,
		Amount:         decimal.RequireFromString(amount),
		IsPaid:         paid,
	}
	require.NoError(t, db.Create(row).Error)
}

func TestFindByIDPreloadsRelations(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)
	sub := seedSubscription(t, db)

	amount := &models.SubscriptionAmount{
		ID:             uuid.New(),
		SubscriptionID: sub.ID,
		Amount:         decimal.RequireFromString("99.00"),
		StartDate:      day("2025-01-01"),
	}
	require.NoError(t, db.Create(amount).Error)

	got, err := repo.FindByID(context.Background(), sub.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Acme Co", got.Customer.Name)
	require.Len(t, got.Amounts, 1)
	assert.Equal(t, "99.00", got.Amounts[0].Amount.StringFixed(2))
}

func TestPaidTotalsGroupsByPaidFlag(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)
	sub := seedSubscription(t, db)
	other := seedSubscription(t, db)

	seedPaidRow(t, db, sub.ID, 2025, 1, "100.00", true)
	seedPaidRow(t, db, sub.ID, 2025, 2, "100.00", true)
	seedPaidRow(t, db, sub.ID, 2025, 3, "120.00", false)
	seedPaidRow(t, db, other.ID, 2025, 1, "50.00", false)

	totals, err := repo.PaidTotals(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "200.00", totals[sub.ID].Paid.StringFixed(2))
	assert.Equal(t, "120.00", totals[sub.ID].Unpaid.StringFixed(2))
	assert.Equal(t, "0.00", totals[other.ID].Paid.StringFixed(2))
	assert.Equal(t, "50.00", totals[other.ID].Unpaid.StringFixed(2))
}

func TestHasPaidRowMatchesExactPeriod(t *testing.T) {
	db := setupSubscriptionsTestDB(t)
	repo := NewRepository(db)
	sub := seedSubscription(t, db)

	seedPaidRow(t, db, sub.ID, 2025, 6, "75.00", false)

	exists, err := repo.HasPaidRow(context.Background(), sub.ID, 2025, 6)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.HasPaidRow(context.Background(), sub.ID, 2025, 7)
	require.NoError(t, err)
	assert.False(t, exists)
}
