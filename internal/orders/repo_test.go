package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	"github.com/rileysalas/clientdesk-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  address TEXT,
  notes TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  description TEXT,
  sales_at DATETIME NOT NULL,
  is_paid INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func seedCustomer(t *testing.T, db *gorm.DB, name string) *models.Customer {
	t.Helper()
	customer := &models.Customer{ID: uuid.New(), Name: name}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedOrder(t *testing.T, db *gorm.DB, customerID uuid.UUID, amount string, salesAt time.Time, paid bool, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		Amount:     decimal.RequireFromString(amount),
		SalesAt:    salesAt,
		IsPaid:     paid,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestListFiltersByPaidAndWindow(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	customer := seedCustomer(t, db, "Acme Co")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	unpaid := seedOrder(t, db, customer.ID, "100.00", day("2025-06-05"), false, base)
	seedOrder(t, db, customer.ID, "200.00", day("2025-06-10"), true, base.Add(time.Minute))
	seedOrder(t, db, customer.ID, "300.00", day("2025-07-01"), false, base.Add(2*time.Minute))

	paid := false
	from := day("2025-06-01")
	to := day("2025-06-30")
	rows, err := repo.List(context.Background(), Filters{
		Paid:     &paid,
		DateFrom: &from,
		DateTo:   &to,
	}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, unpaid.ID, rows[0].ID)
}

func TestListCursorPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	customer := seedCustomer(t, db, "Acme Co")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedOrder(t, db, customer.ID, "50.00", day("2025-06-05"), false, base.Add(time.Duration(i)*time.Minute))
	}

	first, err := repo.List(context.Background(), Filters{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	// limit+1 buffer row signals another page
	require.Len(t, first, 3)

	cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID})
	second, err := repo.List(context.Background(), Filters{}, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.True(t, second[0].CreatedAt.Before(first[1].CreatedAt) ||
		(second[0].CreatedAt.Equal(first[1].CreatedAt) && second[0].ID.String() < first[1].ID.String()))
}

func TestListQueryMatchesCustomerName(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	acme := seedCustomer(t, db, "Acme Co")
	other := seedCustomer(t, db, "Bravo Ltd")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	match := seedOrder(t, db, acme.ID, "10.00", day("2025-06-05"), false, base)
	seedOrder(t, db, other.ID, "20.00", day("2025-06-05"), false, base.Add(time.Minute))

	rows, err := repo.List(context.Background(), Filters{Query: "Acme"}, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, match.ID, rows[0].ID)
}

func TestListDueExcludesPaidAndFuture(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	customer := seedCustomer(t, db, "Acme Co")

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	due := seedOrder(t, db, customer.ID, "10.00", day("2025-06-10"), false, base)
	seedOrder(t, db, customer.ID, "20.00", day("2025-06-10"), true, base.Add(time.Minute))
	seedOrder(t, db, customer.ID, "30.00", day("2025-07-10"), false, base.Add(2*time.Minute))

	rows, err := repo.ListDue(context.Background(), day("2025-06-15"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, due.ID, rows[0].ID)
	require.NotNil(t, rows[0].Customer)
	assert.Equal(t, "Acme Co", rows[0].Customer.Name)
}

func TestUpdateReportsRowsAffected(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	customer := seedCustomer(t, db, "Acme Co")
	order := seedOrder(t, db, customer.ID, "10.00", day("2025-06-10"), false, time.Now().UTC())

	affected, err := repo.Update(context.Background(), order.ID, map[string]any{"is_paid": true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.Update(context.Background(), uuid.New(), map[string]any{"is_paid": true})
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
