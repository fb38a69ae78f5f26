package customers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rileysalas/clientdesk-backend/pkg/db/models"
	pkgerrors "github.com/rileysalas/clientdesk-backend/pkg/errors"
)

type stubRepo struct {
	customers    map[uuid.UUID]*models.Customer
	orderCount   map[uuid.UUID]int64
	subCount     map[uuid.UUID]int64
	deleteCalled bool
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		customers:  map[uuid.UUID]*models.Customer{},
		orderCount: map[uuid.UUID]int64{},
		subCount:   map[uuid.UUID]int64{},
	}
}

func (s *stubRepo) Create(_ context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	s.customers[customer.ID] = customer
	return customer, nil
}

func (s *stubRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, ok := s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return customer, nil
}

func (s *stubRepo) List(_ context.Context, _ string) ([]models.Customer, error) {
	out := make([]models.Customer, 0, len(s.customers))
	for _, customer := range s.customers {
		out = append(out, *customer)
	}
	return out, nil
}

func (s *stubRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) error {
	customer, ok := s.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"]; ok {
		customer.Name = name.(string)
	}
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleteCalled = true
	delete(s.customers, id)
	return nil
}

func (s *stubRepo) CountOrders(_ context.Context, id uuid.UUID) (int64, error) {
	return s.orderCount[id], nil
}

func (s *stubRepo) CountSubscriptions(_ context.Context, id uuid.UUID) (int64, error) {
	return s.subCount[id], nil
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	require.NoError(t, err)
	return svc
}

func TestCreateRequiresName(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	_, err := svc.Create(context.Background(), Input{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestDeleteGuardedByOrders(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	customer, err := svc.Create(context.Background(), Input{Name: "Acme Co"})
	require.NoError(t, err)
	repo.orderCount[customer.ID] = 2

	err = svc.Delete(context.Background(), customer.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "customer has existing orders", typed.Message())
	assert.False(t, repo.deleteCalled)

	// the customer row survives
	_, err = svc.Get(context.Background(), customer.ID)
	require.NoError(t, err)
}

func TestDeleteGuardedBySubscriptions(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	customer, err := svc.Create(context.Background(), Input{Name: "Acme Co"})
	require.NoError(t, err)
	repo.subCount[customer.ID] = 1

	err = svc.Delete(context.Background(), customer.ID)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "customer has existing subscriptions", typed.Message())
	assert.False(t, repo.deleteCalled)
}

func TestDeleteWithoutDependents(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)

	customer, err := svc.Create(context.Background(), Input{Name: "Acme Co"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), customer.ID))
	assert.True(t, repo.deleteCalled)

	_, err = svc.Get(context.Background(), customer.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestGetUnknownCustomer(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
