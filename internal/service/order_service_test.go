package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmart-lab/commerce-core/internal/catalog"
	"github.com/freshmart-lab/commerce-core/internal/model"
	"github.com/freshmart-lab/commerce-core/internal/repository"
)

func newOrderFixture(t *testing.T) (OrderService, repository.OrderRepository, *fakeCatalog) {
	t.Helper()
	repo := repository.NewOrderRepository(setupTestDB(t))
	cat := newFakeCatalog()
	return NewOrderService(repo, cat), repo, cat
}

func TestOrderService_CreateSnapshotsEffectivePrices(t *testing.T) {
	svc, repo, cat := newOrderFixture(t)
	cat.add(catalog.Product{ID: "p1", Name: "Oat Milk", Category: "dairy", Price: 2.00})
	cat.add(catalog.Product{ID: "p2", Name: "Cheddar", Category: "dairy", Price: 7.00, DiscountPrice: 5.00, Discounted: true})

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName:    "Ada",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: "1 Analytical Way",
		Items: []CreateOrderItem{
			{ProductID: "p1", Quantity: 3},
			{ProductID: "p2", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	// qty 3 @ 2.00 + qty 1 @ 5.00 (discounted from 7.00) = 11.00
	assert.InDelta(t, 11.00, order.TotalAmount, 1e-9)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.InDelta(t, 2.00, order.Items[0].UnitPrice, 1e-9)
	assert.InDelta(t, 5.00, order.Items[1].UnitPrice, 1e-9)
	assert.Equal(t, "Cheddar", order.Items[1].ProductName)

	// The stored snapshot must not move when the catalog price does.
	cat.products["p2"].DiscountPrice = 1.00
	got, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	var sum float64
	for _, it := range got.Items {
		sum += it.TotalPrice
	}
	assert.InDelta(t, got.TotalAmount, sum, 1e-9)
	assert.InDelta(t, 11.00, got.TotalAmount, 1e-9)
}

func TestOrderService_CreateDropsUnknownProducts(t *testing.T) {
	svc, _, cat := newOrderFixture(t)
	cat.add(catalog.Product{ID: "p1", Name: "Bananas", Category: "produce", Price: 1.50})

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items: []CreateOrderItem{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "gone", Quantity: 1},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "p1", order.Items[0].ProductID)
	assert.InDelta(t, 3.00, order.TotalAmount, 1e-9)
}

func TestOrderService_CreateAllLinesUnknown(t *testing.T) {
	svc, repo, _ := newOrderFixture(t)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items:         []CreateOrderItem{{ProductID: "gone", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Empty(t, order.Items)
	assert.Zero(t, order.TotalAmount)

	got, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestOrderService_CreateAbortsWhenCatalogUnavailable(t *testing.T) {
	svc, repo, cat := newOrderFixture(t)
	cat.add(catalog.Product{ID: "p1", Name: "Bananas", Category: "produce", Price: 1.50})
	cat.unavailable["p2"] = true

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items: []CreateOrderItem{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrUpstreamUnavailable)

	// all-or-nothing: no partial order was persisted
	orders, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	svc, _, cat := newOrderFixture(t)
	cat.add(catalog.Product{ID: "p1", Name: "Bananas", Category: "produce", Price: 1.50})

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items:         []CreateOrderItem{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPaid, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), order.ID, model.OrderStatus("SHREDDED"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(context.Background(), "no-such-id", model.OrderStatusPaid)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// staleReadRepo simulates a writer racing between our read and our
// conditional write by always reporting version 0.
type staleReadRepo struct {
	repository.OrderRepository
}

func (r *staleReadRepo) GetByID(ctx context.Context, id string) (*model.Order, error) {
	order, err := r.OrderRepository.GetByID(ctx, id)
	if order != nil {
		order.Version = 0
	}
	return order, err
}

func TestOrderService_UpdateStatusConflict(t *testing.T) {
	repo := repository.NewOrderRepository(setupTestDB(t))
	cat := newFakeCatalog()
	cat.add(catalog.Product{ID: "p1", Name: "Bananas", Category: "produce", Price: 1.50})

	svc := NewOrderService(repo, cat)
	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items:         []CreateOrderItem{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	// First update bumps the version past what staleReadRepo reports.
	_, err = svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusPaid)
	require.NoError(t, err)

	racy := NewOrderService(&staleReadRepo{OrderRepository: repo}, cat)
	_, err = racy.UpdateStatus(context.Background(), order.ID, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrStatusConflict)
}

func TestOrderService_DeleteIdempotent(t *testing.T) {
	svc, _, cat := newOrderFixture(t)
	cat.add(catalog.Product{ID: "p1", Name: "Bananas", Category: "produce", Price: 1.50})

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items:         []CreateOrderItem{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), order.ID))
	require.NoError(t, svc.Delete(context.Background(), order.ID))

	_, err = svc.Get(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_OrderDateIsCreationInstant(t *testing.T) {
	repo := repository.NewOrderRepository(setupTestDB(t))
	cat := newFakeCatalog()
	cat.add(catalog.Product{ID: "p1", Name: "Bananas", Category: "produce", Price: 1.50})

	at := time.Date(2024, 3, 10, 15, 4, 5, 0, time.UTC)
	svc := NewOrderService(repo, cat).(*orderService)
	svc.now = fixedClock(at)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Items:         []CreateOrderItem{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, order.OrderDate.Equal(at))
}
