package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/freshmart-lab/commerce-core/internal/catalog"
	"github.com/freshmart-lab/commerce-core/internal/model"
	"github.com/freshmart-lab/commerce-core/internal/repository"
	"github.com/freshmart-lab/commerce-core/pkg/logger"
)

// CreateOrderItem is one requested line: what the customer asked for,
// before pricing.
type CreateOrderItem struct {
	ProductID string
	Quantity  int
}

// CreateOrderRequest carries the customer info and requested items for
// a new order.
type CreateOrderRequest struct {
	CustomerName    string
	CustomerEmail   string
	PhoneNumber     string
	ShippingAddress string
	Items           []CreateOrderItem
}

// OrderService builds and mutates order aggregates. Pricing always
// comes from the catalog at creation time and is stored as a snapshot.
type OrderService interface {
	Create(ctx context.Context, req CreateOrderRequest) (*model.Order, error)
	Get(ctx context.Context, id string) (*model.Order, error)
	ListAll(ctx context.Context) ([]*model.Order, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	Delete(ctx context.Context, id string) error
}

type orderService struct {
	orders  repository.OrderRepository
	catalog catalog.Client
	now     func() time.Time
}

func NewOrderService(orders repository.OrderRepository, cat catalog.Client) OrderService {
	return &orderService{orders: orders, catalog: cat, now: time.Now}
}

// Create resolves each requested line against the catalog, snapshots
// the effective price, and persists the aggregate atomically.
//
// Policy on resolution failures: an unknown product drops that line and
// the order proceeds without it; an unreachable catalog aborts the whole
// call so a partially-priced order is never persisted.
func (s *orderService) Create(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	order := &model.Order{
		ID:              uuid.New().String(),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		PhoneNumber:     req.PhoneNumber,
		ShippingAddress: req.ShippingAddress,
		OrderDate:       s.now().UTC(),
		Status:          model.OrderStatusPending,
	}

	var total float64
	for _, it := range req.Items {
		product, err := s.catalog.Resolve(ctx, it.ProductID)
		if errors.Is(err, catalog.ErrNotFound) {
			logger.Warn("dropping unknown product from order",
				zap.String("order_id", order.ID), zap.String("product_id", it.ProductID))
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, ErrUpstreamUnavailable
		}

		unit := product.EffectivePrice()
		item := model.OrderItem{
			ID:          uuid.New().String(),
			OrderID:     order.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   unit,
			TotalPrice:  unit * float64(it.Quantity),
		}
		order.Items = append(order.Items, item)
		total += item.TotalPrice
	}
	order.TotalAmount = total

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.TotalAmount))
	return order, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListAll(ctx context.Context) ([]*model.Order, error) {
	return s.orders.ListAll(ctx)
}

func (s *orderService) ListByCustomerEmail(ctx context.Context, email string) ([]*model.Order, error) {
	return s.orders.ListByCustomerEmail(ctx, email)
}

// UpdateStatus overwrites the order status using the stored version as
// an optimistic lock, so two concurrent updates cannot silently lose
// one of the writes.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	matched, err := s.orders.UpdateStatus(ctx, id, status, order.Version)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, ErrStatusConflict
	}
	order.Status = status
	order.Version++
	return order, nil
}

// Delete removes the order and its items. Deleting an absent id is not
// an error.
func (s *orderService) Delete(ctx context.Context, id string) error {
	return s.orders.Delete(ctx, id)
}
