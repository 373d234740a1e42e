package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/freshmart-lab/commerce-core/internal/model"
)

// OrderRepository owns order + line item persistence.
type OrderRepository interface {
	// Create persists the aggregate; header and items commit together.
	Create(ctx context.Context, order *model.Order) error

	// GetByID loads an order with its items, nil if absent.
	GetByID(ctx context.Context, id string) (*model.Order, error)

	// ListAll returns every order, newest first, items included.
	ListAll(ctx context.Context) ([]*model.Order, error)

	// ListByCustomerEmail returns a customer's orders, newest first.
	ListByCustomerEmail(ctx context.Context, email string) ([]*model.Order, error)

	// ListByDateRange returns orders with from <= order_date < to.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.Order, error)

	// UpdateStatus overwrites status iff the stored version still matches.
	// matched is false when no row satisfied (id, version).
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus, version int64) (matched bool, err error)

	// Delete removes the order and its items; absent ids are a no-op.
	Delete(ctx context.Context, id string) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepository{db: db} }

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	// gorm writes the header and the Items association inside one
	// default transaction, which is exactly the atomicity we need.
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).Preload("Items").Order("order_date DESC").Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByCustomerEmail(ctx context.Context, email string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_email = ?", email).
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("order_date >= ? AND order_date < ?", from, to).
		Order("order_date").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus, version int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(map[string]any{"status": status, "version": version + 1})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Items go first: sqlite does not enforce the cascade without
		// foreign keys enabled, so the delete is made explicit.
		if err := tx.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Order{}).Error
	})
}
