package model

import (
	"time"
)

// OrderStatus is the closed set of states an order moves through.
// The values are part of the external order contract, do not rename.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the known order states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is the order aggregate header. TotalAmount is derived from the
// items at creation time and never recomputed on read. Version backs the
// optimistic lock on status updates.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;size:36"`
	CustomerName    string      `json:"customer_name" gorm:"not null"`
	CustomerEmail   string      `json:"customer_email" gorm:"index;not null"`
	PhoneNumber     string      `json:"phone_number"`
	ShippingAddress string      `json:"shipping_address"`
	OrderDate       time.Time   `json:"order_date" gorm:"index;not null"`
	Status          OrderStatus `json:"status" gorm:"size:16;index;not null;default:'PENDING'"`
	TotalAmount     float64     `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Version         int64       `json:"-" gorm:"not null;default:0"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. ProductName and UnitPrice are
// snapshots taken at order time; the catalog is never consulted again
// for an existing line.
type OrderItem struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	OrderID     string  `json:"order_id" gorm:"size:36;index;not null"`
	ProductID   string  `json:"product_id" gorm:"index;not null"`
	ProductName string  `json:"product_name" gorm:"not null"`
	Quantity    int     `json:"quantity" gorm:"not null"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	TotalPrice  float64 `json:"total_price" gorm:"type:decimal(12,2);not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
