package model

import (
	"time"
)

// SalesFact is one immutable line-level sales record derived from an
// order item by the daily batch run. OrderItemID is unique so re-running
// a derivation for the same day inserts nothing new.
type SalesFact struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Date        time.Time `json:"date" gorm:"index;not null"`
	OrderItemID string    `json:"order_item_id" gorm:"size:36;uniqueIndex;not null"`
	ProductID   string    `json:"product_id" gorm:"index;not null"`
	ProductName string    `json:"product_name" gorm:"not null"`
	Category    string    `json:"category" gorm:"index;not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	Amount      float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (SalesFact) TableName() string {
	return "sales_facts"
}

// DateOf truncates t to its UTC calendar day. Every fact and forecast
// date in the store goes through this so range comparisons stay exact.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
