// Package catalog talks to the product catalog service. Pricing and
// category data always come from here; nothing in this repo owns product
// records.
package catalog

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means the catalog answered but does not know the id.
	ErrNotFound = errors.New("catalog: product not found")
	// ErrUnavailable means the catalog could not be reached or answered
	// with a server error. Retryable at the caller's discretion.
	ErrUnavailable = errors.New("catalog: service unavailable")
)

// Product is the catalog's view of an item at the moment of the call.
type Product struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	DiscountPrice float64 `json:"discountPrice"`
	Discounted    bool    `json:"isDiscounted"`
}

// EffectivePrice is the price actually charged: the discount price while
// a discount is active, the list price otherwise.
func (p *Product) EffectivePrice() float64 {
	if p.Discounted {
		return p.DiscountPrice
	}
	return p.Price
}

// Client resolves product ids against the catalog boundary. It is an
// injected capability so services can be tested with a double.
type Client interface {
	Resolve(ctx context.Context, productID string) (*Product, error)
}
