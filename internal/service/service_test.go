package service

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshmart-lab/commerce-core/internal/catalog"
	"github.com/freshmart-lab/commerce-core/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeCatalog is the test double for the catalog boundary.
type fakeCatalog struct {
	products    map[string]*catalog.Product
	unavailable map[string]bool
	calls       map[string]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products:    make(map[string]*catalog.Product),
		unavailable: make(map[string]bool),
		calls:       make(map[string]int),
	}
}

func (f *fakeCatalog) add(p catalog.Product) {
	f.products[p.ID] = &p
}

func (f *fakeCatalog) Resolve(_ context.Context, productID string) (*catalog.Product, error) {
	f.calls[productID]++
	if f.unavailable[productID] {
		return nil, catalog.ErrUnavailable
	}
	p, ok := f.products[productID]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
