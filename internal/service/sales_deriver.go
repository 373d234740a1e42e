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

// DeriveResult summarizes one derivation run. Nothing is swallowed: the
// operator who triggered the run sees every skipped line and failed
// order in these counters.
type DeriveResult struct {
	TargetDate   time.Time `json:"target_date"`
	OrdersSeen   int       `json:"orders_seen"`
	OrdersFailed int       `json:"orders_failed"`
	LinesSkipped int       `json:"lines_skipped"`
	FactsCreated int64     `json:"facts_created"`
	FactsSkipped int64     `json:"facts_skipped"`
}

// SalesDeriver is the daily batch that explodes the previous day's
// orders into per-line sales facts.
type SalesDeriver struct {
	orders  repository.OrderRepository
	facts   repository.SalesFactRepository
	catalog catalog.Client
	lock    *DeriveLock
	now     func() time.Time
}

func NewSalesDeriver(orders repository.OrderRepository, facts repository.SalesFactRepository,
	cat catalog.Client, lock *DeriveLock) *SalesDeriver {
	return &SalesDeriver{orders: orders, facts: facts, catalog: cat, lock: lock, now: time.Now}
}

// ProcessDailySales derives facts for yesterday (UTC calendar day).
//
// The run is single-flight per target date, and safe to re-run: facts
// carry a unique order item id, so a rerun inserts nothing new. A
// failure while processing one order is recorded and the run moves on
// to the next order; facts already derived stay committed.
func (d *SalesDeriver) ProcessDailySales(ctx context.Context) (*DeriveResult, error) {
	target := model.DateOf(d.now()).AddDate(0, 0, -1)

	release, ok, err := d.lock.TryLock(ctx, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDerivationRunning
	}
	defer release()

	orders, err := d.orders.ListByDateRange(ctx, target, target.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	res := &DeriveResult{TargetDate: target}
	// Per-run resolution cache: one catalog round-trip per product, not
	// per line.
	resolved := make(map[string]*catalog.Product)
	missing := make(map[string]bool)

	for _, order := range orders {
		res.OrdersSeen++
		facts, skipped, err := d.explode(ctx, order, target, resolved, missing)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.OrdersFailed++
			logger.Error("derivation failed for order, continuing",
				zap.String("order_id", order.ID), zap.Error(err))
			continue
		}
		res.LinesSkipped += skipped

		created, err := d.facts.Append(ctx, facts)
		if err != nil {
			res.OrdersFailed++
			logger.Error("failed to append sales facts",
				zap.String("order_id", order.ID), zap.Error(err))
			continue
		}
		res.FactsCreated += created
		res.FactsSkipped += int64(len(facts)) - created
	}

	logger.Info("daily sales derivation finished",
		zap.Time("target_date", res.TargetDate),
		zap.Int("orders_seen", res.OrdersSeen),
		zap.Int("orders_failed", res.OrdersFailed),
		zap.Int("lines_skipped", res.LinesSkipped),
		zap.Int64("facts_created", res.FactsCreated),
		zap.Int64("facts_skipped", res.FactsSkipped))
	return res, nil
}

// explode turns one order into facts. The category is not stored on the
// line item, so it is re-resolved from the catalog; a product the
// catalog no longer knows skips that line, while an unreachable catalog
// aborts the whole order.
func (d *SalesDeriver) explode(ctx context.Context, order *model.Order, target time.Time,
	resolved map[string]*catalog.Product, missing map[string]bool) ([]*model.SalesFact, int, error) {

	facts := make([]*model.SalesFact, 0, len(order.Items))
	skipped := 0
	for _, item := range order.Items {
		if missing[item.ProductID] {
			skipped++
			continue
		}
		product, cached := resolved[item.ProductID]
		if !cached {
			var err error
			product, err = d.catalog.Resolve(ctx, item.ProductID)
			if errors.Is(err, catalog.ErrNotFound) {
				missing[item.ProductID] = true
				skipped++
				continue
			}
			if err != nil {
				return nil, 0, err
			}
			resolved[item.ProductID] = product
		}

		facts = append(facts, &model.SalesFact{
			ID:          uuid.New().String(),
			Date:        target,
			OrderItemID: item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Category:    product.Category,
			Quantity:    item.Quantity,
			Amount:      item.TotalPrice,
		})
	}
	return facts, skipped, nil
}
