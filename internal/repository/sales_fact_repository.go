package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/freshmart-lab/commerce-core/internal/model"
)

// ProductSales is one row of the per-product aggregate, ordered by
// amount descending when returned from SumByProduct.
type ProductSales struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Amount      float64 `json:"amount"`
}

// SalesFactRepository is the append-mostly time series of derived sales
// facts. All date ranges here are inclusive on both ends; dates are
// calendar days normalized by model.DateOf.
type SalesFactRepository interface {
	// Append inserts facts, silently skipping any whose order item was
	// already recorded. Returns the number actually inserted.
	Append(ctx context.Context, facts []*model.SalesFact) (int64, error)

	SumAmount(ctx context.Context, from, to time.Time) (float64, error)
	CountFacts(ctx context.Context, from, to time.Time) (int64, error)
	SumByCategory(ctx context.Context, from, to time.Time) (map[string]float64, error)
	SumByProduct(ctx context.Context, from, to time.Time) ([]ProductSales, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.SalesFact, error)
	ListByCategory(ctx context.Context, category string) ([]*model.SalesFact, error)
}

type salesFactRepository struct {
	db *gorm.DB
}

func NewSalesFactRepository(db *gorm.DB) SalesFactRepository { return &salesFactRepository{db: db} }

func (r *salesFactRepository) Append(ctx context.Context, facts []*model.SalesFact) (int64, error) {
	if len(facts) == 0 {
		return 0, nil
	}
	// Idempotence: order_item_id is unique, reruns become no-ops.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_item_id"}}, DoNothing: true}).
		Create(&facts)
	return res.RowsAffected, res.Error
}

func (r *salesFactRepository) SumAmount(ctx context.Context, from, to time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&model.SalesFact{}).
		Where("date BETWEEN ? AND ?", from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *salesFactRepository) CountFacts(ctx context.Context, from, to time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.SalesFact{}).
		Where("date BETWEEN ? AND ?", from, to).
		Count(&cnt).Error
	return cnt, err
}

func (r *salesFactRepository) SumByCategory(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	var rows []struct {
		Category string
		Amount   float64
	}
	err := r.db.WithContext(ctx).Model(&model.SalesFact{}).
		Select("category, SUM(amount) AS amount").
		Where("date BETWEEN ? AND ?", from, to).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Amount
	}
	return out, nil
}

func (r *salesFactRepository) SumByProduct(ctx context.Context, from, to time.Time) ([]ProductSales, error) {
	var rows []ProductSales
	err := r.db.WithContext(ctx).Model(&model.SalesFact{}).
		Select("product_id, product_name, SUM(amount) AS amount").
		Where("date BETWEEN ? AND ?", from, to).
		Group("product_id, product_name").
		Order("amount DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *salesFactRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*model.SalesFact, error) {
	var facts []*model.SalesFact
	err := r.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date").
		Find(&facts).Error
	return facts, err
}

func (r *salesFactRepository) ListByCategory(ctx context.Context, category string) ([]*model.SalesFact, error) {
	var facts []*model.SalesFact
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("date").
		Find(&facts).Error
	return facts, err
}
