package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/freshmart-lab/commerce-core/internal/model"
)

// ForecastRepository stores one row per (forecast run, category).
type ForecastRepository interface {
	Save(ctx context.Context, forecast *model.SalesForecast) error
	ListByDate(ctx context.Context, date time.Time) ([]*model.SalesForecast, error)
}

type forecastRepository struct {
	db *gorm.DB
}

func NewForecastRepository(db *gorm.DB) ForecastRepository { return &forecastRepository{db: db} }

func (r *forecastRepository) Save(ctx context.Context, forecast *model.SalesForecast) error {
	return r.db.WithContext(ctx).Create(forecast).Error
}

func (r *forecastRepository) ListByDate(ctx context.Context, date time.Time) ([]*model.SalesForecast, error) {
	var forecasts []*model.SalesForecast
	err := r.db.WithContext(ctx).
		Where("forecast_date = ?", date).
		Order("category").
		Find(&forecasts).Error
	return forecasts, err
}
