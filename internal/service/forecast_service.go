package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/freshmart-lab/commerce-core/internal/model"
	"github.com/freshmart-lab/commerce-core/internal/repository"
	"github.com/freshmart-lab/commerce-core/pkg/logger"
)

const (
	// forecastWindowDays is the trailing window length and also the flat
	// divisor for the moving average, even for categories that sold on
	// fewer days. Downstream consumers depend on this exact semantics.
	forecastWindowDays = 30

	// forecastConfidence is a fixed constant; the model does not derive
	// confidence from variance.
	forecastConfidence = 0.8
)

// SalesForecastView is the aggregate returned to the caller; the
// per-category rows behind it are persisted individually.
type SalesForecastView struct {
	ForecastDate       string             `json:"forecast_date"`
	ForecastType       string             `json:"forecast_type"`
	ForecastByCategory map[string]float64 `json:"forecast_by_category"`
	PredictedTotal     float64            `json:"predicted_total"`
}

// ForecastService computes a naive next-day forecast per category from
// a trailing 30-day window of sales facts.
type ForecastService interface {
	Generate(ctx context.Context, forecastType string) (*SalesForecastView, error)
}

type forecastService struct {
	facts     repository.SalesFactRepository
	forecasts repository.ForecastRepository
	now       func() time.Time
}

func NewForecastService(facts repository.SalesFactRepository, forecasts repository.ForecastRepository) ForecastService {
	return &forecastService{facts: facts, forecasts: forecasts, now: time.Now}
}

// Generate forecasts tomorrow's sales per category as the 30-day simple
// moving average of the window ending today (inclusive). Categories
// with no facts in the window are absent from the output rather than
// forecast as zero.
func (s *forecastService) Generate(ctx context.Context, forecastType string) (*SalesForecastView, error) {
	today := model.DateOf(s.now())
	windowStart := today.AddDate(0, 0, -forecastWindowDays)
	forecastDate := today.AddDate(0, 0, 1)

	byCategory, err := s.facts.SumByCategory(ctx, windowStart, today)
	if err != nil {
		return nil, err
	}

	view := &SalesForecastView{
		ForecastDate:       forecastDate.Format("2006-01-02"),
		ForecastType:       forecastType,
		ForecastByCategory: make(map[string]float64, len(byCategory)),
	}
	for category, sum := range byCategory {
		predicted := sum / float64(forecastWindowDays)
		if err := s.forecasts.Save(ctx, &model.SalesForecast{
			ID:              uuid.New().String(),
			ForecastDate:    forecastDate,
			ForecastType:    forecastType,
			Category:        category,
			PredictedAmount: predicted,
			ConfidenceLevel: forecastConfidence,
		}); err != nil {
			return nil, err
		}
		view.ForecastByCategory[category] = predicted
		view.PredictedTotal += predicted
	}

	logger.Info("sales forecast generated",
		zap.String("forecast_date", view.ForecastDate),
		zap.String("forecast_type", forecastType),
		zap.Int("categories", len(view.ForecastByCategory)),
		zap.Float64("predicted_total", view.PredictedTotal))
	return view, nil
}
