package model

import (
	"time"
)

// SalesForecast is one persisted next-day prediction for a single
// category. ForecastType is an open label ("DAILY", "PROMO", ...) chosen
// by the caller, unlike OrderStatus it is not a closed set.
type SalesForecast struct {
	ID              string    `json:"id" gorm:"primaryKey;size:36"`
	ForecastDate    time.Time `json:"forecast_date" gorm:"index;not null"`
	ForecastType    string    `json:"forecast_type" gorm:"index;not null"`
	Category        string    `json:"category" gorm:"not null"`
	PredictedAmount float64   `json:"predicted_amount" gorm:"type:decimal(12,2);not null"`
	ConfidenceLevel float64   `json:"confidence_level" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
}

func (SalesForecast) TableName() string {
	return "sales_forecasts"
}
