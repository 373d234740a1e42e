// Package handler exposes the order and admin analytics HTTP API.
package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/freshmart-lab/commerce-core/internal/model"
	"github.com/freshmart-lab/commerce-core/internal/service"
)

type Handler struct {
	orderService    service.OrderService
	reportService   service.ReportService
	forecastService service.ForecastService
	deriver         *service.SalesDeriver
}

func NewHandler(
	orders service.OrderService,
	reports service.ReportService,
	forecasts service.ForecastService,
	deriver *service.SalesDeriver,
) *Handler {
	registerValidations()
	return &Handler{
		orderService:    orders,
		reportService:   reports,
		forecastService: forecasts,
		deriver:         deriver,
	}
}

// registerValidations adds the "orderstatus" rule to gin's validator so
// status values are rejected at bind time.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
			return model.OrderStatus(fl.Field().String()).Valid()
		})
	}
}
