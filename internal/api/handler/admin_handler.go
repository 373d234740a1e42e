package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freshmart-lab/commerce-core/internal/service"
	"github.com/freshmart-lab/commerce-core/pkg/response"
)

const dateLayout = "2006-01-02"

// GenerateSalesReport computes a sales report over a date range
// @Summary Sales report
// @Tags admin
// @Produce json
// @Param start_date query string true "inclusive start (YYYY-MM-DD)"
// @Param end_date query string true "inclusive end (YYYY-MM-DD)"
// @Success 200 {object} response.Response{data=service.SalesReport}
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/reports/sales [get]
func (h *Handler) GenerateSalesReport(c *gin.Context) {
	start, err := time.Parse(dateLayout, c.Query("start_date"))
	if err != nil {
		response.BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end_date"))
	if err != nil {
		response.BadRequest(c, "end_date must be YYYY-MM-DD")
		return
	}

	report, err := h.reportService.Generate(c.Request.Context(), start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, report)
}

// GenerateForecast runs the naive next-day forecast
// @Summary Generate sales forecast
// @Tags admin
// @Produce json
// @Param type query string false "forecast type label" default(DAILY)
// @Success 200 {object} response.Response{data=service.SalesForecastView}
// @Router /api/v1/admin/forecasts [post]
func (h *Handler) GenerateForecast(c *gin.Context) {
	forecastType := c.DefaultQuery("type", "DAILY")
	view, err := h.forecastService.Generate(c.Request.Context(), forecastType)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, view)
}

// ProcessDailySalesData triggers the daily fact derivation batch
// @Summary Derive yesterday's sales facts
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=service.DeriveResult}
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/sales-data/process [post]
func (h *Handler) ProcessDailySalesData(c *gin.Context) {
	result, err := h.deriver.ProcessDailySales(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrDerivationRunning) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, result)
}
