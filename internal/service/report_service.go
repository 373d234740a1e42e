package service

import (
	"context"
	"time"

	"github.com/freshmart-lab/commerce-core/internal/model"
	"github.com/freshmart-lab/commerce-core/internal/repository"
)

// SalesReport is computed on demand over an inclusive date range and
// never persisted.
//
// TotalOrderLines counts line-level facts, not distinct orders.
// SalesByProduct is ordered descending by amount and serialized as a
// slice so the ranking reaches callers intact.
type SalesReport struct {
	StartDate       string                    `json:"start_date"`
	EndDate         string                    `json:"end_date"`
	TotalSales      float64                   `json:"total_sales"`
	TotalOrderLines int64                     `json:"total_orders"`
	SalesByCategory map[string]float64        `json:"sales_by_category"`
	SalesByProduct  []repository.ProductSales `json:"sales_by_product"`
}

// ReportService computes sales reports from the fact store.
type ReportService interface {
	Generate(ctx context.Context, start, end time.Time) (*SalesReport, error)
}

type reportService struct {
	facts repository.SalesFactRepository
}

func NewReportService(facts repository.SalesFactRepository) ReportService {
	return &reportService{facts: facts}
}

func (s *reportService) Generate(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	start, end = model.DateOf(start), model.DateOf(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}

	total, err := s.facts.SumAmount(ctx, start, end)
	if err != nil {
		return nil, err
	}
	count, err := s.facts.CountFacts(ctx, start, end)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.facts.SumByCategory(ctx, start, end)
	if err != nil {
		return nil, err
	}
	byProduct, err := s.facts.SumByProduct(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &SalesReport{
		StartDate:       start.Format("2006-01-02"),
		EndDate:         end.Format("2006-01-02"),
		TotalSales:      total,
		TotalOrderLines: count,
		SalesByCategory: byCategory,
		SalesByProduct:  byProduct,
	}, nil
}
