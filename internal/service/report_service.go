package service

import (
	"context"
	"time"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"golang.org/x/sync/errgroup"
)

type ReportService interface {
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
	GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error)
	GetSalesSummary(ctx context.Context, from, to time.Time) (*SalesReport, error)
	GetLowStock(ctx context.Context, page repository.Page) ([]model.Product, int64, error)
}

// SalesReport is the sales summary of a date range with its best sellers.
type SalesReport struct {
	From        time.Time                `json:"from"`
	To          time.Time                `json:"to"`
	Summary     *repository.SalesSummary `json:"summary"`
	TopProducts []repository.TopProduct  `json:"top_products"`
}

const maxMovementDays = 366

type reportService struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
	now         func() time.Time
}

func NewReportService(reportRepo repository.ReportRepository, productRepo repository.ProductRepository) ReportService {
	return &reportService{reportRepo: reportRepo, productRepo: productRepo, now: time.Now}
}

func (s *reportService) GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error) {
	return s.reportRepo.GetDashboardStats(ctx)
}

// GetStockMovement covers the last days days including today.
func (s *reportService) GetStockMovement(ctx context.Context, days int) ([]repository.StockMovementData, error) {
	if days <= 0 {
		days = 7
	}
	if days > maxMovementDays {
		return nil, invalidf("days must be at most %d", maxMovementDays)
	}
	end := startOfDay(s.now()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)
	return s.reportRepo.GetStockMovement(ctx, start, end)
}

// GetSalesSummary reports completed orders with from <= completed_at < to+1 day.
func (s *reportService) GetSalesSummary(ctx context.Context, from, to time.Time) (*SalesReport, error) {
	if to.Before(from) {
		return nil, invalidf("'to' must not be before 'from'")
	}
	start := startOfDay(from)
	end := startOfDay(to).AddDate(0, 0, 1)

	report := &SalesReport{From: start, To: end}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.reportRepo.GetSalesSummary(gctx, start, end)
		report.Summary = summary
		return err
	})
	g.Go(func() error {
		top, err := s.reportRepo.GetTopProducts(gctx, start, end, 10)
		report.TopProducts = top
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) GetLowStock(ctx context.Context, page repository.Page) ([]model.Product, int64, error) {
	return s.productRepo.List(ctx, repository.ProductFilter{ActiveOnly: true, LowStockOnly: true, Page: page})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
