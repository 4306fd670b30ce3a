package repository

import (
	"context"
	"time"

	"go-storefront/internal/model"

	"gorm.io/gorm"
)

// StockMovementData is one day of inbound and outbound units.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// DashboardStats is the back-office overview.
type DashboardStats struct {
	TotalProducts  int64 `json:"total_products"`
	LowStockCount  int64 `json:"low_stock_count"`
	OutOfStock     int64 `json:"out_of_stock_count"`
	InventoryValue int64 `json:"inventory_value"`
	RetailValue    int64 `json:"retail_value"`
	OpenOrders     int64 `json:"open_orders"`
	UnpaidPurchase int64 `json:"unpaid_purchases"`
}

// SalesSummary aggregates completed orders over a range.
type SalesSummary struct {
	Orders    int64 `json:"orders"`
	Subtotal  int64 `json:"subtotal"`
	Shipping  int64 `json:"shipping"`
	Revenue   int64 `json:"revenue"`
	ItemsSold int64 `json:"items_sold"`
}

// TopProduct is a best seller row.
type TopProduct struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

type ReportRepository interface {
	GetStockMovement(ctx context.Context, start, end time.Time) ([]StockMovementData, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
	GetSalesSummary(ctx context.Context, start, end time.Time) (*SalesSummary, error)
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProduct, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

// GetStockMovement aggregates the stock log per day. Transfers move stock
// between warehouses and are left out.
func (r *reportRepo) GetStockMovement(ctx context.Context, start, end time.Time) ([]StockMovementData, error) {
	results := []StockMovementData{}
	err := r.db.WithContext(ctx).Model(&model.StockLog{}).
		Select(`
			CAST(DATE(created_at) AS TEXT) AS date,
			COALESCE(SUM(CASE WHEN delta > 0 THEN delta ELSE 0 END), 0) AS inbound,
			COALESCE(SUM(CASE WHEN delta < 0 THEN -delta ELSE 0 END), 0) AS outbound
		`).
		Where("created_at >= ? AND created_at < ?", start, end).
		Where("reason NOT IN ?", []model.StockReason{model.ReasonTransferIn, model.ReasonTransferOut}).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&results).Error
	return results, err
}

func (r *reportRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	db := r.db.WithContext(ctx)
	products := func() *gorm.DB { return db.Model(&model.Product{}).Where("is_active = ?", true) }

	if err := products().Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := products().Where("min_stock > 0 AND stock < min_stock").Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}
	if err := products().Where("stock = 0").Count(&stats.OutOfStock).Error; err != nil {
		return nil, err
	}
	if err := products().Select("COALESCE(SUM(stock * avg_cost), 0)").Scan(&stats.InventoryValue).Error; err != nil {
		return nil, err
	}
	if err := products().Select("COALESCE(SUM(stock * retail_price), 0)").Scan(&stats.RetailValue).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Order{}).Where("status IN ?", model.OpenOrderStatuses).Count(&stats.OpenOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Purchase{}).Where("payment_status = ?", model.PaymentUnpaid).Count(&stats.UnpaidPurchase).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *reportRepo) GetSalesSummary(ctx context.Context, start, end time.Time) (*SalesSummary, error) {
	var summary SalesSummary
	db := r.db.WithContext(ctx)

	err := db.Model(&model.Order{}).
		Select(`
			COUNT(*) AS orders,
			COALESCE(SUM(subtotal), 0) AS subtotal,
			COALESCE(SUM(shipping_cost), 0) AS shipping,
			COALESCE(SUM(total), 0) AS revenue
		`).
		Where("status = ? AND completed_at >= ? AND completed_at < ?", model.OrderDone, start, end).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}

	err = db.Table("order_items").
		Joins("JOIN orders ON orders.id = order_items.order_id AND orders.deleted_at IS NULL").
		Where("orders.status = ? AND orders.completed_at >= ? AND orders.completed_at < ?", model.OrderDone, start, end).
		Select("COALESCE(SUM(order_items.quantity), 0)").
		Scan(&summary.ItemsSold).Error
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *reportRepo) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	results := []TopProduct{}
	err := r.db.WithContext(ctx).Table("order_items").
		Select(`
			order_items.product_id AS product_id,
			MAX(order_items.sku) AS sku,
			MAX(order_items.name) AS name,
			SUM(order_items.quantity) AS quantity,
			SUM(order_items.line_total) AS revenue
		`).
		Joins("JOIN orders ON orders.id = order_items.order_id AND orders.deleted_at IS NULL").
		Where("orders.status = ? AND orders.completed_at >= ? AND orders.completed_at < ?", model.OrderDone, start, end).
		Group("order_items.product_id").
		Order("quantity DESC").
		Limit(limit).
		Scan(&results).Error
	return results, err
}
