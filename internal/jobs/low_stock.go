package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-storefront/internal/repository"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LowStockJob processes low-stock alerts and the periodic sweep.
type LowStockJob struct {
	products repository.ProductRepository
	log      *zap.Logger
}

func NewLowStockJob(products repository.ProductRepository, log *zap.Logger) *LowStockJob {
	if log == nil {
		log = zap.NewNop()
	}
	return &LowStockJob{products: products, log: log.Named("low_stock")}
}

// HandleAlert re-reads the product and logs the alert if it is still below
// its minimum. Products restocked or deleted since are skipped.
func (j *LowStockJob) HandleAlert(ctx context.Context, t *asynq.Task) error {
	var payload LowStockPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode low stock payload: %v: %w", err, asynq.SkipRetry)
	}

	product, err := j.products.FindByID(ctx, payload.ProductID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		j.log.Info("low stock alert for deleted product", zap.String("sku", payload.SKU))
		return nil
	}
	if err != nil {
		return err
	}
	if !product.IsLowStock() {
		j.log.Debug("low stock resolved", zap.String("sku", product.SKU), zap.Int("stock", product.Stock))
		return nil
	}

	j.log.Warn("low stock",
		zap.String("sku", product.SKU),
		zap.String("name", product.Name),
		zap.Int("stock", product.Stock),
		zap.Int("min_stock", product.MinStock),
		zap.Time("raised_at", payload.At))
	return nil
}

// HandleScan logs every active product below its minimum.
func (j *LowStockJob) HandleScan(ctx context.Context, _ *asynq.Task) error {
	products, total, err := j.products.List(ctx, repository.ProductFilter{
		ActiveOnly:   true,
		LowStockOnly: true,
		Page:         repository.Page{Page: 1, Limit: 200},
	})
	if err != nil {
		return err
	}
	for _, p := range products {
		j.log.Warn("low stock",
			zap.String("sku", p.SKU),
			zap.String("name", p.Name),
			zap.Int("stock", p.Stock),
			zap.Int("min_stock", p.MinStock))
	}
	j.log.Info("low stock scan finished", zap.Int64("products", total))
	return nil
}
