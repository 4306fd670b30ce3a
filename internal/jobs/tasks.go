package jobs

import (
	"encoding/json"
	"time"

	"go-storefront/internal/model"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue every storefront job runs on.
	QueueDefault = "default"
	// TaskLowStockAlert reports a single product that fell below its minimum.
	TaskLowStockAlert = "inventory:low_stock"
	// TaskLowStockScan sweeps all products for low stock on a schedule.
	TaskLowStockScan = "inventory:low_stock_scan"
)

// LowStockPayload is the snapshot taken when the alert was raised.
type LowStockPayload struct {
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	MinStock  int       `json:"min_stock"`
	At        time.Time `json:"at"`
}

// NewLowStockTask builds the alert task for a product.
func NewLowStockTask(p model.Product, at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(LowStockPayload{
		ProductID: p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Stock:     p.Stock,
		MinStock:  p.MinStock,
		At:        at,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockAlert, body, asynq.Queue(QueueDefault), asynq.MaxRetry(3)), nil
}

// NewLowStockScanTask builds the periodic sweep task. It carries no payload.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskLowStockScan, nil, asynq.Queue(QueueDefault), asynq.MaxRetry(1))
}
