package jobs

import (
	"context"
	"errors"
	"time"

	"go-storefront/internal/model"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// alertWindow suppresses repeated alerts for the same product.
const alertWindow = 30 * time.Minute

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Enqueuer submits storefront jobs. It satisfies the low-stock notifier used
// by the inventory, purchase and order services.
type Enqueuer struct {
	client taskEnqueuer
	log    *zap.Logger
	now    func() time.Time
}

// NewEnqueuer wraps an asynq client.
func NewEnqueuer(client *asynq.Client, log *zap.Logger) *Enqueuer {
	return newEnqueuer(client, log)
}

func newEnqueuer(client taskEnqueuer, log *zap.Logger) *Enqueuer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Enqueuer{client: client, log: log.Named("jobs"), now: time.Now}
}

// NotifyLowStock enqueues an alert. A second alert for the same product within
// alertWindow is dropped silently.
func (e *Enqueuer) NotifyLowStock(ctx context.Context, p model.Product) error {
	task, err := NewLowStockTask(p, e.now())
	if err != nil {
		return err
	}
	info, err := e.client.EnqueueContext(ctx, task, asynq.Unique(alertWindow))
	if errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return err
	}
	e.log.Debug("low stock alert queued", zap.String("sku", p.SKU), zap.String("task_id", info.ID))
	return nil
}
