package service

import (
	"context"

	"go-storefront/internal/model"
	"go-storefront/internal/ws"

	"go.uber.org/zap"
)

// LowStockNotifier is told about products that fell below their minimum.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, product model.Product) error
}

// notifier bundles the change feed and the low-stock alerts shared by the
// services that move stock.
type notifier struct {
	hub    *ws.Hub
	alerts LowStockNotifier
	log    *zap.Logger
}

func newNotifier(hub *ws.Hub, alerts LowStockNotifier, log *zap.Logger) notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return notifier{hub: hub, alerts: alerts, log: log}
}

func (n notifier) publish(eventType string, data interface{}, actor Actor, message string) {
	n.hub.Publish(ws.Event{Type: eventType, Data: data, Actor: actor.wsActor(), Message: message})
}

// stockChanged publishes the new totals and raises low-stock alerts.
func (n notifier) stockChanged(ctx context.Context, actor Actor, products ...*model.Product) {
	for _, p := range products {
		n.publish(ws.EventStockChanged, map[string]interface{}{
			"id":       p.ID,
			"sku":      p.SKU,
			"stock":    p.Stock,
			"avg_cost": p.AvgCost,
		}, actor, "")

		if n.alerts == nil || !p.IsLowStock() {
			continue
		}
		if err := n.alerts.NotifyLowStock(ctx, *p); err != nil {
			n.log.Warn("low stock alert not queued",
				zap.String("sku", p.SKU),
				zap.Error(err))
		}
	}
}
