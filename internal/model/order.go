package model

import (
	"time"

	"github.com/google/uuid"

	"go-storefront/internal/pricing"
)

type OrderStatus string

const (
	OrderWaiting    OrderStatus = "WAITING"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDone       OrderStatus = "DONE"
	OrderCancelled  OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderWaiting:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderDone, OrderCancelled},
	OrderShipped:    {OrderDone, OrderCancelled},
}

// IsTerminal reports whether no further transition is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDone || s == OrderCancelled
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OpenOrderStatuses lists every non-terminal status.
var OpenOrderStatuses = []OrderStatus{OrderWaiting, OrderProcessing, OrderShipped}

type Channel string

const (
	ChannelStorefront Channel = "STOREFRONT"
	ChannelPOS        Channel = "POS"
)

type PaymentMethod string

const (
	PayCash     PaymentMethod = "CASH"
	PayTransfer PaymentMethod = "TRANSFER"
	PayEWallet  PaymentMethod = "EWALLET"
)

type PriceTier string

const (
	TierRetail    PriceTier = "RETAIL"
	TierWholesale PriceTier = "WHOLESALE"
)

// Order is a storefront or point-of-sale order. Totals are always derived
// server side from product prices and the shipping table.
type Order struct {
	BaseModel
	Code            string                 `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`
	Channel         Channel                `gorm:"type:varchar(20);not null;index" json:"channel"`
	CustomerID      *uuid.UUID             `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName    string                 `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone   string                 `gorm:"type:varchar(30)" json:"customer_phone"`
	ShippingAddress string                 `gorm:"type:text" json:"shipping_address"`
	WarehouseID     uuid.UUID              `gorm:"type:uuid;not null;index" json:"warehouse_id"`
	Items           []OrderItem            `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal        int64                  `gorm:"not null" json:"subtotal"`
	ShippingCost    int64                  `gorm:"not null" json:"shipping_cost"`
	Total           int64                  `gorm:"not null" json:"total"`
	DeliveryMethod  pricing.DeliveryMethod `gorm:"type:varchar(20);not null" json:"delivery_method"`
	PaymentMethod   PaymentMethod          `gorm:"type:varchar(20);not null" json:"payment_method"`
	AmountTendered  int64                  `gorm:"not null;default:0" json:"amount_tendered"`
	Change          int64                  `gorm:"not null;default:0" json:"change"`
	Status          OrderStatus            `gorm:"type:varchar(20);not null;index" json:"status"`
	StockDeducted   bool                   `gorm:"not null" json:"stock_deducted"`
	CompletedAt     *time.Time             `gorm:"index" json:"completed_at,omitempty"`
	Note            string                 `gorm:"type:text" json:"note,omitempty"`
}

type OrderItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	SKU       string    `gorm:"type:varchar(50)" json:"sku"`
	Name      string    `gorm:"type:varchar(255)" json:"name"`
	Tier      PriceTier `gorm:"type:varchar(10);not null" json:"tier"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	LineTotal int64     `gorm:"not null" json:"line_total"`
}
