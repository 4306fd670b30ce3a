package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

type ReceiptStatus string

const (
	ReceiptPending  ReceiptStatus = "PENDING"
	ReceiptReceived ReceiptStatus = "RECEIVED"
)

// Purchase is a supplier purchase order. Receiving it feeds every line into
// the weighted average cost of its product.
type Purchase struct {
	BaseModel
	Code          string         `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`
	SupplierID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Supplier      *Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	WarehouseID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"warehouse_id"`
	Warehouse     *Warehouse     `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Items         []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
	Total         int64          `gorm:"not null" json:"total"`
	PaymentStatus PaymentStatus  `gorm:"type:varchar(10);not null;index" json:"payment_status"`
	ReceiptStatus ReceiptStatus  `gorm:"type:varchar(10);not null;index" json:"receipt_status"`
	ReceivedAt    *time.Time     `json:"received_at,omitempty"`
	ReceivedBy    string         `gorm:"type:varchar(255)" json:"received_by,omitempty"`
	PaidAt        *time.Time     `json:"paid_at,omitempty"`
	Note          string         `gorm:"type:text" json:"note,omitempty"`
}

func (p *Purchase) IsReceived() bool {
	return p.ReceiptStatus == ReceiptReceived
}

type PurchaseItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	UnitCost   int64     `gorm:"not null" json:"unit_cost"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	LineTotal  int64     `gorm:"not null" json:"line_total"`
}
