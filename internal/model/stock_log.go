package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockReason classifies a ledger write.
type StockReason string

const (
	ReasonInitialStock    StockReason = "INITIAL_STOCK"
	ReasonRestock         StockReason = "RESTOCK"
	ReasonPurchaseReceipt StockReason = "PURCHASE_RECEIPT"
	ReasonSale            StockReason = "SALE"
	ReasonTransferIn      StockReason = "TRANSFER_IN"
	ReasonTransferOut     StockReason = "TRANSFER_OUT"
	ReasonOpname          StockReason = "OPNAME"
	ReasonAdjustment      StockReason = "ADJUSTMENT"
)

var ErrStockLogImmutable = errors.New("stock logs are append-only")

// StockLog records one change of a warehouse ledger row.
type StockLog struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"product_id"`
	Product     *Product    `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	WarehouseID uuid.UUID   `gorm:"type:uuid;not null;index" json:"warehouse_id"`
	Warehouse   *Warehouse  `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	PrevQty     int         `gorm:"not null" json:"prev_qty"`
	NewQty      int         `gorm:"not null" json:"new_qty"`
	Delta       int         `gorm:"not null" json:"delta"`
	PrevCost    int64       `gorm:"not null" json:"prev_cost"`
	NewCost     int64       `gorm:"not null" json:"new_cost"`
	UnitCost    int64       `gorm:"not null;default:0" json:"unit_cost"`
	Reason      StockReason `gorm:"type:varchar(30);not null;index" json:"reason"`
	Reference   string      `gorm:"type:varchar(64);index" json:"reference,omitempty"`
	Note        string      `gorm:"type:text" json:"note,omitempty"`
	ActorID     string      `gorm:"type:varchar(64)" json:"actor_id"`
	ActorName   string      `gorm:"type:varchar(255)" json:"actor_name"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
}

func (l *StockLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l *StockLog) BeforeUpdate(tx *gorm.DB) error {
	return ErrStockLogImmutable
}

func (l *StockLog) BeforeDelete(tx *gorm.DB) error {
	return ErrStockLogImmutable
}

// IsInbound reports whether the entry added stock.
func (l *StockLog) IsInbound() bool {
	return l.Delta > 0
}
