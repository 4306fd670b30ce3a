package model

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a physical stock location.
type Warehouse struct {
	BaseModel
	Code      string `gorm:"type:varchar(30);uniqueIndex;not null" json:"code" validate:"required"`
	Name      string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address   string `gorm:"type:text" json:"address"`
	IsDefault bool   `gorm:"not null" json:"is_default"`
}

// WarehouseStock is one ledger row: how many units of a product sit in a
// warehouse. The sum over all rows of a product is Product.Stock.
type WarehouseStock struct {
	ProductID   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"product_id"`
	WarehouseID uuid.UUID  `gorm:"type:uuid;primaryKey;index" json:"warehouse_id"`
	Warehouse   *Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Quantity    int        `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (WarehouseStock) TableName() string {
	return "warehouse_stocks"
}
