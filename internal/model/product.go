package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is a sellable item. Stock and AvgCost are owned by the stock ledger
// and never written from a product form.
type Product struct {
	BaseModel
	SKU            string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Barcode        string     `gorm:"type:varchar(64);index" json:"barcode"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category       string     `gorm:"type:varchar(100);index" json:"category"`
	Location       string     `gorm:"type:varchar(100)" json:"location"`
	Description    string     `gorm:"type:text" json:"description"`
	ImageURL       string     `gorm:"type:varchar(500)" json:"image_url"`
	Unit           string     `gorm:"type:varchar(20);not null" json:"unit" validate:"required"`
	RetailPrice    int64      `gorm:"not null;default:0" json:"retail_price" validate:"gte=0"`
	WholesalePrice int64      `gorm:"not null;default:0" json:"wholesale_price" validate:"gte=0"`
	AvgCost        int64      `gorm:"not null;default:0" json:"avg_cost"`
	Stock          int        `gorm:"not null;default:0" json:"stock"`
	MinStock       int        `gorm:"not null;default:0" json:"min_stock" validate:"gte=0"`
	ReceivedAt     *time.Time `json:"received_at,omitempty"`
	ExpiryDate     *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`
	IsActive       bool       `gorm:"not null" json:"is_active"`

	Levels []WarehouseStock `gorm:"foreignKey:ProductID" json:"-"`
}

// IsLowStock reports whether the total on hand is below the threshold.
func (p *Product) IsLowStock() bool {
	return p.MinStock > 0 && p.Stock < p.MinStock
}

// PriceFor returns the unit price for the given tier.
func (p *Product) PriceFor(tier PriceTier) int64 {
	if tier == TierWholesale {
		return p.WholesalePrice
	}
	return p.RetailPrice
}

// StockByWarehouse flattens the loaded ledger rows.
func (p *Product) StockByWarehouse() map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(p.Levels))
	for _, l := range p.Levels {
		out[l.WarehouseID] = l.Quantity
	}
	return out
}

// ProductResponse is the back-office view of a product.
type ProductResponse struct {
	ID               uuid.UUID         `json:"id"`
	SKU              string            `json:"sku"`
	Barcode          string            `json:"barcode"`
	Name             string            `json:"name"`
	Category         string            `json:"category"`
	Location         string            `json:"location"`
	Description      string            `json:"description"`
	ImageURL         string            `json:"image_url"`
	Unit             string            `json:"unit"`
	RetailPrice      int64             `json:"retail_price"`
	WholesalePrice   int64             `json:"wholesale_price"`
	AvgCost          int64             `json:"avg_cost"`
	Stock            int               `json:"stock"`
	MinStock         int               `json:"min_stock"`
	LowStock         bool              `json:"low_stock"`
	StockByWarehouse map[uuid.UUID]int `json:"stock_by_warehouse"`
	ReceivedAt       *time.Time        `json:"received_at,omitempty"`
	ExpiryDate       *time.Time        `json:"expiry_date,omitempty"`
	IsActive         bool              `json:"is_active"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	CreatedBy        string            `json:"created_by"`
	UpdatedBy        string            `json:"updated_by"`
}

func (p *Product) ToResponse() ProductResponse {
	return ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		Barcode:          p.Barcode,
		Name:             p.Name,
		Category:         p.Category,
		Location:         p.Location,
		Description:      p.Description,
		ImageURL:         p.ImageURL,
		Unit:             p.Unit,
		RetailPrice:      p.RetailPrice,
		WholesalePrice:   p.WholesalePrice,
		AvgCost:          p.AvgCost,
		Stock:            p.Stock,
		MinStock:         p.MinStock,
		LowStock:         p.IsLowStock(),
		StockByWarehouse: p.StockByWarehouse(),
		ReceivedAt:       p.ReceivedAt,
		ExpiryDate:       p.ExpiryDate,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
		CreatedBy:        p.CreatedBy,
		UpdatedBy:        p.UpdatedBy,
	}
}

// CatalogItem is what the storefront sees: no cost, no audit.
type CatalogItem struct {
	ID             uuid.UUID `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	ImageURL       string    `json:"image_url"`
	Unit           string    `json:"unit"`
	RetailPrice    int64     `json:"retail_price"`
	WholesalePrice int64     `json:"wholesale_price"`
	InStock        bool      `json:"in_stock"`
	Stock          int       `json:"stock"`
}

func (p *Product) ToCatalogItem() CatalogItem {
	return CatalogItem{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Category:       p.Category,
		Description:    p.Description,
		ImageURL:       p.ImageURL,
		Unit:           p.Unit,
		RetailPrice:    p.RetailPrice,
		WholesalePrice: p.WholesalePrice,
		InStock:        p.Stock > 0,
		Stock:          p.Stock,
	}
}
