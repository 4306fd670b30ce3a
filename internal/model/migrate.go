package model

import "gorm.io/gorm"

// AutoMigrate creates or updates every table of the store.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Privilege{},
		&Role{},
		&User{},
		&Warehouse{},
		&Product{},
		&WarehouseStock{},
		&StockLog{},
		&Customer{},
		&Supplier{},
		&Purchase{},
		&PurchaseItem{},
		&Order{},
		&OrderItem{},
	)
}
