// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"

	"go-storefront/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a migrated in-memory SQLite database. A single connection
// keeps every query on the same memory database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Warehouse inserts a warehouse.
func Warehouse(t *testing.T, db *gorm.DB, code string, isDefault bool) *model.Warehouse {
	t.Helper()
	w := &model.Warehouse{Code: code, Name: "Warehouse " + code, IsDefault: isDefault}
	if err := db.Create(w).Error; err != nil {
		t.Fatalf("create warehouse: %v", err)
	}
	return w
}

// Product inserts an active product without stock.
func Product(t *testing.T, db *gorm.DB, sku string, retail, wholesale int64) *model.Product {
	t.Helper()
	p := &model.Product{
		SKU:            sku,
		Name:           "Product " + sku,
		Unit:           "PCS",
		RetailPrice:    retail,
		WholesalePrice: wholesale,
		IsActive:       true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}
