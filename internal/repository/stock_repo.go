package repository

import (
	"context"
	"errors"
	"time"

	"go-storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockLogFilter narrows the stock audit trail.
type StockLogFilter struct {
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	Reason      model.StockReason
	Reference   string
	From        *time.Time
	To          *time.Time
	Page        Page
}

// StockRepository persists warehouse ledger rows and their audit log.
type StockRepository interface {
	Level(tx *gorm.DB, productID, warehouseID uuid.UUID) (int, error)
	SaveLevel(tx *gorm.DB, productID, warehouseID uuid.UUID, quantity int) error
	SumByProduct(tx *gorm.DB, productID uuid.UUID) (int, error)
	Levels(ctx context.Context, productID uuid.UUID) ([]model.WarehouseStock, error)
	SumByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int, error)
	AppendLog(tx *gorm.DB, entry *model.StockLog) error
	ListLogs(ctx context.Context, f StockLogFilter) ([]model.StockLog, int64, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

// Level returns the quantity held, treating a missing row as zero.
func (r *stockRepo) Level(tx *gorm.DB, productID, warehouseID uuid.UUID) (int, error) {
	var row model.WarehouseStock
	err := tx.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Quantity, nil
}

func (r *stockRepo) SaveLevel(tx *gorm.DB, productID, warehouseID uuid.UUID, quantity int) error {
	row := model.WarehouseStock{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    quantity,
		UpdatedAt:   time.Now(),
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
	}).Create(&row).Error
}

func (r *stockRepo) SumByProduct(tx *gorm.DB, productID uuid.UUID) (int, error) {
	var total int
	err := tx.Model(&model.WarehouseStock{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *stockRepo) Levels(ctx context.Context, productID uuid.UUID) ([]model.WarehouseStock, error) {
	var rows []model.WarehouseStock
	err := r.db.WithContext(ctx).Preload("Warehouse").
		Where("product_id = ?", productID).
		Find(&rows).Error
	return rows, err
}

func (r *stockRepo) SumByWarehouse(ctx context.Context, warehouseID uuid.UUID) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&model.WarehouseStock{}).
		Where("warehouse_id = ?", warehouseID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *stockRepo) AppendLog(tx *gorm.DB, entry *model.StockLog) error {
	return tx.Omit(clause.Associations).Create(entry).Error
}

func (r *stockRepo) ListLogs(ctx context.Context, f StockLogFilter) ([]model.StockLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockLog{})
	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}
	if f.WarehouseID != nil {
		q = q.Where("warehouse_id = ?", *f.WarehouseID)
	}
	if f.Reason != "" {
		q = q.Where("reason = ?", f.Reason)
	}
	if f.Reference != "" {
		q = q.Where("reference = ?", f.Reference)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []model.StockLog
	err := q.Preload("Product").Preload("Warehouse").
		Scopes(paginate(f.Page)).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, total, err
}
