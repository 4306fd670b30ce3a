package repository

import (
	"context"

	"go-storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WarehouseRepository interface {
	Create(ctx context.Context, w *model.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	FindByCode(ctx context.Context, code string) (*model.Warehouse, error)
	FindDefault(ctx context.Context) (*model.Warehouse, error)
	FindAll(ctx context.Context) ([]model.Warehouse, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, w *model.Warehouse) error
	SetDefault(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID, deletedBy string) error
}

type warehouseRepo struct {
	db *gorm.DB
}

func NewWarehouseRepo(db *gorm.DB) WarehouseRepository {
	return &warehouseRepo{db}
}

func (r *warehouseRepo) Create(ctx context.Context, w *model.Warehouse) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *warehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var w model.Warehouse
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *warehouseRepo) FindByCode(ctx context.Context, code string) (*model.Warehouse, error) {
	var w model.Warehouse
	if err := r.db.WithContext(ctx).First(&w, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *warehouseRepo) FindDefault(ctx context.Context) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.WithContext(ctx).
		Order("is_default DESC").Order("created_at ASC").
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *warehouseRepo) FindAll(ctx context.Context) ([]model.Warehouse, error) {
	var ws []model.Warehouse
	err := r.db.WithContext(ctx).Order("is_default DESC").Order("name ASC").Find(&ws).Error
	return ws, err
}

func (r *warehouseRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Warehouse{}).Count(&n).Error
	return n, err
}

func (r *warehouseRepo) Update(ctx context.Context, w *model.Warehouse) error {
	return r.db.WithContext(ctx).Model(w).Select("name", "address", "updated_by").Updates(w).Error
}

// SetDefault moves the default flag to id.
func (r *warehouseRepo) SetDefault(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Warehouse{}).Where("is_default = ?", true).Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Warehouse{}).Where("id = ?", id).Update("is_default", true).Error
	})
}

func (r *warehouseRepo) Delete(ctx context.Context, id uuid.UUID, deletedBy string) error {
	return softDelete(r.db.WithContext(ctx), &model.Warehouse{}, id, deletedBy)
}
