package repository

import (
	"context"
	"time"

	"go-storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PurchaseFilter struct {
	SupplierID    *uuid.UUID
	PaymentStatus model.PaymentStatus
	ReceiptStatus model.ReceiptStatus
	Page          Page
}

type PurchaseRepository interface {
	Create(ctx context.Context, p *model.Purchase) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, f PurchaseFilter) ([]model.Purchase, int64, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error)
	MarkReceived(tx *gorm.DB, id uuid.UUID, at time.Time, by string) error
	MarkPaid(ctx context.Context, id uuid.UUID, at time.Time, by string) error
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) Create(ctx context.Context, p *model.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).
		Preload("Supplier").Preload("Warehouse").Preload("Items.Product").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepo) List(ctx context.Context, f PurchaseFilter) ([]model.Purchase, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Purchase{})
	if f.SupplierID != nil {
		q = q.Where("supplier_id = ?", *f.SupplierID)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	if f.ReceiptStatus != "" {
		q = q.Where("receipt_status = ?", f.ReceiptStatus)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []model.Purchase
	err := q.Preload("Supplier").Preload("Items").
		Scopes(paginate(f.Page)).
		Order("created_at DESC").
		Find(&out).Error
	return out, total, err
}

// LockByID loads a purchase with its items and holds the row lock.
func (r *purchaseRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("purchase_id = ?", p.ID).Order("id ASC").Find(&p.Items).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *purchaseRepo) MarkReceived(tx *gorm.DB, id uuid.UUID, at time.Time, by string) error {
	return tx.Model(&model.Purchase{}).Where("id = ?", id).Updates(map[string]interface{}{
		"receipt_status": model.ReceiptReceived,
		"received_at":    at,
		"received_by":    by,
		"updated_by":     by,
	}).Error
}

func (r *purchaseRepo) MarkPaid(ctx context.Context, id uuid.UUID, at time.Time, by string) error {
	return r.db.WithContext(ctx).Model(&model.Purchase{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_status": model.PaymentPaid,
		"paid_at":        at,
		"updated_by":     by,
	}).Error
}
