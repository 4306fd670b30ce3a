package repository

import (
	"context"
	"time"

	"go-storefront/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status   model.OrderStatus
	Channel  model.Channel
	Search   string
	From, To *time.Time
	Page     Page
}

type OrderRepository interface {
	Create(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByCode(ctx context.Context, code string) (*model.Order, error)
	List(ctx context.Context, f OrderFilter) ([]model.Order, int64, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (*model.Order, error)
	SaveStatus(tx *gorm.DB, o *model.Order) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func (r *orderRepo) Create(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindByCode(ctx context.Context, code string) (*model.Order, error) {
	var o model.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) List(ctx context.Context, f OrderFilter) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Channel != "" {
		q = q.Where("channel = ?", f.Channel)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("LOWER(code) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ?", p, p, p)
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

	var out []model.Order
	err := q.Preload("Items").
		Scopes(paginate(f.Page)).
		Order("created_at DESC").
		Find(&out).Error
	return out, total, err
}

func (r *orderRepo) LockByID(tx *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Where("order_id = ?", o.ID).Order("id ASC").Find(&o.Items).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// SaveStatus persists the lifecycle columns of an order.
func (r *orderRepo) SaveStatus(tx *gorm.DB, o *model.Order) error {
	return tx.Model(&model.Order{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
		"status":          o.Status,
		"stock_deducted":  o.StockDeducted,
		"completed_at":    o.CompletedAt,
		"amount_tendered": o.AmountTendered,
		"change":          o.Change,
		"updated_by":      o.UpdatedBy,
	}).Error
}
