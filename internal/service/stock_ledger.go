package service

import (
	"errors"
	"fmt"

	"go-storefront/internal/costing"
	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movement describes one ledger write.
type Movement struct {
	ProductID   uuid.UUID
	WarehouseID uuid.UUID
	Reason      model.StockReason
	Reference   string
	Note        string
}

// StockLedger owns Product.Stock, Product.AvgCost and the warehouse rows.
// Every method runs on the caller's transaction, locks the product row first
// and leaves Product.Stock equal to the sum of its warehouse rows.
type StockLedger struct {
	products repository.ProductRepository
	stock    repository.StockRepository
}

func NewStockLedger(products repository.ProductRepository, stock repository.StockRepository) *StockLedger {
	return &StockLedger{products: products, stock: stock}
}

// ResolveWarehouse returns id when it names an existing warehouse, or the
// default warehouse when id is nil.
func (l *StockLedger) ResolveWarehouse(tx *gorm.DB, id *uuid.UUID) (uuid.UUID, error) {
	var w model.Warehouse
	if id != nil && *id != uuid.Nil {
		if err := tx.First(&w, "id = ?", *id).Error; err != nil {
			return uuid.Nil, notFound(err, ErrWarehouseNotFound)
		}
		return w.ID, nil
	}
	err := tx.Order("is_default DESC").Order("created_at ASC").First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrNoWarehouse
	}
	if err != nil {
		return uuid.Nil, err
	}
	return w.ID, nil
}

// Receive books qty units bought at unitCost into a warehouse and folds them
// into the product's weighted average cost.
func (l *StockLedger) Receive(tx *gorm.DB, m Movement, qty int, unitCost int64, actor Actor) (*model.Product, error) {
	product, err := l.lock(tx, m)
	if err != nil {
		return nil, err
	}

	res, err := costing.WeightedAverage(product.Stock, product.AvgCost, qty, unitCost)
	if err != nil {
		return nil, wrapKind(ErrInvalidInput, err)
	}

	prev, err := l.stock.Level(tx, m.ProductID, m.WarehouseID)
	if err != nil {
		return nil, err
	}
	return l.write(tx, product, m, prev, prev+qty, res.AvgCost, unitCost, actor)
}

// SetQuantity overwrites a warehouse row with a counted quantity.
func (l *StockLedger) SetQuantity(tx *gorm.DB, m Movement, qty int, actor Actor) (*model.Product, error) {
	if qty < 0 {
		return nil, invalidf("quantity must not be negative")
	}
	product, err := l.lock(tx, m)
	if err != nil {
		return nil, err
	}
	prev, err := l.stock.Level(tx, m.ProductID, m.WarehouseID)
	if err != nil {
		return nil, err
	}
	return l.write(tx, product, m, prev, qty, product.AvgCost, 0, actor)
}

// Adjust adds delta to a warehouse row. A result below zero is rejected with
// ErrNegativeStock and nothing is written.
func (l *StockLedger) Adjust(tx *gorm.DB, m Movement, delta int, actor Actor) (*model.Product, error) {
	if delta == 0 {
		return nil, invalidf("adjustment must not be zero")
	}
	product, err := l.lock(tx, m)
	if err != nil {
		return nil, err
	}
	prev, err := l.stock.Level(tx, m.ProductID, m.WarehouseID)
	if err != nil {
		return nil, err
	}
	next := prev + delta
	if next < 0 {
		return nil, &Error{
			Kind:  ErrConflict,
			Msg:   fmt.Sprintf("insufficient stock for %s: %d on hand, %d requested", product.SKU, prev, -delta),
			Cause: ErrNegativeStock,
		}
	}
	return l.write(tx, product, m, prev, next, product.AvgCost, 0, actor)
}

// Transfer moves qty units between two warehouses. The product total is
// unchanged.
func (l *StockLedger) Transfer(tx *gorm.DB, productID, from, to uuid.UUID, qty int, reference, note string, actor Actor) (*model.Product, error) {
	if qty <= 0 {
		return nil, invalidf("transfer quantity must be greater than zero")
	}
	if from == to {
		return nil, invalidf("source and destination warehouse must differ")
	}
	out := Movement{ProductID: productID, WarehouseID: from, Reason: model.ReasonTransferOut, Reference: reference, Note: note}
	if _, err := l.Adjust(tx, out, -qty, actor); err != nil {
		return nil, err
	}
	in := Movement{ProductID: productID, WarehouseID: to, Reason: model.ReasonTransferIn, Reference: reference, Note: note}
	return l.Adjust(tx, in, qty, actor)
}

func (l *StockLedger) lock(tx *gorm.DB, m Movement) (*model.Product, error) {
	product, err := l.products.LockByID(tx, m.ProductID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	var n int64
	if err := tx.Model(&model.Warehouse{}).Where("id = ?", m.WarehouseID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrWarehouseNotFound
	}
	return product, nil
}

func (l *StockLedger) write(tx *gorm.DB, product *model.Product, m Movement, prev, next int, newCost, unitCost int64, actor Actor) (*model.Product, error) {
	if err := l.stock.SaveLevel(tx, m.ProductID, m.WarehouseID, next); err != nil {
		return nil, err
	}
	total, err := l.stock.SumByProduct(tx, m.ProductID)
	if err != nil {
		return nil, err
	}
	if err := l.products.UpdateStock(tx, m.ProductID, total, newCost, actor.ID); err != nil {
		return nil, err
	}

	entry := &model.StockLog{
		ProductID:   m.ProductID,
		WarehouseID: m.WarehouseID,
		PrevQty:     prev,
		NewQty:      next,
		Delta:       next - prev,
		PrevCost:    product.AvgCost,
		NewCost:     newCost,
		UnitCost:    unitCost,
		Reason:      m.Reason,
		Reference:   m.Reference,
		Note:        m.Note,
		ActorID:     actor.ID,
		ActorName:   actor.label(),
	}
	if err := l.stock.AppendLog(tx, entry); err != nil {
		return nil, err
	}

	product.Stock = total
	product.AvgCost = newCost
	product.UpdatedBy = actor.ID
	return product, nil
}
