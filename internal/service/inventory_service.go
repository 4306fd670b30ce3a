package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateProduct(ctx context.Context, req *ProductRequest, actor Actor) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor Actor) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	ListProducts(ctx context.Context, f repository.ProductFilter) ([]model.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)

	Restock(ctx context.Context, id uuid.UUID, req *RestockRequest, actor Actor) (*model.Product, error)
	SetQuantity(ctx context.Context, id uuid.UUID, req *SetQuantityRequest, actor Actor) (*model.Product, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, req *AdjustQuantityRequest, actor Actor) (*model.Product, error)
	Transfer(ctx context.Context, id uuid.UUID, req *TransferRequest, actor Actor) (*model.Product, error)
	StockLevels(ctx context.Context, id uuid.UUID) ([]model.WarehouseStock, error)
	StockLogs(ctx context.Context, f repository.StockLogFilter) ([]model.StockLog, int64, error)
}

// ProductRequest is the product form. Stock and cost are not part of it;
// InitialStock only applies on create and is booked as a receipt.
type ProductRequest struct {
	SKU            string     `json:"sku" validate:"required,not_blank,max=50"`
	Barcode        string     `json:"barcode" validate:"max=64"`
	Name           string     `json:"name" validate:"required,not_blank,max=255"`
	Category       string     `json:"category" validate:"max=100"`
	Location       string     `json:"location" validate:"max=100"`
	Description    string     `json:"description"`
	ImageURL       string     `json:"image_url" validate:"omitempty,url"`
	Unit           string     `json:"unit" validate:"required,not_blank,max=20"`
	RetailPrice    int64      `json:"retail_price" validate:"gte=0"`
	WholesalePrice int64      `json:"wholesale_price" validate:"gte=0"`
	MinStock       int        `json:"min_stock" validate:"gte=0"`
	ReceivedAt     *time.Time `json:"received_at"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	IsActive       *bool      `json:"is_active"`

	InitialStock int        `json:"initial_stock" validate:"gte=0"`
	InitialCost  int64      `json:"initial_cost" validate:"gte=0"`
	WarehouseID  *uuid.UUID `json:"warehouse_id"`
}

type RestockRequest struct {
	WarehouseID *uuid.UUID `json:"warehouse_id"`
	Quantity    int        `json:"quantity" validate:"gt=0"`
	UnitCost    int64      `json:"unit_cost" validate:"gt=0"`
	Note        string     `json:"note"`
}

type SetQuantityRequest struct {
	WarehouseID *uuid.UUID `json:"warehouse_id"`
	Quantity    int        `json:"quantity" validate:"gte=0"`
	Note        string     `json:"note"`
}

type AdjustQuantityRequest struct {
	WarehouseID *uuid.UUID `json:"warehouse_id"`
	Delta       int        `json:"delta" validate:"ne=0"`
	Note        string     `json:"note"`
}

type TransferRequest struct {
	FromWarehouseID uuid.UUID `json:"from_warehouse_id" validate:"uuid_required"`
	ToWarehouseID   uuid.UUID `json:"to_warehouse_id" validate:"uuid_required"`
	Quantity        int       `json:"quantity" validate:"gt=0"`
	Note            string    `json:"note"`
}

type inventoryService struct {
	productRepo repository.ProductRepository
	stockRepo   repository.StockRepository
	ledger      *StockLedger
	db          *gorm.DB
	notify      notifier
	log         *zap.Logger
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	ledger *StockLedger,
	db *gorm.DB,
	hub *ws.Hub,
	alerts LowStockNotifier,
	log *zap.Logger,
) InventoryService {
	n := newNotifier(hub, alerts, log)
	return &inventoryService{
		productRepo: productRepo,
		stockRepo:   stockRepo,
		ledger:      ledger,
		db:          db,
		notify:      n,
		log:         n.log.Named("inventory"),
	}
}

func (s *inventoryService) CreateProduct(ctx context.Context, req *ProductRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.InitialStock > 0 && req.InitialCost <= 0 {
		return nil, invalidf("initial_cost is required when initial_stock is set")
	}

	if existing, err := s.productRepo.FindBySKU(ctx, strings.TrimSpace(req.SKU)); err == nil && existing != nil {
		return nil, ErrDuplicateSKU
	}

	product := &model.Product{IsActive: true}
	applyProductRequest(product, req)
	product.CreatedBy = actor.ID
	product.UpdatedBy = actor.ID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.Create(tx, product); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateSKU
			}
			return err
		}
		if req.InitialStock == 0 {
			return nil
		}

		warehouseID, err := s.ledger.ResolveWarehouse(tx, req.WarehouseID)
		if err != nil {
			return err
		}
		updated, err := s.ledger.Receive(tx, Movement{
			ProductID:   product.ID,
			WarehouseID: warehouseID,
			Reason:      model.ReasonInitialStock,
		}, req.InitialStock, req.InitialCost, actor)
		if err != nil {
			return err
		}
		product.Stock = updated.Stock
		product.AvgCost = updated.AvgCost
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("sku", product.SKU),
		zap.Int("initial_stock", product.Stock),
		zap.String("actor", actor.label()))
	s.notify.publish(ws.EventProductCreated, product.ToResponse(), actor,
		fmt.Sprintf("%s created product '%s'", actor.label(), product.Name))

	return s.GetProduct(ctx, product.ID)
}

func (s *inventoryService) UpdateProduct(ctx context.Context, id uuid.UUID, req *ProductRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	sku := strings.TrimSpace(req.SKU)
	if sku != product.SKU {
		if other, err := s.productRepo.FindBySKU(ctx, sku); err == nil && other.ID != id {
			return nil, ErrDuplicateSKU
		}
	}

	applyProductRequest(product, req)
	product.UpdatedBy = actor.ID
	if err := s.productRepo.UpdateDetails(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateSKU
		}
		return nil, err
	}

	s.notify.publish(ws.EventProductUpdated, product.ToResponse(), actor,
		fmt.Sprintf("%s updated product '%s'", actor.label(), product.Name))

	return s.GetProduct(ctx, id)
}

func (s *inventoryService) DeleteProduct(ctx context.Context, id uuid.UUID, actor Actor) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, ErrProductNotFound)
	}
	if err := s.productRepo.Delete(ctx, id, actor.ID); err != nil {
		return notFound(err, ErrProductNotFound)
	}
	s.notify.publish(ws.EventProductDeleted, map[string]interface{}{"id": id, "sku": product.SKU}, actor,
		fmt.Sprintf("%s deleted product '%s'", actor.label(), product.Name))
	return nil
}

func (s *inventoryService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return product, nil
}

func (s *inventoryService) GetProductByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	product, err := s.productRepo.FindByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}
	return product, nil
}

func (s *inventoryService) ListProducts(ctx context.Context, f repository.ProductFilter) ([]model.Product, int64, error) {
	return s.productRepo.List(ctx, f)
}

func (s *inventoryService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

func (s *inventoryService) Restock(ctx context.Context, id uuid.UUID, req *RestockRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.move(ctx, actor, func(tx *gorm.DB) (*model.Product, error) {
		warehouseID, err := s.ledger.ResolveWarehouse(tx, req.WarehouseID)
		if err != nil {
			return nil, err
		}
		return s.ledger.Receive(tx, Movement{
			ProductID:   id,
			WarehouseID: warehouseID,
			Reason:      model.ReasonRestock,
			Note:        req.Note,
		}, req.Quantity, req.UnitCost, actor)
	})
}

func (s *inventoryService) SetQuantity(ctx context.Context, id uuid.UUID, req *SetQuantityRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.move(ctx, actor, func(tx *gorm.DB) (*model.Product, error) {
		warehouseID, err := s.ledger.ResolveWarehouse(tx, req.WarehouseID)
		if err != nil {
			return nil, err
		}
		return s.ledger.SetQuantity(tx, Movement{
			ProductID:   id,
			WarehouseID: warehouseID,
			Reason:      model.ReasonOpname,
			Note:        req.Note,
		}, req.Quantity, actor)
	})
}

func (s *inventoryService) AdjustQuantity(ctx context.Context, id uuid.UUID, req *AdjustQuantityRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.move(ctx, actor, func(tx *gorm.DB) (*model.Product, error) {
		warehouseID, err := s.ledger.ResolveWarehouse(tx, req.WarehouseID)
		if err != nil {
			return nil, err
		}
		return s.ledger.Adjust(tx, Movement{
			ProductID:   id,
			WarehouseID: warehouseID,
			Reason:      model.ReasonAdjustment,
			Note:        req.Note,
		}, req.Delta, actor)
	})
}

func (s *inventoryService) Transfer(ctx context.Context, id uuid.UUID, req *TransferRequest, actor Actor) (*model.Product, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	reference := model.NewCode("TRF", time.Now())
	return s.move(ctx, actor, func(tx *gorm.DB) (*model.Product, error) {
		return s.ledger.Transfer(tx, id, req.FromWarehouseID, req.ToWarehouseID, req.Quantity, reference, req.Note, actor)
	})
}

func (s *inventoryService) StockLevels(ctx context.Context, id uuid.UUID) ([]model.WarehouseStock, error) {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return nil, err
	}
	return s.stockRepo.Levels(ctx, id)
}

func (s *inventoryService) StockLogs(ctx context.Context, f repository.StockLogFilter) ([]model.StockLog, int64, error) {
	return s.stockRepo.ListLogs(ctx, f)
}

// move runs one ledger operation in a transaction and announces the result.
func (s *inventoryService) move(ctx context.Context, actor Actor, op func(tx *gorm.DB) (*model.Product, error)) (*model.Product, error) {
	var product *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := op(tx)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock updated",
		zap.String("sku", product.SKU),
		zap.Int("stock", product.Stock),
		zap.Int64("avg_cost", product.AvgCost),
		zap.String("actor", actor.label()))
	s.notify.stockChanged(ctx, actor, product)

	return s.GetProduct(ctx, product.ID)
}

func applyProductRequest(p *model.Product, req *ProductRequest) {
	p.SKU = strings.TrimSpace(req.SKU)
	p.Barcode = strings.TrimSpace(req.Barcode)
	p.Name = strings.TrimSpace(req.Name)
	p.Category = strings.TrimSpace(req.Category)
	p.Location = req.Location
	p.Description = req.Description
	p.ImageURL = req.ImageURL
	p.Unit = strings.ToUpper(strings.TrimSpace(req.Unit))
	p.RetailPrice = req.RetailPrice
	p.WholesalePrice = req.WholesalePrice
	p.MinStock = req.MinStock
	p.ReceivedAt = req.ReceivedAt
	p.ExpiryDate = req.ExpiryDate
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
}
