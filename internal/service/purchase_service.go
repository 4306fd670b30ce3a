package service

import (
	"context"
	"fmt"
	"time"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PurchaseService interface {
	Create(ctx context.Context, req *PurchaseRequest, actor Actor) (*model.Purchase, error)
	Receive(ctx context.Context, id uuid.UUID, actor Actor) (*model.Purchase, error)
	MarkPaid(ctx context.Context, id uuid.UUID, actor Actor) (*model.Purchase, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	List(ctx context.Context, f repository.PurchaseFilter) ([]model.Purchase, int64, error)
}

type PurchaseItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"gt=0"`
	UnitCost  int64     `json:"unit_cost" validate:"gt=0"`
}

type PurchaseRequest struct {
	SupplierID  uuid.UUID             `json:"supplier_id" validate:"uuid_required"`
	WarehouseID *uuid.UUID            `json:"warehouse_id"`
	Items       []PurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
	Paid        bool                  `json:"paid"`
	Note        string                `json:"note"`
}

type purchaseService struct {
	purchaseRepo  repository.PurchaseRepository
	productRepo   repository.ProductRepository
	supplierRepo  repository.SupplierRepository
	warehouseRepo repository.WarehouseRepository
	ledger        *StockLedger
	db            *gorm.DB
	notify        notifier
	log           *zap.Logger
	now           func() time.Time
}

func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	warehouseRepo repository.WarehouseRepository,
	ledger *StockLedger,
	db *gorm.DB,
	hub *ws.Hub,
	log *zap.Logger,
) PurchaseService {
	n := newNotifier(hub, nil, log)
	return &purchaseService{
		purchaseRepo:  purchaseRepo,
		productRepo:   productRepo,
		supplierRepo:  supplierRepo,
		warehouseRepo: warehouseRepo,
		ledger:        ledger,
		db:            db,
		notify:        n,
		log:           n.log.Named("purchase"),
		now:           time.Now,
	}
}

func (s *purchaseService) Create(ctx context.Context, req *PurchaseRequest, actor Actor) (*model.Purchase, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.supplierRepo.FindByID(ctx, req.SupplierID); err != nil {
		return nil, notFound(err, ErrSupplierNotFound)
	}

	var warehouse *model.Warehouse
	var err error
	if req.WarehouseID != nil {
		warehouse, err = s.warehouseRepo.FindByID(ctx, *req.WarehouseID)
	} else {
		warehouse, err = s.warehouseRepo.FindDefault(ctx)
	}
	if err != nil {
		if req.WarehouseID == nil {
			return nil, notFound(err, ErrNoWarehouse)
		}
		return nil, notFound(err, ErrWarehouseNotFound)
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[uuid.UUID]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}

	now := s.now()
	purchase := &model.Purchase{
		Code:          model.NewCode("PO", now),
		SupplierID:    req.SupplierID,
		WarehouseID:   warehouse.ID,
		PaymentStatus: model.PaymentUnpaid,
		ReceiptStatus: model.ReceiptPending,
		Note:          req.Note,
	}
	for i, it := range req.Items {
		if !known[it.ProductID] {
			return nil, invalidf("item %d: product %s not found", i+1, it.ProductID)
		}
		line := model.PurchaseItem{
			ProductID: it.ProductID,
			UnitCost:  it.UnitCost,
			Quantity:  it.Quantity,
			LineTotal: it.UnitCost * int64(it.Quantity),
		}
		purchase.Items = append(purchase.Items, line)
		purchase.Total += line.LineTotal
	}
	if req.Paid {
		purchase.PaymentStatus = model.PaymentPaid
		purchase.PaidAt = &now
	}
	purchase.CreatedBy = actor.ID
	purchase.UpdatedBy = actor.ID

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, err
	}

	s.log.Info("purchase created",
		zap.String("code", purchase.Code),
		zap.Int64("total", purchase.Total),
		zap.Int("items", len(purchase.Items)))

	return s.Get(ctx, purchase.ID)
}

// Receive books every line of a pending purchase into its warehouse in one
// transaction. A received purchase cannot be received again.
func (s *purchaseService) Receive(ctx context.Context, id uuid.UUID, actor Actor) (*model.Purchase, error) {
	var touched []*model.Product
	var code string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		purchase, err := s.purchaseRepo.LockByID(tx, id)
		if err != nil {
			return notFound(err, ErrPurchaseNotFound)
		}
		if purchase.IsReceived() {
			return ErrAlreadyReceived
		}
		code = purchase.Code

		for _, item := range sortedPurchaseItems(purchase.Items) {
			p, err := s.ledger.Receive(tx, Movement{
				ProductID:   item.ProductID,
				WarehouseID: purchase.WarehouseID,
				Reason:      model.ReasonPurchaseReceipt,
				Reference:   purchase.Code,
			}, item.Quantity, item.UnitCost, actor)
			if err != nil {
				return fmt.Errorf("receive %s: %w", purchase.Code, err)
			}
			touched = append(touched, p)
		}

		return s.purchaseRepo.MarkReceived(tx, purchase.ID, s.now(), actor.label())
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("purchase received",
		zap.String("code", code),
		zap.Int("products", len(touched)),
		zap.String("actor", actor.label()))
	s.notify.publish(ws.EventPurchaseReceived, map[string]interface{}{"id": id, "code": code}, actor,
		fmt.Sprintf("%s received purchase %s", actor.label(), code))
	s.notify.stockChanged(ctx, actor, touched...)

	return s.Get(ctx, id)
}

func (s *purchaseService) MarkPaid(ctx context.Context, id uuid.UUID, actor Actor) (*model.Purchase, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPurchaseNotFound)
	}
	if purchase.PaymentStatus == model.PaymentPaid {
		return nil, ErrAlreadyPaid
	}
	if err := s.purchaseRepo.MarkPaid(ctx, id, s.now(), actor.ID); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *purchaseService) Get(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrPurchaseNotFound)
	}
	return purchase, nil
}

func (s *purchaseService) List(ctx context.Context, f repository.PurchaseFilter) ([]model.Purchase, int64, error) {
	return s.purchaseRepo.List(ctx, f)
}
