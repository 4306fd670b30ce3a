package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go-storefront/internal/model"
	"go-storefront/internal/pricing"
	"go-storefront/internal/repository"
	"go-storefront/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type OrderService interface {
	Quote(ctx context.Context, req *QuoteRequest) (*Quote, error)
	Create(ctx context.Context, req *CreateOrderRequest, actor Actor) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateStatusRequest, actor Actor) (*model.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Order, error)
	GetByCode(ctx context.Context, code string) (*model.Order, error)
	List(ctx context.Context, f repository.OrderFilter) ([]model.Order, int64, error)
	ShippingOptions() []ShippingOption
}

type OrderItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Tier      model.PriceTier `json:"tier" validate:"omitempty,oneof=RETAIL WHOLESALE"`
}

type QuoteRequest struct {
	Items          []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	DeliveryMethod pricing.DeliveryMethod `json:"delivery_method" validate:"required"`
}

type CreateOrderRequest struct {
	Channel         model.Channel          `json:"-"`
	CustomerID      *uuid.UUID             `json:"customer_id"`
	CustomerName    string                 `json:"customer_name" validate:"max=255"`
	CustomerPhone   string                 `json:"customer_phone" validate:"max=30"`
	ShippingAddress string                 `json:"shipping_address"`
	WarehouseID     *uuid.UUID             `json:"warehouse_id"`
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	DeliveryMethod  pricing.DeliveryMethod `json:"delivery_method" validate:"required"`
	PaymentMethod   model.PaymentMethod    `json:"payment_method" validate:"required,oneof=CASH TRANSFER EWALLET"`
	AmountTendered  int64                  `json:"amount_tendered" validate:"gte=0"`
	Note            string                 `json:"note"`
}

// UpdateStatusRequest moves an order. AmountTendered settles a cash order
// when it reaches DONE.
type UpdateStatusRequest struct {
	Status         model.OrderStatus `json:"status" validate:"required,oneof=WAITING PROCESSING SHIPPED DONE CANCELLED"`
	AmountTendered int64             `json:"amount_tendered" validate:"gte=0"`
}

// QuoteLine is one priced line of a quote.
type QuoteLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Tier      model.PriceTier `json:"tier"`
	UnitPrice int64           `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal int64           `json:"line_total"`
	Available int             `json:"available"`
}

// Quote is a priced order that has not been placed.
type Quote struct {
	Lines          []QuoteLine            `json:"lines"`
	DeliveryMethod pricing.DeliveryMethod `json:"delivery_method"`
	pricing.Totals
}

type ShippingOption struct {
	Method pricing.DeliveryMethod `json:"method"`
	Cost   int64                  `json:"cost"`
}

type orderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	ledger       *StockLedger
	db           *gorm.DB
	shipping     pricing.ShippingTable
	notify       notifier
	log          *zap.Logger
	now          func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	ledger *StockLedger,
	db *gorm.DB,
	shipping pricing.ShippingTable,
	hub *ws.Hub,
	alerts LowStockNotifier,
	log *zap.Logger,
) OrderService {
	n := newNotifier(hub, alerts, log)
	return &orderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		ledger:       ledger,
		db:           db,
		shipping:     shipping,
		notify:       n,
		log:          n.log.Named("order"),
		now:          time.Now,
	}
}

func (s *orderService) ShippingOptions() []ShippingOption {
	out := make([]ShippingOption, 0, len(s.shipping))
	for m, cost := range s.shipping {
		out = append(out, ShippingOption{Method: m, Cost: cost})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Method < out[j].Method })
	return out
}

func (s *orderService) Quote(ctx context.Context, req *QuoteRequest) (*Quote, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.price(ctx, req.Items, req.DeliveryMethod)
}

// price looks up current prices for every line and derives the totals.
func (s *orderService) price(ctx context.Context, items []OrderItemRequest, method pricing.DeliveryMethod) (*Quote, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	quote := &Quote{DeliveryMethod: method}
	lines := make([]pricing.Line, 0, len(items))
	for i, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, invalidf("item %d: product %s not found", i+1, it.ProductID)
		}
		if !p.IsActive {
			return nil, &Error{Kind: ErrInvalidInput, Msg: fmt.Sprintf("item %d: %s is not available", i+1, p.Name), Cause: ErrProductInactive}
		}
		tier := it.Tier
		if tier == "" {
			tier = model.TierRetail
		}
		line := pricing.Line{UnitPrice: p.PriceFor(tier), Quantity: it.Quantity}
		lines = append(lines, line)
		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Tier:      tier,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: line.Total(),
			Available: p.Stock,
		})
	}

	totals, err := pricing.Compute(lines, method, s.shipping)
	if err != nil {
		return nil, wrapKind(ErrInvalidInput, err)
	}
	quote.Totals = totals
	return quote, nil
}

// Create places an order. Storefront orders wait for staff; point of sale
// orders are paid, completed and deducted from stock at once.
func (s *orderService) Create(ctx context.Context, req *CreateOrderRequest, actor Actor) (*model.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Channel == "" {
		req.Channel = model.ChannelStorefront
	}
	if err := s.fillCustomer(ctx, req); err != nil {
		return nil, err
	}
	if req.Channel == model.ChannelStorefront {
		if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerPhone) == "" {
			return nil, invalidf("customer name and phone are required")
		}
	}
	if req.DeliveryMethod != pricing.DeliveryPickup && strings.TrimSpace(req.ShippingAddress) == "" {
		return nil, invalidf("shipping address is required for %s", req.DeliveryMethod)
	}

	quote, err := s.price(ctx, req.Items, req.DeliveryMethod)
	if err != nil {
		return nil, err
	}
	if req.Channel == model.ChannelStorefront {
		wanted := make(map[uuid.UUID]int, len(quote.Lines))
		for _, l := range quote.Lines {
			wanted[l.ProductID] += l.Quantity
		}
		for _, l := range quote.Lines {
			if l.Available < wanted[l.ProductID] {
				return nil, &Error{
					Kind:  ErrConflict,
					Msg:   fmt.Sprintf("insufficient stock for %s: %d available, %d ordered", l.Name, l.Available, wanted[l.ProductID]),
					Cause: ErrNegativeStock,
				}
			}
		}
	}

	now := s.now()
	order := &model.Order{
		Code:            model.NewCode(codePrefix(req.Channel), now),
		Channel:         req.Channel,
		CustomerID:      req.CustomerID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		ShippingAddress: req.ShippingAddress,
		Subtotal:        quote.Subtotal,
		ShippingCost:    quote.ShippingCost,
		Total:           quote.Total,
		DeliveryMethod:  req.DeliveryMethod,
		PaymentMethod:   req.PaymentMethod,
		Status:          model.OrderWaiting,
		Note:            req.Note,
	}
	for _, l := range quote.Lines {
		order.Items = append(order.Items, model.OrderItem{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.Name,
			Tier:      l.Tier,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal,
		})
	}
	order.CreatedBy = actor.ID
	order.UpdatedBy = actor.ID

	if req.Channel == model.ChannelPOS {
		if err := settlePayment(order, req.AmountTendered); err != nil {
			return nil, err
		}
		order.Status = model.OrderDone
		order.CompletedAt = &now
	}

	var touched []*model.Product
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		warehouseID, err := s.ledger.ResolveWarehouse(tx, req.WarehouseID)
		if err != nil {
			return err
		}
		order.WarehouseID = warehouseID

		if err := s.orderRepo.Create(tx, order); err != nil {
			return err
		}
		if order.Status != model.OrderDone {
			return nil
		}
		touched, err = s.deduct(tx, order, actor)
		if err != nil {
			return err
		}
		return s.orderRepo.SaveStatus(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.String("code", order.Code),
		zap.String("channel", string(order.Channel)),
		zap.Int64("total", order.Total),
		zap.String("status", string(order.Status)))
	s.notify.publish(ws.EventOrderCreated, map[string]interface{}{
		"id": order.ID, "code": order.Code, "channel": order.Channel, "total": order.Total, "status": order.Status,
	}, actor, fmt.Sprintf("new %s order %s", strings.ToLower(string(order.Channel)), order.Code))
	s.notify.stockChanged(ctx, actor, touched...)

	return s.Get(ctx, order.ID)
}

// UpdateStatus moves an order along its lifecycle. Reaching DONE settles the
// payment and deducts the ordered quantities from the order's warehouse, all
// lines or none.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *UpdateStatusRequest, actor Actor) (*model.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	status := req.Status
	var touched []*model.Product
	var from model.OrderStatus
	var code string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.LockByID(tx, id)
		if err != nil {
			return notFound(err, ErrOrderNotFound)
		}
		from, code = order.Status, order.Code
		if !order.Status.CanTransition(status) {
			return &Error{
				Kind:  ErrConflict,
				Msg:   fmt.Sprintf("cannot move order %s from %s to %s", order.Code, order.Status, status),
				Cause: ErrInvalidTransition,
			}
		}

		order.Status = status
		order.UpdatedBy = actor.ID
		if status == model.OrderDone {
			if err := settlePayment(order, req.AmountTendered); err != nil {
				return err
			}
			now := s.now()
			order.CompletedAt = &now
			if !order.StockDeducted {
				touched, err = s.deduct(tx, order, actor)
				if err != nil {
					return err
				}
			}
		}
		return s.orderRepo.SaveStatus(tx, order)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order status changed",
		zap.String("code", code),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
		zap.String("actor", actor.label()))
	s.notify.publish(ws.EventOrderStatusChanged, map[string]interface{}{
		"id": id, "code": code, "from": from, "status": status,
	}, actor, fmt.Sprintf("%s moved order %s to %s", actor.label(), code, status))
	s.notify.stockChanged(ctx, actor, touched...)

	return s.Get(ctx, id)
}

func (s *orderService) deduct(tx *gorm.DB, order *model.Order, actor Actor) ([]*model.Product, error) {
	touched := make([]*model.Product, 0, len(order.Items))
	for _, it := range sortedOrderItems(order.Items) {
		p, err := s.ledger.Adjust(tx, Movement{
			ProductID:   it.ProductID,
			WarehouseID: order.WarehouseID,
			Reason:      model.ReasonSale,
			Reference:   order.Code,
		}, -it.Quantity, actor)
		if err != nil {
			return nil, err
		}
		touched = append(touched, p)
	}
	order.StockDeducted = true
	return touched, nil
}

func (s *orderService) fillCustomer(ctx context.Context, req *CreateOrderRequest) error {
	if req.CustomerID == nil {
		return nil
	}
	c, err := s.customerRepo.FindByID(ctx, *req.CustomerID)
	if err != nil {
		return notFound(err, ErrCustomerNotFound)
	}
	if req.CustomerName == "" {
		req.CustomerName = c.Name
	}
	if req.CustomerPhone == "" {
		req.CustomerPhone = c.Phone
	}
	if req.ShippingAddress == "" {
		req.ShippingAddress = c.Address
	}
	return nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return order, nil
}

func (s *orderService) GetByCode(ctx context.Context, code string) (*model.Order, error) {
	order, err := s.orderRepo.FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, notFound(err, ErrOrderNotFound)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, f repository.OrderFilter) ([]model.Order, int64, error) {
	return s.orderRepo.List(ctx, f)
}

// settlePayment records tender and change. Cash must cover the total; other
// methods are taken for the exact amount.
func settlePayment(order *model.Order, tendered int64) error {
	if order.PaymentMethod != model.PayCash {
		order.AmountTendered = order.Total
		order.Change = 0
		return nil
	}
	change, err := pricing.Change(order.Total, tendered)
	if errors.Is(err, pricing.ErrInsufficientCash) {
		return &Error{
			Kind:  ErrInvalidInput,
			Msg:   fmt.Sprintf("amount tendered %d is less than total %d", tendered, order.Total),
			Cause: ErrInsufficientCash,
		}
	}
	if err != nil {
		return err
	}
	order.AmountTendered = tendered
	order.Change = change
	return nil
}

func codePrefix(ch model.Channel) string {
	if ch == model.ChannelPOS {
		return "POS"
	}
	return "SO"
}
