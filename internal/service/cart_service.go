package service

import (
	"context"
	"errors"

	"go-storefront/internal/cart"
	"go-storefront/internal/model"
	"go-storefront/internal/pricing"

	"github.com/google/uuid"
)

type CartService interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	SetItem(ctx context.Context, sessionID string, req *CartItemRequest) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
	Quote(ctx context.Context, sessionID string, method pricing.DeliveryMethod) (*Quote, error)
	Checkout(ctx context.Context, sessionID string, req *CheckoutRequest) (*model.Order, error)
}

type CartItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" validate:"uuid_required"`
	Quantity  int             `json:"quantity" validate:"gte=0"`
	Tier      model.PriceTier `json:"tier" validate:"omitempty,oneof=RETAIL WHOLESALE"`
}

// CheckoutRequest carries what the storefront asks for at checkout. Items
// come from the cart.
type CheckoutRequest struct {
	CustomerName    string                 `json:"customer_name" validate:"required,not_blank"`
	CustomerPhone   string                 `json:"customer_phone" validate:"required,not_blank"`
	ShippingAddress string                 `json:"shipping_address"`
	DeliveryMethod  pricing.DeliveryMethod `json:"delivery_method" validate:"required"`
	PaymentMethod   model.PaymentMethod    `json:"payment_method" validate:"required,oneof=CASH TRANSFER EWALLET"`
	Note            string                 `json:"note"`
}

var ErrEmptyCart = newError(ErrInvalidInput, "cart is empty")

type cartService struct {
	store    cart.Store
	orders   OrderService
	products interface {
		GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)
	}
}

func NewCartService(store cart.Store, orders OrderService, inventory InventoryService) CartService {
	return &cartService{store: store, orders: orders, products: inventory}
}

func (s *cartService) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.store.Load(ctx, sessionID)
	return c, cartError(err)
}

func (s *cartService) SetItem(ctx context.Context, sessionID string, req *CartItemRequest) (*cart.Cart, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Quantity > 0 {
		p, err := s.products.GetProduct(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, ErrProductInactive
		}
	}

	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, cartError(err)
	}
	if err := c.SetQuantity(req.ProductID, req.Quantity, req.Tier); err != nil {
		return nil, cartError(err)
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, cartError(err)
	}
	return c, nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	return cartError(s.store.Clear(ctx, sessionID))
}

func (s *cartService) Quote(ctx context.Context, sessionID string, method pricing.DeliveryMethod) (*Quote, error) {
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, cartError(err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if method == "" {
		method = pricing.DeliveryPickup
	}
	return s.orders.Quote(ctx, &QuoteRequest{Items: cartItems(c), DeliveryMethod: method})
}

// Checkout turns the cart into a storefront order and empties the cart.
func (s *cartService) Checkout(ctx context.Context, sessionID string, req *CheckoutRequest) (*model.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	c, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, cartError(err)
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	order, err := s.orders.Create(ctx, &CreateOrderRequest{
		Channel:         model.ChannelStorefront,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Items:           cartItems(c),
		DeliveryMethod:  req.DeliveryMethod,
		PaymentMethod:   req.PaymentMethod,
		Note:            req.Note,
	}, SystemActor)
	if err != nil {
		return nil, err
	}

	if err := s.store.Clear(ctx, sessionID); err != nil {
		return order, cartError(err)
	}
	return order, nil
}

func cartItems(c *cart.Cart) []OrderItemRequest {
	items := make([]OrderItemRequest, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, OrderItemRequest{ProductID: it.ProductID, Quantity: it.Quantity, Tier: it.Tier})
	}
	return items
}

func cartError(err error) error {
	if errors.Is(err, cart.ErrInvalidSession) || errors.Is(err, cart.ErrInvalidQuantity) {
		return wrapKind(ErrInvalidInput, err)
	}
	return err
}
