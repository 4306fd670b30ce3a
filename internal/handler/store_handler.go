package handler

import (
	"go-storefront/internal/cart"
	"go-storefront/internal/model"
	"go-storefront/internal/pricing"
	"go-storefront/internal/repository"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HeaderCartSession carries the storefront cart id.
const HeaderCartSession = "X-Cart-Session"

// StoreHandler serves the public storefront. No cost or audit data leaves it.
type StoreHandler struct {
	inventory service.InventoryService
	orders    service.OrderService
	carts     service.CartService
	errorResponder
}

func NewStoreHandler(inventory service.InventoryService, orders service.OrderService, carts service.CartService, log *zap.Logger) *StoreHandler {
	return &StoreHandler{inventory: inventory, orders: orders, carts: carts, errorResponder: newErrorResponder(log)}
}

// cartSession returns the caller's cart id, issuing a new one when the
// header is absent.
func cartSession(c *fiber.Ctx) string {
	id := c.Get(HeaderCartSession)
	if id == "" {
		id = cart.NewSessionID()
	}
	c.Set(HeaderCartSession, id)
	return id
}

// GET /api/v1/store/products?search=&category=&in_stock=&page=&limit=
func (h *StoreHandler) GetCatalog(c *fiber.Ctx) error {
	page := pageFrom(c)
	products, total, err := h.inventory.ListProducts(c.UserContext(), repository.ProductFilter{
		Search:      c.Query("search"),
		Category:    c.Query("category"),
		ActiveOnly:  true,
		InStockOnly: c.QueryBool("in_stock"),
		Page:        page,
	})
	if err != nil {
		return h.respond(c, err)
	}

	items := make([]model.CatalogItem, len(products))
	for i := range products {
		items[i] = products[i].ToCatalogItem()
	}
	return paginated(c, items, total, page)
}

// GET /api/v1/store/products/:id
func (h *StoreHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.inventory.GetProduct(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err)
	}
	if !product.IsActive {
		return h.respond(c, service.ErrProductNotFound)
	}
	return c.JSON(product.ToCatalogItem())
}

// GET /api/v1/store/categories
func (h *StoreHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.inventory.Categories(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(categories)
}

// GET /api/v1/store/shipping-options
func (h *StoreHandler) GetShippingOptions(c *fiber.Ctx) error {
	return c.JSON(h.orders.ShippingOptions())
}

// POST /api/v1/store/quote
func (h *StoreHandler) Quote(c *fiber.Ctx) error {
	var req service.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	quote, err := h.orders.Quote(c.UserContext(), &req)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(quote)
}

// GET /api/v1/store/cart
func (h *StoreHandler) GetCart(c *fiber.Ctx) error {
	sc, err := h.carts.Get(c.UserContext(), cartSession(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(sc)
}

// SetCartItem sets the quantity of one product; zero removes it
// PUT /api/v1/store/cart/items
func (h *StoreHandler) SetCartItem(c *fiber.Ctx) error {
	var req service.CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	sc, err := h.carts.SetItem(c.UserContext(), cartSession(c), &req)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(sc)
}

// DELETE /api/v1/store/cart
func (h *StoreHandler) ClearCart(c *fiber.Ctx) error {
	if err := h.carts.Clear(c.UserContext(), cartSession(c)); err != nil {
		return h.respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/v1/store/cart/quote?delivery_method=
func (h *StoreHandler) QuoteCart(c *fiber.Ctx) error {
	method := pricing.DeliveryMethod(c.Query("delivery_method", string(pricing.DeliveryPickup)))
	quote, err := h.carts.Quote(c.UserContext(), cartSession(c), method)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(quote)
}

// Checkout turns the cart into a storefront order
// POST /api/v1/store/checkout
func (h *StoreHandler) Checkout(c *fiber.Ctx) error {
	session := c.Get(HeaderCartSession)
	if session == "" {
		return badRequest(c, "Missing "+HeaderCartSession+" header")
	}
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	order, err := h.carts.Checkout(c.UserContext(), session, &req)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order placed", "data": order})
}

// GET /api/v1/store/orders/:code
func (h *StoreHandler) TrackOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(order)
}
