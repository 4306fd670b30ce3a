package handler

import (
	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler serves back-office order management and the point of sale.
type OrderHandler struct {
	service service.OrderService
	errorResponder
}

func NewOrderHandler(s service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{service: s, errorResponder: newErrorResponder(log)}
}

// GET /api/v1/orders?status=&channel=&search=&from=&to=&page=&limit=
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	from, err := queryDate(c, "from", false)
	if err != nil {
		return badRequest(c, "Invalid from date, use YYYY-MM-DD")
	}
	to, err := queryDate(c, "to", true)
	if err != nil {
		return badRequest(c, "Invalid to date, use YYYY-MM-DD")
	}

	page := pageFrom(c)
	orders, total, err := h.service.List(c.UserContext(), repository.OrderFilter{
		Status:  model.OrderStatus(c.Query("status")),
		Channel: model.Channel(c.Query("channel")),
		Search:  c.Query("search"),
		From:    from,
		To:      to,
		Page:    page,
	})
	if err != nil {
		return h.respond(c, err)
	}
	return paginated(c, orders, total, page)
}

// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	order, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(order)
}

// Quote prices a basket without saving it
// POST /api/v1/pos/quote
func (h *OrderHandler) Quote(c *fiber.Ctx) error {
	var req service.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	quote, err := h.service.Quote(c.UserContext(), &req)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(quote)
}

// Checkout records a completed point-of-sale order
// POST /api/v1/pos/orders
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	req.Channel = model.ChannelPOS

	order, err := h.service.Create(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Order completed", "data": order})
}

// PUT /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid order ID")
	}
	var req service.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	if req.Status == "" {
		return badRequest(c, "Status is required")
	}

	order, err := h.service.UpdateStatus(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order status updated", "data": order})
}
