package handler

import (
	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	service service.InventoryService
	errorResponder
}

func NewInventoryHandler(s service.InventoryService, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{service: s, errorResponder: newErrorResponder(log)}
}

func productResponses(products []model.Product) []model.ProductResponse {
	out := make([]model.ProductResponse, len(products))
	for i := range products {
		out[i] = products[i].ToResponse()
	}
	return out
}

// GetProducts lists products
// GET /api/v1/products?search=&category=&active=&low_stock=&page=&limit=
func (h *InventoryHandler) GetProducts(c *fiber.Ctx) error {
	page := pageFrom(c)
	products, total, err := h.service.ListProducts(c.UserContext(), repository.ProductFilter{
		Search:       c.Query("search"),
		Category:     c.Query("category"),
		ActiveOnly:   c.QueryBool("active"),
		LowStockOnly: c.QueryBool("low_stock"),
		Page:         page,
	})
	if err != nil {
		return h.respond(c, err)
	}
	return paginated(c, productResponses(products), total, page)
}

// GET /api/v1/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(product.ToResponse())
}

// GET /api/v1/products/barcode/:barcode
func (h *InventoryHandler) GetProductByBarcode(c *fiber.Ctx) error {
	product, err := h.service.GetProductByBarcode(c.UserContext(), c.Params("barcode"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(product.ToResponse())
}

// GET /api/v1/products/categories
func (h *InventoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(categories)
}

// POST /api/v1/products
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.CreateProduct(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created", "data": product.ToResponse()})
}

// PUT /api/v1/products/:id
func (h *InventoryHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var req service.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product.ToResponse()})
}

// DELETE /api/v1/products/:id
func (h *InventoryHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	if err := h.service.DeleteProduct(c.UserContext(), id, actorFrom(c)); err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// POST /api/v1/products/:id/restock
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var req service.RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.Restock(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock received", "data": product.ToResponse()})
}

// PUT /api/v1/products/:id/stock
func (h *InventoryHandler) SetQuantity(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var req service.SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.SetQuantity(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock updated", "data": product.ToResponse()})
}

// POST /api/v1/products/:id/adjust
func (h *InventoryHandler) AdjustQuantity(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var req service.AdjustQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.AdjustQuantity(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock adjusted", "data": product.ToResponse()})
}

// POST /api/v1/products/:id/transfer
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var req service.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}

	product, err := h.service.Transfer(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock transferred", "data": product.ToResponse()})
}

// GET /api/v1/products/:id/stock
func (h *InventoryHandler) GetStockLevels(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	levels, err := h.service.StockLevels(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(levels)
}

// GetStockLogs lists the stock audit trail
// GET /api/v1/stock-logs?product_id=&warehouse_id=&reason=&reference=&from=&to=&page=&limit=
func (h *InventoryHandler) GetStockLogs(c *fiber.Ctx) error {
	productID, err := queryUUID(c, "product_id")
	if err != nil {
		return badRequest(c, "Invalid product_id")
	}
	warehouseID, err := queryUUID(c, "warehouse_id")
	if err != nil {
		return badRequest(c, "Invalid warehouse_id")
	}
	from, err := queryDate(c, "from", false)
	if err != nil {
		return badRequest(c, "Invalid from date, use YYYY-MM-DD")
	}
	to, err := queryDate(c, "to", true)
	if err != nil {
		return badRequest(c, "Invalid to date, use YYYY-MM-DD")
	}

	page := pageFrom(c)
	logs, total, err := h.service.StockLogs(c.UserContext(), repository.StockLogFilter{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Reason:      model.StockReason(c.Query("reason")),
		Reference:   c.Query("reference"),
		From:        from,
		To:          to,
		Page:        page,
	})
	if err != nil {
		return h.respond(c, err)
	}
	return paginated(c, logs, total, page)
}
