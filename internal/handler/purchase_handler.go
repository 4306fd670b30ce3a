package handler

import (
	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PurchaseHandler struct {
	service service.PurchaseService
	errorResponder
}

func NewPurchaseHandler(s service.PurchaseService, log *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{service: s, errorResponder: newErrorResponder(log)}
}

// GET /api/v1/purchases?supplier_id=&payment_status=&receipt_status=&page=&limit=
func (h *PurchaseHandler) GetPurchases(c *fiber.Ctx) error {
	supplierID, err := queryUUID(c, "supplier_id")
	if err != nil {
		return badRequest(c, "Invalid supplier_id")
	}
	page := pageFrom(c)
	purchases, total, err := h.service.List(c.UserContext(), repository.PurchaseFilter{
		SupplierID:    supplierID,
		PaymentStatus: model.PaymentStatus(c.Query("payment_status")),
		ReceiptStatus: model.ReceiptStatus(c.Query("receipt_status")),
		Page:          page,
	})
	if err != nil {
		return h.respond(c, err)
	}
	return paginated(c, purchases, total, page)
}

// GET /api/v1/purchases/:id
func (h *PurchaseHandler) GetPurchase(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid purchase ID")
	}
	purchase, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(purchase)
}

// POST /api/v1/purchases
func (h *PurchaseHandler) CreatePurchase(c *fiber.Ctx) error {
	var req service.PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	purchase, err := h.service.Create(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Purchase created", "data": purchase})
}

// ReceivePurchase books every item into stock
// POST /api/v1/purchases/:id/receive
func (h *PurchaseHandler) ReceivePurchase(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid purchase ID")
	}
	purchase, err := h.service.Receive(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase received", "data": purchase})
}

// POST /api/v1/purchases/:id/pay
func (h *PurchaseHandler) MarkPaid(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid purchase ID")
	}
	purchase, err := h.service.MarkPaid(c.UserContext(), id, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase paid", "data": purchase})
}
