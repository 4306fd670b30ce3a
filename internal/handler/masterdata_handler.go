package handler

import (
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MasterDataHandler serves warehouses, customers and suppliers.
type MasterDataHandler struct {
	service service.MasterDataService
	errorResponder
}

func NewMasterDataHandler(s service.MasterDataService, log *zap.Logger) *MasterDataHandler {
	return &MasterDataHandler{service: s, errorResponder: newErrorResponder(log)}
}

// GET /api/v1/warehouses
func (h *MasterDataHandler) GetWarehouses(c *fiber.Ctx) error {
	warehouses, err := h.service.ListWarehouses(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(warehouses)
}

// POST /api/v1/warehouses
func (h *MasterDataHandler) CreateWarehouse(c *fiber.Ctx) error {
	var req service.WarehouseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	w, err := h.service.CreateWarehouse(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Warehouse created", "data": w})
}

// PUT /api/v1/warehouses/:id
func (h *MasterDataHandler) UpdateWarehouse(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid warehouse ID")
	}
	var req service.WarehouseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	w, err := h.service.UpdateWarehouse(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Warehouse updated", "data": w})
}

// PUT /api/v1/warehouses/:id/default
func (h *MasterDataHandler) SetDefaultWarehouse(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid warehouse ID")
	}
	w, err := h.service.SetDefaultWarehouse(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Default warehouse changed", "data": w})
}

// DELETE /api/v1/warehouses/:id
func (h *MasterDataHandler) DeleteWarehouse(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid warehouse ID")
	}
	if err := h.service.DeleteWarehouse(c.UserContext(), id, actorFrom(c)); err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Warehouse deleted"})
}

// GET /api/v1/customers?search=&page=&limit=
func (h *MasterDataHandler) GetCustomers(c *fiber.Ctx) error {
	page := pageFrom(c)
	customers, total, err := h.service.ListCustomers(c.UserContext(), c.Query("search"), page)
	if err != nil {
		return h.respond(c, err)
	}
	return paginated(c, customers, total, page)
}

// GET /api/v1/customers/:id
func (h *MasterDataHandler) GetCustomer(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid customer ID")
	}
	customer, err := h.service.GetCustomer(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(customer)
}

// POST /api/v1/customers
func (h *MasterDataHandler) CreateCustomer(c *fiber.Ctx) error {
	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	customer, err := h.service.CreateCustomer(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

// PUT /api/v1/customers/:id
func (h *MasterDataHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid customer ID")
	}
	var req service.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	customer, err := h.service.UpdateCustomer(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

// DELETE /api/v1/customers/:id
func (h *MasterDataHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid customer ID")
	}
	if err := h.service.DeleteCustomer(c.UserContext(), id, actorFrom(c)); err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

// GET /api/v1/suppliers?search=&page=&limit=
func (h *MasterDataHandler) GetSuppliers(c *fiber.Ctx) error {
	page := pageFrom(c)
	suppliers, total, err := h.service.ListSuppliers(c.UserContext(), c.Query("search"), page)
	if err != nil {
		return h.respond(c, err)
	}
	return paginated(c, suppliers, total, page)
}

// GET /api/v1/suppliers/:id
func (h *MasterDataHandler) GetSupplier(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid supplier ID")
	}
	supplier, err := h.service.GetSupplier(c.UserContext(), id)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(supplier)
}

// POST /api/v1/suppliers
func (h *MasterDataHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	supplier, err := h.service.CreateSupplier(c.UserContext(), &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Supplier created", "data": supplier})
}

// PUT /api/v1/suppliers/:id
func (h *MasterDataHandler) UpdateSupplier(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid supplier ID")
	}
	var req service.SupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid JSON")
	}
	supplier, err := h.service.UpdateSupplier(c.UserContext(), id, &req, actorFrom(c))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier updated", "data": supplier})
}

// DELETE /api/v1/suppliers/:id
func (h *MasterDataHandler) DeleteSupplier(c *fiber.Ctx) error {
	id, ok := paramUUID(c, "id")
	if !ok {
		return badRequest(c, "Invalid supplier ID")
	}
	if err := h.service.DeleteSupplier(c.UserContext(), id, actorFrom(c)); err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"message": "Supplier deleted"})
}
