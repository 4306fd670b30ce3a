package handler

import (
	mw "go-storefront/internal/middleware"
	"go-storefront/internal/model"
	"go-storefront/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Role       *RoleHandler
	Inventory  *InventoryHandler
	MasterData *MasterDataHandler
	Purchase   *PurchaseHandler
	Order      *OrderHandler
	Store      *StoreHandler
	Report     *ReportHandler
	Hub        *ws.Hub
}

// RegisterRoutes mounts the API under /api/v1 and the change feed under /ws.
// requireAuth guards every back-office route.
func RegisterRoutes(app *fiber.App, h Handlers, requireAuth fiber.Handler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/validate-token", h.Auth.ValidateToken)
	auth.Post("/change-password", requireAuth, h.Auth.ChangePassword)

	store := api.Group("/store")
	store.Get("/products", h.Store.GetCatalog)
	store.Get("/products/:id", h.Store.GetProduct)
	store.Get("/categories", h.Store.GetCategories)
	store.Get("/shipping-options", h.Store.GetShippingOptions)
	store.Post("/quote", h.Store.Quote)
	store.Get("/cart", h.Store.GetCart)
	store.Put("/cart/items", h.Store.SetCartItem)
	store.Delete("/cart", h.Store.ClearCart)
	store.Get("/cart/quote", h.Store.QuoteCart)
	store.Post("/checkout", h.Store.Checkout)
	store.Get("/orders/:code", h.Store.TrackOrder)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Get("/dashboard/stats", h.Report.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", h.Report.GetStockMovement)
	protected.Get("/reports/sales", mw.RequirePrivilege(model.PrivReportView), h.Report.GetSalesSummary)
	protected.Get("/reports/low-stock", mw.RequirePrivilege(model.PrivReportView), h.Report.GetLowStock)

	protected.Get("/products", mw.RequirePrivilege(model.PrivProductView), h.Inventory.GetProducts)
	protected.Get("/products/categories", mw.RequirePrivilege(model.PrivProductView), h.Inventory.GetCategories)
	protected.Get("/products/barcode/:barcode", mw.RequirePrivilege(model.PrivProductView), h.Inventory.GetProductByBarcode)
	protected.Get("/products/:id", mw.RequirePrivilege(model.PrivProductView), h.Inventory.GetProduct)
	protected.Post("/products", mw.RequirePrivilege(model.PrivProductCreate), h.Inventory.CreateProduct)
	protected.Put("/products/:id", mw.RequirePrivilege(model.PrivProductUpdate), h.Inventory.UpdateProduct)
	protected.Delete("/products/:id", mw.RequirePrivilege(model.PrivProductDelete), h.Inventory.DeleteProduct)

	protected.Get("/products/:id/stock", mw.RequirePrivilege(model.PrivStockView), h.Inventory.GetStockLevels)
	protected.Put("/products/:id/stock", mw.RequirePrivilege(model.PrivStockUpdate), h.Inventory.SetQuantity)
	protected.Post("/products/:id/restock", mw.RequirePrivilege(model.PrivStockUpdate), h.Inventory.Restock)
	protected.Post("/products/:id/adjust", mw.RequirePrivilege(model.PrivStockUpdate), h.Inventory.AdjustQuantity)
	protected.Post("/products/:id/transfer", mw.RequirePrivilege(model.PrivStockUpdate), h.Inventory.Transfer)
	protected.Get("/stock-logs", mw.RequirePrivilege(model.PrivStockView), h.Inventory.GetStockLogs)

	protected.Get("/warehouses", mw.RequireAnyPrivilege(model.PrivStockView, model.PrivWarehouseManage), h.MasterData.GetWarehouses)
	protected.Post("/warehouses", mw.RequirePrivilege(model.PrivWarehouseManage), h.MasterData.CreateWarehouse)
	protected.Put("/warehouses/:id", mw.RequirePrivilege(model.PrivWarehouseManage), h.MasterData.UpdateWarehouse)
	protected.Put("/warehouses/:id/default", mw.RequirePrivilege(model.PrivWarehouseManage), h.MasterData.SetDefaultWarehouse)
	protected.Delete("/warehouses/:id", mw.RequirePrivilege(model.PrivWarehouseManage), h.MasterData.DeleteWarehouse)

	protected.Get("/customers", mw.RequireAnyPrivilege(model.PrivCustomerView, model.PrivCustomerManage), h.MasterData.GetCustomers)
	protected.Get("/customers/:id", mw.RequireAnyPrivilege(model.PrivCustomerView, model.PrivCustomerManage), h.MasterData.GetCustomer)
	protected.Post("/customers", mw.RequirePrivilege(model.PrivCustomerManage), h.MasterData.CreateCustomer)
	protected.Put("/customers/:id", mw.RequirePrivilege(model.PrivCustomerManage), h.MasterData.UpdateCustomer)
	protected.Delete("/customers/:id", mw.RequirePrivilege(model.PrivCustomerManage), h.MasterData.DeleteCustomer)

	protected.Get("/suppliers", mw.RequireAnyPrivilege(model.PrivSupplierManage, model.PrivPurchaseView), h.MasterData.GetSuppliers)
	protected.Get("/suppliers/:id", mw.RequireAnyPrivilege(model.PrivSupplierManage, model.PrivPurchaseView), h.MasterData.GetSupplier)
	protected.Post("/suppliers", mw.RequirePrivilege(model.PrivSupplierManage), h.MasterData.CreateSupplier)
	protected.Put("/suppliers/:id", mw.RequirePrivilege(model.PrivSupplierManage), h.MasterData.UpdateSupplier)
	protected.Delete("/suppliers/:id", mw.RequirePrivilege(model.PrivSupplierManage), h.MasterData.DeleteSupplier)

	protected.Get("/purchases", mw.RequirePrivilege(model.PrivPurchaseView), h.Purchase.GetPurchases)
	protected.Get("/purchases/:id", mw.RequirePrivilege(model.PrivPurchaseView), h.Purchase.GetPurchase)
	protected.Post("/purchases", mw.RequirePrivilege(model.PrivPurchaseCreate), h.Purchase.CreatePurchase)
	protected.Post("/purchases/:id/receive", mw.RequirePrivilege(model.PrivPurchaseReceive), h.Purchase.ReceivePurchase)
	protected.Post("/purchases/:id/pay", mw.RequirePrivilege(model.PrivPurchasePay), h.Purchase.MarkPaid)

	protected.Get("/orders", mw.RequirePrivilege(model.PrivOrderView), h.Order.GetOrders)
	protected.Get("/orders/:id", mw.RequirePrivilege(model.PrivOrderView), h.Order.GetOrder)
	protected.Put("/orders/:id/status", mw.RequirePrivilege(model.PrivOrderUpdate), h.Order.UpdateStatus)
	protected.Post("/pos/quote", mw.RequirePrivilege(model.PrivOrderCreate), h.Order.Quote)
	protected.Post("/pos/orders", mw.RequirePrivilege(model.PrivOrderCreate), h.Order.Checkout)

	protected.Get("/users", mw.RequirePrivilege(model.PrivUserView), h.User.GetUsers)
	protected.Get("/users/:id", mw.RequirePrivilege(model.PrivUserView), h.User.GetUser)
	protected.Post("/users", mw.RequirePrivilege(model.PrivUserCreate), h.User.CreateUser)
	protected.Put("/users/:id", mw.RequirePrivilege(model.PrivUserUpdate), h.User.UpdateUser)
	protected.Delete("/users/:id", mw.RequirePrivilege(model.PrivUserDelete), h.User.DeleteUser)

	protected.Get("/roles", mw.RequirePrivilege(model.PrivRoleView), h.Role.GetRoles)
	protected.Get("/privileges", mw.RequirePrivilege(model.PrivRoleView), h.Role.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(h.Hub.Serve))
}
