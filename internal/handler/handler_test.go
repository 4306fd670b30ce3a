package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-storefront/internal/model"
	"go-storefront/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productEnvelope struct {
	Data model.ProductResponse `json:"data"`
}

type orderEnvelope struct {
	Data model.Order `json:"data"`
}

func (s *testServer) createProduct(t *testing.T, token, sku string, stock int, cost int64) model.ProductResponse {
	t.Helper()
	resp := s.do(t, http.MethodPost, "/api/v1/products", token, map[string]interface{}{
		"sku":             sku,
		"name":            "Product " + sku,
		"unit":            "PCS",
		"retail_price":    10000,
		"wholesale_price": 9000,
		"min_stock":       2,
		"initial_stock":   stock,
		"initial_cost":    cost,
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var out productEnvelope
	decode(t, resp, &out)
	return out.Data
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrProductNotFound, fiber.StatusNotFound},
		{service.ErrDuplicateSKU, fiber.StatusConflict},
		{service.ErrNegativeStock, fiber.StatusConflict},
		{service.ErrInsufficientCash, fiber.StatusBadRequest},
		{service.ErrSessionReplaced, fiber.StatusUnauthorized},
		{fmt.Errorf("wrapped: %w", service.ErrOrderNotFound), fiber.StatusNotFound},
		{errors.New("db down"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "admin@example.com", "password": "nope"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/products", "", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	first := s.login(t, model.RoleMasterAdmin)
	second := s.login(t, model.RoleMasterAdmin)

	resp = s.do(t, http.MethodGet, "/api/v1/products", first, nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "older session is replaced")
	resp = s.do(t, http.MethodGet, "/api/v1/products", second, nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/v1/auth/change-password", second,
		map[string]string{"old_password": "admin123", "new_password": "admin456"}, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/roles", second, nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestInventoryRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, model.RoleMasterAdmin)

	p := s.createProduct(t, admin, "KOPI-1", 10, 5000)
	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, int64(5000), p.AvgCost)

	resp := s.do(t, http.MethodPost, "/api/v1/products", admin, map[string]interface{}{
		"sku": "KOPI-1", "name": "Dup", "unit": "PCS",
	}, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/v1/products/"+p.ID.String()+"/restock", admin,
		map[string]interface{}{"quantity": 10, "unit_cost": 7000}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var restocked productEnvelope
	decode(t, resp, &restocked)
	assert.Equal(t, 20, restocked.Data.Stock)
	assert.Equal(t, int64(6000), restocked.Data.AvgCost)

	resp = s.do(t, http.MethodPost, "/api/v1/products/"+p.ID.String()+"/adjust", admin,
		map[string]interface{}{"delta": -25}, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/products/"+uuid.NewString(), admin, nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/v1/products/not-a-uuid", admin, nil, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/stock-logs?product_id="+p.ID.String(), admin, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var logs struct {
		Total int64 `json:"total"`
	}
	decode(t, resp, &logs)
	assert.Equal(t, int64(2), logs.Total)
}

func TestCashierPermissions(t *testing.T) {
	s := newTestServer(t)
	cashier := s.login(t, model.RoleCashier)

	resp := s.do(t, http.MethodPost, "/api/v1/products", cashier, map[string]interface{}{
		"sku": "X", "name": "X", "unit": "PCS",
	}, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/users", cashier, nil, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/products", cashier, nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPOSCheckout(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, model.RoleMasterAdmin)
	cashier := s.login(t, model.RoleCashier)
	p := s.createProduct(t, admin, "TEH-1", 5, 4000)

	order := map[string]interface{}{
		"items":           []map[string]interface{}{{"product_id": p.ID, "quantity": 2}},
		"delivery_method": "PICKUP",
		"payment_method":  "CASH",
		"amount_tendered": 15000,
	}
	resp := s.do(t, http.MethodPost, "/api/v1/pos/orders", cashier, order, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "20000 due, 15000 tendered")

	order["amount_tendered"] = 50000
	resp = s.do(t, http.MethodPost, "/api/v1/pos/orders", cashier, order, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var out orderEnvelope
	decode(t, resp, &out)
	assert.Equal(t, model.OrderDone, out.Data.Status)
	assert.Equal(t, model.ChannelPOS, out.Data.Channel)
	assert.Equal(t, int64(20000), out.Data.Total)
	assert.Equal(t, int64(30000), out.Data.Change)

	resp = s.do(t, http.MethodGet, "/api/v1/products/"+p.ID.String(), admin, nil, nil)
	var product model.ProductResponse
	decode(t, resp, &product)
	assert.Equal(t, 3, product.Stock)
}

func TestStorefrontFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, model.RoleMasterAdmin)
	p := s.createProduct(t, admin, "ROTI-1", 5, 3000)

	resp := s.do(t, http.MethodGet, "/api/v1/store/products", "", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var catalog struct {
		Data []map[string]interface{} `json:"data"`
	}
	decode(t, resp, &catalog)
	require.Len(t, catalog.Data, 1)
	assert.NotContains(t, catalog.Data[0], "avg_cost")

	resp = s.do(t, http.MethodGet, "/api/v1/store/cart", "", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	session := resp.Header.Get(HeaderCartSession)
	require.NotEmpty(t, session)
	headers := map[string]string{HeaderCartSession: session}

	resp = s.do(t, http.MethodPut, "/api/v1/store/cart/items", "",
		map[string]interface{}{"product_id": p.ID, "quantity": 2}, headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/store/cart/quote?delivery_method=STORE_COURIER", "", nil, headers)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var quote service.Quote
	decode(t, resp, &quote)
	assert.Equal(t, int64(20000), quote.Subtotal)
	assert.Equal(t, int64(10000), quote.ShippingCost)
	assert.Equal(t, int64(30000), quote.Total)

	resp = s.do(t, http.MethodPost, "/api/v1/store/checkout", "", map[string]interface{}{
		"customer_name":    "Budi",
		"customer_phone":   "08123",
		"shipping_address": "Jl. Merdeka 1",
		"delivery_method":  "STORE_COURIER",
		"payment_method":   "TRANSFER",
	}, headers)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var placed orderEnvelope
	decode(t, resp, &placed)
	assert.Equal(t, model.OrderWaiting, placed.Data.Status)

	resp = s.do(t, http.MethodGet, "/api/v1/store/orders/"+placed.Data.Code, "", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/store/cart", "", nil, headers)
	var emptied struct {
		Items []interface{} `json:"items"`
	}
	decode(t, resp, &emptied)
	assert.Empty(t, emptied.Items)

	statusPath := "/api/v1/orders/" + placed.Data.ID.String() + "/status"
	resp = s.do(t, http.MethodPut, statusPath, admin, map[string]string{"status": "SHIPPED"}, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode, "WAITING cannot jump to SHIPPED")

	resp = s.do(t, http.MethodPut, statusPath, admin, map[string]string{"status": "PROCESSING"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = s.do(t, http.MethodPut, statusPath, admin, map[string]string{"status": "DONE"}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/products/"+p.ID.String(), admin, nil, nil)
	var product model.ProductResponse
	decode(t, resp, &product)
	assert.Equal(t, 3, product.Stock)
}

func TestCheckoutRequiresSession(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, http.MethodPost, "/api/v1/store/checkout", "", map[string]interface{}{}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMasterDataAndPurchaseRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(t, model.RoleMasterAdmin)
	p := s.createProduct(t, admin, "GULA-1", 0, 0)

	resp := s.do(t, http.MethodPost, "/api/v1/suppliers", admin, map[string]string{"name": "PT Sumber"}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var supplier struct {
		Data model.Supplier `json:"data"`
	}
	decode(t, resp, &supplier)

	resp = s.do(t, http.MethodPost, "/api/v1/purchases", admin, map[string]interface{}{
		"supplier_id": supplier.Data.ID,
		"items":       []map[string]interface{}{{"product_id": p.ID, "quantity": 4, "unit_cost": 2500}},
	}, nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var purchase struct {
		Data model.Purchase `json:"data"`
	}
	decode(t, resp, &purchase)

	receive := "/api/v1/purchases/" + purchase.Data.ID.String() + "/receive"
	resp = s.do(t, http.MethodPost, receive, admin, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = s.do(t, http.MethodPost, receive, admin, nil, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/products/"+p.ID.String(), admin, nil, nil)
	var product model.ProductResponse
	decode(t, resp, &product)
	assert.Equal(t, 4, product.Stock)
	assert.Equal(t, int64(2500), product.AvgCost)

	resp = s.do(t, http.MethodDelete, "/api/v1/warehouses/"+s.warehouse.ID.String(), admin, nil, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/v1/dashboard/stats", admin, nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/v1/reports/sales", admin, nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
