package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-storefront/internal/cart"
	"go-storefront/internal/middleware"
	"go-storefront/internal/model"
	"go-storefront/internal/pricing"
	"go-storefront/internal/repository"
	"go-storefront/internal/service"
	"go-storefront/internal/testutil"
	"go-storefront/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	app       *fiber.App
	db        *gorm.DB
	users     service.UserService
	roles     repository.RoleRepository
	warehouse *model.Warehouse
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.OpenDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	productRepo := repository.NewProductRepo(db)
	stockRepo := repository.NewStockRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	ledger := service.NewStockLedger(productRepo, stockRepo)
	tokens := jwt.NewManager("test-secret", time.Hour)

	inventory := service.NewInventoryService(productRepo, stockRepo, ledger, db, nil, nil, nil)
	orders := service.NewOrderService(repository.NewOrderRepo(db), productRepo, customerRepo, ledger, db,
		pricing.DefaultShippingTable(10000), nil, nil, nil)
	purchases := service.NewPurchaseService(repository.NewPurchaseRepo(db), productRepo, supplierRepo, warehouseRepo, ledger, db, nil, nil)
	masterData := service.NewMasterDataService(warehouseRepo, stockRepo, customerRepo, supplierRepo, nil)
	carts := service.NewCartService(cart.NewRedisStore(rdb, time.Hour), orders, inventory)
	reports := service.NewReportService(repository.NewReportRepo(db), productRepo)
	users := service.NewUserService(userRepo, roleRepo, repository.NewPrivilegeRepo(db), nil)
	auth := service.NewAuthService(userRepo, tokens, nil)

	require.NoError(t, users.Seed(context.Background(), "admin@example.com", "admin123"))

	app := fiber.New()
	RegisterRoutes(app, Handlers{
		Auth:       NewAuthHandler(auth, nil),
		User:       NewUserHandler(users, nil),
		Role:       NewRoleHandler(users, nil),
		Inventory:  NewInventoryHandler(inventory, nil),
		MasterData: NewMasterDataHandler(masterData, nil),
		Purchase:   NewPurchaseHandler(purchases, nil),
		Order:      NewOrderHandler(orders, nil),
		Store:      NewStoreHandler(inventory, orders, carts, nil),
		Report:     NewReportHandler(reports, nil),
	}, middleware.RequireAuth(tokens, userRepo))

	return &testServer{
		app:       app,
		db:        db,
		users:     users,
		roles:     roleRepo,
		warehouse: testutil.Warehouse(t, db, "MAIN", true),
	}
}

// login returns a bearer token for a fresh user with the given role.
func (s *testServer) login(t *testing.T, roleCode string) string {
	t.Helper()
	email := "admin@example.com"
	password := "admin123"
	if roleCode != model.RoleMasterAdmin {
		role, err := s.roles.FindByCode(context.Background(), roleCode)
		require.NoError(t, err)
		email = roleCode + "@example.com"
		password = "secret1"
		_, err = s.users.CreateUser(context.Background(), &service.CreateUserRequest{
			Email:    email,
			Password: password,
			FullName: roleCode,
			RoleID:   role.ID,
		}, service.SystemActor)
		require.NoError(t, err)
	}

	var out struct {
		Token string `json:"token"`
	}
	resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": password}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &out)
	return out.Token
}

// do sends a JSON request. headers may be nil.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, headers map[string]string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}
