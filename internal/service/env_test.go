package service

import (
	"context"
	"sync"
	"testing"

	"go-storefront/internal/model"
	"go-storefront/internal/pricing"
	"go-storefront/internal/repository"
	"go-storefront/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var tester = Actor{ID: "u-1", Name: "Tester"}

type recordingAlerts struct {
	mu   sync.Mutex
	skus []string
}

func (r *recordingAlerts) NotifyLowStock(_ context.Context, p model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skus = append(r.skus, p.SKU)
	return nil
}

type testEnv struct {
	db        *gorm.DB
	products  repository.ProductRepository
	stock     repository.StockRepository
	ledger    *StockLedger
	alerts    *recordingAlerts
	inventory InventoryService
	purchases PurchaseService
	orders    OrderService
	warehouse *model.Warehouse
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenDB(t)

	env := &testEnv{
		db:       db,
		products: repository.NewProductRepo(db),
		stock:    repository.NewStockRepo(db),
		alerts:   &recordingAlerts{},
	}
	env.ledger = NewStockLedger(env.products, env.stock)
	env.inventory = NewInventoryService(env.products, env.stock, env.ledger, db, nil, env.alerts, nil)
	env.purchases = NewPurchaseService(repository.NewPurchaseRepo(db), env.products,
		repository.NewSupplierRepo(db), repository.NewWarehouseRepo(db), env.ledger, db, nil, nil)
	env.orders = NewOrderService(repository.NewOrderRepo(db), env.products, repository.NewCustomerRepo(db),
		env.ledger, db, pricing.DefaultShippingTable(10000), nil, env.alerts, nil)
	env.warehouse = testutil.Warehouse(t, db, "MAIN", true)
	return env
}

// stockedProduct creates a product and receives qty units at cost into the
// default warehouse.
func (e *testEnv) stockedProduct(t *testing.T, sku string, qty int, cost int64) *model.Product {
	t.Helper()
	p, err := e.inventory.CreateProduct(context.Background(), &ProductRequest{
		SKU:            sku,
		Name:           "Product " + sku,
		Unit:           "PCS",
		RetailPrice:    10000,
		WholesalePrice: 9000,
		InitialStock:   qty,
		InitialCost:    cost,
	}, tester)
	require.NoError(t, err)
	return p
}

// assertLedgerConsistent checks that the product total equals the sum of its
// warehouse rows.
func (e *testEnv) assertLedgerConsistent(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	var product model.Product
	require.NoError(t, e.db.First(&product, "id = ?", productID).Error)
	sum, err := e.stock.SumByProduct(e.db, productID)
	require.NoError(t, err)
	require.Equal(t, sum, product.Stock, "product total must equal the sum of warehouse rows")
	return product.Stock
}
