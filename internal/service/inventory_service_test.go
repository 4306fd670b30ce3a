package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"
	"go-storefront/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_RestockUpdatesWeightedAverage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.stockedProduct(t, "SKU-1", 10, 1000)
	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, int64(1000), p.AvgCost)

	got, err := env.inventory.Restock(ctx, p.ID, &RestockRequest{Quantity: 10, UnitCost: 1200}, tester)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Stock)
	assert.Equal(t, int64(1100), got.AvgCost)
	assert.Equal(t, 20, got.StockByWarehouse()[env.warehouse.ID])

	logs, _, err := env.inventory.StockLogs(ctx, repository.StockLogFilter{ProductID: &p.ID, Reason: model.ReasonRestock})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(1000), logs[0].PrevCost)
	assert.Equal(t, int64(1100), logs[0].NewCost)
	assert.Equal(t, int64(1200), logs[0].UnitCost)
	assert.Equal(t, 10, logs[0].Delta)
	assert.Equal(t, "Tester", logs[0].ActorName)
}

func TestInventory_RestockRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.stockedProduct(t, "SKU-1", 5, 2000)

	for _, req := range []*RestockRequest{
		{Quantity: 0, UnitCost: 1000},
		{Quantity: -3, UnitCost: 1000},
		{Quantity: 3, UnitCost: 0},
	} {
		_, err := env.inventory.Restock(ctx, p.ID, req, tester)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	got, err := env.inventory.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, int64(2000), got.AvgCost)
}

func TestInventory_CreateProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.inventory.CreateProduct(ctx, &ProductRequest{SKU: "A", Name: "A", Unit: "pcs"}, tester)
	require.NoError(t, err)
	assert.True(t, p.IsActive)
	assert.Equal(t, "PCS", p.Unit)
	assert.Zero(t, p.Stock)

	_, err = env.inventory.CreateProduct(ctx, &ProductRequest{SKU: "A", Name: "Again", Unit: "PCS"}, tester)
	assert.ErrorIs(t, err, ErrDuplicateSKU)

	_, err = env.inventory.CreateProduct(ctx, &ProductRequest{SKU: "B", Unit: "PCS"}, tester)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.inventory.CreateProduct(ctx, &ProductRequest{SKU: "C", Name: "C", Unit: "PCS", InitialStock: 3}, tester)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInventory_CreateWithStockNeedsWarehouse(t *testing.T) {
	db := testutil.OpenDB(t)
	products := repository.NewProductRepo(db)
	stock := repository.NewStockRepo(db)
	svc := NewInventoryService(products, stock, NewStockLedger(products, stock), db, nil, nil, nil)

	_, err := svc.CreateProduct(context.Background(), &ProductRequest{
		SKU: "A", Name: "A", Unit: "PCS", InitialStock: 2, InitialCost: 100,
	}, tester)
	assert.ErrorIs(t, err, ErrNoWarehouse)

	_, err = products.FindBySKU(context.Background(), "A")
	assert.Error(t, err, "product insert must roll back with the failed receipt")
}

func TestInventory_UpdateNeverTouchesStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.stockedProduct(t, "SKU-1", 7, 1500)

	inactive := false
	got, err := env.inventory.UpdateProduct(ctx, p.ID, &ProductRequest{
		SKU: "SKU-1", Name: "Renamed", Unit: "BOX", RetailPrice: 99, InitialStock: 500, IsActive: &inactive,
	}, tester)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.False(t, got.IsActive)
	assert.Equal(t, 7, got.Stock)
	assert.Equal(t, int64(1500), got.AvgCost)

	other := env.stockedProduct(t, "SKU-2", 1, 100)
	_, err = env.inventory.UpdateProduct(ctx, other.ID, &ProductRequest{SKU: "SKU-1", Name: "X", Unit: "PCS"}, tester)
	assert.ErrorIs(t, err, ErrDuplicateSKU)
}

func TestInventory_AdjustRejectsNegative(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.stockedProduct(t, "SKU-1", 3, 1000)

	_, err := env.inventory.AdjustQuantity(ctx, p.ID, &AdjustQuantityRequest{Delta: -5}, tester)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNegativeStock))
	assert.True(t, errors.Is(err, ErrConflict))

	assert.Equal(t, 3, env.assertLedgerConsistent(t, p.ID))

	logs, total, err := env.inventory.StockLogs(ctx, repository.StockLogFilter{ProductID: &p.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total, "rejected adjustment must not be logged")
	assert.Equal(t, model.ReasonInitialStock, logs[0].Reason)
}

func TestInventory_SetQuantityAndLowStockAlert(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.inventory.CreateProduct(ctx, &ProductRequest{
		SKU: "SKU-1", Name: "Low", Unit: "PCS", MinStock: 5, InitialStock: 10, InitialCost: 100,
	}, tester)
	require.NoError(t, err)
	assert.Empty(t, env.alerts.skus)

	got, err := env.inventory.SetQuantity(ctx, p.ID, &SetQuantityRequest{Quantity: 2, Note: "count"}, tester)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
	assert.Equal(t, int64(100), got.AvgCost)
	assert.Equal(t, []string{"SKU-1"}, env.alerts.skus)

	_, err = env.inventory.SetQuantity(ctx, p.ID, &SetQuantityRequest{Quantity: -1}, tester)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInventory_Transfer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	branch := testutil.Warehouse(t, env.db, "BRANCH", false)
	p := env.stockedProduct(t, "SKU-1", 10, 1000)

	got, err := env.inventory.Transfer(ctx, p.ID, &TransferRequest{
		FromWarehouseID: env.warehouse.ID, ToWarehouseID: branch.ID, Quantity: 4,
	}, tester)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
	assert.Equal(t, 6, got.StockByWarehouse()[env.warehouse.ID])
	assert.Equal(t, 4, got.StockByWarehouse()[branch.ID])

	_, err = env.inventory.Transfer(ctx, p.ID, &TransferRequest{
		FromWarehouseID: branch.ID, ToWarehouseID: env.warehouse.ID, Quantity: 5,
	}, tester)
	assert.ErrorIs(t, err, ErrNegativeStock)

	_, err = env.inventory.Transfer(ctx, p.ID, &TransferRequest{
		FromWarehouseID: branch.ID, ToWarehouseID: branch.ID, Quantity: 1,
	}, tester)
	assert.ErrorIs(t, err, ErrInvalidInput)

	levels, err := env.inventory.StockLevels(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, levels, 2)
	env.assertLedgerConsistent(t, p.ID)
}

func TestInventory_LedgerInvariantUnderRandomWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	second := testutil.Warehouse(t, env.db, "SECOND", false)
	warehouses := []*model.Warehouse{env.warehouse, second}
	p := env.stockedProduct(t, "SKU-1", 20, 1000)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 60; i++ {
		w := warehouses[rng.Intn(len(warehouses))].ID
		switch rng.Intn(4) {
		case 0:
			_, err := env.inventory.SetQuantity(ctx, p.ID, &SetQuantityRequest{WarehouseID: &w, Quantity: rng.Intn(30)}, tester)
			require.NoError(t, err)
		case 1:
			_, err := env.inventory.Restock(ctx, p.ID, &RestockRequest{WarehouseID: &w, Quantity: 1 + rng.Intn(10), UnitCost: int64(500 + rng.Intn(1000))}, tester)
			require.NoError(t, err)
		case 2:
			delta := rng.Intn(21) - 10
			if delta == 0 {
				delta = 1
			}
			_, err := env.inventory.AdjustQuantity(ctx, p.ID, &AdjustQuantityRequest{WarehouseID: &w, Delta: delta}, tester)
			if err != nil {
				require.ErrorIs(t, err, ErrNegativeStock)
			}
		case 3:
			from, to := env.warehouse.ID, second.ID
			if rng.Intn(2) == 0 {
				from, to = to, from
			}
			_, err := env.inventory.Transfer(ctx, p.ID, &TransferRequest{FromWarehouseID: from, ToWarehouseID: to, Quantity: 1 + rng.Intn(5)}, tester)
			if err != nil {
				require.ErrorIs(t, err, ErrNegativeStock)
			}
		}

		total := env.assertLedgerConsistent(t, p.ID)
		require.GreaterOrEqual(t, total, 0)
	}
}

func TestInventory_NotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.stockedProduct(t, "SKU-1", 1, 100)

	_, err := env.inventory.Restock(ctx, env.warehouse.ID, &RestockRequest{Quantity: 1, UnitCost: 1}, tester)
	assert.ErrorIs(t, err, ErrProductNotFound)

	missing := p.ID
	missing[0] ^= 0xff
	_, err = env.inventory.Restock(ctx, p.ID, &RestockRequest{WarehouseID: &missing, Quantity: 1, UnitCost: 1}, tester)
	assert.ErrorIs(t, err, ErrWarehouseNotFound)

	require.NoError(t, env.inventory.DeleteProduct(ctx, p.ID, tester))
	_, err = env.inventory.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
