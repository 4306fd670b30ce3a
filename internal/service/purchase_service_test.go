package service

import (
	"context"
	"testing"

	"go-storefront/internal/model"
	"go-storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSupplier(t *testing.T, env *testEnv) *model.Supplier {
	t.Helper()
	s := &model.Supplier{Name: "Acme"}
	require.NoError(t, env.db.Create(s).Error)
	return s
}

func TestPurchase_ReceiveAppliesAllItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	supplier := newSupplier(t, env)
	a := env.stockedProduct(t, "A", 10, 1000)
	b := env.stockedProduct(t, "B", 0, 0)

	po, err := env.purchases.Create(ctx, &PurchaseRequest{
		SupplierID: supplier.ID,
		Items: []PurchaseItemRequest{
			{ProductID: a.ID, Quantity: 10, UnitCost: 1200},
			{ProductID: b.ID, Quantity: 5, UnitCost: 2000},
		},
	}, tester)
	require.NoError(t, err)
	assert.Equal(t, int64(22000), po.Total)
	assert.Equal(t, model.ReceiptPending, po.ReceiptStatus)
	assert.Equal(t, model.PaymentUnpaid, po.PaymentStatus)
	assert.Equal(t, env.warehouse.ID, po.WarehouseID)

	received, err := env.purchases.Receive(ctx, po.ID, tester)
	require.NoError(t, err)
	assert.True(t, received.IsReceived())
	require.NotNil(t, received.ReceivedAt)
	assert.Equal(t, "Tester", received.ReceivedBy)

	gotA, err := env.inventory.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, gotA.Stock)
	assert.Equal(t, int64(1100), gotA.AvgCost)

	gotB, err := env.inventory.GetProduct(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, gotB.Stock)
	assert.Equal(t, int64(2000), gotB.AvgCost)

	logs, _, err := env.inventory.StockLogs(ctx, repository.StockLogFilter{Reference: po.Code})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestPurchase_ReceiveTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	supplier := newSupplier(t, env)
	a := env.stockedProduct(t, "A", 0, 0)

	po, err := env.purchases.Create(ctx, &PurchaseRequest{
		SupplierID: supplier.ID,
		Items:      []PurchaseItemRequest{{ProductID: a.ID, Quantity: 3, UnitCost: 500}},
	}, tester)
	require.NoError(t, err)

	_, err = env.purchases.Receive(ctx, po.ID, tester)
	require.NoError(t, err)

	_, err = env.purchases.Receive(ctx, po.ID, tester)
	assert.ErrorIs(t, err, ErrAlreadyReceived)
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, 3, env.assertLedgerConsistent(t, a.ID))
}

func TestPurchase_ReceiveRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	supplier := newSupplier(t, env)
	a := env.stockedProduct(t, "A", 10, 1000)
	b := env.stockedProduct(t, "B", 1, 100)

	po, err := env.purchases.Create(ctx, &PurchaseRequest{
		SupplierID: supplier.ID,
		Items: []PurchaseItemRequest{
			{ProductID: a.ID, Quantity: 10, UnitCost: 1200},
			{ProductID: b.ID, Quantity: 1, UnitCost: 100},
		},
	}, tester)
	require.NoError(t, err)

	// A product vanishing between ordering and receiving fails the receipt.
	require.NoError(t, env.db.Delete(&model.Product{}, "id = ?", b.ID).Error)

	_, err = env.purchases.Receive(ctx, po.ID, tester)
	assert.ErrorIs(t, err, ErrProductNotFound)

	gotA, err := env.inventory.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, gotA.Stock, "no item may be applied when another fails")
	assert.Equal(t, int64(1000), gotA.AvgCost)

	again, err := env.purchases.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReceiptPending, again.ReceiptStatus)
}

func TestPurchase_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	supplier := newSupplier(t, env)
	a := env.stockedProduct(t, "A", 0, 0)

	_, err := env.purchases.Create(ctx, &PurchaseRequest{SupplierID: supplier.ID}, tester)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.purchases.Create(ctx, &PurchaseRequest{
		SupplierID: supplier.ID,
		Items:      []PurchaseItemRequest{{ProductID: a.ID, Quantity: 1, UnitCost: 0}},
	}, tester)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.purchases.Create(ctx, &PurchaseRequest{
		SupplierID: uuid.New(),
		Items:      []PurchaseItemRequest{{ProductID: a.ID, Quantity: 1, UnitCost: 1}},
	}, tester)
	assert.ErrorIs(t, err, ErrSupplierNotFound)

	_, err = env.purchases.Create(ctx, &PurchaseRequest{
		SupplierID: supplier.ID,
		Items:      []PurchaseItemRequest{{ProductID: uuid.New(), Quantity: 1, UnitCost: 1}},
	}, tester)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPurchase_MarkPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	supplier := newSupplier(t, env)
	a := env.stockedProduct(t, "A", 0, 0)

	po, err := env.purchases.Create(ctx, &PurchaseRequest{
		SupplierID: supplier.ID,
		Items:      []PurchaseItemRequest{{ProductID: a.ID, Quantity: 1, UnitCost: 1}},
	}, tester)
	require.NoError(t, err)

	paid, err := env.purchases.MarkPaid(ctx, po.ID, tester)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, paid.PaymentStatus)
	assert.NotNil(t, paid.PaidAt)

	_, err = env.purchases.MarkPaid(ctx, po.ID, tester)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	list, total, err := env.purchases.List(ctx, repository.PurchaseFilter{PaymentStatus: model.PaymentPaid})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)
}
