package service

import (
	"context"
	"testing"

	"go-storefront/internal/repository"
	"go-storefront/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMasterData(t *testing.T) (MasterDataService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewMasterDataService(
		repository.NewWarehouseRepo(env.db),
		env.stock,
		repository.NewCustomerRepo(env.db),
		repository.NewSupplierRepo(env.db),
		nil,
	), env
}

func TestMasterData_FirstWarehouseIsDefault(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewMasterDataService(repository.NewWarehouseRepo(db), repository.NewStockRepo(db),
		repository.NewCustomerRepo(db), repository.NewSupplierRepo(db), nil)
	ctx := context.Background()

	first, err := svc.CreateWarehouse(ctx, &WarehouseRequest{Code: "main", Name: "Main"}, tester)
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "MAIN", first.Code)

	second, err := svc.CreateWarehouse(ctx, &WarehouseRequest{Code: "b2", Name: "Branch"}, tester)
	require.NoError(t, err)
	assert.False(t, second.IsDefault)

	_, err = svc.CreateWarehouse(ctx, &WarehouseRequest{Code: "MAIN", Name: "Dup"}, tester)
	assert.ErrorIs(t, err, ErrDuplicateCode)

	// Deleting the default hands the flag to the remaining warehouse.
	require.NoError(t, svc.DeleteWarehouse(ctx, first.ID, tester))
	list, err := svc.ListWarehouses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsDefault)
}

func TestMasterData_WarehouseWithStockCannotBeDeleted(t *testing.T) {
	svc, env := newMasterData(t)
	ctx := context.Background()
	env.stockedProduct(t, "A", 3, 100)

	err := svc.DeleteWarehouse(ctx, env.warehouse.ID, tester)
	assert.ErrorIs(t, err, ErrWarehouseNotEmpty)

	err = svc.DeleteWarehouse(ctx, uuid.New(), tester)
	assert.ErrorIs(t, err, ErrWarehouseNotFound)
}

func TestMasterData_CustomersAndSuppliers(t *testing.T) {
	svc, _ := newMasterData(t)
	ctx := context.Background()

	c, err := svc.CreateCustomer(ctx, &CustomerRequest{Name: " Ani ", Phone: "0811"}, tester)
	require.NoError(t, err)
	assert.Equal(t, "Ani", c.Name)

	_, err = svc.CreateCustomer(ctx, &CustomerRequest{Name: "X", Email: "nope"}, tester)
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := svc.UpdateCustomer(ctx, c.ID, &CustomerRequest{Name: "Ani S", Address: "Bandung"}, tester)
	require.NoError(t, err)
	assert.Equal(t, "Bandung", updated.Address)

	list, total, err := svc.ListCustomers(ctx, "ani", repository.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteCustomer(ctx, c.ID, tester))
	assert.ErrorIs(t, svc.DeleteCustomer(ctx, c.ID, tester), ErrCustomerNotFound)

	sup, err := svc.CreateSupplier(ctx, &SupplierRequest{Name: "Acme", ContactPerson: "Joko"}, tester)
	require.NoError(t, err)
	found, _, err := svc.ListSuppliers(ctx, "joko", repository.Page{})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, sup.ID, found[0].ID)

	_, err = svc.GetSupplier(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrSupplierNotFound)
}
