package service

import (
	"context"
	"testing"
	"time"

	"go-storefront/internal/cart"
	"go-storefront/internal/model"
	"go-storefront/internal/pricing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T, env *testEnv) CartService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCartService(cart.NewRedisStore(rdb, time.Hour), env.orders, env.inventory)
}

func TestCart_QuoteAndCheckout(t *testing.T) {
	env := newTestEnv(t)
	carts := newCartService(t, env)
	ctx := context.Background()
	session := cart.NewSessionID()

	a := env.stockedProduct(t, "A", 10, 1000)
	b := env.stockedProduct(t, "B", 10, 1000)
	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", b.ID).Update("retail_price", 5000).Error)

	_, err := carts.Quote(ctx, session, pricing.DeliveryPickup)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = carts.SetItem(ctx, session, &CartItemRequest{ProductID: a.ID, Quantity: 2})
	require.NoError(t, err)
	c, err := carts.SetItem(ctx, session, &CartItemRequest{ProductID: b.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, c.Count())

	quote, err := carts.Quote(ctx, session, pricing.DeliveryPickup)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), quote.Total)

	order, err := carts.Checkout(ctx, session, &CheckoutRequest{
		CustomerName:   "Siti",
		CustomerPhone:  "0813",
		DeliveryMethod: pricing.DeliveryPickup,
		PaymentMethod:  model.PayTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ChannelStorefront, order.Channel)
	assert.Equal(t, model.OrderWaiting, order.Status)
	assert.Equal(t, int64(25000), order.Total)

	after, err := carts.Get(ctx, session)
	require.NoError(t, err)
	assert.True(t, after.IsEmpty())
}

func TestCart_SetItemRules(t *testing.T) {
	env := newTestEnv(t)
	carts := newCartService(t, env)
	ctx := context.Background()
	session := cart.NewSessionID()
	a := env.stockedProduct(t, "A", 10, 1000)

	_, err := carts.SetItem(ctx, "not-a-session", &CartItemRequest{ProductID: a.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = carts.SetItem(ctx, session, &CartItemRequest{ProductID: a.ID, Quantity: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", a.ID).Update("is_active", false).Error)
	_, err = carts.SetItem(ctx, session, &CartItemRequest{ProductID: a.ID, Quantity: 1})
	assert.ErrorIs(t, err, ErrProductInactive)

	c, err := carts.SetItem(ctx, session, &CartItemRequest{ProductID: a.ID, Quantity: 0})
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}
