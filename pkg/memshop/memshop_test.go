package memshop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/memshop"
	"github.com/goliatone/go-storefront/pkg/testsupport"
)

func mug() frontend.Product {
	return frontend.Product{ID: "p1", Code: "MUG", Label: "Mug", Status: 1, Price: frontend.Price{Value: 1250, TaxRate: "19.00"}}
}

func TestBasket_AddMergesIdenticalLinesAndSavesOnlyOnSave(t *testing.T) {
	ctx := context.Background()
	shop := memshop.NewShop()
	ctl := shop.Basket("s1")

	require.NoError(t, ctl.AddProduct(ctx, frontend.AddProductInput{Product: mug(), Quantity: 1, StockType: "default"}))
	require.NoError(t, ctl.AddProduct(ctx, frontend.AddProductInput{Product: mug(), Quantity: 2, StockType: "default"}))
	require.NoError(t, ctl.AddProduct(ctx, frontend.AddProductInput{Product: mug(), Quantity: 1, StockType: "default", VariantAttrs: []string{"red"}}))

	basket, err := ctl.Get(ctx)
	require.NoError(t, err)
	require.Len(t, basket.Products, 2)
	assert.Equal(t, 3, basket.Products[0].Quantity)
	assert.Equal(t, 1, basket.Products[1].Position)
	assert.Equal(t, "variant", basket.Products[1].Attributes[0].Type)

	_, ok := shop.Stored("s1")
	assert.False(t, ok, "draft must not be visible before Save")

	require.NoError(t, ctl.Save(ctx))
	stored, ok := shop.Stored("s1")
	require.True(t, ok)
	assert.Len(t, stored.Products, 2)

	next, err := shop.Basket("s1").Get(ctx)
	require.NoError(t, err)
	assert.Len(t, next.Products, 2)
}

func TestBasket_UpdateDeleteAndUnavailableProducts(t *testing.T) {
	ctx := context.Background()
	ctl := memshop.NewShop().Basket("s1")
	require.NoError(t, ctl.AddProduct(ctx, frontend.AddProductInput{Product: mug(), Quantity: 1}))

	require.NoError(t, ctl.UpdateProduct(ctx, 0, 4))
	basket, _ := ctl.Get(ctx)
	assert.Equal(t, 4, basket.Products[0].Quantity)

	var domainErr *frontend.DomainError
	err := ctl.UpdateProduct(ctx, 9, 1)
	require.ErrorAs(t, err, &domainErr)
	assert.True(t, errors.Is(err, frontend.ErrNotFound))

	require.NoError(t, ctl.DeleteProduct(ctx, 0))
	basket, _ = ctl.Get(ctx)
	assert.Empty(t, basket.Products)

	disabled := mug()
	disabled.Status = 0
	err = ctl.AddProduct(ctx, frontend.AddProductInput{Product: disabled, Quantity: 1})
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "Product is not available", domainErr.Msg)
}

func TestBasket_Coupons(t *testing.T) {
	ctx := context.Background()
	ctl := memshop.NewShop(memshop.WithCoupon("SAVE5", 500)).Basket("s1")

	var domainErr *frontend.DomainError
	require.ErrorAs(t, ctl.AddCoupon(ctx, "NOPE"), &domainErr)
	assert.Equal(t, "Coupon code is invalid", domainErr.Msg)

	require.NoError(t, ctl.AddCoupon(ctx, "SAVE5"))
	basket, _ := ctl.Get(ctx)
	require.Contains(t, basket.Coupons, "SAVE5")
	assert.Equal(t, int64(-500), basket.Coupons["SAVE5"][0].Price.Value)

	require.NoError(t, ctl.DeleteCoupon(ctx, "SAVE5"))
	assert.Error(t, ctl.DeleteCoupon(ctx, "SAVE5"))
}

func TestBasket_CheckReportsStockCodes(t *testing.T) {
	ctx := context.Background()
	five := 5
	stock := &testsupport.StaticStock{Items: []frontend.StockItem{
		{ProductCode: "MUG", Type: "default", StockLevel: &five},
	}}
	ctl := memshop.NewShop(memshop.WithStock(stock)).Basket("s1")

	tee := frontend.Product{ID: "p2", Code: "TEE", Status: 1}
	require.NoError(t, ctl.AddProduct(ctx, frontend.AddProductInput{Product: mug(), Quantity: 6, StockType: "default"}))
	require.NoError(t, ctl.AddProduct(ctx, frontend.AddProductInput{Product: tee, Quantity: 1, StockType: "default"}))

	require.NoError(t, ctl.Check(ctx, frontend.PartAddress), "only product checks consult the stock")

	var pluginErr *frontend.PluginError
	require.ErrorAs(t, ctl.Check(ctx, frontend.PartProduct), &pluginErr)
	assert.Equal(t, map[string]map[string]string{
		"product": {"0": memshop.CodeStockNotEnough, "1": memshop.CodeProductUnknown},
	}, pluginErr.Codes)

	require.NoError(t, ctl.UpdateProduct(ctx, 0, 5))
	require.NoError(t, ctl.DeleteProduct(ctx, 1))
	assert.NoError(t, ctl.Check(ctx, frontend.PartProduct))
}

func TestBasket_Addresses(t *testing.T) {
	ctx := context.Background()
	ctl := memshop.NewShop().Basket("s1")

	require.NoError(t, ctl.AddAddress(ctx, frontend.AddressDelivery, frontend.Address{City: "Berlin"}))
	basket, _ := ctl.Get(ctx)
	assert.Equal(t, 1, basket.AddressCount())

	require.NoError(t, ctl.DeleteAddress(ctx, frontend.AddressDelivery))
	assert.Equal(t, 0, basket.AddressCount())
}

func TestSessions_Open(t *testing.T) {
	sessions := memshop.NewSessions()

	id, session := sessions.Open("")
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	session.Set("k", "v")

	again, same := sessions.Open(id)
	assert.Equal(t, id, again)
	assert.Equal(t, "v", same.Get("k", nil))

	forged, _ := sessions.Open("not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", forged)
	assert.Equal(t, 2, sessions.Len())
}

func TestSessions_UnknownIDIsNeverAdopted(t *testing.T) {
	sessions := memshop.NewSessions()

	chosen := uuid.NewString()
	id, _ := sessions.Open(chosen)
	assert.NotEqual(t, chosen, id)

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	second, _ := sessions.Open(chosen)
	assert.NotEqual(t, chosen, second)
	assert.NotEqual(t, id, second)
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func TestSessions_ExpireIdleSessionsAndForgetBaskets(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	shop := memshop.NewShop()
	sessions := memshop.NewSessions(memshop.WithTTL(time.Minute), memshop.WithClock(clock.Now))
	sessions.OnExpire(shop.Forget)

	idle, _ := sessions.Open("")
	ctl := shop.Basket(idle)
	require.NoError(t, ctl.AddProduct(ctx, frontend.AddProductInput{Product: mug(), Quantity: 1}))
	require.NoError(t, ctl.Save(ctx))
	require.Equal(t, 1, shop.Len())

	clock.now = clock.now.Add(30 * time.Second)
	active, _ := sessions.Open("")

	clock.now = clock.now.Add(45 * time.Second)
	kept, _ := sessions.Open(active)
	assert.Equal(t, active, kept, "touched within the ttl")
	assert.Equal(t, 1, sessions.Len())
	assert.Equal(t, 0, shop.Len())

	revived, _ := sessions.Open(idle)
	assert.NotEqual(t, idle, revived)
	_, ok := shop.Stored(idle)
	assert.False(t, ok)

	clock.now = clock.now.Add(2 * time.Minute)
	assert.Equal(t, 2, sessions.Sweep())
	assert.Equal(t, 0, sessions.Len())
}

func TestSessions_EvictLeastRecentlyUsed(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	var dropped []string
	sessions := memshop.NewSessions(memshop.WithMaxSessions(2), memshop.WithClock(clock.Now))
	sessions.OnExpire(func(id string) { dropped = append(dropped, id) })

	first, _ := sessions.Open("")
	clock.now = clock.now.Add(time.Second)
	second, _ := sessions.Open("")
	clock.now = clock.now.Add(time.Second)
	_, _ = sessions.Open(first)
	clock.now = clock.now.Add(time.Second)
	third, _ := sessions.Open("")

	assert.Equal(t, []string{second}, dropped)
	assert.Equal(t, 2, sessions.Len())

	again, _ := sessions.Open(third)
	assert.Equal(t, third, again)
}

func TestCache_InvalidateByTag(t *testing.T) {
	cache := memshop.NewCache()
	cache.Set("basket:s1", "<basket/>", "basket")
	cache.Set("stock:MUG", "<stock/>", "stock", "product")

	cache.Invalidate("basket")
	_, ok := cache.Get("basket:s1")
	assert.False(t, ok)
	value, ok := cache.Get("stock:MUG")
	assert.True(t, ok)
	assert.Equal(t, "<stock/>", value)

	cache.Invalidate("product")
	assert.Equal(t, 0, cache.Len())
}

func TestCustomers_Get(t *testing.T) {
	customers := memshop.NewCustomers(frontend.Customer{ID: "u1", Code: "ada@example.com"})

	customer, err := customers.Get(context.Background(), "u1", "customer/address")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", customer.Code)

	_, err = customers.Get(context.Background(), "u2")
	assert.ErrorIs(t, err, frontend.ErrNotFound)
}
