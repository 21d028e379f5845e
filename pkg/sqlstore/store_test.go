package sqlstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront/pkg/frontend"
	"github.com/goliatone/go-storefront/pkg/sqlstore"
)

func openSeeded(t *testing.T) *sqlstore.Store {
	t.Helper()
	ctx := context.Background()
	store, err := sqlstore.Open(ctx, sqlstore.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	data, err := sqlstore.ParseSeed(sqlstore.DemoSeed())
	require.NoError(t, err)
	n, err := store.Seed(ctx, data)
	require.NoError(t, err)
	require.Equal(t, 12, n)
	return store
}

func TestProducts_Get(t *testing.T) {
	store := openSeeded(t)
	ctl := store.Products().Uses(frontend.BasketProductDomains...)

	product, err := ctl.Get(context.Background(), "p-tee")
	require.NoError(t, err)
	assert.Equal(t, "TEE", product.Code)
	assert.Equal(t, int64(2490), product.Price.Value)
	assert.Equal(t, int64(190), product.Price.Costs)
	assert.Equal(t, "VAT", product.Price.TaxName)
	assert.Equal(t, frontend.BasketProductDomains, ctl.(*sqlstore.Products).Domains())

	_, err = ctl.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, frontend.ErrNotFound)
}

func TestStock_SearchFiltersSortsAndLimits(t *testing.T) {
	store := openSeeded(t)
	ctx := context.Background()

	items, err := store.Stock().Search(ctx, frontend.StockFilter{Codes: []string{"TEE", "BOOK"}, Sort: "stock.type"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "default", items[0].Type)
	assert.Equal(t, "warehouse", items[2].Type)

	items, err = store.Stock().Search(ctx, frontend.StockFilter{Codes: []string{"TEE"}, Type: "warehouse"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].StockLevel)
	assert.Equal(t, 40, *items[0].StockLevel)

	items, err = store.Stock().Search(ctx, frontend.StockFilter{Codes: []string{"TEE", "MUG"}, Sort: "-stock.stocklevel", Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 40, *items[0].StockLevel)
	assert.Equal(t, 25, *items[1].StockLevel)

	items, err = store.Stock().Search(ctx, frontend.StockFilter{Codes: []string{"BOOK"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].StockLevel, "NULL level means unlimited")
}

func TestStock_RejectsUnknownSortAndEmptyCodes(t *testing.T) {
	store := openSeeded(t)
	ctx := context.Background()

	_, err := store.Stock().Search(ctx, frontend.StockFilter{Codes: []string{"MUG"}, Sort: "stock.id; DROP TABLE stock"})
	assert.Error(t, err)

	items, err := store.Stock().Search(ctx, frontend.StockFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStock_PutUpdatesExistingRow(t *testing.T) {
	store := openSeeded(t)
	ctx := context.Background()
	level := 7

	require.NoError(t, store.PutStock(ctx, frontend.StockItem{ProductCode: "MUG", StockLevel: &level}))
	items, err := store.Stock().Search(ctx, frontend.StockFilter{Codes: []string{"MUG"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 7, *items[0].StockLevel)
}

func TestLocales_Search(t *testing.T) {
	store := openSeeded(t)
	ctx := context.Background()

	active, err := store.Locales().Search(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "en", active[0].LanguageID)
	assert.Equal(t, "de", active[1].LanguageID)

	all, err := store.Locales().Search(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := sqlstore.Open(context.Background(), " ")
	assert.Error(t, err)
}
