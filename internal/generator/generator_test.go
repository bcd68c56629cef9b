package generator

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/Rana718/quickshop/internal/dataset"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Shops = 20
	cfg.MaxProducts = 500
	cfg.Customers = 200
	cfg.Orders = 1500
	cfg.Promotions = 50
	return cfg
}

func generate(t *testing.T, seed int64) *dataset.Dataset {
	t.Helper()
	ds, err := New(smallConfig(), rand.New(rand.NewSource(seed))).Generate()
	require.NoError(t, err)
	return ds
}

func TestOrderTotals(t *testing.T) {
	ds := generate(t, 42)
	require.NotEmpty(t, ds.Orders)

	items := make(map[int]decimal.Decimal)
	for _, it := range ds.OrderItems {
		items[it.OrderID] = items[it.OrderID].Add(it.TotalPrice)
	}

	fees := map[string]bool{"0.00": true, "1.99": true, "2.99": true}
	for _, o := range ds.Orders {
		want := o.Subtotal.Sub(o.Discount).Add(o.DeliveryFee).Round(2)
		assert.True(t, want.Equal(o.TotalAmount), "order %d: %s != %s", o.ID, want, o.TotalAmount)
		assert.True(t, items[o.ID].Equal(o.Subtotal), "order %d subtotal", o.ID)
		assert.True(t, fees[o.DeliveryFee.StringFixed(2)], "order %d fee %s", o.ID, o.DeliveryFee)
		assert.Contains(t, []string{dataset.StatusDelivered, dataset.StatusCancelled, dataset.StatusInProgress}, o.Status)

		if !o.Discount.IsZero() {
			low := o.Subtotal.Mul(decimal.RequireFromString("0.05")).Round(2).Sub(decimal.RequireFromString("0.01"))
			high := o.Subtotal.Mul(decimal.RequireFromString("0.20")).Round(2).Add(decimal.RequireFromString("0.01"))
			assert.True(t, o.Discount.GreaterThanOrEqual(low) && o.Discount.LessThanOrEqual(high),
				"order %d discount %s outside 5-20%% of %s", o.ID, o.Discount, o.Subtotal)
		}
	}
}

func TestOrderItems(t *testing.T) {
	ds := generate(t, 7)

	perOrder := make(map[int]map[int]bool)
	for _, it := range ds.OrderItems {
		assert.GreaterOrEqual(t, it.Quantity, 1)
		assert.LessOrEqual(t, it.Quantity, 3)
		want := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		assert.True(t, want.Equal(it.TotalPrice), "item %d", it.ID)

		if perOrder[it.OrderID] == nil {
			perOrder[it.OrderID] = make(map[int]bool)
		}
		assert.False(t, perOrder[it.OrderID][it.ProductID], "product repeated within order %d", it.OrderID)
		perOrder[it.OrderID][it.ProductID] = true
	}

	for _, o := range ds.Orders {
		n := len(perOrder[o.ID])
		assert.True(t, n >= 1 && n <= 5, "order %d has %d items", o.ID, n)
	}
}

func TestDeliveryExistsOnlyForDeliveredOrders(t *testing.T) {
	ds := generate(t, 42)

	byOrder := make(map[int]dataset.Delivery)
	for _, d := range ds.Deliveries {
		_, dup := byOrder[d.OrderID]
		assert.False(t, dup, "duplicate delivery for order %d", d.OrderID)
		byOrder[d.OrderID] = d

		assert.Equal(t, d.PrepMinutes+d.DeliveryMinutes, d.TotalMinutes)
		assert.GreaterOrEqual(t, d.PrepMinutes, 3)
		assert.True(t, d.DeliveryMinutes >= 15 && d.DeliveryMinutes <= 45)
		if d.Rating != nil {
			assert.Contains(t, []int{3, 4, 5}, *d.Rating)
		}
	}

	for _, o := range ds.Orders {
		_, has := byOrder[o.ID]
		assert.Equal(t, o.Status == dataset.StatusDelivered, has, "order %d (%s)", o.ID, o.Status)
	}
}

func TestCustomerAggregates(t *testing.T) {
	ds := generate(t, 42)

	counts := make(map[int]int)
	spent := make(map[int]decimal.Decimal)
	for _, o := range ds.Orders {
		if o.Status == dataset.StatusDelivered {
			counts[o.CustomerID]++
			spent[o.CustomerID] = spent[o.CustomerID].Add(o.TotalAmount)
		}
	}

	for _, c := range ds.Customers {
		assert.Equal(t, counts[c.ID], c.TotalOrders, "customer %d", c.ID)
		assert.True(t, spent[c.ID].Round(2).Equal(c.TotalSpent), "customer %d spent %s", c.ID, c.TotalSpent)
		if c.TotalOrders == 0 {
			assert.Nil(t, c.LastOrderDate)
			assert.True(t, c.TotalSpent.IsZero())
		} else {
			require.NotNil(t, c.LastOrderDate)
		}
	}
}

func TestCustomersWithoutOrdersKeepDefaults(t *testing.T) {
	cfg := smallConfig()
	cfg.Customers = 50
	cfg.Orders = 3

	ds, err := New(cfg, rand.New(rand.NewSource(9))).Generate()
	require.NoError(t, err)

	idle := 0
	for _, c := range ds.Customers {
		if c.TotalOrders == 0 {
			idle++
			assert.Nil(t, c.LastOrderDate)
			assert.Equal(t, "0.00", c.TotalSpent.StringFixed(2))
		}
	}
	assert.GreaterOrEqual(t, idle, 47)
}

func TestMaxProductsCapsCatalog(t *testing.T) {
	cfg := smallConfig()
	cfg.MaxProducts = 10

	ds, err := New(cfg, rand.New(rand.NewSource(9))).Generate()
	require.NoError(t, err)
	require.Len(t, ds.Products, 10)
	assert.Equal(t, "Fresh Produce", ds.Products[9].Category)
}

func TestReferentialIntegrity(t *testing.T) {
	ds := generate(t, 3)

	customers := make(map[int]bool)
	for _, c := range ds.Customers {
		customers[c.ID] = true
	}
	activeShops := make(map[int]bool)
	for _, s := range ds.ActiveShops() {
		activeShops[s.ID] = true
	}
	products := make(map[int]bool)
	for i, p := range ds.Products {
		assert.Equal(t, i+1, p.ID)
		products[p.ID] = true
	}
	orders := make(map[int]bool)
	for _, o := range ds.Orders {
		orders[o.ID] = true
		assert.True(t, customers[o.CustomerID], "order %d customer", o.ID)
		assert.True(t, activeShops[o.ShopID], "order %d shop %d not active", o.ID, o.ShopID)
	}
	for _, it := range ds.OrderItems {
		assert.True(t, orders[it.OrderID])
		assert.True(t, products[it.ProductID])
	}
	for _, inv := range ds.Inventory {
		assert.True(t, activeShops[inv.ShopID], "inventory %d shop", inv.ID)
		assert.True(t, products[inv.ProductID])
	}
}

func TestInventory(t *testing.T) {
	ds := generate(t, 11)

	perShop := make(map[int]map[int]bool)
	for _, inv := range ds.Inventory {
		assert.Equal(t, inv.StockLevel > 0, inv.Available)
		assert.True(t, inv.StockLevel >= 0 && inv.StockLevel <= 150)
		assert.True(t, inv.ReorderPoint >= 10 && inv.ReorderPoint <= 30)
		if perShop[inv.ShopID] == nil {
			perShop[inv.ShopID] = make(map[int]bool)
		}
		assert.False(t, perShop[inv.ShopID][inv.ProductID], "duplicate product in shop %d", inv.ShopID)
		perShop[inv.ShopID][inv.ProductID] = true
	}

	n := float64(len(ds.Products))
	assert.Len(t, perShop, len(ds.ActiveShops()))
	for shopID, stocked := range perShop {
		share := float64(len(stocked))
		assert.True(t, share >= float64(int(n*0.60))-1 && share <= n*0.80, "shop %d stocks %v of %v", shopID, share, n)
	}
}

func TestShopsProductsAndPromotions(t *testing.T) {
	ds := generate(t, 5)

	low, high := decimal.RequireFromString("0.10"), decimal.RequireFromString("0.25")
	for i, s := range ds.Shops {
		assert.Equal(t, i+1, s.ID)
		assert.True(t, s.CommissionRate.GreaterThanOrEqual(low) && s.CommissionRate.LessThanOrEqual(high))
		assert.True(t, s.AvgPrepMinutes >= 5 && s.AvgPrepMinutes <= 20)
	}

	categories := CategoryNames()
	minPrice, maxPrice := decimal.RequireFromString("0.99"), decimal.RequireFromString("29.99")
	assert.LessOrEqual(t, len(ds.Products), smallConfig().MaxProducts)
	for _, p := range ds.Products {
		assert.Contains(t, categories, p.Category)
		assert.True(t, p.BasePrice.GreaterThanOrEqual(minPrice) && p.BasePrice.LessThanOrEqual(maxPrice))
	}

	require.Len(t, ds.Promotions, 50)
	for _, p := range ds.Promotions {
		switch p.Type {
		case promoPercentage:
			assert.Contains(t, percentageValues, p.DiscountValue)
		case promoFixedAmount:
			assert.Contains(t, fixedValues, p.DiscountValue)
		default:
			assert.Zero(t, p.DiscountValue)
		}
		days := int(p.EndDate.Sub(p.StartDate).Hours() / 24)
		assert.True(t, days >= 3 && days <= 21, "promotion %d lasts %d days", p.ID, days)
	}
}

func TestNoActiveShops(t *testing.T) {
	cfg := smallConfig()
	cfg.Shops = 0

	_, err := New(cfg, rand.New(rand.NewSource(1))).Generate()
	assert.ErrorIs(t, err, ErrNoActiveShops)
}

func TestInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.End = cfg.Start.AddDate(0, 0, -1)

	_, err := New(cfg, rand.New(rand.NewSource(1))).Generate()
	assert.ErrorContains(t, err, "before start date")
}

func writeDataset(t *testing.T, seed int64, dir string) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	ds, err := New(smallConfig(), rng).Generate()
	require.NoError(t, err)
	_, err = ds.WriteCSV(dir)
	require.NoError(t, err)

	m, err := NewManifest(ds, smallConfig(), seed, rng)
	require.NoError(t, err)
	_, err = m.Write(dir)
	require.NoError(t, err)
}

func TestSameSeedProducesIdenticalFiles(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeDataset(t, 42, first)
	writeDataset(t, 42, second)

	files := append(dataset.Files(), ManifestFile)
	for _, name := range files {
		a, err := os.ReadFile(filepath.Join(first, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, name))
		require.NoError(t, err)
		assert.True(t, bytes.Equal(a, b), "%s differs between runs", name)
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeDataset(t, 1, first)
	writeDataset(t, 2, second)

	a, err := os.ReadFile(filepath.Join(first, "orders.csv"))
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(second, "orders.csv"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestManifestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, 42, dir)

	m, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(42), m.Seed)
	assert.Len(t, m.DatasetID, 36)
	require.Len(t, m.Tables, 8)
	assert.Equal(t, "customers", m.Tables[0].Table)
	assert.Equal(t, 200, m.Tables[0].Rows)
	assert.Equal(t, 50, m.Tables[7].Rows)
}

func TestSummarize(t *testing.T) {
	ds := generate(t, 42)
	st := Summarize(ds)

	assert.Equal(t, len(ds.ActiveShops()), st.ActiveShops)
	assert.Equal(t, len(CategoryNames()), st.Categories)
	assert.True(t, st.TotalGMV.IsPositive())
	assert.InDelta(t, 88.0, st.CompletionRate, 5.0)
}
