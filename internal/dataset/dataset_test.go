package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrderRespectsForeignKeys(t *testing.T) {
	order := LoadOrder()
	require.Len(t, order, 8)

	names := make([]string, len(order))
	for i, tbl := range order {
		names[i] = tbl.Name
	}
	assert.Equal(t, []string{
		TableCustomers, TableShops, TableProducts, TableOrders,
		TableOrderItems, TableDeliveries, TableInventory, TablePromotions,
	}, names)

	position := make(map[string]int)
	for i, n := range names {
		position[n] = i
	}
	for _, tbl := range order {
		for _, dep := range tbl.Dependencies() {
			assert.Less(t, position[dep], position[tbl.Name], "%s must load after %s", tbl.Name, dep)
		}
	}
}

func TestDependencyGraphDetectsCycles(t *testing.T) {
	g := NewDependencyGraph()
	g.AddTable(Table{Name: "a", ForeignKeys: []ForeignKey{{Column: "b_id", RefTable: "b"}}})
	g.AddTable(Table{Name: "b", ForeignKeys: []ForeignKey{{Column: "a_id", RefTable: "a"}}})

	_, err := g.BuildInsertionOrder()
	assert.ErrorContains(t, err, "circular dependency")
}

func TestDependencyGraphRejectsUnknownReference(t *testing.T) {
	g := NewDependencyGraph()
	g.AddTable(Table{Name: "a", ForeignKeys: []ForeignKey{{Column: "x_id", RefTable: "x"}}})

	_, err := g.BuildInsertionOrder()
	assert.ErrorContains(t, err, "unknown table x")
}

func TestTableIdentifiersAreValid(t *testing.T) {
	for _, tbl := range Tables() {
		assert.True(t, IsValidIdentifier(tbl.Name), tbl.Name)
		for _, c := range tbl.Columns {
			assert.True(t, IsValidIdentifier(c.Name), "%s.%s", tbl.Name, c.Name)
		}
	}
	assert.False(t, IsValidIdentifier("orders; DROP TABLE x"))
}

func sampleDataset() *Dataset {
	ts := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	rating := 5
	return &Dataset{
		Shops: []Shop{{
			ID: 1, Name: "Fresh Bakery 1", Type: "Bakery", City: "Berlin", District: "Mitte",
			PartnershipStart: ts, CommissionRate: decimal.RequireFromString("0.1"), AvgPrepMinutes: 12, Active: true,
		}},
		Products: []Product{{
			ID: 1, Name: "Bread Premium", Category: "Bakery", Subcategory: "Bread",
			BasePrice: decimal.RequireFromString("2.5"), Unit: "piece",
		}},
		Customers: []Customer{{
			ID: 1, RegistrationDate: ts, City: "Munich", Segment: "VIP",
			TotalOrders: 0, TotalSpent: decimal.Zero,
		}},
		Orders: []Order{{
			ID: 1, CustomerID: 1, ShopID: 1, OrderDate: ts, Status: StatusDelivered,
			Subtotal: decimal.RequireFromString("5"), Discount: decimal.Zero,
			DeliveryFee: decimal.RequireFromString("1.99"), TotalAmount: decimal.RequireFromString("6.99"),
			PaymentMethod: "PayPal",
		}},
		OrderItems: []OrderItem{{ID: 1, OrderID: 1, ProductID: 1, Quantity: 2,
			UnitPrice: decimal.RequireFromString("2.5"), TotalPrice: decimal.RequireFromString("5")}},
		Deliveries: []Delivery{
			{ID: 1, OrderID: 1, PrepMinutes: 10, DeliveryMinutes: 20, TotalMinutes: 30, Rating: &rating},
		},
		Inventory: []InventoryItem{{ID: 1, ShopID: 1, ProductID: 1, StockLevel: 0, ReorderPoint: 10,
			LastRestocked: ts, Available: false}},
		Promotions: []Promotion{{ID: 1, Name: "BOGO - Flash Deal 1", Type: "BOGO", StartDate: ts,
			EndDate: ts.AddDate(0, 0, 3), TotalUses: 60, RevenueImpact: decimal.RequireFromString("1234.5")}},
	}
}

func TestRecordsEncoding(t *testing.T) {
	ds := sampleDataset()

	shops, err := ds.Records(TableShops)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "Fresh Bakery 1", "Bakery", "Berlin", "Mitte",
		"2024-03-05 14:07:09", "0.10", "12", "True"}, shops[0])

	customers, err := ds.Records(TableCustomers)
	require.NoError(t, err)
	assert.Equal(t, "0.00", customers[0][5])
	assert.Equal(t, "", customers[0][6], "missing last order date is an empty field")

	inventory, err := ds.Records(TableInventory)
	require.NoError(t, err)
	assert.Equal(t, "False", inventory[0][6])

	_, err = ds.Records("nope")
	assert.Error(t, err)
}

func TestWriteAndReadCSV(t *testing.T) {
	dir := t.TempDir()
	ds := sampleDataset()

	paths, err := ds.WriteCSV(dir)
	require.NoError(t, err)
	require.Len(t, paths, 8)
	assert.Empty(t, MissingFiles(dir))

	for _, tbl := range Tables() {
		header, rows, err := ReadCSV(filepath.Join(dir, tbl.File))
		require.NoError(t, err, tbl.Name)
		assert.Equal(t, tbl.Header(), header)

		want, err := ds.Records(tbl.Name)
		require.NoError(t, err)
		assert.Equal(t, want, rows, tbl.Name)
	}
}

func TestMissingFiles(t *testing.T) {
	dir := t.TempDir()
	_, err := sampleDataset().WriteCSV(dir)
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Join(dir, "orders.csv")))

	assert.Equal(t, []string{"orders.csv"}, MissingFiles(dir))
}

func TestOpenCSVRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := OpenCSV(path)
	assert.ErrorContains(t, err, "missing header row")
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{"True": true, "False": false, "1": true, "0": false} {
		got, err := ParseBool(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseBool("yes")
	assert.Error(t, err)
}

func TestFormatEuro(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "€0.00"},
		{"7.5", "€7.50"},
		{"999.999", "€1,000.00"},
		{"1234567.891", "€1,234,567.89"},
		{"-2500", "-€2,500.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatEuro(decimal.RequireFromString(tt.in)))
		})
	}
}
