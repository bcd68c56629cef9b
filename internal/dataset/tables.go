package dataset

import (
	"fmt"
	"regexp"
)

const (
	TableCustomers  = "customers"
	TableShops      = "local_shops"
	TableProducts   = "products"
	TableOrders     = "orders"
	TableOrderItems = "order_items"
	TableDeliveries = "deliveries"
	TableInventory  = "inventory"
	TablePromotions = "promotions"
)

// Kind describes how a CSV field is interpreted when it is bound to a
// database column.
type Kind int

const (
	KindInt Kind = iota
	KindDecimal
	KindText
	KindBool
	KindTimestamp
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

type Column struct {
	Name     string
	Kind     Kind
	Nullable bool
}

type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

type Table struct {
	Name        string
	File        string
	PrimaryKey  string
	Columns     []Column
	ForeignKeys []ForeignKey
}

// Header returns the CSV header row of the table.
func (t Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column definition by name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Dependencies lists the tables referenced through foreign keys.
func (t Table) Dependencies() []string {
	var deps []string
	for _, fk := range t.ForeignKeys {
		if fk.RefTable != t.Name {
			deps = append(deps, fk.RefTable)
		}
	}
	return deps
}

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// IsValidIdentifier reports whether name can be spliced into SQL as a
// table or column name.
func IsValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

var tables = []Table{
	{
		Name:       TableCustomers,
		File:       "customers.csv",
		PrimaryKey: "customer_id",
		Columns: []Column{
			{Name: "customer_id", Kind: KindInt},
			{Name: "registration_date", Kind: KindTimestamp},
			{Name: "city", Kind: KindText},
			{Name: "customer_segment", Kind: KindText},
			{Name: "total_orders", Kind: KindInt},
			{Name: "total_spent", Kind: KindDecimal},
			{Name: "last_order_date", Kind: KindTimestamp, Nullable: true},
		},
	},
	{
		Name:       TableShops,
		File:       "local_shops.csv",
		PrimaryKey: "shop_id",
		Columns: []Column{
			{Name: "shop_id", Kind: KindInt},
			{Name: "shop_name", Kind: KindText},
			{Name: "shop_type", Kind: KindText},
			{Name: "city", Kind: KindText},
			{Name: "district", Kind: KindText},
			{Name: "partnership_start_date", Kind: KindTimestamp},
			{Name: "commission_rate", Kind: KindDecimal},
			{Name: "avg_preparation_time_minutes", Kind: KindInt},
			{Name: "is_active", Kind: KindBool},
		},
	},
	{
		Name:       TableProducts,
		File:       "products.csv",
		PrimaryKey: "product_id",
		Columns: []Column{
			{Name: "product_id", Kind: KindInt},
			{Name: "product_name", Kind: KindText},
			{Name: "category", Kind: KindText},
			{Name: "subcategory", Kind: KindText},
			{Name: "base_price", Kind: KindDecimal},
			{Name: "unit", Kind: KindText},
		},
	},
	{
		Name:       TableOrders,
		File:       "orders.csv",
		PrimaryKey: "order_id",
		Columns: []Column{
			{Name: "order_id", Kind: KindInt},
			{Name: "customer_id", Kind: KindInt},
			{Name: "shop_id", Kind: KindInt},
			{Name: "order_date", Kind: KindTimestamp},
			{Name: "status", Kind: KindText},
			{Name: "subtotal", Kind: KindDecimal},
			{Name: "discount", Kind: KindDecimal},
			{Name: "delivery_fee", Kind: KindDecimal},
			{Name: "total_amount", Kind: KindDecimal},
			{Name: "payment_method", Kind: KindText},
		},
		ForeignKeys: []ForeignKey{
			{Column: "customer_id", RefTable: TableCustomers, RefColumn: "customer_id"},
			{Column: "shop_id", RefTable: TableShops, RefColumn: "shop_id"},
		},
	},
	{
		Name:       TableOrderItems,
		File:       "order_items.csv",
		PrimaryKey: "order_item_id",
		Columns: []Column{
			{Name: "order_item_id", Kind: KindInt},
			{Name: "order_id", Kind: KindInt},
			{Name: "product_id", Kind: KindInt},
			{Name: "quantity", Kind: KindInt},
			{Name: "unit_price", Kind: KindDecimal},
			{Name: "total_price", Kind: KindDecimal},
		},
		ForeignKeys: []ForeignKey{
			{Column: "order_id", RefTable: TableOrders, RefColumn: "order_id"},
			{Column: "product_id", RefTable: TableProducts, RefColumn: "product_id"},
		},
	},
	{
		Name:       TableDeliveries,
		File:       "deliveries.csv",
		PrimaryKey: "delivery_id",
		Columns: []Column{
			{Name: "delivery_id", Kind: KindInt},
			{Name: "order_id", Kind: KindInt},
			{Name: "preparation_time_minutes", Kind: KindInt},
			{Name: "delivery_time_minutes", Kind: KindInt},
			{Name: "total_time_minutes", Kind: KindInt},
			{Name: "delivery_rating", Kind: KindInt, Nullable: true},
		},
		ForeignKeys: []ForeignKey{
			{Column: "order_id", RefTable: TableOrders, RefColumn: "order_id"},
		},
	},
	{
		Name:       TableInventory,
		File:       "inventory.csv",
		PrimaryKey: "inventory_id",
		Columns: []Column{
			{Name: "inventory_id", Kind: KindInt},
			{Name: "shop_id", Kind: KindInt},
			{Name: "product_id", Kind: KindInt},
			{Name: "stock_level", Kind: KindInt},
			{Name: "reorder_point", Kind: KindInt},
			{Name: "last_restocked", Kind: KindTimestamp},
			{Name: "is_available", Kind: KindBool},
		},
		ForeignKeys: []ForeignKey{
			{Column: "shop_id", RefTable: TableShops, RefColumn: "shop_id"},
			{Column: "product_id", RefTable: TableProducts, RefColumn: "product_id"},
		},
	},
	{
		Name:       TablePromotions,
		File:       "promotions.csv",
		PrimaryKey: "promotion_id",
		Columns: []Column{
			{Name: "promotion_id", Kind: KindInt},
			{Name: "promotion_name", Kind: KindText},
			{Name: "promotion_type", Kind: KindText},
			{Name: "discount_value", Kind: KindInt},
			{Name: "start_date", Kind: KindTimestamp},
			{Name: "end_date", Kind: KindTimestamp},
			{Name: "min_order_value", Kind: KindInt},
			{Name: "total_uses", Kind: KindInt},
			{Name: "total_revenue_impact", Kind: KindDecimal},
		},
	},
}

// Tables returns every table definition in declaration order.
func Tables() []Table {
	out := make([]Table, len(tables))
	copy(out, tables)
	return out
}

// Lookup returns the definition of the named table.
func Lookup(name string) (Table, bool) {
	for _, t := range tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

var loadOrder []Table

func init() {
	g := NewDependencyGraph()
	for i := range tables {
		g.AddTable(tables[i])
	}
	order, err := g.BuildInsertionOrder()
	if err != nil {
		panic(err)
	}
	for _, name := range order {
		t, _ := Lookup(name)
		loadOrder = append(loadOrder, t)
	}
}

// LoadOrder returns the tables sorted so that every table comes after the
// tables it references.
func LoadOrder() []Table {
	out := make([]Table, len(loadOrder))
	copy(out, loadOrder)
	return out
}

// Files returns the CSV file names of all tables in load order.
func Files() []string {
	files := make([]string, len(loadOrder))
	for i, t := range loadOrder {
		files[i] = t.File
	}
	return files
}
