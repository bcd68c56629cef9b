package dataset

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
	StatusInProgress = "In Progress"
)

type Shop struct {
	ID               int
	Name             string
	Type             string
	City             string
	District         string
	PartnershipStart time.Time
	CommissionRate   decimal.Decimal
	AvgPrepMinutes   int
	Active           bool
}

type Product struct {
	ID          int
	Name        string
	Category    string
	Subcategory string
	BasePrice   decimal.Decimal
	Unit        string
}

// Customer carries aggregates that are only ever filled in from the
// customer's delivered orders.
type Customer struct {
	ID               int
	RegistrationDate time.Time
	City             string
	Segment          string
	TotalOrders      int
	TotalSpent       decimal.Decimal
	LastOrderDate    *time.Time
}

type Order struct {
	ID            int
	CustomerID    int
	ShopID        int
	OrderDate     time.Time
	Status        string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	DeliveryFee   decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentMethod string
}

type OrderItem struct {
	ID         int
	OrderID    int
	ProductID  int
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

type Delivery struct {
	ID              int
	OrderID         int
	PrepMinutes     int
	DeliveryMinutes int
	TotalMinutes    int
	Rating          *int
}

type InventoryItem struct {
	ID            int
	ShopID        int
	ProductID     int
	StockLevel    int
	ReorderPoint  int
	LastRestocked time.Time
	Available     bool
}

type Promotion struct {
	ID            int
	Name          string
	Type          string
	DiscountValue int
	StartDate     time.Time
	EndDate       time.Time
	MinOrderValue int
	TotalUses     int
	RevenueImpact decimal.Decimal
}

// Dataset is the full set of generated tables.
type Dataset struct {
	Shops      []Shop
	Products   []Product
	Customers  []Customer
	Orders     []Order
	OrderItems []OrderItem
	Deliveries []Delivery
	Inventory  []InventoryItem
	Promotions []Promotion
}

// ActiveShops returns the shops flagged active, in id order.
func (d *Dataset) ActiveShops() []Shop {
	var active []Shop
	for _, s := range d.Shops {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// Len returns the row count of the named table, or -1 for an unknown table.
func (d *Dataset) Len(table string) int {
	switch table {
	case TableShops:
		return len(d.Shops)
	case TableProducts:
		return len(d.Products)
	case TableCustomers:
		return len(d.Customers)
	case TableOrders:
		return len(d.Orders)
	case TableOrderItems:
		return len(d.OrderItems)
	case TableDeliveries:
		return len(d.Deliveries)
	case TableInventory:
		return len(d.Inventory)
	case TablePromotions:
		return len(d.Promotions)
	}
	return -1
}

// FormatEuro renders an amount as euros with two decimals and comma
// grouped thousands, e.g. €1,234.50.
func FormatEuro(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac := fixed[:len(fixed)-3], fixed[len(fixed)-2:]

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString("€")
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
