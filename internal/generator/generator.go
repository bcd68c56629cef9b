package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Rana718/quickshop/internal/dataset"
	"github.com/shopspring/decimal"
)

var (
	ErrNoActiveShops = errors.New("no active shops to place orders with")
	ErrEmptyCatalog  = errors.New("product catalog is empty")
)

type Config struct {
	Shops       int
	MaxProducts int
	Customers   int
	Orders      int
	Promotions  int

	// Orders are dated inside [Start, End].
	Start time.Time
	End   time.Time
}

func DefaultConfig() Config {
	return Config{
		Shops:       150,
		MaxProducts: 500,
		Customers:   5000,
		Orders:      25000,
		Promotions:  50,
		Start:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC),
	}
}

func (c Config) Validate() error {
	if c.Shops < 0 || c.MaxProducts < 0 || c.Customers < 0 || c.Orders < 0 || c.Promotions < 0 {
		return fmt.Errorf("row counts cannot be negative")
	}
	if c.Orders > 0 && c.Customers == 0 {
		return fmt.Errorf("orders need at least one customer")
	}
	if c.End.Before(c.Start) {
		return fmt.Errorf("end date %s is before start date %s",
			c.End.Format("2006-01-02"), c.Start.Format("2006-01-02"))
	}
	return nil
}

var (
	partnershipStart  = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	partnershipEnd    = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	registrationStart = time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	registrationEnd   = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	restockStart      = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	restockEnd        = time.Date(2026, 2, 13, 0, 0, 0, 0, time.UTC)
	promotionStart    = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	promotionEnd      = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
)

// Generator builds a QuickShop dataset from a caller-owned random source.
type Generator struct {
	cfg Config
	s   *sampler
}

func New(cfg Config, rng *rand.Rand) *Generator {
	return &Generator{cfg: cfg, s: newSampler(rng)}
}

// Generate produces all eight tables. Shops, products and customers come
// first; orders with their items and deliveries follow; customer
// aggregates are backfilled from delivered orders; inventory and
// promotions are drawn last.
func (g *Generator) Generate() (*dataset.Dataset, error) {
	if err := g.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}

	ds := &dataset.Dataset{}
	ds.Shops = g.shops()
	ds.Products = g.products()
	ds.Customers = g.customers()

	if err := g.orders(ds); err != nil {
		return nil, err
	}
	backfillCustomers(ds)

	ds.Inventory = g.inventory(ds)
	ds.Promotions = g.promotions()

	return ds, nil
}

func (g *Generator) shops() []dataset.Shop {
	shops := make([]dataset.Shop, 0, g.cfg.Shops)
	for i := 1; i <= g.cfg.Shops; i++ {
		s := g.s
		name := fmt.Sprintf("%s %s %d", pick(s, shopPrefixes), pick(s, shopTypes), i)
		shops = append(shops, dataset.Shop{
			ID:               i,
			Name:             name,
			Type:             pick(s, shopTypes),
			City:             pick(s, cities),
			District:         pick(s, districts),
			PartnershipStart: s.date(partnershipStart, partnershipEnd),
			CommissionRate:   s.money(0.10, 0.25),
			AvgPrepMinutes:   s.intRange(5, 20),
			Active:           weighted(s, []bool{true, false}, []float64{0.92, 0.08}),
		})
	}
	return shops
}

func (g *Generator) products() []dataset.Product {
	var products []dataset.Product
	id := 1
	for _, cat := range taxonomy {
		for _, item := range cat.items {
			n := g.s.intRange(2, 5)
			for v := 0; v < n; v++ {
				if id > g.cfg.MaxProducts {
					return products
				}
				products = append(products, dataset.Product{
					ID:          id,
					Name:        fmt.Sprintf("%s %s", item, variants[v%len(variants)]),
					Category:    cat.name,
					Subcategory: item,
					BasePrice:   g.s.money(0.99, 29.99),
					Unit:        pick(g.s, units),
				})
				id++
			}
		}
	}
	return products
}

func (g *Generator) customers() []dataset.Customer {
	customers := make([]dataset.Customer, 0, g.cfg.Customers)
	for i := 1; i <= g.cfg.Customers; i++ {
		customers = append(customers, dataset.Customer{
			ID:               i,
			RegistrationDate: g.s.date(registrationStart, registrationEnd),
			City:             pick(g.s, cities),
			Segment:          weighted(g.s, segments, segmentWeights),
			TotalSpent:       decimal.Zero,
		})
	}
	return customers
}

// orders draws every order together with its items and, for delivered
// orders, its delivery record. Products are drawn from the whole catalog;
// shop inventory is not consulted.
func (g *Generator) orders(ds *dataset.Dataset) error {
	if g.cfg.Orders == 0 {
		return nil
	}
	active := ds.ActiveShops()
	if len(active) == 0 {
		return ErrNoActiveShops
	}
	if len(ds.Products) == 0 {
		return ErrEmptyCatalog
	}

	s := g.s
	ds.Orders = make([]dataset.Order, 0, g.cfg.Orders)
	for i := 1; i <= g.cfg.Orders; i++ {
		customer := ds.Customers[s.rand.Intn(len(ds.Customers))]
		shop := active[s.rand.Intn(len(active))]

		orderDate := s.date(g.cfg.Start, g.cfg.End)
		status := weighted(s, []string{dataset.StatusDelivered, dataset.StatusCancelled, dataset.StatusInProgress},
			[]float64{0.88, 0.07, 0.05})

		numItems := weighted(s, itemCounts, itemCountWeights)
		subtotal := decimal.Zero
		for _, idx := range s.sample(len(ds.Products), numItems) {
			product := ds.Products[idx]
			quantity := s.intRange(1, 3)
			lineTotal := product.BasePrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
			subtotal = subtotal.Add(lineTotal)

			ds.OrderItems = append(ds.OrderItems, dataset.OrderItem{
				ID:         len(ds.OrderItems) + 1,
				OrderID:    i,
				ProductID:  product.ID,
				Quantity:   quantity,
				UnitPrice:  product.BasePrice,
				TotalPrice: lineTotal,
			})
		}

		discount := decimal.Zero
		if s.chance(0.15) {
			discount = subtotal.Mul(decimal.NewFromFloat(s.uniform(0.05, 0.20))).Round(2)
		}
		deliveryFee := decimal.RequireFromString(weighted(s, deliveryFees, deliveryFeeWeights))

		ds.Orders = append(ds.Orders, dataset.Order{
			ID:            i,
			CustomerID:    customer.ID,
			ShopID:        shop.ID,
			OrderDate:     orderDate,
			Status:        status,
			Subtotal:      subtotal.Round(2),
			Discount:      discount,
			DeliveryFee:   deliveryFee,
			TotalAmount:   subtotal.Sub(discount).Add(deliveryFee).Round(2),
			PaymentMethod: pick(s, paymentMethods),
		})

		if status == dataset.StatusDelivered {
			prep := shop.AvgPrepMinutes + s.intRange(-3, 5)
			if prep < 3 {
				prep = 3
			}
			travel := s.intRange(15, 45)

			var rating *int
			if s.chance(0.70) {
				r := weighted(s, ratings, ratingWeights)
				rating = &r
			}

			ds.Deliveries = append(ds.Deliveries, dataset.Delivery{
				ID:              len(ds.Deliveries) + 1,
				OrderID:         i,
				PrepMinutes:     prep,
				DeliveryMinutes: travel,
				TotalMinutes:    prep + travel,
				Rating:          rating,
			})
		}
	}
	return nil
}

// backfillCustomers recomputes total_orders, total_spent and
// last_order_date from delivered orders. Customers without any keep the
// zero values and a null last order date.
func backfillCustomers(ds *dataset.Dataset) {
	index := make(map[int]int, len(ds.Customers))
	for i := range ds.Customers {
		c := &ds.Customers[i]
		index[c.ID] = i
		c.TotalOrders = 0
		c.TotalSpent = decimal.Zero
		c.LastOrderDate = nil
	}

	for _, o := range ds.Orders {
		if o.Status != dataset.StatusDelivered {
			continue
		}
		i, ok := index[o.CustomerID]
		if !ok {
			continue
		}
		c := &ds.Customers[i]
		c.TotalOrders++
		c.TotalSpent = c.TotalSpent.Add(o.TotalAmount)
		if c.LastOrderDate == nil || o.OrderDate.After(*c.LastOrderDate) {
			last := o.OrderDate
			c.LastOrderDate = &last
		}
	}

	for i := range ds.Customers {
		ds.Customers[i].TotalSpent = ds.Customers[i].TotalSpent.Round(2)
	}
}

func (g *Generator) inventory(ds *dataset.Dataset) []dataset.InventoryItem {
	var items []dataset.InventoryItem
	for _, shop := range ds.ActiveShops() {
		n := int(float64(len(ds.Products)) * g.s.uniform(0.60, 0.80))
		for _, idx := range g.s.sample(len(ds.Products), n) {
			stock := g.s.intRange(0, 150)
			items = append(items, dataset.InventoryItem{
				ID:            len(items) + 1,
				ShopID:        shop.ID,
				ProductID:     ds.Products[idx].ID,
				StockLevel:    stock,
				ReorderPoint:  g.s.intRange(10, 30),
				LastRestocked: g.s.date(restockStart, restockEnd),
				Available:     stock > 0,
			})
		}
	}
	return items
}

func (g *Generator) promotions() []dataset.Promotion {
	promotions := make([]dataset.Promotion, 0, g.cfg.Promotions)
	for i := 1; i <= g.cfg.Promotions; i++ {
		start := g.s.date(promotionStart, promotionEnd)
		end := start.AddDate(0, 0, g.s.intRange(3, 21))

		promoType := pick(g.s, promotionTypes)
		value := 0
		switch promoType {
		case promoPercentage:
			value = pick(g.s, percentageValues)
		case promoFixedAmount:
			value = pick(g.s, fixedValues)
		}

		promotions = append(promotions, dataset.Promotion{
			ID:            i,
			Name:          fmt.Sprintf("%s - %s Deal %d", promoType, pick(g.s, promotionLabels), i),
			Type:          promoType,
			DiscountValue: value,
			StartDate:     start,
			EndDate:       end,
			MinOrderValue: pick(g.s, minOrderValues),
			TotalUses:     g.s.intRange(50, 5000),
			RevenueImpact: g.s.money(500, 50000),
		})
	}
	return promotions
}
