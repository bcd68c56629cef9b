package generator

var shopTypes = []string{
	"Supermarket", "Grocery Store", "Specialty Store", "Butcher",
	"Bakery", "Wine Merchant", "Greengrocer", "Convenience Store",
}

var shopPrefixes = []string{"Fresh", "Quick", "Daily", "Express", "Local", "Prime"}

var cities = []string{
	"Berlin", "Munich", "Hamburg", "Frankfurt", "Cologne", "Stuttgart",
	"Düsseldorf", "Dortmund", "Leipzig", "Dresden",
}

var districts = []string{
	"Mitte", "Kreuzberg", "Prenzlauer Berg", "Charlottenburg", "Neukölln",
	"Friedrichshain", "Schöneberg", "Tempelhof", "Pankow", "Lichtenberg",
}

type category struct {
	name  string
	items []string
}

// taxonomy is ordered so product ids come out the same on every run.
var taxonomy = []category{
	{"Fresh Produce", []string{"Tomatoes", "Lettuce", "Carrots", "Apples", "Bananas", "Oranges", "Potatoes", "Onions"}},
	{"Dairy", []string{"Milk", "Cheese", "Yogurt", "Butter", "Cream", "Eggs"}},
	{"Meat & Fish", []string{"Chicken Breast", "Ground Beef", "Salmon", "Pork Chops", "Turkey", "Shrimp"}},
	{"Bakery", []string{"Bread", "Croissants", "Baguette", "Rolls", "Cake", "Cookies"}},
	{"Beverages", []string{"Water", "Juice", "Soda", "Beer", "Wine", "Coffee", "Tea"}},
	{"Pantry", []string{"Pasta", "Rice", "Canned Tomatoes", "Olive Oil", "Flour", "Sugar", "Salt"}},
	{"Snacks", []string{"Chips", "Chocolate", "Nuts", "Crackers", "Candy", "Popcorn"}},
	{"Household", []string{"Toilet Paper", "Paper Towels", "Dish Soap", "Laundry Detergent", "Trash Bags"}},
}

var variants = []string{"Premium", "Organic", "Regular", "Value", "Fresh"}

var units = []string{"piece", "kg", "liter", "pack", "bottle"}

var (
	segments       = []string{"New", "Regular", "VIP", "Churned"}
	segmentWeights = []float64{0.25, 0.45, 0.20, 0.10}
)

var paymentMethods = []string{"Credit Card", "Debit Card", "PayPal", "Cash"}

var (
	itemCounts       = []int{1, 2, 3, 4, 5}
	itemCountWeights = []float64{0.30, 0.30, 0.20, 0.15, 0.05}
)

var (
	deliveryFees       = []string{"0", "1.99", "2.99"}
	deliveryFeeWeights = []float64{0.40, 0.40, 0.20}
)

var (
	ratings       = []int{3, 4, 5}
	ratingWeights = []float64{0.10, 0.30, 0.60}
)

const (
	promoPercentage   = "Percentage Discount"
	promoFixedAmount  = "Fixed Amount"
	promoFreeDelivery = "Free Delivery"
	promoBOGO         = "BOGO"
)

var promotionTypes = []string{promoPercentage, promoFixedAmount, promoFreeDelivery, promoBOGO}

var promotionLabels = []string{"Weekend", "Flash", "Weekly", "Special", "Holiday"}

var (
	percentageValues = []int{5, 10, 15, 20, 25}
	fixedValues      = []int{2, 3, 5, 10}
	minOrderValues   = []int{0, 15, 20, 25, 30}
)

// CategoryNames lists the fixed product taxonomy.
func CategoryNames() []string {
	names := make([]string, len(taxonomy))
	for i, c := range taxonomy {
		names[i] = c.name
	}
	return names
}
