package points

import (
	"math"
	"testing"
	"time"

	"github.com/damon-houk/receipt-processor/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseReceipt scores zero on every rule
func baseReceipt() *entity.Receipt {
	return &entity.Receipt{
		Retailer:     "",
		PurchaseDate: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
		PurchaseTime: entity.ClockTime{Hour: 13, Minute: 0},
		Total:        decimal.RequireFromString("0.99"),
	}
}

func item(desc, price string) entity.Item {
	return entity.Item{ShortDescription: desc, Price: decimal.RequireFromString(price)}
}

func TestBaseReceiptScoresZero(t *testing.T) {
	assert.Equal(t, int64(0), Calculate(baseReceipt()))
}

func TestRetailerAlphanumericPoints(t *testing.T) {
	testCases := []struct {
		retailer string
		expected int64
	}{
		{"Target", 6},
		{"M&M Corner Market", 14},
		{"7-11", 3},
		{"A", 1},
		{"", 0},
		{"Best Buy!", 7},
		{"  &&  ", 0},
		{"Café", 3},
	}

	for _, tc := range testCases {
		t.Run(tc.retailer, func(t *testing.T) {
			r := baseReceipt()
			r.Retailer = tc.retailer
			assert.Equal(t, tc.expected, Calculate(r))
		})
	}
}

func TestTotalPoints(t *testing.T) {
	testCases := []struct {
		total    string
		expected int64
	}{
		{"6.00", 75},
		{"12.00", 75},
		{"0.00", 75},
		{"6.25", 25},
		{"10.50", 25},
		{"10.75", 25},
		{"6.10", 0},
		{"11.01", 0},
		{"11.99", 0},
		{"6.49", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.total, func(t *testing.T) {
			r := baseReceipt()
			r.Total = decimal.RequireFromString(tc.total)
			assert.Equal(t, tc.expected, Calculate(r))
		})
	}
}

func TestItemPairPoints(t *testing.T) {
	testCases := []struct {
		name     string
		count    int
		expected int64
	}{
		{"no items", 0, 0},
		{"single item", 1, 0},
		{"one pair", 2, 5},
		{"one pair plus extra", 3, 5},
		{"two pairs", 4, 10},
		{"five pairs", 11, 25},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := baseReceipt()
			for i := 0; i < tc.count; i++ {
				// length 5 never matches the description rule
				r.Items = append(r.Items, item("Item1", "0.01"))
			}
			assert.Equal(t, tc.expected, Calculate(r))
		})
	}
}

func TestDescriptionLengthPoints(t *testing.T) {
	testCases := []struct {
		name     string
		items    []entity.Item
		expected int64
	}{
		{"length 3", []entity.Item{item("ABC", "10.00")}, 2},
		{"length 6", []entity.Item{item("ABCDEF", "10.00")}, 2},
		{"length 2", []entity.Item{item("AB", "10.00")}, 0},
		{"rounds up", []entity.Item{item("Emils Cheese Pizza", "12.25")}, 3},
		{"trims whitespace", []entity.Item{item("   Klarbrunn 12-PK 12 FL OZ  ", "12.00")}, 3},
		{"whitespace only", []entity.Item{item("      ", "10.00")}, 0},
		{"exact multiple of five", []entity.Item{item("ABC", "5.00")}, 1},
		{"zero price", []entity.Item{item("ABC", "0.00")}, 0},
		{"smallest price", []entity.Item{item("ABC", "0.01")}, 1},
		{"length 17", []entity.Item{item("Mountain Dew 12PK", "6.49")}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := baseReceipt()
			r.Items = tc.items
			assert.Equal(t, tc.expected, Calculate(r))
		})
	}

	t.Run("two matching items", func(t *testing.T) {
		r := baseReceipt()
		r.Items = []entity.Item{item("ABC", "10.00"), item("ABCDEF", "15.00")}
		// 2 + 3 from descriptions, 5 from the pair
		assert.Equal(t, int64(10), Calculate(r))
	})
}

func TestOddDayPoints(t *testing.T) {
	testCases := []struct {
		date     string
		expected int64
	}{
		{"2024-03-21", 6},
		{"2024-03-20", 0},
		{"2024-03-31", 6},
		{"2024-03-30", 0},
		{"2022-01-01", 6},
	}

	for _, tc := range testCases {
		t.Run(tc.date, func(t *testing.T) {
			date, err := time.Parse("2006-01-02", tc.date)
			require.NoError(t, err)

			r := baseReceipt()
			r.PurchaseDate = date
			assert.Equal(t, tc.expected, Calculate(r))
		})
	}
}

func TestAfternoonWindowPoints(t *testing.T) {
	testCases := []struct {
		time     entity.ClockTime
		expected int64
	}{
		{entity.ClockTime{Hour: 14, Minute: 0}, 0},
		{entity.ClockTime{Hour: 14, Minute: 1}, 10},
		{entity.ClockTime{Hour: 14, Minute: 30}, 10},
		{entity.ClockTime{Hour: 15, Minute: 59}, 10},
		{entity.ClockTime{Hour: 16, Minute: 0}, 0},
		{entity.ClockTime{Hour: 13, Minute: 59}, 0},
		{entity.ClockTime{Hour: 0, Minute: 0}, 0},
		{entity.ClockTime{Hour: 23, Minute: 59}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.time.String(), func(t *testing.T) {
			r := baseReceipt()
			r.PurchaseTime = tc.time
			assert.Equal(t, tc.expected, Calculate(r))
		})
	}
}

func TestCalculateExampleReceipts(t *testing.T) {
	t.Run("single item target receipt", func(t *testing.T) {
		r := &entity.Receipt{
			Retailer:     "Target",
			PurchaseDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			PurchaseTime: entity.ClockTime{Hour: 13, Minute: 1},
			Items:        []entity.Item{item("Mountain Dew 12PK", "6.49")},
			Total:        decimal.RequireFromString("6.49"),
		}
		// 6 retailer + 6 odd day; the description is 17 characters long
		assert.Equal(t, int64(12), Calculate(r))
	})

	t.Run("five item target receipt", func(t *testing.T) {
		r := &entity.Receipt{
			Retailer:     "Target",
			PurchaseDate: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			PurchaseTime: entity.ClockTime{Hour: 13, Minute: 1},
			Items: []entity.Item{
				item("Mountain Dew 12PK", "6.49"),
				item("Emils Cheese Pizza", "12.25"),
				item("Knorr Creamy Chicken", "1.26"),
				item("Doritos Nacho Cheese", "3.35"),
				item("   Klarbrunn 12-PK 12 FL OZ  ", "12.00"),
			},
			Total: decimal.RequireFromString("35.35"),
		}
		assert.Equal(t, int64(28), Calculate(r))
	})

	t.Run("corner market receipt", func(t *testing.T) {
		r := &entity.Receipt{
			Retailer:     "M&M Corner Market",
			PurchaseDate: time.Date(2022, 3, 20, 0, 0, 0, 0, time.UTC),
			PurchaseTime: entity.ClockTime{Hour: 14, Minute: 33},
			Items: []entity.Item{
				item("Gatorade", "2.25"),
				item("Gatorade", "2.25"),
				item("Gatorade", "2.25"),
				item("Gatorade", "2.25"),
			},
			Total: decimal.RequireFromString("9.00"),
		}
		assert.Equal(t, int64(109), Calculate(r))
	})
}

func TestCalculateIsDeterministic(t *testing.T) {
	r := baseReceipt()
	r.Retailer = "Walgreens"
	r.Items = []entity.Item{item("Pepsi - 12-oz", "1.25"), item("Dasani", "1.40")}
	r.Total = decimal.RequireFromString("2.65")

	first := Calculate(r)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Calculate(r))
	}
}

func TestBreakdownSumsToCalculate(t *testing.T) {
	r := &entity.Receipt{
		Retailer:     "M&M Corner Market",
		PurchaseDate: time.Date(2022, 3, 21, 0, 0, 0, 0, time.UTC),
		PurchaseTime: entity.ClockTime{Hour: 15, Minute: 0},
		Items:        []entity.Item{item("ABC", "10.00"), item("Gatorade", "2.25")},
		Total:        decimal.RequireFromString("12.25"),
	}

	breakdown := Breakdown(r)
	require.Len(t, breakdown, len(Rules()))

	var sum int64
	byRule := make(map[string]int64)
	for _, result := range breakdown {
		sum += result.Points
		byRule[result.Rule] = result.Points
	}

	assert.Equal(t, Calculate(r), sum)
	assert.Equal(t, int64(14), byRule["retailer_alphanumeric"])
	assert.Equal(t, int64(0), byRule["round_dollar_total"])
	assert.Equal(t, int64(25), byRule["quarter_multiple_total"])
	assert.Equal(t, int64(5), byRule["item_pairs"])
	assert.Equal(t, int64(2), byRule["description_length"])
	assert.Equal(t, int64(6), byRule["odd_purchase_day"])
	assert.Equal(t, int64(10), byRule["afternoon_purchase"])
}

func TestLargeAmounts(t *testing.T) {
	t.Run("largest accepted price is exact", func(t *testing.T) {
		r := baseReceipt()
		r.Items = []entity.Item{item("ABC", "999999999999999.99")}
		assert.Equal(t, int64(200000000000000), Calculate(r))
	})

	t.Run("oversized price saturates", func(t *testing.T) {
		r := baseReceipt()
		r.Retailer = "A"
		r.Items = []entity.Item{item("ABC", "50000000000000000000.00")}

		assert.Equal(t, int64(math.MaxInt64), Calculate(r))
	})

	t.Run("oversized sum across items saturates", func(t *testing.T) {
		r := baseReceipt()
		r.Retailer = "Target"
		for i := 0; i < 4; i++ {
			r.Items = append(r.Items, item("ABC", "15000000000000000000.00"))
		}

		total := Calculate(r)
		assert.Equal(t, int64(math.MaxInt64), total)

		var sum int64
		for _, res := range Breakdown(r) {
			assert.GreaterOrEqual(t, res.Points, int64(0), res.Rule)
			if res.Rule == "description_length" {
				sum = res.Points
			}
		}
		assert.Equal(t, int64(math.MaxInt64), sum)
	})
}
