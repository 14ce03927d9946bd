// Package points implements the receipt scoring rules.
//
// Every rule is additive and independent. Calculate is pure: the same receipt
// always yields the same total, so results may be cached by receipt id.
package points

import (
	"math"
	"strings"

	"github.com/damon-houk/receipt-processor/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	roundDollarPoints      = 50
	quarterMultiplePoints  = 25
	itemPairPoints         = 5
	oddDayPoints           = 6
	afternoonPoints        = 10
	descriptionLengthBasis = 3

	// Purchase window is exclusive at both ends.
	afternoonStart = 14 * 60
	afternoonEnd   = 16 * 60
)

var (
	one                  = decimal.NewFromInt(1)
	quarter              = decimal.RequireFromString("0.25")
	descriptionPriceRate = decimal.RequireFromString("0.2")
	maxPoints            = decimal.NewFromInt(math.MaxInt64)
)

// Rule is a single named scoring rule
type Rule struct {
	Name  string
	Award func(r *entity.Receipt) int64
}

// RuleResult is the contribution of one rule to a receipt's total
type RuleResult struct {
	Rule   string `json:"rule"`
	Points int64  `json:"points"`
}

var rules = []Rule{
	{Name: "retailer_alphanumeric", Award: retailerAlphanumeric},
	{Name: "round_dollar_total", Award: roundDollarTotal},
	{Name: "quarter_multiple_total", Award: quarterMultipleTotal},
	{Name: "item_pairs", Award: itemPairs},
	{Name: "description_length", Award: descriptionLength},
	{Name: "odd_purchase_day", Award: oddPurchaseDay},
	{Name: "afternoon_purchase", Award: afternoonPurchase},
}

// Rules returns the scoring rules in evaluation order
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Calculate returns the total points awarded to a validated receipt.
// Totals beyond math.MaxInt64 saturate rather than wrap.
func Calculate(r *entity.Receipt) int64 {
	var total int64
	for _, rule := range rules {
		total = addSaturating(total, rule.Award(r))
	}
	return total
}

// Both operands are non-negative.
func addSaturating(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// Breakdown returns each rule's contribution, in evaluation order
func Breakdown(r *entity.Receipt) []RuleResult {
	results := make([]RuleResult, 0, len(rules))
	for _, rule := range rules {
		results = append(results, RuleResult{Rule: rule.Name, Points: rule.Award(r)})
	}
	return results
}

// One point for every ASCII letter or digit in the retailer name.
func retailerAlphanumeric(r *entity.Receipt) int64 {
	var n int64
	for _, c := range r.Retailer {
		if isAlphanumeric(c) {
			n++
		}
	}
	return n
}

func isAlphanumeric(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func roundDollarTotal(r *entity.Receipt) int64 {
	if r.Total.Mod(one).IsZero() {
		return roundDollarPoints
	}
	return 0
}

func quarterMultipleTotal(r *entity.Receipt) int64 {
	if r.Total.Mod(quarter).IsZero() {
		return quarterMultiplePoints
	}
	return 0
}

func itemPairs(r *entity.Receipt) int64 {
	return int64(len(r.Items)/2) * itemPairPoints
}

// Items whose trimmed description length is a positive multiple of three earn
// ceil(price * 0.2).
func descriptionLength(r *entity.Receipt) int64 {
	sum := decimal.Zero
	for _, item := range r.Items {
		length := len([]rune(strings.TrimSpace(item.ShortDescription)))
		if length == 0 || length%descriptionLengthBasis != 0 {
			continue
		}
		sum = sum.Add(item.Price.Mul(descriptionPriceRate).Ceil())
	}

	if sum.GreaterThan(maxPoints) {
		return math.MaxInt64
	}
	return sum.IntPart()
}

func oddPurchaseDay(r *entity.Receipt) int64 {
	if r.PurchaseDate.Day()%2 == 1 {
		return oddDayPoints
	}
	return 0
}

func afternoonPurchase(r *entity.Receipt) int64 {
	m := r.PurchaseTime.MinutesSinceMidnight()
	if m > afternoonStart && m < afternoonEnd {
		return afternoonPoints
	}
	return 0
}
