// Package analytics derives category, trend, forecast, budget, and alert
// views from a cached dataset. Everything here is a pure function over its
// inputs; nothing is stored and every read recomputes.
package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/epalmerini/cardspend/internal/core"
)

// CategoryRule classifies transactions by case-insensitive substring match
// on the description. Rules are evaluated in slice order; the first match
// wins, so the table's ordering is part of its contract.
type CategoryRule struct {
	Tag         string
	DisplayName string
	Icon        string
	Keywords    []string
}

// DefaultRules is the classification table of the reference deployment.
var DefaultRules = []CategoryRule{
	{
		Tag: "food", DisplayName: "Food & Dining", Icon: "🍴",
		Keywords: []string{"uber eats", "doordash", "grubhub", "restaurant", "mcdonalds", "kfc", "pizza", "cafe", "starbucks", "food", "dining"},
	},
	{
		Tag: "transport", DisplayName: "Transportation", Icon: "🚗",
		Keywords: []string{"uber", "lyft", "taxi", "train", "bus", "metro", "transport", "gas", "fuel", "parking"},
	},
	{
		Tag: "shopping", DisplayName: "Shopping", Icon: "🛍️",
		Keywords: []string{"amazon", "walmart", "target", "shop", "store", "market", "mall", "retail"},
	},
	{
		Tag: "entertainment", DisplayName: "Entertainment", Icon: "🎬",
		Keywords: []string{"netflix", "spotify", "movie", "cinema", "game", "entertainment", "youtube", "subscription"},
	},
	{
		Tag: "health", DisplayName: "Health & Medical", Icon: "🏥",
		Keywords: []string{"pharmacy", "hospital", "clinic", "health", "medical", "doctor", "medicine"},
	},
	{
		Tag: "utilities", DisplayName: "Utilities & Bills", Icon: "📱",
		Keywords: []string{"electric", "water", "internet", "phone", "utility", "bill", "service"},
	},
	{
		Tag: "convenience", DisplayName: "Convenience Store", Icon: "🏠",
		Keywords: []string{"7-eleven", "convenience", "corner", "quick", "mini mart", "familymart", "lawson"},
	},
}

// OtherRule catches descriptions no rule matches.
var OtherRule = CategoryRule{Tag: "other", DisplayName: "Other", Icon: "📋"}

// Classify returns the first matching rule for a description, or OtherRule.
func Classify(description string, rules []CategoryRule) CategoryRule {
	desc := strings.ToLower(description)
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(desc, keyword) {
				return rule
			}
		}
	}
	return OtherRule
}

// CategorySpend is the aggregated spend for one category.
type CategorySpend struct {
	Tag         string          `json:"tag"`
	DisplayName string          `json:"displayName"`
	Icon        string          `json:"icon"`
	Amount      decimal.Decimal `json:"amount"`
	Count       int             `json:"count"`
}

// ByCategory aggregates absolute spend and transaction count per category,
// sorted descending by amount. Ties keep first-classification order.
func ByCategory(txns []core.Transaction, rules []CategoryRule) []CategorySpend {
	totals := make(map[string]*CategorySpend)
	var order []string
	for _, txn := range txns {
		rule := Classify(txn.Description, rules)
		spend, ok := totals[rule.Tag]
		if !ok {
			spend = &CategorySpend{Tag: rule.Tag, DisplayName: rule.DisplayName, Icon: rule.Icon}
			totals[rule.Tag] = spend
			order = append(order, rule.Tag)
		}
		spend.Amount = spend.Amount.Add(txn.Amount.Abs())
		spend.Count++
	}

	out := make([]CategorySpend, 0, len(order))
	for _, tag := range order {
		out = append(out, *totals[tag])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}
