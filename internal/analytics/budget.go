package analytics

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/epalmerini/cardspend/internal/core"
)

// BudgetMetrics treats the account balance as the remaining budget for the
// configured window: the true budget is what is left plus what was spent.
type BudgetMetrics struct {
	Budget          decimal.Decimal `json:"budget"`
	Spent           decimal.Decimal `json:"spent"`
	Remaining       decimal.Decimal `json:"remaining"`
	SpentPercentage float64         `json:"spentPercentage"`
	DaysRemaining   int             `json:"daysRemaining"`
	TotalDays       int             `json:"totalDays"`
	BudgetPerDay    decimal.Decimal `json:"budgetPerDay"`
	Currency        string          `json:"currency"`
}

// ComputeBudget derives budget metrics from the balance, the aggregated
// buckets, and the data window, as of now. SpentPercentage is rounded to one
// decimal place and is 0 whenever the total budget is not positive;
// BudgetPerDay is 0 once the window has ended.
func ComputeBudget(balance core.Balance, buckets map[string]core.DailyBucket, window core.Window, currency string, now time.Time) BudgetMetrics {
	spent := decimal.Zero
	for _, b := range buckets {
		spent = spent.Add(b.Total)
	}
	remaining := balance.Current
	budget := remaining.Add(spent)

	m := BudgetMetrics{
		Budget:       budget,
		Spent:        spent,
		Remaining:    remaining,
		BudgetPerDay: decimal.Zero,
		Currency:     currency,
	}

	if end, ok := core.ParseWhen(window.End); ok {
		m.DaysRemaining = daysBetween(now, end)
		if start, ok := core.ParseWhen(window.Start); ok {
			m.TotalDays = daysBetween(start, end)
		}
	}

	if budget.IsPositive() {
		pct, _ := spent.Div(budget).Mul(decimal.NewFromInt(100)).Float64()
		m.SpentPercentage = math.Round(pct*10) / 10
	}
	if m.DaysRemaining > 0 {
		m.BudgetPerDay = remaining.Div(decimal.NewFromInt(int64(m.DaysRemaining)))
	}
	return m
}

// daysBetween is ceil((to-from)/24h), floored at zero.
func daysBetween(from, to time.Time) int {
	days := int(math.Ceil(to.Sub(from).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}
