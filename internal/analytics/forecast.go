package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/epalmerini/cardspend/internal/core"
)

// Point types in a forecast series.
const (
	PointHistorical = "historical"
	PointToday      = "today"
	PointPredicted  = "predicted"
)

// ForecastPoint is one day in the combined history+projection series.
type ForecastPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Type   string          `json:"type"`
}

// weekdayMultipliers skew the projected daily spend by day of week:
// weekends and Fridays run hotter, Sundays quieter.
var weekdayMultipliers = map[time.Weekday]decimal.Decimal{
	time.Sunday:    decimal.NewFromFloat(0.8),
	time.Monday:    decimal.NewFromFloat(1.1),
	time.Tuesday:   decimal.NewFromFloat(1.0),
	time.Wednesday: decimal.NewFromFloat(1.0),
	time.Thursday:  decimal.NewFromFloat(1.1),
	time.Friday:    decimal.NewFromFloat(1.3),
	time.Saturday:  decimal.NewFromFloat(1.2),
}

// conservativeFactor scales the budget-derived fallback average when there
// is no spending history to project from.
var conservativeFactor = decimal.NewFromFloat(0.8)

// Forecast builds a 14-point series: the 7 calendar days ending at now
// (actual bucket totals, zero where absent, the last marked as today)
// followed by a 7-day projection. Each projected day is the average recent
// daily spend scaled by its weekday multiplier. The average falls back to
// spent/elapsed-days, then to budgetPerDay×0.8, when history is missing.
func Forecast(buckets map[string]core.DailyBucket, m BudgetMetrics, now time.Time) []ForecastPoint {
	avg := averageDailySpend(buckets, m)

	series := make([]ForecastPoint, 0, 14)
	for i := 6; i >= 0; i-- {
		day := now.UTC().AddDate(0, 0, -i).Format("2006-01-02")
		amount := decimal.Zero
		if b, ok := buckets[day]; ok {
			amount = b.Total
		}
		kind := PointHistorical
		if i == 0 {
			kind = PointToday
		}
		series = append(series, ForecastPoint{Date: day, Amount: amount, Type: kind})
	}
	for i := 1; i <= 7; i++ {
		day := now.UTC().AddDate(0, 0, i)
		amount := avg.Mul(weekdayMultipliers[day.Weekday()])
		series = append(series, ForecastPoint{Date: day.Format("2006-01-02"), Amount: amount, Type: PointPredicted})
	}
	return series
}

func averageDailySpend(buckets map[string]core.DailyBucket, m BudgetMetrics) decimal.Decimal {
	trend := Trend(buckets)
	if len(trend) > 7 {
		trend = trend[len(trend)-7:]
	}
	if len(trend) > 0 {
		sum := decimal.Zero
		for _, p := range trend {
			sum = sum.Add(p.Amount)
		}
		return sum.Div(decimal.NewFromInt(int64(len(trend))))
	}
	if elapsed := m.TotalDays - m.DaysRemaining; m.Spent.IsPositive() && elapsed > 0 {
		return m.Spent.Div(decimal.NewFromInt(int64(elapsed)))
	}
	return m.BudgetPerDay.Mul(conservativeFactor)
}
