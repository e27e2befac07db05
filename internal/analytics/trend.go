package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/epalmerini/cardspend/internal/core"
)

// trendDays caps the trend series at two weeks of active days.
const trendDays = 14

// TrendPoint is one active calendar day in the trend series.
type TrendPoint struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// Trend returns the most recent active days present in the bucket mapping,
// at most trendDays of them, sorted ascending by date. Days without
// transactions do not appear.
func Trend(buckets map[string]core.DailyBucket) []TrendPoint {
	days := core.SortedDays(buckets)
	if len(days) > trendDays {
		days = days[len(days)-trendDays:]
	}
	points := make([]TrendPoint, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		points = append(points, TrendPoint{Date: day, Amount: b.Total, Count: b.Count})
	}
	return points
}
