package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/epalmerini/cardspend/internal/core"
)

func TestForecastShape(t *testing.T) {
	now := time.Date(2025, 12, 10, 15, 0, 0, 0, time.UTC) // a Wednesday
	buckets := map[string]core.DailyBucket{
		"2025-12-08": bucket("700", 1),
		"2025-12-10": bucket("1400", 2),
	}
	m := BudgetMetrics{Spent: decimal.NewFromInt(2100), Currency: "JPY"}

	series := Forecast(buckets, m, now)
	if len(series) != 14 {
		t.Fatalf("got %d points, want 14", len(series))
	}
	if series[0].Date != "2025-12-04" || series[0].Type != PointHistorical {
		t.Fatalf("first point = %+v, want historical 2025-12-04", series[0])
	}
	if !series[0].Amount.IsZero() {
		t.Fatalf("day without bucket should forecast as 0, got %s", series[0].Amount)
	}
	if series[6].Date != "2025-12-10" || series[6].Type != PointToday {
		t.Fatalf("seventh point = %+v, want today 2025-12-10", series[6])
	}
	if series[6].Amount.String() != "1400" {
		t.Fatalf("today amount = %s, want 1400", series[6].Amount)
	}
	if series[7].Date != "2025-12-11" || series[7].Type != PointPredicted {
		t.Fatalf("eighth point = %+v, want predicted 2025-12-11", series[7])
	}
	if series[13].Date != "2025-12-17" {
		t.Fatalf("last point = %s, want 2025-12-17", series[13].Date)
	}
}

func TestForecastWeekdayMultipliers(t *testing.T) {
	now := time.Date(2025, 12, 10, 15, 0, 0, 0, time.UTC)
	buckets := map[string]core.DailyBucket{
		"2025-12-10": bucket("1000", 1), // single active day -> average is 1000
	}
	series := Forecast(buckets, BudgetMetrics{}, now)

	wantByDate := map[string]string{
		"2025-12-12": "1300", // Friday x1.3
		"2025-12-13": "1200", // Saturday x1.2
		"2025-12-14": "800",  // Sunday x0.8
		"2025-12-16": "1000", // Tuesday x1.0
	}
	for _, p := range series {
		want, ok := wantByDate[p.Date]
		if !ok {
			continue
		}
		if p.Amount.String() != want {
			t.Errorf("%s predicted %s, want %s", p.Date, p.Amount, want)
		}
	}
}

func TestForecastFallbackAverages(t *testing.T) {
	now := time.Date(2025, 12, 10, 15, 0, 0, 0, time.UTC)

	// No buckets, but spending recorded over elapsed days: spent/elapsed.
	m := BudgetMetrics{
		Spent:         decimal.NewFromInt(900),
		TotalDays:     30,
		DaysRemaining: 21,
		BudgetPerDay:  decimal.NewFromInt(500),
	}
	series := Forecast(nil, m, now)
	// 900 spent over 9 elapsed days -> 100/day; 2025-12-11 is a Thursday (x1.1).
	if got := series[7].Amount; got.String() != "110" {
		t.Fatalf("projection = %s, want 110", got)
	}

	// No history at all: budgetPerDay x 0.8 conservative estimate.
	m = BudgetMetrics{BudgetPerDay: decimal.NewFromInt(500)}
	series = Forecast(nil, m, now)
	// 2025-12-16 is a Tuesday (x1.0): amount equals the conservative average.
	for _, p := range series {
		if p.Date == "2025-12-16" {
			if p.Amount.String() != "400" {
				t.Fatalf("conservative projection = %s, want 400", p.Amount)
			}
			return
		}
	}
	t.Fatal("expected a projection for 2025-12-16")
}
