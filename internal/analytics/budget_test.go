package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/epalmerini/cardspend/internal/core"
)

func TestComputeBudgetScenario(t *testing.T) {
	// Balance 5000, spent 3000 -> budget 8000, 37.5% used.
	balance := core.Balance{Current: decimal.NewFromInt(5000)}
	buckets := map[string]core.DailyBucket{
		"2025-12-02": bucket("2000", 2),
		"2025-12-04": bucket("1000", 1),
	}
	window := core.Window{Start: "2025-12-01", End: "2025-12-31"}
	now := time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC)

	m := ComputeBudget(balance, buckets, window, "JPY", now)
	if m.Budget.String() != "8000" {
		t.Fatalf("budget = %s, want 8000", m.Budget)
	}
	if m.Spent.String() != "3000" {
		t.Fatalf("spent = %s, want 3000", m.Spent)
	}
	if m.SpentPercentage != 37.5 {
		t.Fatalf("spentPercentage = %v, want 37.5", m.SpentPercentage)
	}
	// 2025-12-10T12:00 to 2025-12-31T00:00 is 20.5 days, ceil 21.
	if m.DaysRemaining != 21 {
		t.Fatalf("daysRemaining = %d, want 21", m.DaysRemaining)
	}
	if m.TotalDays != 30 {
		t.Fatalf("totalDays = %d, want 30", m.TotalDays)
	}
	wantPerDay := decimal.NewFromInt(5000).Div(decimal.NewFromInt(21))
	if !m.BudgetPerDay.Equal(wantPerDay) {
		t.Fatalf("budgetPerDay = %s, want %s", m.BudgetPerDay, wantPerDay)
	}
}

func TestComputeBudgetZeroBudget(t *testing.T) {
	m := ComputeBudget(core.Balance{}, nil, core.Window{Start: "2025-12-01", End: "2025-12-31"}, "JPY",
		time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC))
	if m.SpentPercentage != 0 {
		t.Fatalf("spentPercentage = %v, want 0 for non-positive budget", m.SpentPercentage)
	}
}

func TestComputeBudgetWindowEnded(t *testing.T) {
	balance := core.Balance{Current: decimal.NewFromInt(5000)}
	m := ComputeBudget(balance, nil, core.Window{Start: "2025-11-01", End: "2025-11-30"}, "JPY",
		time.Date(2025, 12, 10, 0, 0, 0, 0, time.UTC))
	if m.DaysRemaining != 0 {
		t.Fatalf("daysRemaining = %d, want clamp to 0", m.DaysRemaining)
	}
	if !m.BudgetPerDay.IsZero() {
		t.Fatalf("budgetPerDay = %s, want 0 once the window has ended", m.BudgetPerDay)
	}
}
