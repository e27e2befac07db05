package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/epalmerini/cardspend/internal/core"
)

// Alert severities.
const (
	AlertDanger  = "danger"
	AlertWarning = "warning"
	AlertInfo    = "info"
	AlertSuccess = "success"
)

// Alert is one spending notice. IDs are stable so clients can deduplicate
// per session; the server re-evaluates and returns every applicable alert
// on each read.
type Alert struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Icon    string `json:"icon"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

var overspendFactor = decimal.NewFromFloat(1.5)

// Evaluate applies the alert rules to the current metrics. Callers invoke it
// only when the dataset holds at least one transaction; an empty window
// yields no meaningful thresholds.
func Evaluate(buckets map[string]core.DailyBucket, categories []CategorySpend, m BudgetMetrics, now time.Time) []Alert {
	var alerts []Alert

	switch {
	case m.SpentPercentage >= 90:
		alerts = append(alerts, Alert{
			ID: "budget-90", Type: AlertDanger, Icon: "🚨",
			Title: "Budget Alert: Over 90% Used",
			Message: fmt.Sprintf("You've spent %.1f%% of your budget. Consider reducing spending for the remaining %d days.",
				m.SpentPercentage, m.DaysRemaining),
		})
	case m.SpentPercentage >= 75:
		alerts = append(alerts, Alert{
			ID: "budget-75", Type: AlertWarning, Icon: "⚠️",
			Title: "Budget Alert: 75% Used",
			Message: fmt.Sprintf("You've used %.1f%% of your budget. You have %s %s left for %d days.",
				m.SpentPercentage, m.Remaining, m.Currency, m.DaysRemaining),
		})
	}

	today := now.UTC().Format("2006-01-02")
	todaySpend := decimal.Zero
	if b, ok := buckets[today]; ok {
		todaySpend = b.Total
	}
	if m.BudgetPerDay.IsPositive() && todaySpend.GreaterThan(m.BudgetPerDay.Mul(overspendFactor)) {
		over, _ := todaySpend.Div(m.BudgetPerDay).Sub(decimal.NewFromInt(1)).Mul(decimal.NewFromInt(100)).Float64()
		alerts = append(alerts, Alert{
			ID: "daily-overspend", Type: AlertWarning, Icon: "💸",
			Title: "High Daily Spending",
			Message: fmt.Sprintf("Today's spending (%s %s) is %.0f%% above your daily target.",
				todaySpend, m.Currency, over),
		})
	}

	if len(categories) > 0 && m.Spent.IsPositive() {
		top := categories[0]
		if top.Amount.GreaterThan(m.Spent.Mul(decimal.NewFromFloat(0.4))) {
			share, _ := top.Amount.Div(m.Spent).Mul(decimal.NewFromInt(100)).Float64()
			alerts = append(alerts, Alert{
				ID: "category-dominant", Type: AlertInfo, Icon: top.Icon,
				Title: fmt.Sprintf("%s Dominates Spending", top.DisplayName),
				Message: fmt.Sprintf("%s accounts for %.1f%% of your total spending. Consider reviewing this category.",
					top.DisplayName, share),
			})
		}
	}

	if m.SpentPercentage < 50 && m.DaysRemaining < m.TotalDays/2 {
		alerts = append(alerts, Alert{
			ID: "on-track", Type: AlertSuccess, Icon: "🎉",
			Title: "Great Job! Staying On Track",
			Message: fmt.Sprintf("You're only at %.1f%% of your budget halfway through the period. Keep it up!",
				m.SpentPercentage),
		})
	}

	return alerts
}
