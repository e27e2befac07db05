package core

import (
	"sort"
	"strings"
)

// DayKey returns the calendar-day portion of a timestamp string: the text
// before the "T" separator. Truncation is lexical on purpose; reparsing with
// timezone conversion could shift a transaction into a neighbouring day.
func DayKey(date string) string {
	if i := strings.IndexByte(date, 'T'); i >= 0 {
		return date[:i]
	}
	return date
}

// Aggregate groups transactions by calendar day. Each bucket accumulates
// total and count in input order, takes its currency from the first
// transaction placed into it, and has its total rounded to two decimal
// places after accumulation. Map iteration order carries no meaning; callers
// presenting buckets must sort keys (see SortedDays).
func Aggregate(txns []Transaction) map[string]DailyBucket {
	buckets := make(map[string]DailyBucket)
	for _, t := range txns {
		day := DayKey(t.Date)
		b, ok := buckets[day]
		if !ok {
			b = DailyBucket{Currency: t.Currency}
		}
		b.Total = b.Total.Add(t.Amount)
		b.Count++
		b.Transactions = append(b.Transactions, t)
		buckets[day] = b
	}
	for day, b := range buckets {
		b.Total = b.Total.Round(2)
		buckets[day] = b
	}
	return buckets
}

// SortedDays returns bucket keys in ascending calendar order.
func SortedDays(buckets map[string]DailyBucket) []string {
	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
