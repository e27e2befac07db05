package core

import "fmt"

// Sentinel endpoints substituted when a filter request omits a bound.
const (
	SentinelStart = "1900-01-01"
	SentinelEnd   = "2100-01-01"
)

// FilterWindow selects the transactions whose parsed timestamps fall inside
// the inclusive [start, end] range and re-aggregates them into fresh daily
// buckets. Empty endpoints default to the far-past/far-future sentinels. The
// input slice is never mutated: the result is a read-only projection.
// Transactions whose timestamps cannot be parsed are excluded.
func FilterWindow(txns []Transaction, start, end string) ([]Transaction, map[string]DailyBucket, error) {
	if start == "" {
		start = SentinelStart
	}
	if end == "" {
		end = SentinelEnd
	}
	from, ok := ParseWhen(start)
	if !ok {
		return nil, nil, fmt.Errorf("%w: start %q", ErrInvalidWindow, start)
	}
	to, ok := ParseWhen(end)
	if !ok {
		return nil, nil, fmt.Errorf("%w: end %q", ErrInvalidWindow, end)
	}

	filtered := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		when, ok := ParseWhen(t.Date)
		if !ok {
			continue
		}
		if when.Before(from) || when.After(to) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered, Aggregate(filtered), nil
}
