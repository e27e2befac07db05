// Package provider defines the outbound port for the card activity source.
// Adapters live in the wise (live REST API) and mock (fixture generator)
// subpackages and are interchangeable: both feed the same refresh pipeline.
package provider

import (
	"context"

	"github.com/epalmerini/cardspend/internal/core"
)

// Source supplies the account balance and the raw activity records for a
// date window.
type Source interface {
	// FetchBalance returns the primary balance and its currency code.
	FetchBalance(ctx context.Context) (core.Balance, string, error)

	// FetchActivities returns every activity inside the window, in the
	// provider's fetch order. Page-boundary duplicates may be present; the
	// pipeline deduplicates downstream.
	FetchActivities(ctx context.Context, window core.Window) ([]core.RawActivity, error)
}
