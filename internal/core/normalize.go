package core

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var markupPattern = regexp.MustCompile(`<[^>]*>`)

// IsPayment reports whether an activity qualifies for normalization: a card
// payment carrying a non-empty primary amount. Activities failing this
// precondition stay in the raw set but never become transactions.
func IsPayment(a RawActivity) bool {
	return a.Type == PaymentType && a.PrimaryAmount != ""
}

// Normalize converts one qualifying activity into a transaction.
// Unparseable amounts degrade silently to zero with the fallback currency;
// titles are stripped of markup and empty results take FallbackDescription.
// The provider timestamp string passes through unchanged.
func Normalize(a RawActivity, fallbackCurrency string) Transaction {
	amount := decimal.Zero
	currency := fallbackCurrency
	if amt, cur, err := ParseAmount(a.PrimaryAmount); err == nil {
		amount, currency = amt, cur
	}

	description := markupPattern.ReplaceAllString(a.Title, "")
	if description == "" {
		description = FallbackDescription
	}

	return Transaction{
		ID:          a.ID,
		Date:        a.CreatedOn,
		Description: description,
		Amount:      amount,
		Currency:    currency,
		Type:        a.Type,
	}
}

// NormalizeAll converts every qualifying activity, preserving input order.
func NormalizeAll(activities []RawActivity, fallbackCurrency string) []Transaction {
	txns := make([]Transaction, 0, len(activities))
	for _, a := range activities {
		if !IsPayment(a) {
			continue
		}
		txns = append(txns, Normalize(a, fallbackCurrency))
	}
	return txns
}
