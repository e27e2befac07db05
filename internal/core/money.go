// Package core implements the transaction normalization and aggregation
// pipeline: amount parsing, activity-to-transaction conversion,
// deduplication, daily aggregation, and date-window filtering.
//
// This file contains the amount parser. Provider activities carry amounts as
// free text ("1,234 JPY"); parsing failures are reported as errors here, and
// callers apply the silent-degrade fallback (zero amount, configured
// currency) so the leniency policy stays a visible function boundary.
package core

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern matches a run of digits with optional thousands separators
// followed by whitespace and a currency code.
var amountPattern = regexp.MustCompile(`([\d,]+)\s+(\w+)`)

// ErrUnparseableAmount reports a primary amount string that does not match
// the expected "<digits> <currency>" shape.
var ErrUnparseableAmount = errors.New("unparseable amount")

// ParseAmount extracts a decimal amount and currency code from a provider
// amount string.
//
// Examples:
//
//	ParseAmount("1,234 JPY") -> 1234, "JPY", nil
//	ParseAmount("950 USD")   -> 950, "USD", nil
//	ParseAmount("free")      -> 0, "", ErrUnparseableAmount
func ParseAmount(s string) (decimal.Decimal, string, error) {
	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, "", ErrUnparseableAmount
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return decimal.Zero, "", ErrUnparseableAmount
	}
	return amount, m[2], nil
}
