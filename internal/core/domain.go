package core

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PaymentType tags provider activities that represent card payments.
	PaymentType = "CARD_PAYMENT"

	// FallbackDescription replaces titles that are empty after markup stripping.
	FallbackDescription = "Card Payment"

	// DefaultCurrency is applied when an amount string carries no parseable
	// currency code and no other fallback is configured.
	DefaultCurrency = "JPY"
)

var (
	ErrInvalidWindow = errors.New("invalid date window")
	ErrMissingDates  = errors.New("both start and end dates are required")
	ErrMisordered    = errors.New("start date must be before end date")
)

type (
	// RawActivity is a provider activity record, kept verbatim as fetched.
	// Identity is the provider-unique ID.
	RawActivity struct {
		ID              string `json:"id"`
		Type            string `json:"type"`
		Title           string `json:"title"`
		Description     string `json:"description,omitempty"`
		PrimaryAmount   string `json:"primaryAmount"`
		SecondaryAmount string `json:"secondaryAmount,omitempty"`
		Status          string `json:"status"`
		CreatedOn       string `json:"createdOn"`
	}

	// Transaction is the normalized form of a card-payment activity.
	// Date carries the provider timestamp string through unchanged.
	// RunningBalance is reserved: nothing populates it.
	Transaction struct {
		ID             string           `json:"id"`
		Date           string           `json:"date"`
		Description    string           `json:"description"`
		Amount         decimal.Decimal  `json:"amount"`
		Currency       string           `json:"currency"`
		Type           string           `json:"type"`
		RunningBalance *decimal.Decimal `json:"runningBalance"`
	}

	// DailyBucket aggregates one calendar day of transactions.
	// Currency is taken from the first transaction placed into the bucket and
	// is not re-validated against later ones; a feed that mixed currencies
	// within a day would sum them as-is.
	DailyBucket struct {
		Total        decimal.Decimal `json:"total"`
		Count        int             `json:"count"`
		Currency     string          `json:"currency"`
		Transactions []Transaction   `json:"transactions"`
	}

	// Balance is the provider account balance. Available = Current - Reserved.
	Balance struct {
		Current   decimal.Decimal `json:"current"`
		Reserved  decimal.Decimal `json:"reserved"`
		Available decimal.Decimal `json:"available"`
	}

	// Window is an inclusive date range, date-only strings (YYYY-MM-DD).
	Window struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}

	// Dataset is one complete refresh result. It is built off to the side and
	// swapped into the store wholesale, never patched in place.
	Dataset struct {
		Activities   []RawActivity          `json:"activities"`
		Transactions []Transaction          `json:"transactions"`
		DailyTotals  map[string]DailyBucket `json:"dailyTotals"`
		Balance      Balance                `json:"balance"`
		Currency     string                 `json:"currency"`
		DataWindow   Window                 `json:"dataWindow"`
		LastUpdated  time.Time              `json:"lastUpdated"`
	}
)

const dateLayout = "2006-01-02"

// Validate checks that both endpoints are present, well-formed date-only
// strings, and strictly ordered.
func (w Window) Validate() error {
	if w.Start == "" || w.End == "" {
		return ErrMissingDates
	}
	start, err := time.Parse(dateLayout, w.Start)
	if err != nil {
		return ErrInvalidWindow
	}
	end, err := time.Parse(dateLayout, w.End)
	if err != nil {
		return ErrInvalidWindow
	}
	if !start.Before(end) {
		return ErrMisordered
	}
	return nil
}

// ParseWhen parses a date or datetime string as used in transaction
// timestamps and window endpoints. The second return is false when the
// string matches no known layout.
func ParseWhen(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortByDateDesc orders transactions newest first, in place. Timestamps that
// fail to parse fall back to reverse lexical order, which coincides with
// chronological order for ISO 8601 strings in a single zone.
func SortByDateDesc(txns []Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		ti, iok := ParseWhen(txns[i].Date)
		tj, jok := ParseWhen(txns[j].Date)
		if iok && jok {
			return ti.After(tj)
		}
		return txns[i].Date > txns[j].Date
	})
}
