package mock

import (
	"context"
	"strings"
	"testing"

	"github.com/epalmerini/cardspend/internal/core"
)

func TestFetchBalance(t *testing.T) {
	src := NewSeeded(1)
	balance, currency, err := src.FetchBalance(context.Background())
	if err != nil {
		t.Fatalf("FetchBalance: %v", err)
	}
	if currency != "JPY" {
		t.Errorf("currency = %q", currency)
	}
	if balance.Current.String() != "120342" {
		t.Errorf("current = %s", balance.Current)
	}
	if !balance.Available.Equal(balance.Current) {
		t.Errorf("available = %s, want %s", balance.Available, balance.Current)
	}
}

func TestFetchActivitiesShape(t *testing.T) {
	src := NewSeeded(42)
	window := core.Window{Start: "2025-12-01", End: "2025-12-31"}
	activities, err := src.FetchActivities(context.Background(), window)
	if err != nil {
		t.Fatalf("FetchActivities: %v", err)
	}
	if len(activities) == 0 {
		t.Fatal("expected some activities across a month")
	}
	if len(activities) > 31*5 {
		t.Fatalf("got %d activities, more than the per-day cap allows", len(activities))
	}

	seen := make(map[string]bool, len(activities))
	for _, a := range activities {
		if a.Type != core.PaymentType {
			t.Errorf("activity %s type = %q", a.ID, a.Type)
		}
		if !strings.HasPrefix(a.Title, "<strong>") {
			t.Errorf("title not markup-wrapped: %q", a.Title)
		}
		if !strings.HasSuffix(a.PrimaryAmount, " JPY") {
			t.Errorf("primaryAmount = %q", a.PrimaryAmount)
		}
		if seen[a.ID] {
			t.Errorf("duplicate id %s", a.ID)
		}
		seen[a.ID] = true

		day := core.DayKey(a.CreatedOn)
		if day < window.Start || day > window.End {
			t.Errorf("activity on %s outside window", day)
		}
	}

	// Newest first, same ordering the live API uses.
	for i := 1; i < len(activities); i++ {
		if activities[i-1].CreatedOn < activities[i].CreatedOn {
			t.Fatalf("activities not sorted desc at index %d", i)
		}
	}
}

func TestFetchActivitiesNormalizes(t *testing.T) {
	src := NewSeeded(7)
	activities, err := src.FetchActivities(context.Background(), core.Window{Start: "2025-12-01", End: "2025-12-07"})
	if err != nil {
		t.Fatalf("FetchActivities: %v", err)
	}

	txns := core.NormalizeAll(activities, core.DefaultCurrency)
	if len(txns) != len(activities) {
		t.Fatalf("normalized %d of %d activities", len(txns), len(activities))
	}
	for _, txn := range txns {
		if txn.Amount.IsZero() {
			t.Errorf("transaction %s parsed to zero amount", txn.ID)
		}
		if strings.ContainsAny(txn.Description, "<>") {
			t.Errorf("description still has markup: %q", txn.Description)
		}
	}
}

func TestSeededDeterminism(t *testing.T) {
	window := core.Window{Start: "2025-12-01", End: "2025-12-14"}
	a, _ := NewSeeded(99).FetchActivities(context.Background(), window)
	b, _ := NewSeeded(99).FetchActivities(context.Background(), window)
	if len(a) != len(b) {
		t.Fatalf("runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Title != b[i].Title || a[i].PrimaryAmount != b[i].PrimaryAmount || a[i].CreatedOn != b[i].CreatedOn {
			t.Errorf("runs differ at index %d", i)
		}
	}
}

func TestFormatThousands(t *testing.T) {
	cases := map[int]string{
		7:       "7",
		342:     "342",
		1200:    "1,200",
		120342:  "120,342",
		1000000: "1,000,000",
	}
	for n, want := range cases {
		if got := formatThousands(n); got != want {
			t.Errorf("formatThousands(%d) = %q, want %q", n, got, want)
		}
	}
}
