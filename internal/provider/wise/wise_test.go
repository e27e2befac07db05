package wise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/epalmerini/cardspend/internal/core"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{
		BaseURL:   srv.URL,
		Token:     "test-token",
		ProfileID: "12345",
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New(Config{Token: "", ProfileID: "12345"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("missing token: got %v, want ErrNotConfigured", err)
	}
	if _, err := New(Config{Token: "tok", ProfileID: ""}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("missing profile: got %v, want ErrNotConfigured", err)
	}
}

func TestNewSelectsBaseURL(t *testing.T) {
	prod, err := New(Config{Environment: "production", Token: "tok", ProfileID: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if prod.baseURL != productionBaseURL {
		t.Errorf("production baseURL = %q", prod.baseURL)
	}

	sandbox, err := New(Config{Environment: "sandbox", Token: "tok", ProfileID: "1"})
	if err != nil {
		t.Fatal(err)
	}
	if sandbox.baseURL != sandboxBaseURL {
		t.Errorf("sandbox baseURL = %q", sandbox.baseURL)
	}
}

func TestFetchBalance(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/v3/profiles/12345/balances" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("types"); got != "STANDARD" {
			t.Errorf("types = %q", got)
		}
		fmt.Fprint(w, `[{"amount":{"value":120342,"currency":"JPY"},"reservedAmount":{"value":500}}]`)
	}))

	balance, currency, err := client.FetchBalance(context.Background())
	if err != nil {
		t.Fatalf("FetchBalance: %v", err)
	}
	if currency != "JPY" {
		t.Errorf("currency = %q, want JPY", currency)
	}
	if balance.Current.String() != "120342" {
		t.Errorf("current = %s", balance.Current)
	}
	if balance.Reserved.String() != "500" {
		t.Errorf("reserved = %s", balance.Reserved)
	}
	if balance.Available.String() != "119842" {
		t.Errorf("available = %s", balance.Available)
	}
}

func TestFetchBalanceEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	if _, _, err := client.FetchBalance(context.Background()); err == nil {
		t.Error("expected error for empty balance list")
	}
}

func TestFetchBalanceHTTPError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	if _, _, err := client.FetchBalance(context.Background()); err == nil {
		t.Error("expected error for 401 response")
	}
}

func TestFetchActivitiesPaginates(t *testing.T) {
	pages := map[string]activityPage{
		"": {
			Activities: []core.RawActivity{{ID: "a1", Type: "CARD_PAYMENT"}},
			Cursor:     "page2",
		},
		"page2": {
			Activities: []core.RawActivity{{ID: "a2", Type: "CARD_PAYMENT"}},
			Cursor:     "page3",
		},
		"page3": {
			Activities: []core.RawActivity{{ID: "a3", Type: "CARD_PAYMENT"}},
		},
	}

	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		q := r.URL.Query()
		if got := q.Get("since"); got != "2025-12-01T00:00:00.000Z" {
			t.Errorf("since = %q", got)
		}
		if got := q.Get("until"); got != "2025-12-31T23:59:59.999Z" {
			t.Errorf("until = %q", got)
		}
		json.NewEncoder(w).Encode(pages[q.Get("nextCursor")])
	}))

	got, err := client.FetchActivities(context.Background(), core.Window{Start: "2025-12-01", End: "2025-12-31"})
	if err != nil {
		t.Fatalf("FetchActivities: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(got) != 3 {
		t.Fatalf("got %d activities, want 3", len(got))
	}
	for i, want := range []string{"a1", "a2", "a3"} {
		if got[i].ID != want {
			t.Errorf("activity[%d].ID = %q, want %q", i, got[i].ID, want)
		}
	}
}

func TestFetchActivitiesStopsOnEmptyPage(t *testing.T) {
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		// A cursor with no activities must still terminate the loop.
		json.NewEncoder(w).Encode(activityPage{Cursor: "more"})
	}))

	got, err := client.FetchActivities(context.Background(), core.Window{Start: "2025-12-01", End: "2025-12-31"})
	if err != nil {
		t.Fatalf("FetchActivities: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(got) != 0 {
		t.Errorf("got %d activities, want 0", len(got))
	}
}

func TestFetchActivitiesCapsPages(t *testing.T) {
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(activityPage{
			Activities: []core.RawActivity{{ID: fmt.Sprintf("a%d", calls)}},
			Cursor:     "again",
		})
	}))

	got, err := client.FetchActivities(context.Background(), core.Window{Start: "2025-12-01", End: "2025-12-31"})
	if err != nil {
		t.Fatalf("FetchActivities: %v", err)
	}
	if calls != maxPages {
		t.Errorf("calls = %d, want %d", calls, maxPages)
	}
	if len(got) != maxPages {
		t.Errorf("got %d activities, want %d", len(got), maxPages)
	}
}

func TestFetchActivitiesUpstreamError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	if _, err := client.FetchActivities(context.Background(), core.Window{Start: "2025-12-01", End: "2025-12-31"}); err == nil {
		t.Error("expected error for 502 response")
	}
}
