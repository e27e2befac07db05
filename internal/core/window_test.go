package core

import (
	"errors"
	"testing"
)

func TestFilterWindowSentinelsAreIdentity(t *testing.T) {
	txns := []Transaction{
		payment("a", "2025-12-05T10:00:00.000Z", "100"),
		payment("b", "2025-12-03T10:00:00.000Z", "200"),
		payment("c", "2025-12-01T10:00:00.000Z", "300"),
	}
	filtered, buckets, err := FilterWindow(txns, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != len(txns) {
		t.Fatalf("got %d transactions, want %d", len(filtered), len(txns))
	}
	for i := range txns {
		if filtered[i].ID != txns[i].ID {
			t.Fatalf("order changed at %d: %q vs %q", i, filtered[i].ID, txns[i].ID)
		}
	}
	if len(buckets) != 3 {
		t.Fatalf("got %d buckets, want 3", len(buckets))
	}
}

func TestFilterWindowInclusiveBounds(t *testing.T) {
	txns := []Transaction{
		payment("before", "2025-12-01T23:00:00.000Z", "1"),
		payment("start", "2025-12-02T00:00:00.000Z", "1"),
		payment("inside", "2025-12-03T12:00:00.000Z", "1"),
		payment("end", "2025-12-04T00:00:00.000Z", "1"),
		payment("after", "2025-12-04T00:00:01.000Z", "1"),
	}
	filtered, _, err := FilterWindow(txns, "2025-12-02", "2025-12-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]bool{"start": true, "inside": true, "end": true}
	if len(filtered) != len(want) {
		t.Fatalf("got %d transactions, want %d: %+v", len(filtered), len(want), filtered)
	}
	for _, txn := range filtered {
		if !want[txn.ID] {
			t.Fatalf("unexpected transaction %q in window", txn.ID)
		}
	}
}

func TestFilterWindowDoesNotMutateInput(t *testing.T) {
	txns := []Transaction{
		payment("a", "2025-12-05T10:00:00.000Z", "100"),
		payment("b", "2025-12-01T10:00:00.000Z", "200"),
	}
	if _, _, err := FilterWindow(txns, "2025-12-04", "2025-12-06"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txns[0].ID != "a" || txns[1].ID != "b" {
		t.Fatalf("input slice mutated: %+v", txns)
	}
}

func TestFilterWindowRejectsGarbageBounds(t *testing.T) {
	_, _, err := FilterWindow(nil, "not-a-date", "")
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestWindowValidate(t *testing.T) {
	cases := []struct {
		name   string
		window Window
		want   error
	}{
		{"valid", Window{Start: "2025-12-01", End: "2025-12-31"}, nil},
		{"missing start", Window{End: "2025-12-31"}, ErrMissingDates},
		{"missing end", Window{Start: "2025-12-01"}, ErrMissingDates},
		{"bad format", Window{Start: "12/01/2025", End: "2025-12-31"}, ErrInvalidWindow},
		{"misordered", Window{Start: "2025-12-31", End: "2025-12-01"}, ErrMisordered},
		{"equal", Window{Start: "2025-12-01", End: "2025-12-01"}, ErrMisordered},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.window.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestSortByDateDesc(t *testing.T) {
	txns := []Transaction{
		payment("mid", "2025-12-03T10:00:00.000Z", "1"),
		payment("new", "2025-12-05T10:00:00.000Z", "1"),
		payment("old", "2025-12-01T10:00:00.000Z", "1"),
	}
	SortByDateDesc(txns)
	want := []string{"new", "mid", "old"}
	for i := range want {
		if txns[i].ID != want[i] {
			t.Fatalf("order = %v, want %v", []string{txns[0].ID, txns[1].ID, txns[2].ID}, want)
		}
	}
}
