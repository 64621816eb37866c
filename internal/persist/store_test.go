package persist

import (
	"path/filepath"
	"testing"
)

func TestStoreSaveAndRecent(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	price := 12.99
	first := &Exchange{
		RequestID: "req-1",
		Query:     "eco cleaner under $15",
		Answer:    "Go with the EcoShine cleaner [1].",
		Results: []StoredResult{
			{Title: "EcoShine Steel Cleaner", URL: "https://www.amazon.com/dp/B0EXAMPLE1", Price: &price, Source: "catalog", Rank: 0},
		},
	}
	if err := store.SaveExchange(first); err != nil {
		t.Fatalf("SaveExchange: %v", err)
	}
	if first.ID == 0 || first.CreatedAt.IsZero() {
		t.Fatalf("SaveExchange did not fill id/timestamp: %+v", first)
	}

	second := &Exchange{RequestID: "req-2", Query: "blender", Error: "internal pipeline error"}
	if err := store.SaveExchange(second); err != nil {
		t.Fatalf("SaveExchange: %v", err)
	}

	recent, err := store.RecentExchanges(10)
	if err != nil {
		t.Fatalf("RecentExchanges: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d exchanges, want 2", len(recent))
	}
	if recent[0].RequestID != "req-2" {
		t.Fatalf("newest first expected, got %q", recent[0].RequestID)
	}

	got := recent[1]
	if got.Query != first.Query || got.Answer != first.Answer {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if len(got.Results) != 1 || got.Results[0].Price == nil || *got.Results[0].Price != 12.99 {
		t.Fatalf("results not preserved: %+v", got.Results)
	}
}

func TestRecentExchangesLimit(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	for _, q := range []string{"a", "b", "c"} {
		if err := store.SaveExchange(&Exchange{RequestID: "req-" + q, Query: q}); err != nil {
			t.Fatalf("SaveExchange: %v", err)
		}
	}

	recent, err := store.RecentExchanges(2)
	if err != nil {
		t.Fatalf("RecentExchanges: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d exchanges, want 2", len(recent))
	}
}
