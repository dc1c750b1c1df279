package fetcher

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

// stubScreener records every filter set it is asked to screen and
// returns scripted results per set index.
type stubScreener struct {
	name    string
	seen    []ScreenFilters
	results [][]string
	errs    []error
}

func (s *stubScreener) Name() string { return s.name }

func (s *stubScreener) Screen(ctx context.Context, filters ScreenFilters, limit int) ([]string, error) {
	i := len(s.seen)
	s.seen = append(s.seen, filters)
	var tickers []string
	var err error
	if i < len(s.results) {
		tickers = s.results[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	if len(tickers) > limit {
		tickers = tickers[:limit]
	}
	return tickers, err
}

func TestScreenerURL(t *testing.T) {
	got := screenerURL(DefaultScreenFilters())
	want := "https://finviz.com/screener.ashx?v=111&f=idx_sp500,fa_pe_u25,fa_peg_u1,ta_sma20_pa"
	if got != want {
		t.Errorf("screenerURL = %q, want %q", got, want)
	}
}

func TestRelaxedFilterSetsLoosenStepwise(t *testing.T) {
	sets := RelaxedScreenFilterSets()
	if len(sets) != 3 {
		t.Fatalf("got %d relaxed sets, want 3", len(sets))
	}
	want := []ScreenFilters{
		{"idx_sp500", "fa_pe_u30"},
		{"idx_sp500"},
		{"cap_large"},
	}
	for i := range want {
		if !reflect.DeepEqual(sets[i], want[i]) {
			t.Errorf("set %d = %v, want %v", i, sets[i], want[i])
		}
	}
}

func TestDiscoverUniverseUsesDefaultFilters(t *testing.T) {
	s := &stubScreener{name: "stub", results: [][]string{{"AAPL", "MSFT"}}}
	f := newTestFetcher(nil)
	f.screeners = []ScreenerProvider{s}

	tickers, err := f.DiscoverUniverse(context.Background(), 10)
	if err != nil {
		t.Fatalf("DiscoverUniverse failed: %v", err)
	}
	if !reflect.DeepEqual(tickers, []string{"AAPL", "MSFT"}) {
		t.Errorf("tickers = %v", tickers)
	}
	if len(s.seen) != 1 || !reflect.DeepEqual(s.seen[0], DefaultScreenFilters()) {
		t.Errorf("screened with %v, want the default filter set once", s.seen)
	}
}

func TestDiscoverUniverseRelaxesFiltersWhenEmpty(t *testing.T) {
	// Nothing matches the default set or the first relaxed set; the
	// second relaxed set hits.
	s := &stubScreener{name: "stub", results: [][]string{nil, nil, {"JNJ"}}}
	f := newTestFetcher(nil)
	f.screeners = []ScreenerProvider{s}

	tickers, err := f.DiscoverUniverse(context.Background(), 10)
	if err != nil {
		t.Fatalf("DiscoverUniverse failed: %v", err)
	}
	if !reflect.DeepEqual(tickers, []string{"JNJ"}) {
		t.Errorf("tickers = %v", tickers)
	}
	if len(s.seen) != 3 {
		t.Fatalf("screened %d filter sets, want 3", len(s.seen))
	}
	if !reflect.DeepEqual(s.seen[1], ScreenFilters{"idx_sp500", "fa_pe_u30"}) {
		t.Errorf("second attempt used %v", s.seen[1])
	}
	if !reflect.DeepEqual(s.seen[2], ScreenFilters{"idx_sp500"}) {
		t.Errorf("third attempt used %v", s.seen[2])
	}
}

func TestDiscoverUniverseContinuesPastErrors(t *testing.T) {
	s := &stubScreener{
		name:    "stub",
		errs:    []error{errors.New("connection refused"), nil},
		results: [][]string{nil, {"XOM"}},
	}
	f := newTestFetcher(nil)
	f.screeners = []ScreenerProvider{s}

	tickers, err := f.DiscoverUniverse(context.Background(), 10)
	if err != nil {
		t.Fatalf("DiscoverUniverse failed: %v", err)
	}
	if !reflect.DeepEqual(tickers, []string{"XOM"}) {
		t.Errorf("tickers = %v", tickers)
	}
}

func TestDiscoverUniverseEmptyEverywhere(t *testing.T) {
	s := &stubScreener{name: "stub"}
	f := newTestFetcher(nil)
	f.screeners = []ScreenerProvider{s}

	tickers, err := f.DiscoverUniverse(context.Background(), 10)
	if err != nil {
		t.Fatalf("empty screens are not an error, got %v", err)
	}
	if len(tickers) != 0 {
		t.Errorf("tickers = %v, want none", tickers)
	}
	// Default set plus the three relaxed sets, all tried.
	if len(s.seen) != 4 {
		t.Errorf("screened %d filter sets, want 4", len(s.seen))
	}
}

func TestDiscoverUniverseRetriesRateLimits(t *testing.T) {
	s := &stubScreener{
		name:    "stub",
		errs:    []error{errors.New("HTTP 429: too many requests"), nil},
		results: [][]string{nil, {"NVDA"}},
	}
	var sleeps []time.Duration
	f := newTestFetcher(&sleeps)
	f.screeners = []ScreenerProvider{s}

	tickers, err := f.DiscoverUniverse(context.Background(), 10)
	if err != nil {
		t.Fatalf("DiscoverUniverse failed: %v", err)
	}
	if !reflect.DeepEqual(tickers, []string{"NVDA"}) {
		t.Errorf("tickers = %v", tickers)
	}
	// Both calls were the same (default) filter set: the retry stayed
	// inside it rather than relaxing.
	if len(s.seen) != 2 || !reflect.DeepEqual(s.seen[0], s.seen[1]) {
		t.Errorf("retry changed the filter set: %v", s.seen)
	}
	if len(sleeps) != 1 || sleeps[0] != 2*time.Second {
		t.Errorf("backoff schedule = %v, want one 2s sleep", sleeps)
	}
}

func TestDiscoverUniverseRespectsLimit(t *testing.T) {
	s := &stubScreener{name: "stub", results: [][]string{{"A", "B", "C", "D", "E"}}}
	f := newTestFetcher(nil)
	f.screeners = []ScreenerProvider{s}

	tickers, err := f.DiscoverUniverse(context.Background(), 3)
	if err != nil {
		t.Fatalf("DiscoverUniverse failed: %v", err)
	}
	if len(tickers) != 3 {
		t.Errorf("got %d tickers, want 3", len(tickers))
	}
}
