package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"stock-analyzer/internal/types"
)

// stubProvider implements every capability with scripted results.
type stubProvider struct {
	name string

	barsErr   error
	bars      types.PriceSeries
	barsCalls int

	quoteErr   error
	quote      float64
	quoteCalls int

	metricsErr error
	metrics    types.FinancialMetrics

	newsErr error
	news    []types.NewsItem

	earningsErr error
	earnings    types.EarningsReport

	// failuresBeforeSuccess makes the first n bar calls fail with barsErr.
	failuresBeforeSuccess int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Bars(ctx context.Context, ticker string, days int) (types.PriceSeries, error) {
	s.barsCalls++
	if s.failuresBeforeSuccess > 0 && s.barsCalls <= s.failuresBeforeSuccess {
		return nil, s.barsErr
	}
	if s.failuresBeforeSuccess == 0 && s.barsErr != nil {
		return nil, s.barsErr
	}
	return s.bars, nil
}

func (s *stubProvider) Quote(ctx context.Context, ticker string) (float64, error) {
	s.quoteCalls++
	return s.quote, s.quoteErr
}

func (s *stubProvider) Fundamentals(ctx context.Context, ticker string) (types.FinancialMetrics, error) {
	return s.metrics, s.metricsErr
}

func (s *stubProvider) News(ctx context.Context, ticker string, limit int) ([]types.NewsItem, error) {
	return s.news, s.newsErr
}

func (s *stubProvider) Earnings(ctx context.Context, ticker string, years int) (types.EarningsReport, error) {
	return s.earnings, s.earningsErr
}

func testBars(n int) types.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(types.PriceSeries, n)
	for i := range series {
		c := 100 + float64(i)
		series[i] = types.Bar{Date: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return series
}

// newTestFetcher builds a fetcher with instantaneous sleeps and a
// recorded backoff schedule.
func newTestFetcher(sleeps *[]time.Duration) *Fetcher {
	clock := newFakeClock()
	f := &Fetcher{
		limiter:    newTestLimiter(0, clock),
		maxRetries: 3,
		retryBase:  2 * time.Second,
		now:        clock.now,
		sleep: func(d time.Duration) {
			if sleeps != nil {
				*sleeps = append(*sleeps, d)
			}
			clock.advance(d)
		},
	}
	return f
}

func TestIsRateLimited(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("HTTP 429: Too Many Requests"), true},
		{errors.New("yahoo: rate limit exceeded"), true},
		{errors.New("Rate Limited by upstream"), true},
		{errors.New("connection refused"), false},
		{errors.New("HTTP 500: internal server error"), false},
	}
	for _, c := range cases {
		if got := isRateLimited(c.err); got != c.want {
			t.Errorf("isRateLimited(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestWithRetryLinearBackoff(t *testing.T) {
	var sleeps []time.Duration
	f := newTestFetcher(&sleeps)

	p := &stubProvider{
		name:                  "flaky",
		barsErr:               fmt.Errorf("HTTP 429: too many requests"),
		bars:                  testBars(10),
		failuresBeforeSuccess: 2,
	}
	f.bars = []BarProvider{p}

	got, err := f.PriceHistory(context.Background(), "AAPL", 10)
	if err != nil {
		t.Fatalf("PriceHistory failed: %v", err)
	}
	if got.Source != "flaky" {
		t.Errorf("source = %q, want flaky", got.Source)
	}
	if p.barsCalls != 3 {
		t.Errorf("provider called %d times, want 3", p.barsCalls)
	}
	// Backoff grows linearly with the attempt number.
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("backoff sleeps = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("backoff %d = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	f := newTestFetcher(nil)
	p := &stubProvider{name: "throttled", quoteErr: errors.New("rate limit exceeded")}
	f.quotes = []QuoteProvider{p}

	_, err := f.CurrentPrice(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if p.quoteCalls != 3 {
		t.Errorf("provider called %d times, want 3", p.quoteCalls)
	}
	var nde *NoDataError
	if !errors.As(err, &nde) {
		t.Fatalf("error type = %T, want *NoDataError", err)
	}
	if nde.Ticker != "AAPL" || nde.Reason == "" {
		t.Errorf("NoDataError = %+v, want ticker AAPL and a reason", nde)
	}
}

func TestWithRetryNonRateLimitErrorIsImmediate(t *testing.T) {
	f := newTestFetcher(nil)
	p := &stubProvider{name: "down", quoteErr: errors.New("connection refused")}
	f.quotes = []QuoteProvider{p}

	_, err := f.CurrentPrice(context.Background(), "AAPL")
	if err == nil {
		t.Fatal("expected error")
	}
	if p.quoteCalls != 1 {
		t.Errorf("provider called %d times for a hard failure, want 1", p.quoteCalls)
	}
}

func TestPriceHistoryFallsBackToNextProvider(t *testing.T) {
	f := newTestFetcher(nil)
	primary := &stubProvider{name: "primary", barsErr: errors.New("HTTP 500: boom")}
	secondary := &stubProvider{name: "secondary", bars: testBars(30)}
	f.bars = []BarProvider{primary, secondary}

	got, err := f.PriceHistory(context.Background(), "MSFT", 30)
	if err != nil {
		t.Fatalf("PriceHistory failed: %v", err)
	}
	if got.Source != "secondary" {
		t.Errorf("source = %q, want secondary", got.Source)
	}
	if len(got.Value) != 30 {
		t.Errorf("got %d bars, want 30", len(got.Value))
	}
}

func TestPriceHistorySynthesizesFromQuote(t *testing.T) {
	f := newTestFetcher(nil)
	f.bars = []BarProvider{&stubProvider{name: "dead", barsErr: errors.New("HTTP 404: not found")}}
	f.quotes = []QuoteProvider{&stubProvider{name: "quoter", quote: 150.0}}

	got, err := f.PriceHistory(context.Background(), "AMZN", 60)
	if err != nil {
		t.Fatalf("PriceHistory failed: %v", err)
	}
	if got.Source != types.SourceSynthetic {
		t.Errorf("source = %q, want %q", got.Source, types.SourceSynthetic)
	}
	if !got.Synthetic() {
		t.Error("Synthetic() = false for synthetic series")
	}
	if len(got.Value) != 60 {
		t.Fatalf("got %d bars, want 60", len(got.Value))
	}
	last := got.Value.LastClose()
	if diff := last - 150.0; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("synthetic last close = %f, want 150", last)
	}
}

func TestPriceHistoryNoDataAtAll(t *testing.T) {
	f := newTestFetcher(nil)
	f.bars = []BarProvider{&stubProvider{name: "dead", barsErr: errors.New("HTTP 404: not found")}}
	f.quotes = []QuoteProvider{&stubProvider{name: "alsoDead", quoteErr: errors.New("no quote")}}

	_, err := f.PriceHistory(context.Background(), "ZZZZ", 60)
	var nde *NoDataError
	if !errors.As(err, &nde) {
		t.Fatalf("error type = %T, want *NoDataError", err)
	}
	if nde.Ticker != "ZZZZ" {
		t.Errorf("ticker = %q, want ZZZZ", nde.Ticker)
	}
	if nde.Reason == "" {
		t.Error("NoDataError.Reason should be populated")
	}
}

func TestFinancialsDegradeToEmpty(t *testing.T) {
	f := newTestFetcher(nil)
	f.fundamentals = []FundamentalsProvider{
		&stubProvider{name: "a", metricsErr: errors.New("HTTP 500")},
		&stubProvider{name: "b", metricsErr: errors.New("parse failure")},
	}

	got := f.Financials(context.Background(), "AAPL")
	if got.Source != "none" {
		t.Errorf("source = %q, want none", got.Source)
	}
	if got.Value.HasAny() {
		t.Errorf("metrics = %+v, want all absent", got.Value)
	}
}

func TestFinancialsFallThrough(t *testing.T) {
	f := newTestFetcher(nil)
	want := types.EmptyFinancials()
	want.PE = 28.4
	f.fundamentals = []FundamentalsProvider{
		&stubProvider{name: "a", metricsErr: errors.New("HTTP 500")},
		&stubProvider{name: "b", metrics: want},
	}

	got := f.Financials(context.Background(), "AAPL")
	if got.Source != "b" {
		t.Errorf("source = %q, want b", got.Source)
	}
	if got.Value.PE != 28.4 {
		t.Errorf("PE = %f, want 28.4", got.Value.PE)
	}
}

func TestNewsTruncatesToLimit(t *testing.T) {
	f := newTestFetcher(nil)
	items := make([]types.NewsItem, 8)
	for i := range items {
		items[i] = types.NewsItem{Title: fmt.Sprintf("headline %d", i)}
	}
	f.news = []NewsProvider{&stubProvider{name: "wire", news: items}}

	got := f.News(context.Background(), "AAPL", 5)
	if len(got.Value) != 5 {
		t.Errorf("got %d items, want 5", len(got.Value))
	}
	if got.Source != "wire" {
		t.Errorf("source = %q, want wire", got.Source)
	}
}

func TestNewsEmptyProvidersFallThrough(t *testing.T) {
	f := newTestFetcher(nil)
	f.news = []NewsProvider{
		&stubProvider{name: "empty"},
		&stubProvider{name: "full", news: []types.NewsItem{{Title: "something happened"}}},
	}

	got := f.News(context.Background(), "AAPL", 5)
	if got.Source != "full" {
		t.Errorf("source = %q, want full", got.Source)
	}
	if len(got.Value) != 1 {
		t.Errorf("got %d items, want 1", len(got.Value))
	}
}

func TestEarningsEmptyReportFallsThrough(t *testing.T) {
	f := newTestFetcher(nil)
	full := types.EarningsReport{Summary: types.CompanySummary{Name: "Apple Inc."}}
	f.earnings = []EarningsProvider{
		&stubProvider{name: "empty"},
		&stubProvider{name: "full", earnings: full},
	}

	got := f.Earnings(context.Background(), "AAPL", 1)
	if got.Source != "full" {
		t.Errorf("source = %q, want full", got.Source)
	}
	if got.Value.Summary.Name != "Apple Inc." {
		t.Errorf("summary name = %q", got.Value.Summary.Name)
	}
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	f := newTestFetcher(nil)
	p := &stubProvider{name: "slow", quote: 100}
	f.quotes = []QuoteProvider{p}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.CurrentPrice(ctx, "AAPL")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if p.quoteCalls != 0 {
		t.Errorf("provider called %d times after cancellation, want 0", p.quoteCalls)
	}
}
