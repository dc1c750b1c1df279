package fetcher

import (
	"context"
	"fmt"

	"stock-analyzer/internal/types"
)

// Providers expose one capability each; a concrete upstream client
// implements whichever subset it can serve. The fetcher tries the
// providers declared for a request kind strictly in order and takes the
// first non-empty result.

// BarProvider serves historical OHLCV bars.
type BarProvider interface {
	Name() string
	Bars(ctx context.Context, ticker string, days int) (types.PriceSeries, error)
}

// QuoteProvider serves the current price only.
type QuoteProvider interface {
	Name() string
	Quote(ctx context.Context, ticker string) (float64, error)
}

// FundamentalsProvider serves valuation metrics.
type FundamentalsProvider interface {
	Name() string
	Fundamentals(ctx context.Context, ticker string) (types.FinancialMetrics, error)
}

// NewsProvider serves recent headlines.
type NewsProvider interface {
	Name() string
	News(ctx context.Context, ticker string, limit int) ([]types.NewsItem, error)
}

// EarningsProvider serves income-statement history.
type EarningsProvider interface {
	Name() string
	Earnings(ctx context.Context, ticker string, years int) (types.EarningsReport, error)
}

// NoDataError is the terminal failure: no provider and no synthesis path
// produced usable data for the ticker. It is returned as a value, never
// panicked.
type NoDataError struct {
	Ticker string
	Reason string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data available for %s: %s", e.Ticker, e.Reason)
}
