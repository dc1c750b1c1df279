package fetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stock-analyzer/internal/logger"
	"stock-analyzer/internal/store"
	"stock-analyzer/internal/types"
)

// Fetcher coordinates the data providers. Every outbound call goes
// through the shared rate limiter; rate-limit failures are retried with
// a linear backoff, then the next provider is tried. Price history
// falls back to synthetic bars when every live source is down.
type Fetcher struct {
	limiter *RateLimiter

	bars         []BarProvider
	quotes       []QuoteProvider
	fundamentals []FundamentalsProvider
	news         []NewsProvider
	earnings     []EarningsProvider
	screeners    []ScreenerProvider

	maxRetries int
	retryBase  time.Duration
	sleep      func(time.Duration)
	now        func() time.Time
}

// New builds a Fetcher with the default provider chain: Yahoo first,
// Finviz second for everything Finviz can serve.
func New(cfg store.FetchConfig) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	yahoo := NewYahooProvider(timeout)
	finviz := NewFinvizProvider(timeout)

	return &Fetcher{
		limiter:      NewRateLimiter(time.Duration(cfg.RequestDelayMS) * time.Millisecond),
		bars:         []BarProvider{yahoo},
		quotes:       []QuoteProvider{yahoo, finviz},
		fundamentals: []FundamentalsProvider{yahoo, finviz},
		news:         []NewsProvider{yahoo, finviz},
		earnings:     []EarningsProvider{yahoo, finviz},
		screeners:    []ScreenerProvider{finviz},
		maxRetries:   cfg.MaxRetries,
		retryBase:    time.Duration(cfg.RetryBaseMS) * time.Millisecond,
		sleep:        time.Sleep,
		now:          time.Now,
	}
}

// NewWithProviders builds a Fetcher over explicit provider chains.
// Chains are tried in order; a nil chain disables that capability.
func NewWithProviders(cfg store.FetchConfig, bars []BarProvider, quotes []QuoteProvider,
	fundamentals []FundamentalsProvider, news []NewsProvider, earnings []EarningsProvider) *Fetcher {
	return &Fetcher{
		limiter:      NewRateLimiter(time.Duration(cfg.RequestDelayMS) * time.Millisecond),
		bars:         bars,
		quotes:       quotes,
		fundamentals: fundamentals,
		news:         news,
		earnings:     earnings,
		maxRetries:   cfg.MaxRetries,
		retryBase:    time.Duration(cfg.RetryBaseMS) * time.Millisecond,
		sleep:        time.Sleep,
		now:          time.Now,
	}
}

// PriceHistory returns daily bars for the ticker. Live bar providers
// are tried first; if none delivers, quote providers supply the current
// price and a synthetic series is generated around it. With no price at
// all the result is a *NoDataError.
func (f *Fetcher) PriceHistory(ctx context.Context, ticker string, days int) (types.Provenanced[types.PriceSeries], error) {
	var lastErr error
	for _, p := range f.bars {
		series, err := f.barsFrom(ctx, p, ticker, days)
		if err != nil {
			lastErr = err
			logger.Warn(ctx, "price history provider failed",
				"ticker", ticker, "provider", p.Name(), "error", err)
			continue
		}
		logger.Provenance(ctx, ticker, "price_history", p.Name())
		return types.Provenanced[types.PriceSeries]{Value: series, Source: p.Name()}, nil
	}

	price, src, err := f.currentPrice(ctx, ticker)
	if err != nil {
		reason := "all providers unavailable"
		if lastErr != nil {
			reason = lastErr.Error()
		}
		return types.Provenanced[types.PriceSeries]{}, &NoDataError{Ticker: ticker, Reason: reason}
	}

	series := SyntheticSeries(ticker, price, days, f.now())
	logger.Warn(ctx, "falling back to synthetic price history",
		"ticker", ticker, "price_source", src, "days", days)
	logger.Provenance(ctx, ticker, "price_history", types.SourceSynthetic)
	return types.Provenanced[types.PriceSeries]{Value: series, Source: types.SourceSynthetic}, nil
}

// CurrentPrice returns the latest traded price from the first quote
// provider that answers.
func (f *Fetcher) CurrentPrice(ctx context.Context, ticker string) (types.Provenanced[float64], error) {
	price, src, err := f.currentPrice(ctx, ticker)
	if err != nil {
		return types.Provenanced[float64]{}, &NoDataError{Ticker: ticker, Reason: err.Error()}
	}
	return types.Provenanced[float64]{Value: price, Source: src}, nil
}

// Financials returns valuation metrics. When every provider fails the
// result is an empty record with source "none" and no error; analysis
// degrades instead of aborting.
func (f *Fetcher) Financials(ctx context.Context, ticker string) types.Provenanced[types.FinancialMetrics] {
	for _, p := range f.fundamentals {
		metrics, err := f.fundamentalsFrom(ctx, p, ticker)
		if err != nil {
			logger.Warn(ctx, "fundamentals provider failed",
				"ticker", ticker, "provider", p.Name(), "error", err)
			continue
		}
		logger.Provenance(ctx, ticker, "fundamentals", p.Name())
		return types.Provenanced[types.FinancialMetrics]{Value: metrics, Source: p.Name()}
	}
	return types.Provenanced[types.FinancialMetrics]{Value: types.EmptyFinancials(), Source: "none"}
}

// News returns up to limit headlines. An empty slice with source "none"
// means no provider had any.
func (f *Fetcher) News(ctx context.Context, ticker string, limit int) types.Provenanced[[]types.NewsItem] {
	for _, p := range f.news {
		items, err := f.newsFrom(ctx, p, ticker, limit)
		if err != nil || len(items) == 0 {
			if err != nil {
				logger.Warn(ctx, "news provider failed",
					"ticker", ticker, "provider", p.Name(), "error", err)
			}
			continue
		}
		if len(items) > limit {
			items = items[:limit]
		}
		logger.Provenance(ctx, ticker, "news", p.Name())
		return types.Provenanced[[]types.NewsItem]{Value: items, Source: p.Name()}
	}
	return types.Provenanced[[]types.NewsItem]{Value: []types.NewsItem{}, Source: "none"}
}

// Earnings returns income-statement history with the company summary.
// Failure of every provider yields an empty report with source "none".
func (f *Fetcher) Earnings(ctx context.Context, ticker string, years int) types.Provenanced[types.EarningsReport] {
	for _, p := range f.earnings {
		report, err := f.earningsFrom(ctx, p, ticker, years)
		if err != nil || report.Empty() {
			if err != nil {
				logger.Warn(ctx, "earnings provider failed",
					"ticker", ticker, "provider", p.Name(), "error", err)
			}
			continue
		}
		logger.Provenance(ctx, ticker, "earnings", p.Name())
		return types.Provenanced[types.EarningsReport]{Value: report, Source: p.Name()}
	}
	return types.Provenanced[types.EarningsReport]{Source: "none"}
}

func (f *Fetcher) currentPrice(ctx context.Context, ticker string) (float64, string, error) {
	var lastErr error
	for _, p := range f.quotes {
		price, err := f.quoteFrom(ctx, p, ticker)
		if err != nil {
			lastErr = err
			logger.Warn(ctx, "quote provider failed",
				"ticker", ticker, "provider", p.Name(), "error", err)
			continue
		}
		return price, p.Name(), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no quote providers configured")
	}
	return 0, "", lastErr
}

func (f *Fetcher) barsFrom(ctx context.Context, p BarProvider, ticker string, days int) (types.PriceSeries, error) {
	var series types.PriceSeries
	err := f.withRetry(ctx, p.Name(), func() error {
		var err error
		series, err = p.Bars(ctx, ticker, days)
		if err != nil {
			return err
		}
		if len(series) == 0 {
			return fmt.Errorf("%s: empty series for %s", p.Name(), ticker)
		}
		return nil
	})
	return series, err
}

func (f *Fetcher) quoteFrom(ctx context.Context, p QuoteProvider, ticker string) (float64, error) {
	var price float64
	err := f.withRetry(ctx, p.Name(), func() error {
		var err error
		price, err = p.Quote(ctx, ticker)
		return err
	})
	return price, err
}

func (f *Fetcher) fundamentalsFrom(ctx context.Context, p FundamentalsProvider, ticker string) (types.FinancialMetrics, error) {
	var metrics types.FinancialMetrics
	err := f.withRetry(ctx, p.Name(), func() error {
		var err error
		metrics, err = p.Fundamentals(ctx, ticker)
		return err
	})
	return metrics, err
}

func (f *Fetcher) newsFrom(ctx context.Context, p NewsProvider, ticker string, limit int) ([]types.NewsItem, error) {
	var items []types.NewsItem
	err := f.withRetry(ctx, p.Name(), func() error {
		var err error
		items, err = p.News(ctx, ticker, limit)
		return err
	})
	return items, err
}

func (f *Fetcher) earningsFrom(ctx context.Context, p EarningsProvider, ticker string, years int) (types.EarningsReport, error) {
	var report types.EarningsReport
	err := f.withRetry(ctx, p.Name(), func() error {
		var err error
		report, err = p.Earnings(ctx, ticker, years)
		return err
	})
	return report, err
}

// withRetry runs call under the rate limiter, retrying rate-limit
// rejections with a linearly growing backoff. Any other error is
// returned immediately.
func (f *Fetcher) withRetry(ctx context.Context, provider string, call func() error) error {
	var err error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		f.limiter.Wait()
		err = call()
		if err == nil {
			return nil
		}
		if !isRateLimited(err) {
			return err
		}
		if attempt < f.maxRetries {
			delay := time.Duration(attempt) * f.retryBase
			logger.Warn(ctx, "rate limited, backing off",
				"provider", provider, "attempt", attempt, "delay", delay.String())
			f.sleep(delay)
		}
	}
	return fmt.Errorf("rate limited after %d attempts: %w", f.maxRetries, err)
}

// isRateLimited classifies transient throttling errors by message.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "too many requests")
}
