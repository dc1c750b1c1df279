package fetcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/gocolly/colly/v2"

	"stock-analyzer/internal/logger"
)

const finvizScreenerURL = "https://finviz.com/screener.ashx?v=111&f=%s"

// ScreenFilters is one finviz screener filter set, expressed as the
// site's URL filter tokens.
type ScreenFilters []string

// DefaultScreenFilters selects S&P 500 members that look undervalued
// and in an uptrend: PE under 25, PEG under 1, price above the 20-day
// SMA.
func DefaultScreenFilters() ScreenFilters {
	return ScreenFilters{"idx_sp500", "fa_pe_u25", "fa_peg_u1", "ta_sma20_pa"}
}

// RelaxedScreenFilterSets is the fallback chain tried in order when a
// stricter set returns nothing: loosen the PE bound, then index
// membership only, then any large cap.
func RelaxedScreenFilterSets() []ScreenFilters {
	return []ScreenFilters{
		{"idx_sp500", "fa_pe_u30"},
		{"idx_sp500"},
		{"cap_large"},
	}
}

func screenerURL(filters ScreenFilters) string {
	return fmt.Sprintf(finvizScreenerURL, strings.Join(filters, ","))
}

// ScreenerProvider discovers candidate tickers matching a filter set.
type ScreenerProvider interface {
	Name() string
	Screen(ctx context.Context, filters ScreenFilters, limit int) ([]string, error)
}

// Screen scrapes the screener overview page and returns the matching
// ticker symbols, first page only.
func (f *FinvizProvider) Screen(ctx context.Context, filters ScreenFilters, limit int) ([]string, error) {
	var tickers []string

	c := f.collector()
	c.OnHTML("a.screener-link-primary", func(e *colly.HTMLElement) {
		if len(tickers) >= limit {
			return
		}
		ticker := strings.ToUpper(strings.TrimSpace(e.Text))
		if ticker == "" {
			return
		}
		tickers = append(tickers, ticker)
	})

	if err := c.Visit(screenerURL(filters)); err != nil {
		return nil, fmt.Errorf("finviz screener: %w", err)
	}
	c.Wait()
	return tickers, nil
}

// DiscoverUniverse screens the market for candidate tickers. The
// default filter set is tried first; when it errors or matches nothing
// the relaxed sets are tried in order. An empty result with no error
// means every filter set came back empty.
func (f *Fetcher) DiscoverUniverse(ctx context.Context, limit int) ([]string, error) {
	sets := append([]ScreenFilters{DefaultScreenFilters()}, RelaxedScreenFilterSets()...)

	var lastErr error
	for i, filters := range sets {
		for _, p := range f.screeners {
			tickers, err := f.screenFrom(ctx, p, filters, limit)
			if err != nil {
				lastErr = err
				logger.Warn(ctx, "screener failed",
					"provider", p.Name(), "filters", strings.Join(filters, ","), "error", err)
				continue
			}
			if len(tickers) == 0 {
				logger.Info(ctx, "screener matched nothing, relaxing filters",
					"provider", p.Name(), "filters", strings.Join(filters, ","))
				continue
			}
			logger.Info(ctx, "universe discovered",
				"provider", p.Name(), "filter_set", i, "candidates", len(tickers))
			return tickers, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

func (f *Fetcher) screenFrom(ctx context.Context, p ScreenerProvider, filters ScreenFilters, limit int) ([]string, error) {
	var tickers []string
	err := f.withRetry(ctx, p.Name(), func() error {
		var err error
		tickers, err = p.Screen(ctx, filters, limit)
		return err
	})
	return tickers, err
}
