package fetcher

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"stock-analyzer/internal/types"
)

const finvizQuoteURL = "https://finviz.com/quote.ashx?t=%s"

// FinvizProvider scrapes the Finviz quote page for fundamentals, the
// current price, headlines and a company summary. It is the secondary
// source behind Yahoo; it cannot serve historical bars.
type FinvizProvider struct {
	timeout time.Duration
}

// NewFinvizProvider creates the provider with the given scrape timeout.
func NewFinvizProvider(timeout time.Duration) *FinvizProvider {
	return &FinvizProvider{timeout: timeout}
}

func (f *FinvizProvider) Name() string { return "finviz" }

// Quote returns the current price from the fundamentals snapshot table.
func (f *FinvizProvider) Quote(ctx context.Context, ticker string) (float64, error) {
	snapshot, err := f.scrapeSnapshot(ctx, ticker)
	if err != nil {
		return 0, err
	}
	price := parseFloat(snapshot["Price"])
	if !types.Valid(price) || price <= 0 {
		return 0, fmt.Errorf("finviz: no price for %s", ticker)
	}
	return price, nil
}

// Fundamentals extracts PE, PEG, PB, ROE and quarter-over-quarter sales
// growth from the snapshot table. Unparsable cells become absent fields.
func (f *FinvizProvider) Fundamentals(ctx context.Context, ticker string) (types.FinancialMetrics, error) {
	metrics := types.EmptyFinancials()
	snapshot, err := f.scrapeSnapshot(ctx, ticker)
	if err != nil {
		return metrics, err
	}
	metrics.PE = parseFloat(snapshot["P/E"])
	metrics.PEG = parseFloat(snapshot["PEG"])
	metrics.PB = parseFloat(snapshot["P/B"])
	metrics.ROE = parsePercent(snapshot["ROE"])
	metrics.RevenueGrowth = parsePercent(snapshot["Sales Q/Q"])
	if !metrics.HasAny() {
		return metrics, fmt.Errorf("finviz: no fundamentals for %s", ticker)
	}
	return metrics, nil
}

// News scrapes the headline table on the quote page.
func (f *FinvizProvider) News(ctx context.Context, ticker string, limit int) ([]types.NewsItem, error) {
	var items []types.NewsItem

	c := f.collector()
	c.OnHTML("table#news-table tr", func(e *colly.HTMLElement) {
		if len(items) >= limit {
			return
		}
		title := strings.TrimSpace(e.ChildText("a"))
		if title == "" {
			return
		}
		items = append(items, types.NewsItem{
			Title:       title,
			Publisher:   strings.TrimSpace(e.ChildText("span")),
			Link:        e.ChildAttr("a", "href"),
			PublishedAt: strings.TrimSpace(e.ChildText("td:first-child")),
		})
	})

	if err := c.Visit(fmt.Sprintf(finvizQuoteURL, strings.ToUpper(ticker))); err != nil {
		return nil, fmt.Errorf("finviz news: %w", err)
	}
	c.Wait()
	return items, nil
}

// Earnings serves the company summary only; Finviz has no full income
// statements. Used as the last-resort fallback so a report still names
// the company.
func (f *FinvizProvider) Earnings(ctx context.Context, ticker string, years int) (types.EarningsReport, error) {
	var report types.EarningsReport
	snapshot, err := f.scrapeSnapshot(ctx, ticker)
	if err != nil {
		return report, err
	}
	report.Summary = types.CompanySummary{
		Name:      snapshot["Company"],
		Sector:    snapshot["Sector"],
		Industry:  snapshot["Industry"],
		MarketCap: parseMarketCap(snapshot["Market Cap"]),
		Currency:  "USD",
	}
	if report.Summary.Name == "" {
		return report, fmt.Errorf("finviz: no company summary for %s", ticker)
	}
	return report, nil
}

// scrapeSnapshot collects the key/value snapshot table plus the company
// header into one map.
func (f *FinvizProvider) scrapeSnapshot(ctx context.Context, ticker string) (map[string]string, error) {
	snapshot := make(map[string]string)

	c := f.collector()
	c.OnHTML("table.snapshot-table2", func(e *colly.HTMLElement) {
		var cells []string
		e.DOM.Find("td").Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(td.Text()))
		})
		// Cells alternate label, value across the table.
		for i := 0; i+1 < len(cells); i += 2 {
			if cells[i] != "" {
				snapshot[cells[i]] = cells[i+1]
			}
		}
	})
	c.OnHTML("div.quote-header", func(e *colly.HTMLElement) {
		if name := strings.TrimSpace(e.ChildText("h2 a, h1")); name != "" {
			snapshot["Company"] = name
		}
		links := e.DOM.Find("div.quote-links a")
		if links.Length() >= 2 {
			snapshot["Sector"] = strings.TrimSpace(links.Eq(0).Text())
			snapshot["Industry"] = strings.TrimSpace(links.Eq(1).Text())
		}
	})

	if err := c.Visit(fmt.Sprintf(finvizQuoteURL, strings.ToUpper(ticker))); err != nil {
		return nil, fmt.Errorf("finviz: %w", err)
	}
	c.Wait()

	if len(snapshot) == 0 {
		return nil, fmt.Errorf("finviz: empty snapshot for %s", ticker)
	}
	return snapshot, nil
}

func (f *FinvizProvider) collector() *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains("finviz.com", "www.finviz.com"),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(f.timeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})
	return c
}

// parseFloat parses a snapshot cell; "-" and malformed values become NaN.
func parseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func parsePercent(s string) float64 {
	return parseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

// parseMarketCap expands Finviz suffixes (e.g. "2.95T", "850.12B").
func parseMarketCap(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return math.NaN()
	}
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "T"):
		mult, s = 1e12, strings.TrimSuffix(s, "T")
	case strings.HasSuffix(s, "B"):
		mult, s = 1e9, strings.TrimSuffix(s, "B")
	case strings.HasSuffix(s, "M"):
		mult, s = 1e6, strings.TrimSuffix(s, "M")
	}
	v := parseFloat(s)
	if !types.Valid(v) {
		return math.NaN()
	}
	return v * mult
}
