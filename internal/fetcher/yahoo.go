package fetcher

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"stock-analyzer/internal/api"
	"stock-analyzer/internal/types"
)

const (
	yahooChartURL   = "https://query1.finance.yahoo.com/v8/finance/chart/%s?range=%s&interval=1d"
	yahooSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary/%s?modules=%s"
	yahooSearchURL  = "https://query1.finance.yahoo.com/v1/finance/search?q=%s&newsCount=%d&quotesCount=0"
)

// YahooProvider fetches bars, quotes, fundamentals, news and earnings
// from the Yahoo Finance JSON endpoints. Fields are extracted with
// tolerant path lookups: a missing or malformed field becomes absent
// data, not a failed call.
type YahooProvider struct {
	client *api.Client
}

// NewYahooProvider creates the provider with the given request timeout.
// Browser headers are set as client defaults; Yahoo rejects bare
// requests.
func NewYahooProvider(timeout time.Duration) *YahooProvider {
	opts := []api.ClientOption{
		api.WithTimeout(timeout),
		api.WithLogging(true),
	}
	for key, value := range api.BrowserHeaders() {
		opts = append(opts, api.WithHeader(key, value))
	}
	return &YahooProvider{client: api.NewClient(opts...)}
}

func (y *YahooProvider) Name() string { return "yahoo" }

// Bars fetches daily OHLCV history. Bars with a null close are skipped.
func (y *YahooProvider) Bars(ctx context.Context, ticker string, days int) (types.PriceSeries, error) {
	body, err := y.chart(ctx, ticker, days)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("yahoo chart: empty result for %s", ticker)
	}

	timestamps := result.Get("timestamp").Array()
	quote := result.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()

	series := make(types.PriceSeries, 0, len(timestamps))
	for i, ts := range timestamps {
		if i >= len(closes) || closes[i].Type == gjson.Null {
			continue
		}
		c := closes[i].Float()
		if c <= 0 {
			continue
		}
		bar := types.Bar{
			Date:  time.Unix(ts.Int(), 0).UTC(),
			Close: c,
		}
		if i < len(opens) {
			bar.Open = opens[i].Float()
		}
		if i < len(highs) {
			bar.High = highs[i].Float()
		}
		if i < len(lows) {
			bar.Low = lows[i].Float()
		}
		if i < len(volumes) {
			bar.Volume = volumes[i].Int()
		}
		series = append(series, bar)
	}
	return series, nil
}

// Quote returns the regular market price from the chart metadata.
func (y *YahooProvider) Quote(ctx context.Context, ticker string) (float64, error) {
	body, err := y.chart(ctx, ticker, 5)
	if err != nil {
		return 0, err
	}
	price := gjson.GetBytes(body, "chart.result.0.meta.regularMarketPrice")
	if !price.Exists() || price.Float() <= 0 {
		return 0, fmt.Errorf("yahoo quote: no market price for %s", ticker)
	}
	return price.Float(), nil
}

// Fundamentals extracts PE, PEG, PB, ROE and revenue growth. Each field is
// independently absent when the payload lacks it.
func (y *YahooProvider) Fundamentals(ctx context.Context, ticker string) (types.FinancialMetrics, error) {
	metrics := types.EmptyFinancials()

	body, err := y.summary(ctx, ticker, "summaryDetail,defaultKeyStatistics,financialData")
	if err != nil {
		return metrics, err
	}
	root := gjson.GetBytes(body, "quoteSummary.result.0")
	if !root.Exists() {
		return metrics, fmt.Errorf("yahoo summary: empty result for %s", ticker)
	}

	if pe := root.Get("summaryDetail.trailingPE.raw"); pe.Exists() {
		metrics.PE = pe.Float()
	} else if pe := root.Get("summaryDetail.forwardPE.raw"); pe.Exists() {
		metrics.PE = pe.Float()
	}
	if peg := root.Get("defaultKeyStatistics.pegRatio.raw"); peg.Exists() {
		metrics.PEG = peg.Float()
	}
	if pb := root.Get("defaultKeyStatistics.priceToBook.raw"); pb.Exists() {
		metrics.PB = pb.Float()
	}
	if roe := root.Get("financialData.returnOnEquity.raw"); roe.Exists() {
		metrics.ROE = round2(roe.Float() * 100)
	}
	if growth := root.Get("financialData.revenueGrowth.raw"); growth.Exists() {
		metrics.RevenueGrowth = round2(growth.Float() * 100)
	}
	return metrics, nil
}

// News fetches recent headlines from the search endpoint.
func (y *YahooProvider) News(ctx context.Context, ticker string, limit int) ([]types.NewsItem, error) {
	u := fmt.Sprintf(yahooSearchURL, url.QueryEscape(ticker), limit)
	resp, err := y.client.GET(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo news: %w", err)
	}

	var items []types.NewsItem
	for _, n := range gjson.GetBytes(resp.Body, "news").Array() {
		title := n.Get("title").String()
		if title == "" {
			continue
		}
		item := types.NewsItem{
			Title:     title,
			Publisher: n.Get("publisher").String(),
			Link:      n.Get("link").String(),
		}
		if ts := n.Get("providerPublishTime"); ts.Exists() {
			item.PublishedAt = time.Unix(ts.Int(), 0).UTC().Format("2006-01-02 15:04:05")
		}
		items = append(items, item)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

// Earnings fetches annual and quarterly income statements plus a
// company summary. Individual malformed rows are skipped.
func (y *YahooProvider) Earnings(ctx context.Context, ticker string, years int) (types.EarningsReport, error) {
	var report types.EarningsReport

	body, err := y.summary(ctx, ticker, "incomeStatementHistory,incomeStatementHistoryQuarterly,assetProfile,price")
	if err != nil {
		return report, err
	}
	root := gjson.GetBytes(body, "quoteSummary.result.0")
	if !root.Exists() {
		return report, fmt.Errorf("yahoo earnings: empty result for %s", ticker)
	}

	annual := root.Get("incomeStatementHistory.incomeStatementHistory").Array()
	report.Annual = parseIncomeRows(annual, "Annual", years)
	quarterly := root.Get("incomeStatementHistoryQuarterly.incomeStatementHistory").Array()
	report.Quarterly = parseIncomeRows(quarterly, "Quarterly", years*4)

	report.Summary = types.CompanySummary{
		Name:     root.Get("price.longName").String(),
		Sector:   root.Get("assetProfile.sector").String(),
		Industry: root.Get("assetProfile.industry").String(),
		Currency: root.Get("price.currency").String(),
	}
	if cap := root.Get("price.marketCap.raw"); cap.Exists() {
		report.Summary.MarketCap = cap.Float()
	}
	if report.Summary.Name == "" {
		report.Summary.Name = ticker
	}
	return report, nil
}

func parseIncomeRows(rows []gjson.Result, reportType string, limit int) []types.EarningsRow {
	out := make([]types.EarningsRow, 0, limit)
	for _, r := range rows {
		if len(out) >= limit {
			break
		}
		date := r.Get("endDate.fmt").String()
		if date == "" {
			continue
		}
		row := types.EarningsRow{
			ReportDate:      date,
			ReportType:      reportType,
			Revenue:         rawOrNaN(r, "totalRevenue"),
			NetIncome:       rawOrNaN(r, "netIncome"),
			GrossProfit:     rawOrNaN(r, "grossProfit"),
			OperatingIncome: rawOrNaN(r, "operatingIncome"),
			GrossMargin:     math.NaN(),
			OperatingMargin: math.NaN(),
		}
		if reportType == "Quarterly" {
			row.ReportType = quarterOf(date)
		}
		if types.Valid(row.Revenue) && row.Revenue != 0 {
			if types.Valid(row.GrossProfit) {
				row.GrossMargin = round2(row.GrossProfit / row.Revenue * 100)
			}
			if types.Valid(row.OperatingIncome) {
				row.OperatingMargin = round2(row.OperatingIncome / row.Revenue * 100)
			}
		}
		out = append(out, row)
	}
	return out
}

// quarterOf maps a report end date to its calendar quarter label.
func quarterOf(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "Quarterly"
	}
	return fmt.Sprintf("Q%d", (int(t.Month())-1)/3+1)
}

func rawOrNaN(r gjson.Result, field string) float64 {
	if v := r.Get(field + ".raw"); v.Exists() {
		return v.Float()
	}
	return math.NaN()
}

func (y *YahooProvider) chart(ctx context.Context, ticker string, days int) ([]byte, error) {
	u := fmt.Sprintf(yahooChartURL, url.PathEscape(ticker), rangeFor(days))
	resp, err := y.client.GET(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart: %w", err)
	}
	if errDesc := gjson.GetBytes(resp.Body, "chart.error.description"); errDesc.Exists() && errDesc.String() != "" {
		return nil, fmt.Errorf("yahoo chart: %s", errDesc.String())
	}
	return resp.Body, nil
}

func (y *YahooProvider) summary(ctx context.Context, ticker, modules string) ([]byte, error) {
	u := fmt.Sprintf(yahooSummaryURL, url.PathEscape(ticker), modules)
	resp, err := y.client.GET(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo summary: %w", err)
	}
	return resp.Body, nil
}

// rangeFor maps a requested day count to the nearest Yahoo range token.
func rangeFor(days int) string {
	switch {
	case days <= 5:
		return "5d"
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	default:
		return "5y"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
