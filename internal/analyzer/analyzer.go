package analyzer

import (
	"context"
	"errors"
	"time"

	"stock-analyzer/internal/fetcher"
	"stock-analyzer/internal/indicator"
	"stock-analyzer/internal/logger"
	"stock-analyzer/internal/sentiment"
	"stock-analyzer/internal/signal"
	"stock-analyzer/internal/store"
	"stock-analyzer/internal/types"
)

// Report is the full per-ticker analysis output.
type Report struct {
	Ticker     string `json:"ticker"`
	AnalyzedAt string `json:"analysis_date"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`

	DataSource   string             `json:"data_source,omitempty"`
	CurrentPrice float64            `json:"current_price,omitempty"`
	Indicators   types.IndicatorSet `json:"technical_indicators"`
	Signals      signal.Set         `json:"signals"`

	Financials       types.FinancialMetrics `json:"financial_metrics"`
	FinancialsSource string                 `json:"financial_metrics_source,omitempty"`

	Earnings       types.EarningsReport `json:"earnings"`
	EarningsSource string               `json:"earnings_source,omitempty"`

	News       []types.NewsItem       `json:"news"`
	NewsSource string                 `json:"news_source,omitempty"`
	Sentiment  types.SentimentSummary `json:"sentiment"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Analyzer runs the full pipeline for one ticker: price history,
// indicators, signal synthesis, fundamentals, earnings, news and
// sentiment. Sections degrade independently; only a missing price
// series fails the whole report.
type Analyzer struct {
	fetcher *fetcher.Fetcher
	scorer  sentiment.Scorer
	cfg     *store.Config
}

// New wires the analyzer from its configuration.
func New(cfg *store.Config) *Analyzer {
	return &Analyzer{
		fetcher: fetcher.New(cfg.Fetch),
		scorer:  sentiment.NewLexiconScorer(),
		cfg:     cfg,
	}
}

// NewWithDeps injects the fetcher and scorer, for tests and the
// scanner which shares one fetcher across a universe.
func NewWithDeps(f *fetcher.Fetcher, s sentiment.Scorer, cfg *store.Config) *Analyzer {
	return &Analyzer{fetcher: f, scorer: s, cfg: cfg}
}

// Analyze produces the report for one ticker. The error return is
// reserved for context cancellation; data-availability failures are
// reported in Report.Status and Report.Reason.
func (a *Analyzer) Analyze(ctx context.Context, ticker string) (Report, error) {
	timer := logger.StartOperation(ctx, "analyze")
	ctx = timer.Context()

	report := Report{
		Ticker:     ticker,
		AnalyzedAt: time.Now().UTC().Format("2006-01-02 15:04:05"),
		Status:     StatusSuccess,
		Financials: types.EmptyFinancials(),
		News:       []types.NewsItem{},
	}

	history, err := a.fetcher.PriceHistory(ctx, ticker, a.cfg.Analysis.HistoryDays)
	if err != nil {
		var nde *fetcher.NoDataError
		if errors.As(err, &nde) {
			logger.ErrorWithErr(ctx, "no price data, reporting failure", err, "ticker", ticker)
			report.Status = StatusError
			report.Reason = nde.Reason
			report.Indicators = indicator.Compute(nil, a.cfg.Indicators)
			report.Signals = signal.Synthesize(report.Indicators)
			timer.EndWithError(err)
			return report, nil
		}
		timer.EndWithError(err)
		return report, err
	}
	report.DataSource = history.Source

	report.Indicators = indicator.Compute(history.Value, a.cfg.Indicators)
	report.CurrentPrice = report.Indicators.Close
	report.Signals = signal.Synthesize(report.Indicators)
	logger.Signal(ctx, ticker, string(report.Signals.Overall), report.Signals.Score, signalNames(report.Signals.Active))

	fin := a.fetcher.Financials(ctx, ticker)
	report.Financials = fin.Value
	report.FinancialsSource = fin.Source

	earnings := a.fetcher.Earnings(ctx, ticker, a.cfg.Analysis.EarningsYears)
	report.Earnings = earnings.Value
	report.EarningsSource = earnings.Source

	news := a.fetcher.News(ctx, ticker, a.cfg.Analysis.NewsLimit)
	report.News = news.Value
	report.NewsSource = news.Source

	headlines := make([]types.NewsItem, len(report.News))
	copy(headlines, report.News)
	report.Sentiment = sentiment.Aggregate(ctx, a.scorer, headlines)

	timer.End()
	return report, nil
}

func signalNames(signals []types.Signal) []string {
	names := make([]string, len(signals))
	for i, s := range signals {
		names[i] = string(s)
	}
	return names
}
