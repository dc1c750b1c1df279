package types

import (
	"math"
	"time"
)

// Bar is one OHLCV trading period.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is an ordered sequence of bars, ascending by date, no
// duplicate dates. An empty series is a valid value meaning "no data".
type PriceSeries []Bar

// Closes returns the close prices of the series in order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent close, or NaN for an empty series.
func (s PriceSeries) LastClose() float64 {
	if len(s) == 0 {
		return math.NaN()
	}
	return s[len(s)-1].Close
}

// IndicatorSet is a snapshot of indicator values at the last bar of a
// series, plus the previous bar's values for crossover detection.
// Absent values are NaN.
type IndicatorSet struct {
	Close     float64 `json:"current_price"`
	PrevClose float64 `json:"-"`

	RSI float64 `json:"rsi"`

	MACD           float64 `json:"macd"`
	MACDSignal     float64 `json:"macd_signal"`
	MACDHist       float64 `json:"macd_histogram"`
	PrevMACD       float64 `json:"-"`
	PrevMACDSignal float64 `json:"-"`

	BBUpper  float64 `json:"bb_upper"`
	BBMiddle float64 `json:"bb_middle"`
	BBLower  float64 `json:"bb_lower"`
	BBWidth  float64 `json:"bb_width"`

	SMAShort     float64 `json:"sma_50"`
	SMALong      float64 `json:"sma_200"`
	PrevSMAShort float64 `json:"-"`
	PrevSMALong  float64 `json:"-"`
}

// Valid reports whether an indicator value is defined.
func Valid(f float64) bool {
	return !math.IsNaN(f)
}

// Signal is a discrete per-indicator state.
type Signal string

const (
	SignalRSIOverbought Signal = "RSI_Overbought"
	SignalRSIOversold   Signal = "RSI_Oversold"
	SignalRSINeutral    Signal = "RSI_Neutral"

	SignalGoldenCross Signal = "Golden_Cross"
	SignalDeathCross  Signal = "Death_Cross"

	SignalMACDBullish Signal = "MACD_Bullish"
	SignalMACDBearish Signal = "MACD_Bearish"

	SignalBBUpperBreak Signal = "BB_Upper_Break"
	SignalBBLowerBreak Signal = "BB_Lower_Break"
	SignalBBSqueeze    Signal = "BB_Squeeze"

	SignalNeutral Signal = "Neutral"
)

// Recommendation is the five-level ordinal trading recommendation.
type Recommendation string

const (
	StrongSell Recommendation = "Strong_Sell"
	Sell       Recommendation = "Sell"
	Neutral    Recommendation = "Neutral"
	Buy        Recommendation = "Buy"
	StrongBuy  Recommendation = "Strong_Buy"
)

// Rank orders recommendations from most bearish (0) to most bullish (4).
func (r Recommendation) Rank() int {
	switch r {
	case StrongSell:
		return 0
	case Sell:
		return 1
	case Buy:
		return 3
	case StrongBuy:
		return 4
	default:
		return 2
	}
}

// FinancialMetrics holds key valuation fields. Each field is
// independently absent (NaN) when the upstream payload lacks it.
type FinancialMetrics struct {
	PE            float64 `json:"pe"`
	PEG           float64 `json:"peg"`
	PB            float64 `json:"pb"`
	ROE           float64 `json:"roe"`
	RevenueGrowth float64 `json:"revenue_growth"`
}

// EmptyFinancials returns a metrics record with every field absent.
func EmptyFinancials() FinancialMetrics {
	nan := math.NaN()
	return FinancialMetrics{PE: nan, PEG: nan, PB: nan, ROE: nan, RevenueGrowth: nan}
}

// HasAny reports whether at least one field is present.
func (m FinancialMetrics) HasAny() bool {
	return Valid(m.PE) || Valid(m.PEG) || Valid(m.PB) || Valid(m.ROE) || Valid(m.RevenueGrowth)
}

// NewsItem is one headline with display metadata. Only Title feeds
// sentiment scoring.
type NewsItem struct {
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	Link        string `json:"link"`
	PublishedAt string `json:"published"`
}

// SentimentLevel is a discrete polarity bucket.
type SentimentLevel string

const (
	VeryPositive     SentimentLevel = "Very_Positive"
	Positive         SentimentLevel = "Positive"
	NeutralSentiment SentimentLevel = "Neutral"
	Negative         SentimentLevel = "Negative"
	VeryNegative     SentimentLevel = "Very_Negative"
)

// SentimentScore is the per-headline scoring result.
type SentimentScore struct {
	Text         string         `json:"text"`
	Polarity     float64        `json:"polarity"`
	Subjectivity float64        `json:"subjectivity"`
	Level        SentimentLevel `json:"sentiment_level"`
}

// SentimentSummary aggregates a batch of headline scores.
type SentimentSummary struct {
	Items               []SentimentScore       `json:"results"`
	AveragePolarity     float64                `json:"average_polarity"`
	AverageSubjectivity float64                `json:"average_subjectivity"`
	Distribution        map[SentimentLevel]int `json:"sentiment_distribution"`
	Overall             SentimentLevel         `json:"overall_sentiment"`
}

// SourceSynthetic marks data produced by the synthetic generator rather
// than a real upstream provider.
const SourceSynthetic = "synthetic"

// Provenanced wraps a fetched value with the name of the provider that
// produced it, or SourceSynthetic for substituted data.
type Provenanced[T any] struct {
	Value  T      `json:"value"`
	Source string `json:"source"`
}

// Synthetic reports whether the value came from the synthetic generator.
func (p Provenanced[T]) Synthetic() bool {
	return p.Source == SourceSynthetic
}

// EarningsRow is one income-statement period.
type EarningsRow struct {
	ReportDate      string  `json:"report_date"`
	ReportType      string  `json:"report_type"`
	Revenue         float64 `json:"revenue"`
	NetIncome       float64 `json:"net_income"`
	GrossProfit     float64 `json:"gross_profit"`
	OperatingIncome float64 `json:"operating_income"`
	GrossMargin     float64 `json:"gross_margin"`
	OperatingMargin float64 `json:"operating_margin"`
}

// CompanySummary describes the company behind a ticker.
type CompanySummary struct {
	Name      string  `json:"company_name"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`
	MarketCap float64 `json:"market_cap"`
	Currency  string  `json:"currency"`
}

// EarningsReport bundles annual and quarterly income-statement rows
// with a company summary.
type EarningsReport struct {
	Annual    []EarningsRow  `json:"annual"`
	Quarterly []EarningsRow  `json:"quarterly"`
	Summary   CompanySummary `json:"summary"`
}

// Empty reports whether the report carries no usable data at all.
func (r EarningsReport) Empty() bool {
	return len(r.Annual) == 0 && len(r.Quarterly) == 0 && r.Summary.Name == ""
}
