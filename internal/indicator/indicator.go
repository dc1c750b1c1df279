package indicator

import (
	"math"

	"stock-analyzer/internal/ta"
	"stock-analyzer/internal/types"
)

// Config holds the indicator windows. Zero values fall back to the
// standard periods.
type Config struct {
	RSIPeriod  int     `yaml:"rsi_period"`
	MACDFast   int     `yaml:"macd_fast"`
	MACDSlow   int     `yaml:"macd_slow"`
	MACDSignal int     `yaml:"macd_signal"`
	BBWindow   int     `yaml:"bb_window"`
	BBStdDev   float64 `yaml:"bb_stddev"`
	SMAShort   int     `yaml:"sma_short"`
	SMALong    int     `yaml:"sma_long"`
}

// DefaultConfig returns the standard indicator periods.
func DefaultConfig() Config {
	return Config{
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		BBWindow:   20,
		BBStdDev:   2,
		SMAShort:   50,
		SMALong:    200,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RSIPeriod <= 0 {
		c.RSIPeriod = d.RSIPeriod
	}
	if c.MACDFast <= 0 {
		c.MACDFast = d.MACDFast
	}
	if c.MACDSlow <= 0 {
		c.MACDSlow = d.MACDSlow
	}
	if c.MACDSignal <= 0 {
		c.MACDSignal = d.MACDSignal
	}
	if c.BBWindow <= 0 {
		c.BBWindow = d.BBWindow
	}
	if c.BBStdDev <= 0 {
		c.BBStdDev = d.BBStdDev
	}
	if c.SMAShort <= 0 {
		c.SMAShort = d.SMAShort
	}
	if c.SMALong <= 0 {
		c.SMALong = d.SMALong
	}
	return c
}

// Compute evaluates RSI, MACD, Bollinger Bands and the two SMAs at the
// last bar of the series. It never fails: an empty series yields a set
// with every field NaN. Indicators whose lookback exceeds the series
// length stay NaN individually.
//
// With fewer than 2 bars the "previous" value falls back to the current
// one, which suppresses crossover detection on the first observable
// sample.
func Compute(series types.PriceSeries, cfg Config) types.IndicatorSet {
	set := emptySet()
	closes := series.Closes()
	if len(closes) == 0 {
		return set
	}
	cfg = cfg.withDefaults()

	last := len(closes) - 1
	prev := last
	if len(closes) > 1 {
		prev = last - 1
	}

	set.Close = closes[last]
	set.PrevClose = closes[prev]

	rsi := ta.RSISeries(closes, cfg.RSIPeriod)
	set.RSI = rsi[last]

	macd, sig, hist := ta.MACDSeries(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	set.MACD = macd[last]
	set.MACDSignal = sig[last]
	set.MACDHist = hist[last]
	set.PrevMACD = macd[prev]
	set.PrevMACDSignal = sig[prev]

	mid, up, low, width := ta.BollingerSeries(closes, cfg.BBWindow, cfg.BBStdDev)
	set.BBMiddle = mid[last]
	set.BBUpper = up[last]
	set.BBLower = low[last]
	set.BBWidth = width[last]

	smaShort := ta.SMASeries(closes, cfg.SMAShort)
	smaLong := ta.SMASeries(closes, cfg.SMALong)
	set.SMAShort = smaShort[last]
	set.SMALong = smaLong[last]
	set.PrevSMAShort = smaShort[prev]
	set.PrevSMALong = smaLong[prev]

	return set
}

func emptySet() types.IndicatorSet {
	nan := math.NaN()
	return types.IndicatorSet{
		Close:          nan,
		PrevClose:      nan,
		RSI:            nan,
		MACD:           nan,
		MACDSignal:     nan,
		MACDHist:       nan,
		PrevMACD:       nan,
		PrevMACDSignal: nan,
		BBUpper:        nan,
		BBMiddle:       nan,
		BBLower:        nan,
		BBWidth:        nan,
		SMAShort:       nan,
		SMALong:        nan,
		PrevSMAShort:   nan,
		PrevSMALong:    nan,
	}
}
