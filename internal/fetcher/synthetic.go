package fetcher

import (
	"hash/fnv"
	"math/rand"
	"time"

	"stock-analyzer/internal/types"
)

// Synthetic return distribution: daily mean drift and volatility, plus
// the bounds on intraday open/high/low spread and volume.
const (
	synReturnMean  = 0.0005
	synReturnSigma = 0.02
	synOpenSpread  = 0.005
	synWickMin     = 0.001
	synWickMax     = 0.02
	synVolumeMin   = 10_000_000
	synVolumeMax   = 100_000_000
)

// SyntheticSeries generates a plausible daily OHLCV history ending at a
// known current price. The ticker symbol seeds the generator through a
// stable FNV-1a hash, so the same ticker and day count always reproduce
// the same bars. A Gaussian daily-return path is solved backwards from
// the current price; open/high/low are placed around each close with a
// bounded spread.
func SyntheticSeries(ticker string, currentPrice float64, days int, end time.Time) types.PriceSeries {
	if days <= 0 || currentPrice <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seedFor(ticker)))

	// Forward return path, then rescale so the last close lands exactly
	// on the known current price.
	closes := make([]float64, days)
	p := 1.0
	for i := 0; i < days; i++ {
		r := rng.NormFloat64()*synReturnSigma + synReturnMean
		p *= 1 + r
		closes[i] = p
	}
	scale := currentPrice / closes[days-1]
	for i := range closes {
		closes[i] *= scale
	}

	start := end.AddDate(0, 0, -(days - 1))
	series := make(types.PriceSeries, days)
	for i := 0; i < days; i++ {
		c := closes[i]
		open := c * (1 + uniform(rng, -synOpenSpread, synOpenSpread))
		high := c * (1 + uniform(rng, synWickMin, synWickMax))
		low := c * (1 - uniform(rng, synWickMin, synWickMax))
		if open > high {
			high = open
		}
		if open < low {
			low = open
		}
		series[i] = types.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  c,
			Volume: synVolumeMin + rng.Int63n(synVolumeMax-synVolumeMin),
		}
	}
	return series
}

// seedFor hashes the ticker with FNV-1a. Go's built-in string hashing is
// randomized per process, which would break reproducibility.
func seedFor(ticker string) int64 {
	h := fnv.New64a()
	h.Write([]byte(ticker))
	return int64(h.Sum64())
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
