package ta

import "math"

// SMA returns the simple moving average of the last n values, or NaN
// when fewer than n values exist.
func SMA(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		sum += vals[i]
	}
	return sum / float64(n)
}

// StdDev returns the population standard deviation of the last n values.
func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

// SMASeries returns the rolling n-period simple moving average for every
// position. Positions before the window fills are NaN.
func SMASeries(vals []float64, n int) []float64 {
	out := nanSlice(len(vals))
	if n <= 0 || len(vals) < n {
		return out
	}
	sum := 0.0
	for i, v := range vals {
		sum += v
		if i >= n {
			sum -= vals[i-n]
		}
		if i >= n-1 {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// EMASeries returns the n-period exponential moving average, seeded with
// the SMA of the first n values. Positions before the seed are NaN.
// NaN inputs at the head (e.g. an EMA of a MACD line) are skipped so the
// window starts at the first defined value.
func EMASeries(vals []float64, n int) []float64 {
	out := nanSlice(len(vals))
	if n <= 0 {
		return out
	}
	start := 0
	for start < len(vals) && math.IsNaN(vals[start]) {
		start++
	}
	if len(vals)-start < n {
		return out
	}
	sum := 0.0
	for i := start; i < start+n; i++ {
		sum += vals[i]
	}
	k := 2.0 / float64(n+1)
	ema := sum / float64(n)
	out[start+n-1] = ema
	for i := start + n; i < len(vals); i++ {
		ema = (vals[i]-ema)*k + ema
		out[i] = ema
	}
	return out
}

// RSISeries returns the Wilder-smoothed relative strength index over the
// given period. The first defined value appears once one full window of
// price changes exists.
func RSISeries(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}

// MACDSeries returns the MACD line (fast EMA minus slow EMA), its signal
// line (EMA of the MACD line) and the histogram (MACD minus signal).
func MACDSeries(closes []float64, fast, slow, signal int) (macd, sig, hist []float64) {
	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)

	macd = nanSlice(len(closes))
	for i := range closes {
		if !math.IsNaN(emaFast[i]) && !math.IsNaN(emaSlow[i]) {
			macd[i] = emaFast[i] - emaSlow[i]
		}
	}
	sig = EMASeries(macd, signal)

	hist = nanSlice(len(closes))
	for i := range closes {
		if !math.IsNaN(macd[i]) && !math.IsNaN(sig[i]) {
			hist[i] = macd[i] - sig[i]
		}
	}
	return macd, sig, hist
}

// BollingerSeries returns the middle band (n-period SMA), the upper and
// lower bands (middle ± k standard deviations) and the percentage band
// width ((upper-lower)/middle × 100).
func BollingerSeries(closes []float64, n int, k float64) (mid, up, low, width []float64) {
	mid = SMASeries(closes, n)
	up = nanSlice(len(closes))
	low = nanSlice(len(closes))
	width = nanSlice(len(closes))
	for i := range closes {
		if math.IsNaN(mid[i]) {
			continue
		}
		sd := StdDev(closes[:i+1], n)
		up[i] = mid[i] + k*sd
		low[i] = mid[i] - k*sd
		if mid[i] != 0 {
			width[i] = (up[i] - low[i]) / mid[i] * 100
		}
	}
	return mid, up, low, width
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
