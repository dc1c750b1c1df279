package signal

import (
	"stock-analyzer/internal/types"
)

// Thresholds for the per-indicator classifications.
const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0
	bbSqueezePct  = 5.0
)

// Set is the synthesized signal state for one indicator snapshot.
type Set struct {
	RSI       types.Signal `json:"rsi_signal"`
	MACD      types.Signal `json:"macd_trend"`
	MA        types.Signal `json:"ma_signal"`
	Bollinger types.Signal `json:"bb_signal"`

	// Active holds the non-neutral signals that fed the vote.
	Active []types.Signal `json:"signals"`
	// Score is bullish votes minus bearish votes.
	Score   int                  `json:"score"`
	Overall types.Recommendation `json:"overall_signal"`
}

// ClassifyRSI maps an RSI value to overbought, oversold or neutral.
// An undefined RSI is neutral.
func ClassifyRSI(rsi float64) types.Signal {
	switch {
	case !types.Valid(rsi):
		return types.SignalRSINeutral
	case rsi > rsiOverbought:
		return types.SignalRSIOverbought
	case rsi < rsiOversold:
		return types.SignalRSIOversold
	default:
		return types.SignalRSINeutral
	}
}

// ClassifyMACD detects a bullish or bearish cross of the MACD line over
// its signal line; absent a true cross it falls back to the current
// relative ordering, so the result is always bullish or bearish once
// both lines are defined. Undefined lines give neutral.
func ClassifyMACD(macd, sig, prevMACD, prevSig float64) types.Signal {
	if !types.Valid(macd) || !types.Valid(sig) {
		return types.SignalNeutral
	}
	switch {
	case prevMACD <= prevSig && macd > sig:
		return types.SignalMACDBullish
	case prevMACD >= prevSig && macd < sig:
		return types.SignalMACDBearish
	case macd > sig:
		return types.SignalMACDBullish
	default:
		return types.SignalMACDBearish
	}
}

// ClassifyMA applies the same cross-or-currently-above rule to the short
// and long moving averages: golden cross when the short average is or
// moves above the long one, death cross otherwise.
func ClassifyMA(smaShort, smaLong, prevShort, prevLong float64) types.Signal {
	if !types.Valid(smaShort) || !types.Valid(smaLong) {
		return types.SignalNeutral
	}
	switch {
	case prevShort <= prevLong && smaShort > smaLong:
		return types.SignalGoldenCross
	case prevShort >= prevLong && smaShort < smaLong:
		return types.SignalDeathCross
	case smaShort > smaLong:
		return types.SignalGoldenCross
	default:
		return types.SignalDeathCross
	}
}

// ClassifyBollinger flags price breaks of the bands and the squeeze
// condition (band width under 5 percentage points).
func ClassifyBollinger(price, upper, lower, width float64) types.Signal {
	if !types.Valid(price) || !types.Valid(upper) || !types.Valid(lower) {
		return types.SignalNeutral
	}
	switch {
	case price > upper:
		return types.SignalBBUpperBreak
	case price < lower:
		return types.SignalBBLowerBreak
	case types.Valid(width) && width < bbSqueezePct:
		return types.SignalBBSqueeze
	default:
		return types.SignalNeutral
	}
}

var bullish = map[types.Signal]bool{
	types.SignalRSIOversold:  true,
	types.SignalGoldenCross:  true,
	types.SignalMACDBullish:  true,
	types.SignalBBLowerBreak: true,
}

var bearish = map[types.Signal]bool{
	types.SignalRSIOverbought: true,
	types.SignalDeathCross:    true,
	types.SignalMACDBearish:   true,
	types.SignalBBUpperBreak:  true,
}

// Vote reduces a set of active signals to the five-level recommendation.
// Each signal carries one unit vote; score = bullish - bearish.
func Vote(active []types.Signal) (int, types.Recommendation) {
	score := 0
	for _, s := range active {
		if bullish[s] {
			score++
		} else if bearish[s] {
			score--
		}
	}
	switch {
	case score >= 3:
		return score, types.StrongBuy
	case score >= 1:
		return score, types.Buy
	case score <= -3:
		return score, types.StrongSell
	case score <= -1:
		return score, types.Sell
	default:
		return score, types.Neutral
	}
}

// Synthesize classifies every indicator and reduces the non-neutral
// states to one overall recommendation. RSI-neutral and
// Bollinger-neutral are excluded from the vote; MACD and MA resolve to
// bullish or bearish whenever computable, so they always vote.
func Synthesize(ind types.IndicatorSet) Set {
	set := Set{
		RSI:       ClassifyRSI(ind.RSI),
		MACD:      ClassifyMACD(ind.MACD, ind.MACDSignal, ind.PrevMACD, ind.PrevMACDSignal),
		MA:        ClassifyMA(ind.SMAShort, ind.SMALong, ind.PrevSMAShort, ind.PrevSMALong),
		Bollinger: ClassifyBollinger(ind.Close, ind.BBUpper, ind.BBLower, ind.BBWidth),
	}

	active := make([]types.Signal, 0, 4)
	if set.RSI != types.SignalRSINeutral {
		active = append(active, set.RSI)
	}
	if set.MACD != types.SignalNeutral {
		active = append(active, set.MACD)
	}
	if set.Bollinger != types.SignalNeutral {
		active = append(active, set.Bollinger)
	}
	if set.MA != types.SignalNeutral {
		active = append(active, set.MA)
	}
	set.Active = active
	set.Score, set.Overall = Vote(active)
	return set
}
