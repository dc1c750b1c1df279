package signal

import (
	"math"
	"testing"

	"stock-analyzer/internal/types"
)

func TestClassifyRSI(t *testing.T) {
	cases := []struct {
		rsi  float64
		want types.Signal
	}{
		{75, types.SignalRSIOverbought},
		{70, types.SignalRSINeutral},
		{50, types.SignalRSINeutral},
		{30, types.SignalRSINeutral},
		{25, types.SignalRSIOversold},
		{math.NaN(), types.SignalRSINeutral},
	}
	for _, c := range cases {
		if got := ClassifyRSI(c.rsi); got != c.want {
			t.Errorf("ClassifyRSI(%f) = %s, want %s", c.rsi, got, c.want)
		}
	}
}

func TestClassifyMACD(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name                         string
		macd, sig, prevMACD, prevSig float64
		want                         types.Signal
	}{
		{"bullish cross", 1.0, 0.5, -0.5, 0.0, types.SignalMACDBullish},
		{"bearish cross", -1.0, -0.5, 0.5, 0.0, types.SignalMACDBearish},
		{"above without cross", 1.0, 0.5, 1.2, 0.6, types.SignalMACDBullish},
		{"below without cross", -1.0, -0.5, -1.2, -0.6, types.SignalMACDBearish},
		{"undefined previous, above", 1.0, 0.5, nan, nan, types.SignalMACDBullish},
		{"undefined line", nan, 0.5, 0.0, 0.0, types.SignalNeutral},
	}
	for _, c := range cases {
		if got := ClassifyMACD(c.macd, c.sig, c.prevMACD, c.prevSig); got != c.want {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestClassifyMA(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name                       string
		short, long, pShort, pLong float64
		want                       types.Signal
	}{
		{"golden cross", 101, 100, 99, 100, types.SignalGoldenCross},
		{"death cross", 99, 100, 101, 100, types.SignalDeathCross},
		{"above without cross", 110, 100, 109, 100, types.SignalGoldenCross},
		{"below without cross", 90, 100, 91, 100, types.SignalDeathCross},
		{"long undefined", 110, nan, 109, nan, types.SignalNeutral},
	}
	for _, c := range cases {
		if got := ClassifyMA(c.short, c.long, c.pShort, c.pLong); got != c.want {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestClassifyBollinger(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		name                       string
		price, upper, lower, width float64
		want                       types.Signal
	}{
		{"upper break", 105, 104, 96, 8, types.SignalBBUpperBreak},
		{"lower break", 95, 104, 96, 8, types.SignalBBLowerBreak},
		{"squeeze", 100, 104, 96, 4, types.SignalBBSqueeze},
		{"inside wide bands", 100, 104, 96, 8, types.SignalNeutral},
		{"undefined bands", 100, nan, nan, nan, types.SignalNeutral},
	}
	for _, c := range cases {
		if got := ClassifyBollinger(c.price, c.upper, c.lower, c.width); got != c.want {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestVote(t *testing.T) {
	cases := []struct {
		name      string
		active    []types.Signal
		wantScore int
		wantRec   types.Recommendation
	}{
		{"no signals", nil, 0, types.Neutral},
		{"one bullish", []types.Signal{types.SignalMACDBullish}, 1, types.Buy},
		{"one bearish", []types.Signal{types.SignalMACDBearish}, -1, types.Sell},
		{
			"three bullish",
			[]types.Signal{types.SignalMACDBullish, types.SignalGoldenCross, types.SignalRSIOversold},
			3, types.StrongBuy,
		},
		{
			"three bearish",
			[]types.Signal{types.SignalMACDBearish, types.SignalDeathCross, types.SignalRSIOverbought},
			-3, types.StrongSell,
		},
		{
			"mixed cancels out",
			[]types.Signal{types.SignalMACDBullish, types.SignalDeathCross},
			0, types.Neutral,
		},
		{
			"squeeze carries no vote",
			[]types.Signal{types.SignalBBSqueeze, types.SignalMACDBullish},
			1, types.Buy,
		},
		{
			"lower break is contrarian bullish",
			[]types.Signal{types.SignalBBLowerBreak}, 1, types.Buy,
		},
	}
	for _, c := range cases {
		score, rec := Vote(c.active)
		if score != c.wantScore || rec != c.wantRec {
			t.Errorf("%s: Vote = (%d, %s), want (%d, %s)", c.name, score, rec, c.wantScore, c.wantRec)
		}
	}
}

func TestSynthesizeBullishSnapshot(t *testing.T) {
	ind := types.IndicatorSet{
		Close:          105,
		RSI:            25,
		MACD:           1.2,
		MACDSignal:     0.8,
		PrevMACD:       0.5,
		PrevMACDSignal: 0.7,
		BBUpper:        110,
		BBMiddle:       100,
		BBLower:        90,
		BBWidth:        20,
		SMAShort:       102,
		SMALong:        100,
		PrevSMAShort:   99,
		PrevSMALong:    100,
	}
	set := Synthesize(ind)

	if set.RSI != types.SignalRSIOversold {
		t.Errorf("RSI = %s, want oversold", set.RSI)
	}
	if set.MACD != types.SignalMACDBullish {
		t.Errorf("MACD = %s, want bullish", set.MACD)
	}
	if set.MA != types.SignalGoldenCross {
		t.Errorf("MA = %s, want golden cross", set.MA)
	}
	if set.Bollinger != types.SignalNeutral {
		t.Errorf("Bollinger = %s, want neutral", set.Bollinger)
	}
	if set.Score != 3 || set.Overall != types.StrongBuy {
		t.Errorf("Score/Overall = %d/%s, want 3/Strong_Buy", set.Score, set.Overall)
	}
	if len(set.Active) != 3 {
		t.Errorf("Active = %v, want 3 entries", set.Active)
	}
}

func TestSynthesizeEmptyIndicators(t *testing.T) {
	nan := math.NaN()
	ind := types.IndicatorSet{
		Close: nan, RSI: nan,
		MACD: nan, MACDSignal: nan, PrevMACD: nan, PrevMACDSignal: nan,
		BBUpper: nan, BBMiddle: nan, BBLower: nan, BBWidth: nan,
		SMAShort: nan, SMALong: nan, PrevSMAShort: nan, PrevSMALong: nan,
	}
	set := Synthesize(ind)

	if len(set.Active) != 0 {
		t.Errorf("Active = %v, want empty", set.Active)
	}
	if set.Score != 0 || set.Overall != types.Neutral {
		t.Errorf("Score/Overall = %d/%s, want 0/Neutral", set.Score, set.Overall)
	}
}
