package sentiment

import (
	"strings"
	"unicode"
)

// Scorer turns a piece of text into a polarity in [-1,1] and a
// subjectivity in [0,1]. Implementations are interchangeable; the
// aggregator treats them as a black box.
type Scorer interface {
	Score(text string) (polarity, subjectivity float64)
}

// LexiconScorer scores text against financial sentiment word lists
// (Loughran-McDonald style). It needs no network or model files.
type LexiconScorer struct {
	positive    map[string]bool
	negative    map[string]bool
	uncertainty map[string]bool
	intensive   map[string]bool
}

// NewLexiconScorer builds a scorer with the built-in word lists.
func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{
		positive:    wordSet(positiveWords),
		negative:    wordSet(negativeWords),
		uncertainty: wordSet(uncertaintyWords),
		intensive:   wordSet(intensifierWords),
	}
}

// Score tokenizes the text and derives polarity from the net
// positive/negative word balance, amplified and clamped to [-1,1].
// Subjectivity reflects how much of the text is opinionated vocabulary.
func (s *LexiconScorer) Score(text string) (float64, float64) {
	words := tokenize(strings.ToLower(text))
	if len(words) == 0 {
		return 0, 0
	}

	var pos, neg, unc, intens int
	for _, w := range words {
		if s.positive[w] {
			pos++
		}
		if s.negative[w] {
			neg++
		}
		if s.uncertainty[w] {
			unc++
		}
		if s.intensive[w] {
			intens++
		}
	}

	total := float64(len(words))
	net := (float64(pos) - float64(neg)) / total

	// Headlines are short; a single loaded word should register.
	polarity := net * 6
	polarity *= 1 + 0.25*float64(intens)
	polarity = clamp(polarity, -1, 1)

	subjectivity := clamp(float64(pos+neg+unc+intens)/total*3, 0, 1)
	return polarity, subjectivity
}

func tokenize(text string) []string {
	var words []string
	var cur strings.Builder
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			cur.WriteRune(r)
		} else if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wordSet(words []string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var positiveWords = []string{
	"achieve", "advance", "beat", "beats", "benefit", "better", "boom",
	"boost", "bullish", "climb", "climbs", "delight", "enhance", "excellent",
	"exceptional", "expand", "expands", "extraordinary", "favorable", "gain",
	"gains", "good", "great", "grew", "grow", "grows", "growth", "high",
	"highs", "improve", "improved", "improvement", "innovative", "jump",
	"jumps", "leader", "leading", "momentum", "opportunity", "optimistic",
	"outperform", "outperforms", "positive", "profit", "profitable",
	"progress", "prosper", "rally", "rallies", "rebound", "record",
	"remarkable", "rise", "rises", "robust", "soar", "soars", "solid",
	"strength", "strong", "succeed", "success", "successful", "superior",
	"surge", "surges", "surpass", "top", "tops", "tremendous", "upbeat",
	"upgrade", "upgraded", "valuable", "win", "winning",
}

var negativeWords = []string{
	"abandon", "adverse", "bearish", "challenge", "challenging", "concern",
	"concerns", "crash", "crisis", "cut", "cuts", "damage", "decline",
	"declines", "decrease", "deficit", "deteriorate", "difficult", "dip",
	"disappoint", "disappointing", "downgrade", "downgraded", "downturn",
	"drop", "drops", "erode", "fail", "fails", "failure", "fall", "falling",
	"falls", "fear", "fears", "headwind", "headwinds", "impair", "impairment",
	"inadequate", "lawsuit", "litigation", "loss", "losses", "low", "lows",
	"miss", "misses", "negative", "obstacle", "plunge", "plunges", "poor",
	"problem", "problems", "recession", "restructuring", "risk", "risks",
	"sink", "sinks", "slide", "slides", "slow", "slowdown", "slump",
	"struggle", "struggles", "tumble", "tumbles", "uncertain", "uncertainty",
	"underperform", "unfavorable", "unprofitable", "volatile", "volatility",
	"warn", "warning", "warns", "weak", "weakness", "worse", "worsen",
	"worst",
}

var uncertaintyWords = []string{
	"almost", "anticipate", "anticipates", "appear", "appears",
	"approximately", "assume", "believe", "believes", "could", "depend",
	"estimate", "estimates", "expect", "expects", "forecast", "forecasts",
	"likely", "may", "maybe", "might", "outlook", "pending", "perhaps",
	"possible", "possibly", "potential", "predict", "predicts", "should",
	"somewhat", "suggest", "suggests", "unclear", "unlikely", "would",
}

var intensifierWords = []string{
	"all-time", "dramatically", "extremely", "hugely", "massively",
	"sharply", "significantly", "strongly", "very",
}
