package sentiment

import (
	"context"
	"math"
	"strings"

	"stock-analyzer/internal/logger"
	"stock-analyzer/internal/types"
)

// Level thresholds on polarity, applied both per headline and to the
// batch average.
const (
	veryPositiveThreshold = 0.5
	positiveThreshold     = 0.1
	negativeThreshold     = -0.1
	veryNegativeThreshold = -0.5
)

// Level maps a polarity to its discrete sentiment bucket.
func Level(polarity float64) types.SentimentLevel {
	switch {
	case polarity > veryPositiveThreshold:
		return types.VeryPositive
	case polarity > positiveThreshold:
		return types.Positive
	case polarity < veryNegativeThreshold:
		return types.VeryNegative
	case polarity < negativeThreshold:
		return types.Negative
	default:
		return types.NeutralSentiment
	}
}

// ScoreText scores a single piece of text. Blank or whitespace-only text
// short-circuits to a neutral zero score without invoking the scorer.
func ScoreText(scorer Scorer, text string) types.SentimentScore {
	if strings.TrimSpace(text) == "" {
		return types.SentimentScore{Text: text, Level: types.NeutralSentiment}
	}
	polarity, subjectivity := scorer.Score(text)
	return types.SentimentScore{
		Text:         text,
		Polarity:     round4(polarity),
		Subjectivity: round4(subjectivity),
		Level:        Level(polarity),
	}
}

// Aggregate scores every headline title and reduces the batch to an
// average polarity, an overall level and a per-level distribution.
// An empty batch yields a zero-polarity neutral result with an empty
// distribution; it never fails.
func Aggregate(ctx context.Context, scorer Scorer, items []types.NewsItem) types.SentimentSummary {
	summary := types.SentimentSummary{
		Distribution: make(map[types.SentimentLevel]int),
		Overall:      types.NeutralSentiment,
	}
	if len(items) == 0 {
		return summary
	}

	var sumPolarity, sumSubjectivity float64
	for _, item := range items {
		if item.Title == "" {
			continue
		}
		score := ScoreText(scorer, item.Title)
		summary.Items = append(summary.Items, score)
		sumPolarity += score.Polarity
		sumSubjectivity += score.Subjectivity
		summary.Distribution[score.Level]++
	}
	if len(summary.Items) == 0 {
		return summary
	}

	n := float64(len(summary.Items))
	summary.AveragePolarity = round4(sumPolarity / n)
	summary.AverageSubjectivity = round4(sumSubjectivity / n)
	summary.Overall = Level(summary.AveragePolarity)

	logger.Debug(ctx, "sentiment batch aggregated",
		"items", len(summary.Items),
		"average_polarity", summary.AveragePolarity,
		"overall", string(summary.Overall))
	return summary
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
