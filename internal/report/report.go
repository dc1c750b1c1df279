package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"stock-analyzer/internal/analyzer"
	"stock-analyzer/internal/logger"
	"stock-analyzer/internal/types"
)

// WriteJSON serializes a single analysis report to path, creating
// parent directories as needed.
func WriteJSON(ctx context.Context, rep analyzer.Report, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	logger.Info(ctx, "report written", "ticker", rep.Ticker, "path", path)
	return nil
}

// ScanRow is one line of the scanner summary.
type ScanRow struct {
	Ticker         string
	Status         string
	Recommendation types.Recommendation
	Score          int
	Sentiment      types.SentimentLevel
	Opportunity    int
	DataSource     string
	Price          float64
}

// RowFrom condenses a full report into its scanner line.
func RowFrom(rep analyzer.Report) ScanRow {
	return ScanRow{
		Ticker:         rep.Ticker,
		Status:         rep.Status,
		Recommendation: rep.Signals.Overall,
		Score:          rep.Signals.Score,
		Sentiment:      rep.Sentiment.Overall,
		Opportunity:    OpportunityScore(rep),
		DataSource:     rep.DataSource,
		Price:          rep.CurrentPrice,
	}
}

// OpportunityScore rates a report on a 0-100 scale, starting from a
// neutral 50. Valuation metrics, the technical recommendation and news
// sentiment each move the score; absent metrics contribute nothing.
func OpportunityScore(rep analyzer.Report) int {
	score := 50

	fin := rep.Financials
	if pe := fin.PE; types.Valid(pe) && pe != 0 {
		switch {
		case pe < 15:
			score += 15
		case pe < 20:
			score += 10
		case pe < 25:
			score += 5
		case pe > 40:
			score -= 10
		}
	}
	if peg := fin.PEG; types.Valid(peg) && peg != 0 {
		switch {
		case peg < 0.5:
			score += 15
		case peg < 1:
			score += 10
		case peg < 1.5:
			score += 5
		case peg > 2:
			score -= 10
		}
	}
	if roe := fin.ROE; types.Valid(roe) && roe != 0 {
		switch {
		case roe > 25:
			score += 15
		case roe > 15:
			score += 10
		case roe > 10:
			score += 5
		case roe < 5:
			score -= 10
		}
	}

	switch rep.Signals.Overall {
	case types.StrongBuy:
		score += 15
	case types.Buy:
		score += 10
	case types.StrongSell:
		score -= 15
	case types.Sell:
		score -= 10
	}

	switch rep.Sentiment.Overall {
	case types.VeryPositive:
		score += 10
	case types.Positive:
		score += 5
	case types.VeryNegative:
		score -= 10
	case types.Negative:
		score -= 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Sort orders rows best-first: opportunity score, then recommendation
// rank, then ticker for a stable listing.
func Sort(rows []ScanRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Opportunity != rows[j].Opportunity {
			return rows[i].Opportunity > rows[j].Opportunity
		}
		ri, rj := rows[i].Recommendation.Rank(), rows[j].Recommendation.Rank()
		if ri != rj {
			return ri > rj
		}
		return rows[i].Ticker < rows[j].Ticker
	})
}

// WriteCSV writes the scan summary. Rows are written in the order
// given; call Sort first for a ranked file.
func WriteCSV(ctx context.Context, rows []ScanRow, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"ticker", "status", "recommendation", "score", "sentiment", "opportunity_score", "data_source", "price"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Ticker,
			r.Status,
			string(r.Recommendation),
			strconv.Itoa(r.Score),
			string(r.Sentiment),
			strconv.Itoa(r.Opportunity),
			r.DataSource,
			formatPrice(r.Price),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	logger.Info(ctx, "scan summary written", "rows", len(rows), "path", path)
	return nil
}

// PrintTable renders the scan summary to stdout.
func PrintTable(rows []ScanRow) {
	fmt.Printf("%-8s %-10s %-12s %6s %-14s %12s %-10s %10s\n",
		"TICKER", "STATUS", "SIGNAL", "SCORE", "SENTIMENT", "OPPORTUNITY", "SOURCE", "PRICE")
	for _, r := range rows {
		fmt.Printf("%-8s %-10s %-12s %6d %-14s %12d %-10s %10s\n",
			r.Ticker, r.Status, r.Recommendation, r.Score, r.Sentiment, r.Opportunity, r.DataSource, formatPrice(r.Price))
	}
}

func formatPrice(p float64) string {
	if !types.Valid(p) || p == 0 {
		return "-"
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}
