package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"stock-analyzer/internal/analyzer"
	"stock-analyzer/internal/fetcher"
	"stock-analyzer/internal/logger"
	"stock-analyzer/internal/report"
	"stock-analyzer/internal/sentiment"
	"stock-analyzer/internal/store"
	"stock-analyzer/internal/trace"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	csvPath := flag.String("csv", "", "write the ranked summary to this CSV (overrides config)")
	noScreen := flag.Bool("no-screen", false, "skip screener discovery, scan the configured universe only")
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Shutdown(context.Background())
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init tracer: %v\n", err)
	}
	defer trace.Shutdown(context.Background())

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = store.Default()
		} else {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	// One fetcher for the whole scan so every ticker shares the same
	// rate limiter.
	f := fetcher.New(cfg.Fetch)

	// Universe: explicit arguments win; otherwise screen the market,
	// falling back to the configured list when discovery finds nothing.
	universe := flag.Args()
	if len(universe) == 0 && !*noScreen {
		discovered, err := f.DiscoverUniverse(ctx, cfg.Scanner.MaxCandidates)
		if err != nil {
			fmt.Fprintf(os.Stderr, "screener discovery failed: %v\n", err)
		}
		universe = discovered
	}
	if len(universe) == 0 {
		universe = cfg.Scanner.Universe
	}
	if len(universe) == 0 {
		fmt.Fprintln(os.Stderr, "no tickers: screener found nothing and scanner.universe is empty")
		os.Exit(2)
	}

	a := analyzer.NewWithDeps(f, sentiment.NewLexiconScorer(), cfg)

	rows := make([]report.ScanRow, 0, len(universe))
	for _, ticker := range universe {
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		if ticker == "" {
			continue
		}
		tctx, span := trace.StartSpan(ctx, "scan.ticker")
		rep, err := a.Analyze(tctx, ticker)
		span.End()
		if err != nil {
			fmt.Fprintf(os.Stderr, "scan aborted at %s: %v\n", ticker, err)
			os.Exit(1)
		}
		rows = append(rows, report.RowFrom(rep))
	}

	report.Sort(rows)
	report.PrintTable(rows)

	out := cfg.Scanner.OutputCSV
	if *csvPath != "" {
		out = *csvPath
	}
	if out != "" {
		if err := report.WriteCSV(ctx, rows, out); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write csv: %v\n", err)
			os.Exit(1)
		}
	}
}
