package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"stock-analyzer/internal/analyzer"
	"stock-analyzer/internal/logger"
	"stock-analyzer/internal/report"
	"stock-analyzer/internal/store"
	"stock-analyzer/internal/trace"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	outPath := flag.String("out", "", "write the JSON report to this file instead of stdout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: analyzer [-config config.yaml] [-out report.json] TICKER")
		os.Exit(2)
	}
	ticker := strings.ToUpper(flag.Arg(0))

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
	a := analyzer.New(cfg)

	rep, err := a.Analyze(ctx, ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis aborted: %v\n", err)
		os.Exit(1)
	}

	if *outPath != "" {
		if err := report.WriteJSON(ctx, rep, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write report: %v\n", err)
			os.Exit(1)
		}
	} else {
		b, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal report: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(b))
	}

	if rep.Status != analyzer.StatusSuccess {
		os.Exit(1)
	}
}
