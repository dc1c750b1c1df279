package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"stock-analyzer/internal/indicator"
)

// FetchConfig controls rate limiting, retries and HTTP timeouts for
// the data layer.
type FetchConfig struct {
	RequestDelayMS int `yaml:"request_delay_ms"`
	MaxRetries     int `yaml:"max_retries"`
	RetryBaseMS    int `yaml:"retry_base_ms"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// AnalysisConfig sets how much history and context a report pulls in.
type AnalysisConfig struct {
	HistoryDays   int `yaml:"history_days"`
	NewsLimit     int `yaml:"news_limit"`
	EarningsYears int `yaml:"earnings_years"`
}

// ScannerConfig controls candidate discovery, the fallback ticker
// list and where the scanner writes its summary.
type ScannerConfig struct {
	Universe      []string `yaml:"universe"`
	MaxCandidates int      `yaml:"max_candidates"`
	OutputCSV     string   `yaml:"output_csv"`
}

// Config is the analyzer configuration loaded from config.yaml.
type Config struct {
	Fetch      FetchConfig      `yaml:"fetch"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Indicators indicator.Config `yaml:"indicators"`
	Scanner    ScannerConfig    `yaml:"scanner"`
}

// Validate rejects impossible parameter combinations. These are
// programmer errors; expected runtime failures never surface here.
func (c *Config) Validate() error {
	if c.Fetch.RequestDelayMS < 0 {
		return fmt.Errorf("fetch.request_delay_ms must be >= 0, got %d", c.Fetch.RequestDelayMS)
	}
	if c.Fetch.MaxRetries <= 0 {
		return fmt.Errorf("fetch.max_retries must be positive, got %d", c.Fetch.MaxRetries)
	}
	if c.Analysis.HistoryDays <= 0 {
		return fmt.Errorf("analysis.history_days must be positive, got %d", c.Analysis.HistoryDays)
	}
	ind := c.Indicators
	if ind.MACDFast > 0 && ind.MACDSlow > 0 && ind.MACDFast >= ind.MACDSlow {
		return fmt.Errorf("indicators.macd_fast (%d) must be below macd_slow (%d)", ind.MACDFast, ind.MACDSlow)
	}
	if ind.SMAShort > 0 && ind.SMALong > 0 && ind.SMAShort >= ind.SMALong {
		return errors.New("indicators.sma_short must be below sma_long")
	}
	return nil
}

// LoadConfig reads and validates the configuration file, applying
// defaults for omitted fields.
func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}

// Default returns a ready-to-use configuration without a file.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Fetch.RequestDelayMS == 0 {
		c.Fetch.RequestDelayMS = 1000
	}
	if c.Fetch.MaxRetries == 0 {
		c.Fetch.MaxRetries = 3
	}
	if c.Fetch.RetryBaseMS == 0 {
		c.Fetch.RetryBaseMS = 2000
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 30
	}
	if c.Analysis.HistoryDays == 0 {
		c.Analysis.HistoryDays = 250
	}
	if c.Analysis.NewsLimit == 0 {
		c.Analysis.NewsLimit = 5
	}
	if c.Analysis.EarningsYears == 0 {
		c.Analysis.EarningsYears = 1
	}
	if c.Scanner.MaxCandidates == 0 {
		c.Scanner.MaxCandidates = 10
	}
}
