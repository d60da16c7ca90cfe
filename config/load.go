// Package config loads and validates the YAML configuration document
// that drives the feed cadence, risk limits, strategy parameters, and
// log level.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	LogLevel string       `yaml:"logLevel"`
	Feed     FeedConfig   `yaml:"feed"`
	Risk     RiskConfig   `yaml:"risk"`
	Strategy StrategyYAML `yaml:"strategy"`
}

// FeedConfig configures the synthetic order generator.
type FeedConfig struct {
	IntervalMs   int    `yaml:"intervalMs"`
	BatchSize    int    `yaml:"batchSize"`
	ReferenceMid uint64 `yaml:"referenceMid"`
	PriceBand    uint64 `yaml:"priceBand"`
	MaxQuantity  uint64 `yaml:"maxQuantity"`
}

// RiskConfig mirrors risk.Limits in YAML form.
type RiskConfig struct {
	MaxOrderQuantity  uint64 `yaml:"maxOrderQuantity"`
	MaxNotionalPerOrd uint64 `yaml:"maxNotionalPerOrder"`
	MaxOrdersPerBatch int    `yaml:"maxOrdersPerBatch"`
	MaxDailyVolume    uint64 `yaml:"maxDailyVolume"`
}

// StrategyYAML mirrors strategy.Config in YAML form. Preset, if set,
// supplies defaults that individual fields below override; a zero field
// in the YAML document means "use the preset's value" only when Preset
// is non-empty, otherwise it means "use DefaultConfig's value".
type StrategyYAML struct {
	Preset            string  `yaml:"preset"`
	MomentumThreshold float64 `yaml:"momentumThreshold"`
	RSIOversold       float64 `yaml:"rsiOversold"`
	RSIOverbought     float64 `yaml:"rsiOverbought"`
	ShortPeriod       int     `yaml:"shortPeriod"`
	LongPeriod        int     `yaml:"longPeriod"`
	RSIPeriod         int     `yaml:"rsiPeriod"`
	PositionSize      uint64  `yaml:"positionSize"`
	StopLossPct       float64 `yaml:"stopLossPct"`
	TakeProfitPct     float64 `yaml:"takeProfitPct"`
}

// Default returns a configuration that runs out of the box: the
// reference example in spec.md §8 must work with no -config flag.
func Default() AppConfig {
	return AppConfig{
		LogLevel: "info",
		Feed: FeedConfig{
			IntervalMs: 10, BatchSize: 10, ReferenceMid: 10000, PriceBand: 100, MaxQuantity: 10,
		},
		Risk: RiskConfig{
			MaxOrderQuantity: 50, MaxNotionalPerOrd: 1_000_000, MaxOrdersPerBatch: 5, MaxDailyVolume: 100_000,
		},
		Strategy: StrategyYAML{
			MomentumThreshold: 0.3, RSIOversold: 30, RSIOverbought: 70,
			ShortPeriod: 5, LongPeriod: 20, RSIPeriod: 14, PositionSize: 10,
			StopLossPct: 1.5, TakeProfitPct: 3.0,
		},
	}
}

// Load reads YAML config from path and validates it.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate ensures the loaded document is internally consistent. Zero
// risk/feed fields are legal (they mean "uncapped" or "use defaults");
// negative feed.batchSize, feed.intervalMs or risk.maxOrdersPerBatch, and
// a strategy.shortPeriod not below strategy.longPeriod, are rejected.
func Validate(cfg AppConfig) error {
	if cfg.Feed.BatchSize < 0 {
		return errors.New("feed.batchSize must be >= 0")
	}
	if cfg.Feed.IntervalMs < 0 {
		return errors.New("feed.intervalMs must be >= 0")
	}
	if cfg.Risk.MaxOrdersPerBatch < 0 {
		return errors.New("risk.maxOrdersPerBatch must be >= 0")
	}
	if cfg.Strategy.ShortPeriod != 0 && cfg.Strategy.LongPeriod != 0 && cfg.Strategy.ShortPeriod >= cfg.Strategy.LongPeriod {
		return fmt.Errorf("strategy.shortPeriod (%d) must be less than strategy.longPeriod (%d)",
			cfg.Strategy.ShortPeriod, cfg.Strategy.LongPeriod)
	}
	return nil
}
