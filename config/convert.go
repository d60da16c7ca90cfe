package config

import (
	"time"

	"nanoex-go/book"
	"nanoex-go/feed"
	"nanoex-go/risk"
	"nanoex-go/strategy"
)

// ToFeedConfig converts the YAML feed section into feed.Config, filling
// any zero field from feed.DefaultConfig().
func (c FeedConfig) ToFeedConfig() feed.Config {
	def := feed.DefaultConfig()
	cfg := feed.Config{
		Interval:     durationOr(time.Duration(c.IntervalMs)*time.Millisecond, def.Interval),
		BatchSize:    intOr(c.BatchSize, def.BatchSize),
		ReferenceMid: book.Price(c.ReferenceMid),
		PriceBand:    book.Price(c.PriceBand),
		MaxQuantity:  book.Quantity(c.MaxQuantity),
	}
	if cfg.ReferenceMid == 0 {
		cfg.ReferenceMid = def.ReferenceMid
	}
	if cfg.PriceBand == 0 {
		cfg.PriceBand = def.PriceBand
	}
	if cfg.MaxQuantity == 0 {
		cfg.MaxQuantity = def.MaxQuantity
	}
	return cfg
}

// ToLimits converts the YAML risk section into risk.Limits.
func (c RiskConfig) ToLimits() risk.Limits {
	return risk.Limits{
		MaxOrderQuantity:  book.Quantity(c.MaxOrderQuantity),
		MaxNotionalPerOrd: c.MaxNotionalPerOrd,
		MaxOrdersPerBatch: c.MaxOrdersPerBatch,
		MaxDailyVolume:    book.Quantity(c.MaxDailyVolume),
	}
}

// ToStrategyConfig resolves the YAML strategy section into strategy.Config.
// If Preset names a known preset, its values seed the result; any
// explicitly non-zero YAML field then overrides the preset. With no
// Preset, strategy.DefaultConfig() seeds the result instead.
func (c StrategyYAML) ToStrategyConfig() (strategy.Config, error) {
	base := strategy.DefaultConfig()
	if c.Preset != "" {
		preset, err := strategy.PresetConfig(strategy.Preset(c.Preset))
		if err != nil {
			return strategy.Config{}, err
		}
		base = preset
	}

	if c.MomentumThreshold != 0 {
		base.MomentumThreshold = c.MomentumThreshold
	}
	if c.RSIOversold != 0 {
		base.RSIOversold = c.RSIOversold
	}
	if c.RSIOverbought != 0 {
		base.RSIOverbought = c.RSIOverbought
	}
	if c.ShortPeriod != 0 {
		base.ShortPeriod = c.ShortPeriod
	}
	if c.LongPeriod != 0 {
		base.LongPeriod = c.LongPeriod
	}
	if c.RSIPeriod != 0 {
		base.RSIPeriod = c.RSIPeriod
	}
	if c.PositionSize != 0 {
		base.PositionSize = book.Quantity(c.PositionSize)
	}
	if c.StopLossPct != 0 {
		base.StopLossPct = c.StopLossPct
	}
	if c.TakeProfitPct != 0 {
		base.TakeProfitPct = c.TakeProfitPct
	}
	return base, base.Validate()
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v == 0 {
		return fallback
	}
	return v
}

func intOr(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
