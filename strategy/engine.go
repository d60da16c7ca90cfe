// Package strategy implements the momentum trading strategy: it
// transforms an incoming stream of market prices into at most one
// trading signal per invocation.
package strategy

import (
	"errors"
	"fmt"

	"nanoex-go/book"
	"nanoex-go/indicators"
)

const (
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9

	maxHistory = 1000
)

// SignalKind classifies the outcome of one Evaluate call.
type SignalKind uint8

const (
	Hold SignalKind = iota
	BuySignal
	SellSignal
)

func (k SignalKind) String() string {
	switch k {
	case BuySignal:
		return "BUY"
	case SellSignal:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Config holds the momentum strategy's tunable parameters. Defaults
// mirror spec.md §4.4; the example run in spec.md §8 scenario 4 uses a
// lower momentum threshold (0.25) via the Aggressive preset below.
type Config struct {
	MomentumThreshold float64 // minimum momentum score to open a long
	RSIOversold       float64
	RSIOverbought     float64
	ShortPeriod       int
	LongPeriod        int
	RSIPeriod         int
	PositionSize      book.Quantity
	StopLossPct       float64
	TakeProfitPct     float64
}

// DefaultConfig returns spec.md §4.4's default configuration.
func DefaultConfig() Config {
	return Config{
		MomentumThreshold: 0.3,
		RSIOversold:       30,
		RSIOverbought:     70,
		ShortPeriod:       5,
		LongPeriod:        20,
		RSIPeriod:         14,
		PositionSize:      10,
		StopLossPct:       1.5,
		TakeProfitPct:     3.0,
	}
}

// Preset names a named configuration bundle, grounded on the original
// C++ demo's conservative/aggressive example runs.
type Preset string

const (
	Conservative Preset = "conservative"
	Aggressive   Preset = "aggressive"
)

// PresetConfig returns the named preset's configuration, or an error if
// the name is unknown.
func PresetConfig(p Preset) (Config, error) {
	switch p {
	case Conservative:
		return Config{
			MomentumThreshold: 0.4,
			RSIOversold:       20,
			RSIOverbought:     80,
			ShortPeriod:       10,
			LongPeriod:        30,
			RSIPeriod:         14,
			PositionSize:      25,
			StopLossPct:       1.0,
			TakeProfitPct:     2.0,
		}, nil
	case Aggressive:
		return Config{
			MomentumThreshold: 0.25,
			RSIOversold:       30,
			RSIOverbought:     70,
			ShortPeriod:       3,
			LongPeriod:        15,
			RSIPeriod:         14,
			PositionSize:      75,
			StopLossPct:       2.5,
			TakeProfitPct:     4.0,
		}, nil
	default:
		return Config{}, fmt.Errorf("unknown strategy preset %q", p)
	}
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.ShortPeriod <= 0 || c.LongPeriod <= 0 {
		return errors.New("strategy: short and long periods must be > 0")
	}
	if c.ShortPeriod >= c.LongPeriod {
		return errors.New("strategy: short period must be less than long period")
	}
	if c.RSIPeriod <= 0 {
		return errors.New("strategy: rsi period must be > 0")
	}
	if c.PositionSize == 0 {
		return errors.New("strategy: position size must be > 0")
	}
	return nil
}

// Signal is the diagnostic record of one Evaluate call, independent of
// whether it produced an Order.
type Signal struct {
	Kind        SignalKind
	Reason      string
	Confidence  float64 // in [0, 1]
	RealisedPnL float64 // percent; only meaningful for SellSignal exits
}

// Engine maintains the rolling price/volume history, open-position
// state, and last-signal record described in spec.md §3 and §4.4.
type Engine struct {
	cfg Config

	prices  []float64
	volumes []float64

	inPosition bool
	entryPrice float64

	lastSignal Signal
	nextID     uint64
}

// NewEngine validates cfg and constructs a fresh strategy engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine's current configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetConfig swaps the engine's configuration, e.g. on a hot config
// reload. It does not touch accumulated history or position state.
func (e *Engine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

// InPosition reports whether the engine currently holds an open long.
func (e *Engine) InPosition() bool { return e.inPosition }

// EntryPrice returns the entry price of the current open position; its
// value is meaningless when InPosition is false.
func (e *Engine) EntryPrice() float64 { return e.entryPrice }

// PriceHistoryLen returns the number of price points retained.
func (e *Engine) PriceHistoryLen() int { return len(e.prices) }

// LastSignal returns the most recently recorded signal (Hold by default,
// before any batch has been evaluated).
func (e *Engine) LastSignal() Signal { return e.lastSignal }

// Evaluate appends each Market-type input's price and quantity to the
// rolling history, then decides at most one Buy/Sell signal, returning
// the order to submit (nil for Hold) and the diagnostic Signal record.
// Evaluate never fails: insufficient history simply yields Hold.
func (e *Engine) Evaluate(marketInputs []*book.Order, now int64) (*book.Order, Signal) {
	for _, o := range marketInputs {
		if o.Type != book.Market {
			continue
		}
		e.pushHistory(float64(o.Price), float64(o.Quantity))
	}

	if len(e.prices) < e.cfg.LongPeriod {
		e.lastSignal = Signal{Kind: Hold}
		return nil, e.lastSignal
	}

	price := e.prices[len(e.prices)-1]
	momentum := indicators.MomentumScore(e.prices, e.cfg.ShortPeriod, e.cfg.LongPeriod)
	rsi := indicators.RSI(e.prices, e.cfg.RSIPeriod)
	macdLine, macdSignalLine := indicators.MACD(e.prices, macdFast, macdSlow, macdSignal)
	shortSMA := indicators.SMA(e.prices, e.cfg.ShortPeriod)
	macdBullish := macdLine > macdSignalLine

	confidence := e.confidence(momentum, rsi, macdLine, macdSignalLine)

	if e.inPosition {
		return e.evaluateExit(price, momentum, rsi, macdBullish, shortSMA, confidence, now)
	}
	return e.evaluateEntry(price, momentum, rsi, macdBullish, shortSMA, confidence, now)
}

func (e *Engine) pushHistory(price, qty float64) {
	e.prices = append(e.prices, price)
	e.volumes = append(e.volumes, qty)
	if len(e.prices) > maxHistory {
		e.prices = e.prices[len(e.prices)-maxHistory:]
		e.volumes = e.volumes[len(e.volumes)-maxHistory:]
	}
}

func (e *Engine) evaluateExit(price, momentum, rsi float64, macdBullish bool, shortSMA, confidence float64, now int64) (*book.Order, Signal) {
	pnlPct := (price - e.entryPrice) / e.entryPrice * 100

	if pnlPct <= -e.cfg.StopLossPct {
		return e.exit(price, confidence, pnlPct, fmt.Sprintf("Stop Loss triggered (P&L %.2f%%)", pnlPct), now)
	}
	if pnlPct >= e.cfg.TakeProfitPct {
		return e.exit(price, confidence, pnlPct, fmt.Sprintf("Take Profit triggered (P&L %.2f%%)", pnlPct), now)
	}

	softExit := momentum < 0 || rsi > e.cfg.RSIOverbought || !macdBullish || price < shortSMA
	if softExit {
		reason := e.indicatorReason(momentum, rsi, macdBullish, price, shortSMA)
		return e.exit(price, confidence, pnlPct, reason, now)
	}

	e.lastSignal = Signal{Kind: Hold}
	return nil, e.lastSignal
}

func (e *Engine) evaluateEntry(price, momentum, rsi float64, macdBullish bool, shortSMA, confidence float64, now int64) (*book.Order, Signal) {
	allConditions := momentum > e.cfg.MomentumThreshold &&
		rsi < e.cfg.RSIOverbought &&
		macdBullish &&
		price > shortSMA

	if !allConditions {
		e.lastSignal = Signal{Kind: Hold}
		return nil, e.lastSignal
	}

	order := e.newOrder(book.Buy, price, now)
	e.inPosition = true
	e.entryPrice = price

	reason := e.indicatorReason(momentum, rsi, macdBullish, price, shortSMA)
	e.lastSignal = Signal{Kind: BuySignal, Reason: reason, Confidence: confidence}
	return order, e.lastSignal
}

func (e *Engine) exit(price, confidence, pnlPct float64, reason string, now int64) (*book.Order, Signal) {
	order := e.newOrder(book.Sell, price, now)
	e.inPosition = false
	e.entryPrice = 0

	e.lastSignal = Signal{Kind: SellSignal, Reason: reason, Confidence: confidence, RealisedPnL: pnlPct}
	return order, e.lastSignal
}

func (e *Engine) newOrder(side book.Side, price float64, now int64) *book.Order {
	e.nextID++
	return &book.Order{
		ID:        e.nextID,
		Side:      side,
		Type:      book.Market,
		Price:     book.Price(price),
		Quantity:  e.cfg.PositionSize,
		CreatedAt: now,
	}
}

func (e *Engine) indicatorReason(momentum, rsi float64, macdBullish bool, price, shortSMA float64) string {
	macdWord := "Bearish"
	if macdBullish {
		macdWord = "Bullish"
	}
	vsWord := "Below"
	if price > shortSMA {
		vsWord = "Above"
	}
	return fmt.Sprintf("Momentum: %.2f, RSI: %.2f, MACD: %s, Price vs MA: %s (%.2f vs %.2f)",
		momentum, rsi, macdWord, vsWord, price/100, shortSMA/100)
}

// confidence computes a weighted [0,1] diagnostic combining momentum,
// RSI distance from neutral, and MACD line/signal divergence, per
// spec.md §4.4 step 7.
func (e *Engine) confidence(momentum, rsi, macdLine, macdSignalLine float64) float64 {
	momentumComponent := clamp01((momentum + 1) / 2)
	rsiComponent := clamp01(abs(rsi-50) / 50)
	macdComponent := clamp01(abs(macdLine-macdSignalLine) / 100)

	return clamp01(0.4*momentumComponent + 0.3*rsiComponent + 0.3*macdComponent)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
