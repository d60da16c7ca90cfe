package strategy

import (
	"strings"
	"testing"

	"nanoex-go/book"
)

func marketInput(price float64) *book.Order {
	return &book.Order{Type: book.Market, Price: book.Price(price), Quantity: 1}
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	if _, err := NewEngine(Config{}); err == nil {
		t.Fatal("expected error for zero-value config")
	}
}

func TestEvaluateInsufficientHistoryHolds(t *testing.T) {
	e, err := NewEngine(Config{
		MomentumThreshold: 0.3, RSIOversold: 30, RSIOverbought: 70,
		ShortPeriod: 5, LongPeriod: 20, RSIPeriod: 14, PositionSize: 10,
		StopLossPct: 1.5, TakeProfitPct: 3,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	order, sig := e.Evaluate([]*book.Order{marketInput(10000)}, 1)
	if order != nil {
		t.Fatalf("expected no order with insufficient history, got %+v", order)
	}
	if sig.Kind != Hold {
		t.Fatalf("expected Hold, got %v", sig.Kind)
	}
}

// TestEvaluateOpensOnAllConditionsBuy is spec scenario 4: a crafted price
// history satisfying momentum > threshold, RSI in (0, overbought), MACD
// bullish, and last price above the short SMA opens a long.
func TestEvaluateOpensOnAllConditionsBuy(t *testing.T) {
	e, err := NewEngine(Config{
		MomentumThreshold: 0.25, RSIOversold: 30, RSIOverbought: 70,
		ShortPeriod: 5, LongPeriod: 20, RSIPeriod: 14, PositionSize: 10,
		StopLossPct: 1.5, TakeProfitPct: 3,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	// 14 gently climbing filler points followed by a 15-point noisy
	// uptrend tail: keeps RSI off its 100 ceiling while still producing
	// positive momentum, a bullish MACD, and last price above its short
	// SMA.
	prices := []float64{
		100.0, 100.3, 100.6, 100.9, 101.2, 101.5, 101.8, 102.1, 102.4, 102.7, 103.0, 103.3, 103.6, 103.9,
		104.2, 105.7, 104.7, 106.2, 105.2, 106.7, 105.7, 107.2, 106.2, 107.7, 106.7, 108.2, 107.2, 108.7, 110.2,
	}
	var inputs []*book.Order
	for _, p := range prices {
		inputs = append(inputs, marketInput(p*100)) // convert to minor units
	}

	order, sig := e.Evaluate(inputs, 1)
	if order == nil {
		t.Fatalf("expected a Buy order, got Hold: %+v", sig)
	}
	if sig.Kind != BuySignal {
		t.Fatalf("expected BuySignal, got %v", sig.Kind)
	}
	if order.Side != book.Buy || order.Type != book.Market || order.Quantity != 10 {
		t.Fatalf("unexpected order shape: %+v", order)
	}
	if !e.InPosition() {
		t.Fatalf("expected engine to record an open position")
	}
	if sig.Confidence < 0 || sig.Confidence > 1 {
		t.Fatalf("confidence out of [0,1]: %v", sig.Confidence)
	}
}

// TestStopLossExit is spec scenario 5: entry at 10000, a price of 9849
// (-1.51%) with stop_loss_pct=1.5 must trigger a stop-loss exit.
func TestStopLossExit(t *testing.T) {
	e, err := NewEngine(Config{
		MomentumThreshold: 0.3, RSIOversold: 30, RSIOverbought: 70,
		ShortPeriod: 2, LongPeriod: 3, RSIPeriod: 3, PositionSize: 10,
		StopLossPct: 1.5, TakeProfitPct: 3,
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	e.inPosition = true
	e.entryPrice = 10000
	e.prices = []float64{10000, 9950, 9900}

	order, sig := e.Evaluate([]*book.Order{marketInput(9849)}, 1)

	if order == nil || sig.Kind != SellSignal {
		t.Fatalf("expected a stop-loss SellSignal, got order=%+v sig=%+v", order, sig)
	}
	if !strings.HasPrefix(sig.Reason, "Stop Loss triggered") {
		t.Fatalf("expected reason to begin with 'Stop Loss triggered', got %q", sig.Reason)
	}
	if e.InPosition() {
		t.Fatalf("expected position to be closed")
	}
	if sig.RealisedPnL > -1.50 || sig.RealisedPnL < -1.52 {
		t.Fatalf("expected realised pnl ~ -1.51%%, got %v", sig.RealisedPnL)
	}
}

func TestPresetConfigs(t *testing.T) {
	for _, p := range []Preset{Conservative, Aggressive} {
		cfg, err := PresetConfig(p)
		if err != nil {
			t.Fatalf("preset %v: %v", p, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("preset %v produced invalid config: %v", p, err)
		}
	}
	if _, err := PresetConfig("unknown"); err == nil {
		t.Fatal("expected error for unknown preset")
	}
}

func TestPriceHistoryEvictsBeyondCap(t *testing.T) {
	e, _ := NewEngine(DefaultConfig())
	for i := 0; i < maxHistory+50; i++ {
		e.pushHistory(float64(10000+i), 1)
	}
	if e.PriceHistoryLen() != maxHistory {
		t.Fatalf("expected history capped at %d, got %d", maxHistory, e.PriceHistoryLen())
	}
}
