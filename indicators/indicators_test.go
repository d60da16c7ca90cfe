package indicators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nanoex-go/indicators"
)

func repeat(x float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = x
	}
	return out
}

func TestSMAInsufficientHistoryReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, indicators.SMA([]float64{1, 2}, 5))
}

func TestSMAConstantSeriesReturnsX(t *testing.T) {
	for _, x := range []float64{0, 1, 99.5, 10000} {
		assert.Equal(t, x, indicators.SMA(repeat(x, 10), 10))
	}
}

func TestSMAUsesOnlyLastPeriodElements(t *testing.T) {
	prices := []float64{100, 100, 100, 10, 20}
	assert.Equal(t, 15.0, indicators.SMA(prices, 2))
}

func TestRSIInsufficientHistoryReturnsNeutral(t *testing.T) {
	assert.Equal(t, 50.0, indicators.RSI([]float64{1, 2}, 5))
}

func TestRSIMonotonicIncreaseTendsToward100(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, 100.0, indicators.RSI(prices, 5))
}

func TestRSIMonotonicDecreaseTendsToward0(t *testing.T) {
	prices := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	assert.InDelta(t, 0.0, indicators.RSI(prices, 5), 1e-9)
}

func TestMACDInsufficientHistoryReturnsZero(t *testing.T) {
	line, signal := indicators.MACD([]float64{1, 2, 3}, 12, 26, 9)
	assert.Equal(t, 0.0, line)
	assert.Equal(t, 0.0, signal)
}

func TestMACDBullishWhenFastAboveSlow(t *testing.T) {
	prices := make([]float64, 40)
	price := 100.0
	for i := range prices {
		prices[i] = price
		price *= 1.02 // accelerating uptrend: the gap widens over time
	}
	line, signal := indicators.MACD(prices, 3, 10, 5)
	assert.Greater(t, line, signal, "accelerating uptrend should be bullish: macd line above its lagging signal")
}

func TestPriceChangePercentInsufficientHistoryReturnsZero(t *testing.T) {
	assert.Equal(t, 0.0, indicators.PriceChangePercent([]float64{1, 2}, 5))
}

func TestPriceChangePercent(t *testing.T) {
	prices := []float64{100, 101, 102, 103, 110}
	got := indicators.PriceChangePercent(prices, 4)
	assert.InDelta(t, 10.0, got, 1e-9)
}

func TestMomentumScoreAllComponentsAlignedPositive(t *testing.T) {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 + float64(i) // strong steady uptrend
	}
	score := indicators.MomentumScore(prices, 5, 15)
	assert.GreaterOrEqual(t, score, 1.0/3.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestMomentumScoreEmptyHistory(t *testing.T) {
	assert.Equal(t, 0.0, indicators.MomentumScore(nil, 5, 15))
}
