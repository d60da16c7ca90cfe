// Package indicators provides stateless technical-indicator functions
// over a rolling price window. Every function is pure, restartable, and
// returns a safe "no opinion" default when the window is shorter than
// the period it needs.
package indicators

import "math"

// SMA returns the arithmetic mean of the last period values, or 0 if
// fewer than period values are available.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	window := values[len(values)-period:]
	sum := 0.0
	for _, v := range window {
		sum += v
	}
	return sum / float64(period)
}

// RSI returns the relative strength index over the last period price
// changes. It returns 50 (neutral) if the window is too short, and 100
// if the average loss over the window is zero.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50
	}

	window := prices[len(prices)-period-1:]
	var gainSum, lossSum float64
	for i := 1; i < len(window); i++ {
		diff := window[i] - window[i-1]
		if diff > 0 {
			gainSum += diff
		} else {
			lossSum += -diff
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns (macd_line, signal_line). macd_line is the difference of
// the fast and slow SMAs; signal_line is the SMA of macd_line's own
// history over the signal period. Both are 0 when the window is too
// short for either leg.
func MACD(prices []float64, fast, slow, signal int) (macdLine, signalLine float64) {
	if len(prices) < slow {
		return 0, 0
	}

	// Build the macd-line history far enough back to feed the signal SMA.
	histLen := signal
	if histLen < 1 {
		histLen = 1
	}
	start := len(prices) - slow - histLen + 1
	if start < 0 {
		start = 0
	}

	var history []float64
	for end := start + slow; end <= len(prices); end++ {
		window := prices[:end]
		history = append(history, SMA(window, fast)-SMA(window, slow))
	}
	if len(history) == 0 {
		return 0, 0
	}

	macdLine = history[len(history)-1]
	signalLine = SMA(history, signal)
	return macdLine, signalLine
}

// PriceChangePercent returns the percentage change from period steps ago
// to the latest price, or 0 if insufficient history exists.
func PriceChangePercent(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 0
	}
	last := prices[len(prices)-1]
	base := prices[len(prices)-period-1]
	if base == 0 {
		return 0
	}
	return (last - base) / base * 100
}

// MomentumScore combines three signed components — price vs short SMA,
// short SMA vs long SMA, and tanh-compressed short-period percent
// change — into their arithmetic mean, a value in roughly [-1, 1]. It
// returns 0 when prices holds fewer than short or long points.
func MomentumScore(prices []float64, short, long int) float64 {
	if len(prices) == 0 || len(prices) < short || len(prices) < long {
		return 0
	}

	last := prices[len(prices)-1]
	shortSMA := SMA(prices, short)
	longSMA := SMA(prices, long)

	priceVsShort := sign(last - shortSMA)
	shortVsLong := sign(shortSMA - longSMA)
	changeComponent := math.Tanh(PriceChangePercent(prices, short) / 10)

	return (priceVsShort + shortVsLong + changeComponent) / 3
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
