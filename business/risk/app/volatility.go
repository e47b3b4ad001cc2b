package app

import (
	"math"
	"sync"

	"github.com/shopspring/decimal"
)

// VolatilityTracker keeps a fixed-size rolling window of mid prices per pair
// and estimates volatility as the standard deviation of simple returns.
type VolatilityTracker struct {
	mu         sync.RWMutex
	windowSize int
	prices     map[string][]decimal.Decimal
}

// NewVolatilityTracker creates a tracker with the given window size.
func NewVolatilityTracker(windowSize int) *VolatilityTracker {
	if windowSize < 2 {
		windowSize = 2
	}
	return &VolatilityTracker{
		windowSize: windowSize,
		prices:     make(map[string][]decimal.Decimal),
	}
}

// UpdatePrice appends a mid price observation for the pair, evicting the
// oldest once the window is full.
func (t *VolatilityTracker) UpdatePrice(pair string, mid decimal.Decimal) {
	if !mid.IsPositive() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	window := append(t.prices[pair], mid)
	if len(window) > t.windowSize {
		window = window[len(window)-t.windowSize:]
	}
	t.prices[pair] = window
}

// Volatility returns the stddev of returns over the window as a fraction
// (0.01 = 1%). ok is false when there is not enough history.
func (t *VolatilityTracker) Volatility(pair string) (decimal.Decimal, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	window := t.prices[pair]
	if len(window) < 2 {
		return decimal.Zero, false
	}

	returns := make([]float64, 0, len(window)-1)
	for i := 1; i < len(window); i++ {
		prev, _ := window[i-1].Float64()
		cur, _ := window[i].Float64()
		if prev == 0 {
			continue
		}
		returns = append(returns, (cur-prev)/prev)
	}
	if len(returns) == 0 {
		return decimal.Zero, false
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return decimal.NewFromFloat(math.Sqrt(variance)), true
}

// ObservationCount returns how many prices are buffered for the pair.
func (t *VolatilityTracker) ObservationCount(pair string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.prices[pair])
}
