package app

import (
	"math"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/solarb/solarb/business/arbitrage/domain"
	marketDomain "github.com/solarb/solarb/business/market/domain"
)

// Statistical is a mean-reversion strategy. It keeps a rolling window of mid
// prices per pair and signals when the current price's z-score against that
// window crosses a threshold: far above the mean it sells expecting
// reversion down, far below it buys expecting reversion up.
type Statistical struct {
	mu         sync.RWMutex
	history    map[string][]decimal.Decimal
	windowSize int
	threshold  decimal.Decimal

	// baseSize anchors confidence-scaled sizing: size = base x min(|z|, 5).
	baseSize decimal.Decimal
}

// NewStatistical creates the strategy with the given window and z-score
// threshold.
func NewStatistical(windowSize int, threshold decimal.Decimal) *Statistical {
	if windowSize < 2 {
		windowSize = 2
	}
	return &Statistical{
		history:    make(map[string][]decimal.Decimal),
		windowSize: windowSize,
		threshold:  threshold,
		baseSize:   decimal.NewFromInt(100),
	}
}

// Name identifies the strategy in logs and events.
func (s *Statistical) Name() string { return "statistical-mean-reversion" }

// UpdateState appends the quote's mid price to the pair's window.
func (s *Statistical) UpdateState(q marketDomain.Quote) {
	mid := q.MidPrice()
	if !mid.IsPositive() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	window := append(s.history[q.Pair.Symbol()], mid)
	if len(window) > s.windowSize {
		window = window[len(window)-s.windowSize:]
	}
	s.history[q.Pair.Symbol()] = window
}

// Analyze emits one opportunity per quote whose mid price deviates from its
// historical mean by more than the threshold, priced against the mean.
func (s *Statistical) Analyze(quotes []marketDomain.Quote) ([]domain.Opportunity, error) {
	var opportunities []domain.Opportunity

	for _, q := range quotes {
		z, mean, ok := s.zScore(q)
		if !ok || z.Abs().LessThanOrEqual(s.threshold) {
			continue
		}

		// Above the mean: sell here, expect to re-enter at the mean.
		// Below the mean: buy here at the ask, exit at the mean.
		var buyVenue, sellVenue marketDomain.Venue
		var buyPrice, sellPrice decimal.Decimal
		if z.IsPositive() {
			buyVenue, sellVenue = marketDomain.VenueJupiter, q.Venue
			buyPrice, sellPrice = mean, q.Ask
		} else {
			buyVenue, sellVenue = q.Venue, marketDomain.VenueJupiter
			buyPrice, sellPrice = q.Ask, mean
		}

		if !buyPrice.IsPositive() {
			continue
		}
		hundred := decimal.NewFromInt(100)
		gross := sellPrice.Sub(buyPrice).Div(buyPrice).Mul(hundred)
		net := gross.Sub(buyVenue.FeePercentage()).Sub(sellVenue.FeePercentage())
		if !net.IsPositive() {
			continue
		}

		confidence := decimal.Min(z.Abs(), decimal.NewFromInt(5))
		size := s.baseSize.Mul(confidence)

		opp := domain.NewOpportunity(q.Pair, buyVenue, sellVenue, buyPrice, sellPrice, gross, net)
		opp.Source = s.Name()
		opp.RecommendedSize = size
		opp.EstimatedProfitUSD = size.Mul(net).Div(hundred)
		opportunities = append(opportunities, opp)
	}

	return opportunities, nil
}

// zScore returns the standardized deviation of the quote's mid price from
// the pair's window mean. ok is false until the window fills.
func (s *Statistical) zScore(q marketDomain.Quote) (z, mean decimal.Decimal, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window := s.history[q.Pair.Symbol()]
	if len(window) < s.windowSize {
		return decimal.Zero, decimal.Zero, false
	}

	sum := decimal.Zero
	for _, v := range window {
		sum = sum.Add(v)
	}
	count := decimal.NewFromInt(int64(len(window)))
	mean = sum.Div(count)

	varianceSum := decimal.Zero
	for _, v := range window {
		d := v.Sub(mean)
		varianceSum = varianceSum.Add(d.Mul(d))
	}
	if varianceSum.IsZero() {
		return decimal.Zero, mean, true
	}

	variance, _ := varianceSum.Div(count).Float64()
	stddev := decimal.NewFromFloat(math.Sqrt(variance))
	if stddev.IsZero() {
		return decimal.Zero, mean, true
	}

	return q.MidPrice().Sub(mean).Div(stddev), mean, true
}
