package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time bid/ask snapshot for a pair on one venue.
// Produced by venue adapters; consumed read-only by the core.
type Quote struct {
	Venue     Venue
	Pair      TokenPair
	Bid       decimal.Decimal
	Ask       decimal.Decimal
	Volume24h decimal.Decimal // zero when the venue does not report it
	Liquidity decimal.Decimal // zero when the venue does not report it
	Timestamp time.Time
}

// NewQuote creates a quote captured now.
func NewQuote(venue Venue, pair TokenPair, bid, ask decimal.Decimal) Quote {
	return Quote{
		Venue:     venue,
		Pair:      pair,
		Bid:       bid,
		Ask:       ask,
		Timestamp: time.Now(),
	}
}

// MidPrice returns the bid/ask midpoint.
func (q Quote) MidPrice() decimal.Decimal {
	return q.Bid.Add(q.Ask).Div(decimal.NewFromInt(2))
}

// SpreadPct returns the bid/ask spread as a percentage of the mid price.
func (q Quote) SpreadPct() decimal.Decimal {
	mid := q.MidPrice()
	if mid.IsZero() {
		return decimal.Zero
	}
	return q.Ask.Sub(q.Bid).Div(mid).Mul(decimal.NewFromInt(100))
}

// IsStale reports whether the quote is older than maxAge.
func (q Quote) IsStale(maxAge time.Duration) bool {
	return time.Since(q.Timestamp) > maxAge
}

// Valid reports whether the quote has positive, ordered prices.
func (q Quote) Valid() bool {
	return q.Bid.IsPositive() && q.Ask.IsPositive() && !q.Ask.LessThan(q.Bid)
}
