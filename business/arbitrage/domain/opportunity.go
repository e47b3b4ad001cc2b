// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	marketDomain "github.com/solarb/solarb/business/market/domain"
)

// Opportunity is an immutable snapshot of a detected price spread. It is
// evaluated once in the cycle that produced it and then discarded;
// opportunities never survive across cycles.
type Opportunity struct {
	ID         uuid.UUID
	Pair       marketDomain.TokenPair
	BuyVenue   marketDomain.Venue
	SellVenue  marketDomain.Venue
	BuyPrice   decimal.Decimal
	SellPrice  decimal.Decimal
	GrossPct   decimal.Decimal
	NetPct     decimal.Decimal
	detectedAt time.Time

	// Source names the detector or strategy that produced the opportunity.
	Source string

	// EstimatedProfitUSD and RecommendedSize are hints from the producing
	// strategy; zero when the producer has no sizing opinion.
	EstimatedProfitUSD decimal.Decimal
	RecommendedSize    decimal.Decimal

	// ExpiresAt is optional; zero means no explicit expiry.
	ExpiresAt time.Time
}

// NewOpportunity builds an opportunity with a fresh id and detection time.
func NewOpportunity(pair marketDomain.TokenPair, buyVenue, sellVenue marketDomain.Venue, buyPrice, sellPrice, grossPct, netPct decimal.Decimal) Opportunity {
	return Opportunity{
		ID:         uuid.New(),
		Pair:       pair,
		BuyVenue:   buyVenue,
		SellVenue:  sellVenue,
		BuyPrice:   buyPrice,
		SellPrice:  sellPrice,
		GrossPct:   grossPct,
		NetPct:     netPct,
		detectedAt: time.Now().UTC(),
	}
}

// DetectedAt returns when the opportunity was observed.
func (o Opportunity) DetectedAt() time.Time { return o.detectedAt }

// NetProfitBps returns the net edge in basis points.
func (o Opportunity) NetProfitBps() decimal.Decimal {
	return o.NetPct.Mul(decimal.NewFromInt(100))
}

// Expired reports whether the opportunity carries an expiry that has passed.
func (o Opportunity) Expired(now time.Time) bool {
	return !o.ExpiresAt.IsZero() && now.After(o.ExpiresAt)
}

// String renders a one-line summary for logs.
func (o Opportunity) String() string {
	return fmt.Sprintf("%s buy@%s on %s, sell@%s on %s (net %s%%)",
		o.Pair.Symbol(), o.BuyPrice, o.BuyVenue, o.SellPrice, o.SellVenue, o.NetPct.StringFixed(4))
}
