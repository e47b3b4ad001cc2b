package app

import (
	"sort"
	"sync"
	"time"

	"github.com/solarb/solarb/business/arbitrage/domain"
	marketDomain "github.com/solarb/solarb/business/market/domain"
)

// defaultMinLag is the update gap below which venues are considered in sync.
const defaultMinLag = 2 * time.Second

// Latency trades against venues whose quotes lag the rest of the market.
// When a venue's last update for a pair trails the freshest venue by more
// than minLag, its price has not caught up yet, and a spread against the
// fresh quote is expected to close in the fresh quote's favor.
type Latency struct {
	mu       sync.RWMutex
	lastSeen map[quoteKey]time.Time
	minLag   time.Duration
}

// NewLatency creates the strategy with the given lag threshold.
func NewLatency(minLag time.Duration) *Latency {
	if minLag <= 0 {
		minLag = defaultMinLag
	}
	return &Latency{
		lastSeen: make(map[quoteKey]time.Time),
		minLag:   minLag,
	}
}

// Name identifies the strategy in logs and events.
func (l *Latency) Name() string { return "latency-arbitrage" }

// UpdateState records the venue's last update time for the pair.
func (l *Latency) UpdateState(q marketDomain.Quote) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastSeen[quoteKey{pair: q.Pair.Symbol(), venue: q.Venue}] = q.Timestamp
}

// Analyze scans each pair for venues trailing the freshest venue by minLag
// or more and emits the spreads between the stale and fresh quotes that net
// a profit after both venues' fees.
func (l *Latency) Analyze(quotes []marketDomain.Quote) ([]domain.Opportunity, error) {
	byPair := make(map[string][]marketDomain.Quote)
	for _, q := range quotes {
		symbol := q.Pair.Symbol()
		byPair[symbol] = append(byPair[symbol], q)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var opportunities []domain.Opportunity
	for _, venueQuotes := range byPair {
		sort.Slice(venueQuotes, func(i, j int) bool {
			return venueQuotes[i].Venue < venueQuotes[j].Venue
		})

		fresh, ok := l.freshestLocked(venueQuotes)
		if !ok {
			continue
		}
		freshAt := l.seenAtLocked(fresh)

		for _, stale := range venueQuotes {
			if stale.Venue == fresh.Venue {
				continue
			}
			if freshAt.Sub(l.seenAtLocked(stale)) < l.minLag {
				continue
			}
			for _, legs := range [][2]marketDomain.Quote{{stale, fresh}, {fresh, stale}} {
				if opp, ok := spread(legs[0], legs[1]); ok {
					opp.Source = l.Name()
					opportunities = append(opportunities, opp)
				}
			}
		}
	}

	sort.Slice(opportunities, func(i, j int) bool {
		return opportunities[i].NetPct.GreaterThan(opportunities[j].NetPct)
	})
	return opportunities, nil
}

// seenAtLocked returns the recorded update time for the quote's venue,
// falling back to the quote's own timestamp.
func (l *Latency) seenAtLocked(q marketDomain.Quote) time.Time {
	if ts, ok := l.lastSeen[quoteKey{pair: q.Pair.Symbol(), venue: q.Venue}]; ok {
		return ts
	}
	return q.Timestamp
}

// freshestLocked picks the most recently updated quote; venue order breaks
// ties so the scan stays deterministic.
func (l *Latency) freshestLocked(quotes []marketDomain.Quote) (marketDomain.Quote, bool) {
	var best marketDomain.Quote
	var bestAt time.Time
	found := false
	for _, q := range quotes {
		at := l.seenAtLocked(q)
		if !found || at.After(bestAt) {
			best, bestAt, found = q, at, true
		}
	}
	return best, found
}
