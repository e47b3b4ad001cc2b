package app

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb/solarb/business/arbitrage/domain"
	marketDomain "github.com/solarb/solarb/business/market/domain"
)

// detectorSource tags opportunities produced by the plain two-venue scan.
const detectorSource = "detector"

type quoteKey struct {
	pair  string
	venue marketDomain.Venue
}

// Detector finds simple two-venue spreads. It holds the latest quote per
// (pair, venue) and scans every venue ordering on demand. The scan is a pure
// read of the snapshot: deterministic given the same quotes.
type Detector struct {
	mu     sync.RWMutex
	quotes map[quoteKey]marketDomain.Quote
}

// NewDetector creates an empty detector.
func NewDetector() *Detector {
	return &Detector{quotes: make(map[quoteKey]marketDomain.Quote)}
}

// UpdateQuotes overwrites the stored quote for each (pair, venue) in the
// batch.
func (d *Detector) UpdateQuotes(quotes []marketDomain.Quote) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, q := range quotes {
		d.quotes[quoteKey{pair: q.Pair.Symbol(), venue: q.Venue}] = q
	}
}

// ClearStale drops quotes older than maxAge.
func (d *Detector) ClearStale(maxAge time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, q := range d.quotes {
		if q.IsStale(maxAge) {
			delete(d.quotes, key)
		}
	}
}

// QuoteCount returns how many (pair, venue) entries are held.
func (d *Detector) QuoteCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.quotes)
}

// FindAllOpportunities scans every pair for venue orderings (A, B) where
// buying at A's ask and selling at B's bid nets a profit after both venues'
// fees. Results are sorted by descending net profit.
func (d *Detector) FindAllOpportunities() []domain.Opportunity {
	d.mu.RLock()
	byPair := make(map[string][]marketDomain.Quote)
	for _, q := range d.quotes {
		symbol := q.Pair.Symbol()
		byPair[symbol] = append(byPair[symbol], q)
	}
	d.mu.RUnlock()

	var opportunities []domain.Opportunity
	for _, venueQuotes := range byPair {
		// Stable venue order keeps the scan deterministic regardless of
		// map iteration.
		sort.Slice(venueQuotes, func(i, j int) bool {
			return venueQuotes[i].Venue < venueQuotes[j].Venue
		})

		for _, buy := range venueQuotes {
			for _, sell := range venueQuotes {
				if buy.Venue == sell.Venue {
					continue
				}
				if opp, ok := spread(buy, sell); ok {
					opp.Source = detectorSource
					opportunities = append(opportunities, opp)
				}
			}
		}
	}

	sort.Slice(opportunities, func(i, j int) bool {
		return opportunities[i].NetPct.GreaterThan(opportunities[j].NetPct)
	})
	return opportunities
}

// spread computes the edge from buying at buy.Ask and selling at sell.Bid.
func spread(buy, sell marketDomain.Quote) (domain.Opportunity, bool) {
	if !buy.Ask.IsPositive() {
		return domain.Opportunity{}, false
	}

	hundred := decimal.NewFromInt(100)
	gross := sell.Bid.Sub(buy.Ask).Div(buy.Ask).Mul(hundred)
	net := gross.Sub(buy.Venue.FeePercentage()).Sub(sell.Venue.FeePercentage())

	if !net.IsPositive() {
		return domain.Opportunity{}, false
	}

	return domain.NewOpportunity(buy.Pair, buy.Venue, sell.Venue, buy.Ask, sell.Bid, gross, net), true
}
