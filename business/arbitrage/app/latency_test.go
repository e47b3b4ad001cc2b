package app

import (
	"testing"
	"time"

	marketDomain "github.com/solarb/solarb/business/market/domain"
)

func agedQuote(venue marketDomain.Venue, bid, ask string, age time.Duration) marketDomain.Quote {
	q := quote(venue, "SOL", "USDC", bid, ask)
	q.Timestamp = time.Now().Add(-age)
	return q
}

func TestLatencyNoSignalWhenVenuesInSync(t *testing.T) {
	l := NewLatency(2 * time.Second)

	quotes := []marketDomain.Quote{
		agedQuote(marketDomain.VenueRaydium, "100", "100.1", 0),
		agedQuote(marketDomain.VenueOrca, "102", "102.2", 0),
	}
	for _, q := range quotes {
		l.UpdateState(q)
	}

	opps, err := l.Analyze(quotes)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(opps) != 0 {
		t.Fatalf("opportunities = %d, want 0 when venues update together", len(opps))
	}
}

func TestLatencyTradesAgainstLaggingVenue(t *testing.T) {
	l := NewLatency(2 * time.Second)

	// Raydium last updated five seconds ago and still shows the old price;
	// orca is fresh and has already moved up.
	quotes := []marketDomain.Quote{
		agedQuote(marketDomain.VenueRaydium, "100", "100.1", 5*time.Second),
		agedQuote(marketDomain.VenueOrca, "102", "102.2", 0),
	}
	for _, q := range quotes {
		l.UpdateState(q)
	}

	opps, err := l.Analyze(quotes)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("opportunities = %d, want 1", len(opps))
	}

	opp := opps[0]
	if opp.BuyVenue != marketDomain.VenueRaydium || opp.SellVenue != marketDomain.VenueOrca {
		t.Fatalf("direction = buy %s sell %s, want buy raydium sell orca", opp.BuyVenue, opp.SellVenue)
	}
	if opp.Source != l.Name() {
		t.Fatalf("source = %q, want %q", opp.Source, l.Name())
	}
	if !opp.NetPct.IsPositive() {
		t.Fatalf("net = %s, want positive", opp.NetPct)
	}
}

func TestLatencySubThresholdLagIgnored(t *testing.T) {
	l := NewLatency(2 * time.Second)

	quotes := []marketDomain.Quote{
		agedQuote(marketDomain.VenueRaydium, "100", "100.1", time.Second),
		agedQuote(marketDomain.VenueOrca, "102", "102.2", 0),
	}
	for _, q := range quotes {
		l.UpdateState(q)
	}

	opps, err := l.Analyze(quotes)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(opps) != 0 {
		t.Fatalf("opportunities = %d, want 0 below the lag threshold", len(opps))
	}
}

func TestLatencyFallsBackToQuoteTimestamps(t *testing.T) {
	l := NewLatency(2 * time.Second)

	// No UpdateState calls: the quotes' own timestamps carry the lag.
	opps, err := l.Analyze([]marketDomain.Quote{
		agedQuote(marketDomain.VenueRaydium, "100", "100.1", 5*time.Second),
		agedQuote(marketDomain.VenueOrca, "102", "102.2", 0),
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("opportunities = %d, want 1", len(opps))
	}
}
