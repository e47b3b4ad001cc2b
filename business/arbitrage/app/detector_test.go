package app

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/solarb/solarb/business/market/domain"
)

func quote(venue marketDomain.Venue, base, quoteToken, bid, ask string) marketDomain.Quote {
	return marketDomain.NewQuote(
		venue,
		marketDomain.NewTokenPair(base, quoteToken),
		decimal.RequireFromString(bid),
		decimal.RequireFromString(ask),
	)
}

func TestDetectorFindsCrossVenueSpread(t *testing.T) {
	d := NewDetector()
	d.UpdateQuotes([]marketDomain.Quote{
		quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"),
		quote(marketDomain.VenueOrca, "SOL", "USDC", "102", "102.2"),
	})

	opps := d.FindAllOpportunities()
	if len(opps) != 1 {
		t.Fatalf("opportunities = %d, want 1", len(opps))
	}

	opp := opps[0]
	if opp.BuyVenue != marketDomain.VenueRaydium || opp.SellVenue != marketDomain.VenueOrca {
		t.Fatalf("direction = buy %s sell %s, want buy raydium sell orca", opp.BuyVenue, opp.SellVenue)
	}
	if opp.Source != detectorSource {
		t.Fatalf("source = %q, want %q", opp.Source, detectorSource)
	}

	// gross = (102 - 100.1) / 100.1 x 100 ~= 1.8981%
	low := decimal.RequireFromString("1.89")
	high := decimal.RequireFromString("1.90")
	if opp.GrossPct.LessThan(low) || opp.GrossPct.GreaterThan(high) {
		t.Fatalf("gross = %s, want within [%s, %s]", opp.GrossPct, low, high)
	}

	// net = gross - 0.25 (raydium) - 0.30 (orca)
	wantNet := opp.GrossPct.Sub(decimal.RequireFromString("0.55"))
	if !opp.NetPct.Equal(wantNet) {
		t.Fatalf("net = %s, want %s", opp.NetPct, wantNet)
	}
}

func TestDetectorNoOpportunityOnFairPrices(t *testing.T) {
	d := NewDetector()
	d.UpdateQuotes([]marketDomain.Quote{
		quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"),
		quote(marketDomain.VenueOrca, "SOL", "USDC", "100.05", "100.15"),
	})

	if opps := d.FindAllOpportunities(); len(opps) != 0 {
		t.Fatalf("opportunities = %d, want 0 on fair prices", len(opps))
	}
}

func TestDetectorDeterministicGivenSnapshot(t *testing.T) {
	d := NewDetector()
	d.UpdateQuotes([]marketDomain.Quote{
		quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"),
		quote(marketDomain.VenueOrca, "SOL", "USDC", "103", "103.2"),
		quote(marketDomain.VenuePhoenix, "SOL", "USDC", "101.5", "101.6"),
	})

	first := d.FindAllOpportunities()
	second := d.FindAllOpportunities()

	if len(first) != len(second) {
		t.Fatalf("scan sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].BuyVenue != second[i].BuyVenue ||
			first[i].SellVenue != second[i].SellVenue ||
			!first[i].NetPct.Equal(second[i].NetPct) {
			t.Fatalf("scan %d differs between runs", i)
		}
	}

	// Sorted by descending net profit.
	for i := 1; i < len(first); i++ {
		if first[i].NetPct.GreaterThan(first[i-1].NetPct) {
			t.Fatalf("results not sorted: %s before %s", first[i-1].NetPct, first[i].NetPct)
		}
	}
}

func TestDetectorOverwritesByPairAndVenue(t *testing.T) {
	d := NewDetector()
	d.UpdateQuotes([]marketDomain.Quote{
		quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"),
	})
	d.UpdateQuotes([]marketDomain.Quote{
		quote(marketDomain.VenueRaydium, "SOL", "USDC", "105", "105.1"),
	})

	if got := d.QuoteCount(); got != 1 {
		t.Fatalf("QuoteCount() = %d, want 1 after overwrite", got)
	}
}

func TestDetectorClearStale(t *testing.T) {
	d := NewDetector()
	d.UpdateQuotes([]marketDomain.Quote{
		quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"),
		quote(marketDomain.VenueOrca, "SOL", "USDC", "102", "102.2"),
	})

	time.Sleep(20 * time.Millisecond)
	d.ClearStale(10 * time.Millisecond)

	if got := d.QuoteCount(); got != 0 {
		t.Fatalf("QuoteCount() = %d, want 0 after stale sweep", got)
	}
	if opps := d.FindAllOpportunities(); len(opps) != 0 {
		t.Fatalf("opportunities = %d, want 0 after stale sweep", len(opps))
	}
}
