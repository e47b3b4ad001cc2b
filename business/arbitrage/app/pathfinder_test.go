package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/solarb/solarb/business/arbitrage/domain"
	marketDomain "github.com/solarb/solarb/business/market/domain"
)

func TestPathFinderFindsTriangularCycle(t *testing.T) {
	f := NewPathFinder(3)

	// SOL -> USDC at 100, USDC -> RAY at 0.5 (RAY/USDC bid 2), and a
	// mispriced RAY -> SOL at 0.0476 (~21 SOL per RAY round trip).
	f.AddQuote(quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"))
	f.AddQuote(quote(marketDomain.VenueOrca, "RAY", "USDC", "2.0", "2.01"))
	f.AddQuote(quote(marketDomain.VenueJupiter, "RAY", "SOL", "0.0476", "0.048"))

	paths := f.FindTriangularPaths("SOL")
	if len(paths) == 0 {
		t.Fatal("no profitable cycle found from SOL")
	}

	best := paths[0]
	if !best.Profitable() {
		t.Fatalf("best path ratio = %s, want > 1", best.ProfitRatio)
	}
	if got := best.Route(); got != "SOL -> USDC -> RAY -> SOL" {
		t.Fatalf("route = %q", got)
	}
}

func TestPathFinderNoCycleOnFairPrices(t *testing.T) {
	f := NewPathFinder(4)

	// Consistent pricing: SOL=100 USDC, RAY=2 USDC, RAY=0.02 SOL.
	f.AddQuote(quote(marketDomain.VenueRaydium, "SOL", "USDC", "99.9", "100.1"))
	f.AddQuote(quote(marketDomain.VenueOrca, "RAY", "USDC", "1.99", "2.01"))
	f.AddQuote(quote(marketDomain.VenueJupiter, "RAY", "SOL", "0.0199", "0.0201"))

	if paths := f.FindAllProfitablePaths(); len(paths) != 0 {
		t.Fatalf("found %d cycles on fair prices, want 0", len(paths))
	}
}

func TestPathFinderDeduplicatesAcrossStarts(t *testing.T) {
	f := NewPathFinder(3)

	f.AddQuote(quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"))
	f.AddQuote(quote(marketDomain.VenueOrca, "RAY", "USDC", "2.0", "2.01"))
	f.AddQuote(quote(marketDomain.VenueJupiter, "RAY", "SOL", "0.0476", "0.048"))

	all := f.FindAllProfitablePaths()

	seen := make(map[string]int)
	for _, p := range all {
		seen[cycleKey(p)]++
	}
	for key, count := range seen {
		if count > 1 {
			t.Fatalf("cycle %q returned %d times", key, count)
		}
	}
}

func TestPathFinderRespectsMaxHops(t *testing.T) {
	f := NewPathFinder(2)

	// The profitable loop needs 3 hops; a 2-hop bound must not find it.
	f.AddQuote(quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"))
	f.AddQuote(quote(marketDomain.VenueOrca, "RAY", "USDC", "2.0", "2.01"))
	f.AddQuote(quote(marketDomain.VenueJupiter, "RAY", "SOL", "0.0476", "0.048"))

	for _, p := range f.FindAllProfitablePaths() {
		if len(p.Edges) > 2 {
			t.Fatalf("path with %d edges found under a 2-hop bound", len(p.Edges))
		}
	}
}

func TestPathFinderUnknownStartToken(t *testing.T) {
	f := NewPathFinder(4)
	f.AddQuote(quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"))

	if paths := f.FindTriangularPaths("BONK"); paths != nil {
		t.Fatalf("paths from unknown token = %v, want nil", paths)
	}
}

func TestPathFinderClearResetsGraph(t *testing.T) {
	f := NewPathFinder(3)
	f.AddQuote(quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"))
	f.AddQuote(quote(marketDomain.VenueOrca, "RAY", "USDC", "2.0", "2.01"))
	f.AddQuote(quote(marketDomain.VenueJupiter, "RAY", "SOL", "0.0476", "0.048"))

	f.Clear()

	if paths := f.FindAllProfitablePaths(); len(paths) != 0 {
		t.Fatalf("found %d cycles after Clear", len(paths))
	}
}

func TestEdgeEffectiveRate(t *testing.T) {
	e := domain.Edge{
		Rate: decimal.RequireFromString("100"),
		Fee:  decimal.RequireFromString("0.30"),
	}
	// 100 x (1 - 0.003) = 99.7
	if got := e.EffectiveRate(); !got.Equal(decimal.RequireFromString("99.7")) {
		t.Fatalf("EffectiveRate() = %s, want 99.7", got)
	}
}

func TestPathOptimalSizeCapsAtLiquidity(t *testing.T) {
	p := domain.Path{MinLiquidity: decimal.NewFromInt(500)}
	if got := p.OptimalSize(decimal.NewFromInt(1000)); !got.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("OptimalSize = %s, want 500", got)
	}
	if got := p.OptimalSize(decimal.NewFromInt(200)); !got.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("OptimalSize = %s, want 200", got)
	}
}
