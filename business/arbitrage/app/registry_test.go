package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/solarb/solarb/business/arbitrage/domain"
	marketDomain "github.com/solarb/solarb/business/market/domain"
	"github.com/solarb/solarb/internal/logger"
)

type stubStrategy struct {
	name    string
	opps    []domain.Opportunity
	err     error
	updates int
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) UpdateState(marketDomain.Quote) { s.updates++ }

func (s *stubStrategy) Analyze([]marketDomain.Quote) ([]domain.Opportunity, error) {
	return s.opps, s.err
}

func TestRegistryIsolatesFailingStrategy(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	r := NewRegistry(log)

	healthy := &stubStrategy{
		name: "healthy",
		opps: []domain.Opportunity{{}, {}},
	}
	broken := &stubStrategy{
		name: "broken",
		err:  errors.New("model exploded"),
	}
	r.Register(broken)
	r.Register(healthy)

	got := r.Analyze(context.Background(), nil)
	if len(got) != 2 {
		t.Fatalf("opportunities = %d, want 2 from the healthy strategy", len(got))
	}
}

func TestRegistryFansOutUpdates(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	r := NewRegistry(log)

	a := &stubStrategy{name: "a"}
	b := &stubStrategy{name: "b"}
	r.Register(a)
	r.Register(b)

	quotes := []marketDomain.Quote{
		quote(marketDomain.VenueRaydium, "SOL", "USDC", "100", "100.1"),
		quote(marketDomain.VenueOrca, "SOL", "USDC", "100", "100.2"),
	}
	r.UpdateState(quotes)

	if a.updates != 2 || b.updates != 2 {
		t.Fatalf("updates = %d/%d, want 2 each", a.updates, b.updates)
	}
}

func TestRegistryNames(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	r := NewRegistry(log)
	r.Register(&stubStrategy{name: "first"})
	r.Register(&stubStrategy{name: "second"})

	names := r.Names()
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Fatalf("Names() = %v", names)
	}
}
