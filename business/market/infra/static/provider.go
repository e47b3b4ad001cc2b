// Package static implements a fixed-quote PriceSource for dry runs and tests.
package static

import (
	"context"
	"sync"

	"github.com/solarb/solarb/business/market/domain"
)

// Provider serves a configurable set of quotes with fresh timestamps.
type Provider struct {
	name string

	mu     sync.RWMutex
	quotes map[string][]domain.Quote // pair symbol -> quotes across venues
}

// New creates an empty static provider.
func New(name string) *Provider {
	return &Provider{
		name:   name,
		quotes: make(map[string][]domain.Quote),
	}
}

// Name implements app.PriceSource.
func (p *Provider) Name() string { return p.name }

// SetQuote installs or replaces the quote for (pair, venue).
func (p *Provider) SetQuote(q domain.Quote) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := q.Pair.Symbol()
	existing := p.quotes[key]
	for i, prev := range existing {
		if prev.Venue == q.Venue {
			existing[i] = q
			return
		}
	}
	p.quotes[key] = append(existing, q)
}

// GetPrices returns the installed quotes for the requested pairs, restamped
// to now so they are never stale.
func (p *Provider) GetPrices(_ context.Context, pairs []domain.TokenPair) ([]domain.Quote, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []domain.Quote
	for _, pair := range pairs {
		for _, q := range p.quotes[pair.Symbol()] {
			fresh := domain.NewQuote(q.Venue, q.Pair, q.Bid, q.Ask)
			fresh.Liquidity = q.Liquidity
			fresh.Volume24h = q.Volume24h
			out = append(out, fresh)
		}
	}
	return out, nil
}
