package app

import (
	"context"

	"github.com/solarb/solarb/business/arbitrage/domain"
	marketDomain "github.com/solarb/solarb/business/market/domain"
	"github.com/solarb/solarb/internal/logger"
)

// Registry fans a quote batch out to every registered strategy. A strategy
// error is logged and skipped so one broken analyzer never starves the rest.
type Registry struct {
	strategies []Strategy
	log        *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{log: log}
}

// Register adds a strategy to the fan-out set.
func (r *Registry) Register(s Strategy) {
	r.strategies = append(r.strategies, s)
}

// Names lists the registered strategies.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.strategies))
	for _, s := range r.strategies {
		names = append(names, s.Name())
	}
	return names
}

// UpdateState feeds each quote into every strategy's internal model.
func (r *Registry) UpdateState(quotes []marketDomain.Quote) {
	for _, s := range r.strategies {
		for _, q := range quotes {
			s.UpdateState(q)
		}
	}
}

// Analyze runs every strategy over the batch and concatenates the results.
func (r *Registry) Analyze(ctx context.Context, quotes []marketDomain.Quote) []domain.Opportunity {
	var all []domain.Opportunity
	for _, s := range r.strategies {
		opps, err := s.Analyze(quotes)
		if err != nil {
			r.log.Warn(ctx, "strategy analysis failed",
				"strategy", s.Name(),
				"error", err)
			continue
		}
		all = append(all, opps...)
	}
	return all
}
