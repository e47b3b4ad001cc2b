package app

import (
	"context"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/solarb/solarb/business/market/domain"
	"github.com/solarb/solarb/internal/eventbus"
	"github.com/solarb/solarb/internal/logger"
	"github.com/solarb/solarb/internal/ratelimit"
)

// PriceService fans out price collection across all registered sources.
//
// Each source is guarded by its own circuit breaker so one flaky venue
// cannot slow down or poison the rest of the cycle. A venue breaker here is
// a transport concern, separate from the trading breaker in the risk context.
type PriceService struct {
	sources  []PriceSource
	breakers map[string]*gobreaker.CircuitBreaker[[]domain.Quote]
	limiter  *ratelimit.Limiter
	bus      *eventbus.Bus
	log      *logger.Logger
}

// NewPriceService creates a service over the given sources.
func NewPriceService(sources []PriceSource, limiter *ratelimit.Limiter, bus *eventbus.Bus, log *logger.Logger) *PriceService {
	breakers := make(map[string]*gobreaker.CircuitBreaker[[]domain.Quote], len(sources))
	for _, src := range sources {
		breakers[src.Name()] = gobreaker.NewCircuitBreaker[[]domain.Quote](gobreaker.Settings{
			Name:    src.Name(),
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		})
	}

	return &PriceService{
		sources:  sources,
		breakers: breakers,
		limiter:  limiter,
		bus:      bus,
		log:      log,
	}
}

// CollectPrices fetches quotes from every source in parallel and joins the
// results. A failing source is logged and skipped; the cycle proceeds with
// whatever coverage the remaining sources provide.
func (s *PriceService) CollectPrices(ctx context.Context, pairs []domain.TokenPair) []domain.Quote {
	type result struct {
		source string
		quotes []domain.Quote
		err    error
	}

	results := make(chan result, len(s.sources))
	var wg sync.WaitGroup

	for _, src := range s.sources {
		wg.Add(1)
		go func(src PriceSource) {
			defer wg.Done()

			if err := s.limiter.Acquire(ctx); err != nil {
				results <- result{source: src.Name(), err: err}
				return
			}

			quotes, err := s.breakers[src.Name()].Execute(func() ([]domain.Quote, error) {
				return src.GetPrices(ctx, pairs)
			})
			results <- result{source: src.Name(), quotes: quotes, err: err}
		}(src)
	}

	wg.Wait()
	close(results)

	var all []domain.Quote
	for r := range results {
		if r.err != nil {
			s.log.Warn(ctx, "price source failed", "source", r.source, "error", r.err)
			continue
		}
		for _, q := range r.quotes {
			if !q.Valid() {
				s.log.Warn(ctx, "dropping invalid quote", "source", r.source, "pair", q.Pair.Symbol())
				continue
			}
			all = append(all, q)
		}
	}

	s.publishUpdates(all)
	s.validateCoverage(ctx, all, pairs)

	return all
}

func (s *PriceService) publishUpdates(quotes []domain.Quote) {
	if s.bus == nil {
		return
	}
	for _, q := range quotes {
		mid, _ := q.MidPrice().Float64()
		s.bus.Publish(eventbus.PriceUpdate{
			Pair:      q.Pair.Symbol(),
			Price:     mid,
			Source:    string(q.Venue),
			Timestamp: q.Timestamp.Unix(),
		})
	}
}

// validateCoverage logs pairs with no quotes at all. Missing coverage is a
// data-quality warning, never a cycle failure.
func (s *PriceService) validateCoverage(ctx context.Context, quotes []domain.Quote, pairs []domain.TokenPair) {
	seen := make(map[string]map[domain.Venue]bool)
	for _, q := range quotes {
		venues, ok := seen[q.Pair.Symbol()]
		if !ok {
			venues = make(map[domain.Venue]bool)
			seen[q.Pair.Symbol()] = venues
		}
		venues[q.Venue] = true
	}

	for _, pair := range pairs {
		venues := seen[pair.Symbol()]
		if len(venues) == 0 {
			s.log.Warn(ctx, "no price coverage for pair", "pair", pair.Symbol())
		} else if len(venues) == 1 {
			s.log.Debug(ctx, "single-venue coverage, cross-venue detection disabled for pair",
				"pair", pair.Symbol())
		}
	}
}
