// Package market implements the market data bounded context: venue adapters
// and cross-venue price collection.
package market

import (
	"context"

	marketApp "github.com/solarb/solarb/business/market/app"
	marketDI "github.com/solarb/solarb/business/market/di"
	"github.com/solarb/solarb/business/market/infra/jupiter"
	"github.com/solarb/solarb/internal/config"
	"github.com/solarb/solarb/internal/di"
	"github.com/solarb/solarb/internal/eventbus"
	"github.com/solarb/solarb/internal/logger"
	"github.com/solarb/solarb/internal/monolith"
	"github.com/solarb/solarb/internal/ratelimit"
)

// Module implements the market bounded context.
type Module struct{}

// RegisterServices registers market services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, marketDI.PriceSources, func(sr di.ServiceRegistry) []marketApp.PriceSource {
		store := sr.Get("config").(*config.Store)
		cfg := store.Snapshot()

		return []marketApp.PriceSource{
			jupiter.New(cfg.Venues.JupiterURL, cfg.Venues.RequestTimeout,
				cfg.RateLimit.VenueRequestsPerSecond),
		}
	})

	di.RegisterToken(c, marketDI.PriceService, func(sr di.ServiceRegistry) *marketApp.PriceService {
		store := sr.Get("config").(*config.Store)
		log := sr.Get("logger").(*logger.Logger)
		bus := sr.Get("bus").(*eventbus.Bus)
		cfg := store.Snapshot()

		limiter := ratelimit.PerSecond(cfg.RateLimit.PriceRequestsPerSecond)
		sources := marketDI.GetPriceSources(sr)
		return marketApp.NewPriceService(sources, limiter, bus, log)
	})

	return nil
}

// Startup initializes the market module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	// Resolve eagerly so wiring mistakes surface at startup, not mid-cycle.
	marketDI.GetPriceService(mono.Services())

	names := make([]string, 0)
	for _, src := range marketDI.GetPriceSources(mono.Services()) {
		names = append(names, src.Name())
	}

	mono.Logger().Info(ctx, "market module started", "sources", names)
	return nil
}
