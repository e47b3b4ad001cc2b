// Package arbitrage implements the arbitrage bounded context: opportunity
// detection, strategies, and the trading loop.
package arbitrage

import (
	"context"

	"github.com/shopspring/decimal"

	arbApp "github.com/solarb/solarb/business/arbitrage/app"
	arbDI "github.com/solarb/solarb/business/arbitrage/di"
	"github.com/solarb/solarb/business/arbitrage/infra/paper"
	marketDI "github.com/solarb/solarb/business/market/di"
	riskDI "github.com/solarb/solarb/business/risk/di"
	"github.com/solarb/solarb/internal/config"
	"github.com/solarb/solarb/internal/di"
	"github.com/solarb/solarb/internal/eventbus"
	"github.com/solarb/solarb/internal/logger"
	"github.com/solarb/solarb/internal/metrics"
	"github.com/solarb/solarb/internal/monolith"
)

// statWindowSize and statThreshold tune the mean-reversion strategy.
const statWindowSize = 20

var statThreshold = decimal.NewFromInt(2)

// Module implements the arbitrage bounded context.
type Module struct {
	// Instruments is optional; leave nil to run without metrics.
	Instruments *metrics.EngineInstruments
}

// RegisterServices registers arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbDI.Detector, func(di.ServiceRegistry) *arbApp.Detector {
		return arbApp.NewDetector()
	})

	di.RegisterToken(c, arbDI.PathFinder, func(sr di.ServiceRegistry) *arbApp.PathFinder {
		store := sr.Get("config").(*config.Store)
		return arbApp.NewPathFinder(store.Snapshot().Trading.MaxHops)
	})

	di.RegisterToken(c, arbDI.StrategyRegistry, func(sr di.ServiceRegistry) *arbApp.Registry {
		log := sr.Get("logger").(*logger.Logger)

		registry := arbApp.NewRegistry(log)
		registry.Register(arbApp.NewStatistical(statWindowSize, statThreshold))
		registry.Register(arbApp.NewLatency(0))
		return registry
	})

	di.RegisterToken(c, arbDI.Executor, func(sr di.ServiceRegistry) arbApp.Executor {
		log := sr.Get("logger").(*logger.Logger)
		return paper.NewExecutor(log)
	})

	di.RegisterToken(c, arbDI.Engine, func(sr di.ServiceRegistry) *arbApp.Engine {
		store := sr.Get("config").(*config.Store)
		log := sr.Get("logger").(*logger.Logger)
		bus := sr.Get("bus").(*eventbus.Bus)

		return arbApp.NewEngine(arbApp.EngineDeps{
			Config:     store,
			Prices:     marketDI.GetPriceService(sr),
			Detector:   arbDI.GetDetector(sr),
			PathFinder: arbDI.GetPathFinder(sr),
			Registry:   arbDI.GetStrategyRegistry(sr),
			Risk:       riskDI.GetRiskManager(sr),
			Executor:   arbDI.GetExecutor(sr),
			Bus:        bus,
			Log:        log,
			Inst:       m.Instruments,
		})
	})

	return nil
}

// Startup initializes the arbitrage module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	registry := arbDI.GetStrategyRegistry(mono.Services())
	executor := arbDI.GetExecutor(mono.Services())

	mono.Logger().Info(ctx, "arbitrage module started",
		"strategies", registry.Names(),
		"executor", executor.Name())
	return nil
}
