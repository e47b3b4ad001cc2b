// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	arbApp "github.com/solarb/solarb/business/arbitrage/app"
	"github.com/solarb/solarb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Engine = di.NewToken[*arbApp.Engine]("arbitrage.Engine")
)

// Private dependency tokens - internal to the arbitrage module
var (
	Detector         = di.NewToken[*arbApp.Detector]("arbitrage:detector")
	PathFinder       = di.NewToken[*arbApp.PathFinder]("arbitrage:pathFinder")
	StrategyRegistry = di.NewToken[*arbApp.Registry]("arbitrage:strategyRegistry")
	Executor         = di.NewToken[arbApp.Executor]("arbitrage:executor")
)

// GetEngine resolves the trading engine.
func GetEngine(c di.ServiceRegistry) *arbApp.Engine {
	return di.GetToken(c, Engine)
}

// GetDetector resolves the cross-venue spread detector.
func GetDetector(c di.ServiceRegistry) *arbApp.Detector {
	return di.GetToken(c, Detector)
}

// GetPathFinder resolves the multi-hop path finder.
func GetPathFinder(c di.ServiceRegistry) *arbApp.PathFinder {
	return di.GetToken(c, PathFinder)
}

// GetStrategyRegistry resolves the strategy fan-out registry.
func GetStrategyRegistry(c di.ServiceRegistry) *arbApp.Registry {
	return di.GetToken(c, StrategyRegistry)
}

// GetExecutor resolves the configured trade executor.
func GetExecutor(c di.ServiceRegistry) arbApp.Executor {
	return di.GetToken(c, Executor)
}
