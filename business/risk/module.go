// Package risk implements the risk management bounded context: trade
// approval, position sizing, and the trading circuit breaker.
package risk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	riskApp "github.com/solarb/solarb/business/risk/app"
	riskDI "github.com/solarb/solarb/business/risk/di"
	riskDomain "github.com/solarb/solarb/business/risk/domain"
	"github.com/solarb/solarb/internal/config"
	"github.com/solarb/solarb/internal/di"
	"github.com/solarb/solarb/internal/eventbus"
	"github.com/solarb/solarb/internal/monolith"
)

// Module implements the risk bounded context.
type Module struct{}

// RegisterServices registers risk services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, riskDI.RiskManager, func(sr di.ServiceRegistry) *riskApp.Manager {
		store := sr.Get("config").(*config.Store)
		bus := sr.Get("bus").(*eventbus.Bus)

		return riskApp.NewManager(limitsFromConfig(store.Snapshot()), bus)
	})

	return nil
}

// Startup initializes the risk module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	manager := riskDI.GetRiskManager(mono.Services())
	status := manager.Status()

	mono.Logger().Info(ctx, "risk module started",
		"breaker", manager.Breaker().State().String(),
		"exposure", status.TotalExposure.String())
	return nil
}

func limitsFromConfig(cfg *config.Config) riskDomain.Config {
	return riskDomain.Config{
		MaxPositionSize:    cfg.Risk.MaxPositionSizeDecimal(),
		MaxTotalExposure:   cfg.Risk.MaxTotalExposureDecimal(),
		MaxDailyLoss:       cfg.Risk.MaxDailyLossDecimal(),
		MinProfitThreshold: decimal.NewFromFloat(cfg.Risk.MinProfitThreshold),
		MaxSlippage:        decimal.NewFromFloat(cfg.Risk.MaxSlippage),
		LossCooldown:       time.Duration(cfg.Risk.LossCooldownSeconds) * time.Second,
	}
}
