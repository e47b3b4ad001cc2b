// Package paper provides a dry-run executor. It never touches the chain and
// returns the same result shape as a live attempt, so the orchestrator's
// recording path does not care which mode it runs in.
package paper

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/solarb/solarb/business/arbitrage/app"
	"github.com/solarb/solarb/business/arbitrage/domain"
	"github.com/solarb/solarb/internal/logger"
)

// slippageHaircut models average realized slippage against the quoted edge.
var slippageHaircut = decimal.RequireFromString("0.85")

// Executor simulates fills at the quoted prices minus a slippage haircut.
type Executor struct {
	log     *logger.Logger
	counter atomic.Uint64
}

// NewExecutor creates a paper executor.
func NewExecutor(log *logger.Logger) *Executor {
	return &Executor{log: log}
}

// Name identifies the executor in logs.
func (e *Executor) Name() string { return "paper" }

// Execute fills the opportunity at its quoted net edge, discounted for
// slippage. The synthetic signature keeps downstream consumers that expect
// one working.
func (e *Executor) Execute(ctx context.Context, opp domain.Opportunity, size decimal.Decimal) app.TradeResult {
	n := e.counter.Add(1)

	profit := size.Mul(opp.NetPct).Div(decimal.NewFromInt(100)).Mul(slippageHaircut)

	e.log.Info(ctx, "paper trade filled",
		"pair", opp.Pair.Symbol(),
		"buy_venue", string(opp.BuyVenue),
		"sell_venue", string(opp.SellVenue),
		"size", size.String(),
		"simulated_profit", profit.String())

	return app.TradeResult{
		Signature:    fmt.Sprintf("paper-%d-%08x", n, rand.Uint32()),
		Success:      true,
		ActualProfit: profit,
	}
}
