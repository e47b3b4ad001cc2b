// Package app contains the arbitrage detection and orchestration services.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/solarb/solarb/business/arbitrage/domain"
	marketDomain "github.com/solarb/solarb/business/market/domain"
)

// TradeResult is the outcome of one execution attempt. Dry runs return the
// same shape as live attempts so the recording path does not care which
// mode produced it.
type TradeResult struct {
	Signature    string
	Success      bool
	ActualProfit decimal.Decimal
	Err          error
}

// Executor submits a sized opportunity for execution. Implementations own
// their own timeouts and retries; the orchestrator never preempts an
// in-flight dispatch.
type Executor interface {
	Name() string
	Execute(ctx context.Context, opp domain.Opportunity, size decimal.Decimal) TradeResult
}

// Strategy is a pluggable opportunity producer. UpdateState feeds each fresh
// quote into the strategy's internal model; Analyze turns the current batch
// into candidate opportunities.
type Strategy interface {
	Name() string
	UpdateState(quote marketDomain.Quote)
	Analyze(quotes []marketDomain.Quote) ([]domain.Opportunity, error)
}
