package app

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb/solarb/business/arbitrage/domain"
	marketApp "github.com/solarb/solarb/business/market/app"
	marketDomain "github.com/solarb/solarb/business/market/domain"
	riskApp "github.com/solarb/solarb/business/risk/app"
	riskDomain "github.com/solarb/solarb/business/risk/domain"
	"github.com/solarb/solarb/internal/apperror"
	"github.com/solarb/solarb/internal/config"
	"github.com/solarb/solarb/internal/eventbus"
	"github.com/solarb/solarb/internal/logger"
	"github.com/solarb/solarb/internal/metrics"
)

const (
	statusLogEvery      = 10
	healthEventEvery    = 20
	maxBackoffDoublings = 5
)

// Engine drives the trading loop. Each cycle is strictly sequential: price
// update, detection, risk check, execution, outcome recording. Across
// cycles only the cycle counter is ordered.
type Engine struct {
	cfg        *config.Store
	prices     *marketApp.PriceService
	detector   *Detector
	pathfinder *PathFinder
	registry   *Registry
	risk       *riskApp.Manager
	executor   Executor
	bus        *eventbus.Bus
	log        *logger.Logger
	inst       *metrics.EngineInstruments

	mu                sync.RWMutex
	startTime         time.Time
	cycleCount        uint64
	totalTrades       int
	successfulTrades  int
	consecutiveErrors int
}

// EngineDeps collects the engine's collaborators.
type EngineDeps struct {
	Config     *config.Store
	Prices     *marketApp.PriceService
	Detector   *Detector
	PathFinder *PathFinder
	Registry   *Registry
	Risk       *riskApp.Manager
	Executor   Executor
	Bus        *eventbus.Bus
	Log        *logger.Logger
	Inst       *metrics.EngineInstruments
}

// NewEngine wires the trading loop.
func NewEngine(deps EngineDeps) *Engine {
	return &Engine{
		cfg:        deps.Config,
		prices:     deps.Prices,
		detector:   deps.Detector,
		pathfinder: deps.PathFinder,
		registry:   deps.Registry,
		risk:       deps.Risk,
		executor:   deps.Executor,
		bus:        deps.Bus,
		log:        deps.Log,
		inst:       deps.Inst,
		startTime:  time.Now(),
	}
}

// Run executes cycles until the context is cancelled or the kill switch
// appears. It always returns nil on a clean stop; startup failures are the
// caller's problem, not Run's.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	e.startTime = time.Now()
	e.mu.Unlock()

	mode := "live"
	if e.cfg.Snapshot().Trading.DryRun {
		mode = "dry-run"
	}
	e.bus.Publish(eventbus.SystemStarted{Mode: mode})
	e.log.Info(ctx, "trading engine started", "mode", mode)

	for {
		snapshot := e.cfg.Snapshot()

		if e.killSwitchTripped(snapshot.Trading.KillSwitchFile) {
			e.log.Warn(ctx, "kill switch detected, stopping", "file", snapshot.Trading.KillSwitchFile)
			e.bus.Publish(eventbus.SystemStopping{Reason: "kill switch"})
			return nil
		}

		if !snapshot.Trading.Enabled {
			e.log.Debug(ctx, "trading disabled, idling")
			if !sleepCtx(ctx, snapshot.Trading.PollInterval()) {
				return nil
			}
			continue
		}

		cycleStart := time.Now()
		err := e.cycle(ctx, snapshot)
		e.inst.RecordCycle(ctx, time.Since(cycleStart))

		e.mu.Lock()
		e.cycleCount++
		cycles := e.cycleCount
		if err != nil {
			e.consecutiveErrors++
		} else {
			e.consecutiveErrors = 0
		}
		errStreak := e.consecutiveErrors
		e.mu.Unlock()

		if err != nil {
			e.handleCycleError(ctx, err, errStreak)
		}

		if cycles%statusLogEvery == 0 {
			e.logStatus(ctx)
		}
		if cycles%healthEventEvery == 0 {
			e.publishHealth()
		}

		wait := snapshot.Trading.PollInterval()
		if errStreak > 0 {
			wait = backoff(errStreak)
		}
		if !sleepCtx(ctx, wait) {
			return nil
		}
	}
}

// cycle runs one detection and execution pass.
func (e *Engine) cycle(ctx context.Context, snapshot *config.Config) error {
	pairs, err := parsePairs(snapshot.Trading.Pairs)
	if err != nil {
		return err
	}

	fetchStart := time.Now()
	quotes := e.prices.CollectPrices(ctx, pairs)
	e.inst.RecordPriceFetch(ctx, time.Since(fetchStart))

	if len(quotes) == 0 {
		return apperror.Transient(apperror.CodePriceNotAvailable, "no venue returned prices this cycle", nil)
	}

	// Feed every consumer from the same snapshot.
	e.detector.UpdateQuotes(quotes)
	e.detector.ClearStale(snapshot.Trading.MaxPriceAge())
	e.pathfinder.Clear()
	for _, q := range quotes {
		e.pathfinder.AddQuote(q)
	}
	e.risk.UpdateQuotes(quotes)
	e.registry.UpdateState(quotes)

	direct := e.detector.FindAllOpportunities()
	e.inst.RecordOpportunities(ctx, "detector", len(direct))

	strategic := e.registry.Analyze(ctx, quotes)
	e.inst.RecordOpportunities(ctx, "strategies", len(strategic))

	e.logPaths(ctx)

	opportunities := append(direct, strategic...)
	best, ok := pickBest(opportunities, snapshot.Trading.MinProfitPct())
	if !ok {
		return nil
	}

	e.bus.Publish(eventbus.OpportunityDetected{
		ID:                best.ID.String(),
		Strategy:          best.Source,
		ExpectedProfitBps: toFloat(best.NetProfitBps()),
	})

	return e.executeOpportunity(ctx, best, quotes, snapshot)
}

// executeOpportunity sizes, risk-checks, dispatches, and records one trade.
func (e *Engine) executeOpportunity(ctx context.Context, opp domain.Opportunity, quotes []marketDomain.Quote, snapshot *config.Config) error {
	liquidity := liquidityFor(quotes, opp)
	size := e.risk.CalculatePositionSize(opp.Pair.Symbol(), opp.NetPct, liquidity)
	if !size.IsPositive() {
		e.bus.Publish(eventbus.OpportunityExpired{ID: opp.ID.String(), Reason: "sized to zero"})
		return nil
	}

	decision := e.risk.CanTrade(opp.Pair.Symbol(), size)
	if !decision.Allowed() {
		e.log.Info(ctx, "trade rejected by risk manager",
			"opportunity", opp.ID.String(),
			"reason", decision.Reason)
		return nil
	}
	if decision.Kind == riskDomain.DecisionReduced {
		e.log.Info(ctx, "trade size reduced",
			"opportunity", opp.ID.String(),
			"size", decision.Size.String(),
			"reason", decision.Reason)
	}

	execStart := time.Now()
	result := e.executor.Execute(ctx, opp, decision.Size)
	execMs := time.Since(execStart).Milliseconds()

	outcome := riskDomain.TradeOutcome{
		Timestamp:  time.Now(),
		Pair:       opp.Pair.Symbol(),
		ProfitLoss: result.ActualProfit,
		Successful: result.Success,
	}
	e.risk.RecordTrade(outcome)
	e.inst.RecordTrade(ctx, result.Success)

	e.mu.Lock()
	e.totalTrades++
	if result.Success {
		e.successfulTrades++
	}
	e.mu.Unlock()

	e.bus.Publish(eventbus.TradeExecuted{
		ID:              opp.ID.String(),
		Pair:            opp.Pair.Symbol(),
		Success:         result.Success,
		Profit:          toFloat(result.ActualProfit),
		ExecutionTimeMs: execMs,
	})

	if result.Err != nil {
		return apperror.Wrap(result.Err, apperror.CodeExecutionFailed,
			"executor "+e.executor.Name()+" opportunity "+opp.ID.String())
	}

	e.log.Info(ctx, "trade executed",
		"opportunity", opp.ID.String(),
		"pair", opp.Pair.Symbol(),
		"venue_buy", string(opp.BuyVenue),
		"venue_sell", string(opp.SellVenue),
		"size", decision.Size.String(),
		"profit", result.ActualProfit.String(),
		"signature", result.Signature)
	return nil
}

// handleCycleError classifies and reports a cycle failure. Critical errors
// raise an emergency stop event; everything else is logged and backed off.
func (e *Engine) handleCycleError(ctx context.Context, err error, streak int) {
	switch {
	case apperror.IsCritical(err):
		e.log.Error(ctx, "critical failure in trading cycle",
			"error", err,
			"consecutive_errors", streak)
		e.bus.Publish(eventbus.EmergencyStop{Reason: err.Error()})
	case apperror.IsRetryable(err):
		e.log.Warn(ctx, "transient failure in trading cycle, backing off",
			"error", err,
			"consecutive_errors", streak,
			"backoff", backoff(streak).String())
	default:
		e.log.Error(ctx, "cycle failed",
			"error", err,
			"consecutive_errors", streak)
	}
}

func (e *Engine) logPaths(ctx context.Context) {
	paths := e.pathfinder.FindAllProfitablePaths()
	if len(paths) == 0 {
		return
	}
	best := paths[0]
	e.log.Info(ctx, "profitable cycles in trading graph",
		"count", len(paths),
		"best_route", best.Route(),
		"best_profit_pct", best.ProfitPercentage().StringFixed(4))
}

func (e *Engine) logStatus(ctx context.Context) {
	status := e.risk.Status()
	e.log.Info(ctx, "engine status",
		"cycles", e.CycleCount(),
		"trades_today", status.TradesToday,
		"daily_pnl", status.DailyPnL.String(),
		"exposure", status.TotalExposure.String(),
		"portfolio_var", status.PortfolioVaR.String(),
		"paused", status.IsPaused)
}

func (e *Engine) publishHealth() {
	e.mu.RLock()
	uptime := int64(time.Since(e.startTime).Seconds())
	total := e.totalTrades
	successful := e.successfulTrades
	e.mu.RUnlock()

	successRate := 1.0
	if total > 0 {
		successRate = float64(successful) / float64(total)
	}
	e.bus.Publish(eventbus.HealthCheck{
		UptimeSecs:  uptime,
		TotalTrades: uint64(total),
		SuccessRate: successRate,
	})
}

// Stats is a snapshot for the health endpoint.
type Stats struct {
	UptimeSecs       int64
	Cycles           uint64
	TotalTrades      int
	SuccessfulTrades int
	BreakerState     string
	Paused           bool
}

// Stats reports loop counters and breaker state.
func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Stats{
		UptimeSecs:       int64(time.Since(e.startTime).Seconds()),
		Cycles:           e.cycleCount,
		TotalTrades:      e.totalTrades,
		SuccessfulTrades: e.successfulTrades,
		BreakerState:     e.risk.Breaker().State().String(),
		Paused:           e.risk.IsPaused(),
	}
}

// CycleCount returns the number of completed cycles.
func (e *Engine) CycleCount() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cycleCount
}

func (e *Engine) killSwitchTripped(file string) bool {
	if file == "" {
		return false
	}
	_, err := os.Stat(file)
	return err == nil
}

// pickBest returns the highest-net opportunity at or above the floor.
func pickBest(opportunities []domain.Opportunity, minProfitPct decimal.Decimal) (domain.Opportunity, bool) {
	var best domain.Opportunity
	found := false
	for _, opp := range opportunities {
		if opp.NetPct.LessThan(minProfitPct) {
			continue
		}
		if !found || opp.NetPct.GreaterThan(best.NetPct) {
			best = opp
			found = true
		}
	}
	return best, found
}

// liquidityFor finds the buy-side liquidity for the opportunity, falling
// back to the sell side and then a conservative default.
func liquidityFor(quotes []marketDomain.Quote, opp domain.Opportunity) decimal.Decimal {
	fallback := decimal.Decimal{}
	for _, q := range quotes {
		if q.Pair != opp.Pair {
			continue
		}
		if q.Venue == opp.BuyVenue && q.Liquidity.IsPositive() {
			return q.Liquidity
		}
		if q.Venue == opp.SellVenue && q.Liquidity.IsPositive() {
			fallback = q.Liquidity
		}
	}
	if fallback.IsPositive() {
		return fallback
	}
	return defaultEdgeLiquidity
}

func parsePairs(symbols []string) ([]marketDomain.TokenPair, error) {
	pairs := make([]marketDomain.TokenPair, 0, len(symbols))
	for _, s := range symbols {
		pair, err := marketDomain.ParseTokenPair(s)
		if err != nil {
			return nil, apperror.Operational(apperror.CodeConfigurationError, "invalid trading pair "+s, err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// backoff returns 2^min(n,5) seconds.
func backoff(consecutiveErrors int) time.Duration {
	n := consecutiveErrors
	if n > maxBackoffDoublings {
		n = maxBackoffDoublings
	}
	return time.Duration(1<<uint(n)) * time.Second
}

// sleepCtx sleeps for d, returning false when the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
