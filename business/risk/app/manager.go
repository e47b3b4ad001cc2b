package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	marketDomain "github.com/solarb/solarb/business/market/domain"
	"github.com/solarb/solarb/business/risk/domain"
	"github.com/solarb/solarb/internal/eventbus"
)

// Manager approves, shrinks, or rejects proposed trade sizes and tracks
// exposure and P&L against the configured limits.
//
// All state is guarded by a single RWMutex: status reads proceed
// concurrently, trade recording takes exclusive access. No lock is ever
// held across a network call.
type Manager struct {
	mu sync.RWMutex

	config      domain.Config
	positions   map[string]decimal.Decimal
	dailyTrades []domain.TradeOutcome
	currentDay  time.Time
	lastLoss    time.Time

	breaker    *CircuitBreaker
	volatility *VolatilityTracker
	varCalc    *VarCalculator
	bus        *eventbus.Bus
}

// Manager defaults, matching the breaker and window sizes the rest of the
// system is tuned around.
const (
	defaultFailureThreshold = 3
	defaultSuccessThreshold = 5
	defaultBreakerTimeout   = 5 * time.Minute
	defaultVolWindow        = 20
	defaultVarConfidence    = 0.95
)

// NewManager creates a risk manager with the given limits.
func NewManager(config domain.Config, bus *eventbus.Bus) *Manager {
	return &Manager{
		config:     config,
		positions:  make(map[string]decimal.Decimal),
		currentDay: today(),
		breaker:    NewCircuitBreaker(defaultFailureThreshold, defaultSuccessThreshold, defaultBreakerTimeout, bus),
		volatility: NewVolatilityTracker(defaultVolWindow),
		varCalc:    NewVarCalculator(defaultVarConfidence),
		bus:        bus,
	}
}

// Breaker exposes the circuit breaker for orchestrator status reporting.
func (m *Manager) Breaker() *CircuitBreaker { return m.breaker }

// CanTrade runs the ordered risk checks for a proposed trade, short-circuiting
// on the first hit: breaker, loss cooldown, position cap, exposure headroom.
func (m *Manager) CanTrade(pair string, size decimal.Decimal) domain.Decision {
	if !m.breaker.CanExecute() {
		return m.reject("circuit breaker open - trading halted")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.lastLoss.IsZero() {
		elapsed := time.Since(m.lastLoss)
		if elapsed < m.config.LossCooldown {
			remaining := (m.config.LossCooldown - elapsed).Round(time.Second)
			return m.reject(fmt.Sprintf("cooldown active - %s remaining", remaining))
		}
	}

	if size.GreaterThan(m.config.MaxPositionSize) {
		return domain.Reduced(m.config.MaxPositionSize, "size reduced to max position limit")
	}

	exposure := m.totalExposureLocked()
	if exposure.Add(size).GreaterThan(m.config.MaxTotalExposure) {
		headroom := m.config.MaxTotalExposure.Sub(exposure)
		if headroom.LessThanOrEqual(decimal.Zero) {
			return m.reject("maximum exposure limit reached")
		}
		return domain.Reduced(headroom, "size reduced due to exposure limit")
	}

	return domain.Approved(size)
}

func (m *Manager) reject(reason string) domain.Decision {
	if m.bus != nil {
		m.bus.Publish(eventbus.TradeRejected{ID: "pre-check", Reason: reason})
	}
	return domain.Rejected(reason)
}

// CalculatePositionSize sizes a trade from the expected edge and current
// volatility. The result never exceeds the configured maximum or the
// available liquidity.
func (m *Manager) CalculatePositionSize(pair string, expectedProfitPct, availableLiquidity decimal.Decimal) decimal.Decimal {
	m.mu.RLock()
	base := m.config.MaxPositionSize
	m.mu.RUnlock()

	two := decimal.NewFromInt(2)

	// Full size above a 2% edge, linear scale-down below it.
	profitFactor := decimal.NewFromInt(1)
	if expectedProfitPct.LessThanOrEqual(two) {
		profitFactor = expectedProfitPct.Div(two)
	}
	if profitFactor.IsNegative() {
		profitFactor = decimal.Zero
	}

	// Shrink when the pair is moving: above 1% volatility the factor is
	// divided by the volatility percentage.
	if vol, ok := m.volatility.Volatility(pair); ok {
		volPct := vol.Mul(decimal.NewFromInt(100))
		if volPct.GreaterThan(decimal.NewFromInt(1)) {
			profitFactor = profitFactor.Div(volPct)
		}
	}

	size := base.Mul(profitFactor)

	if size.GreaterThan(availableLiquidity) {
		size = availableLiquidity
	}
	if size.GreaterThan(base) {
		size = base
	}
	return size
}

// RecordTrade feeds an outcome into the breaker and the daily ledger, and
// enforces the daily loss limit via an explicit breaker ForceOpen.
func (m *Manager) RecordTrade(outcome domain.TradeOutcome) {
	m.mu.Lock()

	m.rolloverLocked(outcome.Timestamp)

	if outcome.ProfitLoss.IsNegative() {
		m.lastLoss = outcome.Timestamp
	}
	m.dailyTrades = append(m.dailyTrades, outcome)
	dailyPnL := m.dailyPnLLocked()
	maxDailyLoss := m.config.MaxDailyLoss

	m.mu.Unlock()

	// Breaker and bus calls happen outside the manager lock.
	if outcome.ProfitLoss.IsNegative() {
		m.breaker.RecordFailure()
	} else {
		m.breaker.RecordSuccess()
	}

	if dailyPnL.LessThan(maxDailyLoss.Neg()) {
		m.breaker.ForceOpen("daily loss limit breached")
		if m.bus != nil {
			current, _ := dailyPnL.Neg().Float64()
			max, _ := maxDailyLoss.Float64()
			m.bus.Publish(eventbus.RiskLimitBreached{
				LimitType: "daily_loss",
				Current:   current,
				Max:       max,
			})
		}
	}
}

// UpdatePosition sets the committed notional for a pair, removing the entry
// when the size reaches zero.
func (m *Manager) UpdatePosition(pair string, size decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if size.IsZero() {
		delete(m.positions, pair)
	} else {
		m.positions[pair] = size
	}
}

// UpdateQuotes feeds mid prices into the volatility tracker.
func (m *Manager) UpdateQuotes(quotes []marketDomain.Quote) {
	for _, q := range quotes {
		m.volatility.UpdatePrice(q.Pair.Symbol(), q.MidPrice())
	}
}

// TotalExposure returns the sum of open positions.
func (m *Manager) TotalExposure() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalExposureLocked()
}

func (m *Manager) totalExposureLocked() decimal.Decimal {
	total := decimal.Zero
	for _, size := range m.positions {
		total = total.Add(size)
	}
	return total
}

// DailyPnL returns the running profit and loss for the current day.
func (m *Manager) DailyPnL() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dailyPnLLocked()
}

func (m *Manager) dailyPnLLocked() decimal.Decimal {
	total := decimal.Zero
	for _, t := range m.dailyTrades {
		total = total.Add(t.ProfitLoss)
	}
	return total
}

// ResetDaily clears the daily ledger. The breaker state deliberately
// survives a rollover; a forced-open breaker needs its timeout, not a new
// calendar day.
func (m *Manager) ResetDaily() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dailyTrades = nil
	m.currentDay = today()
}

// rolloverLocked clears the ledger if the outcome lands on a new UTC day.
// Caller holds m.mu.
func (m *Manager) rolloverLocked(ts time.Time) {
	day := ts.UTC().Truncate(24 * time.Hour)
	if day.After(m.currentDay) {
		m.dailyTrades = nil
		m.currentDay = day
	}
}

// IsPaused reports whether the breaker currently blocks trading.
func (m *Manager) IsPaused() bool {
	return !m.breaker.CanExecute()
}

// Status reports the current risk posture.
func (m *Manager) Status() domain.Status {
	paused := m.IsPaused()

	m.mu.RLock()
	defer m.mu.RUnlock()

	positions := make(map[string]decimal.Decimal, len(m.positions))
	for pair, size := range m.positions {
		positions[pair] = size
	}

	return domain.Status{
		TotalExposure: m.totalExposureLocked(),
		DailyPnL:      m.dailyPnLLocked(),
		PortfolioVaR:  m.varCalc.PortfolioVaR(positions, m.volatility),
		TradesToday:   len(m.dailyTrades),
		IsPaused:      paused,
		Positions:     positions,
	}
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
