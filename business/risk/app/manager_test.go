package app

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb/solarb/business/risk/domain"
)

func newTestManager() *Manager {
	cfg := domain.Config{
		MaxPositionSize:    decimal.NewFromInt(1000),
		MaxTotalExposure:   decimal.NewFromInt(5000),
		MaxDailyLoss:       decimal.NewFromInt(100),
		MinProfitThreshold: decimal.RequireFromString("0.5"),
		MaxSlippage:        decimal.RequireFromString("1"),
		LossCooldown:       50 * time.Millisecond,
	}
	return NewManager(cfg, nil)
}

func TestCanTradeApprovesWithinLimits(t *testing.T) {
	m := newTestManager()

	d := m.CanTrade("SOL/USDC", decimal.NewFromInt(500))
	if d.Kind != domain.DecisionApproved {
		t.Fatalf("decision = %s (%q), want approved", d.Kind, d.Reason)
	}
	if !d.Size.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("approved size = %s, want 500", d.Size)
	}
}

func TestCanTradeReducesOversizedPosition(t *testing.T) {
	m := newTestManager()

	d := m.CanTrade("SOL/USDC", decimal.NewFromInt(2500))
	if d.Kind != domain.DecisionReduced {
		t.Fatalf("decision = %s, want reduced", d.Kind)
	}
	if !d.Size.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("reduced size = %s, want 1000", d.Size)
	}
}

func TestCanTradeExposureHeadroom(t *testing.T) {
	m := newTestManager()

	m.UpdatePosition("SOL/USDC", decimal.NewFromInt(1000))
	m.UpdatePosition("RAY/USDC", decimal.NewFromInt(1000))
	m.UpdatePosition("ORCA/USDC", decimal.NewFromInt(1000))
	m.UpdatePosition("JUP/USDC", decimal.NewFromInt(1000))
	m.UpdatePosition("BONK/USDC", decimal.NewFromInt(700))

	// 4700 committed, 300 headroom: a 1000 proposal is cut to 300.
	d := m.CanTrade("WIF/USDC", decimal.NewFromInt(1000))
	if d.Kind != domain.DecisionReduced {
		t.Fatalf("decision = %s, want reduced", d.Kind)
	}
	if !d.Size.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("reduced size = %s, want 300", d.Size)
	}

	// At the cap there is nothing left to allocate.
	m.UpdatePosition("WIF/USDC", decimal.NewFromInt(300))
	d = m.CanTrade("BONK/USDC", decimal.NewFromInt(100))
	if d.Kind != domain.DecisionRejected {
		t.Fatalf("decision = %s, want rejected at full exposure", d.Kind)
	}
}

func TestCanTradeRejectsWhileBreakerOpen(t *testing.T) {
	m := newTestManager()

	m.Breaker().ForceOpen("manual halt")

	d := m.CanTrade("SOL/USDC", decimal.NewFromInt(100))
	if d.Allowed() {
		t.Fatalf("trade allowed while breaker open, decision = %s", d.Kind)
	}
}

func TestCanTradeCooldownAfterLoss(t *testing.T) {
	m := newTestManager()

	m.RecordTrade(domain.TradeOutcome{
		Timestamp:  time.Now(),
		Pair:       "SOL/USDC",
		ProfitLoss: decimal.NewFromInt(-10),
		Successful: false,
	})

	d := m.CanTrade("SOL/USDC", decimal.NewFromInt(100))
	if d.Kind != domain.DecisionRejected {
		t.Fatalf("decision = %s, want rejected during cooldown", d.Kind)
	}

	time.Sleep(60 * time.Millisecond)

	d = m.CanTrade("SOL/USDC", decimal.NewFromInt(100))
	if d.Kind != domain.DecisionApproved {
		t.Fatalf("decision = %s (%q), want approved after cooldown", d.Kind, d.Reason)
	}
}

func TestRecordTradeDailyLossForcesBreakerOpen(t *testing.T) {
	m := newTestManager()

	// Two losses totalling -110 breach the -100 daily limit.
	m.RecordTrade(domain.TradeOutcome{
		Timestamp:  time.Now(),
		Pair:       "SOL/USDC",
		ProfitLoss: decimal.NewFromInt(-60),
	})
	m.RecordTrade(domain.TradeOutcome{
		Timestamp:  time.Now(),
		Pair:       "SOL/USDC",
		ProfitLoss: decimal.NewFromInt(-50),
	})

	if m.Breaker().State() != BreakerOpen {
		t.Fatalf("breaker state = %s, want open after daily loss breach", m.Breaker().State())
	}
	if got := m.Breaker().ForcedReason(); got != "daily loss limit breached" {
		t.Fatalf("ForcedReason() = %q", got)
	}
	if !m.IsPaused() {
		t.Fatal("IsPaused() = false after daily loss breach")
	}
}

func TestDailyPnLAccumulates(t *testing.T) {
	m := newTestManager()

	m.RecordTrade(domain.TradeOutcome{Timestamp: time.Now(), ProfitLoss: decimal.NewFromInt(30), Successful: true})
	m.RecordTrade(domain.TradeOutcome{Timestamp: time.Now(), ProfitLoss: decimal.NewFromInt(-12)})
	m.RecordTrade(domain.TradeOutcome{Timestamp: time.Now(), ProfitLoss: decimal.NewFromInt(5), Successful: true})

	if got := m.DailyPnL(); !got.Equal(decimal.NewFromInt(23)) {
		t.Fatalf("DailyPnL() = %s, want 23", got)
	}

	m.ResetDaily()
	if got := m.DailyPnL(); !got.IsZero() {
		t.Fatalf("DailyPnL() after reset = %s, want 0", got)
	}
}

func TestCalculatePositionSize(t *testing.T) {
	tests := []struct {
		name      string
		profitPct string
		liquidity string
		want      string
	}{
		{"full size above 2 percent", "3", "100000", "1000"},
		{"exactly 2 percent", "2", "100000", "1000"},
		{"linear below 2 percent", "1", "100000", "500"},
		{"half percent edge", "0.5", "100000", "250"},
		{"capped by liquidity", "3", "400", "400"},
		{"negative edge sizes to zero", "-1", "100000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager()
			got := m.CalculatePositionSize(
				"SOL/USDC",
				decimal.RequireFromString(tt.profitPct),
				decimal.RequireFromString(tt.liquidity),
			)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("CalculatePositionSize = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCalculatePositionSizeShrinksWithVolatility(t *testing.T) {
	m := newTestManager()

	// Swing the price hard so volatility climbs well above 1%.
	prices := []string{"100", "110", "100", "110", "100", "110"}
	for _, p := range prices {
		m.volatility.UpdatePrice("SOL/USDC", decimal.RequireFromString(p))
	}

	calm := m.CalculatePositionSize("RAY/USDC", decimal.NewFromInt(3), decimal.NewFromInt(100000))
	volatile := m.CalculatePositionSize("SOL/USDC", decimal.NewFromInt(3), decimal.NewFromInt(100000))

	if !volatile.LessThan(calm) {
		t.Fatalf("volatile size %s not smaller than calm size %s", volatile, calm)
	}
}

func TestUpdatePositionRemovesAtZero(t *testing.T) {
	m := newTestManager()

	m.UpdatePosition("SOL/USDC", decimal.NewFromInt(250))
	if got := m.TotalExposure(); !got.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("TotalExposure() = %s, want 250", got)
	}

	m.UpdatePosition("SOL/USDC", decimal.Zero)

	status := m.Status()
	if len(status.Positions) != 0 {
		t.Fatalf("positions = %v, want empty", status.Positions)
	}
	if !status.TotalExposure.IsZero() {
		t.Fatalf("TotalExposure = %s, want 0", status.TotalExposure)
	}
}

func TestStatusSnapshot(t *testing.T) {
	m := newTestManager()

	m.UpdatePosition("SOL/USDC", decimal.NewFromInt(1000))
	m.RecordTrade(domain.TradeOutcome{Timestamp: time.Now(), ProfitLoss: decimal.NewFromInt(15), Successful: true})

	status := m.Status()
	if status.TradesToday != 1 {
		t.Fatalf("TradesToday = %d, want 1", status.TradesToday)
	}
	if !status.DailyPnL.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("DailyPnL = %s, want 15", status.DailyPnL)
	}
	// No price history: VaR comes from the 1% fallback volatility.
	// 1000 x 0.01 x 1.645 = 16.45.
	if !status.PortfolioVaR.Equal(decimal.RequireFromString("16.45")) {
		t.Fatalf("PortfolioVaR = %s, want 16.45", status.PortfolioVaR)
	}
	if status.IsPaused {
		t.Fatal("IsPaused = true on healthy manager")
	}
}
