package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/solarb/solarb/business/arbitrage/domain"
	marketApp "github.com/solarb/solarb/business/market/app"
	marketDomain "github.com/solarb/solarb/business/market/domain"
	"github.com/solarb/solarb/business/market/infra/static"
	riskApp "github.com/solarb/solarb/business/risk/app"
	riskDomain "github.com/solarb/solarb/business/risk/domain"
	"github.com/solarb/solarb/internal/config"
	"github.com/solarb/solarb/internal/eventbus"
	"github.com/solarb/solarb/internal/logger"
	"github.com/solarb/solarb/internal/ratelimit"
)

type recordingExecutor struct {
	calls  int
	profit decimal.Decimal
}

func (e *recordingExecutor) Name() string { return "recording" }

func (e *recordingExecutor) Execute(_ context.Context, _ domain.Opportunity, _ decimal.Decimal) TradeResult {
	e.calls++
	return TradeResult{
		Signature:    "test-sig",
		Success:      true,
		ActualProfit: e.profit,
	}
}

func testEngine(t *testing.T, executor Executor, cfg *config.Config) (*Engine, *static.Provider, *eventbus.Bus) {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	bus := eventbus.New(64)

	provider := static.New("raydium-static")
	sources := []marketApp.PriceSource{provider}
	prices := marketApp.NewPriceService(sources, ratelimit.PerSecond(100), bus, log)

	risk := riskApp.NewManager(riskDomain.DefaultConfig(), bus)

	engine := NewEngine(EngineDeps{
		Config:     config.NewStore(cfg),
		Prices:     prices,
		Detector:   NewDetector(),
		PathFinder: NewPathFinder(cfg.Trading.MaxHops),
		Registry:   NewRegistry(log),
		Risk:       risk,
		Executor:   executor,
		Bus:        bus,
		Log:        log,
		Inst:       nil,
	})
	return engine, provider, bus
}

func testConfig() *config.Config {
	return &config.Config{
		Trading: config.TradingConfig{
			Enabled:            true,
			DryRun:             true,
			Pairs:              []string{"SOL/USDC"},
			MinProfitBps:       50,
			MaxPriceAgeSeconds: 30,
			MaxHops:            4,
			PollIntervalMs:     10,
			KillSwitchFile:     filepath.Join(os.TempDir(), "does-not-exist.kill"),
		},
	}
}

func TestEngineCycleExecutesProfitableSpread(t *testing.T) {
	executor := &recordingExecutor{profit: decimal.NewFromInt(5)}
	cfg := testConfig()
	engine, provider, bus := testEngine(t, executor, cfg)
	sub := bus.Subscribe()
	defer sub.Close()

	pair := marketDomain.NewTokenPair("SOL", "USDC")
	provider.SetQuote(marketDomain.NewQuote(marketDomain.VenueRaydium, pair,
		decimal.RequireFromString("100"), decimal.RequireFromString("100.1")))
	provider.SetQuote(marketDomain.NewQuote(marketDomain.VenueOrca, pair,
		decimal.RequireFromString("102"), decimal.RequireFromString("102.2")))

	if err := engine.cycle(context.Background(), cfg); err != nil {
		t.Fatalf("cycle() error = %v", err)
	}

	if executor.calls != 1 {
		t.Fatalf("executor calls = %d, want 1", executor.calls)
	}

	stats := engine.Stats()
	if stats.TotalTrades != 1 || stats.SuccessfulTrades != 1 {
		t.Fatalf("stats = %+v, want 1 successful trade", stats)
	}

	// The detected-opportunity event names its producer.
	var detected *eventbus.OpportunityDetected
	for detected == nil {
		select {
		case ev := <-sub.C:
			if d, ok := ev.(eventbus.OpportunityDetected); ok {
				detected = &d
			}
		default:
			t.Fatal("no OpportunityDetected event published")
		}
	}
	if detected.Strategy != "detector" {
		t.Fatalf("event strategy = %q, want %q", detected.Strategy, "detector")
	}
}

func TestEnginePublishesHealthCounters(t *testing.T) {
	executor := &recordingExecutor{profit: decimal.NewFromInt(5)}
	cfg := testConfig()
	engine, _, bus := testEngine(t, executor, cfg)
	sub := bus.Subscribe()
	defer sub.Close()

	engine.mu.Lock()
	engine.totalTrades = 4
	engine.successfulTrades = 3
	engine.mu.Unlock()

	engine.publishHealth()

	select {
	case ev := <-sub.C:
		health, ok := ev.(eventbus.HealthCheck)
		if !ok {
			t.Fatalf("event type = %T, want HealthCheck", ev)
		}
		if health.TotalTrades != 4 {
			t.Fatalf("TotalTrades = %d, want 4", health.TotalTrades)
		}
		if health.SuccessRate != 0.75 {
			t.Fatalf("SuccessRate = %f, want 0.75", health.SuccessRate)
		}
	default:
		t.Fatal("no HealthCheck event published")
	}
}

func TestEngineCycleSkipsBelowProfitFloor(t *testing.T) {
	executor := &recordingExecutor{profit: decimal.NewFromInt(1)}
	cfg := testConfig()
	cfg.Trading.MinProfitBps = 500 // 5% floor
	engine, provider, _ := testEngine(t, executor, cfg)

	pair := marketDomain.NewTokenPair("SOL", "USDC")
	provider.SetQuote(marketDomain.NewQuote(marketDomain.VenueRaydium, pair,
		decimal.RequireFromString("100"), decimal.RequireFromString("100.1")))
	provider.SetQuote(marketDomain.NewQuote(marketDomain.VenueOrca, pair,
		decimal.RequireFromString("102"), decimal.RequireFromString("102.2")))

	if err := engine.cycle(context.Background(), cfg); err != nil {
		t.Fatalf("cycle() error = %v", err)
	}
	if executor.calls != 0 {
		t.Fatalf("executor calls = %d, want 0 below floor", executor.calls)
	}
}

func TestEngineCycleErrorsWithoutPrices(t *testing.T) {
	executor := &recordingExecutor{}
	cfg := testConfig()
	engine, _, _ := testEngine(t, executor, cfg)

	err := engine.cycle(context.Background(), cfg)
	if err == nil {
		t.Fatal("cycle() error = nil with no venue prices")
	}
	if executor.calls != 0 {
		t.Fatalf("executor calls = %d, want 0", executor.calls)
	}
}

func TestEngineCycleRespectsOpenBreaker(t *testing.T) {
	executor := &recordingExecutor{profit: decimal.NewFromInt(5)}
	cfg := testConfig()
	engine, provider, _ := testEngine(t, executor, cfg)

	engine.risk.Breaker().ForceOpen("test halt")

	pair := marketDomain.NewTokenPair("SOL", "USDC")
	provider.SetQuote(marketDomain.NewQuote(marketDomain.VenueRaydium, pair,
		decimal.RequireFromString("100"), decimal.RequireFromString("100.1")))
	provider.SetQuote(marketDomain.NewQuote(marketDomain.VenueOrca, pair,
		decimal.RequireFromString("102"), decimal.RequireFromString("102.2")))

	if err := engine.cycle(context.Background(), cfg); err != nil {
		t.Fatalf("cycle() error = %v", err)
	}
	if executor.calls != 0 {
		t.Fatalf("executor calls = %d, want 0 with breaker open", executor.calls)
	}
}

func TestEngineRunStopsOnKillSwitch(t *testing.T) {
	executor := &recordingExecutor{}
	cfg := testConfig()

	killFile := filepath.Join(t.TempDir(), "stop.kill")
	cfg.Trading.KillSwitchFile = killFile
	if err := os.WriteFile(killFile, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	engine, _, bus := testEngine(t, executor, cfg)
	sub := bus.Subscribe()
	defer sub.Close()

	done := make(chan error, 1)
	go func() { done <- engine.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop on kill switch")
	}

	var sawStopping bool
	for {
		select {
		case ev := <-sub.C:
			if _, ok := ev.(eventbus.SystemStopping); ok {
				sawStopping = true
			}
			continue
		default:
		}
		break
	}
	if !sawStopping {
		t.Fatal("no SystemStopping event published")
	}
}

func TestEngineRunStopsOnContextCancel(t *testing.T) {
	executor := &recordingExecutor{}
	cfg := testConfig()
	cfg.Trading.Enabled = false // idle loop
	engine, _, _ := testEngine(t, executor, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop on context cancel")
	}
}

func TestBackoffCapped(t *testing.T) {
	tests := []struct {
		errors int
		want   time.Duration
	}{
		{1, 2 * time.Second},
		{3, 8 * time.Second},
		{5, 32 * time.Second},
		{9, 32 * time.Second},
	}
	for _, tt := range tests {
		if got := backoff(tt.errors); got != tt.want {
			t.Fatalf("backoff(%d) = %s, want %s", tt.errors, got, tt.want)
		}
	}
}
