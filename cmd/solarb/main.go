// Package main is the entry point for the Solana cross-DEX arbitrage engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/solarb/solarb/business/arbitrage"
	arbDI "github.com/solarb/solarb/business/arbitrage/di"
	"github.com/solarb/solarb/business/market"
	"github.com/solarb/solarb/business/risk"
	"github.com/solarb/solarb/internal/alerts"
	"github.com/solarb/solarb/internal/config"
	"github.com/solarb/solarb/internal/eventbus"
	"github.com/solarb/solarb/internal/health"
	"github.com/solarb/solarb/internal/history"
	"github.com/solarb/solarb/internal/logger"
	"github.com/solarb/solarb/internal/metrics"
	"github.com/solarb/solarb/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

const eventBusCapacity = 256

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("solarb %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, v, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.ParseLevel(cfg.App.LogLevel)
	var log *logger.Logger
	if cfg.App.LogFile != "" {
		log = logger.NewWithRotation(cfg.App.LogFile, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
	}
	log.Info(ctx, "starting solarb",
		"version", version,
		"environment", cfg.App.Environment)

	store := config.NewStore(cfg)
	store.Watch(v, func(err error) {
		log.Warn(ctx, "config reload rejected", "error", err)
	})

	var instruments *metrics.EngineInstruments
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}

		providerOpts := []metrics.OptionFn{
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.NewPrometheusConfig()),
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			providerOpts = append(providerOpts, metrics.WithProviderConfig(
				metrics.NewOtelCollectorConfig(cfg.Telemetry.OTLPEndpoint, nil, true),
			))
		}

		provider, err := metrics.NewMetricProvider(ctx, providerOpts...)
		if err != nil {
			return fmt.Errorf("failed to init metrics: %w", err)
		}
		defer provider.Shutdown(context.Background())

		instruments, err = metrics.NewEngineInstruments()
		if err != nil {
			return fmt.Errorf("failed to create instruments: %w", err)
		}

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go func() {
			if err := metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port))); err != nil {
				log.Warn(ctx, "metrics server stopped", "error", err)
			}
		}()
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}

	bus := eventbus.New(eventBusCapacity)

	healthPort := cfg.Telemetry.HealthPort
	if healthPort == 0 {
		healthPort = 8081
	}
	healthServer := health.NewServer(healthPort, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", healthPort)
	}
	defer healthServer.Stop(context.Background())

	mono := monolith.New(store, log, bus)
	defer mono.Close()

	// Modules in dependency order: market feeds risk and arbitrage.
	modules := []monolith.Module{
		&market.Module{},
		&risk.Module{},
		&arbitrage.Module{Instruments: instruments},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	engine := arbDI.GetEngine(mono.Services())

	healthServer.SetStatusProvider(func() any { return engine.Stats() })
	healthServer.RegisterCheck("circuit_breaker", func(context.Context) (bool, string) {
		stats := engine.Stats()
		if stats.Paused {
			return false, "breaker " + stats.BreakerState
		}
		return true, ""
	})

	// Event consumers: alert webhooks and the trade audit file.
	alertManager := alerts.NewManager(
		cfg.Alerts.TelegramWebhookURL,
		cfg.Alerts.DiscordWebhookURL,
		log,
	)
	go alertManager.Listen(ctx, bus)

	if cfg.History.Enabled {
		recorder := history.NewRecorder(cfg.History.File)
		defer recorder.Close()
		go recorder.Listen(ctx, bus)
	}

	log.Info(ctx, "all modules started, entering trading loop")
	if err := engine.Run(ctx); err != nil {
		return fmt.Errorf("trading loop failed: %w", err)
	}

	log.Info(ctx, "shutting down")
	return nil
}
