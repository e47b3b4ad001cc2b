package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EngineInstruments groups the trading loop's counters and histograms.
// A nil *EngineInstruments is safe to record against, so callers need no
// metrics-enabled branch.
type EngineInstruments struct {
	cycles            metric.Int64Counter
	cycleDuration     metric.Float64Histogram
	opportunities     metric.Int64Counter
	tradesAttempted   metric.Int64Counter
	tradesSucceeded   metric.Int64Counter
	tradesFailed      metric.Int64Counter
	priceFetchLatency metric.Float64Histogram
}

// NewEngineInstruments registers the trading loop instruments on the global
// meter provider.
func NewEngineInstruments() (*EngineInstruments, error) {
	meter := otel.GetMeterProvider().Meter("trading-engine")

	cycles, err := meter.Int64Counter("engine_cycles_total",
		metric.WithDescription("Completed orchestrator cycles"))
	if err != nil {
		return nil, err
	}
	cycleDuration, err := meter.Float64Histogram("engine_cycle_duration_seconds",
		metric.WithDescription("End-to-end duration of one orchestrator cycle"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	opportunities, err := meter.Int64Counter("opportunities_detected_total",
		metric.WithDescription("Opportunities produced by detectors and strategies"))
	if err != nil {
		return nil, err
	}
	attempted, err := meter.Int64Counter("trades_attempted_total",
		metric.WithDescription("Trades dispatched to the executor"))
	if err != nil {
		return nil, err
	}
	succeeded, err := meter.Int64Counter("trades_succeeded_total",
		metric.WithDescription("Trades reported successful by the executor"))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("trades_failed_total",
		metric.WithDescription("Trades reported failed by the executor"))
	if err != nil {
		return nil, err
	}
	fetchLatency, err := meter.Float64Histogram("price_fetch_duration_seconds",
		metric.WithDescription("Latency of one full price collection fan-out"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &EngineInstruments{
		cycles:            cycles,
		cycleDuration:     cycleDuration,
		opportunities:     opportunities,
		tradesAttempted:   attempted,
		tradesSucceeded:   succeeded,
		tradesFailed:      failed,
		priceFetchLatency: fetchLatency,
	}, nil
}

// RecordCycle counts a completed cycle and its duration.
func (i *EngineInstruments) RecordCycle(ctx context.Context, d time.Duration) {
	if i == nil {
		return
	}
	i.cycles.Add(ctx, 1)
	i.cycleDuration.Record(ctx, d.Seconds())
}

// RecordOpportunities counts detected opportunities by source.
func (i *EngineInstruments) RecordOpportunities(ctx context.Context, source string, count int) {
	if i == nil || count == 0 {
		return
	}
	i.opportunities.Add(ctx, int64(count), metric.WithAttributes(attribute.String("source", source)))
}

// RecordTrade counts a dispatched trade and its outcome.
func (i *EngineInstruments) RecordTrade(ctx context.Context, success bool) {
	if i == nil {
		return
	}
	i.tradesAttempted.Add(ctx, 1)
	if success {
		i.tradesSucceeded.Add(ctx, 1)
	} else {
		i.tradesFailed.Add(ctx, 1)
	}
}

// RecordPriceFetch records the latency of one collection fan-out.
func (i *EngineInstruments) RecordPriceFetch(ctx context.Context, d time.Duration) {
	if i == nil {
		return
	}
	i.priceFetchLatency.Record(ctx, d.Seconds())
}
