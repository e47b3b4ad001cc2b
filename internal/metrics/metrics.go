// Package metrics wires the OpenTelemetry meter provider with Prometheus
// and OTLP collector readers.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.10.0"
)

// MetricProvider hands out meters and owns exporter shutdown.
type MetricProvider interface {
	Meter(name string, options ...metric.MeterOption) metric.Meter
	Shutdown(ctx context.Context) error
}

func buildReaders(ctx context.Context, cfg Config) ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	for _, provider := range cfg.Providers {
		switch provider.Kind {
		case PrometheusProvider:
			promExporter, err := prometheus.New()
			if err != nil {
				return nil, fmt.Errorf("prometheus exporter: %w", err)
			}
			readers = append(readers, promExporter)

		case OtelCollector:
			opts := []otlpmetricgrpc.Option{
				otlpmetricgrpc.WithEndpointURL(provider.Endpoint),
				otlpmetricgrpc.WithHeaders(provider.Headers),
			}
			if provider.Insecure {
				opts = append(opts, otlpmetricgrpc.WithInsecure())
			}

			exp, err := otlpmetricgrpc.New(ctx, opts...)
			if err != nil {
				return nil, fmt.Errorf("otlp exporter: %w", err)
			}
			readers = append(readers, sdkmetric.NewPeriodicReader(exp))
		}
	}

	return readers, nil
}

// NewMetricProvider builds the global meter provider from the configured
// readers and registers it with otel.
func NewMetricProvider(ctx context.Context, options ...OptionFn) (MetricProvider, error) {
	var cfg Config
	for _, opt := range options {
		cfg = opt(cfg)
	}

	readers, err := buildReaders(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var providerOpts []sdkmetric.Option
	for _, reader := range readers {
		providerOpts = append(providerOpts, sdkmetric.WithReader(reader))
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = os.Getenv("OTEL_SERVICE_NAME")
	}
	providerOpts = append(providerOpts, sdkmetric.WithResource(
		resource.NewSchemaless(semconv.ServiceNameKey.String(serviceName)),
	))

	meterProvider := sdkmetric.NewMeterProvider(providerOpts...)
	otel.SetMeterProvider(meterProvider)

	return meterProvider, nil
}

// ServePrometheusMetrics exposes /metrics on the configured port. Blocks;
// run it in its own goroutine.
func ServePrometheusMetrics(opt ...PromOptionFn) error {
	var cfg PromServerConfig
	for _, o := range opt {
		cfg = o(cfg)
	}

	port := cfg.port
	if port == "" {
		port = "2223"
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
