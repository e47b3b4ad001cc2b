package metrics

// ProviderKind selects a metrics reader implementation.
type ProviderKind string

const (
	PrometheusProvider ProviderKind = "prometheus"
	OtelCollector      ProviderKind = "otelCollector"
)

// Config selects which readers feed the meter provider.
type Config struct {
	ServiceName string
	Providers   []ProviderCfg
}

// ProviderCfg configures a single reader.
type ProviderCfg struct {
	Kind     ProviderKind
	Endpoint string
	Headers  map[string]string
	Insecure bool
}

// NewPrometheusConfig enables the pull-based Prometheus reader.
func NewPrometheusConfig() ProviderCfg {
	return ProviderCfg{Kind: PrometheusProvider}
}

// NewOtelCollectorConfig enables a push reader against an OTLP collector.
func NewOtelCollectorConfig(url string, headers map[string]string, insecure bool) ProviderCfg {
	return ProviderCfg{
		Kind:     OtelCollector,
		Endpoint: url,
		Headers:  headers,
		Insecure: insecure,
	}
}

type OptionFn func(config Config) Config

// WithProviderConfig appends a reader configuration.
func WithProviderConfig(provider ProviderCfg) OptionFn {
	return func(config Config) Config {
		config.Providers = append(config.Providers, provider)
		return config
	}
}

// WithServiceName tags exported metrics with the service name resource.
func WithServiceName(serviceName string) OptionFn {
	return func(config Config) Config {
		config.ServiceName = serviceName
		return config
	}
}

// PromServerConfig configures the /metrics endpoint.
type PromServerConfig struct {
	port string
}

type PromOptionFn func(config PromServerConfig) PromServerConfig

// WithPort overrides the default metrics port.
func WithPort(port string) PromOptionFn {
	return func(config PromServerConfig) PromServerConfig {
		config.port = port
		return config
	}
}
