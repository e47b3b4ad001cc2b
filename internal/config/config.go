// Package config provides configuration loading, validation, and hot reload.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Trading   TradingConfig   `mapstructure:"trading"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Venues    VenuesConfig    `mapstructure:"venues"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	History   HistoryConfig   `mapstructure:"history"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`
}

// TradingConfig holds detection and orchestration settings.
type TradingConfig struct {
	Enabled            bool     `mapstructure:"enabled"`
	DryRun             bool     `mapstructure:"dry_run"`
	Pairs              []string `mapstructure:"pairs"`
	MinProfitBps       float64  `mapstructure:"min_profit_bps"`
	MaxPriceAgeSeconds int      `mapstructure:"max_price_age_seconds"`
	MaxHops            int      `mapstructure:"max_hops"`
	PollIntervalMs     int      `mapstructure:"poll_interval_ms"`
	KillSwitchFile     string   `mapstructure:"kill_switch_file"`
}

// MinProfitPct returns the minimum profit floor as a percentage decimal.
func (c *TradingConfig) MinProfitPct() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitBps).Div(decimal.NewFromInt(100))
}

// PollInterval returns the cycle poll interval as a duration.
func (c *TradingConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// MaxPriceAge returns the stale-quote cutoff as a duration.
func (c *TradingConfig) MaxPriceAge() time.Duration {
	return time.Duration(c.MaxPriceAgeSeconds) * time.Second
}

// RiskConfig holds risk management limits.
type RiskConfig struct {
	MaxPositionSize     float64 `mapstructure:"max_position_size"`
	MaxTotalExposure    float64 `mapstructure:"max_total_exposure"`
	MaxDailyLoss        float64 `mapstructure:"max_daily_loss"`
	MinProfitThreshold  float64 `mapstructure:"min_profit_threshold"`
	MaxSlippage         float64 `mapstructure:"max_slippage"`
	LossCooldownSeconds int     `mapstructure:"loss_cooldown_seconds"`
}

// MaxPositionSizeDecimal returns the per-trade cap as a decimal.
func (c *RiskConfig) MaxPositionSizeDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxPositionSize)
}

// MaxTotalExposureDecimal returns the exposure cap as a decimal.
func (c *RiskConfig) MaxTotalExposureDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxTotalExposure)
}

// MaxDailyLossDecimal returns the daily loss limit as a decimal.
func (c *RiskConfig) MaxDailyLossDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxDailyLoss)
}

// VenuesConfig holds price source settings.
type VenuesConfig struct {
	JupiterURL     string        `mapstructure:"jupiter_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// RateLimitConfig bounds outbound request rates per endpoint class:
// price_requests_per_second caps the collection service's fetch fan-out,
// venue_requests_per_second caps each venue adapter's own HTTP calls.
type RateLimitConfig struct {
	PriceRequestsPerSecond int `mapstructure:"price_requests_per_second"`
	VenueRequestsPerSecond int `mapstructure:"venue_requests_per_second"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
	HealthPort     int    `mapstructure:"health_port"`
}

// AlertsConfig holds webhook alert settings.
type AlertsConfig struct {
	TelegramWebhookURL string `mapstructure:"telegram_webhook_url"`
	DiscordWebhookURL  string `mapstructure:"discord_webhook_url"`
}

// HistoryConfig holds the audit trail settings.
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	File    string `mapstructure:"file"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, *viper.Viper, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, v, nil
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	v.BindEnv("trading.enabled", "ARB_TRADING_ENABLED")
	v.BindEnv("trading.dry_run", "ARB_DRY_RUN", "DRY_RUN")
	v.BindEnv("trading.min_profit_bps", "ARB_MIN_PROFIT_BPS", "MIN_PROFIT_BPS")

	v.BindEnv("risk.max_position_size", "ARB_MAX_POSITION_SIZE")
	v.BindEnv("risk.max_total_exposure", "ARB_MAX_TOTAL_EXPOSURE")
	v.BindEnv("risk.max_daily_loss", "ARB_MAX_DAILY_LOSS")

	v.BindEnv("venues.jupiter_url", "ARB_JUPITER_URL", "JUPITER_URL")

	v.BindEnv("telemetry.enabled", "ARB_TELEMETRY_ENABLED")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")

	v.BindEnv("alerts.telegram_webhook_url", "ARB_TELEGRAM_WEBHOOK_URL", "TELEGRAM_WEBHOOK_URL")
	v.BindEnv("alerts.discord_webhook_url", "ARB_DISCORD_WEBHOOK_URL", "DISCORD_WEBHOOK_URL")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "solarb")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("trading.enabled", true)
	v.SetDefault("trading.dry_run", true)
	v.SetDefault("trading.pairs", []string{"SOL/USDC", "RAY/USDC", "ORCA/USDC", "JUP/USDC"})
	v.SetDefault("trading.min_profit_bps", 50.0)
	v.SetDefault("trading.max_price_age_seconds", 30)
	v.SetDefault("trading.max_hops", 4)
	v.SetDefault("trading.poll_interval_ms", 500)
	v.SetDefault("trading.kill_switch_file", ".kill")

	v.SetDefault("risk.max_position_size", 1000.0)
	v.SetDefault("risk.max_total_exposure", 5000.0)
	v.SetDefault("risk.max_daily_loss", 100.0)
	v.SetDefault("risk.min_profit_threshold", 0.5)
	v.SetDefault("risk.max_slippage", 1.0)
	v.SetDefault("risk.loss_cooldown_seconds", 300)

	v.SetDefault("venues.jupiter_url", "https://lite-api.jup.ag/price/v2")
	v.SetDefault("venues.request_timeout", 5*time.Second)

	v.SetDefault("rate_limit.price_requests_per_second", 10)
	v.SetDefault("rate_limit.venue_requests_per_second", 5)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "solarb")
	v.SetDefault("telemetry.prometheus_port", 9090)
	v.SetDefault("telemetry.health_port", 8081)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.file", "data/history.jsonl")
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if len(c.Trading.Pairs) == 0 {
		return fmt.Errorf("trading.pairs must not be empty")
	}
	if c.Trading.MaxHops < 2 {
		return fmt.Errorf("trading.max_hops must be at least 2, got %d", c.Trading.MaxHops)
	}
	if c.Trading.PollIntervalMs <= 0 {
		return fmt.Errorf("trading.poll_interval_ms must be positive, got %d", c.Trading.PollIntervalMs)
	}
	if c.Risk.MaxPositionSize <= 0 {
		return fmt.Errorf("risk.max_position_size must be positive, got %f", c.Risk.MaxPositionSize)
	}
	if c.Risk.MaxTotalExposure < c.Risk.MaxPositionSize {
		return fmt.Errorf("risk.max_total_exposure %f is below risk.max_position_size %f",
			c.Risk.MaxTotalExposure, c.Risk.MaxPositionSize)
	}
	if c.RateLimit.PriceRequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit.price_requests_per_second must be positive")
	}
	if c.RateLimit.VenueRequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit.venue_requests_per_second must be positive")
	}
	return nil
}
