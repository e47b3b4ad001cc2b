// Package eventbus provides a bounded publish/subscribe bus for trading events.
package eventbus

// Event is the interface satisfied by every trading event flowing through the bus.
type Event interface {
	Kind() string
}

// SystemStarted is published once at startup.
type SystemStarted struct {
	Mode string
}

func (SystemStarted) Kind() string { return "system_started" }

// SystemStopping is published when a graceful shutdown begins.
type SystemStopping struct {
	Reason string
}

func (SystemStopping) Kind() string { return "system_stopping" }

// EmergencyStop is published when the kill switch halts trading.
type EmergencyStop struct {
	Reason string
}

func (EmergencyStop) Kind() string { return "emergency_stop" }

// PriceUpdate is published when a fresh quote is received from a venue.
type PriceUpdate struct {
	Pair      string
	Price     float64
	Source    string
	Timestamp int64
}

func (PriceUpdate) Kind() string { return "price_update" }

// OpportunityDetected is published when a strategy finds an opportunity.
type OpportunityDetected struct {
	ID                string
	Strategy          string
	ExpectedProfitBps float64
}

func (OpportunityDetected) Kind() string { return "opportunity_detected" }

// OpportunityExpired is published when an opportunity becomes invalid
// before it could be acted on.
type OpportunityExpired struct {
	ID     string
	Reason string
}

func (OpportunityExpired) Kind() string { return "opportunity_expired" }

// TradeExecuted is published after an execution attempt, successful or not.
type TradeExecuted struct {
	ID              string
	Pair            string
	Success         bool
	Profit          float64
	ExecutionTimeMs int64
}

func (TradeExecuted) Kind() string { return "trade_executed" }

// TradeRejected is published when risk management declines a trade.
type TradeRejected struct {
	ID     string
	Reason string
}

func (TradeRejected) Kind() string { return "trade_rejected" }

// CircuitBreakerStateChanged is published on every breaker transition.
type CircuitBreakerStateChanged struct {
	Old string
	New string
}

func (CircuitBreakerStateChanged) Kind() string { return "circuit_breaker_state_changed" }

// RiskLimitBreached is published when a configured risk limit is crossed.
type RiskLimitBreached struct {
	LimitType string
	Current   float64
	Max       float64
}

func (RiskLimitBreached) Kind() string { return "risk_limit_breached" }

// HealthCheck is published periodically by the orchestrator.
type HealthCheck struct {
	UptimeSecs  int64
	TotalTrades uint64
	SuccessRate float64
}

func (HealthCheck) Kind() string { return "health_check" }
