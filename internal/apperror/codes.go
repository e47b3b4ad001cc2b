package apperror

// Code represents a unique error code for the application
type Code string

// Severity classifies how the orchestrator must react to an error.
type Severity int

const (
	// SeverityTransient errors are retried locally with backoff and never
	// surfaced as fatal (timeouts, rate limits, stale or missing prices).
	SeverityTransient Severity = iota

	// SeverityOperational errors skip the offending item and continue the
	// cycle (bad opportunity shape, unknown token, strategy failure).
	SeverityOperational

	// SeverityCritical errors trigger an alert and are never silently
	// retried (daily loss breach, breaker open, VaR exceeded).
	SeverityCritical
)

// General error codes
const (
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConfigurationError Code = "CONFIGURATION_ERROR"
	CodeServiceTimeout     Code = "SERVICE_TIMEOUT"
	CodeRateLimitExceeded  Code = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      Code = "INTERNAL_ERROR"
	CodeUnknownError       Code = "UNKNOWN_ERROR"
)

// Price collection error codes
const (
	CodeVenueConnectionFailed Code = "VENUE_CONNECTION_FAILED"
	CodeVenueAPIError         Code = "VENUE_API_ERROR"
	CodePriceFetchFailed      Code = "PRICE_FETCH_FAILED"
	CodePriceNotAvailable     Code = "PRICE_NOT_AVAILABLE"
	CodeStalePriceData        Code = "STALE_PRICE_DATA"
)

// Detection error codes
const (
	CodeInvalidOpportunity Code = "INVALID_OPPORTUNITY"
	CodeUnknownToken       Code = "UNKNOWN_TOKEN"
	CodeStrategyFailed     Code = "STRATEGY_FAILED"
)

// Execution error codes
const (
	CodeExecutionFailed     Code = "EXECUTION_FAILED"
	CodeSimulationFailed    Code = "SIMULATION_FAILED"
	CodeConfirmationTimeout Code = "CONFIRMATION_TIMEOUT"
	CodeSlippageExceeded    Code = "SLIPPAGE_EXCEEDED"
)

// Risk error codes
const (
	CodeCircuitOpen       Code = "CIRCUIT_OPEN"
	CodeDailyLossExceeded Code = "DAILY_LOSS_EXCEEDED"
	CodeVarExceeded       Code = "VAR_EXCEEDED"
	CodeExposureExceeded  Code = "EXPOSURE_EXCEEDED"
)

// severities maps each code to how the orchestrator reacts to it.
// Codes missing here are treated as operational.
var severities = map[Code]Severity{
	CodeServiceTimeout:        SeverityTransient,
	CodeRateLimitExceeded:     SeverityTransient,
	CodeVenueConnectionFailed: SeverityTransient,
	CodeVenueAPIError:         SeverityTransient,
	CodePriceFetchFailed:      SeverityTransient,
	CodePriceNotAvailable:     SeverityTransient,
	CodeStalePriceData:        SeverityTransient,

	CodeInvalidInput:       SeverityOperational,
	CodeInvalidState:       SeverityOperational,
	CodeNotFound:           SeverityOperational,
	CodeInvalidOpportunity: SeverityOperational,
	CodeUnknownToken:       SeverityOperational,
	CodeStrategyFailed:     SeverityOperational,
	CodeExecutionFailed:    SeverityOperational,
	CodeSimulationFailed:   SeverityOperational,
	CodeSlippageExceeded:   SeverityOperational,

	CodeConfigurationError: SeverityCritical,
	CodeCircuitOpen:        SeverityCritical,
	CodeDailyLossExceeded:  SeverityCritical,
	CodeVarExceeded:        SeverityCritical,
	CodeExposureExceeded:   SeverityCritical,
}

// severityOf returns the severity for a code.
func severityOf(code Code) Severity {
	if s, ok := severities[code]; ok {
		return s
	}
	return SeverityOperational
}
