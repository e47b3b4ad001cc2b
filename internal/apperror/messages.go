package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeInvalidInput:       "Invalid input provided",
	CodeInvalidState:       "Invalid state for this operation",
	CodeNotFound:           "Resource not found",
	CodeConfigurationError: "Configuration error",
	CodeServiceTimeout:     "Service request timeout",
	CodeRateLimitExceeded:  "Rate limit exceeded",
	CodeInternalError:      "Internal error",
	CodeUnknownError:       "An unknown error occurred",

	CodeVenueConnectionFailed: "Failed to connect to venue",
	CodeVenueAPIError:         "Venue API error",
	CodePriceFetchFailed:      "Price fetch failed",
	CodePriceNotAvailable:     "No price available",
	CodeStalePriceData:        "Price data is stale",

	CodeInvalidOpportunity: "Opportunity validation failed",
	CodeUnknownToken:       "Unknown token",
	CodeStrategyFailed:     "Strategy analysis failed",

	CodeExecutionFailed:     "Trade execution failed",
	CodeSimulationFailed:    "Transaction simulation failed",
	CodeConfirmationTimeout: "Transaction confirmation timeout",
	CodeSlippageExceeded:    "Slippage tolerance exceeded",

	CodeCircuitOpen:       "Circuit breaker is open",
	CodeDailyLossExceeded: "Daily loss limit reached",
	CodeVarExceeded:       "Portfolio VaR limit exceeded",
	CodeExposureExceeded:  "Maximum exposure limit reached",
}
