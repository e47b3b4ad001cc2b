package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeOutcome records the realized result of one execution attempt.
type TradeOutcome struct {
	Timestamp time.Time
	Pair      string
	// ProfitLoss is signed: positive is profit, negative is loss.
	ProfitLoss decimal.Decimal
	Successful bool
}

// DecisionKind enumerates the outcomes of a risk check.
type DecisionKind int

const (
	// DecisionApproved allows the trade at the proposed size.
	DecisionApproved DecisionKind = iota

	// DecisionReduced allows the trade at a smaller size.
	DecisionReduced

	// DecisionRejected blocks the trade.
	DecisionRejected
)

// String returns the kind's display name.
func (k DecisionKind) String() string {
	switch k {
	case DecisionApproved:
		return "approved"
	case DecisionReduced:
		return "reduced"
	case DecisionRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Decision is the result of a risk check. Rejection is normal control flow,
// not an error.
type Decision struct {
	Kind   DecisionKind
	Size   decimal.Decimal // approved or reduced size; zero when rejected
	Reason string          // populated for Reduced and Rejected
}

// Approved builds an approval at the proposed size.
func Approved(size decimal.Decimal) Decision {
	return Decision{Kind: DecisionApproved, Size: size}
}

// Reduced builds an approval at a smaller size.
func Reduced(size decimal.Decimal, reason string) Decision {
	return Decision{Kind: DecisionReduced, Size: size, Reason: reason}
}

// Rejected builds a rejection.
func Rejected(reason string) Decision {
	return Decision{Kind: DecisionRejected, Reason: reason}
}

// Allowed reports whether the trade may proceed (possibly at reduced size).
func (d Decision) Allowed() bool {
	return d.Kind != DecisionRejected
}

// Status is a point-in-time view of the risk manager's state.
type Status struct {
	TotalExposure decimal.Decimal
	DailyPnL      decimal.Decimal
	PortfolioVaR  decimal.Decimal
	TradesToday   int
	IsPaused      bool
	Positions     map[string]decimal.Decimal
}
