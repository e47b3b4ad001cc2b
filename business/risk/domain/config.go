// Package domain contains the core domain types for the risk context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config holds the hard safety limits for automated trading.
// Supplied once at startup; runtime changes arrive as a fresh Config via the
// dynamic configuration snapshot, never by mutation.
type Config struct {
	// MaxPositionSize is the maximum notional per trade, in USD.
	MaxPositionSize decimal.Decimal

	// MaxTotalExposure is the cap on summed open positions, in USD.
	MaxTotalExposure decimal.Decimal

	// MaxDailyLoss forces the circuit breaker open once breached, in USD.
	MaxDailyLoss decimal.Decimal

	// MinProfitThreshold is the minimum expected profit percentage to trade.
	MinProfitThreshold decimal.Decimal

	// MaxSlippage is the tolerated slippage percentage.
	MaxSlippage decimal.Decimal

	// LossCooldown is how long trading pauses after a realized loss.
	LossCooldown time.Duration
}

// DefaultConfig returns conservative limits suitable for a small account.
func DefaultConfig() Config {
	return Config{
		MaxPositionSize:    decimal.NewFromInt(1000),
		MaxTotalExposure:   decimal.NewFromInt(5000),
		MaxDailyLoss:       decimal.NewFromInt(100),
		MinProfitThreshold: decimal.RequireFromString("0.5"),
		MaxSlippage:        decimal.RequireFromString("1"),
		LossCooldown:       5 * time.Minute,
	}
}
