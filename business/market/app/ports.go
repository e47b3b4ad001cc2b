// Package app contains application services and port definitions for the market context.
package app

import (
	"context"

	"github.com/solarb/solarb/business/market/domain"
)

// PriceSource is the capability a venue adapter must provide.
// Implementations may return quotes for a subset of the requested pairs;
// partial coverage is expected and handled by the caller.
type PriceSource interface {
	// Name identifies the source for logging and breaker labelling.
	Name() string

	// GetPrices fetches current quotes for the given pairs.
	GetPrices(ctx context.Context, pairs []domain.TokenPair) ([]domain.Quote, error)
}
