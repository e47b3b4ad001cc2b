// Package di contains dependency injection tokens for the market context.
package di

import (
	marketApp "github.com/solarb/solarb/business/market/app"
	"github.com/solarb/solarb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	PriceService = di.NewToken[*marketApp.PriceService]("market.PriceService")
)

// Private dependency tokens - internal to the market module
var (
	PriceSources = di.NewToken[[]marketApp.PriceSource]("market:priceSources")
)

// GetPriceService resolves the shared price collection service.
func GetPriceService(c di.ServiceRegistry) *marketApp.PriceService {
	return di.GetToken(c, PriceService)
}

// GetPriceSources resolves the configured venue adapters.
func GetPriceSources(c di.ServiceRegistry) []marketApp.PriceSource {
	return di.GetToken(c, PriceSources)
}
