// Package di contains dependency injection tokens for the risk context.
package di

import (
	riskApp "github.com/solarb/solarb/business/risk/app"
	"github.com/solarb/solarb/internal/di"
)

// Public service tokens - exposed to other modules
var (
	RiskManager = di.NewToken[*riskApp.Manager]("risk.Manager")
)

// GetRiskManager resolves the shared risk manager.
func GetRiskManager(c di.ServiceRegistry) *riskApp.Manager {
	return di.GetToken(c, RiskManager)
}
