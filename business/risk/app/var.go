package app

import "github.com/shopspring/decimal"

// fallbackVolatility is assumed when a position has no volatility history.
var fallbackVolatility = decimal.RequireFromString("0.01")

// VarCalculator estimates Value at Risk from position sizes and volatility.
type VarCalculator struct {
	confidenceLevel float64
	zScore          decimal.Decimal
}

// NewVarCalculator maps the confidence level to its z-score.
func NewVarCalculator(confidenceLevel float64) *VarCalculator {
	var z decimal.Decimal
	switch {
	case confidenceLevel >= 0.99:
		z = decimal.RequireFromString("2.326")
	case confidenceLevel >= 0.95:
		z = decimal.RequireFromString("1.645")
	default:
		z = decimal.RequireFromString("1.282") // 90%
	}
	return &VarCalculator{confidenceLevel: confidenceLevel, zScore: z}
}

// PositionVaR computes VaR for one position:
// position value x volatility x z-score.
func (c *VarCalculator) PositionVaR(positionValue, volatility decimal.Decimal) decimal.Decimal {
	return positionValue.Mul(volatility).Mul(c.zScore)
}

// PortfolioVaR sums per-position VaR, which assumes worst-case (perfect)
// correlation. For a SOL-ecosystem book where the legs co-move, this is a
// deliberate conservative simplification, not a covariance model.
func (c *VarCalculator) PortfolioVaR(positions map[string]decimal.Decimal, vol *VolatilityTracker) decimal.Decimal {
	total := decimal.Zero
	for pair, size := range positions {
		v, ok := vol.Volatility(pair)
		if !ok {
			v = fallbackVolatility
		}
		total = total.Add(c.PositionVaR(size, v))
	}
	return total
}
