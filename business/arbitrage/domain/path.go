package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	marketDomain "github.com/solarb/solarb/business/market/domain"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Edge is a directed conversion in the trading graph: swap FromToken for
// ToToken on Venue at Rate, paying Fee percent.
type Edge struct {
	FromToken string
	ToToken   string
	Venue     marketDomain.Venue
	Rate      decimal.Decimal
	Liquidity decimal.Decimal
	Fee       decimal.Decimal
}

// EffectiveRate is the conversion rate net of the venue fee.
func (e Edge) EffectiveRate() decimal.Decimal {
	return e.Rate.Mul(one.Sub(e.Fee.Div(hundred)))
}

// Path is a cycle through the trading graph that starts and ends at the
// same token.
type Path struct {
	Edges []Edge

	// ProfitRatio is the compounded effective rate around the cycle;
	// anything above 1 is profit.
	ProfitRatio decimal.Decimal

	// MinLiquidity is the thinnest edge along the cycle, which bounds the
	// executable size.
	MinLiquidity decimal.Decimal
}

// Profitable reports whether the cycle compounds above break-even.
func (p Path) Profitable() bool {
	return p.ProfitRatio.GreaterThan(one)
}

// ProfitPercentage converts the ratio into a percentage edge.
func (p Path) ProfitPercentage() decimal.Decimal {
	return p.ProfitRatio.Sub(one).Mul(hundred)
}

// OptimalSize caps the trade at the thinnest pool along the path.
func (p Path) OptimalSize(maxPosition decimal.Decimal) decimal.Decimal {
	if p.MinLiquidity.LessThan(maxPosition) {
		return p.MinLiquidity
	}
	return maxPosition
}

// Route renders the cycle as SOL -> USDC -> RAY -> SOL for logs.
func (p Path) Route() string {
	if len(p.Edges) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(p.Edges[0].FromToken)
	for _, e := range p.Edges {
		b.WriteString(" -> ")
		b.WriteString(e.ToToken)
	}
	return b.String()
}
