package engine

import (
	"flowmind-engine/internal/models"
)

// LegResult holds the signed pnl and Greek contributions of one leg at a
// hypothetical spot and time.
type LegResult struct {
	PnL    float64
	Greeks models.GreekTotals
}

// EvaluateLeg returns the leg's signed payoff and Greek contributions at
// the given spot and remaining time. The pnl is
//
//	sideSign * quantity * (theoreticalValue - premium)
//
// which at timeToExpiry == 0 reduces to the realized settlement value
// minus the original premium. Greeks are scaled by sideSign * quantity.
func EvaluateLeg(leg models.OptionLeg, spot, timeToExpiry, volatility, riskFreeRate float64) (LegResult, error) {
	quote, err := Price(leg.Kind, leg.Strike, spot, timeToExpiry, volatility, riskFreeRate)
	if err != nil {
		return LegResult{}, err
	}

	scale := leg.Side.Sign() * float64(leg.Quantity)
	return LegResult{
		PnL: scale * (quote.Value - leg.Premium),
		Greeks: models.GreekTotals{
			Delta: scale * quote.Delta,
			Gamma: scale * quote.Gamma,
			Theta: scale * quote.Theta,
			Vega:  scale * quote.Vega,
		},
	}, nil
}
