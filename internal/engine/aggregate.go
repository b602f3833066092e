package engine

import (
	apperrors "flowmind-engine/internal/errors"
	"flowmind-engine/internal/models"
)

// AggregateResult holds strategy-level totals at one hypothetical
// (spot, horizon) point.
type AggregateResult struct {
	PnL    float64
	Greeks models.GreekTotals
}

// Aggregate sums leg-level payoffs and Greeks across the strategy at a
// single hypothetical spot, horizonDays into the future. Each leg is
// evaluated with its own remaining time, so nearest-dated legs settle to
// intrinsic value while longer-dated legs retain time value. That is the
// behavior calendar and diagonal spreads need.
func Aggregate(strategy models.StrategyDefinition, spot, horizonDays, volatility, riskFreeRate float64) (AggregateResult, error) {
	if len(strategy.Legs) == 0 {
		return AggregateResult{}, apperrors.NewEmptyStrategyError(strategy.Name)
	}

	var total AggregateResult
	for _, leg := range strategy.Legs {
		remaining := leg.ExpirationDays - horizonDays
		if remaining < 0 {
			remaining = 0
		}
		res, err := EvaluateLeg(leg, spot, remaining/DaysPerYear, volatility, riskFreeRate)
		if err != nil {
			return AggregateResult{}, err
		}
		total.PnL += res.PnL
		total.Greeks.Delta += res.Greeks.Delta
		total.Greeks.Gamma += res.Greeks.Gamma
		total.Greeks.Theta += res.Greeks.Theta
		total.Greeks.Vega += res.Greeks.Vega
	}
	return total, nil
}
