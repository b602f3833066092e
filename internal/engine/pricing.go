// Package engine implements the options-strategy payoff and risk engine.
// All computation is pure: every function is a deterministic function of
// its inputs with no shared mutable state, so independent evaluations may
// run fully in parallel without locking.
package engine

import (
	"math"

	apperrors "flowmind-engine/internal/errors"
	"flowmind-engine/internal/models"
)

// DaysPerYear converts day-denominated horizons to year fractions.
const DaysPerYear = 365.0

// Quote holds the theoretical value and per-unit Greeks of a single
// option contract.
type Quote struct {
	Value float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
}

// Price returns the theoretical value and analytic Greeks of a European
// option under the closed-form Black-Scholes model. timeToExpiry is in
// years. At timeToExpiry == 0 the quote is the intrinsic settlement value
// with zeroed Greeks except delta, which is 1/0/-1 by moneyness.
//
// Greeks are the analytic partial derivatives of the pricing formula, not
// finite differences; theta and vega are annualized.
func Price(kind models.OptionKind, strike, spot, timeToExpiry, volatility, riskFreeRate float64) (Quote, error) {
	if spot <= 0 {
		return Quote{}, apperrors.NewInvalidInputError("spot", spot, "spot price must be positive")
	}
	if volatility <= 0 {
		return Quote{}, apperrors.NewInvalidInputError("volatility", volatility, "implied volatility must be positive")
	}

	if timeToExpiry <= 0 {
		return intrinsicQuote(kind, strike, spot), nil
	}

	sqrtT := math.Sqrt(timeToExpiry)
	d1 := (math.Log(spot/strike) + (riskFreeRate+0.5*volatility*volatility)*timeToExpiry) / (volatility * sqrtT)
	d2 := d1 - volatility*sqrtT
	discount := math.Exp(-riskFreeRate * timeToExpiry)

	q := Quote{
		Gamma: normPDF(d1) / (spot * volatility * sqrtT),
		Vega:  spot * normPDF(d1) * sqrtT,
	}

	if kind == models.KindCall {
		q.Value = spot*normCDF(d1) - strike*discount*normCDF(d2)
		q.Delta = normCDF(d1)
		q.Theta = -(spot*normPDF(d1)*volatility)/(2*sqrtT) - riskFreeRate*strike*discount*normCDF(d2)
	} else {
		q.Value = strike*discount*normCDF(-d2) - spot*normCDF(-d1)
		q.Delta = normCDF(d1) - 1
		q.Theta = -(spot*normPDF(d1)*volatility)/(2*sqrtT) + riskFreeRate*strike*discount*normCDF(-d2)
	}

	return q, nil
}

// intrinsicQuote is the settlement quote at expiry. Delta collapses to the
// moneyness indicator; all other Greeks are zero.
func intrinsicQuote(kind models.OptionKind, strike, spot float64) Quote {
	var q Quote
	if kind == models.KindCall {
		q.Value = math.Max(spot-strike, 0)
		if spot > strike {
			q.Delta = 1
		}
	} else {
		q.Value = math.Max(strike-spot, 0)
		if spot < strike {
			q.Delta = -1
		}
	}
	return q
}

// normCDF calculates the cumulative distribution function of the standard
// normal distribution.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPDF calculates the probability density function of the standard
// normal distribution.
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
