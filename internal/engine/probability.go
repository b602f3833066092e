package engine

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	apperrors "flowmind-engine/internal/errors"
	"flowmind-engine/internal/models"
)

// ProbabilityResult holds the probability-of-profit estimate and the
// chance-price display anchor.
type ProbabilityResult struct {
	ProbabilityOfProfit float64
	ChancePrice         float64
}

// profitInterval is one breakeven-delimited segment of the price axis.
// Low == 0 and High == +Inf mark the open-ended edge intervals.
type profitInterval struct {
	Low    float64
	High   float64
	Profit bool
	Mass   float64
}

// EstimateProbability models the underlying at the horizon as lognormal
// under the risk-neutral measure,
//
//	ln(S_T/S_0) ~ Normal((r - vol^2/2)*T, vol*sqrt(T)),
//
// partitions the price axis by the supplied breakevens, labels each
// interval by the sign of the expiration payoff inside it, and integrates
// the density over the profit-labeled intervals in closed form.
//
// The chance price is the distribution's quantile restricted to the
// primary profit interval: the price at which the cumulative mass from
// the breakeven nearer to spot reaches the reported probability fraction
// of that interval's mass. It is a display anchor, not an additional
// statistical claim.
func EstimateProbability(strategy models.StrategyDefinition, market models.MarketContext, breakevens []float64, horizonDays float64) (ProbabilityResult, error) {
	if len(strategy.Legs) == 0 {
		return ProbabilityResult{}, apperrors.NewEmptyStrategyError(strategy.Name)
	}
	if horizonDays < 0 {
		return ProbabilityResult{}, apperrors.NewDegenerateMarketError("time_horizon_days", horizonDays, "time horizon must be non-negative")
	}
	if market.SpotPrice <= 0 {
		return ProbabilityResult{}, apperrors.NewInvalidInputError("spot", market.SpotPrice, "spot price must be positive")
	}
	if market.ImpliedVolatility <= 0 {
		return ProbabilityResult{}, apperrors.NewInvalidInputError("volatility", market.ImpliedVolatility, "implied volatility must be positive")
	}

	payoffAt := func(price float64) (float64, error) {
		agg, err := Aggregate(strategy, price, horizonDays, market.ImpliedVolatility, market.RiskFreeRate)
		if err != nil {
			return 0, err
		}
		return agg.PnL, nil
	}

	// Zero horizon: the outcome is already decided by the current spot.
	if horizonDays == 0 {
		pnl, err := payoffAt(market.SpotPrice)
		if err != nil {
			return ProbabilityResult{}, err
		}
		res := ProbabilityResult{ChancePrice: market.SpotPrice}
		if pnl > 0 {
			res.ProbabilityOfProfit = 1
		}
		return res, nil
	}

	tau := horizonDays / DaysPerYear
	sd := market.ImpliedVolatility * math.Sqrt(tau)
	dist := distuv.LogNormal{
		Mu:    math.Log(market.SpotPrice) + (market.RiskFreeRate-0.5*market.ImpliedVolatility*market.ImpliedVolatility)*tau,
		Sigma: sd,
	}

	intervals, err := buildIntervals(breakevens, market.SpotPrice, payoffAt)
	if err != nil {
		return ProbabilityResult{}, err
	}

	probability := 0.0
	for i := range intervals {
		intervals[i].Mass = intervalMass(dist, intervals[i])
		if intervals[i].Profit {
			probability += intervals[i].Mass
		}
	}
	// Interval masses partition the distribution; guard the sum against
	// float drift at the [0,1] edges.
	probability = math.Min(math.Max(probability, 0), 1)

	return ProbabilityResult{
		ProbabilityOfProfit: probability,
		ChancePrice:         chancePrice(dist, intervals, market.SpotPrice, probability),
	}, nil
}

// buildIntervals partitions the price axis by the breakevens and labels
// each interval with the payoff sign at a probe point inside it. With no
// breakevens the whole axis is one interval probed at spot.
func buildIntervals(breakevens []float64, spot float64, payoffAt func(float64) (float64, error)) ([]profitInterval, error) {
	bes := append([]float64(nil), breakevens...)
	sort.Float64s(bes)

	if len(bes) == 0 {
		pnl, err := payoffAt(spot)
		if err != nil {
			return nil, err
		}
		return []profitInterval{{Low: 0, High: math.Inf(1), Profit: pnl > 0}}, nil
	}

	bounds := make([]float64, 0, len(bes)+2)
	bounds = append(bounds, 0)
	bounds = append(bounds, bes...)
	bounds = append(bounds, math.Inf(1))

	intervals := make([]profitInterval, 0, len(bounds)-1)
	for i := 0; i < len(bounds)-1; i++ {
		lo, hi := bounds[i], bounds[i+1]
		pnl, err := payoffAt(probePoint(lo, hi))
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, profitInterval{Low: lo, High: hi, Profit: pnl > 0})
	}
	return intervals, nil
}

// probePoint picks a representative interior price for an interval.
func probePoint(lo, hi float64) float64 {
	switch {
	case lo == 0 && math.IsInf(hi, 1):
		return 1 // degenerate, unreachable with breakevens present
	case lo == 0:
		return hi / 2
	case math.IsInf(hi, 1):
		return lo * 1.25
	default:
		return (lo + hi) / 2
	}
}

func intervalMass(dist distuv.LogNormal, iv profitInterval) float64 {
	hi := 1.0
	if !math.IsInf(iv.High, 1) {
		hi = dist.CDF(iv.High)
	}
	lo := 0.0
	if iv.Low > 0 {
		lo = dist.CDF(iv.Low)
	}
	return hi - lo
}

// chancePrice resolves the display anchor inside the primary profit
// interval (the profit interval carrying the most probability mass).
// Without a profit interval, or without a finite breakeven to measure
// from, the anchor degenerates to spot.
func chancePrice(dist distuv.LogNormal, intervals []profitInterval, spot, probability float64) float64 {
	primary := -1
	for i, iv := range intervals {
		if !iv.Profit {
			continue
		}
		if primary < 0 || iv.Mass > intervals[primary].Mass {
			primary = i
		}
	}
	if primary < 0 {
		return spot
	}

	iv := intervals[primary]
	lowFinite := iv.Low > 0
	highFinite := !math.IsInf(iv.High, 1)
	if !lowFinite && !highFinite {
		return spot
	}

	// Measure from the finite boundary nearer to spot, moving into the
	// interval.
	fromLow := lowFinite
	if lowFinite && highFinite {
		fromLow = math.Abs(spot-iv.Low) <= math.Abs(spot-iv.High)
	}

	mass := probability * iv.Mass
	if fromLow {
		return dist.Quantile(clampUnit(dist.CDF(iv.Low) + mass))
	}
	return dist.Quantile(clampUnit(dist.CDF(iv.High) - mass))
}

// clampUnit keeps quantile arguments inside the open unit interval so
// float drift at the edges cannot produce infinite quantiles.
func clampUnit(p float64) float64 {
	const eps = 1e-12
	return math.Min(math.Max(p, eps), 1-eps)
}
