package engine

import (
	"math"

	"flowmind-engine/internal/models"
)

// Default grid parameters. The sample count keeps breakeven interpolation
// within a few cents at typical underlying prices.
const (
	DefaultSampleCount   = 240
	DefaultRangeFraction = 0.35

	// minGridPrice keeps the lower grid edge strictly positive so the
	// lognormal pricing formula stays defined on every sample.
	minGridPrice = 0.01

	// slopeEps treats tiny net-exposure sums from float accumulation as
	// flat when classifying boundary payoff slopes.
	slopeEps = 1e-9
)

// CurveConfig controls payoff-curve sampling. The zero value is usable
// and maps to the package defaults; callers wanting different density
// pass it explicitly (no ambient state).
type CurveConfig struct {
	RangeFraction float64
	SampleCount   int
}

func (c CurveConfig) withDefaults() CurveConfig {
	if c.RangeFraction <= 0 {
		c.RangeFraction = DefaultRangeFraction
	}
	if c.SampleCount < 2 {
		c.SampleCount = DefaultSampleCount
	}
	return c
}

// priceGrid returns the ascending evaluation grid: sampleCount evenly
// spaced prices spanning spot*(1±rangeFraction), widened when necessary
// so every leg strike sits inside the grid with 20% headroom beyond the
// furthest strikes.
func priceGrid(strategy models.StrategyDefinition, spot float64, cfg CurveConfig) []float64 {
	cfg = cfg.withDefaults()

	lo := spot * (1 - cfg.RangeFraction)
	hi := spot * (1 + cfg.RangeFraction)
	if minStrike, maxStrike := strategy.StrikeRange(); maxStrike > 0 {
		lo = math.Min(lo, minStrike*0.8)
		hi = math.Max(hi, maxStrike*1.2)
	}
	if lo < minGridPrice {
		lo = minGridPrice
	}

	step := (hi - lo) / float64(cfg.SampleCount-1)
	grid := make([]float64, cfg.SampleCount)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}
	return grid
}

// BuildCurve samples the strategy aggregate over the price grid at the
// given horizon and returns the discretized P&L curve.
func BuildCurve(strategy models.StrategyDefinition, market models.MarketContext, cfg CurveConfig, horizonDays float64) (models.PayoffCurve, error) {
	grid := priceGrid(strategy, market.SpotPrice, cfg)
	curve := make(models.PayoffCurve, 0, len(grid))
	for _, price := range grid {
		agg, err := Aggregate(strategy, price, horizonDays, market.ImpliedVolatility, market.RiskFreeRate)
		if err != nil {
			return nil, err
		}
		curve = append(curve, models.PayoffPoint{UnderlyingPrice: price, PnL: agg.PnL})
	}
	return curve, nil
}

// BuildExpirationCurve builds the canonical expiration P&L curve: the
// strategy evaluated at the expiration of its nearest-dated leg. This is
// the curve breakeven and max-profit analysis runs on.
func BuildExpirationCurve(strategy models.StrategyDefinition, market models.MarketContext, cfg CurveConfig) (models.PayoffCurve, error) {
	return BuildCurve(strategy, market, cfg, strategy.NearestExpirationDays())
}

// BuildCurrentCurve builds the secondary "value today" curve with every
// leg at its full remaining time. Distinct from the expiration curve and
// never used for breakeven analysis.
func BuildCurrentCurve(strategy models.StrategyDefinition, market models.MarketContext, cfg CurveConfig) (models.PayoffCurve, error) {
	return BuildCurve(strategy, market, cfg, 0)
}

// Breakevens locates the zero-crossing prices of the sampled curve by
// linear interpolation between consecutive points of opposite pnl sign.
// A sample landing exactly on zero counts as one breakeven, not two. A
// curve that never crosses zero yields an empty set, which is a valid
// outcome for strategies that profit or lose across the whole range.
func Breakevens(curve models.PayoffCurve) []float64 {
	var crossings []float64
	for i, p := range curve {
		if p.PnL == 0 {
			crossings = append(crossings, p.UnderlyingPrice)
			continue
		}
		if i == 0 {
			continue
		}
		prev := curve[i-1]
		if prev.PnL == 0 {
			// Already recorded as an exact touch.
			continue
		}
		if (prev.PnL < 0) != (p.PnL < 0) {
			t := prev.PnL / (prev.PnL - p.PnL)
			crossings = append(crossings, prev.UnderlyingPrice+t*(p.UnderlyingPrice-prev.UnderlyingPrice))
		}
	}
	return crossings
}

// RiskBounds derives max profit and max loss from the sampled expiration
// curve. When the payoff keeps rising (or falling) beyond a grid boundary
// the corresponding extreme is reported as unbounded rather than the
// truncated sampled value.
//
// Beyond the highest strike the expiration payoff is linear with slope
// equal to the net call exposure; below the lowest strike it changes by
// the net put exposure per unit of price decline. Those analytic slopes,
// not the sampled edge, decide unboundedness.
func RiskBounds(strategy models.StrategyDefinition, curve models.PayoffCurve) (maxProfit, maxLoss models.Bound) {
	maxProfit = models.FiniteBound(curve.MaxPnL())
	maxLoss = models.FiniteBound(curve.MinPnL())

	var callExposure, putExposure float64
	for _, leg := range strategy.Legs {
		signedQty := leg.Side.Sign() * float64(leg.Quantity)
		if leg.Kind == models.KindCall {
			callExposure += signedQty
		} else {
			putExposure += signedQty
		}
	}

	// Upside: payoff slope above the top strike is the net call exposure.
	if callExposure > slopeEps {
		maxProfit = models.UnboundedBound()
	} else if callExposure < -slopeEps {
		maxLoss = models.UnboundedBound()
	}

	// Downside: payoff rises by the net put exposure per unit of decline.
	if putExposure > slopeEps {
		maxProfit = models.UnboundedBound()
	} else if putExposure < -slopeEps {
		maxLoss = models.UnboundedBound()
	}

	return maxProfit, maxLoss
}
