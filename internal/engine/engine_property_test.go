package engine

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"flowmind-engine/internal/models"
)

// Property: for any positive strike, spot, vol, and horizon, call and put
// quotes at the same parameters satisfy put-call parity and keep their
// deltas inside the model bounds.
func TestProperty_PutCallParityHolds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("put-call parity holds", prop.ForAll(
		func(strike, spot, vol, days, rate float64) bool {
			T := days / DaysPerYear
			call, err := Price(models.KindCall, strike, spot, T, vol, rate)
			if err != nil {
				return false
			}
			put, err := Price(models.KindPut, strike, spot, T, vol, rate)
			if err != nil {
				return false
			}

			lhs := call.Value - put.Value
			rhs := spot - strike*math.Exp(-rate*T)
			if math.Abs(lhs-rhs) > 1e-6*math.Max(1, spot) {
				return false
			}
			if call.Delta < 0 || call.Delta > 1 {
				return false
			}
			if put.Delta < -1 || put.Delta > 0 {
				return false
			}
			return call.Value >= 0 && put.Value >= 0
		},
		gen.Float64Range(10, 5000),
		gen.Float64Range(10, 5000),
		gen.Float64Range(0.05, 1.5),
		gen.Float64Range(1, 365),
		gen.Float64Range(0, 0.10),
	))

	properties.TestingRun(t)
}

// Property: the strategy aggregate at any (spot, horizon) point equals
// the sum of its per-leg evaluations.
func TestProperty_AggregateEqualsLegSum(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	legGen := gen.Struct(reflect.TypeOf(models.OptionLeg{}), map[string]gopter.Gen{
		"Strike":         gen.Float64Range(50, 200),
		"Kind":           gen.OneConstOf(models.KindCall, models.KindPut),
		"Side":           gen.OneConstOf(models.SideLong, models.SideShort),
		"Quantity":       gen.IntRange(1, 5),
		"Premium":        gen.Float64Range(0.1, 30),
		"ExpirationDays": gen.Float64Range(1, 90),
	})

	properties.Property("aggregate equals leg sum", prop.ForAll(
		func(legs []models.OptionLeg, spot, horizon float64) bool {
			strategy := models.StrategyDefinition{Legs: legs}
			agg, err := Aggregate(strategy, spot, horizon, 0.30, 0.05)
			if err != nil {
				return false
			}

			var sum float64
			for _, leg := range legs {
				remaining := leg.ExpirationDays - horizon
				if remaining < 0 {
					remaining = 0
				}
				res, err := EvaluateLeg(leg, spot, remaining/DaysPerYear, 0.30, 0.05)
				if err != nil {
					return false
				}
				sum += res.PnL
			}
			return math.Abs(agg.PnL-sum) < 1e-9
		},
		gen.SliceOfN(3, legGen),
		gen.Float64Range(50, 200),
		gen.Float64Range(0, 60),
	))

	properties.TestingRun(t)
}

// Property: every evaluated strategy reports a probability inside [0,1],
// a strictly positive chance price, and breakevens sorted ascending
// inside the sampled grid.
func TestProperty_SummaryInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	evaluator := NewEvaluator(CurveConfig{})

	legGen := gen.Struct(reflect.TypeOf(models.OptionLeg{}), map[string]gopter.Gen{
		"Strike":         gen.Float64Range(80, 120),
		"Kind":           gen.OneConstOf(models.KindCall, models.KindPut),
		"Side":           gen.OneConstOf(models.SideLong, models.SideShort),
		"Quantity":       gen.IntRange(1, 3),
		"Premium":        gen.Float64Range(0.5, 15),
		"ExpirationDays": gen.Float64Range(1, 60),
	})

	properties.Property("summary invariants hold", prop.ForAll(
		func(legs []models.OptionLeg, spot, vol float64) bool {
			result, err := evaluator.Evaluate(
				models.StrategyDefinition{Legs: legs},
				models.MarketContext{SpotPrice: spot, ImpliedVolatility: vol, RiskFreeRate: 0.05},
			)
			if err != nil {
				return false
			}
			s := result.Summary

			if s.ProbabilityOfProfit < 0 || s.ProbabilityOfProfit > 1 {
				return false
			}
			if s.ChancePrice <= 0 {
				return false
			}
			for i := 1; i < len(s.Breakevens); i++ {
				if s.Breakevens[i] < s.Breakevens[i-1] {
					return false
				}
			}
			lo := result.ExpirationCurve[0].UnderlyingPrice
			hi := result.ExpirationCurve[len(result.ExpirationCurve)-1].UnderlyingPrice
			for _, be := range s.Breakevens {
				if be < lo || be > hi {
					return false
				}
			}

			// Finite extremes must bracket zero the way a sampled curve
			// demands: max >= min always.
			if !s.MaxProfit.Unbounded && !s.MaxLoss.Unbounded && s.MaxProfit.Value < s.MaxLoss.Value {
				return false
			}
			return true
		},
		gen.SliceOfN(2, legGen),
		gen.Float64Range(80, 120),
		gen.Float64Range(0.10, 0.80),
	))

	properties.TestingRun(t)
}
