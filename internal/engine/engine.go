package engine

import (
	apperrors "flowmind-engine/internal/errors"
	"flowmind-engine/internal/models"
)

// Evaluator is the single entry point external collaborators call. It is
// stateless apart from its sampling configuration and safe for concurrent
// use; every evaluation allocates its own result objects.
type Evaluator struct {
	curve CurveConfig
}

// NewEvaluator creates an evaluator with the given curve configuration.
// The zero CurveConfig selects the package defaults.
func NewEvaluator(cfg CurveConfig) *Evaluator {
	return &Evaluator{curve: cfg.withDefaults()}
}

// Evaluate validates the strategy and market context once, then produces
// the complete result bundle: expiration and current payoff curves,
// breakevens, max profit/risk, probability of profit, chance price, and
// aggregate spot Greeks. Validation failures return a typed error and no
// partial result. The breakevens in the summary are exactly the
// zero-crossings present in the expiration curve.
func (e *Evaluator) Evaluate(strategy models.StrategyDefinition, market models.MarketContext) (*models.StrategyResult, error) {
	if err := Validate(strategy, market); err != nil {
		return nil, err
	}

	horizon := strategy.NearestExpirationDays()

	expCurve, err := BuildExpirationCurve(strategy, market, e.curve)
	if err != nil {
		return nil, err
	}
	curCurve, err := BuildCurrentCurve(strategy, market, e.curve)
	if err != nil {
		return nil, err
	}

	breakevens := Breakevens(expCurve)
	maxProfit, maxLoss := RiskBounds(strategy, expCurve)

	prob, err := EstimateProbability(strategy, market, breakevens, horizon)
	if err != nil {
		return nil, err
	}

	spotAgg, err := Aggregate(strategy, market.SpotPrice, 0, market.ImpliedVolatility, market.RiskFreeRate)
	if err != nil {
		return nil, err
	}

	return &models.StrategyResult{
		Strategy:        strategy,
		Market:          market,
		ExpirationCurve: expCurve,
		CurrentCurve:    curCurve,
		Summary: models.RiskSummary{
			MaxProfit:           maxProfit,
			MaxLoss:             maxLoss,
			Breakevens:          breakevens,
			ProbabilityOfProfit: prob.ProbabilityOfProfit,
			ChancePrice:         prob.ChancePrice,
			Greeks:              spotAgg.Greeks,
			NetDebitCredit:      strategy.NetDebitCredit(),
		},
	}, nil
}

// Validate checks the strategy and market context against the engine's
// input domain. Out-of-domain values fail loudly; nothing is clamped.
func Validate(strategy models.StrategyDefinition, market models.MarketContext) error {
	if len(strategy.Legs) == 0 {
		return apperrors.NewEmptyStrategyError(strategy.Name)
	}
	for _, leg := range strategy.Legs {
		if leg.Strike <= 0 {
			return apperrors.NewInvalidInputError("strike", leg.Strike, "strike must be positive")
		}
		if leg.Quantity <= 0 {
			return apperrors.NewInvalidInputError("quantity", float64(leg.Quantity), "quantity must be positive")
		}
		if !leg.Kind.Valid() {
			return apperrors.NewInvalidInputError("kind", 0, "kind must be CALL or PUT")
		}
		if !leg.Side.Valid() {
			return apperrors.NewInvalidInputError("side", 0, "side must be LONG or SHORT")
		}
		if leg.ExpirationDays < 0 {
			return apperrors.NewDegenerateMarketError("expiration_days", leg.ExpirationDays, "expiration must be non-negative")
		}
	}
	if market.SpotPrice <= 0 {
		return apperrors.NewInvalidInputError("spot", market.SpotPrice, "spot price must be positive")
	}
	if market.ImpliedVolatility <= 0 {
		return apperrors.NewInvalidInputError("volatility", market.ImpliedVolatility, "implied volatility must be positive")
	}
	return nil
}
