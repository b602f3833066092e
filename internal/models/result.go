package models

import (
	"encoding/json"
	"math"
)

// PayoffPoint is a single (underlying price, pnl) sample on a payoff curve.
type PayoffPoint struct {
	UnderlyingPrice float64 `json:"underlying_price"`
	PnL             float64 `json:"pnl"`
}

// PayoffCurve is an ordered sequence of payoff points over an ascending
// price grid. It belongs to a single evaluation and is read-only after
// construction.
type PayoffCurve []PayoffPoint

// MinPnL returns the smallest pnl on the curve, or 0 for an empty curve.
func (c PayoffCurve) MinPnL() float64 {
	if len(c) == 0 {
		return 0
	}
	min := c[0].PnL
	for _, p := range c[1:] {
		if p.PnL < min {
			min = p.PnL
		}
	}
	return min
}

// MaxPnL returns the largest pnl on the curve, or 0 for an empty curve.
func (c PayoffCurve) MaxPnL() float64 {
	if len(c) == 0 {
		return 0
	}
	max := c[0].PnL
	for _, p := range c[1:] {
		if p.PnL > max {
			max = p.PnL
		}
	}
	return max
}

// GridSpacing returns the distance between adjacent grid prices,
// or 0 if the curve has fewer than two points.
func (c PayoffCurve) GridSpacing() float64 {
	if len(c) < 2 {
		return 0
	}
	return c[1].UnderlyingPrice - c[0].UnderlyingPrice
}

// Bound is a profit or loss extreme that may be unbounded. A truncated
// grid value must never be mistaken for the true maximum, so the two
// cases are carried explicitly instead of using +/-Inf sentinels in JSON.
type Bound struct {
	Value     float64
	Unbounded bool
}

// FiniteBound returns a bounded extreme.
func FiniteBound(v float64) Bound {
	return Bound{Value: v}
}

// UnboundedBound returns an unbounded extreme.
func UnboundedBound() Bound {
	return Bound{Unbounded: true}
}

// Float returns the bound as a float64, mapping unbounded to +Inf.
// The sign of an unbounded loss is the caller's concern; the engine
// only ever reports unbounded extremes, not unbounded signed values.
func (b Bound) Float() float64 {
	if b.Unbounded {
		return math.Inf(1)
	}
	return b.Value
}

// MarshalJSON encodes a bounded value as a number and an unbounded one
// as the string "unbounded".
func (b Bound) MarshalJSON() ([]byte, error) {
	if b.Unbounded {
		return json.Marshal("unbounded")
	}
	return json.Marshal(b.Value)
}

// UnmarshalJSON decodes either a number or the string "unbounded".
func (b *Bound) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		b.Unbounded = s == "unbounded"
		b.Value = 0
		return nil
	}
	b.Unbounded = false
	return json.Unmarshal(data, &b.Value)
}

// GreekTotals holds aggregate first- and second-order sensitivities.
type GreekTotals struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

// RiskSummary holds the derived display metrics for one evaluation.
type RiskSummary struct {
	MaxProfit           Bound       `json:"max_profit"`
	MaxLoss             Bound       `json:"max_loss"`
	Breakevens          []float64   `json:"breakevens"`
	ProbabilityOfProfit float64     `json:"probability_of_profit"`
	ChancePrice         float64     `json:"chance_price"`
	Greeks              GreekTotals `json:"greeks"`
	NetDebitCredit      float64     `json:"net_debit_credit"`
}

// StrategyResult is the complete bundle returned by the strategy facade.
// ExpirationCurve is the canonical curve used for breakeven and max
// profit/loss analysis; CurrentCurve is the value-today curve and must
// not be conflated with it.
type StrategyResult struct {
	Strategy        StrategyDefinition `json:"strategy"`
	Market          MarketContext      `json:"market"`
	ExpirationCurve PayoffCurve        `json:"expiration_curve"`
	CurrentCurve    PayoffCurve        `json:"current_curve"`
	Summary         RiskSummary        `json:"summary"`
}
