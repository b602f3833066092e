// Package models provides domain models for the options engine.
package models

import (
	"time"
)

// OptionKind represents the kind of an option contract.
type OptionKind string

const (
	KindCall OptionKind = "CALL"
	KindPut  OptionKind = "PUT"
)

// Valid reports whether the kind is a known contract kind.
func (k OptionKind) Valid() bool {
	return k == KindCall || k == KindPut
}

// OptionSide represents the side of an option position.
type OptionSide string

const (
	SideLong  OptionSide = "LONG"
	SideShort OptionSide = "SHORT"
)

// Valid reports whether the side is a known position side.
func (s OptionSide) Valid() bool {
	return s == SideLong || s == SideShort
}

// Sign returns +1 for long positions and -1 for short positions.
func (s OptionSide) Sign() float64 {
	if s == SideShort {
		return -1
	}
	return 1
}

// OptionLeg represents a single option position within a strategy.
// Legs are immutable values; the engine never modifies them.
type OptionLeg struct {
	Strike         float64    `json:"strike"`
	Kind           OptionKind `json:"kind"`
	Side           OptionSide `json:"side"`
	Quantity       int        `json:"quantity"`
	Premium        float64    `json:"premium"` // per unit, paid for long / received for short
	ExpirationDays float64    `json:"expiration_days"`
}

// MarketContext holds the market snapshot an evaluation runs against.
// It is supplied fresh per evaluation and never mutated by the engine.
type MarketContext struct {
	SpotPrice         float64   `json:"spot_price"`
	ImpliedVolatility float64   `json:"implied_volatility"` // annualized
	RiskFreeRate      float64   `json:"risk_free_rate"`     // annualized
	AsOf              time.Time `json:"as_of"`
}

// StrategyDefinition is an ordered collection of option legs.
// Order is irrelevant to the math but preserved for display.
type StrategyDefinition struct {
	Name string      `json:"name,omitempty"`
	Legs []OptionLeg `json:"legs"`
}

// NetDebitCredit returns the signed net premium of the strategy:
// positive for a net debit (premium paid), negative for a net credit.
func (s StrategyDefinition) NetDebitCredit() float64 {
	net := 0.0
	for _, leg := range s.Legs {
		net += leg.Side.Sign() * float64(leg.Quantity) * leg.Premium
	}
	return net
}

// NearestExpirationDays returns the smallest expiration horizon across legs.
// Returns 0 for an empty strategy.
func (s StrategyDefinition) NearestExpirationDays() float64 {
	if len(s.Legs) == 0 {
		return 0
	}
	nearest := s.Legs[0].ExpirationDays
	for _, leg := range s.Legs[1:] {
		if leg.ExpirationDays < nearest {
			nearest = leg.ExpirationDays
		}
	}
	return nearest
}

// StrikeRange returns the lowest and highest strikes across legs.
// Returns (0, 0) for an empty strategy.
func (s StrategyDefinition) StrikeRange() (low, high float64) {
	if len(s.Legs) == 0 {
		return 0, 0
	}
	low, high = s.Legs[0].Strike, s.Legs[0].Strike
	for _, leg := range s.Legs[1:] {
		if leg.Strike < low {
			low = leg.Strike
		}
		if leg.Strike > high {
			high = leg.Strike
		}
	}
	return low, high
}
