// Package strategies provides named option-strategy templates: the leg
// layouts the dashboard's strategy library and builder expose. Templates
// only assemble StrategyDefinition values; all analysis stays in the
// engine.
package strategies

import (
	"fmt"
	"sort"

	"flowmind-engine/internal/models"
)

// Bias describes the directional posture of a template.
type Bias string

const (
	BiasBullish  Bias = "BULLISH"
	BiasBearish  Bias = "BEARISH"
	BiasNeutral  Bias = "NEUTRAL"
	BiasVolatile Bias = "VOLATILE"
)

// Template describes one entry in the strategy library.
type Template struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Bias        Bias   `json:"bias"`
	Strikes     int    `json:"strikes"`  // distinct strikes the builder asks for
	Premiums    int    `json:"premiums"` // premiums the builder asks for
}

var library = map[string]Template{
	"long-call":        {Key: "long-call", Name: "Long Call", Description: "Buy a call", Bias: BiasBullish, Strikes: 1, Premiums: 1},
	"long-put":         {Key: "long-put", Name: "Long Put", Description: "Buy a put", Bias: BiasBearish, Strikes: 1, Premiums: 1},
	"straddle":         {Key: "straddle", Name: "Long Straddle", Description: "Buy ATM call + put", Bias: BiasVolatile, Strikes: 1, Premiums: 2},
	"strangle":         {Key: "strangle", Name: "Long Strangle", Description: "Buy OTM put + OTM call", Bias: BiasVolatile, Strikes: 2, Premiums: 2},
	"bull-call-spread": {Key: "bull-call-spread", Name: "Bull Call Spread", Description: "Buy lower strike call, sell higher strike call", Bias: BiasBullish, Strikes: 2, Premiums: 2},
	"bear-put-spread":  {Key: "bear-put-spread", Name: "Bear Put Spread", Description: "Buy higher strike put, sell lower strike put", Bias: BiasBearish, Strikes: 2, Premiums: 2},
	"iron-condor":      {Key: "iron-condor", Name: "Iron Condor", Description: "Sell OTM put + call, buy further OTM wings", Bias: BiasNeutral, Strikes: 4, Premiums: 4},
	"butterfly":        {Key: "butterfly", Name: "Call Butterfly", Description: "Buy 1 low, sell 2 mid, buy 1 high", Bias: BiasNeutral, Strikes: 3, Premiums: 3},
	"calendar-spread":  {Key: "calendar-spread", Name: "Calendar Spread", Description: "Sell near expiry call, buy far expiry call", Bias: BiasNeutral, Strikes: 1, Premiums: 2},
	"ratio-spread":     {Key: "ratio-spread", Name: "Call Ratio Spread", Description: "Buy 1 lower strike call, sell 2 higher strike calls", Bias: BiasNeutral, Strikes: 2, Premiums: 2},
}

// List returns the library entries sorted by key.
func List() []Template {
	keys := make([]string, 0, len(library))
	for k := range library {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Template, 0, len(keys))
	for _, k := range keys {
		out = append(out, library[k])
	}
	return out
}

// Lookup returns the template for a key.
func Lookup(key string) (Template, bool) {
	t, ok := library[key]
	return t, ok
}

// BuildParams carries the builder inputs for a template. Strikes and
// Premiums are ordered low strike to high strike in the order the
// template's description lists its legs; FarDays only applies to
// calendar spreads.
type BuildParams struct {
	Quantity int
	Days     float64
	FarDays  float64
	Strikes  []float64
	Premiums []float64
}

// Build assembles a StrategyDefinition for the given template key. Leg
// validity (positive strikes, quantities) is the engine's concern; Build
// only checks template arity.
func Build(key string, p BuildParams) (models.StrategyDefinition, error) {
	t, ok := library[key]
	if !ok {
		return models.StrategyDefinition{}, fmt.Errorf("unknown strategy template %q", key)
	}
	if len(p.Strikes) != t.Strikes {
		return models.StrategyDefinition{}, fmt.Errorf("%s requires %d strike(s), got %d", key, t.Strikes, len(p.Strikes))
	}
	if len(p.Premiums) != t.Premiums {
		return models.StrategyDefinition{}, fmt.Errorf("%s requires %d premium(s), got %d", key, t.Premiums, len(p.Premiums))
	}
	if p.Quantity <= 0 {
		p.Quantity = 1
	}

	qty := p.Quantity
	days := p.Days
	s := models.StrategyDefinition{Name: t.Name}

	leg := func(kind models.OptionKind, side models.OptionSide, strike, premium float64, quantity int, expDays float64) {
		s.Legs = append(s.Legs, models.OptionLeg{
			Strike:         strike,
			Kind:           kind,
			Side:           side,
			Quantity:       quantity,
			Premium:        premium,
			ExpirationDays: expDays,
		})
	}

	switch key {
	case "long-call":
		leg(models.KindCall, models.SideLong, p.Strikes[0], p.Premiums[0], qty, days)
	case "long-put":
		leg(models.KindPut, models.SideLong, p.Strikes[0], p.Premiums[0], qty, days)
	case "straddle":
		leg(models.KindCall, models.SideLong, p.Strikes[0], p.Premiums[0], qty, days)
		leg(models.KindPut, models.SideLong, p.Strikes[0], p.Premiums[1], qty, days)
	case "strangle":
		leg(models.KindPut, models.SideLong, p.Strikes[0], p.Premiums[0], qty, days)
		leg(models.KindCall, models.SideLong, p.Strikes[1], p.Premiums[1], qty, days)
	case "bull-call-spread":
		leg(models.KindCall, models.SideLong, p.Strikes[0], p.Premiums[0], qty, days)
		leg(models.KindCall, models.SideShort, p.Strikes[1], p.Premiums[1], qty, days)
	case "bear-put-spread":
		leg(models.KindPut, models.SideShort, p.Strikes[0], p.Premiums[0], qty, days)
		leg(models.KindPut, models.SideLong, p.Strikes[1], p.Premiums[1], qty, days)
	case "iron-condor":
		leg(models.KindPut, models.SideLong, p.Strikes[0], p.Premiums[0], qty, days)
		leg(models.KindPut, models.SideShort, p.Strikes[1], p.Premiums[1], qty, days)
		leg(models.KindCall, models.SideShort, p.Strikes[2], p.Premiums[2], qty, days)
		leg(models.KindCall, models.SideLong, p.Strikes[3], p.Premiums[3], qty, days)
	case "butterfly":
		leg(models.KindCall, models.SideLong, p.Strikes[0], p.Premiums[0], qty, days)
		leg(models.KindCall, models.SideShort, p.Strikes[1], p.Premiums[1], 2*qty, days)
		leg(models.KindCall, models.SideLong, p.Strikes[2], p.Premiums[2], qty, days)
	case "calendar-spread":
		farDays := p.FarDays
		if farDays <= days {
			return models.StrategyDefinition{}, fmt.Errorf("calendar-spread requires far expiry beyond %g days", days)
		}
		leg(models.KindCall, models.SideShort, p.Strikes[0], p.Premiums[0], qty, days)
		leg(models.KindCall, models.SideLong, p.Strikes[0], p.Premiums[1], qty, farDays)
	case "ratio-spread":
		leg(models.KindCall, models.SideLong, p.Strikes[0], p.Premiums[0], qty, days)
		leg(models.KindCall, models.SideShort, p.Strikes[1], p.Premiums[1], 2*qty, days)
	}

	return s, nil
}
