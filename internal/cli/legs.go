package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"flowmind-engine/internal/models"
)

const defaultLegDays = 30

// strategyFromFlags builds the strategy and market context from the
// shared analysis flags.
func strategyFromFlags(cmd *cobra.Command) (models.StrategyDefinition, models.MarketContext, error) {
	market, err := marketFromFlags(cmd)
	if err != nil {
		return models.StrategyDefinition{}, models.MarketContext{}, err
	}

	specs, _ := cmd.Flags().GetStringArray("leg")
	if len(specs) == 0 {
		return models.StrategyDefinition{}, models.MarketContext{},
			fmt.Errorf("at least one --leg is required (SIDE:KIND:STRIKE:PREMIUM[:QTY[:DAYS]])")
	}

	legs := make([]models.OptionLeg, 0, len(specs))
	for i, spec := range specs {
		leg, err := parseLeg(spec)
		if err != nil {
			return models.StrategyDefinition{}, models.MarketContext{},
				fmt.Errorf("leg %d: %w", i+1, err)
		}
		legs = append(legs, leg)
	}

	name, _ := cmd.Flags().GetString("name")
	return models.StrategyDefinition{Name: name, Legs: legs}, market, nil
}

// parseLeg parses SIDE:KIND:STRIKE:PREMIUM[:QTY[:DAYS]], for example
// LONG:CALL:195:4.80:1:5. Quantity defaults to 1 and days to 30.
func parseLeg(spec string) (models.OptionLeg, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 4 || len(parts) > 6 {
		return models.OptionLeg{}, fmt.Errorf("invalid leg %q, expected SIDE:KIND:STRIKE:PREMIUM[:QTY[:DAYS]]", spec)
	}

	side, err := parseSide(parts[0])
	if err != nil {
		return models.OptionLeg{}, err
	}
	kind, err := parseKind(parts[1])
	if err != nil {
		return models.OptionLeg{}, err
	}

	strike, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return models.OptionLeg{}, fmt.Errorf("invalid strike %q", parts[2])
	}
	premium, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return models.OptionLeg{}, fmt.Errorf("invalid premium %q", parts[3])
	}

	quantity := 1
	if len(parts) >= 5 {
		quantity, err = strconv.Atoi(parts[4])
		if err != nil {
			return models.OptionLeg{}, fmt.Errorf("invalid quantity %q", parts[4])
		}
	}

	days := float64(defaultLegDays)
	if len(parts) == 6 {
		days, err = strconv.ParseFloat(parts[5], 64)
		if err != nil {
			return models.OptionLeg{}, fmt.Errorf("invalid expiration days %q", parts[5])
		}
	}

	return models.OptionLeg{
		Strike:         strike,
		Kind:           kind,
		Side:           side,
		Quantity:       quantity,
		Premium:        premium,
		ExpirationDays: days,
	}, nil
}

func parseSide(s string) (models.OptionSide, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG", "BUY", "B":
		return models.SideLong, nil
	case "SHORT", "SELL", "S":
		return models.SideShort, nil
	default:
		return "", fmt.Errorf("invalid side %q, expected LONG or SHORT", s)
	}
}

func parseKind(s string) (models.OptionKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CALL", "CE", "C":
		return models.KindCall, nil
	case "PUT", "PE", "P":
		return models.KindPut, nil
	default:
		return "", fmt.Errorf("invalid kind %q, expected CALL or PUT", s)
	}
}
