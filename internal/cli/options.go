package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flowmind-engine/internal/logging"
	"flowmind-engine/internal/models"
	"flowmind-engine/internal/strategies"
	"flowmind-engine/pkg/utils"
)

// addOptionsCommands adds the strategy analysis commands.
func addOptionsCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Options strategy analysis commands",
		Long:  "Commands for analyzing option strategies: evaluation, payoff diagrams, Greeks, and the template library.",
	}

	cmd.AddCommand(newEvaluateCmd(app))
	cmd.AddCommand(newPayoffCmd(app))
	cmd.AddCommand(newGreeksCmd(app))
	cmd.AddCommand(newStrategyCmd(app))

	rootCmd.AddCommand(cmd)
}

// addMarketFlags registers the market-context flags shared by the
// analysis commands.
func addMarketFlags(cmd *cobra.Command, app *App) {
	cmd.Flags().Float64("spot", 0, "Current underlying price (required)")
	cmd.Flags().Float64("iv", 0, "Annualized implied volatility, e.g. 0.35 (required)")
	cmd.Flags().Float64("rate", app.Config.Engine.RiskFreeRate, "Annualized risk-free rate")
}

// marketFromFlags builds the market context from command flags.
func marketFromFlags(cmd *cobra.Command) (models.MarketContext, error) {
	spot, _ := cmd.Flags().GetFloat64("spot")
	iv, _ := cmd.Flags().GetFloat64("iv")
	rate, _ := cmd.Flags().GetFloat64("rate")

	if spot <= 0 {
		return models.MarketContext{}, fmt.Errorf("--spot is required and must be positive")
	}
	if iv <= 0 {
		return models.MarketContext{}, fmt.Errorf("--iv is required and must be positive")
	}

	return models.MarketContext{
		SpotPrice:         spot,
		ImpliedVolatility: iv,
		RiskFreeRate:      rate,
		AsOf:              time.Now(),
	}, nil
}

func newEvaluateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a strategy",
		Long: `Evaluate an option strategy against the current market.

Legs are given as SIDE:KIND:STRIKE:PREMIUM[:QTY[:DAYS]], for example
LONG:CALL:195:4.80:1:5. Reports breakevens, max profit/loss, probability
of profit, the chance price, and aggregate Greeks.`,
		Example: `  flowmind options evaluate --spot 217.26 --iv 0.35 --leg LONG:CALL:195:4.80:1:5
  flowmind options evaluate --spot 100 --iv 0.25 \
      --leg LONG:CALL:100:3.50:1:30 --leg SHORT:CALL:110:1.20:1:30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			strategy, market, err := strategyFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			result, err := app.Evaluator.Evaluate(strategy, market)
			if err != nil {
				output.Error("Evaluation failed: %v", err)
				return err
			}

			logging.LogEvaluation(app.Logger, strategy.Name, len(strategy.Legs),
				market.SpotPrice, result.Summary.ProbabilityOfProfit, len(result.Summary.Breakevens))
			journalResult(cmd, app, result)

			if output.IsJSON() {
				return output.JSON(result)
			}
			displaySummary(output, result)
			return nil
		},
	}

	addMarketFlags(cmd, app)
	cmd.Flags().StringArray("leg", nil, "Strategy leg SIDE:KIND:STRIKE:PREMIUM[:QTY[:DAYS]] (repeatable)")
	cmd.Flags().String("name", "", "Strategy name for display and journaling")

	return cmd
}

func newPayoffCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payoff",
		Short: "Display payoff diagram",
		Long:  "Display an ASCII payoff diagram of the expiration P&L curve, with breakeven and spot markers.",
		Example: `  flowmind options payoff --spot 217.26 --iv 0.35 --leg LONG:CALL:195:4.80:1:5
  flowmind options payoff --spot 19500 --iv 0.12 \
      --leg LONG:CALL:19500:112.80:1:7 --leg LONG:PUT:19500:78.60:1:7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			strategy, market, err := strategyFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			result, err := app.Evaluator.Evaluate(strategy, market)
			if err != nil {
				output.Error("Evaluation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			name := strategy.Name
			if name == "" {
				name = "Strategy"
			}
			output.Bold("Payoff Diagram - %s", name)
			output.Println()
			renderPayoffChart(output, result)
			output.Println()
			displayKeyLevels(output, result)
			return nil
		},
	}

	addMarketFlags(cmd, app)
	cmd.Flags().StringArray("leg", nil, "Strategy leg SIDE:KIND:STRIKE:PREMIUM[:QTY[:DAYS]] (repeatable)")
	cmd.Flags().String("name", "", "Strategy name for display")

	return cmd
}

func newGreeksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "greeks",
		Short: "Calculate aggregate strategy Greeks",
		Long:  "Calculate aggregate Delta, Gamma, Theta, and Vega for a strategy at the current spot.",
		Example: `  flowmind options greeks --spot 217.26 --iv 0.35 --leg LONG:CALL:195:4.80:1:5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			strategy, market, err := strategyFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			result, err := app.Evaluator.Evaluate(strategy, market)
			if err != nil {
				output.Error("Evaluation failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(result.Summary.Greeks)
			}

			g := result.Summary.Greeks
			output.Bold("Aggregate Greeks")
			output.Println()
			output.Printf("  Delta (Δ):  %s\n", output.BoldText(fmt.Sprintf("%.4f", g.Delta)))
			output.Printf("  Gamma (Γ):  %.6f\n", g.Gamma)
			output.Printf("  Theta (Θ):  %s\n", output.PnLString(g.Theta, fmt.Sprintf("%.4f", g.Theta)))
			output.Printf("  Vega (ν):   %.4f\n", g.Vega)
			return nil
		},
	}

	addMarketFlags(cmd, app)
	cmd.Flags().StringArray("leg", nil, "Strategy leg SIDE:KIND:STRIKE:PREMIUM[:QTY[:DAYS]] (repeatable)")
	cmd.Flags().String("name", "", "Strategy name for display")

	return cmd
}

func newStrategyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Strategy template library",
		Long:  "List strategy templates and build + evaluate strategies from them.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available strategy templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(strategies.List())
			}

			output.Bold("Available Option Strategies")
			output.Println()
			for _, t := range strategies.List() {
				output.Printf("  %-18s %-8s %s\n", output.Cyan(t.Key), t.Bias, t.Description)
			}
			return nil
		},
	})

	build := &cobra.Command{
		Use:   "build <template-key>",
		Short: "Build a strategy from a template and evaluate it",
		Example: `  flowmind options strategy build straddle --spot 19500 --iv 0.12 \
      --strikes 19500 --premiums 112.80,78.60 --days 7
  flowmind options strategy build bull-call-spread --spot 100 --iv 0.25 \
      --strikes 100,110 --premiums 3.50,1.20 --days 30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			market, err := marketFromFlags(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			strikes, _ := cmd.Flags().GetFloat64Slice("strikes")
			premiums, _ := cmd.Flags().GetFloat64Slice("premiums")
			qty, _ := cmd.Flags().GetInt("qty")
			days, _ := cmd.Flags().GetFloat64("days")
			farDays, _ := cmd.Flags().GetFloat64("far-days")

			strategy, err := strategies.Build(args[0], strategies.BuildParams{
				Quantity: qty,
				Days:     days,
				FarDays:  farDays,
				Strikes:  strikes,
				Premiums: premiums,
			})
			if err != nil {
				output.Error("%v", err)
				return err
			}

			result, err := app.Evaluator.Evaluate(strategy, market)
			if err != nil {
				output.Error("Evaluation failed: %v", err)
				return err
			}

			logging.LogEvaluation(app.Logger, strategy.Name, len(strategy.Legs),
				market.SpotPrice, result.Summary.ProbabilityOfProfit, len(result.Summary.Breakevens))
			journalResult(cmd, app, result)

			if output.IsJSON() {
				return output.JSON(result)
			}
			displaySummary(output, result)
			return nil
		},
	}

	addMarketFlags(build, app)
	build.Flags().Float64Slice("strikes", nil, "Strikes, low to high, comma separated")
	build.Flags().Float64Slice("premiums", nil, "Premiums matching the template leg order, comma separated")
	build.Flags().Int("qty", 1, "Quantity per leg")
	build.Flags().Float64("days", 30, "Days to expiration")
	build.Flags().Float64("far-days", 0, "Far expiry for calendar spreads")

	cmd.AddCommand(build)
	return cmd
}

// journalResult records an evaluation when a journal is configured.
func journalResult(cmd *cobra.Command, app *App, result *models.StrategyResult) {
	if app.Journal == nil {
		return
	}
	if _, err := app.Journal.SaveEvaluation(cmd.Context(), result); err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to journal evaluation")
	}
}

// displaySummary renders the full result bundle.
func displaySummary(output *Output, result *models.StrategyResult) {
	name := result.Strategy.Name
	if name == "" {
		name = "Strategy"
	}
	output.Bold("%s", name)
	output.Printf("  Spot: %s  IV: %.1f%%  Rate: %.2f%%\n\n",
		utils.FormatPrice(result.Market.SpotPrice),
		result.Market.ImpliedVolatility*100,
		result.Market.RiskFreeRate*100)

	output.Bold("Legs")
	for i, leg := range result.Strategy.Legs {
		output.Printf("  %d. %-5s %-4s %s @ %s x%d  (%.0fd)\n",
			i+1, leg.Side, leg.Kind,
			utils.FormatPrice(leg.Strike),
			utils.FormatPrice(leg.Premium),
			leg.Quantity,
			leg.ExpirationDays)
	}
	output.Println()

	s := result.Summary
	output.Bold("Analysis")
	net := s.NetDebitCredit
	if net >= 0 {
		output.Printf("  Net Debit:      %s\n", utils.FormatCurrency(net))
	} else {
		output.Printf("  Net Credit:     %s\n", utils.FormatCurrency(-net))
	}
	output.Printf("  Max Profit:     %s\n", formatBound(output, s.MaxProfit, true))
	output.Printf("  Max Loss:       %s\n", formatBound(output, s.MaxLoss, false))
	displayBreakevens(output, s.Breakevens)
	output.Printf("  Probability:    %s\n", utils.FormatProbability(s.ProbabilityOfProfit))
	output.Printf("  Chance Price:   %s\n", utils.FormatPrice(s.ChancePrice))
	output.Println()

	g := s.Greeks
	output.Bold("Greeks")
	output.Printf("  Δ %.4f   Γ %.6f   Θ %.4f   ν %.4f\n", g.Delta, g.Gamma, g.Theta, g.Vega)
}

func displayBreakevens(output *Output, breakevens []float64) {
	switch len(breakevens) {
	case 0:
		output.Printf("  Breakeven:      %s\n", output.ColoredString(ColorDim, "none in sampled range"))
	case 1:
		output.Printf("  Breakeven:      %s\n", utils.FormatPrice(breakevens[0]))
	default:
		parts := make([]string, len(breakevens))
		for i, be := range breakevens {
			parts[i] = utils.FormatPrice(be)
		}
		output.Printf("  Breakevens:     %s\n", strings.Join(parts, " / "))
	}
}

func formatBound(output *Output, b models.Bound, profit bool) string {
	if b.Unbounded {
		if profit {
			return output.Green("Unlimited")
		}
		return output.Red("Unlimited")
	}
	text := utils.FormatPnL(b.Value)
	return output.PnLString(b.Value, text)
}

// displayKeyLevels prints the reference prices under a payoff chart.
func displayKeyLevels(output *Output, result *models.StrategyResult) {
	s := result.Summary
	displayBreakevens(output, s.Breakevens)
	output.Printf("  Max Profit:     %s\n", formatBound(output, s.MaxProfit, true))
	output.Printf("  Max Loss:       %s\n", formatBound(output, s.MaxLoss, false))
	output.Printf("  Chance Price:   %s  (%s profit probability)\n",
		utils.FormatPrice(s.ChancePrice),
		utils.FormatProbability(s.ProbabilityOfProfit))
}
