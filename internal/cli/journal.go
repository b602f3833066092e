package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"flowmind-engine/pkg/utils"
)

// addJournalCommands adds the evaluation journal commands.
func addJournalCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Evaluation journal",
		Long:  "Browse previously recorded strategy evaluations.",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List recent evaluations",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Warning("Journal is disabled, set store.path in the config to enable it")
				return nil
			}

			limit, _ := cmd.Flags().GetInt("limit")
			records, err := app.Journal.ListEvaluations(cmd.Context(), limit)
			if err != nil {
				output.Error("Failed to list evaluations: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}

			if len(records) == 0 {
				output.Dim("No evaluations recorded yet")
				return nil
			}

			table := NewTable(output, "ID", "Date", "Strategy", "Legs", "Spot", "PoP", "Max Loss")
			for _, rec := range records {
				name := rec.Strategy.Name
				if name == "" {
					name = "(unnamed)"
				}
				table.AddRow(
					fmt.Sprintf("%d", rec.ID),
					rec.CreatedAt.Format(app.Config.UI.DateFormat),
					name,
					fmt.Sprintf("%d", len(rec.Strategy.Legs)),
					utils.FormatPrice(rec.Market.SpotPrice),
					utils.FormatProbability(rec.Summary.ProbabilityOfProfit),
					formatBound(output, rec.Summary.MaxLoss, false),
				)
			}
			table.Render()
			return nil
		},
	}
	list.Flags().Int("limit", 20, "Maximum number of evaluations to show")
	cmd.AddCommand(list)

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				output.Warning("Journal is disabled, set store.path in the config to enable it")
				return nil
			}

			var id int64
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				output.Error("Invalid evaluation id %q", args[0])
				return err
			}

			rec, err := app.Journal.GetEvaluation(cmd.Context(), id)
			if err != nil {
				output.Error("Failed to load evaluation %d: %v", id, err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(rec)
			}

			output.Bold("Evaluation #%d", rec.ID)
			output.Dim("Recorded %s", rec.CreatedAt.Format(app.Config.UI.DateFormat))
			output.Println()

			name := rec.Strategy.Name
			if name == "" {
				name = "(unnamed)"
			}
			output.Printf("  Strategy: %s\n", output.Cyan(name))
			output.Printf("  Spot: %s  IV: %.1f%%  Rate: %.2f%%\n\n",
				utils.FormatPrice(rec.Market.SpotPrice),
				rec.Market.ImpliedVolatility*100,
				rec.Market.RiskFreeRate*100)

			output.Bold("Legs")
			for i, leg := range rec.Strategy.Legs {
				output.Printf("  %d. %-5s %-4s %s @ %s x%d  (%.0fd)\n",
					i+1, leg.Side, leg.Kind,
					utils.FormatPrice(leg.Strike),
					utils.FormatPrice(leg.Premium),
					leg.Quantity,
					leg.ExpirationDays)
			}
			output.Println()

			s := rec.Summary
			output.Bold("Summary")
			output.Printf("  Max Profit:     %s\n", formatBound(output, s.MaxProfit, true))
			output.Printf("  Max Loss:       %s\n", formatBound(output, s.MaxLoss, false))
			displayBreakevens(output, s.Breakevens)
			output.Printf("  Probability:    %s\n", utils.FormatProbability(s.ProbabilityOfProfit))
			output.Printf("  Chance Price:   %s\n", utils.FormatPrice(s.ChancePrice))
			return nil
		},
	}
	cmd.AddCommand(show)

	rootCmd.AddCommand(cmd)
}
