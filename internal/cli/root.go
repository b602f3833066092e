package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"flowmind-engine/internal/config"
	"flowmind-engine/internal/engine"
	"flowmind-engine/internal/logging"
	"flowmind-engine/internal/store"
)

// Version information
const (
	Version   = "0.3.0"
	BuildDate = "2025-11-04"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Evaluator *engine.Evaluator
	Journal   store.Journal
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Evaluator: engine.NewEvaluator(engine.CurveConfig{
			RangeFraction: cfg.Engine.RangeFraction,
			SampleCount:   cfg.Engine.SampleCount,
		}),
	}

	// Initialize the evaluation journal when a path is configured.
	if cfg.Store.Path != "" {
		journal, err := store.NewSQLiteJournal(cfg.Store.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize journal, evaluations will not be recorded")
		} else {
			app.Journal = journal
			logger.Debug().Str("path", cfg.Store.Path).Msg("Evaluation journal initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "flowmind",
		Short: "Flowmind options engine - strategy payoff and risk analysis",
		Long: `Flowmind Engine computes payoff curves, breakevens, max profit/risk,
and probability-of-profit for multi-leg option strategies.

Strategies are defined leg by leg (strike, call/put, long/short, quantity,
premium, expiration) or built from the template library. Market data (spot,
implied volatility) is supplied by the caller; the engine performs no I/O.

Use 'flowmind help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/flowmind-engine)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addOptionsCommands(rootCmd, app)
	addJournalCommands(rootCmd, app)
	addServeCommand(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Flowmind Engine v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Engine Configuration")
	output.Printf("  Risk-Free Rate:  %.2f%%\n", cfg.Engine.RiskFreeRate*100)
	output.Printf("  Sample Count:    %d\n", cfg.Engine.SampleCount)
	output.Printf("  Range Fraction:  %.2f\n", cfg.Engine.RangeFraction)
	output.Println()

	output.Bold("Server Configuration")
	output.Printf("  Address:         %s\n", cfg.Server.Addr)
	output.Println()

	output.Bold("Journal Configuration")
	if cfg.Store.Path == "" {
		output.Printf("  Path:            (disabled)\n")
	} else {
		output.Printf("  Path:            %s\n", cfg.Store.Path)
	}
	output.Println()

	output.Bold("Logging Configuration")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)
	output.Printf("  File:            %v\n", cfg.Logging.File)
}
