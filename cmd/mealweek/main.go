package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/mealweek/internal/cli"
	"github.com/terraincognita07/mealweek/internal/config"
	"github.com/terraincognita07/mealweek/internal/logging"
	"go.uber.org/zap"
)

// commandState is filled by the root command's pre-run hook and read by
// every subcommand.
type commandState struct {
	verbose bool
	dbPath  string
	envFile string

	config config.Config
	logger *zap.Logger
}

func (state *commandState) runtime(cmd *cobra.Command) cli.Runtime {
	return cli.Runtime{
		Config: state.config,
		Logger: state.logger,
		Stdin:  os.Stdin,
		Out:    cmd.OutOrStdout(),
	}
}

func newRootCommand() *cobra.Command {
	state := &commandState{}

	rootCmd := &cobra.Command{
		Use:   "mealweek",
		Short: "Weekly meal planner for a household kitchen",
		Long: `mealweek keeps a household's weekly meal plan.

Editor devices build the week: slots for each day and meal, with recipes
assigned to them. Display devices, such as a tablet on the fridge, show the
current week and today's meals and refresh when the plan changes.

Run "mealweek serve" to start the HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var envFiles []string
			if state.envFile != "" {
				envFiles = append(envFiles, state.envFile)
			}
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return err
			}
			if state.dbPath != "" {
				cfg.DBPath = state.dbPath
			}
			state.config = cfg

			logger, err := logging.New(cfg.LogLevel, state.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			state.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if state.logger != nil {
				_ = state.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&state.dbPath, "db", "", "SQLite database path (overrides DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&state.envFile, "env-file", "", "Dotenv file to load (default: .env)")

	rootCmd.AddCommand(newServeCommand(state))
	rootCmd.AddCommand(newSeedCommand(state))
	rootCmd.AddCommand(newHouseholdCommand(state))
	rootCmd.AddCommand(newPairCommand(state))
	rootCmd.AddCommand(newShowCommand(state))
	rootCmd.AddCommand(newImportRecipeCommand(state))
	rootCmd.AddCommand(newSecretCommand(state))
	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
