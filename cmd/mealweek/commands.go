package main

import (
	"github.com/spf13/cobra"
	"github.com/terraincognita07/mealweek/internal/cli"
	"github.com/terraincognita07/mealweek/internal/models"
)

func newSeedCommand(state *commandState) *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo household, recipes and weeks",
		Long: `Creates the demo household with its recipes and two planned weeks: a
fixed week and the current one. Running it again adds nothing new.

With --reset the demo weeks are deleted and planned again from scratch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunSeedCommand(state.runtime(cmd), reset)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Replan the demo weeks from scratch")
	return cmd
}

func newHouseholdCommand(state *commandState) *cobra.Command {
	householdCmd := &cobra.Command{
		Use:   "household",
		Short: "Manage households",
	}

	var options cli.CreateHouseholdOptions
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a household",
		Long: `Creates a household. Devices pair with it using the passphrase.

Without --passphrase you are asked for one. When stdin is not a terminal a
passphrase is generated and printed once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunCreateHouseholdCommand(state.runtime(cmd), options)
		},
	}
	createCmd.Flags().StringVar(&options.Name, "name", "", "Household name (required)")
	createCmd.Flags().StringVar(&options.Passphrase, "passphrase", "", "Pairing passphrase")
	createCmd.Flags().StringVar(&options.Timezone, "timezone", "", "IANA timezone (default: TZ)")
	_ = createCmd.MarkFlagRequired("name")

	householdCmd.AddCommand(createCmd)
	return householdCmd
}

func newPairCommand(state *commandState) *cobra.Command {
	var options cli.PairOptions
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Register a device and print its token",
		Long: `Registers a device for a household without the passphrase and prints a
bearer token for it. The token is signed with SECRET_KEY.

Example:
  mealweek pair --household 1 --name "Fridge tablet" --role display`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunPairCommand(state.runtime(cmd), options)
		},
	}
	cmd.Flags().UintVar(&options.HouseholdID, "household", 0, "Household ID (required)")
	cmd.Flags().StringVar(&options.Name, "name", "", "Device name (required)")
	cmd.Flags().StringVar(&options.Role, "role", models.RoleDisplay, "Device role: editor or display")
	_ = cmd.MarkFlagRequired("household")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newShowCommand(state *commandState) *cobra.Command {
	var options cli.ShowOptions
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a week board in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunShowCommand(state.runtime(cmd), options)
		},
	}
	cmd.Flags().UintVar(&options.HouseholdID, "household", 0, "Household ID (default: the only household)")
	cmd.Flags().StringVar(&options.Date, "date", "today", "Any day of the week to show, YYYY-MM-DD")
	return cmd
}

func newImportRecipeCommand(state *commandState) *cobra.Command {
	var options cli.ImportRecipeOptions
	cmd := &cobra.Command{
		Use:   "import-recipe <file-or-url>",
		Short: "Import a recipe from a web page",
		Long: `Reads the schema.org Recipe data from an HTML page and stores it as a
household recipe. The source is a URL or a saved HTML file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Source = args[0]
			return cli.RunImportRecipeCommand(cmd.Context(), state.runtime(cmd), options)
		},
	}
	cmd.Flags().UintVar(&options.HouseholdID, "household", 0, "Household ID (required)")
	cmd.Flags().StringVar(&options.SourceURL, "source-url", "", "Original URL of a saved HTML file")
	_ = cmd.MarkFlagRequired("household")
	return cmd
}

func newSecretCommand(state *commandState) *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Print a random SECRET_KEY value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerateSecretCommand(state.runtime(cmd))
		},
	}
}
