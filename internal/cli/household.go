package cli

import (
	"errors"
	"fmt"

	"github.com/terraincognita07/mealweek/internal/security"
)

type CreateHouseholdOptions struct {
	Name       string
	Passphrase string
	Timezone   string
}

// RunCreateHouseholdCommand creates a household. Without --passphrase it
// prompts; when stdin is not a terminal it generates one and prints it once.
func RunCreateHouseholdCommand(runtime Runtime, options CreateHouseholdOptions) error {
	passphrase := options.Passphrase
	generated := false
	if passphrase == "" {
		prompted, err := promptPassphrase(runtime.Stdin, runtime.out())
		switch {
		case err == nil:
			passphrase = prompted
		case errors.Is(err, errNoTerminal):
			passphrase, err = security.GeneratePassphrase()
			if err != nil {
				return fmt.Errorf("generate passphrase: %w", err)
			}
			generated = true
		default:
			return err
		}
	}

	scheduler, closeStore, err := runtime.openScheduler()
	if err != nil {
		return err
	}
	defer closeStore()

	household, err := scheduler.Households.CreateHousehold(options.Name, passphrase, options.Timezone)
	if err != nil {
		return fmt.Errorf("create household: %w", err)
	}

	out := runtime.out()
	fmt.Fprintf(out, "Household %q created (id %d, tz %s)\n", household.Name, household.ID, household.Timezone)
	if generated {
		fmt.Fprintf(out, "Passphrase: %s\n", passphrase)
		fmt.Fprintln(out, "Share it with the people who pair devices; it is not shown again.")
	}
	return nil
}
