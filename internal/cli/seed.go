package cli

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/mealweek/internal/seed"
)

func RunSeedCommand(runtime Runtime, reset bool) error {
	scheduler, closeStore, err := runtime.openScheduler()
	if err != nil {
		return err
	}
	defer closeStore()

	result, err := seed.NewSeeder(scheduler, nil, runtime.logger()).SeedDemo(seed.Options{Reset: reset, Now: runtime.now()})
	if err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}

	fmt.Fprintf(runtime.out(), "Demo household %d ready: %d recipes and %d slots added (weeks %s)\n",
		result.HouseholdID, result.RecipesCreated, result.SlotsCreated, strings.Join(result.WeekKeys, ", "))
	return nil
}
