package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/terraincognita07/mealweek/internal/models"
)

type ImportRecipeOptions struct {
	HouseholdID uint
	// Source is a local HTML file or an http(s) URL.
	Source    string
	SourceURL string
}

func RunImportRecipeCommand(ctx context.Context, runtime Runtime, options ImportRecipeOptions) error {
	if options.HouseholdID == 0 {
		return fmt.Errorf("--household is required")
	}
	source := strings.TrimSpace(options.Source)
	if source == "" {
		return fmt.Errorf("a file or URL is required")
	}

	scheduler, closeStore, err := runtime.openScheduler()
	if err != nil {
		return err
	}
	defer closeStore()

	if _, err := scheduler.Households.FindHousehold(options.HouseholdID); err != nil {
		return fmt.Errorf("load household %d: %w", options.HouseholdID, err)
	}

	var recipe models.Recipe
	if isRemoteSource(source) {
		recipe, err = scheduler.Recipes.ImportRecipeURL(ctx, options.HouseholdID, source)
	} else {
		file, openErr := os.Open(source)
		if openErr != nil {
			return fmt.Errorf("open %s: %w", source, openErr)
		}
		defer file.Close()
		recipe, err = scheduler.Recipes.ImportRecipeHTML(options.HouseholdID, file, options.SourceURL)
	}
	if err != nil {
		return fmt.Errorf("import recipe: %w", err)
	}

	fmt.Fprintf(runtime.out(), "Imported %q (id %d, %d servings, %d ingredients)\n",
		recipe.Title, recipe.ID, recipe.Servings, len(recipe.Ingredients))
	return nil
}

func isRemoteSource(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
