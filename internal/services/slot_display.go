package services

import (
	"strings"

	"github.com/terraincognita07/mealweek/internal/models"
)

const UnnamedMealPlaceholder = "Unnamed meal"

// ResolveDisplayName names a slot from its resolvable recipes, joined main
// first, then from its custom name. Recipes missing from recipesByID are
// treated as deleted.
func ResolveDisplayName(slot models.MealSlot, recipesByID map[uint]models.Recipe) string {
	titles := ResolvedRecipeTitles(slot, recipesByID)
	if len(titles) > 0 {
		return strings.Join(titles, " + ")
	}
	if name := strings.TrimSpace(slot.CustomMealName); name != "" {
		return name
	}
	return UnnamedMealPlaceholder
}

func ResolvedRecipeTitles(slot models.MealSlot, recipesByID map[uint]models.Recipe) []string {
	titles := make([]string, 0, len(slot.Recipes))
	for _, ref := range slot.Recipes {
		recipe, ok := recipesByID[ref.RecipeID]
		if !ok {
			continue
		}
		if title := strings.TrimSpace(recipe.Title); title != "" {
			titles = append(titles, title)
		}
	}
	return titles
}

func MissingRecipeIDs(slot models.MealSlot, recipesByID map[uint]models.Recipe) []uint {
	missing := make([]uint, 0)
	for _, ref := range slot.Recipes {
		if _, ok := recipesByID[ref.RecipeID]; !ok {
			missing = append(missing, ref.RecipeID)
		}
	}
	return missing
}

// PlanRecipeIDs lists every recipe id referenced by the plan once.
func PlanRecipeIDs(plan models.WeekPlan) []uint {
	seen := make(map[uint]struct{})
	ids := make([]uint, 0)
	for _, slot := range plan.Slots {
		for _, id := range slot.RecipeIDs() {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
