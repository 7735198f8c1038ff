// Package seed loads demo data through the same service operations the API
// uses. Running it twice leaves the store unchanged.
package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/mealweek/internal/changes"
	"github.com/terraincognita07/mealweek/internal/models"
	"github.com/terraincognita07/mealweek/internal/services"
	"go.uber.org/zap"
)

type Options struct {
	// Reset deletes the fixture weeks before seeding them again.
	Reset bool
	// Now resolves the "current" week. Zero means time.Now.
	Now time.Time
}

type Result struct {
	HouseholdID      uint
	HouseholdCreated bool
	RecipesCreated   int
	SlotsCreated     int
	WeekKeys         []string
}

type Seeder struct {
	scheduler *services.Scheduler
	hub       *changes.Hub
	logger    *zap.Logger
}

// NewSeeder accepts a nil hub for offline use from the CLI.
func NewSeeder(scheduler *services.Scheduler, hub *changes.Hub, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{scheduler: scheduler, hub: hub, logger: logger}
}

func (seeder *Seeder) SeedDemo(options Options) (Result, error) {
	fixture, err := DemoFixture()
	if err != nil {
		return Result{}, err
	}
	return seeder.Seed(fixture, options)
}

func (seeder *Seeder) Seed(fixture Fixture, options Options) (Result, error) {
	now := options.Now
	if now.IsZero() {
		now = time.Now()
	}

	household, created, err := seeder.ensureHousehold(fixture.Household)
	if err != nil {
		return Result{}, err
	}
	result := Result{HouseholdID: household.ID, HouseholdCreated: created}
	location := seeder.scheduler.Households.HouseholdLocation(household)

	recipeIDs := make(map[string]uint, len(fixture.Recipes))
	for _, recipe := range fixture.Recipes {
		stored, recipeCreated, err := seeder.scheduler.Recipes.EnsureRecipe(household.ID, services.RecipeInput{
			Title:              recipe.Title,
			Servings:           recipe.Servings,
			PrepMinutes:        recipe.PrepMinutes,
			CaloriesPerServing: recipe.CaloriesPerServing,
			Ingredients:        recipe.Ingredients,
			SourceURL:          recipe.SourceURL,
		})
		if err != nil {
			return result, fmt.Errorf("seed recipe %q: %w", recipe.Title, err)
		}
		if recipeCreated {
			result.RecipesCreated++
		}
		recipeIDs[recipeKey(recipe.Title)] = stored.ID
	}

	for _, week := range fixture.Weeks {
		weekKey, slotsCreated, err := seeder.seedWeek(household.ID, week, recipeIDs, now, location, options.Reset)
		if err != nil {
			return result, err
		}
		result.SlotsCreated += slotsCreated
		result.WeekKeys = append(result.WeekKeys, weekKey)
		if seeder.hub != nil {
			seeder.hub.Publish(household.ID, changes.KindSeed, weekKey)
		}
	}

	seeder.logger.Info("demo data seeded",
		zap.Uint("household_id", household.ID),
		zap.Bool("household_created", created),
		zap.Int("recipes_created", result.RecipesCreated),
		zap.Int("slots_created", result.SlotsCreated),
		zap.Strings("weeks", result.WeekKeys),
	)
	return result, nil
}

func (seeder *Seeder) ensureHousehold(fixture HouseholdFixture) (models.Household, bool, error) {
	existing, found, err := seeder.scheduler.Households.FindHouseholdByName(fixture.Name)
	if err != nil {
		return models.Household{}, false, err
	}
	if found {
		return existing, false, nil
	}
	household, err := seeder.scheduler.Households.CreateHousehold(fixture.Name, fixture.Passphrase, fixture.Timezone)
	if err != nil {
		return models.Household{}, false, fmt.Errorf("seed household %q: %w", fixture.Name, err)
	}
	return household, true, nil
}

func (seeder *Seeder) seedWeek(householdID uint, week WeekFixture, recipeIDs map[string]uint, now time.Time, location *time.Location, reset bool) (string, int, error) {
	referenceDate, err := resolveWeekStart(week.Start, now, location)
	if err != nil {
		return "", 0, err
	}
	weekKey := services.WeekKey(referenceDate, location)
	plans := seeder.scheduler.Plans

	if reset {
		existing, found, err := plans.LoadPlan(householdID, referenceDate, location)
		if err != nil {
			return weekKey, 0, err
		}
		if found {
			if err := plans.DeletePlan(existing); err != nil {
				return weekKey, 0, err
			}
		}
	}

	createStatus := week.Status
	if createStatus == models.PlanStatusArchived {
		createStatus = ""
	}
	plan, err := plans.FindOrCreatePlan(householdID, referenceDate, location, createStatus)
	if err != nil {
		return weekKey, 0, fmt.Errorf("seed week %s: %w", weekKey, err)
	}

	before := len(plan.Slots)
	for _, slot := range week.Slots {
		input, err := slotInput(weekKey, slot, recipeIDs)
		if err != nil {
			return weekKey, len(plan.Slots) - before, err
		}
		if _, err := seeder.scheduler.Slots.AddSlot(&plan, input); err != nil {
			return weekKey, len(plan.Slots) - before, fmt.Errorf("seed slot %q in week %s: %w", slot.ID, weekKey, err)
		}
	}

	if week.Status != "" {
		if err := plans.SetPlanStatus(&plan, week.Status); err != nil {
			return weekKey, len(plan.Slots) - before, fmt.Errorf("seed week %s status: %w", weekKey, err)
		}
	}
	return weekKey, len(plan.Slots) - before, nil
}

func resolveWeekStart(start string, now time.Time, location *time.Location) (time.Time, error) {
	if strings.EqualFold(strings.TrimSpace(start), CurrentWeek) {
		return services.NormalizeToWeekStart(now, location), nil
	}
	return services.ParseWeekKey(start, location)
}

// slotInput prefixes fixture ids with the week key so the same fixture id can
// appear in several weeks.
func slotInput(weekKey string, slot SlotFixture, recipeIDs map[string]uint) (services.SlotInput, error) {
	day, err := models.ParseDayOfWeek(slot.Day)
	if err != nil {
		return services.SlotInput{}, fmt.Errorf("%w: slot %q: %v", ErrInvalidFixture, slot.ID, err)
	}
	mealType, err := models.ParseMealType(slot.Meal)
	if err != nil {
		return services.SlotInput{}, fmt.Errorf("%w: slot %q: %v", ErrInvalidFixture, slot.ID, err)
	}

	ids := make([]uint, 0, len(slot.Recipes))
	for _, title := range slot.Recipes {
		ids = append(ids, recipeIDs[recipeKey(title)])
	}

	return services.SlotInput{
		ClientID:       weekKey + "-" + slot.ID,
		Day:            day,
		MealType:       mealType,
		Servings:       slot.Servings,
		CustomMealName: slot.Name,
		Notes:          slot.Notes,
		RecipeIDs:      ids,
	}, nil
}
