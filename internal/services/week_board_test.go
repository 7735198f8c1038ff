package services

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/terraincognita07/mealweek/internal/models"
)

func TestResolveDisplayNameFallsBackForOrphanedRecipes(t *testing.T) {
	recipes := map[uint]models.Recipe{
		1: {ID: 1, Title: "Roast Chicken"},
		2: {ID: 2, Title: "Potatoes"},
	}

	tests := []struct {
		name string
		slot models.MealSlot
		want string
	}{
		{
			name: "main and side",
			slot: models.MealSlot{Recipes: []models.SlotRecipe{{RecipeID: 1}, {RecipeID: 2}}},
			want: "Roast Chicken + Potatoes",
		},
		{
			name: "deleted recipe skipped",
			slot: models.MealSlot{Recipes: []models.SlotRecipe{{RecipeID: 99}, {RecipeID: 2}}},
			want: "Potatoes",
		},
		{
			name: "deleted recipe with custom name",
			slot: models.MealSlot{CustomMealName: "Sunday roast", Recipes: []models.SlotRecipe{{RecipeID: 99}}},
			want: "Sunday roast",
		},
		{
			name: "nothing resolvable",
			slot: models.MealSlot{Recipes: []models.SlotRecipe{{RecipeID: 99}}},
			want: UnnamedMealPlaceholder,
		},
		{
			name: "blank custom name",
			slot: models.MealSlot{CustomMealName: "   "},
			want: UnnamedMealPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveDisplayName(tt.slot, recipes); got != tt.want {
				t.Fatalf("ResolveDisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildWeekBoardMarksTodayOnlyInCurrentWeek(t *testing.T) {
	location := time.UTC
	plan := &models.WeekPlan{
		ID:           7,
		WeekStartKey: "2025-01-20",
		Status:       models.PlanStatusActive,
		Slots: []models.MealSlot{
			{ID: 1, ClientID: "dinner", Day: models.Wednesday, MealType: models.MealDinner, ServingsPlanned: 2, Recipes: []models.SlotRecipe{{RecipeID: 5}, {RecipeID: 404}}},
			{ID: 2, ClientID: "lunch", Day: models.Wednesday, MealType: models.MealLunch, ServingsPlanned: 1, CustomMealName: "Leftovers"},
		},
	}
	recipes := map[uint]models.Recipe{5: {ID: 5, Title: "Mushroom Risotto", CaloriesPerServing: 450}}
	now := time.Date(2025, 1, 22, 18, 0, 0, 0, location)

	board := BuildWeekBoard(time.Date(2025, 1, 26, 0, 0, 0, 0, location), plan, recipes, now, location)

	if board.State != BoardStateReady || board.WeekKey != "2025-01-20" || board.ISOWeek != "2025-W04" || board.PlanID != 7 {
		t.Fatalf("unexpected board header: %#v", board)
	}
	wednesday := board.Days[models.Wednesday.Offset()]
	if !wednesday.IsToday || wednesday.Date != "2025-01-22" || wednesday.ShortName != "Wed" {
		t.Fatalf("unexpected Wednesday: %#v", wednesday)
	}
	for _, day := range board.Days {
		if day.Day != models.Wednesday && day.IsToday {
			t.Fatalf("expected only Wednesday to be today, got %s", day.Day)
		}
	}

	names := []string{wednesday.Slots[0].DisplayName, wednesday.Slots[1].DisplayName}
	if diff := cmp.Diff([]string{"Leftovers", "Mushroom Risotto"}, names); diff != "" {
		t.Fatalf("unexpected Wednesday order (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uint{404}, wednesday.Slots[1].MissingRecipeIDs); diff != "" {
		t.Fatalf("unexpected missing ids (-want +got):\n%s", diff)
	}

	lastWeek := BuildWeekBoard(time.Date(2025, 1, 15, 0, 0, 0, 0, location), nil, nil, now, location)
	if lastWeek.State != BoardStateEmpty {
		t.Fatalf("expected empty board without a plan, got %q", lastWeek.State)
	}
	for _, day := range lastWeek.Days {
		if day.IsToday {
			t.Fatalf("expected no today marker outside the current week, got %s", day.Day)
		}
		if day.Slots == nil {
			t.Fatal("expected empty slot slices on empty board")
		}
	}
}

func TestBuildWeekBoardWithPlanButNoSlotsIsEmpty(t *testing.T) {
	plan := &models.WeekPlan{ID: 3, WeekStartKey: "2025-01-20", Status: models.PlanStatusDraft}
	board := BuildWeekBoard(time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC), plan, nil, time.Now(), time.UTC)

	if board.State != BoardStateEmpty || board.Status != models.PlanStatusDraft {
		t.Fatalf("unexpected board: state=%q status=%q", board.State, board.Status)
	}
}

func TestNutritionForPlanMultipliesServingsAndSkipsUnknown(t *testing.T) {
	plan := &models.WeekPlan{Slots: []models.MealSlot{
		{Day: models.Monday, ServingsPlanned: 2, Recipes: []models.SlotRecipe{{RecipeID: 1}, {RecipeID: 2}}},
		{Day: models.Monday, ServingsPlanned: 3, CustomMealName: "Takeaway"},
		{Day: models.Friday, ServingsPlanned: 4, Recipes: []models.SlotRecipe{{RecipeID: 1}, {RecipeID: 77}}},
	}}
	recipes := map[uint]models.Recipe{
		1: {ID: 1, CaloriesPerServing: 500},
		2: {ID: 2, CaloriesPerServing: 100},
	}

	summary := NutritionForPlan("2025-01-20", plan, recipes)

	monday := summary.Days[models.Monday.Offset()]
	if monday.Calories != 1200 || monday.EstimatedSlots != 1 || monday.UnknownSlots != 1 {
		t.Fatalf("unexpected Monday nutrition: %#v", monday)
	}
	if friday := summary.Days[models.Friday.Offset()]; friday.Calories != 2000 {
		t.Fatalf("unexpected Friday calories: %d", friday.Calories)
	}
	if summary.TotalCalories != 3200 {
		t.Fatalf("unexpected weekly total: %d", summary.TotalCalories)
	}

	empty := NutritionForPlan("2025-01-27", nil, nil)
	if empty.TotalCalories != 0 || empty.Days[6].Day != models.Sunday {
		t.Fatalf("unexpected empty summary: %#v", empty)
	}
}

func TestPlanRecipeIDsDeduplicates(t *testing.T) {
	plan := models.WeekPlan{Slots: []models.MealSlot{
		{Recipes: []models.SlotRecipe{{RecipeID: 3}, {RecipeID: 1}}},
		{Recipes: []models.SlotRecipe{{RecipeID: 1}, {RecipeID: 8}}},
	}}
	if diff := cmp.Diff([]uint{3, 1, 8}, PlanRecipeIDs(plan)); diff != "" {
		t.Fatalf("unexpected ids (-want +got):\n%s", diff)
	}
}
