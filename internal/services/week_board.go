package services

import (
	"time"

	"github.com/terraincognita07/mealweek/internal/models"
)

const (
	BoardStateReady = "ready"
	BoardStateEmpty = "empty"
)

type SlotView struct {
	ID               uint             `json:"id"`
	ClientID         string           `json:"client_id"`
	Day              models.DayOfWeek `json:"day"`
	MealType         models.MealType  `json:"meal_type"`
	MealLabel        string           `json:"meal_label"`
	DisplayName      string           `json:"display_name"`
	ServingsPlanned  int              `json:"servings_planned"`
	CustomMealName   string           `json:"custom_meal_name,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	RecipeIDs        []uint           `json:"recipe_ids"`
	RecipeTitles     []string         `json:"recipe_titles"`
	MissingRecipeIDs []uint           `json:"missing_recipe_ids,omitempty"`
}

type DayBoard struct {
	Day       models.DayOfWeek `json:"day"`
	ShortName string           `json:"short_name"`
	Date      string           `json:"date"`
	IsToday   bool             `json:"is_today"`
	Slots     []SlotView       `json:"slots"`
}

type WeekBoard struct {
	State     string      `json:"state"`
	PlanID    uint        `json:"plan_id,omitempty"`
	WeekStart time.Time   `json:"-"`
	WeekKey   string      `json:"week_key"`
	ISOWeek   string      `json:"iso_week"`
	Status    string      `json:"status,omitempty"`
	Days      [7]DayBoard `json:"days"`
}

// BuildWeekBoard lays out the week containing referenceDate. A nil plan gives
// an empty board for that week. Both client surfaces and the terminal view use
// it so ordering and "today" agree everywhere.
func BuildWeekBoard(referenceDate time.Time, plan *models.WeekPlan, recipesByID map[uint]models.Recipe, now time.Time, location *time.Location) WeekBoard {
	weekStart := NormalizeToWeekStart(referenceDate, location)
	currentWeek := NormalizeToWeekStart(now, location).Equal(weekStart)

	board := WeekBoard{
		State:     BoardStateEmpty,
		WeekStart: weekStart,
		WeekKey:   weekStart.Format(WeekKeyLayout),
		ISOWeek:   ISOWeekLabel(weekStart, location),
	}

	var grouped [7]DaySlots
	if plan != nil {
		board.PlanID = plan.ID
		board.Status = plan.Status
		grouped = GroupSlotsByDay(*plan)
		if len(plan.Slots) > 0 {
			board.State = BoardStateReady
		}
	}

	for _, day := range models.AllDaysOfWeek() {
		views := make([]SlotView, 0, len(grouped[day.Offset()].Slots))
		for _, slot := range grouped[day.Offset()].Slots {
			views = append(views, BuildSlotView(slot, recipesByID))
		}
		board.Days[day.Offset()] = DayBoard{
			Day:       day,
			ShortName: day.ShortName(),
			Date:      DateForDay(weekStart, day).Format(WeekKeyLayout),
			IsToday:   currentWeek && IsToday(day, now, location),
			Slots:     views,
		}
	}
	return board
}

func BuildSlotView(slot models.MealSlot, recipesByID map[uint]models.Recipe) SlotView {
	return SlotView{
		ID:               slot.ID,
		ClientID:         slot.ClientID,
		Day:              slot.Day,
		MealType:         slot.MealType,
		MealLabel:        slot.MealType.DisplayName(),
		DisplayName:      ResolveDisplayName(slot, recipesByID),
		ServingsPlanned:  slot.ServingsPlanned,
		CustomMealName:   slot.CustomMealName,
		Notes:            slot.Notes,
		RecipeIDs:        slot.RecipeIDs(),
		RecipeTitles:     ResolvedRecipeTitles(slot, recipesByID),
		MissingRecipeIDs: MissingRecipeIDs(slot, recipesByID),
	}
}

type DayNutrition struct {
	Day models.DayOfWeek `json:"day"`
	// Calories counts only slots with at least one resolvable recipe.
	Calories       int `json:"calories"`
	EstimatedSlots int `json:"estimated_slots"`
	UnknownSlots   int `json:"unknown_slots"`
}

type WeekNutrition struct {
	WeekKey       string          `json:"week_key"`
	TotalCalories int             `json:"total_calories"`
	Days          [7]DayNutrition `json:"days"`
}

// NutritionForPlan totals CaloriesPerServing times planned servings for every
// resolvable recipe. Nothing is stored; the figures are rebuilt on each read.
func NutritionForPlan(weekKey string, plan *models.WeekPlan, recipesByID map[uint]models.Recipe) WeekNutrition {
	summary := WeekNutrition{WeekKey: weekKey}
	for _, day := range models.AllDaysOfWeek() {
		summary.Days[day.Offset()] = DayNutrition{Day: day}
	}
	if plan == nil {
		return summary
	}

	for _, slot := range plan.Slots {
		if !slot.Day.Valid() {
			continue
		}
		entry := &summary.Days[slot.Day.Offset()]

		calories := 0
		resolved := 0
		for _, ref := range slot.Recipes {
			recipe, ok := recipesByID[ref.RecipeID]
			if !ok {
				continue
			}
			resolved++
			calories += recipe.CaloriesPerServing * slot.ServingsPlanned
		}
		if resolved == 0 {
			entry.UnknownSlots++
			continue
		}
		entry.EstimatedSlots++
		entry.Calories += calories
		summary.TotalCalories += calories
	}
	return summary
}
