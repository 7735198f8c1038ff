package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/terraincognita07/mealweek/internal/changes"
	"github.com/terraincognita07/mealweek/internal/services"
)

type slotResponseBody struct {
	Saved bool              `json:"saved"`
	Slot  services.SlotView `json:"slot"`
}

type recipeResponseBody struct {
	Saved  bool `json:"saved"`
	Recipe struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	} `json:"recipe"`
}

func TestEmptyWeekIsReadyStateEmpty(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	response := doJSON(t, env.app, http.MethodGet, "/api/weeks/2025-01-22", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)

	board := services.WeekBoard{}
	decodeBody(t, response, &board)
	if board.State != services.BoardStateEmpty {
		t.Fatalf("expected empty state, got %q", board.State)
	}
	if board.WeekKey != "2025-01-20" {
		t.Fatalf("expected week key 2025-01-20, got %q", board.WeekKey)
	}
	for _, day := range board.Days {
		if len(day.Slots) != 0 {
			t.Fatalf("expected no slots on %s", day.ShortName)
		}
	}
	if !board.Days[2].IsToday {
		t.Fatal("expected wednesday to be today")
	}
}

func TestWeekLoadFailureIsDistinctFromEmpty(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	if err := env.database.Exec("ALTER TABLE week_plans RENAME TO week_plans_unavailable").Error; err != nil {
		t.Fatalf("rename week_plans: %v", err)
	}

	response := doJSON(t, env.app, http.MethodGet, "/api/weeks/2025-01-22", tokens.display, nil)
	requireStatus(t, response, http.StatusServiceUnavailable)
	if got := readAPIError(t, response); got != "unable to load" {
		t.Fatalf("expected unable to load, got %q", got)
	}

	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-22/slots", tokens.editor, map[string]any{
		"day":       "wednesday",
		"meal_type": "dinner",
	})
	if response.StatusCode < 500 {
		t.Fatalf("expected add slot to fail with a server error, got %d", response.StatusCode)
	}
}

func TestEditorPlansWednesdayDinner(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)
	subscriber := env.hub.Subscribe(tokens.householdID)

	response := doJSON(t, env.app, http.MethodPost, "/api/recipes", tokens.editor, map[string]any{
		"title":                "Mushroom Risotto",
		"calories_per_serving": 500,
	})
	requireStatus(t, response, http.StatusCreated)
	recipe := recipeResponseBody{}
	decodeBody(t, response, &recipe)

	addSlot := map[string]any{
		"client_id":  "c8a1c6c4-2b1e-4c61-9a04-1f7b5b0d2f10",
		"day":        "wednesday",
		"meal_type":  "dinner",
		"recipe_ids": []uint{recipe.Recipe.ID},
	}
	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-22/slots", tokens.editor, addSlot)
	requireStatus(t, response, http.StatusCreated)
	created := slotResponseBody{}
	decodeBody(t, response, &created)
	if !created.Saved || created.Slot.DisplayName != "Mushroom Risotto" {
		t.Fatalf("unexpected slot response: %+v", created)
	}
	if created.Slot.ServingsPlanned != 2 {
		t.Fatalf("expected default servings 2, got %d", created.Slot.ServingsPlanned)
	}

	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-20/slots", tokens.editor, addSlot)
	requireStatus(t, response, http.StatusCreated)
	retried := slotResponseBody{}
	decodeBody(t, response, &retried)
	if retried.Slot.ID != created.Slot.ID {
		t.Fatalf("expected retry to return slot %d, got %d", created.Slot.ID, retried.Slot.ID)
	}

	response = doJSON(t, env.app, http.MethodGet, "/api/weeks/2025-01-20/days/wednesday", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)
	day := struct {
		State string            `json:"state"`
		Day   services.DayBoard `json:"day"`
	}{}
	decodeBody(t, response, &day)
	if day.State != services.BoardStateReady || len(day.Day.Slots) != 1 {
		t.Fatalf("expected one planned slot on wednesday, got %+v", day)
	}
	if day.Day.Date != "2025-01-22" || day.Day.Slots[0].DisplayName != "Mushroom Risotto" {
		t.Fatalf("unexpected wednesday board: %+v", day.Day)
	}

	response = doJSON(t, env.app, http.MethodGet, "/api/weeks/2025-01-20/nutrition", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)
	nutrition := services.WeekNutrition{}
	decodeBody(t, response, &nutrition)
	if nutrition.TotalCalories != 1000 {
		t.Fatalf("expected 1000 calories, got %d", nutrition.TotalCalories)
	}

	select {
	case event := <-subscriber.Events():
		if event.Kind != changes.KindRecipe {
			t.Fatalf("expected first event to be a recipe change, got %q", event.Kind)
		}
	default:
		t.Fatal("expected a change event after creating a recipe")
	}
	if env.hub.Revision(tokens.householdID) < 2 {
		t.Fatalf("expected revision to advance on each mutation, got %d", env.hub.Revision(tokens.householdID))
	}
}

func TestSlotPatchAndRecipeDeletionFallback(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	response := doJSON(t, env.app, http.MethodPost, "/api/recipes", tokens.editor, map[string]any{"title": "Lentil Soup"})
	requireStatus(t, response, http.StatusCreated)
	recipe := recipeResponseBody{}
	decodeBody(t, response, &recipe)

	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/today/slots", tokens.editor, map[string]any{
		"day":        "sat",
		"meal_type":  "lunch",
		"recipe_ids": []uint{recipe.Recipe.ID},
	})
	requireStatus(t, response, http.StatusCreated)
	slot := slotResponseBody{}
	decodeBody(t, response, &slot)
	slotPath := "/api/slots/" + uintString(slot.Slot.ID)

	response = doJSON(t, env.app, http.MethodPatch, slotPath, tokens.editor, map[string]any{
		"servings":         4,
		"custom_meal_name": "  Soup  day  ",
	})
	requireStatus(t, response, http.StatusOK)
	patched := slotResponseBody{}
	decodeBody(t, response, &patched)
	if patched.Slot.ServingsPlanned != 4 || patched.Slot.CustomMealName != "Soup day" {
		t.Fatalf("unexpected patched slot: %+v", patched.Slot)
	}

	response = doJSON(t, env.app, http.MethodPatch, slotPath, tokens.editor, map[string]any{"servings": -1})
	requireStatus(t, response, http.StatusBadRequest)

	response = doJSON(t, env.app, http.MethodDelete, "/api/recipes/"+uintString(recipe.Recipe.ID), tokens.editor, nil)
	requireStatus(t, response, http.StatusOK)

	response = doJSON(t, env.app, http.MethodGet, "/api/weeks/2025-01-25/days/saturday", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)
	day := struct {
		Day services.DayBoard `json:"day"`
	}{}
	decodeBody(t, response, &day)
	if len(day.Day.Slots) != 1 || day.Day.Slots[0].DisplayName != "Soup day" {
		t.Fatalf("expected custom name fallback after recipe deletion, got %+v", day.Day.Slots)
	}
	if len(day.Day.Slots[0].MissingRecipeIDs) != 1 {
		t.Fatalf("expected the deleted recipe to be reported missing")
	}

	response = doJSON(t, env.app, http.MethodDelete, slotPath, tokens.editor, nil)
	requireStatus(t, response, http.StatusOK)
	response = doJSON(t, env.app, http.MethodDelete, slotPath, tokens.editor, nil)
	requireStatus(t, response, http.StatusNotFound)
}

func TestAssignAndRemoveSlotRecipe(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	titles := []string{"Chicken Tikka Masala", "Rice"}
	ids := make([]uint, 0, len(titles))
	for _, title := range titles {
		response := doJSON(t, env.app, http.MethodPost, "/api/recipes", tokens.editor, map[string]any{"title": title})
		requireStatus(t, response, http.StatusCreated)
		recipe := recipeResponseBody{}
		decodeBody(t, response, &recipe)
		ids = append(ids, recipe.Recipe.ID)
	}

	response := doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-20/slots", tokens.editor, map[string]any{
		"day":       "friday",
		"meal_type": "dinner",
	})
	requireStatus(t, response, http.StatusCreated)
	slot := slotResponseBody{}
	decodeBody(t, response, &slot)
	if slot.Slot.DisplayName != services.UnnamedMealPlaceholder {
		t.Fatalf("expected placeholder name, got %q", slot.Slot.DisplayName)
	}
	slotPath := "/api/slots/" + uintString(slot.Slot.ID)

	for _, id := range ids {
		response = doJSON(t, env.app, http.MethodPost, slotPath+"/recipes", tokens.editor, map[string]any{"recipe_id": id})
		requireStatus(t, response, http.StatusOK)
	}
	assigned := slotResponseBody{}
	decodeBody(t, response, &assigned)
	if assigned.Slot.DisplayName != strings.Join(titles, " + ") {
		t.Fatalf("unexpected display name %q", assigned.Slot.DisplayName)
	}

	response = doJSON(t, env.app, http.MethodPost, slotPath+"/recipes", tokens.editor, map[string]any{"recipe_id": 9999})
	requireStatus(t, response, http.StatusNotFound)

	response = doJSON(t, env.app, http.MethodDelete, slotPath+"/recipes/"+uintString(ids[0]), tokens.editor, nil)
	requireStatus(t, response, http.StatusOK)
	removed := slotResponseBody{}
	decodeBody(t, response, &removed)
	if removed.Slot.DisplayName != "Rice" {
		t.Fatalf("expected Rice after removal, got %q", removed.Slot.DisplayName)
	}
}

func TestEnsureWeekAndStatus(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	response := doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-26/status", tokens.editor, map[string]any{"status": "active"})
	requireStatus(t, response, http.StatusNotFound)

	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-26", tokens.editor, map[string]any{"status": "bogus"})
	requireStatus(t, response, http.StatusBadRequest)

	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-26", tokens.editor, nil)
	requireStatus(t, response, http.StatusOK)
	board := services.WeekBoard{}
	decodeBody(t, response, &board)
	if board.WeekKey != "2025-01-20" || board.Status != "draft" || board.State != services.BoardStateEmpty {
		t.Fatalf("unexpected board after ensure: %+v", board)
	}

	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-20", tokens.editor, nil)
	requireStatus(t, response, http.StatusOK)
	again := services.WeekBoard{}
	decodeBody(t, response, &again)
	if again.PlanID != board.PlanID {
		t.Fatalf("expected the same plan for the same week, got %d and %d", board.PlanID, again.PlanID)
	}

	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-20/status", tokens.editor, map[string]any{"status": "archived"})
	requireStatus(t, response, http.StatusOK)

	response = doJSON(t, env.app, http.MethodGet, "/api/plans", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)
	listed := struct {
		Plans []map[string]any `json:"plans"`
	}{}
	decodeBody(t, response, &listed)
	if len(listed.Plans) != 0 {
		t.Fatalf("expected archived plans to be hidden, got %d", len(listed.Plans))
	}

	response = doJSON(t, env.app, http.MethodGet, "/api/plans?archived=true", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)
	decodeBody(t, response, &listed)
	if len(listed.Plans) != 1 {
		t.Fatalf("expected one archived plan, got %d", len(listed.Plans))
	}
}

func TestInvalidParamsAreRejected(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	cases := []struct {
		method  string
		path    string
		payload any
		message string
	}{
		{http.MethodGet, "/api/weeks/2025-13-01", nil, "invalid date"},
		{http.MethodGet, "/api/weeks/2025-01-20/days/someday", nil, "invalid day"},
		{http.MethodPost, "/api/weeks/2025-01-20/slots", map[string]any{"day": "monday", "meal_type": "brunch"}, "invalid meal type"},
		{http.MethodPost, "/api/weeks/2025-01-20/slots", map[string]any{"day": "funday", "meal_type": "lunch"}, "invalid day"},
		{http.MethodPatch, "/api/slots/abc", map[string]any{"servings": 2}, "invalid id"},
	}
	for _, tc := range cases {
		response := doJSON(t, env.app, tc.method, tc.path, tokens.editor, tc.payload)
		requireStatus(t, response, http.StatusBadRequest)
		if got := readAPIError(t, response); got != tc.message {
			t.Fatalf("%s %s: expected %q, got %q", tc.method, tc.path, tc.message, got)
		}
	}
}

func TestTodayUsesHouseholdClock(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	response := doJSON(t, env.app, http.MethodPost, "/api/weeks/today/slots", tokens.editor, map[string]any{
		"day":              "wednesday",
		"meal_type":        "lunch",
		"custom_meal_name": "Leftovers",
	})
	requireStatus(t, response, http.StatusCreated)

	response = doJSON(t, env.app, http.MethodGet, "/api/today", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)
	today := struct {
		Date    string              `json:"date"`
		Day     string              `json:"day"`
		WeekKey string              `json:"week_key"`
		State   string              `json:"state"`
		Slots   []services.SlotView `json:"slots"`
	}{}
	decodeBody(t, response, &today)
	if today.Date != "2025-01-22" || today.Day != "wednesday" || today.WeekKey != "2025-01-20" {
		t.Fatalf("unexpected today response: %+v", today)
	}
	if today.State != services.BoardStateReady || len(today.Slots) != 1 || today.Slots[0].DisplayName != "Leftovers" {
		t.Fatalf("expected today's leftovers slot, got %+v", today.Slots)
	}
}

func TestListPlansCountsSlots(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	response := doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-20/slots", tokens.editor, map[string]any{
		"day":       "wednesday",
		"meal_type": "dinner",
	})
	requireStatus(t, response, http.StatusCreated)

	response = doJSON(t, env.app, http.MethodGet, "/api/plans", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)
	listed := struct {
		Plans []struct {
			WeekKey   string `json:"week_key"`
			SlotCount int    `json:"slot_count"`
		} `json:"plans"`
	}{}
	decodeBody(t, response, &listed)
	if len(listed.Plans) != 1 {
		t.Fatalf("expected one plan, got %d", len(listed.Plans))
	}
	if listed.Plans[0].WeekKey != "2025-01-20" || listed.Plans[0].SlotCount != 1 {
		t.Fatalf("expected 2025-01-20 with one slot, got %+v", listed.Plans[0])
	}
}

func TestRejectedSlotPatchLeavesSlotUnchanged(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	response := doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-20/slots", tokens.editor, map[string]any{
		"day":              "wednesday",
		"meal_type":        "dinner",
		"servings":         2,
		"custom_meal_name": "Risotto",
	})
	requireStatus(t, response, http.StatusCreated)
	slot := slotResponseBody{}
	decodeBody(t, response, &slot)

	response = doJSON(t, env.app, http.MethodPatch, "/api/slots/"+uintString(slot.Slot.ID), tokens.editor, map[string]any{
		"servings":         5,
		"custom_meal_name": strings.Repeat("x", services.MaxMealNameLength+80),
	})
	requireStatus(t, response, http.StatusBadRequest)
	if got := readAPIError(t, response); got != "invalid meal name" {
		t.Fatalf("unexpected error %q", got)
	}

	response = doJSON(t, env.app, http.MethodGet, "/api/weeks/2025-01-22/days/wednesday", tokens.display, nil)
	requireStatus(t, response, http.StatusOK)
	day := struct {
		Day services.DayBoard `json:"day"`
	}{}
	decodeBody(t, response, &day)
	if len(day.Day.Slots) != 1 {
		t.Fatalf("expected one slot, got %d", len(day.Day.Slots))
	}
	if stored := day.Day.Slots[0]; stored.ServingsPlanned != 2 || stored.CustomMealName != "Risotto" {
		t.Fatalf("expected slot unchanged after rejected patch, got %+v", stored)
	}
}

func TestAddSlotToArchivedWeekConflicts(t *testing.T) {
	t.Parallel()

	env := newTestApp(t)
	tokens := createHouseholdWithDevices(t, env)

	response := doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-20", tokens.editor, nil)
	requireStatus(t, response, http.StatusOK)
	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-20/status", tokens.editor, map[string]any{"status": "archived"})
	requireStatus(t, response, http.StatusOK)

	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-20/slots", tokens.editor, map[string]any{
		"day":       "monday",
		"meal_type": "lunch",
	})
	requireStatus(t, response, http.StatusConflict)
	if got := readAPIError(t, response); got != "week plan is archived" {
		t.Fatalf("unexpected error %q", got)
	}

	response = doJSON(t, env.app, http.MethodPost, "/api/weeks/2025-01-20/slots", tokens.editor, map[string]any{
		"client_id": strings.Repeat("c", 65),
		"day":       "monday",
		"meal_type": "lunch",
	})
	requireStatus(t, response, http.StatusBadRequest)
	if got := readAPIError(t, response); got != "invalid client id" {
		t.Fatalf("unexpected error %q", got)
	}
}
