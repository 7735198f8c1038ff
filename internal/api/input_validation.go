package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/models"
	"github.com/terraincognita07/mealweek/internal/services"
)

var (
	errInvalidID = errors.New("invalid id")
	errNoDevice  = errors.New("no authenticated device")
)

// parseDateParam accepts YYYY-MM-DD or "today" and returns midnight of that
// date in location.
func parseDateParam(raw string, now time.Time, location *time.Location) (time.Time, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == "today" {
		return services.DateAtLocation(now, location), nil
	}
	parsed, err := time.ParseInLocation(services.WeekKeyLayout, value, location)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}

func parseIDParam(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || value == 0 {
		return 0, errInvalidID
	}
	return uint(value), nil
}

func parseBoolQuery(c *fiber.Ctx, key string) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(c.Query(key)))
	return err == nil && value
}

func (input slotInput) toService() (services.SlotInput, error) {
	day, err := models.ParseDayOfWeek(input.Day)
	if err != nil {
		return services.SlotInput{}, services.ErrInvalidDay
	}
	mealType, err := models.ParseMealType(input.MealType)
	if err != nil {
		return services.SlotInput{}, services.ErrInvalidMealType
	}
	return services.SlotInput{
		ClientID:       input.ClientID,
		Day:            day,
		MealType:       mealType,
		Servings:       input.Servings,
		CustomMealName: input.CustomMealName,
		Notes:          input.Notes,
		RecipeIDs:      input.RecipeIDs,
	}, nil
}

func (input recipeInput) toService() services.RecipeInput {
	return services.RecipeInput{
		Title:              input.Title,
		Servings:           input.Servings,
		PrepMinutes:        input.PrepMinutes,
		CaloriesPerServing: input.CaloriesPerServing,
		Ingredients:        input.Ingredients,
		SourceURL:          input.SourceURL,
	}
}
