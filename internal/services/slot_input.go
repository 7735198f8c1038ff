package services

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/terraincognita07/mealweek/internal/models"
)

const (
	MaxMealNameLength  = 120
	MaxSlotNotesLength = 500
	MaxServingsPlanned = 50
	MaxRecipesPerSlot  = 8
	maxClientIDLength  = 64
)

type SlotInput struct {
	ClientID       string
	Day            models.DayOfWeek
	MealType       models.MealType
	Servings       int
	CustomMealName string
	Notes          string
	RecipeIDs      []uint
}

func NormalizeSlotInput(input SlotInput) (SlotInput, error) {
	if !input.Day.Valid() {
		return input, ErrInvalidDay
	}
	if !input.MealType.Valid() {
		return input, ErrInvalidMealType
	}

	servings, err := NormalizeServings(input.Servings)
	if err != nil {
		return input, err
	}
	input.Servings = servings

	name, err := NormalizeMealName(input.CustomMealName)
	if err != nil {
		return input, err
	}
	input.CustomMealName = name

	notes, err := NormalizeSlotNotes(input.Notes)
	if err != nil {
		return input, err
	}
	input.Notes = notes

	input.ClientID = strings.TrimSpace(input.ClientID)
	if input.ClientID == "" {
		input.ClientID = uuid.NewString()
	}
	if len(input.ClientID) > maxClientIDLength {
		return input, ErrInvalidClientID
	}

	input.RecipeIDs = uniqueRecipeIDs(input.RecipeIDs)
	if len(input.RecipeIDs) > MaxRecipesPerSlot {
		return input, ErrInvalidRecipeValues
	}
	return input, nil
}

// NormalizeServings maps zero to the default and rejects anything else outside
// 1..MaxServingsPlanned.
func NormalizeServings(value int) (int, error) {
	if value == 0 {
		return models.DefaultServingsPlanned, nil
	}
	if value < 0 || value > MaxServingsPlanned {
		return 0, ErrInvalidServings
	}
	return value, nil
}

func NormalizeMealName(value string) (string, error) {
	trimmed := strings.Join(strings.Fields(value), " ")
	if utf8.RuneCountInString(trimmed) > MaxMealNameLength {
		return "", ErrInvalidMealName
	}
	return trimmed, nil
}

func NormalizeSlotNotes(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if utf8.RuneCountInString(trimmed) > MaxSlotNotesLength {
		return "", ErrInvalidSlotNotes
	}
	return trimmed, nil
}

func uniqueRecipeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	unique := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
