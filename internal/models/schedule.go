package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	errUnknownDayOfWeek = errors.New("unknown day of week")
	errUnknownMealType  = errors.New("unknown meal type")
)

// DayOfWeek numbers the week Monday-first: Monday is 1 and Sunday is 7.
type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var daysOfWeek = [...]struct {
	name  string
	short string
}{
	{"monday", "Mon"},
	{"tuesday", "Tue"},
	{"wednesday", "Wed"},
	{"thursday", "Thu"},
	{"friday", "Fri"},
	{"saturday", "Sat"},
	{"sunday", "Sun"},
}

func AllDaysOfWeek() []DayOfWeek {
	return []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// DayOfWeekFromWeekday is the one mapping from time.Weekday (Sunday = 0) onto
// the Monday-first numbering. Anything deciding which day is "today" uses it.
func DayOfWeekFromWeekday(weekday time.Weekday) DayOfWeek {
	if weekday == time.Sunday {
		return Sunday
	}
	return DayOfWeek(weekday)
}

func (day DayOfWeek) Valid() bool {
	return day >= Monday && day <= Sunday
}

// Offset is the number of days after the week's Monday.
func (day DayOfWeek) Offset() int {
	return int(day) - 1
}

func (day DayOfWeek) String() string {
	if !day.Valid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(day))
	}
	return daysOfWeek[day.Offset()].name
}

func (day DayOfWeek) ShortName() string {
	if !day.Valid() {
		return "?"
	}
	return daysOfWeek[day.Offset()].short
}

func (day DayOfWeek) DisplayName() string {
	if !day.Valid() {
		return "Unknown"
	}
	name := daysOfWeek[day.Offset()].name
	return strings.ToUpper(name[:1]) + name[1:]
}

func ParseDayOfWeek(raw string) (DayOfWeek, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	for index, candidate := range daysOfWeek {
		if value == candidate.name || value == strings.ToLower(candidate.short) {
			return DayOfWeek(index + 1), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnknownDayOfWeek, raw)
}

func (day DayOfWeek) MarshalText() ([]byte, error) {
	if !day.Valid() {
		return nil, fmt.Errorf("%w: %d", errUnknownDayOfWeek, int(day))
	}
	return []byte(day.String()), nil
}

func (day *DayOfWeek) UnmarshalText(text []byte) error {
	parsed, err := ParseDayOfWeek(string(text))
	if err != nil {
		return err
	}
	*day = parsed
	return nil
}

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

func AllMealTypes() []MealType {
	return []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}
}

func ParseMealType(raw string) (MealType, error) {
	value := MealType(strings.ToLower(strings.TrimSpace(raw)))
	if !value.Valid() {
		return "", fmt.Errorf("%w: %q", errUnknownMealType, raw)
	}
	return value, nil
}

func (mealType MealType) Valid() bool {
	switch mealType {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	default:
		return false
	}
}

// SortOrder is for display ordering only and never part of a slot's identity.
func (mealType MealType) SortOrder() int {
	switch mealType {
	case MealBreakfast:
		return 0
	case MealLunch:
		return 1
	case MealDinner:
		return 2
	case MealSnack:
		return 3
	default:
		return 99
	}
}

func (mealType MealType) DisplayName() string {
	switch mealType {
	case MealBreakfast:
		return "Breakfast"
	case MealLunch:
		return "Lunch"
	case MealDinner:
		return "Dinner"
	case MealSnack:
		return "Snack"
	default:
		return "Meal"
	}
}

func ValidPlanStatus(status string) bool {
	switch status {
	case PlanStatusDraft, PlanStatusActive, PlanStatusArchived:
		return true
	default:
		return false
	}
}
