package services

import (
	"sort"

	"github.com/terraincognita07/mealweek/internal/models"
)

type DaySlots struct {
	Day   models.DayOfWeek
	Slots []models.MealSlot
}

// SlotsForDay returns the plan's slots for day ordered by meal type and then
// by insertion position. A day with nothing planned yields an empty slice.
func SlotsForDay(plan models.WeekPlan, day models.DayOfWeek) []models.MealSlot {
	slots := make([]models.MealSlot, 0)
	for _, slot := range plan.Slots {
		if slot.Day == day {
			slots = append(slots, slot)
		}
	}
	sortSlots(slots)
	return slots
}

// GroupSlotsByDay returns all seven days Monday-first.
func GroupSlotsByDay(plan models.WeekPlan) [7]DaySlots {
	var grouped [7]DaySlots
	for _, day := range models.AllDaysOfWeek() {
		grouped[day.Offset()] = DaySlots{Day: day, Slots: make([]models.MealSlot, 0)}
	}
	for _, slot := range plan.Slots {
		if !slot.Day.Valid() {
			continue
		}
		entry := &grouped[slot.Day.Offset()]
		entry.Slots = append(entry.Slots, slot)
	}
	for index := range grouped {
		sortSlots(grouped[index].Slots)
	}
	return grouped
}

func sortSlots(slots []models.MealSlot) {
	sort.SliceStable(slots, func(i, j int) bool {
		left, right := slots[i].MealType.SortOrder(), slots[j].MealType.SortOrder()
		if left != right {
			return left < right
		}
		if slots[i].Position != slots[j].Position {
			return slots[i].Position < slots[j].Position
		}
		return slots[i].ID < slots[j].ID
	})
}
