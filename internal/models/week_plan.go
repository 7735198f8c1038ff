package models

import "time"

const (
	PlanStatusDraft    = "draft"
	PlanStatusActive   = "active"
	PlanStatusArchived = "archived"
)

const DefaultServingsPlanned = 2

// WeekPlan is the aggregate root for one household week. WeekStartKey is the
// YYYY-MM-DD form of WeekStartDate and carries the uniqueness constraint so the
// key stays stable across drivers that store dates with different precision.
type WeekPlan struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	HouseholdID   uint       `gorm:"not null;uniqueIndex:uidx_household_week" json:"household_id"`
	WeekStartKey  string     `gorm:"not null;uniqueIndex:uidx_household_week" json:"week_key"`
	WeekStartDate time.Time  `gorm:"type:date;not null" json:"week_start_date"`
	Status        string     `gorm:"not null;default:draft" json:"status"`
	Slots         []MealSlot `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"slots"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type MealSlot struct {
	ID              uint         `gorm:"primaryKey" json:"id"`
	PlanID          uint         `gorm:"not null;index;uniqueIndex:uidx_plan_client" json:"plan_id"`
	ClientID        string       `gorm:"not null;uniqueIndex:uidx_plan_client" json:"client_id"`
	Day             DayOfWeek    `gorm:"not null" json:"day"`
	MealType        MealType     `gorm:"not null" json:"meal_type"`
	Position        int          `gorm:"not null;default:0" json:"position"`
	ServingsPlanned int          `gorm:"not null;default:2" json:"servings_planned"`
	CustomMealName  string       `json:"custom_meal_name,omitempty"`
	Notes           string       `gorm:"not null;default:''" json:"notes,omitempty"`
	Recipes         []SlotRecipe `gorm:"foreignKey:SlotID;constraint:OnDelete:CASCADE" json:"recipes"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// SlotRecipe is a weak reference from a slot to a recipe. RecipeID carries no
// foreign key: deleting a recipe leaves the row in place and readers resolve
// it to nothing.
type SlotRecipe struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	SlotID   uint `gorm:"not null;index" json:"-"`
	RecipeID uint `gorm:"not null" json:"recipe_id"`
	Position int  `gorm:"not null;default:0" json:"position"`
}

func (slot MealSlot) RecipeIDs() []uint {
	ids := make([]uint, 0, len(slot.Recipes))
	for _, ref := range slot.Recipes {
		ids = append(ids, ref.RecipeID)
	}
	return ids
}

func (slot MealSlot) HasRecipe(recipeID uint) bool {
	for _, ref := range slot.Recipes {
		if ref.RecipeID == recipeID {
			return true
		}
	}
	return false
}
