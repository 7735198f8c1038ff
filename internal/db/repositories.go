package db

import "gorm.io/gorm"

type Repositories struct {
	Households *HouseholdRepository
	Devices    *DeviceRepository
	Recipes    *RecipeRepository
	WeekPlans  *WeekPlanRepository
	MealSlots  *MealSlotRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Households: NewHouseholdRepository(database),
		Devices:    NewDeviceRepository(database),
		Recipes:    NewRecipeRepository(database),
		WeekPlans:  NewWeekPlanRepository(database),
		MealSlots:  NewMealSlotRepository(database),
	}
}
