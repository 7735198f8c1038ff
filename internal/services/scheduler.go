package services

import (
	"net/http"

	"github.com/terraincognita07/mealweek/internal/db"
	"go.uber.org/zap"
)

// Scheduler groups the services every surface (API, CLI, seeder) works
// through so they share one set of repositories.
type Scheduler struct {
	Plans      *WeekPlanService
	Slots      *MealSlotService
	Recipes    *RecipeService
	Households *HouseholdService
}

type SchedulerOptions struct {
	DefaultPlanStatus string
	DefaultTimezone   string
	HTTPClient        *http.Client
	Logger            *zap.Logger
}

func NewScheduler(repositories *db.Repositories, options SchedulerOptions) *Scheduler {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Plans:      NewWeekPlanService(repositories.WeekPlans, repositories.MealSlots, options.DefaultPlanStatus, logger.Named("plans")),
		Slots:      NewMealSlotService(repositories.MealSlots, repositories.Recipes, logger.Named("slots")),
		Recipes:    NewRecipeService(repositories.Recipes, options.HTTPClient, logger.Named("recipes")),
		Households: NewHouseholdService(repositories.Households, repositories.Devices, options.DefaultTimezone, logger.Named("households")),
	}
}
