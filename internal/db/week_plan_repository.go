package db

import (
	"github.com/terraincognita07/mealweek/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeekPlanRepository struct {
	database *gorm.DB
}

func NewWeekPlanRepository(database *gorm.DB) *WeekPlanRepository {
	return &WeekPlanRepository{database: database}
}

func withSlots(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Slots", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC, id ASC")
		}).
		Preload("Slots.Recipes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC, id ASC")
		})
}

// ListByHouseholdAndWeek returns every plan stored under the key, oldest first.
// More than one row means the store lost the uniqueness guarantee somewhere.
func (repo *WeekPlanRepository) ListByHouseholdAndWeek(householdID uint, weekKey string) ([]models.WeekPlan, error) {
	plans := make([]models.WeekPlan, 0, 1)
	if err := withSlots(repo.database).
		Where("household_id = ? AND week_start_key = ?", householdID, weekKey).
		Order("id ASC").
		Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// ListByHousehold returns the plans newest week first, with their slots.
func (repo *WeekPlanRepository) ListByHousehold(householdID uint, includeArchived bool) ([]models.WeekPlan, error) {
	query := withSlots(repo.database.Model(&models.WeekPlan{})).Where("household_id = ?", householdID)
	if !includeArchived {
		query = query.Where("status <> ?", models.PlanStatusArchived)
	}

	plans := make([]models.WeekPlan, 0)
	if err := query.Order("week_start_key DESC, id ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// CreateIfAbsent inserts the plan unless the (household, week) key is taken.
// It reports whether this call created the row.
func (repo *WeekPlanRepository) CreateIfAbsent(plan *models.WeekPlan) (bool, error) {
	result := repo.database.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "household_id"}, {Name: "week_start_key"}},
			DoNothing: true,
		}).
		Create(plan)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *WeekPlanRepository) UpdateStatus(planID uint, status string) error {
	return repo.database.Model(&models.WeekPlan{}).Where("id = ?", planID).Update("status", status).Error
}

func (repo *WeekPlanRepository) Delete(planID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		slotIDs := tx.Model(&models.MealSlot{}).Select("id").Where("plan_id = ?", planID)
		if err := tx.Where("slot_id IN (?)", slotIDs).Delete(&models.SlotRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("plan_id = ?", planID).Delete(&models.MealSlot{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", planID).Delete(&models.WeekPlan{}).Error
	})
}
