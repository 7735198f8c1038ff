package db

import (
	"github.com/terraincognita07/mealweek/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MealSlotRepository struct {
	database *gorm.DB
}

func NewMealSlotRepository(database *gorm.DB) *MealSlotRepository {
	return &MealSlotRepository{database: database}
}

func (repo *MealSlotRepository) FindForHousehold(slotID uint, householdID uint) (models.MealSlot, bool, error) {
	slot := models.MealSlot{}
	result := repo.database.
		Preload("Recipes", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC, id ASC")
		}).
		Joins("JOIN week_plans ON week_plans.id = meal_slots.plan_id").
		Where("meal_slots.id = ? AND week_plans.household_id = ?", slotID, householdID).
		Limit(1).
		Find(&slot)
	if result.Error != nil {
		return models.MealSlot{}, false, result.Error
	}
	// Preloads run as separate queries, so the row is checked by id.
	return slot, slot.ID != 0, nil
}

func (repo *MealSlotRepository) NextPosition(planID uint) (int, error) {
	var next struct {
		Position int `gorm:"column:position"`
	}
	if err := repo.database.
		Raw(`SELECT COALESCE(MAX(position), -1) + 1 AS position FROM meal_slots WHERE plan_id = ?`, planID).
		Scan(&next).Error; err != nil {
		return 0, err
	}
	return next.Position, nil
}

// Create inserts the slot together with its recipe references.
func (repo *MealSlotRepository) Create(slot *models.MealSlot) error {
	return repo.database.Create(slot).Error
}

// Save writes the slot's own columns; recipe references go through ReplaceRecipes.
func (repo *MealSlotRepository) Save(slot *models.MealSlot) error {
	return repo.database.Omit(clause.Associations).Save(slot).Error
}

func (repo *MealSlotRepository) ReplaceRecipes(slot *models.MealSlot) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slot_id = ?", slot.ID).Delete(&models.SlotRecipe{}).Error; err != nil {
			return err
		}
		for index := range slot.Recipes {
			slot.Recipes[index].ID = 0
			slot.Recipes[index].SlotID = slot.ID
			slot.Recipes[index].Position = index
		}
		if len(slot.Recipes) == 0 {
			return nil
		}
		return tx.Create(&slot.Recipes).Error
	})
}

func (repo *MealSlotRepository) MoveToPlan(slotID uint, planID uint, position int) error {
	return repo.database.Model(&models.MealSlot{}).
		Where("id = ?", slotID).
		Updates(map[string]any{"plan_id": planID, "position": position}).Error
}

func (repo *MealSlotRepository) Delete(slotID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("slot_id = ?", slotID).Delete(&models.SlotRecipe{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", slotID).Delete(&models.MealSlot{}).Error
	})
}
