package db

import (
	"github.com/terraincognita07/mealweek/internal/models"
	"gorm.io/gorm"
)

type RecipeRepository struct {
	database *gorm.DB
}

func NewRecipeRepository(database *gorm.DB) *RecipeRepository {
	return &RecipeRepository{database: database}
}

func (repo *RecipeRepository) ListByHousehold(householdID uint) ([]models.Recipe, error) {
	recipes := make([]models.Recipe, 0)
	if err := repo.database.
		Where("household_id = ?", householdID).
		Order("lower(title) ASC, id ASC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByIDs returns the recipes that still exist; missing ids are skipped.
func (repo *RecipeRepository) FindByIDs(householdID uint, ids []uint) ([]models.Recipe, error) {
	recipes := make([]models.Recipe, 0, len(ids))
	if len(ids) == 0 {
		return recipes, nil
	}
	if err := repo.database.
		Where("household_id = ? AND id IN ?", householdID, ids).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (repo *RecipeRepository) FindByIDForHousehold(recipeID uint, householdID uint) (models.Recipe, bool, error) {
	recipe := models.Recipe{}
	result := repo.database.
		Where("id = ? AND household_id = ?", recipeID, householdID).
		Limit(1).
		Find(&recipe)
	if result.Error != nil {
		return models.Recipe{}, false, result.Error
	}
	return recipe, result.RowsAffected > 0, nil
}

func (repo *RecipeRepository) FindByTitle(householdID uint, title string) (models.Recipe, bool, error) {
	recipe := models.Recipe{}
	result := repo.database.
		Where("household_id = ? AND lower(trim(title)) = lower(trim(?))", householdID, title).
		Order("id ASC").
		Limit(1).
		Find(&recipe)
	if result.Error != nil {
		return models.Recipe{}, false, result.Error
	}
	return recipe, result.RowsAffected > 0, nil
}

func (repo *RecipeRepository) Create(recipe *models.Recipe) error {
	return repo.database.Create(recipe).Error
}

func (repo *RecipeRepository) Save(recipe *models.Recipe) error {
	return repo.database.Save(recipe).Error
}

// Delete leaves slot references untouched; they resolve to nothing afterwards.
func (repo *RecipeRepository) Delete(recipeID uint, householdID uint) error {
	return repo.database.
		Where("id = ? AND household_id = ?", recipeID, householdID).
		Delete(&models.Recipe{}).Error
}
