package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/mealweek/internal/models"
	"github.com/terraincognita07/mealweek/internal/recipeimport"
	"go.uber.org/zap"
)

const (
	MaxRecipeTitleLength = 200
	MaxRecipeIngredients = 100
)

type RecipeInput struct {
	Title              string
	Servings           int
	PrepMinutes        int
	CaloriesPerServing int
	Ingredients        []string
	SourceURL          string
}

type RecipeRepository interface {
	ListByHousehold(householdID uint) ([]models.Recipe, error)
	FindByIDs(householdID uint, ids []uint) ([]models.Recipe, error)
	FindByIDForHousehold(recipeID uint, householdID uint) (models.Recipe, bool, error)
	FindByTitle(householdID uint, title string) (models.Recipe, bool, error)
	Create(recipe *models.Recipe) error
	Save(recipe *models.Recipe) error
	Delete(recipeID uint, householdID uint) error
}

type RecipeService struct {
	recipes    RecipeRepository
	httpClient *http.Client
	logger     *zap.Logger
}

func NewRecipeService(recipes RecipeRepository, httpClient *http.Client, logger *zap.Logger) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeService{recipes: recipes, httpClient: httpClient, logger: logger}
}

func NormalizeRecipeInput(input RecipeInput) (RecipeInput, error) {
	input.Title = strings.Join(strings.Fields(input.Title), " ")
	if input.Title == "" || utf8.RuneCountInString(input.Title) > MaxRecipeTitleLength {
		return input, ErrInvalidRecipeTitle
	}

	if input.Servings == 0 {
		input.Servings = models.DefaultRecipeServings
	}
	if input.Servings < 0 || input.Servings > MaxServingsPlanned {
		return input, ErrInvalidServings
	}
	if input.PrepMinutes < 0 || input.CaloriesPerServing < 0 {
		return input, ErrInvalidRecipeValues
	}

	ingredients := make([]string, 0, len(input.Ingredients))
	for _, raw := range input.Ingredients {
		if item := strings.Join(strings.Fields(raw), " "); item != "" {
			ingredients = append(ingredients, item)
		}
	}
	if len(ingredients) > MaxRecipeIngredients {
		return input, ErrInvalidRecipeValues
	}
	input.Ingredients = ingredients
	input.SourceURL = strings.TrimSpace(input.SourceURL)
	return input, nil
}

func (service *RecipeService) ListRecipes(householdID uint) ([]models.Recipe, error) {
	recipes, err := service.recipes.ListByHousehold(householdID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return recipes, nil
}

// FindRecipes resolves ids that still exist. Missing ids are not an error.
func (service *RecipeService) FindRecipes(householdID uint, ids []uint) ([]models.Recipe, error) {
	recipes, err := service.recipes.FindByIDs(householdID, uniqueRecipeIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return recipes, nil
}

func (service *RecipeService) FindRecipe(householdID uint, recipeID uint) (models.Recipe, error) {
	recipe, found, err := service.recipes.FindByIDForHousehold(recipeID, householdID)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		return models.Recipe{}, ErrRecipeNotFound
	}
	return recipe, nil
}

func (service *RecipeService) CreateRecipe(householdID uint, input RecipeInput) (models.Recipe, error) {
	normalized, err := NormalizeRecipeInput(input)
	if err != nil {
		return models.Recipe{}, err
	}

	recipe := models.Recipe{HouseholdID: householdID}
	applyRecipeInput(&recipe, normalized)
	if err := service.recipes.Create(&recipe); err != nil {
		service.logSaveFailure("create_recipe", householdID, recipe, err)
		return models.Recipe{}, fmt.Errorf("%w: %v", ErrRecipeSaveFailed, err)
	}
	return recipe, nil
}

// EnsureRecipe returns the household recipe with the same title, creating it
// when none exists. created reports which happened.
func (service *RecipeService) EnsureRecipe(householdID uint, input RecipeInput) (models.Recipe, bool, error) {
	normalized, err := NormalizeRecipeInput(input)
	if err != nil {
		return models.Recipe{}, false, err
	}

	existing, found, err := service.recipes.FindByTitle(householdID, normalized.Title)
	if err != nil {
		return models.Recipe{}, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if found {
		return existing, false, nil
	}

	recipe, err := service.CreateRecipe(householdID, normalized)
	if err != nil {
		return models.Recipe{}, false, err
	}
	return recipe, true, nil
}

func (service *RecipeService) UpdateRecipe(householdID uint, recipeID uint, input RecipeInput) (models.Recipe, error) {
	normalized, err := NormalizeRecipeInput(input)
	if err != nil {
		return models.Recipe{}, err
	}

	recipe, err := service.FindRecipe(householdID, recipeID)
	if err != nil {
		return models.Recipe{}, err
	}
	applyRecipeInput(&recipe, normalized)
	if err := service.recipes.Save(&recipe); err != nil {
		service.logSaveFailure("update_recipe", householdID, recipe, err)
		return recipe, fmt.Errorf("%w: %v", ErrRecipeSaveFailed, err)
	}
	return recipe, nil
}

// DeleteRecipe removes the recipe and leaves slot references alone; those
// slots fall back to their custom name.
func (service *RecipeService) DeleteRecipe(householdID uint, recipeID uint) error {
	if _, err := service.FindRecipe(householdID, recipeID); err != nil {
		return err
	}
	if err := service.recipes.Delete(recipeID, householdID); err != nil {
		service.logSaveFailure("delete_recipe", householdID, models.Recipe{ID: recipeID}, err)
		return fmt.Errorf("%w: %v", ErrRecipeSaveFailed, err)
	}
	return nil
}

func (service *RecipeService) ImportRecipeHTML(householdID uint, document io.Reader, sourceURL string) (models.Recipe, error) {
	parsed, err := recipeimport.Parse(document, sourceURL)
	if err != nil {
		if errors.Is(err, recipeimport.ErrNoRecipe) {
			return models.Recipe{}, ErrInvalidRecipeTitle
		}
		return models.Recipe{}, fmt.Errorf("%w: %v", ErrInvalidRecipeValues, err)
	}
	return service.CreateRecipe(householdID, recipeInputFromImport(parsed))
}

func (service *RecipeService) ImportRecipeURL(ctx context.Context, householdID uint, rawURL string) (models.Recipe, error) {
	parsed, err := recipeimport.Fetch(ctx, service.httpClient, rawURL)
	if err != nil {
		if errors.Is(err, recipeimport.ErrNoRecipe) {
			return models.Recipe{}, ErrInvalidRecipeTitle
		}
		service.logger.Warn("fetch recipe page", zap.Uint("household_id", householdID), zap.String("url", rawURL), zap.Error(err))
		return models.Recipe{}, fmt.Errorf("%w: %v", ErrRecipeFetchFailed, err)
	}
	return service.CreateRecipe(householdID, recipeInputFromImport(parsed))
}

func recipeInputFromImport(parsed recipeimport.Recipe) RecipeInput {
	input := RecipeInput{
		Title:              parsed.Title,
		Servings:           parsed.Servings,
		PrepMinutes:        parsed.PrepMinutes,
		CaloriesPerServing: parsed.CaloriesPerServing,
		Ingredients:        parsed.Ingredients,
		SourceURL:          parsed.SourceURL,
	}
	if utf8.RuneCountInString(input.Title) > MaxRecipeTitleLength {
		input.Title = string([]rune(input.Title)[:MaxRecipeTitleLength])
	}
	if input.Servings > MaxServingsPlanned {
		input.Servings = 0
	}
	if len(input.Ingredients) > MaxRecipeIngredients {
		input.Ingredients = input.Ingredients[:MaxRecipeIngredients]
	}
	return input
}

func applyRecipeInput(recipe *models.Recipe, input RecipeInput) {
	recipe.Title = input.Title
	recipe.Servings = input.Servings
	recipe.PrepMinutes = input.PrepMinutes
	recipe.CaloriesPerServing = input.CaloriesPerServing
	recipe.Ingredients = input.Ingredients
	recipe.SourceURL = input.SourceURL
}

func (service *RecipeService) logSaveFailure(operation string, householdID uint, recipe models.Recipe, err error) {
	service.logger.Error("save recipe",
		zap.String("operation", operation),
		zap.Uint("household_id", householdID),
		zap.Uint("recipe_id", recipe.ID),
		zap.Error(err),
	)
}
