package services

import (
	"fmt"

	"github.com/terraincognita07/mealweek/internal/models"
	"go.uber.org/zap"
)

type MealSlotRepository interface {
	FindForHousehold(slotID uint, householdID uint) (models.MealSlot, bool, error)
	NextPosition(planID uint) (int, error)
	Create(slot *models.MealSlot) error
	Save(slot *models.MealSlot) error
	ReplaceRecipes(slot *models.MealSlot) error
	Delete(slotID uint) error
}

// SlotRecipeLookup resolves recipe references at assignment time.
type SlotRecipeLookup interface {
	FindByIDForHousehold(recipeID uint, householdID uint) (models.Recipe, bool, error)
	FindByIDs(householdID uint, ids []uint) ([]models.Recipe, error)
}

// MealSlotService applies one local change to a slot and then saves it. When
// the save fails the caller's slot keeps the change and the error wraps
// ErrSlotSaveFailed; nothing is rolled back.
type MealSlotService struct {
	slots   MealSlotRepository
	recipes SlotRecipeLookup
	logger  *zap.Logger
}

func NewMealSlotService(slots MealSlotRepository, recipes SlotRecipeLookup, logger *zap.Logger) *MealSlotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MealSlotService{slots: slots, recipes: recipes, logger: logger}
}

func (service *MealSlotService) FindSlot(householdID uint, slotID uint) (models.MealSlot, error) {
	slot, found, err := service.slots.FindForHousehold(slotID, householdID)
	if err != nil {
		return models.MealSlot{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		return models.MealSlot{}, ErrSlotNotFound
	}
	return slot, nil
}

// AddSlot appends a slot to plan. Repeating a call with the same client id
// returns the slot created the first time. Archived plans take no new slots.
func (service *MealSlotService) AddSlot(plan *models.WeekPlan, input SlotInput) (models.MealSlot, error) {
	normalized, err := NormalizeSlotInput(input)
	if err != nil {
		return models.MealSlot{}, err
	}

	for _, existing := range plan.Slots {
		if existing.ClientID == normalized.ClientID {
			return existing, nil
		}
	}
	if plan.Status == models.PlanStatusArchived {
		return models.MealSlot{}, ErrPlanArchived
	}

	if len(normalized.RecipeIDs) > 0 {
		found, err := service.recipes.FindByIDs(plan.HouseholdID, normalized.RecipeIDs)
		if err != nil {
			return models.MealSlot{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if len(found) != len(normalized.RecipeIDs) {
			return models.MealSlot{}, ErrRecipeNotFound
		}
	}

	position, err := service.slots.NextPosition(plan.ID)
	if err != nil {
		return models.MealSlot{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	slot := models.MealSlot{
		PlanID:          plan.ID,
		ClientID:        normalized.ClientID,
		Day:             normalized.Day,
		MealType:        normalized.MealType,
		Position:        position,
		ServingsPlanned: normalized.Servings,
		CustomMealName:  normalized.CustomMealName,
		Notes:           normalized.Notes,
		Recipes:         make([]models.SlotRecipe, 0, len(normalized.RecipeIDs)),
	}
	for index, recipeID := range normalized.RecipeIDs {
		slot.Recipes = append(slot.Recipes, models.SlotRecipe{RecipeID: recipeID, Position: index})
	}

	if err := service.slots.Create(&slot); err != nil {
		service.logSaveFailure("add_slot", plan.HouseholdID, slot, err)
		return slot, fmt.Errorf("%w: %v", ErrSlotSaveFailed, err)
	}
	plan.Slots = append(plan.Slots, slot)
	return slot, nil
}

// AssignRecipe appends recipeID to the slot. The recipe must exist in the
// household now; assigning a recipe the slot already holds changes nothing.
func (service *MealSlotService) AssignRecipe(householdID uint, slot *models.MealSlot, recipeID uint) error {
	if slot.HasRecipe(recipeID) {
		return nil
	}
	if len(slot.Recipes) >= MaxRecipesPerSlot {
		return ErrInvalidRecipeValues
	}

	_, found, err := service.recipes.FindByIDForHousehold(recipeID, householdID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		return ErrRecipeNotFound
	}

	slot.Recipes = append(slot.Recipes, models.SlotRecipe{
		SlotID:   slot.ID,
		RecipeID: recipeID,
		Position: len(slot.Recipes),
	})
	if err := service.slots.ReplaceRecipes(slot); err != nil {
		service.logSaveFailure("assign_recipe", householdID, *slot, err)
		return fmt.Errorf("%w: %v", ErrSlotSaveFailed, err)
	}
	return nil
}

func (service *MealSlotService) RemoveRecipe(householdID uint, slot *models.MealSlot, recipeID uint) error {
	if !slot.HasRecipe(recipeID) {
		return nil
	}

	kept := make([]models.SlotRecipe, 0, len(slot.Recipes)-1)
	for _, ref := range slot.Recipes {
		if ref.RecipeID != recipeID {
			ref.Position = len(kept)
			kept = append(kept, ref)
		}
	}
	slot.Recipes = kept
	if err := service.slots.ReplaceRecipes(slot); err != nil {
		service.logSaveFailure("remove_recipe", householdID, *slot, err)
		return fmt.Errorf("%w: %v", ErrSlotSaveFailed, err)
	}
	return nil
}

// SlotUpdate carries the fields of a partial slot change. Nil leaves a field
// as it is.
type SlotUpdate struct {
	Servings       *int
	CustomMealName *string
	Notes          *string
}

// UpdateSlot validates every present field before touching slot, then applies
// them together with a single save. A rejected update changes nothing.
func (service *MealSlotService) UpdateSlot(householdID uint, slot *models.MealSlot, update SlotUpdate) error {
	next := *slot
	if update.Servings != nil {
		servings := *update.Servings
		if servings <= 0 || servings > MaxServingsPlanned {
			return ErrInvalidServings
		}
		next.ServingsPlanned = servings
	}
	if update.CustomMealName != nil {
		name, err := NormalizeMealName(*update.CustomMealName)
		if err != nil {
			return err
		}
		next.CustomMealName = name
	}
	if update.Notes != nil {
		notes, err := NormalizeSlotNotes(*update.Notes)
		if err != nil {
			return err
		}
		next.Notes = notes
	}

	*slot = next
	return service.save("update_slot", householdID, slot)
}

func (service *MealSlotService) SetCustomName(householdID uint, slot *models.MealSlot, name string) error {
	return service.UpdateSlot(householdID, slot, SlotUpdate{CustomMealName: &name})
}

func (service *MealSlotService) SetServings(householdID uint, slot *models.MealSlot, servings int) error {
	return service.UpdateSlot(householdID, slot, SlotUpdate{Servings: &servings})
}

func (service *MealSlotService) SetNotes(householdID uint, slot *models.MealSlot, notes string) error {
	return service.UpdateSlot(householdID, slot, SlotUpdate{Notes: &notes})
}

func (service *MealSlotService) RemoveSlot(householdID uint, slot models.MealSlot) error {
	if err := service.slots.Delete(slot.ID); err != nil {
		service.logSaveFailure("remove_slot", householdID, slot, err)
		return fmt.Errorf("%w: %v", ErrSlotSaveFailed, err)
	}
	return nil
}

// RecipesForPlan returns the plan's resolvable recipes keyed by id.
func (service *MealSlotService) RecipesForPlan(plan models.WeekPlan) (map[uint]models.Recipe, error) {
	ids := PlanRecipeIDs(plan)
	byID := make(map[uint]models.Recipe, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	recipes, err := service.recipes.FindByIDs(plan.HouseholdID, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}
	return byID, nil
}

func (service *MealSlotService) save(operation string, householdID uint, slot *models.MealSlot) error {
	if err := service.slots.Save(slot); err != nil {
		service.logSaveFailure(operation, householdID, *slot, err)
		return fmt.Errorf("%w: %v", ErrSlotSaveFailed, err)
	}
	return nil
}

func (service *MealSlotService) logSaveFailure(operation string, householdID uint, slot models.MealSlot, err error) {
	service.logger.Error("save meal slot",
		zap.String("operation", operation),
		zap.Uint("household_id", householdID),
		zap.Uint("plan_id", slot.PlanID),
		zap.Uint("slot_id", slot.ID),
		zap.String("client_id", slot.ClientID),
		zap.Error(err),
	)
}
