package services

import (
	"sort"
	"time"

	"github.com/terraincognita07/mealweek/internal/models"
)

// memoryStoreStub backs plans, slots and recipes in memory. Error fields fail
// the matching call; allowDuplicatePlans disables the unique week key.
type memoryStoreStub struct {
	plans   map[uint]models.WeekPlan
	slots   map[uint]models.MealSlot
	recipes map[uint]models.Recipe
	nextID  uint

	allowDuplicatePlans bool

	listPlansErr    error
	createPlanErr   error
	updatePlanErr   error
	deletePlanErr   error
	findSlotErr     error
	createSlotErr   error
	saveSlotErr     error
	replaceSlotErr  error
	deleteSlotErr   error
	moveSlotErr     error
	findRecipeErr   error
	createRecipeErr error

	createPlanCalls int
	saveSlotCalls   int
}

func newMemoryStoreStub() *memoryStoreStub {
	return &memoryStoreStub{
		plans:   make(map[uint]models.WeekPlan),
		slots:   make(map[uint]models.MealSlot),
		recipes: make(map[uint]models.Recipe),
		nextID:  1,
	}
}

func (stub *memoryStoreStub) allocateID() uint {
	id := stub.nextID
	stub.nextID++
	return id
}

func (stub *memoryStoreStub) insertPlanDirect(plan models.WeekPlan) models.WeekPlan {
	plan.ID = stub.allocateID()
	plan.Slots = nil
	stub.plans[plan.ID] = plan
	return plan
}

func (stub *memoryStoreStub) insertSlotDirect(slot models.MealSlot) models.MealSlot {
	slot.ID = stub.allocateID()
	stub.slots[slot.ID] = slot
	return slot
}

func (stub *memoryStoreStub) withSlots(plan models.WeekPlan) models.WeekPlan {
	plan.Slots = make([]models.MealSlot, 0)
	for _, slot := range stub.slots {
		if slot.PlanID == plan.ID {
			plan.Slots = append(plan.Slots, slot)
		}
	}
	sort.Slice(plan.Slots, func(i, j int) bool {
		if plan.Slots[i].Position == plan.Slots[j].Position {
			return plan.Slots[i].ID < plan.Slots[j].ID
		}
		return plan.Slots[i].Position < plan.Slots[j].Position
	})
	return plan
}

func (stub *memoryStoreStub) ListByHouseholdAndWeek(householdID uint, weekKey string) ([]models.WeekPlan, error) {
	if stub.listPlansErr != nil {
		return nil, stub.listPlansErr
	}
	plans := make([]models.WeekPlan, 0)
	for _, plan := range stub.plans {
		if plan.HouseholdID == householdID && plan.WeekStartKey == weekKey {
			plans = append(plans, stub.withSlots(plan))
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].ID < plans[j].ID })
	return plans, nil
}

func (stub *memoryStoreStub) ListByHousehold(householdID uint, includeArchived bool) ([]models.WeekPlan, error) {
	if stub.listPlansErr != nil {
		return nil, stub.listPlansErr
	}
	plans := make([]models.WeekPlan, 0)
	for _, plan := range stub.plans {
		if plan.HouseholdID != householdID {
			continue
		}
		if !includeArchived && plan.Status == models.PlanStatusArchived {
			continue
		}
		plans = append(plans, plan)
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].WeekStartKey > plans[j].WeekStartKey })
	return plans, nil
}

func (stub *memoryStoreStub) CreateIfAbsent(plan *models.WeekPlan) (bool, error) {
	stub.createPlanCalls++
	if stub.createPlanErr != nil {
		return false, stub.createPlanErr
	}
	if !stub.allowDuplicatePlans {
		for _, existing := range stub.plans {
			if existing.HouseholdID == plan.HouseholdID && existing.WeekStartKey == plan.WeekStartKey {
				return false, nil
			}
		}
	}
	*plan = stub.insertPlanDirect(*plan)
	return true, nil
}

func (stub *memoryStoreStub) UpdateStatus(planID uint, status string) error {
	if stub.updatePlanErr != nil {
		return stub.updatePlanErr
	}
	plan := stub.plans[planID]
	plan.Status = status
	stub.plans[planID] = plan
	return nil
}

func (stub *memoryStoreStub) Delete(id uint) error {
	if _, isPlan := stub.plans[id]; isPlan {
		if stub.deletePlanErr != nil {
			return stub.deletePlanErr
		}
		for slotID, slot := range stub.slots {
			if slot.PlanID == id {
				delete(stub.slots, slotID)
			}
		}
		delete(stub.plans, id)
		return nil
	}
	if stub.deleteSlotErr != nil {
		return stub.deleteSlotErr
	}
	delete(stub.slots, id)
	return nil
}

func (stub *memoryStoreStub) MoveToPlan(slotID uint, planID uint, position int) error {
	if stub.moveSlotErr != nil {
		return stub.moveSlotErr
	}
	slot := stub.slots[slotID]
	slot.PlanID = planID
	slot.Position = position
	stub.slots[slotID] = slot
	return nil
}

// slotStore exposes the slot half of the stub; plan and slot ids share one
// sequence so Delete can tell them apart.
type slotStore struct {
	*memoryStoreStub
}

func (store slotStore) FindForHousehold(slotID uint, householdID uint) (models.MealSlot, bool, error) {
	if store.findSlotErr != nil {
		return models.MealSlot{}, false, store.findSlotErr
	}
	slot, ok := store.slots[slotID]
	if !ok {
		return models.MealSlot{}, false, nil
	}
	if store.plans[slot.PlanID].HouseholdID != householdID {
		return models.MealSlot{}, false, nil
	}
	return slot, true, nil
}

func (store slotStore) NextPosition(planID uint) (int, error) {
	next := 0
	for _, slot := range store.slots {
		if slot.PlanID == planID && slot.Position >= next {
			next = slot.Position + 1
		}
	}
	return next, nil
}

func (store slotStore) Create(slot *models.MealSlot) error {
	if store.createSlotErr != nil {
		return store.createSlotErr
	}
	*slot = store.insertSlotDirect(*slot)
	return nil
}

func (store slotStore) Save(slot *models.MealSlot) error {
	store.saveSlotCalls++
	if store.saveSlotErr != nil {
		return store.saveSlotErr
	}
	existing := store.slots[slot.ID]
	copied := *slot
	copied.Recipes = existing.Recipes
	store.slots[slot.ID] = copied
	return nil
}

func (store slotStore) ReplaceRecipes(slot *models.MealSlot) error {
	if store.replaceSlotErr != nil {
		return store.replaceSlotErr
	}
	existing := store.slots[slot.ID]
	existing.Recipes = append([]models.SlotRecipe(nil), slot.Recipes...)
	store.slots[slot.ID] = existing
	return nil
}

func (store slotStore) Delete(slotID uint) error {
	if store.deleteSlotErr != nil {
		return store.deleteSlotErr
	}
	delete(store.slots, slotID)
	return nil
}

type recipeStore struct {
	*memoryStoreStub
}

func (store recipeStore) addRecipe(householdID uint, title string, calories int) models.Recipe {
	recipe := models.Recipe{
		ID:                 store.allocateID(),
		HouseholdID:        householdID,
		Title:              title,
		Servings:           2,
		CaloriesPerServing: calories,
		CreatedAt:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	store.recipes[recipe.ID] = recipe
	return recipe
}

func (store recipeStore) ListByHousehold(householdID uint) ([]models.Recipe, error) {
	if store.findRecipeErr != nil {
		return nil, store.findRecipeErr
	}
	recipes := make([]models.Recipe, 0)
	for _, recipe := range store.recipes {
		if recipe.HouseholdID == householdID {
			recipes = append(recipes, recipe)
		}
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].Title < recipes[j].Title })
	return recipes, nil
}

func (store recipeStore) FindByIDs(householdID uint, ids []uint) ([]models.Recipe, error) {
	if store.findRecipeErr != nil {
		return nil, store.findRecipeErr
	}
	recipes := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		if recipe, ok := store.recipes[id]; ok && recipe.HouseholdID == householdID {
			recipes = append(recipes, recipe)
		}
	}
	return recipes, nil
}

func (store recipeStore) FindByIDForHousehold(recipeID uint, householdID uint) (models.Recipe, bool, error) {
	if store.findRecipeErr != nil {
		return models.Recipe{}, false, store.findRecipeErr
	}
	recipe, ok := store.recipes[recipeID]
	if !ok || recipe.HouseholdID != householdID {
		return models.Recipe{}, false, nil
	}
	return recipe, true, nil
}

func (store recipeStore) FindByTitle(householdID uint, title string) (models.Recipe, bool, error) {
	if store.findRecipeErr != nil {
		return models.Recipe{}, false, store.findRecipeErr
	}
	for _, recipe := range store.recipes {
		if recipe.HouseholdID == householdID && recipe.Title == title {
			return recipe, true, nil
		}
	}
	return models.Recipe{}, false, nil
}

func (store recipeStore) Create(recipe *models.Recipe) error {
	if store.createRecipeErr != nil {
		return store.createRecipeErr
	}
	recipe.ID = store.allocateID()
	store.recipes[recipe.ID] = *recipe
	return nil
}

func (store recipeStore) Save(recipe *models.Recipe) error {
	if store.createRecipeErr != nil {
		return store.createRecipeErr
	}
	store.recipes[recipe.ID] = *recipe
	return nil
}

func (store recipeStore) Delete(recipeID uint, householdID uint) error {
	if recipe, ok := store.recipes[recipeID]; ok && recipe.HouseholdID == householdID {
		delete(store.recipes, recipeID)
	}
	return nil
}

func newSchedulerForTest(store *memoryStoreStub) (*WeekPlanService, *MealSlotService) {
	plans := NewWeekPlanService(store, slotStore{store}, models.PlanStatusDraft, nil)
	slots := NewMealSlotService(slotStore{store}, recipeStore{store}, nil)
	return plans, slots
}
