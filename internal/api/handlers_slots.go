package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/changes"
	"github.com/terraincognita07/mealweek/internal/models"
	"github.com/terraincognita07/mealweek/internal/services"
	"go.uber.org/zap"
)

// AddSlot creates the week's plan on first use. Retrying with the same
// client_id returns the slot from the first attempt.
func (handler *Handler) AddSlot(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	payload := slotInput{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	input, err := payload.toService()
	if err != nil {
		return handler.serviceError(c, err)
	}

	location := handler.requestLocation(c)
	referenceDate, err := parseDateParam(c.Params("date"), handler.now(), location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	plan, err := handler.scheduler.Plans.FindOrCreatePlan(household.ID, referenceDate, location, "")
	if err != nil {
		return handler.serviceError(c, err)
	}
	slot, err := handler.scheduler.Slots.AddSlot(&plan, input)
	if err != nil {
		return handler.serviceError(c, err)
	}

	handler.publish(household.ID, changes.KindSlot, plan.WeekStartKey)
	return handler.slotResponse(c, fiber.StatusCreated, household.ID, slot)
}

func (handler *Handler) UpdateSlot(c *fiber.Ctx) error {
	household, slot, err := handler.loadSlot(c)
	if err != nil {
		return handler.serviceError(c, err)
	}
	input := slotPatchInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	update := services.SlotUpdate{
		Servings:       input.Servings,
		CustomMealName: input.CustomMealName,
		Notes:          input.Notes,
	}
	if err := handler.scheduler.Slots.UpdateSlot(household.ID, &slot, update); err != nil {
		return handler.serviceError(c, err)
	}

	handler.publish(household.ID, changes.KindSlot, "")
	return handler.slotResponse(c, fiber.StatusOK, household.ID, slot)
}

func (handler *Handler) AssignSlotRecipe(c *fiber.Ctx) error {
	household, slot, err := handler.loadSlot(c)
	if err != nil {
		return handler.serviceError(c, err)
	}
	input := assignRecipeInput{}
	if err := c.BodyParser(&input); err != nil || input.RecipeID == 0 {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	if err := handler.scheduler.Slots.AssignRecipe(household.ID, &slot, input.RecipeID); err != nil {
		return handler.serviceError(c, err)
	}
	handler.publish(household.ID, changes.KindSlot, "")
	return handler.slotResponse(c, fiber.StatusOK, household.ID, slot)
}

func (handler *Handler) RemoveSlotRecipe(c *fiber.Ctx) error {
	household, slot, err := handler.loadSlot(c)
	if err != nil {
		return handler.serviceError(c, err)
	}
	recipeID, err := parseIDParam(c.Params("recipeID"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid recipe id")
	}

	if err := handler.scheduler.Slots.RemoveRecipe(household.ID, &slot, recipeID); err != nil {
		return handler.serviceError(c, err)
	}
	handler.publish(household.ID, changes.KindSlot, "")
	return handler.slotResponse(c, fiber.StatusOK, household.ID, slot)
}

func (handler *Handler) DeleteSlot(c *fiber.Ctx) error {
	household, slot, err := handler.loadSlot(c)
	if err != nil {
		return handler.serviceError(c, err)
	}
	if err := handler.scheduler.Slots.RemoveSlot(household.ID, slot); err != nil {
		return handler.serviceError(c, err)
	}
	handler.publish(household.ID, changes.KindSlot, "")
	return c.JSON(fiber.Map{"saved": true})
}

func (handler *Handler) loadSlot(c *fiber.Ctx) (*models.Household, models.MealSlot, error) {
	household, ok := currentHousehold(c)
	if !ok {
		return nil, models.MealSlot{}, errNoDevice
	}
	slotID, err := parseIDParam(c.Params("id"))
	if err != nil {
		return nil, models.MealSlot{}, err
	}
	slot, err := handler.scheduler.Slots.FindSlot(household.ID, slotID)
	if err != nil {
		return nil, models.MealSlot{}, err
	}
	return household, slot, nil
}

// slotResponse resolves titles for the response. A failed lookup only costs
// the titles, so it falls back to the unresolved view.
func (handler *Handler) slotResponse(c *fiber.Ctx, status int, householdID uint, slot models.MealSlot) error {
	recipesByID := map[uint]models.Recipe{}
	if ids := slot.RecipeIDs(); len(ids) > 0 {
		recipes, err := handler.scheduler.Recipes.FindRecipes(householdID, ids)
		if err != nil {
			handler.logger.Warn("resolve slot recipes", zap.Uint("household_id", householdID), zap.Uint("slot_id", slot.ID), zap.Error(err))
		}
		for _, recipe := range recipes {
			recipesByID[recipe.ID] = recipe
		}
	}
	return c.Status(status).JSON(fiber.Map{
		"saved": true,
		"slot":  services.BuildSlotView(slot, recipesByID),
	})
}
