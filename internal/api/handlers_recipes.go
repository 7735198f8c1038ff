package api

import (
	"bytes"
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/changes"
	"github.com/terraincognita07/mealweek/internal/models"
)

func (handler *Handler) ListRecipes(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recipes, err := handler.scheduler.Recipes.ListRecipes(household.ID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"recipes": recipes})
}

func (handler *Handler) CreateRecipe(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := recipeInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	recipe, err := handler.scheduler.Recipes.CreateRecipe(household.ID, input.toService())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return handler.recipeSaved(c, fiber.StatusCreated, household.ID, recipe)
}

func (handler *Handler) UpdateRecipe(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recipeID, err := parseIDParam(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid recipe id")
	}
	input := recipeInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	recipe, err := handler.scheduler.Recipes.UpdateRecipe(household.ID, recipeID, input.toService())
	if err != nil {
		return handler.serviceError(c, err)
	}
	return handler.recipeSaved(c, fiber.StatusOK, household.ID, recipe)
}

// ImportRecipe takes either a JSON body {"url": ...} that the server fetches,
// or the page HTML itself with ?source_url= naming where it came from.
func (handler *Handler) ImportRecipe(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	body := c.Body()
	if len(body) == 0 {
		return apiError(c, fiber.StatusBadRequest, "empty body")
	}
	if len(body) > maxImportBodyBytes {
		return apiError(c, fiber.StatusRequestEntityTooLarge, "page too large")
	}

	recipes := handler.scheduler.Recipes
	var (
		recipe models.Recipe
		err    error
	)
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
		input := importRecipeInput{}
		if parseErr := c.BodyParser(&input); parseErr != nil || strings.TrimSpace(input.URL) == "" {
			return apiError(c, fiber.StatusBadRequest, "url is required")
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), recipeFetchTimeout)
		defer cancel()
		recipe, err = recipes.ImportRecipeURL(ctx, household.ID, input.URL)
	} else {
		recipe, err = recipes.ImportRecipeHTML(household.ID, bytes.NewReader(body), c.Query("source_url"))
	}
	if err != nil {
		return handler.serviceError(c, err)
	}
	return handler.recipeSaved(c, fiber.StatusCreated, household.ID, recipe)
}

// DeleteRecipe leaves slot references in place; boards fall back to the
// slot's custom name.
func (handler *Handler) DeleteRecipe(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	recipeID, err := parseIDParam(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid recipe id")
	}
	if err := handler.scheduler.Recipes.DeleteRecipe(household.ID, recipeID); err != nil {
		return handler.serviceError(c, err)
	}
	handler.publish(household.ID, changes.KindRecipe, "")
	return c.JSON(fiber.Map{"saved": true})
}

func (handler *Handler) recipeSaved(c *fiber.Ctx, status int, householdID uint, recipe models.Recipe) error {
	handler.publish(householdID, changes.KindRecipe, "")
	return c.Status(status).JSON(fiber.Map{"saved": true, "recipe": recipe})
}
