package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	api.Get("/launch", handler.Launch)
	api.Post("/households", handler.CreateHousehold)
	api.Post("/devices/pair", handler.PairDevice)

	device := api.Group("", handler.DeviceRequired)
	device.Get("/devices/me", handler.CurrentDevice)
	device.Get("/today", handler.Today)
	device.Get("/plans", handler.ListPlans)
	device.Get("/changes", handler.Changes)
	device.Get("/changes/stream", handler.ChangesStream)

	weeks := device.Group("/weeks")
	weeks.Get("/:date", handler.GetWeek)
	weeks.Get("/:date/days/:day", handler.GetWeekDay)
	weeks.Get("/:date/nutrition", handler.GetWeekNutrition)
	weeks.Post("/:date", handler.EditorOnly, handler.EnsureWeek)
	weeks.Post("/:date/status", handler.EditorOnly, handler.SetWeekStatus)
	weeks.Post("/:date/slots", handler.EditorOnly, handler.AddSlot)

	slots := device.Group("/slots", handler.EditorOnly)
	slots.Patch("/:id", handler.UpdateSlot)
	slots.Post("/:id/recipes", handler.AssignSlotRecipe)
	slots.Delete("/:id/recipes/:recipeID", handler.RemoveSlotRecipe)
	slots.Delete("/:id", handler.DeleteSlot)

	recipes := device.Group("/recipes")
	recipes.Get("", handler.ListRecipes)
	recipes.Post("", handler.EditorOnly, handler.CreateRecipe)
	recipes.Post("/import", handler.EditorOnly, handler.ImportRecipe)
	recipes.Patch("/:id", handler.EditorOnly, handler.UpdateRecipe)
	recipes.Delete("/:id", handler.EditorOnly, handler.DeleteRecipe)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
