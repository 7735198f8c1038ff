package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/services"
)

// EditorOnly guards every mutation route. Display devices are read-only and
// never reach the services.
func (handler *Handler) EditorOnly(c *fiber.Ctx) error {
	device, ok := currentDevice(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if !services.IsEditorDevice(device) {
		return apiError(c, fiber.StatusForbidden, "editor access required")
	}
	return c.Next()
}
