package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Launch reports the screenshot hooks the server was started with so a client
// can open the requested tab.
func (handler *Handler) Launch(c *fiber.Ctx) error {
	return c.JSON(handler.launch)
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	return apiError(c, fiber.StatusNotFound, "not found")
}
