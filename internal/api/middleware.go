package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/models"
)

const (
	contextDeviceKey    = "current_device"
	contextHouseholdKey = "current_household"
	contextLocationKey  = "current_location"
)

func currentDevice(c *fiber.Ctx) (*models.Device, bool) {
	device, ok := c.Locals(contextDeviceKey).(*models.Device)
	return device, ok
}

func currentHousehold(c *fiber.Ctx) (*models.Household, bool) {
	household, ok := c.Locals(contextHouseholdKey).(*models.Household)
	return household, ok
}
