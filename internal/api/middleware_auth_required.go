package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/services"
)

// DeviceRequired resolves the bearer token to a stored device and its
// household. A token whose device was removed or whose role no longer matches
// is rejected.
func (handler *Handler) DeviceRequired(c *fiber.Ctx) error {
	tokenValue, err := requestToken(c)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	claims, err := handler.parseDeviceToken(tokenValue)
	if err != nil {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	device, err := handler.scheduler.Households.FindDevice(claims.HouseholdID, claims.DeviceID)
	if err != nil {
		if errors.Is(err, services.ErrDeviceNotFound) {
			return apiError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		return apiError(c, fiber.StatusServiceUnavailable, "unable to load")
	}
	if device.Role != claims.Role {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	household, err := handler.scheduler.Households.FindHousehold(device.HouseholdID)
	if err != nil {
		if errors.Is(err, services.ErrHouseholdNotFound) {
			return apiError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		return apiError(c, fiber.StatusServiceUnavailable, "unable to load")
	}

	if handler.shouldTouchDevice(device.LastSeenAt) {
		handler.scheduler.Households.TouchDevice(device)
	}

	c.Locals(contextDeviceKey, &device)
	c.Locals(contextHouseholdKey, &household)
	c.Locals(contextLocationKey, handler.scheduler.Households.HouseholdLocation(household))
	return c.Next()
}
