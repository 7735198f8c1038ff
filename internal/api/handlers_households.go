package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/models"
	"github.com/terraincognita07/mealweek/internal/services"
	"go.uber.org/zap"
)

// CreateHousehold sets up a household and pairs the calling device as its
// first editor.
func (handler *Handler) CreateHousehold(c *fiber.Ctx) error {
	input := createHouseholdInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	households := handler.scheduler.Households
	household, err := households.CreateHousehold(input.Name, input.Passphrase, input.Timezone)
	if err != nil {
		return handler.serviceError(c, err)
	}
	device, err := households.RegisterDevice(household.ID, input.DeviceName, models.RoleEditor)
	if err != nil {
		return handler.serviceError(c, err)
	}
	token, err := handler.buildDeviceToken(device)
	if err != nil {
		handler.logger.Error("sign device token", zap.Uint("household_id", household.ID), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"household":  household,
		"device":     device,
		"token":      token.Token,
		"expires_at": token.ExpiresAt,
	})
}

func (handler *Handler) PairDevice(c *fiber.Ctx) error {
	input := pairDeviceInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if input.HouseholdID == 0 {
		return apiError(c, fiber.StatusBadRequest, "household_id is required")
	}

	limiterKey := pairingLimiterKey(c, input.HouseholdID)
	now := handler.now()
	if handler.pairingLimiter.tooManyRecent(limiterKey, now, pairingAttemptLimit, pairingAttemptWindow) {
		return apiError(c, fiber.StatusTooManyRequests, "too many attempts")
	}

	device, err := handler.scheduler.Households.PairDevice(input.HouseholdID, input.Passphrase, input.Name, input.Role)
	if err != nil {
		if errors.Is(err, services.ErrPairingRejected) {
			handler.pairingLimiter.addFailure(limiterKey, now, pairingAttemptWindow)
		}
		return handler.serviceError(c, err)
	}
	handler.pairingLimiter.reset(limiterKey)

	token, err := handler.buildDeviceToken(device)
	if err != nil {
		handler.logger.Error("sign device token", zap.Uint("household_id", device.HouseholdID), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"device":     device,
		"token":      token.Token,
		"expires_at": token.ExpiresAt,
	})
}

func (handler *Handler) CurrentDevice(c *fiber.Ctx) error {
	device, ok := currentDevice(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(fiber.Map{"device": device, "household": household})
}
