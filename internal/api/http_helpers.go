package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/services"
	"go.uber.org/zap"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// saveFailed tells the client its change did not persist. The body carries
// saved:false so a client can keep its local edit and retry.
func saveFailed(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"saved": false, "error": message})
}

type errorResponse struct {
	target  error
	status  int
	message string
}

var serviceErrorResponses = []errorResponse{
	{errNoDevice, fiber.StatusUnauthorized, "unauthorized"},
	{errInvalidID, fiber.StatusBadRequest, "invalid id"},
	{services.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "unable to load"},
	{services.ErrPlanNotFound, fiber.StatusNotFound, "plan not found"},
	{services.ErrSlotNotFound, fiber.StatusNotFound, "slot not found"},
	{services.ErrRecipeNotFound, fiber.StatusNotFound, "recipe not found"},
	{services.ErrHouseholdNotFound, fiber.StatusNotFound, "household not found"},
	{services.ErrDeviceNotFound, fiber.StatusNotFound, "device not found"},
	{services.ErrInvalidDay, fiber.StatusBadRequest, "invalid day"},
	{services.ErrInvalidMealType, fiber.StatusBadRequest, "invalid meal type"},
	{services.ErrInvalidServings, fiber.StatusBadRequest, "invalid servings"},
	{services.ErrInvalidPlanStatus, fiber.StatusBadRequest, "invalid plan status"},
	{services.ErrInvalidMealName, fiber.StatusBadRequest, "invalid meal name"},
	{services.ErrInvalidSlotNotes, fiber.StatusBadRequest, "invalid notes"},
	{services.ErrInvalidClientID, fiber.StatusBadRequest, "invalid client id"},
	{services.ErrPlanArchived, fiber.StatusConflict, "week plan is archived"},
	{services.ErrInvalidRecipeTitle, fiber.StatusUnprocessableEntity, "invalid recipe title"},
	{services.ErrInvalidRecipeValues, fiber.StatusBadRequest, "invalid recipe values"},
	{services.ErrInvalidWeekKey, fiber.StatusBadRequest, "invalid date"},
	{services.ErrInvalidPassphrase, fiber.StatusBadRequest, "invalid passphrase"},
	{services.ErrInvalidHouseholdName, fiber.StatusBadRequest, "invalid household name"},
	{services.ErrInvalidTimezone, fiber.StatusBadRequest, "invalid timezone"},
	{services.ErrInvalidDeviceRole, fiber.StatusBadRequest, "invalid device role"},
	{services.ErrPairingRejected, fiber.StatusUnauthorized, "pairing rejected"},
	{services.ErrRecipeFetchFailed, fiber.StatusBadGateway, "unable to fetch recipe"},
}

var saveFailureMessages = []errorResponse{
	{target: services.ErrPlanSaveFailed, message: "unable to save plan"},
	{target: services.ErrSlotSaveFailed, message: "unable to save slot"},
	{target: services.ErrRecipeSaveFailed, message: "unable to save recipe"},
	{target: services.ErrHouseholdSaveFailed, message: "unable to save household"},
	{target: services.ErrDeviceSaveFailed, message: "unable to save device"},
}

// serviceError maps a service sentinel to its HTTP response. Anything
// unrecognised is logged and answered with a bare 500.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	for _, candidate := range saveFailureMessages {
		if errors.Is(err, candidate.target) {
			return saveFailed(c, candidate.message)
		}
	}
	for _, candidate := range serviceErrorResponses {
		if errors.Is(err, candidate.target) {
			return apiError(c, candidate.status, candidate.message)
		}
	}
	handler.logger.Error("unhandled service error",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return apiError(c, fiber.StatusInternalServerError, "internal error")
}

func (handler *Handler) requestLocation(c *fiber.Ctx) *time.Location {
	if location, ok := c.Locals(contextLocationKey).(*time.Location); ok && location != nil {
		return location
	}
	return handler.location
}

func (handler *Handler) publish(householdID uint, kind string, weekKey string) {
	if handler.hub == nil {
		return
	}
	handler.hub.Publish(householdID, kind, weekKey)
}
