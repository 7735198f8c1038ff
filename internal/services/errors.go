package services

import "errors"

var (
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrPlanSaveFailed      = errors.New("save week plan failed")
	ErrSlotSaveFailed      = errors.New("save meal slot failed")
	ErrRecipeSaveFailed    = errors.New("save recipe failed")
	ErrHouseholdSaveFailed = errors.New("save household failed")
	ErrDeviceSaveFailed    = errors.New("save device failed")

	ErrPlanNotFound      = errors.New("week plan not found")
	ErrSlotNotFound      = errors.New("meal slot not found")
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrHouseholdNotFound = errors.New("household not found")
	ErrDeviceNotFound    = errors.New("device not found")

	ErrPlanArchived = errors.New("week plan is archived")

	ErrInvalidDay           = errors.New("invalid day of week")
	ErrInvalidMealType      = errors.New("invalid meal type")
	ErrInvalidServings      = errors.New("invalid servings")
	ErrInvalidPlanStatus    = errors.New("invalid plan status")
	ErrInvalidMealName      = errors.New("invalid meal name")
	ErrInvalidSlotNotes     = errors.New("invalid slot notes")
	ErrInvalidClientID      = errors.New("invalid client id")
	ErrInvalidRecipeTitle   = errors.New("invalid recipe title")
	ErrInvalidRecipeValues  = errors.New("invalid recipe values")
	ErrInvalidWeekKey       = errors.New("invalid week key")
	ErrInvalidPassphrase    = errors.New("invalid passphrase")
	ErrInvalidHouseholdName = errors.New("invalid household name")
	ErrInvalidTimezone      = errors.New("invalid timezone")
	ErrInvalidDeviceRole    = errors.New("invalid device role")
	ErrPairingRejected      = errors.New("pairing rejected")
	ErrRecipeFetchFailed    = errors.New("fetch recipe page failed")
)
