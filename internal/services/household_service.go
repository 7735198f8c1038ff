package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/mealweek/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const MaxDeviceNameLength = 60

type HouseholdRepository interface {
	Create(household *models.Household) error
	FindByID(householdID uint) (models.Household, bool, error)
	FindByName(name string) (models.Household, bool, error)
	List() ([]models.Household, error)
}

type DeviceRepository interface {
	Create(device *models.Device) error
	FindByIDForHousehold(deviceID uint, householdID uint) (models.Device, bool, error)
	TouchLastSeen(deviceID uint, seenAt time.Time) error
}

type HouseholdService struct {
	households      HouseholdRepository
	devices         DeviceRepository
	defaultTimezone string
	logger          *zap.Logger
	now             func() time.Time
}

func NewHouseholdService(households HouseholdRepository, devices DeviceRepository, defaultTimezone string, logger *zap.Logger) *HouseholdService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(defaultTimezone) == "" {
		defaultTimezone = "UTC"
	}
	return &HouseholdService{
		households:      households,
		devices:         devices,
		defaultTimezone: defaultTimezone,
		logger:          logger,
		now:             time.Now,
	}
}

func (service *HouseholdService) CreateHousehold(name string, passphrase string, timezone string) (models.Household, error) {
	normalizedName, err := NormalizeHouseholdName(name)
	if err != nil {
		return models.Household{}, err
	}
	if err := ValidatePassphrase(passphrase); err != nil {
		return models.Household{}, err
	}

	timezone = strings.TrimSpace(timezone)
	if timezone == "" {
		timezone = service.defaultTimezone
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return models.Household{}, fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return models.Household{}, fmt.Errorf("%w: %v", ErrHouseholdSaveFailed, err)
	}

	household := models.Household{
		Name:           normalizedName,
		PassphraseHash: string(hash),
		Timezone:       timezone,
		CreatedAt:      service.now().UTC(),
	}
	if err := service.households.Create(&household); err != nil {
		service.logger.Error("create household",
			zap.String("operation", "create_household"),
			zap.String("name", normalizedName),
			zap.Error(err),
		)
		return models.Household{}, fmt.Errorf("%w: %v", ErrHouseholdSaveFailed, err)
	}
	return household, nil
}

func (service *HouseholdService) FindHousehold(householdID uint) (models.Household, error) {
	household, found, err := service.households.FindByID(householdID)
	if err != nil {
		return models.Household{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		return models.Household{}, ErrHouseholdNotFound
	}
	return household, nil
}

func (service *HouseholdService) FindHouseholdByName(name string) (models.Household, bool, error) {
	household, found, err := service.households.FindByName(name)
	if err != nil {
		return models.Household{}, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return household, found, nil
}

func (service *HouseholdService) ListHouseholds() ([]models.Household, error) {
	households, err := service.households.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return households, nil
}

// HouseholdLocation falls back to the service default for an unknown zone.
func (service *HouseholdService) HouseholdLocation(household models.Household) *time.Location {
	if location, err := time.LoadLocation(household.Timezone); err == nil {
		return location
	}
	if location, err := time.LoadLocation(service.defaultTimezone); err == nil {
		return location
	}
	return time.UTC
}

// PairDevice registers a new client surface after checking the household
// passphrase. Every failure to match is reported as ErrPairingRejected so the
// response does not say whether the household exists.
func (service *HouseholdService) PairDevice(householdID uint, passphrase string, name string, role string) (models.Device, error) {
	normalizedRole, err := NormalizeDeviceRole(role)
	if err != nil {
		return models.Device{}, err
	}

	household, found, err := service.households.FindByID(householdID)
	if err != nil {
		return models.Device{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		return models.Device{}, ErrPairingRejected
	}
	if bcrypt.CompareHashAndPassword([]byte(household.PassphraseHash), []byte(passphrase)) != nil {
		return models.Device{}, ErrPairingRejected
	}
	return service.RegisterDevice(household.ID, name, normalizedRole)
}

// RegisterDevice adds a device without a passphrase check. It is for callers
// that already proved access, such as household creation or the local CLI.
func (service *HouseholdService) RegisterDevice(householdID uint, name string, role string) (models.Device, error) {
	normalizedRole, err := NormalizeDeviceRole(role)
	if err != nil {
		return models.Device{}, err
	}

	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		name = defaultDeviceName(normalizedRole)
	}
	if utf8.RuneCountInString(name) > MaxDeviceNameLength {
		name = string([]rune(name)[:MaxDeviceNameLength])
	}

	device := models.Device{
		HouseholdID: householdID,
		Name:        name,
		Role:        normalizedRole,
		CreatedAt:   service.now().UTC(),
	}
	if err := service.devices.Create(&device); err != nil {
		service.logger.Error("create device",
			zap.String("operation", "register_device"),
			zap.Uint("household_id", householdID),
			zap.String("role", normalizedRole),
			zap.Error(err),
		)
		return models.Device{}, fmt.Errorf("%w: %v", ErrDeviceSaveFailed, err)
	}
	return device, nil
}

func (service *HouseholdService) FindDevice(householdID uint, deviceID uint) (models.Device, error) {
	device, found, err := service.devices.FindByIDForHousehold(deviceID, householdID)
	if err != nil {
		return models.Device{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !found {
		return models.Device{}, ErrDeviceNotFound
	}
	return device, nil
}

// TouchDevice records activity. Failures only cost freshness of LastSeenAt and
// are logged, not returned.
func (service *HouseholdService) TouchDevice(device models.Device) {
	if err := service.devices.TouchLastSeen(device.ID, service.now().UTC()); err != nil {
		service.logger.Warn("touch device",
			zap.Uint("household_id", device.HouseholdID),
			zap.Uint("device_id", device.ID),
			zap.Error(err),
		)
	}
}
