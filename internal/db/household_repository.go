package db

import (
	"time"

	"github.com/terraincognita07/mealweek/internal/models"
	"gorm.io/gorm"
)

type HouseholdRepository struct {
	database *gorm.DB
}

func NewHouseholdRepository(database *gorm.DB) *HouseholdRepository {
	return &HouseholdRepository{database: database}
}

func (repo *HouseholdRepository) Create(household *models.Household) error {
	return repo.database.Create(household).Error
}

func (repo *HouseholdRepository) FindByID(householdID uint) (models.Household, bool, error) {
	household := models.Household{}
	result := repo.database.Where("id = ?", householdID).Limit(1).Find(&household)
	if result.Error != nil {
		return models.Household{}, false, result.Error
	}
	return household, result.RowsAffected > 0, nil
}

func (repo *HouseholdRepository) FindByName(name string) (models.Household, bool, error) {
	household := models.Household{}
	result := repo.database.
		Where("lower(trim(name)) = lower(trim(?))", name).
		Order("id ASC").
		Limit(1).
		Find(&household)
	if result.Error != nil {
		return models.Household{}, false, result.Error
	}
	return household, result.RowsAffected > 0, nil
}

func (repo *HouseholdRepository) List() ([]models.Household, error) {
	households := make([]models.Household, 0)
	if err := repo.database.Order("id ASC").Find(&households).Error; err != nil {
		return nil, err
	}
	return households, nil
}

type DeviceRepository struct {
	database *gorm.DB
}

func NewDeviceRepository(database *gorm.DB) *DeviceRepository {
	return &DeviceRepository{database: database}
}

func (repo *DeviceRepository) Create(device *models.Device) error {
	return repo.database.Create(device).Error
}

func (repo *DeviceRepository) FindByIDForHousehold(deviceID uint, householdID uint) (models.Device, bool, error) {
	device := models.Device{}
	result := repo.database.
		Where("id = ? AND household_id = ?", deviceID, householdID).
		Limit(1).
		Find(&device)
	if result.Error != nil {
		return models.Device{}, false, result.Error
	}
	return device, result.RowsAffected > 0, nil
}

func (repo *DeviceRepository) TouchLastSeen(deviceID uint, seenAt time.Time) error {
	return repo.database.Model(&models.Device{}).Where("id = ?", deviceID).Update("last_seen_at", seenAt).Error
}
