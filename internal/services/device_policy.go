package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/mealweek/internal/models"
)

const (
	EditorTokenTTL  = 30 * 24 * time.Hour
	DisplayTokenTTL = 180 * 24 * time.Hour
)

func IsEditorDevice(device *models.Device) bool {
	return device != nil && device.Role == models.RoleEditor
}

func IsDisplayDevice(device *models.Device) bool {
	return device != nil && device.Role == models.RoleDisplay
}

// NormalizeDeviceRole accepts only the two known roles. There is no default:
// a client has to say what kind of surface it is.
func NormalizeDeviceRole(raw string) (string, error) {
	switch role := strings.ToLower(strings.TrimSpace(raw)); role {
	case models.RoleEditor, models.RoleDisplay:
		return role, nil
	default:
		return "", ErrInvalidDeviceRole
	}
}

func TokenTTLForRole(role string) time.Duration {
	if role == models.RoleEditor {
		return EditorTokenTTL
	}
	return DisplayTokenTTL
}

func defaultDeviceName(role string) string {
	if role == models.RoleEditor {
		return "Editor"
	}
	return "Kitchen display"
}
