package api

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/mealweek/internal/models"
	"github.com/terraincognita07/mealweek/internal/services"
)

type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (handler *Handler) buildDeviceToken(device models.Device) (IssuedToken, error) {
	return BuildDeviceToken(handler.secretKey, device, handler.now())
}

// BuildDeviceToken signs an HS256 token for device. The CLI pairs devices
// offline with the same secret the server verifies against.
func BuildDeviceToken(secret []byte, device models.Device, now time.Time) (IssuedToken, error) {
	expiresAt := now.Add(services.TokenTTLForRole(device.Role))
	claims := deviceClaims{
		HouseholdID: device.HouseholdID,
		DeviceID:    device.ID,
		Role:        device.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(device.ID), 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return IssuedToken{}, err
	}
	return IssuedToken{Token: signed, ExpiresAt: expiresAt.UTC()}, nil
}
