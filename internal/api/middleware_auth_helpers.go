package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

type deviceClaims struct {
	HouseholdID uint   `json:"hid"`
	DeviceID    uint   `json:"did"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// requestToken reads the Authorization header. EventSource clients cannot
// set headers, so the change stream also accepts ?access_token=.
func requestToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return "", errInvalidToken
		}
		return strings.TrimSpace(token), nil
	}
	if c.Path() == "/api/changes/stream" {
		if token := strings.TrimSpace(c.Query("access_token")); token != "" {
			return token, nil
		}
	}
	return "", errMissingToken
}

func (handler *Handler) parseDeviceToken(tokenValue string) (*deviceClaims, error) {
	claims := &deviceClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithTimeFunc(handler.now))
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(handler.now()) {
		return nil, errors.New("token expired")
	}
	if claims.HouseholdID == 0 || claims.DeviceID == 0 {
		return nil, errInvalidToken
	}
	return claims, nil
}

func (handler *Handler) shouldTouchDevice(lastSeen *time.Time) bool {
	return lastSeen == nil || handler.now().Sub(*lastSeen) >= deviceTouchInterval
}
