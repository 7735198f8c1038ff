package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/changes"
	"github.com/terraincognita07/mealweek/internal/config"
	"github.com/terraincognita07/mealweek/internal/db"
	"github.com/terraincognita07/mealweek/internal/models"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// Wednesday of the 2025-01-20 week.
var testNow = time.Date(2025, 1, 22, 12, 0, 0, 0, time.UTC)

type testApp struct {
	app      *fiber.App
	handler  *Handler
	database *gorm.DB
	hub      *changes.Hub
}

func newTestApp(t *testing.T) testApp {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "mealweek-api-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	hub := changes.NewHub()
	t.Cleanup(hub.Close)

	handler, err := NewHandler(database, HandlerOptions{
		Secret:            testSecret,
		Location:          time.UTC,
		DefaultPlanStatus: models.PlanStatusDraft,
		Launch:            config.LaunchOptions{ScreenshotMode: true, ScreenshotTab: "today"},
		Hub:               hub,
	})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.now = func() time.Time { return testNow }

	app := fiber.New()
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return testApp{app: app, handler: handler, database: database, hub: hub}
}

type householdTokens struct {
	householdID uint
	editor      string
	display     string
}

const testPassphrase = "correct horse battery"

func createHouseholdWithDevices(t *testing.T, env testApp) householdTokens {
	t.Helper()

	created := struct {
		Household models.Household `json:"household"`
		Token     string           `json:"token"`
	}{}
	response := doJSON(t, env.app, http.MethodPost, "/api/households", "", map[string]any{
		"name":        "Test Kitchen",
		"passphrase":  testPassphrase,
		"timezone":    "UTC",
		"device_name": "Phone",
	})
	requireStatus(t, response, http.StatusCreated)
	decodeBody(t, response, &created)

	paired := struct {
		Token string `json:"token"`
	}{}
	response = doJSON(t, env.app, http.MethodPost, "/api/devices/pair", "", map[string]any{
		"household_id": created.Household.ID,
		"passphrase":   testPassphrase,
		"name":         "Kitchen TV",
		"role":         models.RoleDisplay,
	})
	requireStatus(t, response, http.StatusCreated)
	decodeBody(t, response, &paired)

	return householdTokens{householdID: created.Household.ID, editor: created.Token, display: paired.Token}
}

func doJSON(t *testing.T, app *fiber.App, method string, path string, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s request failed: %v", method, path, err)
	}
	t.Cleanup(func() {
		_ = response.Body.Close()
	})
	return response
}

func requireStatus(t *testing.T, response *http.Response, want int) {
	t.Helper()
	if response.StatusCode != want {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("expected status %d, got %d: %s", want, response.StatusCode, string(body))
	}
}

func decodeBody(t *testing.T, response *http.Response, target any) {
	t.Helper()
	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}

func readAPIError(t *testing.T, response *http.Response) string {
	t.Helper()

	payload := map[string]any{}
	decodeBody(t, response, &payload)
	message, _ := payload["error"].(string)
	return message
}

func envDevice(t *testing.T, env testApp, token string) models.Device {
	t.Helper()
	claims, err := env.handler.parseDeviceToken(token)
	if err != nil {
		t.Fatalf("parse device token: %v", err)
	}
	device, err := env.handler.scheduler.Households.FindDevice(claims.HouseholdID, claims.DeviceID)
	if err != nil {
		t.Fatalf("FindDevice() unexpected error: %v", err)
	}
	return device
}
