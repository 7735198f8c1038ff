package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSecretKeyLength = 32

var (
	ErrSecretKeyMissing     = errors.New("SECRET_KEY is required")
	ErrSecretKeyPlaceholder = errors.New("SECRET_KEY uses an insecure placeholder")
	ErrSecretKeyTooShort    = fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretKeyLength)
	ErrInvalidScreenshotTab = errors.New("unknown screenshot tab")
	ErrInvalidPlanStatus    = errors.New("DEFAULT_PLAN_STATUS must be draft or active")
)

var insecureSecretPlaceholders = map[string]struct{}{
	"change_me_in_production": {},
	"changeme":                {},
	"change-me":               {},
	"secret":                  {},
	"replace_with_random_secret_key_at_least_32_chars": {},
}

// Tabs a client can be asked to open on launch.
var ScreenshotTabs = []string{"plan", "recipes", "today", "shopping"}

type Config struct {
	DBDriver          string
	DBPath            string
	DatabaseURL       string
	Port              string
	Timezone          string
	Location          *time.Location
	DemoDataEnabled   bool
	LogLevel          string
	DefaultPlanStatus string
}

type LaunchOptions struct {
	ScreenshotMode bool   `json:"screenshot_mode"`
	ScreenshotTab  string `json:"screenshot_tab,omitempty"`
}

// Load reads the optional env files, then the process environment. Variables
// already set in the environment win over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, path := range envFiles {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	timezone := GetEnv("TZ", "UTC")
	location, ok := LoadLocation(timezone)
	if !ok {
		timezone = "UTC"
	}

	status := strings.ToLower(GetEnv("DEFAULT_PLAN_STATUS", "draft"))
	if status != "draft" && status != "active" {
		return Config{}, ErrInvalidPlanStatus
	}

	return Config{
		DBDriver:          strings.ToLower(GetEnv("DB_DRIVER", "sqlite")),
		DBPath:            GetEnv("DB_PATH", filepath.Join("data", "mealweek.db")),
		DatabaseURL:       GetEnv("DATABASE_URL", ""),
		Port:              GetEnv("PORT", "8080"),
		Timezone:          timezone,
		Location:          location,
		DemoDataEnabled:   GetEnvBool("DEMO_DATA_ENABLED", false),
		LogLevel:          strings.ToLower(GetEnv("LOG_LEVEL", "info")),
		DefaultPlanStatus: status,
	}, nil
}

// ResolveSecretKey returns SECRET_KEY when it is long enough and not one of
// the placeholders that ship in sample configs.
func ResolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", ErrSecretKeyMissing
	}
	if _, insecure := insecureSecretPlaceholders[strings.ToLower(secret)]; insecure {
		return "", ErrSecretKeyPlaceholder
	}
	if len(secret) < minSecretKeyLength {
		return "", ErrSecretKeyTooShort
	}
	return secret, nil
}

func NewLaunchOptions(screenshotMode bool, tab string) (LaunchOptions, error) {
	tab = strings.ToLower(strings.TrimSpace(tab))
	if tab == "" {
		return LaunchOptions{ScreenshotMode: screenshotMode}, nil
	}
	for _, known := range ScreenshotTabs {
		if tab == known {
			return LaunchOptions{ScreenshotMode: screenshotMode, ScreenshotTab: tab}, nil
		}
	}
	return LaunchOptions{}, fmt.Errorf("%w %q (want one of %s)", ErrInvalidScreenshotTab, tab, strings.Join(ScreenshotTabs, ", "))
}

// LoadLocation reports false and returns UTC for an unknown zone name.
func LoadLocation(name string) (*time.Location, bool) {
	location, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, false
	}
	return location, true
}

func GetEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func GetEnvBool(key string, fallback bool) bool {
	value := GetEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
