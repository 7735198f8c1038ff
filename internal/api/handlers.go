package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/terraincognita07/mealweek/internal/changes"
	"github.com/terraincognita07/mealweek/internal/config"
	"github.com/terraincognita07/mealweek/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	deviceTouchInterval  = 5 * time.Minute
	streamHeartbeat      = 25 * time.Second
	recipeFetchTimeout   = 20 * time.Second
	maxImportBodyBytes   = 2 << 20
	minSigningSecretSize = 16
)

type Handler struct {
	scheduler      *services.Scheduler
	hub            *changes.Hub
	secretKey      []byte
	location       *time.Location
	launch         config.LaunchOptions
	logger         *zap.Logger
	pairingLimiter *attemptLimiter
	now            func() time.Time
}

type HandlerOptions struct {
	Secret            string
	Location          *time.Location
	DefaultPlanStatus string
	Launch            config.LaunchOptions
	Hub               *changes.Hub
	Logger            *zap.Logger
	// HTTPClient fetches recipe pages for URL imports.
	HTTPClient *http.Client
}

func NewHandler(database *gorm.DB, options HandlerOptions) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(options.Secret) < minSigningSecretSize {
		return nil, errors.New("signing secret is too short")
	}
	if options.Location == nil {
		options.Location = time.UTC
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.Hub == nil {
		options.Hub = changes.NewHub()
	}
	if options.HTTPClient == nil {
		options.HTTPClient = &http.Client{Timeout: recipeFetchTimeout}
	}

	handler := &Handler{
		hub:            options.Hub,
		secretKey:      []byte(options.Secret),
		location:       options.Location,
		launch:         options.Launch,
		logger:         options.Logger,
		pairingLimiter: newAttemptLimiter(),
		now:            time.Now,
	}
	return handler.withDependencies(database, options), nil
}
