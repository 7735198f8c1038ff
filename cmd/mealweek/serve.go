package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/mealweek/internal/api"
	"github.com/terraincognita07/mealweek/internal/changes"
	"github.com/terraincognita07/mealweek/internal/config"
	"github.com/terraincognita07/mealweek/internal/db"
	"github.com/terraincognita07/mealweek/internal/logging"
	"github.com/terraincognita07/mealweek/internal/seed"
	"go.uber.org/zap"
)

const (
	shutdownTimeout    = 10 * time.Second
	recipeFetchTimeout = 20 * time.Second
	requestBodyLimit   = 4 << 20
)

type serveOptions struct {
	screenshotMode bool
	screenshotTab  string
}

func newServeCommand(state *commandState) *cobra.Command {
	var options serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Starts the JSON API on PORT. Devices authenticate with bearer tokens
signed by SECRET_KEY, which must be set.

Screenshot mode loads the demo data and tells display clients which tab to
open first, for store screenshots and demos.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(state, options)
		},
	}
	cmd.Flags().BoolVar(&options.screenshotMode, "screenshot-mode", false, "Serve demo data for screenshots")
	cmd.Flags().StringVar(&options.screenshotTab, "screenshot-tab", "", "Tab display clients open first in screenshot mode")
	return cmd
}

func runServe(state *commandState, options serveOptions) error {
	launch, err := config.NewLaunchOptions(options.screenshotMode, options.screenshotTab)
	if err != nil {
		return err
	}
	secretKey, err := config.ResolveSecretKey()
	if err != nil {
		return err
	}

	cfg := state.config
	log := state.logger
	time.Local = cfg.Location

	database, err := db.Open(db.Options{
		Driver:      cfg.DBDriver,
		Path:        cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
		Log:         logging.GormWriter(log),
	})
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer sqlDB.Close()

	hub := changes.NewHub()
	defer hub.Close()

	handler, err := api.NewHandler(database, api.HandlerOptions{
		Secret:            secretKey,
		Location:          cfg.Location,
		DefaultPlanStatus: cfg.DefaultPlanStatus,
		Launch:            launch,
		Hub:               hub,
		Logger:            log.Named("api"),
		HTTPClient:        &http.Client{Timeout: recipeFetchTimeout},
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	if launch.ScreenshotMode || cfg.DemoDataEnabled {
		result, err := seed.NewSeeder(handler.Scheduler(), hub, log.Named("seed")).SeedDemo(seed.Options{})
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		log.Info("demo data ready",
			zap.Uint("household_id", result.HouseholdID),
			zap.Int("recipes_created", result.RecipesCreated),
			zap.Int("slots_created", result.SlotsCreated),
			zap.Strings("weeks", result.WeekKeys))
	}

	app := newServer(handler, log)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		// Open change streams only end when the hub closes.
		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warn("server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("mealweek listening",
		zap.String("addr", "http://0.0.0.0:"+cfg.Port),
		zap.String("db_driver", cfg.DBDriver),
		zap.String("db_path", cfg.DBPath),
		zap.String("tz", cfg.Location.String()),
		zap.Bool("screenshot_mode", launch.ScreenshotMode))
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newServer(handler *api.Handler, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "mealweek",
		DisableStartupMessage: true,
		BodyLimit:             requestBodyLimit,
		ErrorHandler:          jsonErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

// jsonErrorHandler keeps errors that escape a handler in the API's JSON
// shape.
func jsonErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "internal error"
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		} else {
			log.Error("unhandled request error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
}
