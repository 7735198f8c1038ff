package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/terraincognita07/mealweek/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver      string
	Path        string
	DatabaseURL string
	// Log receives gorm's warnings and slow query reports. Nil writes to stdout.
	Log *log.Logger
}

func Open(options Options) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(options.Driver)) {
	case "", DriverSQLite:
		return openSQLite(options.Path, options.Log)
	case DriverPostgres:
		return openPostgres(options.DatabaseURL, options.Log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", options.Driver)
	}
}

// OpenSQLite opens the database file at dbPath and applies embedded migrations.
func OpenSQLite(dbPath string) (*gorm.DB, error) {
	return openSQLite(dbPath, nil)
}

func openSQLite(dbPath string, writer *log.Logger) (*gorm.DB, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	database, err := gorm.Open(sqlite.Open(dsn), gormConfig(writer))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyEmbeddedMigrations(database); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}
	return database, nil
}

// The embedded migrations are written for SQLite; Postgres schemas are derived
// from the model tags instead.
func openPostgres(databaseURL string, writer *log.Logger) (*gorm.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres driver")
	}
	database, err := gorm.Open(postgres.Open(databaseURL), gormConfig(writer))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := database.AutoMigrate(
		&models.Household{},
		&models.Device{},
		&models.Recipe{},
		&models.WeekPlan{},
		&models.MealSlot{},
		&models.SlotRecipe{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return database, nil
}

func gormConfig(writer *log.Logger) *gorm.Config {
	if writer == nil {
		writer = log.New(os.Stdout, "\r\n", log.LstdFlags)
	}
	return &gorm.Config{
		Logger: gormlogger.New(
			writer,
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}
