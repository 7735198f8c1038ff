package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/terraincognita07/mealweek/internal/config"
	"github.com/terraincognita07/mealweek/internal/db"
	"github.com/terraincognita07/mealweek/internal/logging"
	"github.com/terraincognita07/mealweek/internal/services"
	"go.uber.org/zap"
)

const recipeFetchTimeout = 20 * time.Second

// Runtime is what every command needs from the process: configuration, a
// logger and the terminal.
type Runtime struct {
	Config config.Config
	Logger *zap.Logger
	Stdin  *os.File
	Out    io.Writer
	Now    func() time.Time
}

func (runtime Runtime) logger() *zap.Logger {
	if runtime.Logger == nil {
		return zap.NewNop()
	}
	return runtime.Logger
}

func (runtime Runtime) out() io.Writer {
	if runtime.Out == nil {
		return os.Stdout
	}
	return runtime.Out
}

func (runtime Runtime) now() time.Time {
	if runtime.Now == nil {
		return time.Now()
	}
	return runtime.Now()
}

// openScheduler opens the configured store. The returned close func releases
// the connection pool.
func (runtime Runtime) openScheduler() (*services.Scheduler, func(), error) {
	logger := runtime.logger()
	database, err := db.Open(db.Options{
		Driver:      runtime.Config.DBDriver,
		Path:        runtime.Config.DBPath,
		DatabaseURL: runtime.Config.DatabaseURL,
		Log:         logging.GormWriter(logger),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}

	scheduler := services.NewScheduler(db.NewRepositories(database), services.SchedulerOptions{
		DefaultPlanStatus: runtime.Config.DefaultPlanStatus,
		DefaultTimezone:   runtime.Config.Timezone,
		HTTPClient:        &http.Client{Timeout: recipeFetchTimeout},
		Logger:            logger,
	})
	return scheduler, func() { _ = sqlDB.Close() }, nil
}
