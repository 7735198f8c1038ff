package api

import (
	"github.com/terraincognita07/mealweek/internal/db"
	"github.com/terraincognita07/mealweek/internal/services"
	"gorm.io/gorm"
)

func (handler *Handler) withDependencies(database *gorm.DB, options HandlerOptions) *Handler {
	handler.scheduler = services.NewScheduler(db.NewRepositories(database), services.SchedulerOptions{
		DefaultPlanStatus: options.DefaultPlanStatus,
		DefaultTimezone:   handler.location.String(),
		HTTPClient:        options.HTTPClient,
		Logger:            handler.logger,
	})
	return handler
}

// Scheduler exposes the services the handler runs on, so startup tasks such
// as demo seeding share the same store.
func (handler *Handler) Scheduler() *services.Scheduler {
	return handler.scheduler
}
