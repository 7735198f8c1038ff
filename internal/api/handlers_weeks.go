package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/mealweek/internal/changes"
	"github.com/terraincognita07/mealweek/internal/models"
	"github.com/terraincognita07/mealweek/internal/services"
)

type weekRead struct {
	referenceDate time.Time
	location      *time.Location
	plan          *models.WeekPlan
	recipes       map[uint]models.Recipe
}

func (read weekRead) board(now time.Time) services.WeekBoard {
	return services.BuildWeekBoard(read.referenceDate, read.plan, read.recipes, now, read.location)
}

// readWeek loads the week named by the :date param. A week without a plan is
// not an error; read.plan is nil.
func (handler *Handler) readWeek(c *fiber.Ctx, householdID uint) (weekRead, error) {
	location := handler.requestLocation(c)
	referenceDate, err := parseDateParam(c.Params("date"), handler.now(), location)
	if err != nil {
		return weekRead{}, services.ErrInvalidWeekKey
	}

	read := weekRead{referenceDate: referenceDate, location: location}
	plan, found, err := handler.scheduler.Plans.LoadPlan(householdID, referenceDate, location)
	if err != nil {
		return weekRead{}, err
	}
	if !found {
		return read, nil
	}
	recipes, err := handler.scheduler.Slots.RecipesForPlan(plan)
	if err != nil {
		return weekRead{}, err
	}
	read.plan = &plan
	read.recipes = recipes
	return read, nil
}

func (handler *Handler) GetWeek(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	read, err := handler.readWeek(c, household.ID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(read.board(handler.now()))
}

func (handler *Handler) GetWeekDay(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, err := models.ParseDayOfWeek(c.Params("day"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid day")
	}
	read, err := handler.readWeek(c, household.ID)
	if err != nil {
		return handler.serviceError(c, err)
	}

	board := read.board(handler.now())
	return c.JSON(fiber.Map{
		"state":    board.State,
		"week_key": board.WeekKey,
		"day":      board.Days[day.Offset()],
	})
}

func (handler *Handler) GetWeekNutrition(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	read, err := handler.readWeek(c, household.ID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	weekKey := services.WeekKey(read.referenceDate, read.location)
	return c.JSON(services.NutritionForPlan(weekKey, read.plan, read.recipes))
}

// Today always uses the household clock; it is what the kitchen display
// polls.
func (handler *Handler) Today(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	location := handler.requestLocation(c)
	now := handler.now()
	today := services.DateAtLocation(now, location)

	plan, found, err := handler.scheduler.Plans.LoadPlan(household.ID, today, location)
	if err != nil {
		return handler.serviceError(c, err)
	}
	state := services.BoardStateEmpty
	slots := []services.SlotView{}
	if found {
		recipes, err := handler.scheduler.Slots.RecipesForPlan(plan)
		if err != nil {
			return handler.serviceError(c, err)
		}
		for _, slot := range services.SlotsForDay(plan, services.Today(now, location)) {
			slots = append(slots, services.BuildSlotView(slot, recipes))
		}
		if len(slots) > 0 {
			state = services.BoardStateReady
		}
	}

	return c.JSON(fiber.Map{
		"date":     today.Format(services.WeekKeyLayout),
		"day":      services.Today(now, location),
		"week_key": services.WeekKey(today, location),
		"iso_week": services.ISOWeekLabel(today, location),
		"state":    state,
		"slots":    slots,
	})
}

func (handler *Handler) ListPlans(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	plans, err := handler.scheduler.Plans.ListPlans(household.ID, parseBoolQuery(c, "archived"))
	if err != nil {
		return handler.serviceError(c, err)
	}

	summaries := make([]fiber.Map, 0, len(plans))
	for _, plan := range plans {
		summaries = append(summaries, fiber.Map{
			"id":         plan.ID,
			"week_key":   plan.WeekStartKey,
			"status":     plan.Status,
			"slot_count": len(plan.Slots),
		})
	}
	return c.JSON(fiber.Map{"plans": summaries})
}

func (handler *Handler) EnsureWeek(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := planStatusInput{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid payload")
		}
	}

	location := handler.requestLocation(c)
	referenceDate, err := parseDateParam(c.Params("date"), handler.now(), location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	plan, err := handler.scheduler.Plans.FindOrCreatePlan(household.ID, referenceDate, location, input.Status)
	if err != nil {
		return handler.serviceError(c, err)
	}
	recipes, err := handler.scheduler.Slots.RecipesForPlan(plan)
	if err != nil {
		return handler.serviceError(c, err)
	}

	handler.publish(household.ID, changes.KindPlan, plan.WeekStartKey)
	return c.JSON(services.BuildWeekBoard(referenceDate, &plan, recipes, handler.now(), location))
}

func (handler *Handler) SetWeekStatus(c *fiber.Ctx) error {
	household, ok := currentHousehold(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	input := planStatusInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	read, err := handler.readWeek(c, household.ID)
	if err != nil {
		return handler.serviceError(c, err)
	}
	if read.plan == nil {
		return handler.serviceError(c, services.ErrPlanNotFound)
	}
	if err := handler.scheduler.Plans.SetPlanStatus(read.plan, input.Status); err != nil {
		return handler.serviceError(c, err)
	}

	handler.publish(household.ID, changes.KindPlan, read.plan.WeekStartKey)
	return c.JSON(read.board(handler.now()))
}
