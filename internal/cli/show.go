package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/terraincognita07/mealweek/internal/models"
	"github.com/terraincognita07/mealweek/internal/services"
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	dayHeaderStyle  = lipgloss.NewStyle().Bold(true)
	todayStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	mealLabelStyle  = lipgloss.NewStyle().Width(11).Foreground(lipgloss.Color("244"))
	mutedStyle      = lipgloss.NewStyle().Faint(true).Italic(true)
	boardFrameStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type ShowOptions struct {
	HouseholdID uint
	// Date is YYYY-MM-DD or "today"; any day of the wanted week works.
	Date string
}

// RunShowCommand prints the week board. It only reads; no plan is created for
// an empty week.
func RunShowCommand(runtime Runtime, options ShowOptions) error {
	scheduler, closeStore, err := runtime.openScheduler()
	if err != nil {
		return err
	}
	defer closeStore()

	household, err := resolveHousehold(scheduler, options.HouseholdID)
	if err != nil {
		return err
	}
	location := scheduler.Households.HouseholdLocation(household)
	now := runtime.now()

	referenceDate := services.DateAtLocation(now, location)
	if date := strings.TrimSpace(options.Date); date != "" && !strings.EqualFold(date, "today") {
		referenceDate, err = time.ParseInLocation(services.WeekKeyLayout, date, location)
		if err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", options.Date)
		}
	}

	plan, found, err := scheduler.Plans.LoadPlan(household.ID, referenceDate, location)
	if err != nil {
		return fmt.Errorf("unable to load week: %w", err)
	}
	var (
		planRef *models.WeekPlan
		recipes map[uint]models.Recipe
	)
	if found {
		recipes, err = scheduler.Slots.RecipesForPlan(plan)
		if err != nil {
			return fmt.Errorf("unable to load recipes: %w", err)
		}
		planRef = &plan
	}

	board := services.BuildWeekBoard(referenceDate, planRef, recipes, now, location)
	fmt.Fprintln(runtime.out(), RenderBoard(household.Name, board))
	return nil
}

func resolveHousehold(scheduler *services.Scheduler, householdID uint) (models.Household, error) {
	if householdID != 0 {
		household, err := scheduler.Households.FindHousehold(householdID)
		if err != nil {
			return models.Household{}, fmt.Errorf("load household %d: %w", householdID, err)
		}
		return household, nil
	}

	households, err := scheduler.Households.ListHouseholds()
	if err != nil {
		return models.Household{}, fmt.Errorf("list households: %w", err)
	}
	switch len(households) {
	case 0:
		return models.Household{}, errors.New("no households yet; run `mealweek household create` or `mealweek seed`")
	case 1:
		return households[0], nil
	default:
		return models.Household{}, errors.New("several households exist; pass --household")
	}
}

// RenderBoard lays the week out Monday first, one block per day.
func RenderBoard(householdName string, board services.WeekBoard) string {
	title := fmt.Sprintf("%s  %s  (week of %s)", householdName, board.ISOWeek, board.WeekKey)
	if board.Status != "" {
		title += "  [" + board.Status + "]"
	}

	var body strings.Builder
	if board.State == services.BoardStateEmpty {
		body.WriteString(mutedStyle.Render("Nothing planned this week."))
		body.WriteString("\n")
	}
	for _, day := range board.Days {
		header := fmt.Sprintf("%s %s", day.ShortName, day.Date)
		if day.IsToday {
			body.WriteString(todayStyle.Render(header + "  today"))
		} else {
			body.WriteString(dayHeaderStyle.Render(header))
		}
		body.WriteString("\n")

		if len(day.Slots) == 0 {
			body.WriteString("  " + mutedStyle.Render("-") + "\n")
			continue
		}
		for _, slot := range day.Slots {
			line := fmt.Sprintf("%s (%d)", slot.DisplayName, slot.ServingsPlanned)
			if slot.Notes != "" {
				line += "  " + mutedStyle.Render(slot.Notes)
			}
			body.WriteString("  " + mealLabelStyle.Render(slot.MealLabel) + line + "\n")
		}
	}

	return boardFrameStyle.Render(boardTitleStyle.Render(title) + "\n" + strings.TrimRight(body.String(), "\n"))
}
