package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/mealweek/internal/models"
)

const WeekKeyLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// NormalizeToWeekStart returns midnight of the Monday that opens the ISO week
// containing value, as observed in location. The Monday is rebuilt with
// calendar arithmetic so days that are 23 or 25 hours long still land on
// midnight.
func NormalizeToWeekStart(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	isoYear, isoWeek := localized.ISOWeek()

	// January 4th is always inside ISO week 1.
	anchor := time.Date(isoYear, time.January, 4, 0, 0, 0, 0, location)
	anchorOffset := models.DayOfWeekFromWeekday(anchor.Weekday()).Offset()
	return time.Date(isoYear, time.January, 4-anchorOffset+(isoWeek-1)*7, 0, 0, 0, 0, location)
}

// WeekRange returns [monday, next monday).
func WeekRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := NormalizeToWeekStart(value, location)
	year, month, day := start.Date()
	return start, time.Date(year, month, day+7, 0, 0, 0, 0, start.Location())
}

func WeekKey(value time.Time, location *time.Location) string {
	return NormalizeToWeekStart(value, location).Format(WeekKeyLayout)
}

// ParseWeekKey accepts any YYYY-MM-DD date and returns the start of its week.
func ParseWeekKey(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	parsed, err := time.ParseInLocation(WeekKeyLayout, strings.TrimSpace(raw), location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidWeekKey, err)
	}
	return NormalizeToWeekStart(parsed, location), nil
}

func ISOWeekLabel(value time.Time, location *time.Location) string {
	if location == nil {
		location = time.UTC
	}
	year, week := value.In(location).ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// DateForDay returns midnight of day within the week that starts at weekStart.
func DateForDay(weekStart time.Time, day models.DayOfWeek) time.Time {
	year, month, date := weekStart.Date()
	return time.Date(year, month, date+day.Offset(), 0, 0, 0, 0, weekStart.Location())
}

// IsToday reports whether day names the weekday of now in location.
func IsToday(day models.DayOfWeek, now time.Time, location *time.Location) bool {
	if location == nil {
		location = time.UTC
	}
	return models.DayOfWeekFromWeekday(now.In(location).Weekday()) == day
}

func Today(now time.Time, location *time.Location) models.DayOfWeek {
	if location == nil {
		location = time.UTC
	}
	return models.DayOfWeekFromWeekday(now.In(location).Weekday())
}
