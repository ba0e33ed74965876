package availability

import (
	"net/http"
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/pkg/apperror"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

var (
	ErrInvalidConfiguration = apperror.New(http.StatusBadRequest, "invalid availability configuration")
	ErrInvalidDay           = apperror.New(http.StatusBadRequest, "day of week must be between 0 (Monday) and 6 (Sunday)")
)

// DaysPerWeek is the number of weekly availability records, one per weekday.
const DaysPerWeek = 7

// DayOfWeek indexes weekdays Monday-first: 0=Monday ... 6=Sunday.
type DayOfWeek int

// DayOfDate returns the Monday-first weekday index of a UTC date.
func DayOfDate(date time.Time) DayOfWeek {
	return DayOfWeek((int(date.UTC().Weekday()) + 6) % 7)
}

// Valid reports whether d is a real weekday index.
func (d DayOfWeek) Valid() bool {
	return d >= 0 && d < DaysPerWeek
}

var dayNames = [DaysPerWeek]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return "invalid"
	}
	return dayNames[d]
}

// WeeklyAvailability is one weekday's recurring window, anchored in UTC
// wall-clock minutes. Records are only ever updated or disabled, never
// deleted. An end before or equal to the start means the window crosses
// midnight into the following day.
type WeeklyAvailability struct {
	DayOfWeek   DayOfWeek
	StartMinute timewindow.Minute
	EndMinute   timewindow.Minute
	Enabled     bool
	UpdatedAt   time.Time
}

// Rule converts the record into the timewindow form used by the resolver.
func (w *WeeklyAvailability) Rule() timewindow.WeeklyRule {
	return timewindow.WeeklyRule{
		StartMinute: w.StartMinute,
		EndMinute:   w.EndMinute,
		Enabled:     w.Enabled,
	}
}

// Week is a full Monday-first set of weekly availability records.
type Week [DaysPerWeek]WeeklyAvailability

// Rules returns the week as resolver rules.
func (w Week) Rules() [DaysPerWeek]timewindow.WeeklyRule {
	var rules [DaysPerWeek]timewindow.WeeklyRule
	for i, rec := range w {
		rules[i] = rec.Rule()
	}
	return rules
}
