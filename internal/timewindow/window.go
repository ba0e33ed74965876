// Package timewindow converts stored UTC wall-clock day/time fields into
// concrete UTC instant intervals. It is the single home of the interval
// arithmetic shared by the slot resolver and the unavailability overlay.
package timewindow

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MinutesPerDay is the number of minutes in a calendar day.
	MinutesPerDay = 24 * 60
)

var (
	ErrInvalidMinute    = errors.New("minute of day must be in [0, 1440)")
	ErrInvalidExclusion = errors.New("invalid exclusion time range")
)

// Minute is a time of day expressed as minutes since midnight UTC.
type Minute int

// ParseMinute parses an "HH:MM" string into a Minute.
func ParseMinute(s string) (Minute, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	v := Minute(h*60 + m)
	if !v.Valid() {
		return 0, ErrInvalidMinute
	}
	return v, nil
}

// Valid reports whether m falls within a single day.
func (m Minute) Valid() bool {
	return m >= 0 && m < MinutesPerDay
}

// String formats m as "HH:MM".
func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Interval is a half-open [Start, End) range of UTC instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
// An interval ending exactly where another starts does not overlap it.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Contains reports whether t falls inside the interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// IsZero reports whether the interval is empty or inverted.
func (iv Interval) IsZero() bool {
	return !iv.End.After(iv.Start)
}

// Clip returns the portion of iv inside bounds. The second return value is
// false when nothing remains.
func (iv Interval) Clip(bounds Interval) (Interval, bool) {
	out := iv
	if out.Start.Before(bounds.Start) {
		out.Start = bounds.Start
	}
	if out.End.After(bounds.End) {
		out.End = bounds.End
	}
	if out.IsZero() {
		return Interval{}, false
	}
	return out, true
}

// DayBounds returns the [midnight, next midnight) interval of the UTC
// calendar day containing date.
func DayBounds(date time.Time) Interval {
	y, m, d := date.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// WeeklyRule is one weekday's availability window in UTC wall-clock minutes.
// An end before or equal to the start means the window wraps past midnight
// into the following day.
type WeeklyRule struct {
	StartMinute Minute
	EndMinute   Minute
	Enabled     bool
}

// ResolveWeeklyWindow combines a UTC calendar date with a weekly rule and
// returns the concrete [windowStart, windowEnd) interval for that day.
// The second return value is false when the day is disabled.
func ResolveWeeklyWindow(date time.Time, rule WeeklyRule) (Interval, bool) {
	if !rule.Enabled {
		return Interval{}, false
	}
	day := DayBounds(date)
	start := day.Start.Add(time.Duration(rule.StartMinute) * time.Minute)
	end := day.Start.Add(time.Duration(rule.EndMinute) * time.Minute)
	if !end.After(start) {
		end = end.Add(24 * time.Hour)
	}
	return Interval{Start: start, End: end}, true
}

// ResolveExclusionInterval combines exclusion wall-clock components into a
// concrete interval. A nil endDate means single-day; a nil startMinute means
// from midnight; a nil endMinute means to the end of the last day. The result
// may span multiple calendar days; callers clip it to the day of interest.
func ResolveExclusionInterval(startDate time.Time, endDate *time.Time, startMinute, endMinute *Minute) (Interval, error) {
	lowerDay := DayBounds(startDate).Start
	upperDay := lowerDay
	if endDate != nil {
		upperDay = DayBounds(*endDate).Start
		if upperDay.Before(lowerDay) {
			return Interval{}, fmt.Errorf("%w: end date before start date", ErrInvalidExclusion)
		}
	}

	start := lowerDay
	if startMinute != nil {
		if !startMinute.Valid() {
			return Interval{}, fmt.Errorf("%w: %v", ErrInvalidExclusion, ErrInvalidMinute)
		}
		start = lowerDay.Add(time.Duration(*startMinute) * time.Minute)
	}

	end := upperDay.AddDate(0, 0, 1) // default: end of the last day
	if endMinute != nil {
		if !endMinute.Valid() {
			return Interval{}, fmt.Errorf("%w: %v", ErrInvalidExclusion, ErrInvalidMinute)
		}
		end = upperDay.Add(time.Duration(*endMinute) * time.Minute)
	}

	if !end.After(start) {
		return Interval{}, fmt.Errorf("%w: end not after start", ErrInvalidExclusion)
	}
	return Interval{Start: start, End: end}, nil
}
