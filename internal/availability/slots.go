package availability

import (
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/exclusion"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

// SkippedExclusion records an exclusion whose stored fields could not be
// resolved into an interval. One bad exclusion must not block the whole
// slot computation; callers log these and move on.
type SkippedExclusion struct {
	ID  string
	Err error
}

// SlotInput carries everything ComputeAvailableSlots needs. All times are
// UTC; CallerOffsetMinutes is used only to decide whether the requested date
// is "today" for the past-slot filter.
type SlotInput struct {
	Date                time.Time
	DurationMinutes     int
	StepMinutes         int
	Rules               [DaysPerWeek]timewindow.WeeklyRule
	Bookings            []timewindow.Interval
	Exclusions          []*exclusion.Exclusion
	Now                 time.Time
	CallerOffsetMinutes int
}

// ComputeAvailableSlots returns the start instants of every bookable slot on
// the given calendar day, ascending. Candidates step through the day's
// resolved weekly window and are rejected when the slot interval would
// overlap an existing booking or a resolved exclusion, or when it lies in
// the past on the caller's current day. The computation is deterministic:
// identical inputs always produce identical output.
func ComputeAvailableSlots(in SlotInput) ([]time.Time, []SkippedExclusion, error) {
	if in.DurationMinutes <= 0 {
		return nil, nil, ErrInvalidConfiguration
	}
	step := in.StepMinutes
	if step <= 0 {
		step = in.DurationMinutes
	}

	window, ok := timewindow.ResolveWeeklyWindow(in.Date, in.Rules[DayOfDate(in.Date)])
	if !ok {
		return nil, nil, nil
	}

	busy := make([]timewindow.Interval, 0, len(in.Bookings)+len(in.Exclusions))
	busy = append(busy, in.Bookings...)

	var skipped []SkippedExclusion
	for _, e := range in.Exclusions {
		iv, err := e.Interval()
		if err != nil {
			skipped = append(skipped, SkippedExclusion{ID: e.ID, Err: err})
			continue
		}
		busy = append(busy, iv)
	}

	duration := time.Duration(in.DurationMinutes) * time.Minute
	stepDur := time.Duration(step) * time.Minute
	cutoff := pastCutoff(in.Date, in.Now, in.CallerOffsetMinutes)

	var slots []time.Time
	for t := window.Start; !t.Add(duration).After(window.End); t = t.Add(stepDur) {
		if t.Before(cutoff) {
			continue
		}
		candidate := timewindow.Interval{Start: t, End: t.Add(duration)}
		if overlapsAny(candidate, busy) {
			continue
		}
		slots = append(slots, t)
	}
	return slots, skipped, nil
}

// pastCutoff returns the instant before which candidates are rejected.
// The caller's UTC offset decides whether the requested date is their
// current day; past days are fully cut off and future days not at all.
func pastCutoff(date, now time.Time, offsetMinutes int) time.Time {
	localNow := now.Add(time.Duration(offsetMinutes) * time.Minute)
	day := timewindow.DayBounds(date)
	localDay := timewindow.DayBounds(localNow)

	switch {
	case day.Start.Equal(localDay.Start):
		return now
	case day.Start.Before(localDay.Start):
		// The whole day is already behind the caller.
		return day.End.Add(24 * time.Hour)
	default:
		return time.Time{}
	}
}

func overlapsAny(candidate timewindow.Interval, busy []timewindow.Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// OverlayInput carries the inputs for the unavailability overlay.
type OverlayInput struct {
	From       time.Time
	To         time.Time
	Rules      [DaysPerWeek]timewindow.WeeklyRule
	Exclusions []*exclusion.Exclusion
	Bookings   []timewindow.Interval
	Now        time.Time
}

// ComputeUnavailableIntervals emits, for each day in [From, To], the portions
// of the day outside the resolved weekly window, every exclusion clipped to
// the day, every booking span, and (on the current day) midnight up to now.
// Output intervals may overlap; consumers treat them as an opaque overlay.
// The window and exclusion resolution is shared with ComputeAvailableSlots,
// so the overlay can never disagree with the slot list.
func ComputeUnavailableIntervals(in OverlayInput) ([]timewindow.Interval, []SkippedExclusion) {
	var out []timewindow.Interval
	var skipped []SkippedExclusion

	resolved := make([]timewindow.Interval, 0, len(in.Exclusions))
	for _, e := range in.Exclusions {
		iv, err := e.Interval()
		if err != nil {
			skipped = append(skipped, SkippedExclusion{ID: e.ID, Err: err})
			continue
		}
		resolved = append(resolved, iv)
	}

	today := timewindow.DayBounds(in.Now)

	for date := timewindow.DayBounds(in.From).Start; !date.After(in.To); date = date.AddDate(0, 0, 1) {
		day := timewindow.DayBounds(date)

		window, ok := timewindow.ResolveWeeklyWindow(date, in.Rules[DayOfDate(date)])
		if !ok {
			// Disabled day: the whole day is unavailable.
			out = append(out, day)
		} else {
			if window.Start.After(day.Start) {
				out = append(out, timewindow.Interval{Start: day.Start, End: window.Start})
			}
			if window.End.Before(day.End) {
				out = append(out, timewindow.Interval{Start: window.End, End: day.End})
			}
		}

		for _, iv := range resolved {
			if clipped, ok := iv.Clip(day); ok {
				out = append(out, clipped)
			}
		}

		if day.Start.Equal(today.Start) && in.Now.After(day.Start) {
			out = append(out, timewindow.Interval{Start: day.Start, End: in.Now})
		}
	}

	for _, b := range in.Bookings {
		if !b.IsZero() {
			out = append(out, b)
		}
	}

	return out, skipped
}
