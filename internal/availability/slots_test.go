package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/myronlou/calendar-booking-backend/internal/exclusion"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

// monday is 2026-03-02, a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func minutePtr(m timewindow.Minute) *timewindow.Minute { return &m }

func businessHours() [DaysPerWeek]timewindow.WeeklyRule {
	var rules [DaysPerWeek]timewindow.WeeklyRule
	for i := 0; i < 5; i++ {
		rules[i] = timewindow.WeeklyRule{StartMinute: 540, EndMinute: 1020, Enabled: true} // 09:00-17:00
	}
	return rules
}

func slotAt(t *testing.T, slots []time.Time, want time.Time) bool {
	t.Helper()
	for _, s := range slots {
		if s.Equal(want) {
			return true
		}
	}
	return false
}

func TestComputeAvailableSlotsFullDay(t *testing.T) {
	slots, skipped, err := ComputeAvailableSlots(SlotInput{
		Date:            monday,
		DurationMinutes: 60,
		Rules:           businessHours(),
		Now:             monday.AddDate(0, 0, -7),
	})
	require.NoError(t, err)
	require.Empty(t, skipped)

	// 09:00 through 16:00, the last slot that still ends by 17:00.
	require.Len(t, slots, 8)
	require.Equal(t, monday.Add(9*time.Hour), slots[0])
	require.Equal(t, monday.Add(16*time.Hour), slots[len(slots)-1])
}

func TestComputeAvailableSlotsStepDefaultsToDuration(t *testing.T) {
	slots, _, err := ComputeAvailableSlots(SlotInput{
		Date:            monday,
		DurationMinutes: 90,
		Rules:           businessHours(),
		Now:             monday.AddDate(0, 0, -7),
	})
	require.NoError(t, err)

	// 09:00, 10:30, 12:00, 13:30, 15:00; 16:30 would end past 17:00.
	require.Len(t, slots, 5)
	require.Equal(t, 90*time.Minute, slots[1].Sub(slots[0]))
}

func TestComputeAvailableSlotsBookingBoundary(t *testing.T) {
	slots, _, err := ComputeAvailableSlots(SlotInput{
		Date:            monday,
		DurationMinutes: 60,
		Rules:           businessHours(),
		Bookings: []timewindow.Interval{
			{Start: monday.Add(10 * time.Hour), End: monday.Add(11 * time.Hour)},
		},
		Now: monday.AddDate(0, 0, -7),
	})
	require.NoError(t, err)

	// The occupied hour is gone; slots touching its endpoints survive.
	require.False(t, slotAt(t, slots, monday.Add(10*time.Hour)))
	require.True(t, slotAt(t, slots, monday.Add(9*time.Hour)))
	require.True(t, slotAt(t, slots, monday.Add(11*time.Hour)))
}

func TestComputeAvailableSlotsExclusion(t *testing.T) {
	slots, skipped, err := ComputeAvailableSlots(SlotInput{
		Date:            monday,
		DurationMinutes: 60,
		Rules:           businessHours(),
		Exclusions: []*exclusion.Exclusion{
			{ID: "lunch", StartDate: monday, StartMinute: minutePtr(720), EndMinute: minutePtr(780)},
		},
		Now: monday.AddDate(0, 0, -7),
	})
	require.NoError(t, err)
	require.Empty(t, skipped)

	require.False(t, slotAt(t, slots, monday.Add(12*time.Hour)))
	require.True(t, slotAt(t, slots, monday.Add(11*time.Hour)))
	require.True(t, slotAt(t, slots, monday.Add(13*time.Hour)))
}

func TestComputeAvailableSlotsSkipsBrokenExclusion(t *testing.T) {
	end := monday.AddDate(0, 0, -3)
	slots, skipped, err := ComputeAvailableSlots(SlotInput{
		Date:            monday,
		DurationMinutes: 60,
		Rules:           businessHours(),
		Exclusions: []*exclusion.Exclusion{
			{ID: "broken", StartDate: monday, EndDate: &end},
		},
		Now: monday.AddDate(0, 0, -7),
	})
	require.NoError(t, err)

	// The broken row is reported but does not block the day.
	require.Len(t, skipped, 1)
	require.Equal(t, "broken", skipped[0].ID)
	require.Len(t, slots, 8)
}

func TestComputeAvailableSlotsCrossMidnight(t *testing.T) {
	var rules [DaysPerWeek]timewindow.WeeklyRule
	rules[0] = timewindow.WeeklyRule{StartMinute: 1320, EndMinute: 120, Enabled: true} // 22:00-02:00

	slots, _, err := ComputeAvailableSlots(SlotInput{
		Date:            monday,
		DurationMinutes: 60,
		Rules:           rules,
		Now:             monday.AddDate(0, 0, -7),
	})
	require.NoError(t, err)

	// 22:00, 23:00, then past midnight into Tuesday: 00:00, 01:00.
	require.Len(t, slots, 4)
	require.Equal(t, monday.Add(22*time.Hour), slots[0])
	require.Equal(t, monday.Add(25*time.Hour), slots[3])
	require.Equal(t, time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC), slots[3])
}

func TestComputeAvailableSlotsPastFilter(t *testing.T) {
	t.Run("today cuts elapsed slots", func(t *testing.T) {
		slots, _, err := ComputeAvailableSlots(SlotInput{
			Date:            monday,
			DurationMinutes: 60,
			Rules:           businessHours(),
			Now:             monday.Add(12*time.Hour + 30*time.Minute),
		})
		require.NoError(t, err)

		// 13:00 through 16:00 remain.
		require.Len(t, slots, 4)
		require.Equal(t, monday.Add(13*time.Hour), slots[0])
	})

	t.Run("past day yields nothing", func(t *testing.T) {
		slots, _, err := ComputeAvailableSlots(SlotInput{
			Date:            monday,
			DurationMinutes: 60,
			Rules:           businessHours(),
			Now:             monday.AddDate(0, 0, 3),
		})
		require.NoError(t, err)
		require.Empty(t, slots)
	})

	t.Run("caller offset shifts the current day", func(t *testing.T) {
		// UTC is already Tuesday 01:00, but a caller 12 hours behind is
		// still on Monday, so Monday afternoon stays bookable.
		slots, _, err := ComputeAvailableSlots(SlotInput{
			Date:                monday,
			DurationMinutes:     60,
			Rules:               businessHours(),
			Now:                 monday.Add(25 * time.Hour),
			CallerOffsetMinutes: -720,
		})
		require.NoError(t, err)
		require.Empty(t, slots) // all of Monday's window is before UTC now

		var rules [DaysPerWeek]timewindow.WeeklyRule
		rules[1] = timewindow.WeeklyRule{StartMinute: 540, EndMinute: 1020, Enabled: true}
		tuesday := monday.AddDate(0, 0, 1)
		slots, _, err = ComputeAvailableSlots(SlotInput{
			Date:                tuesday,
			DurationMinutes:     60,
			Rules:               rules,
			Now:                 monday.Add(25 * time.Hour),
			CallerOffsetMinutes: -720,
		})
		require.NoError(t, err)
		// Tuesday is the caller's tomorrow: no cutoff applies.
		require.Len(t, slots, 8)
	})
}

func TestComputeAvailableSlotsDisabledDay(t *testing.T) {
	var rules [DaysPerWeek]timewindow.WeeklyRule
	slots, skipped, err := ComputeAvailableSlots(SlotInput{
		Date:            monday,
		DurationMinutes: 60,
		Rules:           rules,
		Now:             monday.AddDate(0, 0, -7),
	})
	require.NoError(t, err)
	require.Empty(t, skipped)
	require.Empty(t, slots)
}

func TestComputeAvailableSlotsInvalidDuration(t *testing.T) {
	_, _, err := ComputeAvailableSlots(SlotInput{
		Date:  monday,
		Rules: businessHours(),
	})
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestComputeAvailableSlotsDeterministic(t *testing.T) {
	in := SlotInput{
		Date:            monday,
		DurationMinutes: 30,
		StepMinutes:     15,
		Rules:           businessHours(),
		Bookings: []timewindow.Interval{
			{Start: monday.Add(10 * time.Hour), End: monday.Add(11 * time.Hour)},
		},
		Exclusions: []*exclusion.Exclusion{
			{ID: "x", StartDate: monday, StartMinute: minutePtr(840), EndMinute: minutePtr(900)},
		},
		Now: monday.AddDate(0, 0, -7),
	}

	first, _, err := ComputeAvailableSlots(in)
	require.NoError(t, err)
	second, _, err := ComputeAvailableSlots(in)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestComputeUnavailableIntervals(t *testing.T) {
	rules := businessHours()
	now := monday.Add(10 * time.Hour)

	out, skipped := ComputeUnavailableIntervals(OverlayInput{
		From:  monday,
		To:    monday,
		Rules: rules,
		Exclusions: []*exclusion.Exclusion{
			{ID: "lunch", StartDate: monday, StartMinute: minutePtr(720), EndMinute: minutePtr(780)},
		},
		Bookings: []timewindow.Interval{
			{Start: monday.Add(14 * time.Hour), End: monday.Add(15 * time.Hour)},
		},
		Now: now,
	})
	require.Empty(t, skipped)

	require.Contains(t, out, timewindow.Interval{Start: monday, End: monday.Add(9 * time.Hour)})
	require.Contains(t, out, timewindow.Interval{Start: monday.Add(17 * time.Hour), End: monday.AddDate(0, 0, 1)})
	require.Contains(t, out, timewindow.Interval{Start: monday.Add(12 * time.Hour), End: monday.Add(13 * time.Hour)})
	require.Contains(t, out, timewindow.Interval{Start: monday.Add(14 * time.Hour), End: monday.Add(15 * time.Hour)})
	// Elapsed part of the current day.
	require.Contains(t, out, timewindow.Interval{Start: monday, End: now})
}

func TestComputeUnavailableIntervalsDisabledDay(t *testing.T) {
	var rules [DaysPerWeek]timewindow.WeeklyRule

	out, _ := ComputeUnavailableIntervals(OverlayInput{
		From:  monday,
		To:    monday,
		Rules: rules,
		Now:   monday.AddDate(0, 0, -7),
	})

	require.Contains(t, out, timewindow.Interval{Start: monday, End: monday.AddDate(0, 0, 1)})
}
