package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayOfDateMondayFirst(t *testing.T) {
	// 2026-03-02 is a Monday.
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	for i := 0; i < DaysPerWeek; i++ {
		require.Equal(t, DayOfWeek(i), DayOfDate(base.AddDate(0, 0, i)))
	}

	require.Equal(t, "Monday", DayOfDate(base).String())
	require.Equal(t, "Sunday", DayOfDate(base.AddDate(0, 0, 6)).String())
}

func TestWeekRules(t *testing.T) {
	var week Week
	week[2] = WeeklyAvailability{
		DayOfWeek:   2,
		StartMinute: 540,
		EndMinute:   1020,
		Enabled:     true,
	}

	rules := week.Rules()
	require.True(t, rules[2].Enabled)
	require.False(t, rules[0].Enabled)
	require.Equal(t, week[2].StartMinute, rules[2].StartMinute)
}
