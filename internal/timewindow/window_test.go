package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func minutePtr(m Minute) *Minute { return &m }

func TestParseMinute(t *testing.T) {
	tests := []struct {
		in      string
		want    Minute
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "9:05", want: 545},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "garbage", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMinute(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMinuteString(t *testing.T) {
	require.Equal(t, "00:00", Minute(0).String())
	require.Equal(t, "09:05", Minute(545).String())
	require.Equal(t, "23:59", Minute(1439).String())
}

func TestIntervalOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	iv := func(startHour, endHour int) Interval {
		return Interval{
			Start: base.Add(time.Duration(startHour) * time.Hour),
			End:   base.Add(time.Duration(endHour) * time.Hour),
		}
	}

	a := iv(9, 11)

	require.True(t, a.Overlaps(iv(10, 12)))
	require.True(t, a.Overlaps(iv(8, 10)))
	require.True(t, a.Overlaps(iv(9, 11)))
	require.True(t, a.Overlaps(iv(8, 12)))

	// Half-open: touching endpoints do not overlap.
	require.False(t, a.Overlaps(iv(11, 13)))
	require.False(t, a.Overlaps(iv(7, 9)))
}

func TestIntervalClip(t *testing.T) {
	day := DayBounds(time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC))

	spanning := Interval{
		Start: day.Start.Add(-2 * time.Hour),
		End:   day.Start.Add(26 * time.Hour),
	}
	clipped, ok := spanning.Clip(day)
	require.True(t, ok)
	require.Equal(t, day, clipped)

	outside := Interval{
		Start: day.End,
		End:   day.End.Add(time.Hour),
	}
	_, ok = outside.Clip(day)
	require.False(t, ok)
}

func TestResolveWeeklyWindow(t *testing.T) {
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	t.Run("plain window", func(t *testing.T) {
		win, ok := ResolveWeeklyWindow(monday, WeeklyRule{StartMinute: 540, EndMinute: 1020, Enabled: true})
		require.True(t, ok)
		require.Equal(t, monday.Add(9*time.Hour), win.Start)
		require.Equal(t, monday.Add(17*time.Hour), win.End)
	})

	t.Run("cross midnight wraps into next day", func(t *testing.T) {
		// 22:00 to 02:00 resolves to Monday 22:00 .. Tuesday 02:00
		win, ok := ResolveWeeklyWindow(monday, WeeklyRule{StartMinute: 1320, EndMinute: 120, Enabled: true})
		require.True(t, ok)
		require.Equal(t, monday.Add(22*time.Hour), win.Start)
		require.Equal(t, monday.Add(26*time.Hour), win.End)
	})

	t.Run("start equals end is a full wrap", func(t *testing.T) {
		win, ok := ResolveWeeklyWindow(monday, WeeklyRule{StartMinute: 600, EndMinute: 600, Enabled: true})
		require.True(t, ok)
		require.Equal(t, 24*time.Hour, win.End.Sub(win.Start))
	})

	t.Run("disabled day", func(t *testing.T) {
		_, ok := ResolveWeeklyWindow(monday, WeeklyRule{StartMinute: 540, EndMinute: 1020, Enabled: false})
		require.False(t, ok)
	})
}

func TestResolveExclusionInterval(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	nextDay := day.AddDate(0, 0, 1)

	t.Run("defaults cover the whole day", func(t *testing.T) {
		iv, err := ResolveExclusionInterval(day, nil, nil, nil)
		require.NoError(t, err)
		require.Equal(t, day, iv.Start)
		require.Equal(t, nextDay, iv.End)
	})

	t.Run("time range within one day", func(t *testing.T) {
		iv, err := ResolveExclusionInterval(day, nil, minutePtr(600), minutePtr(720))
		require.NoError(t, err)
		require.Equal(t, day.Add(10*time.Hour), iv.Start)
		require.Equal(t, day.Add(12*time.Hour), iv.End)
	})

	t.Run("multi day with end minute on last day", func(t *testing.T) {
		end := day.AddDate(0, 0, 2)
		iv, err := ResolveExclusionInterval(day, &end, minutePtr(540), minutePtr(1020))
		require.NoError(t, err)
		require.Equal(t, day.Add(9*time.Hour), iv.Start)
		require.Equal(t, end.Add(17*time.Hour), iv.End)
	})

	t.Run("end date before start date", func(t *testing.T) {
		before := day.AddDate(0, 0, -1)
		_, err := ResolveExclusionInterval(day, &before, nil, nil)
		require.ErrorIs(t, err, ErrInvalidExclusion)
	})

	t.Run("inverted times on a single day", func(t *testing.T) {
		_, err := ResolveExclusionInterval(day, nil, minutePtr(720), minutePtr(600))
		require.ErrorIs(t, err, ErrInvalidExclusion)
	})

	t.Run("out of range minute", func(t *testing.T) {
		_, err := ResolveExclusionInterval(day, nil, minutePtr(-5), nil)
		require.ErrorIs(t, err, ErrInvalidExclusion)
	})
}
