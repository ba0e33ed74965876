package exclusion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

type memoryRepository struct {
	exclusions map[string]*Exclusion
	nextID     int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{exclusions: map[string]*Exclusion{}}
}

func (r *memoryRepository) Create(_ context.Context, e *Exclusion) error {
	r.nextID++
	e.ID = "e-" + string(rune('0'+r.nextID))
	stored := *e
	r.exclusions[e.ID] = &stored
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*Exclusion, error) {
	e, ok := r.exclusions[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (r *memoryRepository) List(context.Context, Filter) ([]*Exclusion, int, error) {
	return nil, 0, nil
}

func (r *memoryRepository) ListTouching(context.Context, time.Time, time.Time) ([]*Exclusion, error) {
	return nil, nil
}

func (r *memoryRepository) Update(_ context.Context, e *Exclusion) error {
	if _, ok := r.exclusions[e.ID]; !ok {
		return ErrNotFound
	}
	stored := *e
	r.exclusions[e.ID] = &stored
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.exclusions[id]; !ok {
		return ErrNotFound
	}
	delete(r.exclusions, id)
	return nil
}

func minutePtr(m timewindow.Minute) *timewindow.Minute { return &m }

var day = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

func TestCreateValidatesStrictly(t *testing.T) {
	svc := NewService(newMemoryRepository())
	ctx := context.Background()

	t.Run("whole day", func(t *testing.T) {
		e, err := svc.Create(ctx, CreateRequest{StartDate: day, Note: "public holiday"})
		require.NoError(t, err)

		iv, err := e.Interval()
		require.NoError(t, err)
		require.Equal(t, day, iv.Start)
		require.Equal(t, day.AddDate(0, 0, 1), iv.End)
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		before := day.AddDate(0, 0, -2)
		_, err := svc.Create(ctx, CreateRequest{StartDate: day, EndDate: &before})
		require.ErrorIs(t, err, ErrInvalidExclusion)
	})

	t.Run("inverted times rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{
			StartDate:   day,
			StartMinute: minutePtr(720),
			EndMinute:   minutePtr(600),
		})
		require.ErrorIs(t, err, ErrInvalidExclusion)
	})
}

func TestUpdateClearFlags(t *testing.T) {
	svc := NewService(newMemoryRepository())
	ctx := context.Background()

	end := day.AddDate(0, 0, 3)
	e, err := svc.Create(ctx, CreateRequest{
		StartDate:   day,
		EndDate:     &end,
		StartMinute: minutePtr(540),
		EndMinute:   minutePtr(1020),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, e.ID, UpdateRequest{ClearEnd: true, ClearTimes: true})
	require.NoError(t, err)
	require.Nil(t, updated.EndDate)
	require.Nil(t, updated.StartMinute)
	require.Nil(t, updated.EndMinute)

	// Back to a single whole day.
	iv, err := updated.Interval()
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, iv.End.Sub(iv.Start))
}

func TestUpdateRejectsResultingInvalidRange(t *testing.T) {
	svc := NewService(newMemoryRepository())
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateRequest{
		StartDate:   day,
		StartMinute: minutePtr(600),
		EndMinute:   minutePtr(720),
	})
	require.NoError(t, err)

	// Moving the start past the end must fail and leave the row untouched.
	_, err = svc.Update(ctx, e.ID, UpdateRequest{StartMinute: minutePtr(780)})
	require.ErrorIs(t, err, ErrInvalidExclusion)

	current, err := svc.GetByID(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, timewindow.Minute(600), *current.StartMinute)
}
