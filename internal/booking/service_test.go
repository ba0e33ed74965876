package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/myronlou/calendar-booking-backend/internal/bookingtype"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

// memoryRepository reproduces the store's reserve guarantee in memory: the
// overlap check and the insert happen under one lock, so concurrent reserves
// of the same interval cannot both succeed.
type memoryRepository struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	nextID   int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{bookings: map[string]*Booking{}}
}

func (r *memoryRepository) Reserve(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	candidate := timewindow.Interval{Start: b.StartTime, End: b.EndTime}
	for _, existing := range r.bookings {
		if candidate.Overlaps(timewindow.Interval{Start: existing.StartTime, End: existing.EndTime}) {
			return ErrSlotTaken
		}
	}

	r.nextID++
	b.ID = fmt.Sprintf("b-%d", r.nextID)
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memoryRepository) List(context.Context, Filter) ([]*Booking, int, error) {
	return nil, 0, nil
}

func (r *memoryRepository) Update(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *memoryRepository) HasOverlap(_ context.Context, start, end time.Time, excludeID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	candidate := timewindow.Interval{Start: start, End: end}
	for id, b := range r.bookings {
		if id == excludeID {
			continue
		}
		if candidate.Overlaps(timewindow.Interval{Start: b.StartTime, End: b.EndTime}) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepository) IntervalsWithin(context.Context, time.Time, time.Time) ([]timewindow.Interval, error) {
	return nil, nil
}

func (r *memoryRepository) DueReminders(context.Context, time.Time, time.Time) ([]*Booking, error) {
	return nil, nil
}

func (r *memoryRepository) MarkReminded(context.Context, string) error { return nil }

type fakeBookingTypes struct {
	types map[string]*bookingtype.BookingType
}

func (f *fakeBookingTypes) GetByID(_ context.Context, id string) (*bookingtype.BookingType, error) {
	bt, ok := f.types[id]
	if !ok {
		return nil, bookingtype.ErrNotFound
	}
	return bt, nil
}

func (f *fakeBookingTypes) Create(context.Context, bookingtype.CreateRequest) (*bookingtype.BookingType, error) {
	return nil, nil
}
func (f *fakeBookingTypes) List(context.Context, bookingtype.Filter) ([]*bookingtype.BookingType, int, error) {
	return nil, 0, nil
}
func (f *fakeBookingTypes) Update(context.Context, string, bookingtype.UpdateRequest) (*bookingtype.BookingType, error) {
	return nil, nil
}
func (f *fakeBookingTypes) Delete(context.Context, string) error { return nil }

func newTestService(repo Repository) Service {
	return NewService(repo, &fakeBookingTypes{
		types: map[string]*bookingtype.BookingType{
			"bt-60": {ID: "bt-60", Name: "Consultation", DurationMinutes: 60},
		},
	})
}

func futureSlot() time.Time {
	return time.Now().UTC().Add(48 * time.Hour).Truncate(time.Minute)
}

func TestReserveFreezesDuration(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	start := futureSlot()

	b, err := svc.Reserve(context.Background(), ReserveRequest{
		BookingTypeID: "bt-60",
		StartTime:     start.Add(30 * time.Second), // sub-minute precision is dropped
		FullName:      "Ada Lovelace",
		Email:         "ada@example.com",
	})
	require.NoError(t, err)

	require.Equal(t, start, b.StartTime)
	require.Equal(t, start.Add(time.Hour), b.EndTime)
	require.Equal(t, "Consultation", b.Title)
	require.Equal(t, StatusConfirmed, b.Status)
	require.NotEmpty(t, b.ID)
}

func TestReserveUnknownBookingType(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	_, err := svc.Reserve(context.Background(), ReserveRequest{
		BookingTypeID: "missing",
		StartTime:     futureSlot(),
	})
	require.ErrorIs(t, err, ErrInvalidBookingType)
}

func TestReserveInPast(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	_, err := svc.Reserve(context.Background(), ReserveRequest{
		BookingTypeID: "bt-60",
		StartTime:     time.Now().UTC().Add(-time.Hour),
	})
	require.ErrorIs(t, err, ErrStartTimePast)
}

func TestReserveConflict(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	start := futureSlot()

	_, err := svc.Reserve(context.Background(), ReserveRequest{
		BookingTypeID: "bt-60", StartTime: start, Email: "first@example.com",
	})
	require.NoError(t, err)

	// Partial overlap loses too.
	_, err = svc.Reserve(context.Background(), ReserveRequest{
		BookingTypeID: "bt-60", StartTime: start.Add(30 * time.Minute), Email: "second@example.com",
	})
	require.ErrorIs(t, err, ErrSlotTaken)

	// Back to back is fine.
	_, err = svc.Reserve(context.Background(), ReserveRequest{
		BookingTypeID: "bt-60", StartTime: start.Add(time.Hour), Email: "third@example.com",
	})
	require.NoError(t, err)
}

func TestReserveConcurrentSingleWinner(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	start := futureSlot()

	const attempts = 16
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Reserve(context.Background(), ReserveRequest{
				BookingTypeID: "bt-60",
				StartTime:     start,
				Email:         fmt.Sprintf("racer%d@example.com", i),
			})
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrSlotTaken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, won)
}

func TestUpdateOverlapExcludesSelf(t *testing.T) {
	repo := newMemoryRepository()
	svc := newTestService(repo)
	start := futureSlot()

	b, err := svc.Reserve(context.Background(), ReserveRequest{
		BookingTypeID: "bt-60", StartTime: start, Email: "ada@example.com",
	})
	require.NoError(t, err)

	// Shifting a booking within its own span must not collide with itself.
	newStart := start.Add(15 * time.Minute)
	newEnd := newStart.Add(time.Hour)
	updated, err := svc.Update(context.Background(), b.ID, UpdateRequest{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	require.NoError(t, err)
	require.Equal(t, newStart, updated.StartTime)

	// A second booking cannot be moved onto the first.
	other, err := svc.Reserve(context.Background(), ReserveRequest{
		BookingTypeID: "bt-60", StartTime: start.Add(3 * time.Hour), Email: "bob@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), other.ID, UpdateRequest{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	require.ErrorIs(t, err, ErrSlotTaken)
}

func TestUpdateRejectsInvertedRange(t *testing.T) {
	svc := newTestService(newMemoryRepository())
	start := futureSlot()

	b, err := svc.Reserve(context.Background(), ReserveRequest{
		BookingTypeID: "bt-60", StartTime: start, Email: "ada@example.com",
	})
	require.NoError(t, err)

	badEnd := start.Add(-time.Hour)
	_, err = svc.Update(context.Background(), b.ID, UpdateRequest{EndTime: &badEnd})
	require.ErrorIs(t, err, ErrInvalidTimeRange)
}

func TestUpdateInvalidStatus(t *testing.T) {
	svc := newTestService(newMemoryRepository())

	b, err := svc.Reserve(context.Background(), ReserveRequest{
		BookingTypeID: "bt-60", StartTime: futureSlot(), Email: "ada@example.com",
	})
	require.NoError(t, err)

	bad := "archived"
	_, err = svc.Update(context.Background(), b.ID, UpdateRequest{Status: &bad})
	require.ErrorIs(t, err, ErrInvalidStatus)
}
