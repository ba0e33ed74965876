package availability

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/myronlou/calendar-booking-backend/internal/booking"
	"github.com/myronlou/calendar-booking-backend/internal/bookingtype"
	"github.com/myronlou/calendar-booking-backend/internal/exclusion"
	"github.com/myronlou/calendar-booking-backend/internal/metrics"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

type UpdateDayRequest struct {
	DayOfWeek   DayOfWeek
	StartMinute timewindow.Minute
	EndMinute   timewindow.Minute
	Enabled     bool
}

// SlotsRequest asks for the bookable slot starts on one UTC calendar day.
// StepMinutes <= 0 falls back to the booking type's duration.
// CallerOffsetMinutes is the caller's UTC offset, used only for the
// past-slot filter.
type SlotsRequest struct {
	Date                time.Time
	BookingTypeID       string
	StepMinutes         int
	CallerOffsetMinutes int
}

type Service interface {
	Week(ctx context.Context) (Week, error)
	UpdateDay(ctx context.Context, req UpdateDayRequest) (*WeeklyAvailability, error)

	// Slots computes the available slot start instants for a day.
	Slots(ctx context.Context, req SlotsRequest) ([]time.Time, error)

	// Overlay computes the unavailable intervals over a date range for the
	// calendar UI background.
	Overlay(ctx context.Context, from, to time.Time) ([]timewindow.Interval, error)
}

type service struct {
	repo           Repository
	btService      bookingtype.Service
	exclusionRepo  exclusion.Repository
	bookingService booking.Service
	logger         zerolog.Logger
	now            func() time.Time
}

func NewService(
	repo Repository,
	btService bookingtype.Service,
	exclusionRepo exclusion.Repository,
	bookingService booking.Service,
	logger zerolog.Logger,
) Service {
	return &service{
		repo:           repo,
		btService:      btService,
		exclusionRepo:  exclusionRepo,
		bookingService: bookingService,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Week(ctx context.Context) (Week, error) {
	return s.repo.GetWeek(ctx)
}

func (s *service) UpdateDay(ctx context.Context, req UpdateDayRequest) (*WeeklyAvailability, error) {
	if !req.DayOfWeek.Valid() {
		return nil, ErrInvalidDay
	}
	if !req.StartMinute.Valid() || !req.EndMinute.Valid() {
		return nil, ErrInvalidConfiguration
	}

	rec := &WeeklyAvailability{
		DayOfWeek:   req.DayOfWeek,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		Enabled:     req.Enabled,
	}
	if err := s.repo.UpsertDay(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *service) Slots(ctx context.Context, req SlotsRequest) ([]time.Time, error) {
	bt, err := s.btService.GetByID(ctx, req.BookingTypeID)
	if err != nil {
		if errors.Is(err, bookingtype.ErrNotFound) {
			return nil, booking.ErrInvalidBookingType
		}
		return nil, err
	}

	week, err := s.repo.GetWeek(ctx)
	if err != nil {
		return nil, err
	}

	// A cross-midnight window can spill into the next day, so fetch
	// collaborator state one day wide on each side.
	day := timewindow.DayBounds(req.Date)
	from := day.Start.AddDate(0, 0, -1)
	to := day.End.AddDate(0, 0, 1)

	bookings, err := s.bookingService.IntervalsWithin(ctx, from, to)
	if err != nil {
		return nil, err
	}

	exclusions, err := s.exclusionRepo.ListTouching(ctx, from, to)
	if err != nil {
		return nil, err
	}

	slots, skipped, err := ComputeAvailableSlots(SlotInput{
		Date:                req.Date,
		DurationMinutes:     bt.DurationMinutes,
		StepMinutes:         req.StepMinutes,
		Rules:               week.Rules(),
		Bookings:            bookings,
		Exclusions:          exclusions,
		Now:                 s.now(),
		CallerOffsetMinutes: req.CallerOffsetMinutes,
	})
	if err != nil {
		return nil, err
	}
	s.logSkipped(skipped)

	metrics.IncSlotQueries()
	return slots, nil
}

func (s *service) Overlay(ctx context.Context, from, to time.Time) ([]timewindow.Interval, error) {
	week, err := s.repo.GetWeek(ctx)
	if err != nil {
		return nil, err
	}

	lower := timewindow.DayBounds(from).Start
	upper := timewindow.DayBounds(to).End

	bookings, err := s.bookingService.IntervalsWithin(ctx, lower, upper)
	if err != nil {
		return nil, err
	}

	exclusions, err := s.exclusionRepo.ListTouching(ctx, lower, upper)
	if err != nil {
		return nil, err
	}

	intervals, skipped := ComputeUnavailableIntervals(OverlayInput{
		From:       from,
		To:         to,
		Rules:      week.Rules(),
		Exclusions: exclusions,
		Bookings:   bookings,
		Now:        s.now(),
	})
	s.logSkipped(skipped)

	return intervals, nil
}

func (s *service) logSkipped(skipped []SkippedExclusion) {
	for _, sk := range skipped {
		s.logger.Warn().
			Str("exclusion_id", sk.ID).
			Err(sk.Err).
			Msg("skipping malformed exclusion")
	}
}
