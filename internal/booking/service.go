package booking

import (
	"context"
	"errors"
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/bookingtype"
	"github.com/myronlou/calendar-booking-backend/internal/metrics"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

// ReserveRequest is a request to claim a slot. End time is never supplied by
// the caller; it is derived from the booking type's duration at reserve time.
type ReserveRequest struct {
	BookingTypeID string
	StartTime     time.Time
	FullName      string
	Email         string
	Phone         string
	UserID        *string
}

type UpdateRequest struct {
	Title     *string
	StartTime *time.Time
	EndTime   *time.Time
	Status    *string
}

type Service interface {
	// Reserve validates the request and atomically persists the booking.
	// It is the single authoritative point where a slot becomes a booking.
	Reserve(ctx context.Context, req ReserveRequest) (*Booking, error)

	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error)
	Delete(ctx context.Context, id string) error

	// IntervalsWithin exposes booking spans to the availability resolver
	// and overlay.
	IntervalsWithin(ctx context.Context, from, to time.Time) ([]timewindow.Interval, error)

	// DueReminders and MarkReminded back the reminder job.
	DueReminders(ctx context.Context, from, to time.Time) ([]*Booking, error)
	MarkReminded(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	btService bookingtype.Service
	now       func() time.Time
}

func NewService(repo Repository, btService bookingtype.Service) Service {
	return &service{
		repo:      repo,
		btService: btService,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Reserve(ctx context.Context, req ReserveRequest) (*Booking, error) {
	bt, err := s.btService.GetByID(ctx, req.BookingTypeID)
	if err != nil {
		if errors.Is(err, bookingtype.ErrNotFound) {
			return nil, ErrInvalidBookingType
		}
		return nil, err
	}
	if bt.DurationMinutes <= 0 {
		return nil, bookingtype.ErrInvalidConfiguration
	}

	start := req.StartTime.UTC().Truncate(time.Minute)
	if start.Before(s.now()) {
		return nil, ErrStartTimePast
	}

	// Duration is frozen here; later edits to the booking type never touch
	// this booking's end time.
	b := &Booking{
		Title:     bt.Name,
		StartTime: start,
		EndTime:   start.Add(time.Duration(bt.DurationMinutes) * time.Minute),
		FullName:  req.FullName,
		Email:     req.Email,
		Phone:     req.Phone,
		Status:    StatusConfirmed,
		UserID:    req.UserID,
	}

	if err := s.repo.Reserve(ctx, b); err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken):
			metrics.IncBookingReserved("slot_taken")
		case errors.Is(err, ErrExcluded):
			metrics.IncBookingReserved("excluded")
		}
		return nil, err
	}

	metrics.IncBookingReserved("ok")
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStart := b.StartTime
	newEnd := b.EndTime
	timeChanged := false

	if req.StartTime != nil {
		newStart = req.StartTime.UTC()
		timeChanged = true
	}
	if req.EndTime != nil {
		newEnd = req.EndTime.UTC()
		timeChanged = true
	}

	if timeChanged {
		if !newEnd.After(newStart) {
			return nil, ErrInvalidTimeRange
		}

		hasOverlap, err := s.repo.HasOverlap(ctx, newStart, newEnd, b.ID)
		if err != nil {
			return nil, err
		}
		if hasOverlap {
			return nil, ErrSlotTaken
		}
		b.StartTime = newStart
		b.EndTime = newEnd
	}

	if req.Title != nil {
		b.Title = *req.Title
	}

	if req.Status != nil {
		st := Status(*req.Status)
		if !ValidStatus(st) {
			return nil, ErrInvalidStatus
		}
		b.Status = st
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) IntervalsWithin(ctx context.Context, from, to time.Time) ([]timewindow.Interval, error) {
	return s.repo.IntervalsWithin(ctx, from, to)
}

func (s *service) DueReminders(ctx context.Context, from, to time.Time) ([]*Booking, error) {
	return s.repo.DueReminders(ctx, from, to)
}

func (s *service) MarkReminded(ctx context.Context, id string) error {
	return s.repo.MarkReminded(ctx, id)
}
