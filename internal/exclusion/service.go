package exclusion

import (
	"context"
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

type CreateRequest struct {
	StartDate   time.Time
	EndDate     *time.Time
	StartMinute *timewindow.Minute
	EndMinute   *timewindow.Minute
	Note        string
}

type UpdateRequest struct {
	StartDate   *time.Time
	EndDate     *time.Time
	ClearEnd    bool
	StartMinute *timewindow.Minute
	EndMinute   *timewindow.Minute
	ClearTimes  bool
	Note        *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Exclusion, error)
	GetByID(ctx context.Context, id string) (*Exclusion, error)
	List(ctx context.Context, filter Filter) ([]*Exclusion, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Exclusion, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Exclusion, error) {
	e := &Exclusion{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartMinute: req.StartMinute,
		EndMinute:   req.EndMinute,
		Note:        req.Note,
	}

	// Admin writes are validated strictly; only read-time resolution
	// tolerates bad rows.
	if _, err := e.Interval(); err != nil {
		return nil, ErrInvalidExclusion
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Exclusion, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Exclusion, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Exclusion, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.StartDate != nil {
		e.StartDate = *req.StartDate
	}
	if req.ClearEnd {
		e.EndDate = nil
	} else if req.EndDate != nil {
		e.EndDate = req.EndDate
	}
	if req.ClearTimes {
		e.StartMinute = nil
		e.EndMinute = nil
	} else {
		if req.StartMinute != nil {
			e.StartMinute = req.StartMinute
		}
		if req.EndMinute != nil {
			e.EndMinute = req.EndMinute
		}
	}
	if req.Note != nil {
		e.Note = *req.Note
	}

	if _, err := e.Interval(); err != nil {
		return nil, ErrInvalidExclusion
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
