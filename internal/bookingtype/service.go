package bookingtype

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name            string
	DurationMinutes int
	Description     string
	Color           string
}

type UpdateRequest struct {
	Name            *string
	DurationMinutes *int
	Description     *string
	Color           *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*BookingType, error)
	GetByID(ctx context.Context, id string) (*BookingType, error)
	List(ctx context.Context, filter Filter) ([]*BookingType, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*BookingType, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*BookingType, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if req.DurationMinutes <= 0 {
		return nil, ErrInvalidConfiguration
	}

	bt := &BookingType{
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Description:     req.Description,
		Color:           req.Color,
	}

	if err := s.repo.Create(ctx, bt); err != nil {
		return nil, err
	}
	return bt, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*BookingType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*BookingType, int, error) {
	return s.repo.List(ctx, filter)
}

// Update edits display fields and the duration. Existing bookings keep their
// already-computed end times; the new duration only affects bookings created
// afterwards.
func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*BookingType, error) {
	bt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		bt.Name = *req.Name
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrInvalidConfiguration
		}
		bt.DurationMinutes = *req.DurationMinutes
	}
	if req.Description != nil {
		bt.Description = *req.Description
	}
	if req.Color != nil {
		bt.Color = *req.Color
	}

	if err := s.repo.Update(ctx, bt); err != nil {
		return nil, err
	}
	return bt, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
