package http

import (
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/bookingtype"
	"github.com/myronlou/calendar-booking-backend/internal/pkg/request"
)

type ListBookingTypesRequest struct {
	request.ListParams
}

type BookingTypeResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description"`
	Color           string    `json:"color"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewResponse(bt *bookingtype.BookingType) BookingTypeResponse {
	return BookingTypeResponse{
		ID:              bt.ID,
		Name:            bt.Name,
		DurationMinutes: bt.DurationMinutes,
		Description:     bt.Description,
		Color:           bt.Color,
		CreatedAt:       bt.CreatedAt,
		UpdatedAt:       bt.UpdatedAt,
	}
}

type CreateBookingTypeBody struct {
	Name            string `json:"name" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1"`
	Description     string `json:"description"`
	Color           string `json:"color"`
}

type UpdateBookingTypeBody struct {
	Name            *string `json:"name"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=1"`
	Description     *string `json:"description"`
	Color           *string `json:"color"`
}
