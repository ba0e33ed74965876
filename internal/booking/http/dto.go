package http

import (
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/booking"
	"github.com/myronlou/calendar-booking-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	Email         string     `form:"email" binding:"omitempty,email"`
	Status        string     `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	StartTimeFrom *time.Time `form:"start_time_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTimeTo   *time.Time `form:"start_time_to" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy        string     `form:"sort_by" binding:"omitempty,oneof=start_time end_time created_at status"`
	SortOrder     string     `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.StartTimeFrom != nil && r.StartTimeTo != nil {
		if r.StartTimeFrom.After(*r.StartTimeTo) {
			return booking.ErrInvalidTimeRange
		}
	}
	return nil
}

type BookingResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	UserID    *string   `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Title:     b.Title,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		FullName:  b.FullName,
		Email:     b.Email,
		Phone:     b.Phone,
		Status:    string(b.Status),
		UserID:    b.UserID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// CreateBookingBody is the admin-side creation request. Customer-side
// creation goes through the verified booking flow instead.
type CreateBookingBody struct {
	BookingTypeID string    `json:"booking_type_id" binding:"required,uuid"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	FullName      string    `json:"full_name" binding:"required"`
	Email         string    `json:"email" binding:"required,email"`
	Phone         string    `json:"phone"`
}

type UpdateBookingBody struct {
	Title     *string    `json:"title"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Status    *string    `json:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
}

// Validate performs custom validation for UpdateBookingBody.
func (r *UpdateBookingBody) Validate() error {
	if r.StartTime != nil && r.EndTime != nil {
		if !r.EndTime.After(*r.StartTime) {
			return booking.ErrInvalidTimeRange
		}
	}
	return nil
}
