package http

import (
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/booking"
	bookinghttp "github.com/myronlou/calendar-booking-backend/internal/booking/http"
)

type RequestCodeBody struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyCodeBody struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

type VerifyCodeResponse struct {
	Token string `json:"token"`
}

// CompleteBookingBody spends a verification token on a slot. The email must
// match the token's claims.
type CompleteBookingBody struct {
	Token         string    `json:"token" binding:"required"`
	BookingTypeID string    `json:"booking_type_id" binding:"required,uuid"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	FullName      string    `json:"full_name" binding:"required"`
	Email         string    `json:"email" binding:"required,email"`
	Phone         string    `json:"phone"`
}

func (b *CompleteBookingBody) ToReserveRequest() booking.ReserveRequest {
	return booking.ReserveRequest{
		BookingTypeID: b.BookingTypeID,
		StartTime:     b.StartTime,
		FullName:      b.FullName,
		Email:         b.Email,
		Phone:         b.Phone,
	}
}

type CompleteBookingResponse struct {
	Booking         bookinghttp.BookingResponse `json:"booking"`
	ManagementToken string                      `json:"management_token,omitempty"`
}
