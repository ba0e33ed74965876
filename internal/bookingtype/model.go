package bookingtype

import (
	"net/http"
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, "booking type not found")
	ErrNameRequired         = apperror.New(http.StatusBadRequest, "name is required")
	ErrInvalidConfiguration = apperror.New(http.StatusBadRequest, "duration must be a positive number of minutes")
)

// BookingType is a service definition. Its duration determines the length of
// any booking created against it; existing bookings keep the end they were
// created with even if the duration is later edited.
type BookingType struct {
	ID              string
	Name            string
	DurationMinutes int
	Description     string
	Color           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for listing booking types.
type Filter struct {
	Page     int
	PageSize int
}
