package booking

import (
	"net/http"
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "booking not found")
	ErrSlotTaken          = apperror.New(http.StatusConflict, "time slot already booked")
	ErrExcluded           = apperror.New(http.StatusConflict, "time slot falls within an exclusion")
	ErrInvalidBookingType = apperror.New(http.StatusNotFound, "booking type not found")
	ErrInvalidTimeRange   = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrStartTimePast      = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrInvalidStatus      = apperror.New(http.StatusBadRequest, "invalid booking status")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s Status) bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// Booking is a confirmed, non-overlapping reservation. Title and the
// start/end span are denormalized from the booking type at creation time and
// never recomputed afterwards. Every persisted booking blocks its
// [start, end) interval regardless of status.
type Booking struct {
	ID        string
	Title     string
	StartTime time.Time
	EndTime   time.Time
	FullName  string
	Email     string
	Phone     string
	Status    Status
	UserID    *string
	// RemindedAt is set once the reminder notification has gone out.
	RemindedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	Email     string
	Status    string
	StartTime *time.Time // bookings ending after this time
	EndTime   *time.Time // bookings starting before this time
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
