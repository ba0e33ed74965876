package exclusion

import (
	"net/http"
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/pkg/apperror"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "exclusion not found")
	ErrInvalidExclusion = apperror.New(http.StatusBadRequest, "invalid exclusion date/time range")
)

// Exclusion is an admin-declared blackout interval. All date and time fields
// are naive UTC wall-clock components combined into a concrete interval at
// read time, never a stored instant. A nil EndDate means single-day, a nil
// StartMinute means from midnight, a nil EndMinute means to end of day.
type Exclusion struct {
	ID          string
	StartDate   time.Time // date component only, UTC midnight
	EndDate     *time.Time
	StartMinute *timewindow.Minute
	EndMinute   *timewindow.Minute
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Interval resolves the exclusion's wall-clock fields into a concrete UTC
// interval. It returns an error when the stored fields violate the
// exclusion invariants.
func (e *Exclusion) Interval() (timewindow.Interval, error) {
	return timewindow.ResolveExclusionInterval(e.StartDate, e.EndDate, e.StartMinute, e.EndMinute)
}

// Filter defines parameters for listing exclusions.
type Filter struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
