package announcement

import (
	"net/http"
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "announcement not found")
	ErrTitleRequired   = apperror.New(http.StatusBadRequest, "title is required")
	ErrContentRequired = apperror.New(http.StatusBadRequest, "content is required")
)

// Announcement is a notice shown on the public booking page, e.g. holiday
// closures or schedule changes.
type Announcement struct {
	ID        string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines parameters for listing announcements.
type Filter struct {
	Keyword   string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
