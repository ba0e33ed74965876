package http

import (
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/exclusion"
	"github.com/myronlou/calendar-booking-backend/internal/pkg/request"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD string as a UTC calendar date.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

func parseOptionalMinute(s *string) (*timewindow.Minute, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	m, err := timewindow.ParseMinute(*s)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

type ExclusionResponse struct {
	ID        string    `json:"id"`
	StartDate string    `json:"start_date"`
	EndDate   *string   `json:"end_date,omitempty"`
	StartTime *string   `json:"start_time,omitempty"`
	EndTime   *string   `json:"end_time,omitempty"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewResponse(e *exclusion.Exclusion) ExclusionResponse {
	resp := ExclusionResponse{
		ID:        e.ID,
		StartDate: e.StartDate.Format(dateLayout),
		Note:      e.Note,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.EndDate != nil {
		s := e.EndDate.Format(dateLayout)
		resp.EndDate = &s
	}
	if e.StartMinute != nil {
		s := e.StartMinute.String()
		resp.StartTime = &s
	}
	if e.EndMinute != nil {
		s := e.EndMinute.String()
		resp.EndTime = &s
	}
	return resp
}

type ListExclusionsRequest struct {
	request.ListParams
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type CreateExclusionBody struct {
	StartDate string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Note      string  `json:"note"`
}

// ToCreateRequest converts the body into a service request, parsing wall-clock
// components.
func (b *CreateExclusionBody) ToCreateRequest() (exclusion.CreateRequest, error) {
	var req exclusion.CreateRequest

	start, err := parseDate(b.StartDate)
	if err != nil {
		return req, err
	}
	req.StartDate = start

	if b.EndDate != nil && *b.EndDate != "" {
		end, err := parseDate(*b.EndDate)
		if err != nil {
			return req, err
		}
		req.EndDate = &end
	}

	if req.StartMinute, err = parseOptionalMinute(b.StartTime); err != nil {
		return req, err
	}
	if req.EndMinute, err = parseOptionalMinute(b.EndTime); err != nil {
		return req, err
	}

	req.Note = b.Note
	return req, nil
}

type UpdateExclusionBody struct {
	StartDate  *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate    *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	ClearEnd   bool    `json:"clear_end"`
	StartTime  *string `json:"start_time"`
	EndTime    *string `json:"end_time"`
	ClearTimes bool    `json:"clear_times"`
	Note       *string `json:"note"`
}

func (b *UpdateExclusionBody) ToUpdateRequest() (exclusion.UpdateRequest, error) {
	var req exclusion.UpdateRequest

	if b.StartDate != nil {
		start, err := parseDate(*b.StartDate)
		if err != nil {
			return req, err
		}
		req.StartDate = &start
	}
	if b.EndDate != nil {
		end, err := parseDate(*b.EndDate)
		if err != nil {
			return req, err
		}
		req.EndDate = &end
	}
	req.ClearEnd = b.ClearEnd

	var err error
	if req.StartMinute, err = parseOptionalMinute(b.StartTime); err != nil {
		return req, err
	}
	if req.EndMinute, err = parseOptionalMinute(b.EndTime); err != nil {
		return req, err
	}
	req.ClearTimes = b.ClearTimes

	req.Note = b.Note
	return req, nil
}
