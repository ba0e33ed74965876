package http

import (
	"time"

	"github.com/myronlou/calendar-booking-backend/internal/availability"
	"github.com/myronlou/calendar-booking-backend/internal/timewindow"
)

type DayResponse struct {
	DayOfWeek int    `json:"day_of_week"`
	DayName   string `json:"day_name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Enabled   bool   `json:"enabled"`
}

func NewDayResponse(rec *availability.WeeklyAvailability) DayResponse {
	return DayResponse{
		DayOfWeek: int(rec.DayOfWeek),
		DayName:   rec.DayOfWeek.String(),
		StartTime: rec.StartMinute.String(),
		EndTime:   rec.EndMinute.String(),
		Enabled:   rec.Enabled,
	}
}

type WeekResponse struct {
	Days []DayResponse `json:"days"`
}

func NewWeekResponse(week availability.Week) WeekResponse {
	days := make([]DayResponse, len(week))
	for i := range week {
		days[i] = NewDayResponse(&week[i])
	}
	return WeekResponse{Days: days}
}

type UpdateDayBody struct {
	DayOfWeek *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Enabled   *bool  `json:"enabled" binding:"required"`
}

func (b *UpdateDayBody) ToUpdateRequest() (availability.UpdateDayRequest, error) {
	var req availability.UpdateDayRequest

	start, err := timewindow.ParseMinute(b.StartTime)
	if err != nil {
		return req, err
	}
	end, err := timewindow.ParseMinute(b.EndTime)
	if err != nil {
		return req, err
	}

	req.DayOfWeek = availability.DayOfWeek(*b.DayOfWeek)
	req.StartMinute = start
	req.EndMinute = end
	req.Enabled = *b.Enabled
	return req, nil
}

type SlotsRequest struct {
	Date          string `form:"date" binding:"required,datetime=2006-01-02"`
	BookingTypeID string `form:"booking_type_id" binding:"required,uuid"`
	StepMinutes   int    `form:"step_minutes" binding:"omitempty,min=1"`
	TZOffset      int    `form:"tz_offset" binding:"omitempty,min=-840,max=840"`
}

// SlotsResponse lists bookable slot starts as UTC "HH:MM" labels alongside
// the full instants, ascending.
type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
	Times []string `json:"times"`
}

func NewSlotsResponse(date time.Time, slots []time.Time) SlotsResponse {
	resp := SlotsResponse{
		Date:  date.Format("2006-01-02"),
		Slots: make([]string, len(slots)),
		Times: make([]string, len(slots)),
	}
	for i, t := range slots {
		resp.Slots[i] = t.Format("15:04")
		resp.Times[i] = t.Format(time.RFC3339)
	}
	return resp
}

type OverlayRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

type IntervalResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type OverlayResponse struct {
	Unavailable []IntervalResponse `json:"unavailable"`
}

func NewOverlayResponse(intervals []timewindow.Interval) OverlayResponse {
	out := OverlayResponse{Unavailable: make([]IntervalResponse, len(intervals))}
	for i, iv := range intervals {
		out.Unavailable[i] = IntervalResponse{Start: iv.Start, End: iv.End}
	}
	return out
}
