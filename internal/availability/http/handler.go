package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myronlou/calendar-booking-backend/internal/availability"
	"github.com/myronlou/calendar-booking-backend/internal/pkg/response"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Week(c *gin.Context) {
	week, err := h.service.Week(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWeekResponse(week))
}

func (h *Handler) UpdateDay(c *gin.Context) {
	var body UpdateDayBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req, err := body.ToUpdateRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.service.UpdateDay(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDayResponse(rec))
}

func (h *Handler) Slots(c *gin.Context) {
	var req SlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	date, _ := time.ParseInLocation(dateLayout, req.Date, time.UTC)

	slots, err := h.service.Slots(c.Request.Context(), availability.SlotsRequest{
		Date:                date,
		BookingTypeID:       req.BookingTypeID,
		StepMinutes:         req.StepMinutes,
		CallerOffsetMinutes: req.TZOffset,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewSlotsResponse(date, slots))
}

func (h *Handler) Overlay(c *gin.Context) {
	var req OverlayRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	from, _ := time.ParseInLocation(dateLayout, req.From, time.UTC)
	to, _ := time.ParseInLocation(dateLayout, req.To, time.UTC)
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not be before from"})
		return
	}

	intervals, err := h.service.Overlay(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewOverlayResponse(intervals))
}
