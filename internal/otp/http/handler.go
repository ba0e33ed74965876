package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bookinghttp "github.com/myronlou/calendar-booking-backend/internal/booking/http"
	"github.com/myronlou/calendar-booking-backend/internal/otp"
	"github.com/myronlou/calendar-booking-backend/internal/pkg/response"
)

type Handler struct {
	service otp.Service
}

func NewHandler(service otp.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RequestCode(c *gin.Context) {
	var body RequestCodeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.service.RequestCode(c.Request.Context(), body.Email, otp.PurposeBooking); err != nil {
		response.Error(c, err)
		return
	}

	// Always the same shape regardless of whether the address exists.
	c.JSON(http.StatusAccepted, gin.H{"message": "verification code sent"})
}

func (h *Handler) VerifyCode(c *gin.Context) {
	var body VerifyCodeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	token, err := h.service.VerifyCode(c.Request.Context(), body.Email, otp.PurposeBooking, body.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, VerifyCodeResponse{Token: token})
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	var body CompleteBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, manageToken, err := h.service.CompleteBooking(c.Request.Context(), body.Token, body.ToReserveRequest())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, CompleteBookingResponse{
		Booking:         bookinghttp.NewBookingResponse(b),
		ManagementToken: manageToken,
	})
}
