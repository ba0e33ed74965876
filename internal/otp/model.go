// Package otp implements the email-verification gate in front of customer
// bookings. A customer requests a short-lived numeric code, trades it for a
// signed verification token, and spends that token on exactly one successful
// reservation.
package otp

import (
	"net/http"

	"github.com/myronlou/calendar-booking-backend/internal/pkg/apperror"
)

// Purpose scopes a code or token to one workflow so a code requested for one
// flow can never authorize another.
type Purpose string

const (
	// PurposeBooking gates customer slot reservation.
	PurposeBooking Purpose = "booking"
	// PurposeManage is minted after a successful reservation and lets the
	// customer view or cancel that booking later.
	PurposeManage Purpose = "manage"
)

var (
	ErrCodeExpired = apperror.New(http.StatusUnauthorized, "verification code expired or not found, request a new one")
	ErrCodeInvalid = apperror.New(http.StatusUnauthorized, "verification code is incorrect")

	ErrTokenExpired = apperror.New(http.StatusUnauthorized, "verification token expired, request a new code")
	ErrTokenInvalid = apperror.New(http.StatusUnauthorized, "verification token is invalid")
	ErrTokenUsed    = apperror.New(http.StatusUnauthorized, "verification token already used")

	ErrSendFailed = apperror.New(http.StatusBadGateway, "failed to send verification code")
)
