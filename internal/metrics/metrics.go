package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingReserved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calendar_booking",
			Name:      "booking_reserved_total",
			Help:      "Count of booking reservation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	slotQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "calendar_booking",
			Name:      "slot_queries_total",
			Help:      "Count of available-slot computations served.",
		},
	)

	otpIssued = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "calendar_booking",
			Name:      "otp_codes_issued_total",
			Help:      "Count of one-time codes issued.",
		},
	)

	otpVerified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "calendar_booking",
			Name:      "otp_verifications_total",
			Help:      "Count of one-time code verification attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingReserved, slotQueries, otpIssued, otpVerified)
	})
}

func IncBookingReserved(outcome string) {
	bookingReserved.WithLabelValues(outcome).Inc()
}

func IncSlotQueries() {
	slotQueries.Inc()
}

func IncOTPIssued() {
	otpIssued.Inc()
}

func IncOTPVerified(outcome string) {
	otpVerified.WithLabelValues(outcome).Inc()
}
