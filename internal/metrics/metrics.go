package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HoldsAcquired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_holds_acquired_total",
		Help: "Seat holds successfully acquired or renewed.",
	})

	HoldConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_hold_conflicts_total",
		Help: "Seat hold attempts rejected because the seat was locked or booked.",
	})

	HoldsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_holds_expired_total",
		Help: "Seat holds demoted to expired by the sweeper.",
	})

	HoldsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_holds_purged_total",
		Help: "Expired seat locks deleted past the retention window.",
	})

	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_bookings_created_total",
		Help: "Bookings confirmed.",
	})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_bookings_cancelled_total",
		Help: "Bookings cancelled.",
	})

	RefundsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_refunds_failed_total",
		Help: "Cancellation refunds that could not be credited to a wallet.",
	})
)
